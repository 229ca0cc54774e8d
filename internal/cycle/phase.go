package cycle

// Phase is a state of the duty-cycle controller.
type Phase int

const (
	Initializing Phase = iota
	PowerUp
	Stabilizing
	Acquiring
	Logging
	PowerDown
	Sleeping
	Halted
)

var phaseNames = [...]string{
	Initializing: "Initializing",
	PowerUp:      "PowerUp",
	Stabilizing:  "Stabilizing",
	Acquiring:    "Acquiring",
	Logging:      "Logging",
	PowerDown:    "PowerDown",
	Sleeping:     "Sleeping",
	Halted:       "Halted",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "Unknown"
	}
	return phaseNames[p]
}
