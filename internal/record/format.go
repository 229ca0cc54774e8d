package record

import (
	"fmt"
	"strconv"
)

// Header is the documented column header. The writer never emits it.
const Header = "Date\tTime\tTemperature(°C)\tCO2(ppm)"

// Line formats a record as one tab-separated log line, including the
// trailing newline:
//
//	<day>/<month>/<year>\t<hour>:<MM>\t<temperature %.2f>\t<co2>\n
//
// Day, month, year and hour are not zero-padded; minute always is. Existing
// analysis scripts depend on this exact layout.
func (r LogRecord) Line() string {
	ts := r.Timestamp
	return fmt.Sprintf("%d/%d/%d\t%d:%02d\t%s\t%d\n",
		ts.Day, ts.Month, ts.Year,
		ts.Hour, ts.Minute,
		FormatTemperature(r.Reading.TemperatureC),
		r.Reading.CO2PPM,
	)
}

// FormatTemperature renders a temperature with exactly two decimal places.
func FormatTemperature(c float64) string {
	return strconv.FormatFloat(c, 'f', 2, 64)
}

// Line is shorthand for LogRecord{ts, r}.Line().
func Line(ts Timestamp, r Reading) string {
	return LogRecord{Timestamp: ts, Reading: r}.Line()
}
