// Package storage owns the logger's persistent state: a single append-only
// text log (and an optional status snapshot) on the storage medium.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/womat/debug"

	"github.com/sweeney/cave-logger/internal/record"
)

var (
	// ErrMount means the storage medium is not usable at all. Fatal at boot.
	ErrMount = errors.New("storage not mounted")

	// ErrOpen means the log file could not be opened for this append.
	ErrOpen = errors.New("open log file")

	// ErrWrite means the write or sync failed after opening. The file has
	// been restored to its prior length.
	ErrWrite = errors.New("write log file")
)

const probeName = ".mount-probe"

// Log appends records to one named file under a storage root.
// The file is opened, written, synced and closed on every append, so nothing
// is held open across duty cycles.
type Log struct {
	fs     afero.Fs
	root   string
	name   string
	status string
}

// NewLog creates a Log for root/name on fs.
func NewLog(fs afero.Fs, root, name string) *Log {
	return &Log{fs: fs, root: root, name: name}
}

// WithStatusFile sets the name of the status snapshot file written by WriteStatus.
func (l *Log) WithStatusFile(name string) *Log {
	l.status = name
	return l
}

// Path returns the full path of the log file.
func (l *Log) Path() string {
	return filepath.Join(l.root, l.name)
}

// Mount verifies the storage root is a writable directory.
func (l *Log) Mount() error {
	ok, err := afero.DirExists(l.fs, l.root)
	if err != nil {
		return fmt.Errorf("%w: stat %s: %w", ErrMount, l.root, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s is not a directory", ErrMount, l.root)
	}

	probe := filepath.Join(l.root, probeName)
	f, err := l.fs.OpenFile(probe, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %s not writable: %w", ErrMount, l.root, err)
	}
	_ = f.Close()
	if err := l.fs.Remove(probe); err != nil {
		debug.DebugLog.Printf("storage: remove %s: %v", probe, err)
	}

	debug.DebugLog.Printf("storage: mounted %s", l.root)
	return nil
}

// Append durably appends one record line. On success the line has been
// synced to the medium and the file closed. On failure the file's prior
// content and length are unchanged.
func (l *Log) Append(ts record.Timestamp, r record.Reading) error {
	path := l.Path()

	f, err := l.fs.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrOpen, path, err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("%w %s: %w", ErrOpen, path, err)
	}
	prior := fi.Size()

	line := record.Line(ts, r)
	if _, err := f.WriteString(line); err != nil {
		return l.rollback(f, prior, fmt.Errorf("%w %s: %w", ErrWrite, path, err))
	}
	if err := f.Sync(); err != nil {
		return l.rollback(f, prior, fmt.Errorf("%w %s: sync: %w", ErrWrite, path, err))
	}

	// synced data is durable even if close reports an error
	if err := f.Close(); err != nil {
		debug.ErrorLog.Printf("storage: close %s: %v", path, err)
	}

	debug.TraceLog.Printf("storage: appended %q", line)
	return nil
}

func (l *Log) rollback(f afero.File, size int64, cause error) error {
	if err := f.Truncate(size); err != nil {
		debug.ErrorLog.Printf("storage: truncate %s to %d: %v", l.Path(), size, err)
	} else if err := f.Sync(); err != nil {
		debug.ErrorLog.Printf("storage: sync after truncate %s: %v", l.Path(), err)
	}
	_ = f.Close()
	return cause
}

// WriteStatus atomically replaces the status snapshot file with data.
// It is a no-op if no status file is configured.
func (l *Log) WriteStatus(data []byte) error {
	if l.status == "" {
		return nil
	}
	path := filepath.Join(l.root, l.status)

	tmp, err := afero.TempFile(l.fs, l.root, "."+l.status+"-*")
	if err != nil {
		return fmt.Errorf("create status temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = l.fs.Remove(tmpName)
		return fmt.Errorf("write status: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = l.fs.Remove(tmpName)
		return fmt.Errorf("sync status: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = l.fs.Remove(tmpName)
		return fmt.Errorf("close status: %w", err)
	}
	if err := l.fs.Rename(tmpName, path); err != nil {
		_ = l.fs.Remove(tmpName)
		return fmt.Errorf("rename status: %w", err)
	}
	return nil
}
