package backend

import (
	"errors"
	"fmt"
)

// LockedExitCode is the pass exit status when gpg could not decrypt.
const LockedExitCode = 2

var (
	ErrSourceNotFound    = errors.New("source not found")
	ErrDestinationExists = errors.New("destination exists")
	ErrOutsideStore      = errors.New("path outside password store")
)

// LockedError reports that key material is unavailable until the user
// unlocks it.
type LockedError struct {
	Key  string
	Mode Mode
	Err  error
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("key material locked for %s", e.Key)
}

func (e *LockedError) Unwrap() error { return e.Err }

// IsLocked reports whether err is, or wraps, a *LockedError.
func IsLocked(err error) bool {
	var locked *LockedError
	return errors.As(err, &locked)
}

// CommandError describes a pass invocation that exited unsuccessfully.
// Code is -1 when the process never produced an exit status.
type CommandError struct {
	Op     string
	Code   int
	Detail string
	Err    error
}

func (e *CommandError) Error() string {
	msg := e.Op + " failed"
	if e.Code >= 0 {
		msg = fmt.Sprintf("%s: exit status %d", msg, e.Code)
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }
