// Package backend runs password store operations through the pass command.
package backend

import "fmt"

// Mode selects how a secret is rendered when revealed.
type Mode int

const (
	ModeRaw Mode = iota
	ModeQR
)

func (m Mode) String() string {
	switch m {
	case ModeRaw:
		return "raw"
	case ModeQR:
		return "qr"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Backend is every external operation the browser needs.
//
// Unlock, Add and Edit are interactive: callers must release the terminal
// before invoking them. The others capture or discard output.
type Backend interface {
	// Reveal returns the rendered secret. A failure caused by unavailable
	// key material is reported as *LockedError.
	Reveal(key string, mode Mode) (string, error)
	// Unlock gives the user a chance to supply a passphrase for key.
	Unlock(key string, mode Mode) error
	Add(key string) error
	Edit(key string) error
	Remove(key string, recursive bool) error
	Move(from, to string) error
	// Yank copies the secret to the clipboard through pass itself.
	Yank(key string) error
}
