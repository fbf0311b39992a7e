// Package backendtest provides an in-memory backend.Backend for tests.
package backendtest

import (
	"fmt"
	"strings"

	"github.com/treykane/pass-tui/internal/backend"
)

// Call records one backend invocation.
type Call struct {
	Op   string
	Key  string
	Arg  string
	Mode backend.Mode
}

func (c Call) String() string {
	parts := []string{c.Op, c.Key}
	if c.Arg != "" {
		parts = append(parts, c.Arg)
	}
	return strings.Join(parts, " ")
}

// Fake serves secrets from Secrets and records every call. Keys listed in
// Locked fail to reveal with *backend.LockedError until Unlock succeeds for
// them.
type Fake struct {
	Secrets map[string]string
	Locked  map[string]bool

	// Errs forces an operation ("reveal", "unlock", "add", "edit",
	// "remove", "move", "yank") to fail.
	Errs map[string]error

	Calls []Call
}

var _ backend.Backend = (*Fake)(nil)

// New returns a Fake holding the given secrets.
func New(secrets map[string]string) *Fake {
	if secrets == nil {
		secrets = map[string]string{}
	}
	return &Fake{Secrets: secrets, Locked: map[string]bool{}, Errs: map[string]error{}}
}

func (f *Fake) record(c Call) error {
	f.Calls = append(f.Calls, c)
	return f.Errs[c.Op]
}

// Count returns how many calls of op were made.
func (f *Fake) Count(op string) int {
	n := 0
	for _, c := range f.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

func (f *Fake) Reveal(key string, mode backend.Mode) (string, error) {
	if err := f.record(Call{Op: "reveal", Key: key, Mode: mode}); err != nil {
		return "", err
	}
	if f.Locked[key] {
		return "", &backend.LockedError{
			Key:  key,
			Mode: mode,
			Err:  &backend.CommandError{Op: "pass show", Code: backend.LockedExitCode},
		}
	}
	secret, ok := f.Secrets[key]
	if !ok {
		return "", &backend.CommandError{Op: "pass show", Code: 1, Detail: fmt.Sprintf("%s is not in the password store.", key)}
	}
	if mode == backend.ModeQR {
		return "QR[" + secret + "]", nil
	}
	return secret, nil
}

func (f *Fake) Unlock(key string, mode backend.Mode) error {
	if err := f.record(Call{Op: "unlock", Key: key, Mode: mode}); err != nil {
		return err
	}
	delete(f.Locked, key)
	return nil
}

func (f *Fake) Add(key string) error {
	if err := f.record(Call{Op: "add", Key: key}); err != nil {
		return err
	}
	f.Secrets[key] = ""
	return nil
}

func (f *Fake) Edit(key string) error {
	return f.record(Call{Op: "edit", Key: key})
}

func (f *Fake) Remove(key string, recursive bool) error {
	arg := ""
	if recursive {
		arg = "-r"
	}
	if err := f.record(Call{Op: "remove", Key: key, Arg: arg}); err != nil {
		return err
	}
	delete(f.Secrets, key)
	return nil
}

func (f *Fake) Move(from, to string) error {
	if err := f.record(Call{Op: "move", Key: from, Arg: to}); err != nil {
		return err
	}
	if secret, ok := f.Secrets[from]; ok {
		delete(f.Secrets, from)
		f.Secrets[to] = secret
	}
	return nil
}

func (f *Fake) Yank(key string) error {
	return f.record(Call{Op: "yank", Key: key})
}
