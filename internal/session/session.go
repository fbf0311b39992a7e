// Package session holds the browsing state of one terminal session over a
// password store: the index, the visible rows, the preview and any pending
// mutation.
//
// A Session is owned by a single event loop. None of its methods are safe
// for concurrent use, and none of them block on user interaction; callers
// run interactive backend steps themselves and report back.
package session

import (
	"fmt"

	"github.com/treykane/pass-tui/internal/backend"
	"github.com/treykane/pass-tui/internal/logging"
	"github.com/treykane/pass-tui/internal/store"
)

var sessionLog = logging.New("session")

// Options configure New.
type Options struct {
	Root    string
	Ignore  []string
	Backend backend.Backend
	// Exists reports whether a key is already taken by a directory or leaf.
	// Defaults to probing the store on disk.
	Exists func(key string) bool
}

// Session is the single owner of index, view, and preview state.
type Session struct {
	root    string
	ignore  []string
	backend backend.Backend
	exists  func(key string) bool

	index store.Index

	cwd      []string
	expanded map[string]bool
	filter   string
	rows     []Row
	cursor   int

	modal   *Modal
	pending *PendingAction

	preview PreviewState
	unlock  *PendingPreview

	status string
}

// New indexes the store and returns a session with the root expanded.
// A missing root fails with store.ErrStoreNotFound.
func New(opts Options) (*Session, error) {
	s := &Session{
		root:     opts.Root,
		ignore:   opts.Ignore,
		backend:  opts.Backend,
		exists:   opts.Exists,
		expanded: map[string]bool{"": true},
	}
	if s.exists == nil {
		s.exists = func(key string) bool { return store.Exists(s.root, key) }
	}

	index, err := store.BuildIndex(s.root, store.Options{Ignore: s.ignore})
	if err != nil {
		return nil, err
	}
	s.index = index
	s.Recompute()
	sessionLog.Info("session started", "root", s.root, "entries", len(index))
	return s, nil
}

// Refresh rebuilds the index from disk and recomputes the rows, keeping the
// cursor on the same key when it still exists.
func (s *Session) Refresh() error {
	selected, hadSelection := s.Selected()

	index, err := store.BuildIndex(s.root, store.Options{Ignore: s.ignore})
	if err != nil {
		return fmt.Errorf("refresh index: %w", err)
	}
	s.index = index
	if len(s.cwd) > 0 {
		if _, ok := s.index.Lookup(store.EncodeKey(s.cwd)); !ok {
			s.cwd = nil
		}
	}
	s.Recompute()

	if hadSelection {
		s.selectKey(selected.Key(), selected.Kind)
	}
	return nil
}

func (s *Session) Root() string { return s.root }

func (s *Session) Index() store.Index { return s.index }

// Backend is the capability set the caller uses for interactive steps.
func (s *Session) Backend() backend.Backend { return s.backend }

// Status is the transient message for the status line.
func (s *Session) Status() string { return s.status }

func (s *Session) SetStatus(status string) { s.status = status }

func (s *Session) ClearStatus() { s.status = "" }
