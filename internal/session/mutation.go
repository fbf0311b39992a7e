package session

import (
	"fmt"
	"strings"

	"github.com/treykane/pass-tui/internal/store"
)

// Intent is the user request a modal was opened for.
type Intent int

const (
	IntentAdd Intent = iota
	IntentRename
	IntentDelete
)

type ModalKind int

const (
	ModalInput ModalKind = iota
	ModalConfirm
)

// Modal is the open dialog. Input dialogs edit Buffer; confirm dialogs
// toggle Affirm.
type Modal struct {
	Kind    ModalKind
	Intent  Intent
	Title   string
	Message string
	Buffer  string
	Affirm  bool

	// From is the key being renamed or deleted; Dir marks it a directory.
	From      string
	Dir       bool
	Recursive bool
}

// ActionKind names a side effect for the backend.
type ActionKind int

const (
	ActionAdd ActionKind = iota
	ActionEdit
	ActionRename
	ActionDelete
)

func (k ActionKind) String() string {
	switch k {
	case ActionAdd:
		return "add"
	case ActionEdit:
		return "edit"
	case ActionRename:
		return "rename"
	case ActionDelete:
		return "delete"
	default:
		return fmt.Sprintf("action(%d)", int(k))
	}
}

// PendingAction is a validated mutation waiting to be run. Dir is set when
// Key names a directory.
type PendingAction struct {
	Kind      ActionKind
	Key       string
	To        string
	Dir       bool
	Recursive bool
}

// Interactive reports whether running the action needs the terminal.
func (a PendingAction) Interactive() bool {
	return a.Kind == ActionAdd || a.Kind == ActionEdit
}

func (s *Session) Modal() *Modal { return s.modal }

// SetModalBuffer replaces the text of an open input dialog.
func (s *Session) SetModalBuffer(text string) {
	if s.modal != nil && s.modal.Kind == ModalInput {
		s.modal.Buffer = text
	}
}

// ToggleAffirm flips the choice of an open confirm dialog.
func (s *Session) ToggleAffirm() {
	if s.modal != nil && s.modal.Kind == ModalConfirm {
		s.modal.Affirm = !s.modal.Affirm
	}
}

// OpenAdd opens the new-entry dialog prefilled with the directory under the
// cursor, or the parent of the leaf under it.
func (s *Session) OpenAdd() {
	prefix := ""
	if e, ok := s.Selected(); ok {
		if e.IsDir() {
			prefix = e.Key()
		} else {
			prefix = store.EncodeKey(store.Parent(e.Path))
		}
		if prefix != "" {
			prefix += store.KeySeparator
		}
	}
	s.modal = &Modal{Kind: ModalInput, Intent: IntentAdd, Title: "New entry path", Buffer: prefix}
}

// OpenRename opens the rename dialog for the selected entry.
func (s *Session) OpenRename() bool {
	e, ok := s.Selected()
	if !ok {
		s.status = "Nothing selected"
		return false
	}
	s.modal = &Modal{Kind: ModalInput, Intent: IntentRename, Title: "Rename entry", Buffer: e.Key(), From: e.Key(), Dir: e.IsDir()}
	return true
}

// OpenDelete asks for confirmation before deleting the selected entry.
// The target is fixed when the dialog opens.
func (s *Session) OpenDelete() bool {
	e, ok := s.Selected()
	if !ok {
		s.status = "Nothing selected"
		return false
	}
	what := "entry"
	if e.IsDir() {
		what = "directory and everything in it"
	}
	s.modal = &Modal{
		Kind:      ModalConfirm,
		Intent:    IntentDelete,
		Title:     "Confirm Delete",
		Message:   fmt.Sprintf("Delete %s '%s'?", what, e.Key()),
		From:      e.Key(),
		Dir:       e.IsDir(),
		Recursive: e.IsDir(),
	}
	return true
}

// CancelModal closes the dialog without side effects.
func (s *Session) CancelModal() {
	s.modal = nil
}

// QueueEdit queues an edit of the selected leaf.
func (s *Session) QueueEdit() bool {
	key, ok := s.SelectedLeafKey()
	if !ok {
		s.status = "Select an entry to edit"
		return false
	}
	return s.queue(PendingAction{Kind: ActionEdit, Key: key})
}

// SubmitModal validates and closes the open dialog. A valid submission
// queues a PendingAction; rejected input produces none.
func (s *Session) SubmitModal() bool {
	modal := s.modal
	if modal == nil {
		return false
	}
	s.modal = nil

	switch modal.Intent {
	case IntentAdd:
		key := strings.TrimSpace(modal.Buffer)
		if key == "" || strings.HasSuffix(key, store.KeySeparator) {
			return false
		}
		if !validTarget(key) {
			s.status = fmt.Sprintf("Invalid entry path '%s'", key)
			return false
		}
		return s.queue(PendingAction{Kind: ActionAdd, Key: key})

	case IntentRename:
		to := strings.TrimSpace(modal.Buffer)
		if to == "" || to == modal.From {
			return false
		}
		if !validTarget(to) {
			s.status = fmt.Sprintf("Invalid target '%s', rename aborted", to)
			return false
		}
		if s.exists(to) {
			s.status = fmt.Sprintf("Target '%s' exists, rename aborted", to)
			return false
		}
		return s.queue(PendingAction{Kind: ActionRename, Key: modal.From, To: to, Dir: modal.Dir})

	case IntentDelete:
		if !modal.Affirm {
			return false
		}
		return s.queue(PendingAction{Kind: ActionDelete, Key: modal.From, Dir: modal.Dir, Recursive: modal.Recursive})
	}
	return false
}

// validTarget reports whether key stays inside the store: relative, with no
// empty, "." or ".." segments.
func validTarget(key string) bool {
	if strings.HasPrefix(key, store.KeySeparator) {
		return false
	}
	for _, segment := range strings.Split(key, store.KeySeparator) {
		if segment == "" || segment == "." || segment == ".." {
			return false
		}
	}
	return true
}

func (s *Session) queue(a PendingAction) bool {
	if s.pending != nil {
		s.status = "Another action is still pending"
		return false
	}
	s.pending = &a
	sessionLog.Debug("queued action", "kind", a.Kind, "key", a.Key, "to", a.To)
	return true
}

// TakePending removes and returns the queued action.
func (s *Session) TakePending() (PendingAction, bool) {
	if s.pending == nil {
		return PendingAction{}, false
	}
	a := *s.pending
	s.pending = nil
	return a, true
}
