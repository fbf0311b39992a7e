package session

import (
	"errors"

	"github.com/treykane/pass-tui/internal/backend"
)

// LockedPlaceholder is shown while the user is asked to unlock key material.
const LockedPlaceholder = "GPG key locked. Prompting for passphrase…"

var errNoBackend = errors.New("no backend configured")

// PreviewPhase is the state of the preview pane.
type PreviewPhase int

const (
	PreviewIdle PreviewPhase = iota
	PreviewDisplayed
	PreviewAwaitingUnlock
)

func (p PreviewPhase) String() string {
	switch p {
	case PreviewDisplayed:
		return "displayed"
	case PreviewAwaitingUnlock:
		return "awaiting-unlock"
	default:
		return "idle"
	}
}

// PreviewState is what the content pane shows.
type PreviewState struct {
	Phase   PreviewPhase
	Key     string
	Mode    backend.Mode
	Text    string
	IsError bool
}

// PendingPreview marks a reveal waiting for an interactive unlock.
type PendingPreview struct {
	Key  string
	Mode backend.Mode
}

func (s *Session) Preview() PreviewState { return s.preview }

// PendingUnlock returns the reveal that needs an interactive unlock before
// it can be retried. The caller runs the unlock and then always calls
// RequestPreview with allowUnlock set.
func (s *Session) PendingUnlock() (PendingPreview, bool) {
	if s.unlock == nil {
		return PendingPreview{}, false
	}
	return *s.unlock, true
}

// RequestPreview reveals key in mode.
//
// With allowUnlock false, a lock failure is not an error: the preview moves
// to PreviewAwaitingUnlock and PendingUnlock reports the retry. Any other
// failure, or a lock failure on the retry, is shown in the pane and
// returned for the status line.
func (s *Session) RequestPreview(key string, mode backend.Mode, allowUnlock bool) error {
	if s.backend == nil {
		s.unlock = nil
		s.preview = PreviewState{Phase: PreviewDisplayed, Key: key, Mode: mode, Text: errNoBackend.Error(), IsError: true}
		return errNoBackend
	}

	text, err := s.backend.Reveal(key, mode)
	if err == nil {
		s.unlock = nil
		s.preview = PreviewState{Phase: PreviewDisplayed, Key: key, Mode: mode, Text: text}
		return nil
	}

	if !allowUnlock && backend.IsLocked(err) {
		s.unlock = &PendingPreview{Key: key, Mode: mode}
		s.preview = PreviewState{Phase: PreviewAwaitingUnlock, Key: key, Mode: mode, Text: LockedPlaceholder}
		sessionLog.Debug("preview awaiting unlock", "key", key, "mode", mode)
		return nil
	}

	s.unlock = nil
	s.preview = PreviewState{Phase: PreviewDisplayed, Key: key, Mode: mode, Text: err.Error(), IsError: true}
	return err
}

// ShowSelected reveals the selected leaf in mode unless it is already shown
// that way. A selected directory clears the preview without touching the
// backend.
func (s *Session) ShowSelected(mode backend.Mode) error {
	key, ok := s.SelectedLeafKey()
	if !ok {
		s.ClearPreview()
		return nil
	}
	if s.preview.Phase != PreviewIdle && s.preview.Key == key && s.preview.Mode == mode {
		return nil
	}
	return s.RequestPreview(key, mode, false)
}

// SelectionChanged applies the preview rules after the cursor moved or the
// rows changed. With reveal false a leaf keeps whatever was displayed, so
// only explicit reveal keys contact the backend.
func (s *Session) SelectionChanged(reveal bool) error {
	if _, ok := s.SelectedLeafKey(); !ok {
		s.ClearPreview()
		return nil
	}
	if !reveal {
		return nil
	}
	return s.ShowSelected(backend.ModeRaw)
}

// ClearPreview returns the pane to idle and forgets any pending unlock.
func (s *Session) ClearPreview() {
	s.preview = PreviewState{}
	s.unlock = nil
}

// PreviewCurrent reports whether the pane shows the selected leaf.
func (s *Session) PreviewCurrent() bool {
	key, ok := s.SelectedLeafKey()
	return ok && s.preview.Phase != PreviewIdle && s.preview.Key == key
}
