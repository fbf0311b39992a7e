package app

import (
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/pass-tui/internal/backend"
	"github.com/treykane/pass-tui/internal/session"
	"github.com/treykane/pass-tui/internal/store"
)

var errNoBackend = errors.New("no password store backend configured")

// actionDoneMsg reports an interactive action after the terminal came back.
type actionDoneMsg struct {
	action session.PendingAction
	err    error
}

// unlockDoneMsg reports the interactive unlock for a waiting reveal.
type unlockDoneMsg struct {
	pending session.PendingPreview
	err     error
}

// backendExec implements tea.ExecCommand for a backend call that talks to
// the terminal itself. Bubble Tea releases the terminal around Run; the
// streams it offers are ignored because pass and gpg open the tty directly.
type backendExec struct {
	run func() error
}

func (e backendExec) Run() error { return e.run() }

func (backendExec) SetStdin(io.Reader)  {}
func (backendExec) SetStdout(io.Writer) {}
func (backendExec) SetStderr(io.Writer) {}

// followUp starts the next externally suspending step, if any: a queued
// mutation first, then an unlock a reveal is waiting for. Nothing starts
// while another step still owns the terminal.
func (m *Model) followUp() tea.Cmd {
	if m.busy {
		return nil
	}
	if action, ok := m.session.TakePending(); ok {
		return m.runAction(action)
	}
	if pending, ok := m.session.PendingUnlock(); ok {
		return m.runUnlock(pending)
	}
	return nil
}

// runAction performs a queued mutation. Add and edit open an editor, so they
// run through tea.Exec; rename and delete run in place.
func (m *Model) runAction(a session.PendingAction) tea.Cmd {
	b := m.session.Backend()
	if b == nil {
		m.finishAction(a, errNoBackend)
		return m.followUp()
	}
	if !a.Interactive() {
		m.finishAction(a, performAction(b, a))
		return m.followUp()
	}

	m.busy = true
	appLog.Info("handing terminal to pass", "action", a.Kind, "key", a.Key)
	return tea.Exec(backendExec{run: func() error { return performAction(b, a) }}, func(err error) tea.Msg {
		return actionDoneMsg{action: a, err: err}
	})
}

// runUnlock lets pass prompt for the passphrase of a locked entry.
func (m *Model) runUnlock(p session.PendingPreview) tea.Cmd {
	b := m.session.Backend()
	if b == nil {
		return nil
	}
	m.busy = true
	appLog.Info("handing terminal to pass for unlock", "key", p.Key, "mode", p.Mode)
	return tea.Exec(backendExec{run: func() error { return b.Unlock(p.Key, p.Mode) }}, func(err error) tea.Msg {
		return unlockDoneMsg{pending: p, err: err}
	})
}

func performAction(b backend.Backend, a session.PendingAction) error {
	switch a.Kind {
	case session.ActionAdd:
		return b.Add(a.Key)
	case session.ActionEdit:
		return b.Edit(a.Key)
	case session.ActionRename:
		return b.Move(a.Key, a.To)
	case session.ActionDelete:
		return b.Remove(a.Key, a.Recursive)
	default:
		return fmt.Errorf("unsupported action %s", a.Kind)
	}
}

// finishAction reports the outcome, rebuilds the index and refreshes the
// preview. A failed action still refreshes: it may have changed the store
// before failing.
func (m *Model) finishAction(a session.PendingAction, err error) {
	effects := mutationEffects{refreshIndex: true, resetPreview: true}
	if err != nil {
		m.setStatusError(fmt.Sprintf("Could not %s '%s': %s", a.Kind, a.Key, firstLine(err.Error())), err, "to", a.To)
	} else {
		appLog.Info("action finished", "action", a.Kind, "key", a.Key, "to", a.To)
		m.session.SetStatus(actionStatus(a))
		switch a.Kind {
		case session.ActionAdd, session.ActionEdit:
			effects.focusKey, effects.focusKind = a.Key, store.Leaf
		case session.ActionRename:
			effects.focusKey, effects.focusKind = a.To, store.Leaf
			if a.Dir {
				effects.focusKind = store.Directory
			}
		}
	}
	m.applyMutationEffects(effects)
}
