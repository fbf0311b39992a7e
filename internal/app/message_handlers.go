package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/pass-tui/internal/session"
)

// handleWindowResize processes terminal resize events.
func (m *Model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	layout := m.calculateLayout()
	m.leftHeight = layout.ContentHeight
	m.applyLayout(layout)
	m.adjustTreeOffset()
	return m, nil
}

// handleActionDone settles the session after an interactive action gave
// the terminal back.
func (m *Model) handleActionDone(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.finishAction(msg.action, msg.err)
	return m, m.followUp()
}

// handleUnlockDone retries the reveal that was waiting for a passphrase.
// The retry runs whatever the unlock returned, so a failed unlock shows up
// as an ordinary reveal error instead of another prompt.
func (m *Model) handleUnlockDone(msg unlockDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		appLog.Warn("unlock returned an error", "key", msg.pending.Key, "mode", msg.pending.Mode, "error", msg.err)
	}
	if err := m.session.RequestPreview(msg.pending.Key, msg.pending.Mode, true); err != nil {
		m.setStatusError("Reveal failed: "+firstLine(err.Error()), err, "key", msg.pending.Key)
	}
	if m.staleIndex {
		m.applyMutationEffects(mutationEffects{refreshIndex: true})
	}
	return m, m.followUp()
}

// handleStoreChanged refreshes after the watcher saw the store change. While
// pass owns the terminal the refresh waits until it returns.
func (m *Model) handleStoreChanged() (tea.Model, tea.Cmd) {
	if m.busy {
		m.staleIndex = true
		return m, m.waitForStore()
	}
	appLog.Debug("store changed on disk", "root", m.session.Root())
	m.applyMutationEffects(mutationEffects{refreshIndex: true})
	return m, tea.Batch(m.waitForStore(), m.followUp())
}

func (m *Model) handleWatchError(msg watchErrMsg) (tea.Model, tea.Cmd) {
	appLog.Warn("store watcher error", "error", msg.err)
	return m, m.waitForStore()
}

func actionStatus(a session.PendingAction) string {
	switch a.Kind {
	case session.ActionAdd:
		return fmt.Sprintf("Added '%s'", a.Key)
	case session.ActionEdit:
		return fmt.Sprintf("Edited '%s'", a.Key)
	case session.ActionRename:
		return fmt.Sprintf("Renamed '%s' to '%s'", a.Key, a.To)
	case session.ActionDelete:
		return fmt.Sprintf("Deleted '%s'", a.Key)
	default:
		return ""
	}
}
