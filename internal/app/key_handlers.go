package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/pass-tui/internal/backend"
	"github.com/treykane/pass-tui/internal/session"
)

// handleKey routes a key press to the active input context: an open dialog,
// the filter prompt, or browse mode. Any action queued by the key, or
// unlock requested by a reveal, is started before the next redraw.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy || m.shouldIgnoreInput(msg) {
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case m.session.Modal() != nil:
		cmd = m.handleModalKey(msg)
	case m.filtering:
		cmd = m.handleFilterKey(msg)
	default:
		_, cmd = m.handleBrowseKey(msg.String())
	}
	return m, tea.Batch(cmd, m.followUp())
}

func (m *Model) handleBrowseKey(key string) (tea.Model, tea.Cmd) {
	switch m.actionForKey(key) {
	case actionQuit:
		return m, tea.Quit
	case actionHelp:
		m.showHelp = !m.showHelp
		m.helpOffset = 0
	case actionCursorUp:
		m.moveCursor(-1)
	case actionCursorDown:
		m.moveCursor(1)
	case actionJumpTop:
		m.setCursor(0)
	case actionJumpBottom:
		m.setCursor(len(m.session.Rows()) - 1)
	case actionEnter:
		m.enter()
	case actionExpand:
		if m.session.Expand() {
			m.afterRowsChanged()
		}
	case actionCollapse:
		if m.session.Collapse() {
			m.afterRowsChanged()
		}
	case actionRevealQR:
		m.reveal(backend.ModeQR)
	case actionFilter:
		return m, m.openFilter()
	case actionClear:
		if m.showHelp {
			m.showHelp = false
			break
		}
		m.session.ClearStatus()
		if m.session.Filter() != "" {
			m.session.SetFilter("")
			m.afterRowsChanged()
		}
	case actionRefresh:
		m.applyMutationEffects(mutationEffects{refreshIndex: true})
		if m.session.Status() == "" {
			m.session.SetStatus("Refreshed")
		}
	case actionYank:
		m.yankSelected()
	case actionCopyKey:
		m.copySelectedKeyToClipboard()
	case actionEdit:
		m.session.QueueEdit()
	case actionAdd:
		m.session.OpenAdd()
		return m, m.openModalInput()
	case actionRename:
		if m.session.OpenRename() {
			return m, m.openModalInput()
		}
	case actionDelete:
		m.session.OpenDelete()
	case actionPreviewScrollPageUp:
		m.scrollPreview(-max(1, m.viewport.Height))
	case actionPreviewScrollPageDown:
		m.scrollPreview(max(1, m.viewport.Height))
	case actionPreviewScrollHalfUp:
		m.scrollPreview(-max(1, m.viewport.Height/2))
	case actionPreviewScrollHalfDown:
		m.scrollPreview(max(1, m.viewport.Height/2))
	}
	return m, nil
}

// enter toggles a directory, or reveals a leaf as plain text.
func (m *Model) enter() {
	e, ok := m.session.Selected()
	if !ok {
		return
	}
	if e.IsDir() {
		m.session.Enter()
		m.afterRowsChanged()
		return
	}
	m.reveal(backend.ModeRaw)
}

func (m *Model) reveal(mode backend.Mode) {
	key, ok := m.session.SelectedLeafKey()
	if !ok {
		return
	}
	if err := m.session.ShowSelected(mode); err != nil {
		m.setStatusError("Reveal failed: "+firstLine(err.Error()), err, "key", key, "mode", mode)
	}
}

// scrollPreview scrolls whatever the right pane shows.
func (m *Model) scrollPreview(delta int) {
	if m.showHelp {
		m.helpOffset = max(0, m.helpOffset+delta)
		return
	}
	m.viewport.SetYOffset(m.viewport.YOffset + delta)
}

// ---------------------------------------------------------------------------
// Filter prompt
// ---------------------------------------------------------------------------

func (m *Model) openFilter() tea.Cmd {
	m.filtering = true
	m.filter.SetValue(m.session.Filter())
	m.filter.CursorEnd()
	return m.filter.Focus()
}

// handleFilterKey edits the filter. Enter applies it; Esc drops it.
func (m *Model) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.closeFilter()
		m.session.SetFilter("")
		m.afterRowsChanged()
		return nil
	case "enter":
		value := m.filter.Value()
		m.closeFilter()
		m.session.SetFilter(value)
		m.afterRowsChanged()
		return nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return cmd
}

func (m *Model) closeFilter() {
	m.filtering = false
	m.filter.Blur()
	m.filter.SetValue("")
}

// ---------------------------------------------------------------------------
// Dialogs
// ---------------------------------------------------------------------------

func (m *Model) openModalInput() tea.Cmd {
	modal := m.session.Modal()
	if modal == nil || modal.Kind != session.ModalInput {
		return nil
	}
	m.input.SetValue(modal.Buffer)
	m.input.CursorEnd()
	return m.input.Focus()
}

// handleModalKey drives the open dialog. Enter submits, Esc cancels. A
// confirm dialog switches its choice with Tab or the arrow keys and accepts
// y/n as shortcuts for picking a side.
func (m *Model) handleModalKey(msg tea.KeyMsg) tea.Cmd {
	modal := m.session.Modal()
	switch msg.String() {
	case "esc":
		m.session.CancelModal()
		m.input.Blur()
		return nil
	case "enter":
		if modal.Kind == session.ModalInput {
			m.session.SetModalBuffer(m.input.Value())
		}
		m.input.Blur()
		m.session.SubmitModal()
		return nil
	}

	if modal.Kind == session.ModalConfirm {
		switch msg.String() {
		case "tab", "shift+tab", "left", "right", "h", "l":
			m.session.ToggleAffirm()
		case "y":
			if !modal.Affirm {
				m.session.ToggleAffirm()
			}
		case "n":
			if modal.Affirm {
				m.session.ToggleAffirm()
			}
		}
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.session.SetModalBuffer(m.input.Value())
	return cmd
}
