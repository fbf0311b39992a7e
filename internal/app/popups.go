package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/treykane/pass-tui/internal/session"
)

var (
	inputDialogKeys = []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "submit")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "cancel")),
	}
	confirmDialogKeys = []key.Binding{
		key.NewBinding(key.WithKeys("tab", "left", "right"), key.WithHelp("Tab", "switch")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "choose")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "cancel")),
	}
)

// renderModalPopup draws the open dialog centred over the content area.
func (m *Model) renderModalPopup(width, height int) string {
	modal := m.session.Modal()
	if modal == nil {
		return ""
	}

	popupWidth := min(ModalWidth, max(20, width-4))
	innerWidth := max(0, popupWidth-popupStyle.GetHorizontalFrameSize())

	lines := []string{titleStyle.Render(modal.Title), ""}
	style := popupStyle
	bindings := inputDialogKeys
	switch modal.Kind {
	case session.ModalConfirm:
		style = dangerPopup
		bindings = confirmDialogKeys
		lines = append(lines, modal.Message, "", renderConfirmButtons(modal.Affirm))
	default:
		m.input.Width = max(1, innerWidth-lipgloss.Width(m.input.Prompt)-1)
		lines = append(lines, m.input.View())
	}
	m.help.Width = innerWidth
	lines = append(lines, "", m.help.ShortHelpView(bindings))

	popup := style.Width(max(0, popupWidth-style.GetHorizontalBorderSize())).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, popup)
}

// renderConfirmButtons draws the two choices with the current one
// highlighted.
func renderConfirmButtons(affirm bool) string {
	cancel, ok := activeButton.Render("Cancel"), buttonStyle.Render("OK")
	if affirm {
		cancel, ok = buttonStyle.Render("Cancel"), activeButton.Render("OK")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cancel, " ", ok)
}
