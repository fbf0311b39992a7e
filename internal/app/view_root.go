package app

import "github.com/charmbracelet/lipgloss"

// View draws the full UI (left tree + right pane + status footer).
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	layout := m.calculateLayout()
	footerHeight := max(0, m.height-layout.ContentHeight)
	leftPane := m.renderTree(layout.LeftWidth, layout.ContentHeight)
	rightPane := m.renderRight(layout.RightWidth, layout.ContentHeight)
	row := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
	if overlay := m.renderActiveOverlay(m.width, layout.ContentHeight); overlay != "" {
		row = overlay
	}
	row = padBlock(row, m.width, layout.ContentHeight)

	view := row + "\n" + m.renderStatus(m.width, footerHeight)
	return padBlock(view, m.width, m.height)
}
