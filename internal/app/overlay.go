package app

// renderActiveOverlay returns the popup that replaces both panes, or "" when
// none is open.
func (m *Model) renderActiveOverlay(width, height int) string {
	if m.session.Modal() != nil {
		return m.renderModalPopup(width, height)
	}
	return ""
}
