package app

import (
	"fmt"
	"strings"

	"github.com/treykane/pass-tui/internal/backend"
	"github.com/treykane/pass-tui/internal/session"
)

func (m *Model) renderRight(width, height int) string {
	innerWidth := max(0, width-previewPane.GetHorizontalFrameSize())
	innerHeight := max(0, height-previewPane.GetVerticalFrameSize())
	contentHeight := max(0, innerHeight-1)

	var content string
	if m.showHelp {
		lines := strings.Split(m.renderHelp(innerWidth), "\n")
		m.helpOffset = clamp(m.helpOffset, 0, max(0, len(lines)-contentHeight))
		content = strings.Join(lines[m.helpOffset:], "\n")
	} else {
		m.viewport.Width = innerWidth
		m.viewport.Height = contentHeight
		content = m.viewport.View()
	}

	header := m.renderRightHeader(innerWidth)
	body := padBlock(content, innerWidth, contentHeight)
	return previewPane.
		Width(max(0, width-previewPane.GetHorizontalBorderSize())).
		Height(max(0, height-previewPane.GetVerticalBorderSize())).
		Render(header + "\n" + body)
}

func (m *Model) rightHeaderText() string {
	if m.showHelp {
		return "Help"
	}
	p := m.session.Preview()
	if p.Phase == session.PreviewIdle {
		return "No entry revealed"
	}
	if p.Mode == backend.ModeQR {
		return p.Key + " (QR)"
	}
	return p.Key
}

func (m *Model) renderRightHeader(width int) string {
	line := " " + truncate(m.rightHeaderText(), max(0, width-1))
	return previewHeader.Width(width).Render(line)
}

// syncViewport loads the session preview into the viewport when it changed
// since the last sync, and scrolls back to the top for new content.
func (m *Model) syncViewport() {
	p := m.session.Preview()
	if p == m.shown && m.viewport.TotalLineCount() > 0 {
		return
	}
	m.shown = p
	m.viewport.SetContent(m.previewContent(p))
	m.viewport.GotoTop()
}

func (m *Model) previewContent(p session.PreviewState) string {
	switch {
	case p.Phase == session.PreviewIdle:
		return mutedStyle.Render(m.revealHint())
	case p.Phase == session.PreviewAwaitingUnlock:
		return mutedStyle.Render(p.Text)
	case p.IsError:
		lines := strings.Split(strings.TrimRight(p.Text, "\n"), "\n")
		for i, line := range lines {
			lines[i] = errorStyle.Render(line)
		}
		return strings.Join(lines, "\n")
	default:
		return p.Text
	}
}

func (m *Model) revealHint() string {
	enter := firstOr(m.actionKeyLabels(actionEnter), "Enter")
	qr := firstOr(m.actionKeyLabels(actionRevealQR), "c")
	return fmt.Sprintf("Press %s (or %s for QR code) to reveal the selected entry", enter, qr)
}

func firstOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return values[0]
}
