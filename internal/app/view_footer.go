package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/treykane/pass-tui/internal/session"
)

func (m *Model) renderStatus(width, rows int) string {
	statusRows, _ := m.buildStatusRows(width, rows)
	for len(statusRows) < rows {
		statusRows = append(statusRows, "")
	}

	rendered := make([]string, 0, len(statusRows))
	for _, line := range statusRows {
		line = " " + truncate(line, max(0, width-1))
		rendered = append(rendered, statusStyle.Width(width).Render(line))
	}
	return strings.Join(rendered, "\n")
}

// buildStatusRows packs status, context and key hints into at most rowLimit
// rows. The status message comes first so it survives narrow terminals. It
// reports false when something had to be cut.
func (m *Model) buildStatusRows(width, rowLimit int) ([]string, bool) {
	if width <= 0 || rowLimit <= 0 {
		return nil, true
	}

	help := m.statusHelpSegments()
	context := m.statusContextSegments()
	status := strings.TrimSpace(m.session.Status())

	segments := make([]string, 0, len(help)+len(context)+1)
	if status != "" {
		segments = append(segments, status)
	}
	segments = append(segments, context...)
	segments = append(segments, help...)

	rows := make([]string, 1, rowLimit)
	rowIndex := 0
	fit := true
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		segment := seg
		if lipgloss.Width(segment) > width {
			segment = truncateWithEllipsis(segment, width)
		}

		candidate := segment
		if rows[rowIndex] != "" {
			candidate = rows[rowIndex] + " | " + segment
		}
		if lipgloss.Width(candidate) <= width {
			rows[rowIndex] = candidate
			continue
		}
		if rowIndex+1 < rowLimit {
			rowIndex++
			rows = append(rows, segment)
			continue
		}

		fit = false
		rows[rowIndex] = truncateWithEllipsis(rows[rowIndex]+" | "+segment, width)
		break
	}
	return rows, fit
}

func (m *Model) statusHelpSegments() []string {
	if m.busy {
		return []string{"Waiting for pass…"}
	}
	if modal := m.session.Modal(); modal != nil {
		if modal.Kind == session.ModalConfirm {
			return []string{"Tab switch", "y/n choose", "Enter confirm", "Esc cancel"}
		}
		return []string{"Enter submit", "Esc cancel"}
	}
	if m.filtering {
		return []string{"type to filter", "Enter apply", "Esc clear"}
	}

	segments := make([]string, 0, len(footerActions))
	for _, action := range footerActions {
		b := m.binding(action)
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		segments = append(segments, h.Key+" "+h.Desc)
	}
	return segments
}

func (m *Model) statusContextSegments() []string {
	parts := make([]string, 0, 2)
	leaves := m.session.Index().Leaves()
	parts = append(parts, fmt.Sprintf("%d entries", leaves))
	if filter := m.session.Filter(); filter != "" {
		parts = append(parts, fmt.Sprintf("%d rows match %q", len(m.session.Rows()), filter))
	}
	return parts
}
