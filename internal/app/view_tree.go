package app

import (
	"strings"

	"github.com/treykane/pass-tui/internal/session"
	"github.com/treykane/pass-tui/internal/store"
)

func (m *Model) renderTree(width, height int) string {
	innerWidth := max(0, width-paneStyle.GetHorizontalFrameSize())
	innerHeight := max(0, height-paneStyle.GetVerticalFrameSize())

	lines := []string{truncate(m.treeHeader(), innerWidth)}

	rows := m.session.Rows()
	visibleHeight := max(0, innerHeight-len(lines))
	start := min(m.treeOffset, max(0, len(rows)-1))
	end := min(len(rows), start+visibleHeight)

	for i := start; i < end; i++ {
		row := rows[i]
		if i == m.session.Cursor() {
			line := truncate(m.formatRowPlain(row), innerWidth)
			lines = append(lines, selectedStyle.Width(innerWidth).Render(line))
			continue
		}
		lines = append(lines, truncate(m.formatRow(row), innerWidth))
	}
	if len(rows) == 0 {
		empty := "(empty store)"
		if m.session.Filter() != "" {
			empty = "(no matches)"
		}
		lines = append(lines, truncate(mutedStyle.Render(empty), innerWidth))
	}

	content := padBlock(strings.Join(lines, "\n"), innerWidth, innerHeight)
	return paneStyle.
		Width(max(0, width-paneStyle.GetHorizontalBorderSize())).
		Height(max(0, height-paneStyle.GetVerticalBorderSize())).
		Render(content)
}

// treeHeader names the scope of the tree: the current directory, and the
// filter while one is typed or applied.
func (m *Model) treeHeader() string {
	scope := "Store"
	if cwd := m.session.Cwd(); len(cwd) > 0 {
		scope += ": " + store.EncodeKey(cwd) + "/"
	}
	header := titleStyle.Render(scope)
	switch {
	case m.filtering:
		header += " " + m.filter.View()
	case m.session.Filter() != "":
		header += " " + filterStyle.Render("/"+m.session.Filter())
	}
	return header
}

func (m *Model) formatRow(row session.Row) string {
	e := m.session.EntryOf(row)
	name := highlightMatch(e.Name(), m.session.Filter())
	if e.IsDir() {
		name = dirStyle.Render(name + "/")
	}
	return branchStyle.Render(session.TreePrefix(row)) + name
}

// formatRowPlain is formatRow without colour, for the reversed cursor row.
func (m *Model) formatRowPlain(row session.Row) string {
	e := m.session.EntryOf(row)
	name := e.Name()
	if e.IsDir() {
		name += "/"
	}
	return session.TreePrefix(row) + name
}

// highlightMatch marks every non-overlapping occurrence of filter in name.
func highlightMatch(name, filter string) string {
	if filter == "" || !strings.Contains(name, filter) {
		return name
	}
	var b strings.Builder
	for {
		i := strings.Index(name, filter)
		if i < 0 {
			break
		}
		b.WriteString(name[:i])
		b.WriteString(matchStyle.Render(filter))
		name = name[i+len(filter):]
	}
	b.WriteString(name)
	return b.String()
}
