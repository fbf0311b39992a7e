package session

import "strings"

const (
	glyphTee    = "├─ "
	glyphCorner = "└─ "
	glyphPipe   = "│  "
	glyphBlank  = "   "
)

// TreePrefix draws the branch glyphs in front of a row: a continuing bar or
// blank for every ancestor level, then a tee or corner for the row itself.
func TreePrefix(r Row) string {
	var b strings.Builder
	for i, last := range r.Branches {
		switch {
		case i == len(r.Branches)-1 && last:
			b.WriteString(glyphCorner)
		case i == len(r.Branches)-1:
			b.WriteString(glyphTee)
		case last:
			b.WriteString(glyphBlank)
		default:
			b.WriteString(glyphPipe)
		}
	}
	return b.String()
}
