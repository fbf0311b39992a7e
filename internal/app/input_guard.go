package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// shouldIgnoreInput drops rune sequences that are not typing: terminal
// replies to background colour queries, which glamour's auto style can
// trigger, and raw control characters. Letting them through would put
// escape garbage into the filter or dialog input.
func (m *Model) shouldIgnoreInput(msg tea.KeyMsg) bool {
	if msg.Type != tea.KeyRunes {
		return false
	}
	sequence := msg.String()
	if isOSCBackgroundResponse(sequence) || containsControlRunes(sequence) {
		appLog.Debug("ignored input", "sequence", sequence)
		return true
	}
	return false
}

// isOSCBackgroundResponse matches "11;rgb:RRRR/GGGG/BBBB" style replies,
// with or without their escape framing.
func isOSCBackgroundResponse(sequence string) bool {
	index := strings.Index(sequence, "rgb:")
	if index == -1 {
		return false
	}
	if !strings.Contains(sequence[:index], ";") && !strings.Contains(sequence, "\x1b") {
		return false
	}
	components := strings.SplitN(sequence[index+len("rgb:"):], "/", 3)
	if len(components) != 3 {
		return false
	}
	for _, component := range components {
		if len(component) < 4 || !isHex(component[:4]) {
			return false
		}
	}
	return true
}

func containsControlRunes(sequence string) bool {
	for _, r := range sequence {
		switch {
		case r == '\n' || r == '\t':
			continue
		case r < 32 || r == 127:
			return true
		}
	}
	return false
}

func isHex(value string) bool {
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
