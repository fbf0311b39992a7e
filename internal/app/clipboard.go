package app

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// clipboardWrite is swapped out by tests.
var clipboardWrite = clipboard.WriteAll

// copySelectedKeyToClipboard copies the store key of the selected entry,
// which is what `pass show` and friends take as an argument.
func (m *Model) copySelectedKeyToClipboard() {
	e, ok := m.session.Selected()
	if !ok {
		m.session.SetStatus("Nothing selected")
		return
	}
	if err := clipboardWrite(e.Key()); err != nil {
		m.setStatusError("Clipboard copy failed", err)
		return
	}
	m.session.SetStatus(fmt.Sprintf("Copied key '%s'", e.Key()))
}

// yankSelected asks pass to put the secret on the clipboard. pass clears it
// again after its own timeout.
func (m *Model) yankSelected() {
	key, ok := m.session.SelectedLeafKey()
	if !ok {
		m.session.SetStatus("Select an entry to yank")
		return
	}
	b := m.session.Backend()
	if b == nil {
		m.setStatusError("Yank failed", errNoBackend)
		return
	}
	if err := b.Yank(key); err != nil {
		m.setStatusError("Yank failed: "+firstLine(err.Error()), err, "key", key)
		return
	}
	m.session.SetStatus(fmt.Sprintf("Copied secret of '%s' to clipboard", key))
}
