package app

import (
	"errors"
	"testing"

	"github.com/treykane/pass-tui/internal/backend/backendtest"
	"github.com/treykane/pass-tui/internal/store"
)

func TestFilterPromptAppliesOnEnter(t *testing.T) {
	m := newTestModel(t, newTestStore(t, "a/one", "a/two", "b/three"), backendtest.New(nil), WithPreviewOnSelect(false))

	press(m, "/")
	if !m.filtering {
		t.Fatal("expected filter prompt")
	}
	press(m, "o", "n", "e")
	if m.session.Filter() != "" {
		t.Fatal("filter must not apply before enter")
	}
	press(m, "enter")

	if m.filtering {
		t.Fatal("expected prompt to close")
	}
	if got := m.session.Filter(); got != "one" {
		t.Fatalf("expected filter %q, got %q", "one", got)
	}
	var keys []string
	for _, r := range m.session.Rows() {
		keys = append(keys, m.session.EntryOf(r).Key())
	}
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "a/one" {
		t.Fatalf("unexpected filtered rows %v", keys)
	}

	press(m, "esc")
	if m.session.Filter() != "" {
		t.Fatal("esc in browse mode must clear the filter")
	}
}

func TestFilterPromptEscDropsFilter(t *testing.T) {
	m := newTestModel(t, newTestStore(t, "a", "b"), backendtest.New(nil), WithPreviewOnSelect(false))
	m.session.SetFilter("a")

	press(m, "/")
	if got := m.filter.Value(); got != "a" {
		t.Fatalf("expected prompt seeded with active filter, got %q", got)
	}
	press(m, "esc")
	if m.filtering || m.session.Filter() != "" {
		t.Fatal("expected prompt closed and filter cleared")
	}
}

func TestNavigationKeys(t *testing.T) {
	m := newTestModel(t, newTestStore(t, "a/one", "b", "c"), backendtest.New(nil), WithPreviewOnSelect(false))

	press(m, "G")
	if got := selectedKey(m); got != "c" {
		t.Fatalf("expected jump to bottom, got %q", got)
	}
	press(m, "g")
	if got := selectedKey(m); got != "a" {
		t.Fatalf("expected jump to top, got %q", got)
	}
	press(m, "l")
	if len(m.session.Rows()) != 4 {
		t.Fatalf("expected a/ expanded, got %d rows", len(m.session.Rows()))
	}
	press(m, "h")
	if len(m.session.Rows()) != 3 {
		t.Fatalf("expected a/ collapsed, got %d rows", len(m.session.Rows()))
	}
	press(m, "k")
	if m.session.Cursor() != 0 {
		t.Fatal("cursor must clamp at the top")
	}
}

func TestCopyKeyWritesClipboard(t *testing.T) {
	var copied string
	original := clipboardWrite
	clipboardWrite = func(text string) error {
		copied = text
		return nil
	}
	t.Cleanup(func() { clipboardWrite = original })

	m := newTestModel(t, newTestStore(t, "web/site"), backendtest.New(nil), WithPreviewOnSelect(false))
	press(m, "enter", "j", "Y")

	if copied != "web/site" {
		t.Fatalf("expected key on clipboard, got %q", copied)
	}
	if got := m.session.Status(); got != "Copied key 'web/site'" {
		t.Fatalf("unexpected status %q", got)
	}
}

func TestCopyKeyReportsClipboardError(t *testing.T) {
	original := clipboardWrite
	clipboardWrite = func(string) error { return errors.New("no clipboard") }
	t.Cleanup(func() { clipboardWrite = original })

	m := newTestModel(t, newTestStore(t, "x"), backendtest.New(nil), WithPreviewOnSelect(false))
	press(m, "Y")
	if got := m.session.Status(); got != "Clipboard copy failed" {
		t.Fatalf("unexpected status %q", got)
	}
}

func TestYankAsksBackend(t *testing.T) {
	fake := backendtest.New(map[string]string{"x": "1"})
	m := newTestModel(t, newTestStore(t, "a/one", "x"), fake, WithPreviewOnSelect(false))

	press(m, "y")
	if got := m.session.Status(); got != "Select an entry to yank" {
		t.Fatalf("unexpected status on directory %q", got)
	}

	press(m, "j", "y")
	if fake.Count("yank") != 1 {
		t.Fatalf("expected one yank, got %v", fake.Calls)
	}
	if got := m.session.Status(); got != "Copied secret of 'x' to clipboard" {
		t.Fatalf("unexpected status %q", got)
	}
}

func TestRefreshPicksUpNewEntries(t *testing.T) {
	root := newTestStore(t, "a")
	m := newTestModel(t, root, backendtest.New(nil), WithPreviewOnSelect(false))
	mustWriteFile(t, store.LeafPath(root, "b"), "cipher")

	press(m, "R")
	if len(m.session.Rows()) != 2 {
		t.Fatalf("expected 2 rows after refresh, got %d", len(m.session.Rows()))
	}
	if got := m.session.Status(); got != "Refreshed" {
		t.Fatalf("unexpected status %q", got)
	}
}

func TestHelpToggleAndScroll(t *testing.T) {
	m := newTestModel(t, newTestStore(t, "x"), backendtest.New(nil), WithPreviewOnSelect(false))

	press(m, "?")
	if !m.showHelp {
		t.Fatal("expected help shown")
	}
	m.Update(keyMsg("ctrl+d"))
	press(m, "esc")
	if m.showHelp {
		t.Fatal("esc must close help")
	}
}

func TestShouldIgnoreInput(t *testing.T) {
	m := newTestModel(t, newTestStore(t, "x"), backendtest.New(nil), WithPreviewOnSelect(false))

	tests := []struct {
		name string
		msg  string
		want bool
	}{
		{name: "plain letter", msg: "a", want: false},
		{name: "osc reply", msg: "11;rgb:1e1e/1e1e/2e2e", want: true},
		{name: "escape framed reply", msg: "\x1b]11;rgb:ffff/ffff/ffff", want: true},
		{name: "short components", msg: "11;rgb:ff/ff/ff", want: false},
		{name: "control rune", msg: "a\x07", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.shouldIgnoreInput(keyMsg(tt.msg)); got != tt.want {
				t.Fatalf("shouldIgnoreInput(%q): got %v, want %v", tt.msg, got, tt.want)
			}
		})
	}
}

func TestOSCReplyDoesNotReachFilter(t *testing.T) {
	m := newTestModel(t, newTestStore(t, "x"), backendtest.New(nil), WithPreviewOnSelect(false))
	press(m, "/", "11;rgb:1e1e/1e1e/2e2e")
	if got := m.filter.Value(); got != "" {
		t.Fatalf("expected filter untouched, got %q", got)
	}
}
