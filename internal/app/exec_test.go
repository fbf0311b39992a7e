package app

import (
	"errors"
	"testing"

	"github.com/treykane/pass-tui/internal/backend"
	"github.com/treykane/pass-tui/internal/backend/backendtest"
	"github.com/treykane/pass-tui/internal/session"
)

func TestLockedRevealUnlocksThenRetries(t *testing.T) {
	fake := backendtest.New(map[string]string{"solo": "hunter2"})
	fake.Locked["solo"] = true
	m := newTestModel(t, newTestStore(t, "solo"), fake)

	if p := m.session.Preview(); p.Phase != session.PreviewAwaitingUnlock || p.Text != session.LockedPlaceholder {
		t.Fatalf("expected awaiting unlock, got %+v", p)
	}
	if cmd := m.Init(); cmd == nil {
		t.Fatal("expected unlock command from Init")
	}
	if !m.busy {
		t.Fatal("expected model to be busy while pass owns the terminal")
	}

	// The exec command would run this while the terminal is released.
	if err := fake.Unlock("solo", backend.ModeRaw); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	m.Update(unlockDoneMsg{pending: session.PendingPreview{Key: "solo", Mode: backend.ModeRaw}})

	p := m.session.Preview()
	if p.Phase != session.PreviewDisplayed || p.Text != "hunter2" || p.IsError {
		t.Fatalf("expected secret after unlock, got %+v", p)
	}
	if _, ok := m.session.PendingUnlock(); ok {
		t.Fatal("expected no pending unlock after retry")
	}
	if m.busy {
		t.Fatal("expected model to be idle after unlock")
	}
}

func TestFailedUnlockShowsRevealError(t *testing.T) {
	fake := backendtest.New(map[string]string{"solo": "hunter2"})
	fake.Locked["solo"] = true
	m := newTestModel(t, newTestStore(t, "solo"), fake)
	m.Init()

	unlockErr := errors.New("bad passphrase")
	m.Update(unlockDoneMsg{pending: session.PendingPreview{Key: "solo", Mode: backend.ModeRaw}, err: unlockErr})

	p := m.session.Preview()
	if p.Phase != session.PreviewDisplayed || !p.IsError {
		t.Fatalf("expected error preview, got %+v", p)
	}
	if m.busy {
		t.Fatal("expected model to be idle")
	}
	if _, ok := m.session.PendingUnlock(); ok {
		t.Fatal("expected no second unlock prompt")
	}
	if fake.Count("reveal") != 2 {
		t.Fatalf("expected exactly one retry, got %d reveals", fake.Count("reveal"))
	}
}

func TestEditRunsThroughTerminalHandoff(t *testing.T) {
	fake := backendtest.New(map[string]string{"a/one": "1"})
	m := newTestModel(t, newTestStore(t, "a/one"), fake, WithPreviewOnSelect(false))
	press(m, "enter", "j")

	cmd := press(m, "e")
	if cmd == nil {
		t.Fatal("expected exec command for edit")
	}
	if !m.busy {
		t.Fatal("expected model to be busy during edit")
	}
	if fake.Count("edit") != 0 {
		t.Fatal("edit must not run before the terminal is released")
	}

	m.Update(actionDoneMsg{action: session.PendingAction{Kind: session.ActionEdit, Key: "a/one"}})
	if m.busy {
		t.Fatal("expected model to be idle after edit")
	}
	if got := m.session.Status(); got != "Edited 'a/one'" {
		t.Fatalf("unexpected status %q", got)
	}
	if got := selectedKey(m); got != "a/one" {
		t.Fatalf("expected focus on edited key, got %q", got)
	}
}

func TestFailedActionReportsError(t *testing.T) {
	m := newTestModel(t, newTestStore(t, "x"), backendtest.New(nil), WithPreviewOnSelect(false))
	m.busy = true

	m.Update(actionDoneMsg{
		action: session.PendingAction{Kind: session.ActionAdd, Key: "new"},
		err:    errors.New("editor crashed\nmore detail"),
	})
	if got := m.session.Status(); got != "Could not add 'new': editor crashed" {
		t.Fatalf("unexpected status %q", got)
	}
}

func TestAddDialogQueuesAdd(t *testing.T) {
	fake := backendtest.New(nil)
	m := newTestModel(t, newTestStore(t, "web/site"), fake, WithPreviewOnSelect(false))

	press(m, "a")
	modal := m.session.Modal()
	if modal == nil || modal.Intent != session.IntentAdd {
		t.Fatalf("expected add dialog, got %+v", modal)
	}
	if modal.Buffer != "web/" {
		t.Fatalf("expected dialog prefilled with directory, got %q", modal.Buffer)
	}

	press(m, "m", "a", "i", "l")
	if cmd := press(m, "enter"); cmd == nil {
		t.Fatal("expected exec command for add")
	}
	if m.session.Modal() != nil {
		t.Fatal("expected dialog to close")
	}
	if !m.busy {
		t.Fatal("expected add to hand off the terminal")
	}
}

func TestRenameRunsInPlace(t *testing.T) {
	fake := backendtest.New(map[string]string{"x": "1"})
	m := newTestModel(t, newTestStore(t, "x"), fake, WithPreviewOnSelect(false))

	press(m, "r")
	if m.session.Modal() == nil {
		t.Fatal("expected rename dialog")
	}
	m.input.SetValue("y")
	press(m, "enter")

	if fake.Count("move") != 1 {
		t.Fatalf("expected one move, got calls %v", fake.Calls)
	}
	if got := m.session.Status(); got != "Renamed 'x' to 'y'" {
		t.Fatalf("unexpected status %q", got)
	}
	if m.busy {
		t.Fatal("rename must not hand off the terminal")
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	fake := backendtest.New(map[string]string{"a/one": "1", "a/two": "2"})
	m := newTestModel(t, newTestStore(t, "a/one", "a/two"), fake, WithPreviewOnSelect(false))

	press(m, "d", "enter")
	if fake.Count("remove") != 0 {
		t.Fatal("delete must default to cancel")
	}

	press(m, "d", "tab", "enter")
	if len(fake.Calls) != 1 || fake.Calls[0].String() != "remove a -r" {
		t.Fatalf("expected recursive remove of a, got %v", fake.Calls)
	}
	if got := m.session.Status(); got != "Deleted 'a'" {
		t.Fatalf("unexpected status %q", got)
	}
}

func TestDeleteShortcutKeys(t *testing.T) {
	fake := backendtest.New(map[string]string{"x": "1"})
	m := newTestModel(t, newTestStore(t, "x"), fake, WithPreviewOnSelect(false))

	press(m, "d", "y", "n", "enter")
	if fake.Count("remove") != 0 {
		t.Fatal("n must pick cancel")
	}
	press(m, "d", "y", "enter")
	if fake.Count("remove") != 1 {
		t.Fatalf("y must pick OK, got calls %v", fake.Calls)
	}
}

func TestEscCancelsDialog(t *testing.T) {
	fake := backendtest.New(nil)
	m := newTestModel(t, newTestStore(t, "x"), fake, WithPreviewOnSelect(false))

	press(m, "a", "esc")
	if m.session.Modal() != nil {
		t.Fatal("expected dialog to close")
	}
	if len(fake.Calls) != 0 {
		t.Fatalf("expected no backend calls, got %v", fake.Calls)
	}
}

func TestFinishedRenameFocusesEntryOfSameKind(t *testing.T) {
	m := newTestModel(t, newTestStore(t, "email", "email/work", "other"), backendtest.New(nil), WithPreviewOnSelect(false))

	m.Update(actionDoneMsg{action: session.PendingAction{Kind: session.ActionRename, Key: "mail", To: "email", Dir: true}})
	if e, ok := m.session.Selected(); !ok || e.Key() != "email" || !e.IsDir() {
		t.Fatalf("expected directory email selected, got %+v", e)
	}

	m.Update(actionDoneMsg{action: session.PendingAction{Kind: session.ActionRename, Key: "old", To: "email"}})
	if e, ok := m.session.Selected(); !ok || e.Key() != "email" || e.IsDir() {
		t.Fatalf("expected leaf email selected, got %+v", e)
	}
}
