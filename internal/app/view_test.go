package app

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/treykane/pass-tui/internal/backend/backendtest"
)

func TestViewBeforeResizeShowsLoading(t *testing.T) {
	fake := backendtest.New(nil)
	m := newTestModel(t, newTestStore(t, "x"), fake, WithPreviewOnSelect(false))
	m.width, m.height = 0, 0
	if got := m.View(); got != "Loading..." {
		t.Fatalf("expected loading view, got %q", got)
	}
}

func TestViewDrawsTreeAndPreview(t *testing.T) {
	fake := backendtest.New(map[string]string{"mail/work": "s3cret"})
	m := newTestModel(t, newTestStore(t, "mail/home", "mail/work", "bank"), fake)
	press(m, "enter", "j", "j")

	view := m.View()
	for _, want := range []string{"Store", "bank", "mail/", "home", "└─ work", "s3cret"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
	if got := lipgloss.Height(view); got != 30 {
		t.Fatalf("expected view height 30, got %d", got)
	}
	for i, line := range strings.Split(view, "\n") {
		if w := lipgloss.Width(line); w > 120 {
			t.Fatalf("line %d is %d cells wide", i, w)
		}
	}
}

func TestViewShowsRevealHintWhenIdle(t *testing.T) {
	m := newTestModel(t, newTestStore(t, "x"), backendtest.New(nil), WithPreviewOnSelect(false))
	view := m.View()
	if !strings.Contains(view, "No entry revealed") {
		t.Fatalf("expected idle header in view:\n%s", view)
	}
	if !strings.Contains(view, "Press Enter (or c for QR code)") {
		t.Fatalf("expected reveal hint in view:\n%s", view)
	}
}

func TestViewShowsEmptyAndNoMatches(t *testing.T) {
	m := newTestModel(t, newTestStore(t), backendtest.New(nil), WithPreviewOnSelect(false))
	if !strings.Contains(m.View(), "(empty store)") {
		t.Fatal("expected empty store marker")
	}

	m = newTestModel(t, newTestStore(t, "x"), backendtest.New(nil), WithPreviewOnSelect(false))
	m.session.SetFilter("zz")
	m.afterRowsChanged()
	view := m.View()
	if !strings.Contains(view, "(no matches)") || !strings.Contains(view, "/zz") {
		t.Fatalf("expected no-match marker and filter in view:\n%s", view)
	}
}

func TestViewShowsConfirmDialog(t *testing.T) {
	m := newTestModel(t, newTestStore(t, "x"), backendtest.New(nil), WithPreviewOnSelect(false))
	press(m, "d")

	view := m.View()
	for _, want := range []string{"Confirm Delete", "Delete entry 'x'?", "Cancel", "OK"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestViewShowsHelp(t *testing.T) {
	t.Setenv("PASS_TUI_GLAMOUR_STYLE", "notty")
	resetRendererCacheForTests()
	t.Cleanup(resetRendererCacheForTests)

	m := newTestModel(t, newTestStore(t, "x"), backendtest.New(nil), WithPreviewOnSelect(false))
	press(m, "?")

	view := m.View()
	if !strings.Contains(view, "Help") || !strings.Contains(view, "Keys") {
		t.Fatalf("expected help in view:\n%s", view)
	}
}

func TestHelpMarkdownFollowsOverrides(t *testing.T) {
	m := newTestModel(t, newTestStore(t, "x"), backendtest.New(nil),
		WithPreviewOnSelect(false),
		WithKeybindings(map[string]string{"entry.edit": "ctrl+e"}),
	)
	md := m.helpMarkdown()
	if !strings.Contains(md, "| `Ctrl+e` | edit |") {
		t.Fatalf("expected overridden key in help:\n%s", md)
	}
}

func TestBuildStatusRowsFitsOrTruncates(t *testing.T) {
	m := newTestModel(t, newTestStore(t, "x"), backendtest.New(nil), WithPreviewOnSelect(false))
	m.session.SetStatus("Deleted 'x'")

	rows, fit := m.buildStatusRows(400, 1)
	if !fit || len(rows) != 1 {
		t.Fatalf("expected everything on one wide row, got %v fit=%v", rows, fit)
	}
	if !strings.HasPrefix(rows[0], "Deleted 'x' | 1 entries") {
		t.Fatalf("expected status first, got %q", rows[0])
	}

	rows, fit = m.buildStatusRows(30, 1)
	if fit {
		t.Fatal("expected narrow footer not to fit")
	}
	if w := lipgloss.Width(rows[0]); w > 30 {
		t.Fatalf("row is %d cells wide", w)
	}
	if !strings.HasSuffix(rows[0], "…") {
		t.Fatalf("expected ellipsis, got %q", rows[0])
	}
}

func TestStatusShowsFilterContext(t *testing.T) {
	m := newTestModel(t, newTestStore(t, "a/one", "b"), backendtest.New(nil), WithPreviewOnSelect(false))
	m.session.SetFilter("one")
	m.afterRowsChanged()

	rows, _ := m.buildStatusRows(400, 1)
	if !strings.Contains(rows[0], `2 rows match "one"`) {
		t.Fatalf("expected match count, got %q", rows[0])
	}
}

func TestHighlightMatchMarksEveryOccurrence(t *testing.T) {
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.ANSI256)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })

	marked := matchStyle.Render("ab")
	if marked == "ab" {
		t.Fatal("expected match style to emit escape codes")
	}
	if got, want := highlightMatch("abcab", "ab"), marked+"c"+marked; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if got, want := highlightMatch("xababx", "ab"), "x"+marked+marked+"x"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	for _, filter := range []string{"", "zz"} {
		if got := highlightMatch("abcab", filter); got != "abcab" {
			t.Fatalf("filter %q: expected name unchanged, got %q", filter, got)
		}
	}
}
