// render.go renders the help overlay from the active key bindings.
//
// The reference is generated as markdown and rendered through Glamour, so
// user overrides from config.yaml show up in it. Glamour TermRenderer
// instances are cached per width in a small LRU protected by a mutex, and
// the rendered text is cached on the model until the bindings change.
//
// The style comes from PASS_TUI_GLAMOUR_STYLE or GLAMOUR_STYLE, defaulting
// to "dark".
package app

import (
	"container/list"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

var (
	// maxRendererCacheEntries bounds the number of width-specific Glamour
	// renderers retained in memory.
	maxRendererCacheEntries = 4

	rendererCacheMu    sync.Mutex
	rendererCache      = map[int]*glamour.TermRenderer{}
	rendererCacheOrder = list.New()
	rendererCacheNodes = map[int]*list.Element{}
)

// helpSections groups actions for the help overlay.
var helpSections = []struct {
	title   string
	actions []string
}{
	{"Navigate", []string{actionCursorUp, actionCursorDown, actionJumpTop, actionJumpBottom, actionExpand, actionCollapse}},
	{"Reveal", []string{actionEnter, actionRevealQR, actionYank, actionCopyKey, actionPreviewScrollPageUp, actionPreviewScrollPageDown, actionPreviewScrollHalfUp, actionPreviewScrollHalfDown}},
	{"Change", []string{actionAdd, actionEdit, actionRename, actionDelete, actionRefresh}},
	{"View", []string{actionFilter, actionClear, actionHelp, actionQuit}},
}

// helpMarkdown lists every bound action with its keys.
func (m *Model) helpMarkdown() string {
	var b strings.Builder
	b.WriteString("# Keys\n")
	for _, section := range helpSections {
		fmt.Fprintf(&b, "\n## %s\n\n| Key | Action |\n| --- | --- |\n", section.title)
		for _, action := range section.actions {
			labels := m.actionKeyLabels(action)
			if len(labels) == 0 {
				continue
			}
			fmt.Fprintf(&b, "| `%s` | %s |\n", strings.Join(labels, "`, `"), actionHelpText[action])
		}
	}
	b.WriteString("\n## Dialogs\n\n")
	b.WriteString("Enter submits and Esc cancels. The delete dialog starts on *Cancel*; ")
	b.WriteString("Tab or the arrow keys switch the choice.\n\n")
	b.WriteString("Locked entries hand the terminal to pass so gpg can ask for the passphrase.\n")
	return b.String()
}

// renderHelp returns the help overlay for the given width.
func (m *Model) renderHelp(width int) string {
	if width <= 0 {
		return ""
	}
	if cached, ok := m.helpCache[width]; ok {
		return cached
	}
	if m.helpCache == nil {
		m.helpCache = map[int]string{}
	}
	out := renderMarkdown(m.helpMarkdown(), width)
	m.helpCache[width] = out
	return out
}

// renderMarkdown converts markdown to ANSI output. If rendering fails the
// raw markdown is returned so the user still sees the content.
func renderMarkdown(content string, width int) string {
	if width <= 0 {
		width = 80
	}
	renderer, err := getRenderer(width)
	if err != nil {
		appLog.Error("create markdown renderer", "width", width, "error", err)
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		appLog.Error("render markdown content", "width", width, "error", err)
		return content
	}
	return strings.Trim(out, "\n")
}

// getRenderer returns a cached Glamour TermRenderer for the given width.
func getRenderer(width int) (*glamour.TermRenderer, error) {
	rendererCacheMu.Lock()
	defer rendererCacheMu.Unlock()
	if renderer, ok := rendererCache[width]; ok {
		if node, ok := rendererCacheNodes[width]; ok {
			rendererCacheOrder.MoveToBack(node)
		}
		return renderer, nil
	}
	renderer, err := glamour.NewTermRenderer(
		glamourStyleOption(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	rendererCache[width] = renderer
	rendererCacheNodes[width] = rendererCacheOrder.PushBack(width)
	evictOldestRendererIfNeeded()
	return renderer, nil
}

func evictOldestRendererIfNeeded() {
	for len(rendererCache) > maxRendererCacheEntries && rendererCacheOrder.Len() > 0 {
		oldest := rendererCacheOrder.Front()
		width, _ := oldest.Value.(int)
		rendererCacheOrder.Remove(oldest)
		delete(rendererCache, width)
		delete(rendererCacheNodes, width)
	}
}

func resetRendererCacheForTests() {
	rendererCacheMu.Lock()
	defer rendererCacheMu.Unlock()
	rendererCache = map[int]*glamour.TermRenderer{}
	rendererCacheOrder = list.New()
	rendererCacheNodes = map[int]*list.Element{}
}

// glamourStyleOption resolves the Glamour style: PASS_TUI_GLAMOUR_STYLE,
// then GLAMOUR_STYLE, then "dark". "auto" queries the terminal background,
// which the input guard filters out of typed text.
func glamourStyleOption() glamour.TermRendererOption {
	style := strings.ToLower(strings.TrimSpace(os.Getenv("PASS_TUI_GLAMOUR_STYLE")))
	if style == "" {
		style = strings.ToLower(strings.TrimSpace(os.Getenv("GLAMOUR_STYLE")))
	}
	switch style {
	case "auto":
		return glamour.WithAutoStyle()
	case "dark", "light", "notty":
		return glamour.WithStandardStyle(style)
	default:
		return glamour.WithStandardStyle("dark")
	}
}
