package app

import (
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// ---------------------------------------------------------------------------
// Action constants
// ---------------------------------------------------------------------------
//
// Each constant identifies a user-triggerable action in browse mode. A key
// press is looked up in keyToAction and the resulting action is dispatched
// in handleBrowseKey. Users override assignments through the "keys" map in
// config.yaml.
// ---------------------------------------------------------------------------

const (
	actionCursorUp   = "tree.cursor.up"
	actionCursorDown = "tree.cursor.down"
	actionJumpTop    = "tree.jump.top"
	actionJumpBottom = "tree.jump.bottom"

	// actionEnter toggles a directory, or reveals a leaf as plain text.
	actionEnter    = "tree.enter"
	actionExpand   = "tree.expand"
	actionCollapse = "tree.collapse"

	// actionFilter opens the filter input seeded with the active filter.
	actionFilter = "tree.filter"

	// actionClear drops the filter and the status message.
	actionClear = "tree.clear"

	// actionRefresh rebuilds the index from disk.
	actionRefresh = "tree.refresh"

	// actionRevealQR reveals the selected leaf as a QR code.
	actionRevealQR = "entry.qr"

	// actionYank asks pass to put the secret on the clipboard.
	actionYank = "entry.yank"

	// actionCopyKey copies the store key of the selection, not its secret.
	actionCopyKey = "entry.copy_key"

	actionEdit   = "entry.edit"
	actionAdd    = "entry.add"
	actionRename = "entry.rename"
	actionDelete = "entry.delete"

	actionPreviewScrollPageUp   = "preview.scroll.page_up"
	actionPreviewScrollPageDown = "preview.scroll.page_down"
	actionPreviewScrollHalfUp   = "preview.scroll.half_up"
	actionPreviewScrollHalfDown = "preview.scroll.half_down"

	actionHelp = "help.toggle"
	actionQuit = "app.quit"
)

// defaultActionKeys maps each action to its factory-default key bindings.
//
// Key strings use the Bubble Tea notation: "ctrl+", "alt+" and "shift+"
// modifiers, named keys such as "enter" or "pgup", and single characters.
var defaultActionKeys = map[string][]string{
	actionCursorUp:              {"up", "k"},
	actionCursorDown:            {"down", "j"},
	actionJumpTop:               {"g", "home"},
	actionJumpBottom:            {"shift+g", "end"},
	actionEnter:                 {"enter"},
	actionExpand:                {"right", "l"},
	actionCollapse:              {"left", "h"},
	actionFilter:                {"/"},
	actionClear:                 {"esc"},
	actionRefresh:               {"ctrl+r", "shift+r"},
	actionRevealQR:              {"c"},
	actionYank:                  {"y"},
	actionCopyKey:               {"shift+y"},
	actionEdit:                  {"e"},
	actionAdd:                   {"a"},
	actionRename:                {"r"},
	actionDelete:                {"d"},
	actionPreviewScrollPageUp:   {"pgup"},
	actionPreviewScrollPageDown: {"pgdown"},
	actionPreviewScrollHalfUp:   {"ctrl+u"},
	actionPreviewScrollHalfDown: {"ctrl+d"},
	actionHelp:                  {"?"},
	actionQuit:                  {"q", "ctrl+c"},
}

// actionHelpText is the short description shown in the footer and the help
// overlay.
var actionHelpText = map[string]string{
	actionCursorUp:              "up",
	actionCursorDown:            "down",
	actionJumpTop:               "top",
	actionJumpBottom:            "bottom",
	actionEnter:                 "open/reveal",
	actionExpand:                "expand",
	actionCollapse:              "collapse",
	actionFilter:                "filter",
	actionClear:                 "clear",
	actionRefresh:               "refresh",
	actionRevealQR:              "qr",
	actionYank:                  "yank secret",
	actionCopyKey:               "copy key",
	actionEdit:                  "edit",
	actionAdd:                   "add",
	actionRename:                "rename",
	actionDelete:                "delete",
	actionPreviewScrollPageUp:   "page up",
	actionPreviewScrollPageDown: "page down",
	actionPreviewScrollHalfUp:   "half up",
	actionPreviewScrollHalfDown: "half down",
	actionHelp:                  "help",
	actionQuit:                  "quit",
}

// footerActions lists, in order, the actions advertised in the status bar.
var footerActions = []string{
	actionCursorDown,
	actionEnter,
	actionRevealQR,
	actionFilter,
	actionYank,
	actionEdit,
	actionAdd,
	actionRename,
	actionDelete,
	actionHelp,
	actionQuit,
}

// ---------------------------------------------------------------------------
// Keybinding initialization
// ---------------------------------------------------------------------------

// loadKeybindings builds the key↔action maps from defaultActionKeys with
// overrides layered on top. An override replaces the action's full default
// key set. Unknown actions are logged and ignored.
func (m *Model) loadKeybindings(overrides map[string]string) {
	m.keyForAction = map[string][]string{}
	for action, keys := range defaultActionKeys {
		m.keyForAction[action] = append([]string(nil), keys...)
	}
	for action, key := range overrides {
		m.applyKeybindingOverride(action, key)
	}
	m.rebuildActionKeyIndex()
	m.helpCache = nil
}

func (m *Model) applyKeybindingOverride(action, key string) {
	action = strings.TrimSpace(action)
	key = normalizeKeyString(key)
	if action == "" || key == "" {
		return
	}
	if _, ok := defaultActionKeys[action]; !ok {
		appLog.Warn("ignore unknown keybinding action", "action", action)
		return
	}
	m.keyForAction[action] = []string{key}
}

// rebuildActionKeyIndex constructs the reverse lookup map and the
// key.Binding used for help rendering.
//
// When two actions claim the same key, the action that sorts first keeps
// it and the conflict is logged.
func (m *Model) rebuildActionKeyIndex() {
	actions := make([]string, 0, len(m.keyForAction))
	for action := range m.keyForAction {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	m.keyToAction = map[string]string{}
	m.bindings = map[string]key.Binding{}
	for _, action := range actions {
		var bound []string
		for _, k := range m.keyForAction[action] {
			if k == "" {
				continue
			}
			if existing, ok := m.keyToAction[k]; ok && existing != action {
				appLog.Warn("keybinding conflict ignored", "key", k, "action", action, "existing_action", existing)
				continue
			}
			m.keyToAction[k] = action
			bound = append(bound, k)
		}
		m.bindings[action] = key.NewBinding(
			key.WithKeys(bound...),
			key.WithHelp(strings.Join(m.actionKeyLabels(action), "/"), actionHelpText[action]),
		)
	}
}

// ---------------------------------------------------------------------------
// Key string normalization
// ---------------------------------------------------------------------------

// normalizeKeyString converts a user-provided key string into the canonical
// lowercase form used by the keybinding maps.
//
// A single uppercase letter becomes "shift+<letter>", because Bubble Tea
// reports shifted letters as uppercase runes:
//
//	normalizeKeyString("Ctrl+R")  → "ctrl+r"
//	normalizeKeyString(" Y ")     → "shift+y"
//	normalizeKeyString("")        → ""
func normalizeKeyString(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if len([]rune(key)) == 1 && strings.ToUpper(key) == key && strings.ToLower(key) != key {
		return "shift+" + strings.ToLower(key)
	}
	return strings.ToLower(key)
}

// actionForKey looks up the action bound to the given key string.
func (m *Model) actionForKey(key string) string {
	if m.keyToAction == nil {
		return ""
	}
	return m.keyToAction[normalizeKeyString(key)]
}

func (m *Model) actionKeyLabels(action string) []string {
	keys, ok := m.keyForAction[action]
	if !ok || len(keys) == 0 {
		return nil
	}
	labels := make([]string, 0, len(keys))
	for _, k := range keys {
		label := humanizeKeyLabel(k)
		if label == "" || slices.Contains(labels, label) {
			continue
		}
		labels = append(labels, label)
	}
	return labels
}

// binding returns the help-ready binding for action. Disabled bindings are
// returned for unknown actions so callers never need a nil check.
func (m *Model) binding(action string) key.Binding {
	if b, ok := m.bindings[action]; ok {
		return b
	}
	return key.NewBinding(key.WithDisabled())
}

func humanizeKeyLabel(key string) string {
	normalized := normalizeKeyString(key)
	if normalized == "" {
		return ""
	}
	special := map[string]string{
		"up":        "↑",
		"down":      "↓",
		"left":      "←",
		"right":     "→",
		"enter":     "Enter",
		"esc":       "Esc",
		"tab":       "Tab",
		"home":      "Home",
		"end":       "End",
		"pgup":      "PgUp",
		"pgdown":    "PgDn",
		"space":     "Space",
		"backspace": "Backspace",
	}
	parts := strings.Split(normalized, "+")
	// A trailing "+" is the plus key itself, not a separator.
	if strings.HasSuffix(normalized, "+") {
		parts = append(parts[:len(parts)-2], "+")
	}
	for i, part := range parts {
		switch part {
		case "ctrl":
			parts[i] = "Ctrl"
		case "alt":
			parts[i] = "Alt"
		case "shift":
			parts[i] = "Shift"
		default:
			if label, ok := special[part]; ok {
				parts[i] = label
				continue
			}
			runes := []rune(part)
			if len(runes) == 1 {
				continue
			}
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	// Shift+letter reads better as the capital letter.
	if len(parts) == 2 && parts[0] == "Shift" && len([]rune(parts[1])) == 1 {
		return strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "+")
}
