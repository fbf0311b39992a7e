package app

import "time"

// Layout constants define the default dimensions and spacing for the UI
const (
	// DefaultTreeWidth is the widest the tree pane gets.
	DefaultTreeWidth = 48

	// TreeWidthDivider determines tree width as terminal_width / this value
	// when the terminal is narrow.
	TreeWidthDivider = 2

	// ModalWidth is the preferred width of the input and confirm dialogs.
	ModalWidth = 56

	// FooterMinRows is the default number of rows reserved for the bottom
	// status/help area.
	FooterMinRows = 1
	// FooterMaxRows is the expanded footer height used when content does not
	// fit within FooterMinRows.
	FooterMaxRows = 2
)

// Input limits define maximum sizes for user input
const (
	// InputCharLimit is the maximum number of characters allowed in text inputs
	InputCharLimit = 256
)

// Watcher constants
const (
	// WatchDebounce folds a burst of store events into one refresh.
	WatchDebounce = 150 * time.Millisecond
)
