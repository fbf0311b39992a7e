package app

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/pass-tui/internal/session"
	"github.com/treykane/pass-tui/internal/store"
)

// Model is the Bubble Tea front end over a session.Session.
//
// The session owns every piece of browsing state. The model adds what only
// a terminal needs: widgets, sizes, scroll offsets, and the bookkeeping for
// handing the terminal to pass and taking it back.
type Model struct {
	session *session.Session

	// Key bindings
	keyForAction map[string][]string
	keyToAction  map[string]string
	bindings     map[string]key.Binding

	// UI widgets
	viewport  viewport.Model
	input     textinput.Model
	filter    textinput.Model
	help      help.Model
	filtering bool
	showHelp  bool

	// Help overlay
	helpCache  map[int]string
	helpOffset int

	// Layout sizing
	width      int
	height     int
	leftHeight int
	treeOffset int

	// previewOnSelect reveals the hovered leaf on every selection change.
	previewOnSelect bool

	// busy is set while pass owns the terminal; only one such call runs at a
	// time.
	busy bool
	// staleIndex records store events that arrived while busy.
	staleIndex bool

	watchEnabled bool
	watcher      *storeWatcher
	ignore       []string

	// shown is the preview the viewport currently holds.
	shown session.PreviewState
}

// Option configures a Model.
type Option func(*Model)

// WithPreviewOnSelect controls whether moving the cursor onto a leaf reveals
// it. When off, only Enter and the QR key contact pass.
func WithPreviewOnSelect(on bool) Option {
	return func(m *Model) { m.previewOnSelect = on }
}

// WithWatch enables refreshing when the store changes on disk. The patterns
// are the same ignore globs the index uses.
func WithWatch(on bool, ignore []string) Option {
	return func(m *Model) {
		m.watchEnabled = on
		m.ignore = ignore
	}
}

// WithKeybindings overrides default key bindings by action name.
func WithKeybindings(overrides map[string]string) Option {
	return func(m *Model) { m.loadKeybindings(overrides) }
}

// New wraps s in a UI model. The selection is previewed immediately when
// preview on select is enabled.
func New(s *session.Session, opts ...Option) *Model {
	input := textinput.New()
	input.CharLimit = InputCharLimit
	input.Prompt = "> "

	filter := textinput.New()
	filter.CharLimit = InputCharLimit
	filter.Prompt = "/"

	m := &Model{
		session:         s,
		viewport:        viewport.New(0, 0),
		input:           input,
		filter:          filter,
		help:            help.New(),
		previewOnSelect: true,
	}
	m.loadKeybindings(nil)
	for _, opt := range opts {
		opt(m)
	}

	if m.watchEnabled {
		m.startWatcher()
	}
	m.syncSelection()
	m.syncViewport()
	return m
}

func (m *Model) startWatcher() {
	matcher, err := store.NewMatcher(m.ignore)
	if err != nil {
		appLog.Warn("store watcher disabled", "error", err)
		return
	}
	w, err := newStoreWatcher(m.session.Root(), matcher, WatchDebounce)
	if err != nil {
		appLog.Warn("store watcher disabled", "error", err)
		return
	}
	w.sync(m.session.Index())
	m.watcher = w
}

// Init starts listening for store changes and runs an unlock the first
// preview may already be waiting for.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForStore(), m.followUp())
}

// Update is the Bubble Tea update loop: handle events and emit commands.
// Whatever the event, the preview viewport is brought in line with the
// session before the next redraw.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.update(msg)
	m.syncViewport()
	return model, cmd
}

func (m *Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case actionDoneMsg:
		return m.handleActionDone(msg)
	case unlockDoneMsg:
		return m.handleUnlockDone(msg)
	case storeChangedMsg:
		return m.handleStoreChanged()
	case watchErrMsg:
		return m.handleWatchError(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// Close stops the store watcher.
func (m *Model) Close() error {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.Close()
}
