// watcher.go turns filesystem events under the store into index refreshes.
//
// Every directory in the index is registered with fsnotify, which does not
// recurse on its own. Events are filtered through the same ignore patterns
// as the index, then folded: a burst (pass writes a file, git commits, a
// sync tool drops a tree) becomes a single storeChangedMsg once the store
// has been quiet for the debounce interval. After each refresh the model
// calls sync so new directories are watched and removed ones forgotten.
//
// The watcher goroutine never touches the session. It only hands messages
// to the Bubble Tea loop through waitForStore.
package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/treykane/pass-tui/internal/store"
)

// storeChangedMsg is emitted once per debounced burst of store events.
type storeChangedMsg struct{}

// watchErrMsg carries a non-fatal watcher error to the update loop.
type watchErrMsg struct {
	err error
}

type storeWatcher struct {
	root   string
	ignore store.Matcher
	fs     *fsnotify.Watcher

	mu      sync.Mutex
	watched map[string]bool

	changes chan struct{}
	errs    chan error
	done    chan struct{}
	once    sync.Once
}

func newStoreWatcher(root string, ignore store.Matcher, debounce time.Duration) (*storeWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create store watcher: %w", err)
	}
	w := &storeWatcher{
		root:    root,
		ignore:  ignore,
		fs:      fsWatcher,
		watched: map[string]bool{},
		changes: make(chan struct{}, 1),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	go w.loop(debounce)
	return w, nil
}

// sync watches exactly the directories of index.
func (w *storeWatcher) sync(index store.Index) {
	want := map[string]bool{}
	for _, key := range index.Dirs() {
		want[store.DirPath(w.root, key)] = true
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for dir := range want {
		if w.watched[dir] {
			continue
		}
		if err := w.fs.Add(dir); err != nil {
			appLog.Warn("watch directory", "path", dir, "error", err)
			continue
		}
		w.watched[dir] = true
	}
	for dir := range w.watched {
		if want[dir] {
			continue
		}
		// fsnotify drops watches on deleted directories by itself.
		if err := w.fs.Remove(dir); err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
			appLog.Debug("unwatch directory", "path", dir, "error", err)
		}
		delete(w.watched, dir)
	}
	appLog.Debug("store watcher synced", "directories", len(w.watched))
}

// watchedCount reports how many directories are registered.
func (w *storeWatcher) watchedCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.watched)
}

func (w *storeWatcher) loop(debounce time.Duration) {
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			timer.Reset(debounce)
		case <-timer.C:
			select {
			case w.changes <- struct{}{}:
			default:
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		case <-w.done:
			return
		}
	}
}

// relevant drops attribute-only events and paths under ignored names.
func (w *storeWatcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	return !w.ignore.MatchAny(strings.Split(filepath.ToSlash(rel), "/"))
}

// wait blocks until the next change or error. It returns nil once the
// watcher is closed.
func (w *storeWatcher) wait() tea.Msg {
	select {
	case <-w.changes:
		return storeChangedMsg{}
	case err := <-w.errs:
		return watchErrMsg{err: err}
	case <-w.done:
		return nil
	}
}

func (w *storeWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

// waitForStore listens for the next store change. It is re-armed after
// every message it delivers.
func (m *Model) waitForStore() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.wait
}
