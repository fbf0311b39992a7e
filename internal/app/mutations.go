package app

import "github.com/treykane/pass-tui/internal/store"

// mutationEffects lists the follow-up work after the store may have changed,
// so every update flow settles the session the same way.
type mutationEffects struct {
	// refreshIndex rebuilds the index from disk and re-registers watched
	// directories.
	refreshIndex bool
	// focusKey moves the cursor onto the entry of that key and focusKind,
	// opening its parents.
	focusKey  string
	focusKind store.Kind
	// resetPreview forgets the displayed secret so the selection is fetched
	// again.
	resetPreview bool
}

// applyMutationEffects centralizes post-mutation side effects. The preview
// is brought back in line with the selection last.
func (m *Model) applyMutationEffects(opts mutationEffects) {
	if opts.refreshIndex {
		if err := m.session.Refresh(); err != nil {
			m.setStatusError("Refresh failed: "+firstLine(err.Error()), err, "root", m.session.Root())
		} else if m.watcher != nil {
			m.watcher.sync(m.session.Index())
		}
		m.staleIndex = false
	}
	if opts.focusKey != "" {
		m.session.Focus(opts.focusKey, opts.focusKind)
	}
	if opts.resetPreview {
		m.session.ClearPreview()
	}
	m.afterRowsChanged()
}
