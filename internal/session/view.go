package session

import (
	"slices"
	"strings"

	"github.com/treykane/pass-tui/internal/store"
)

// Row is one line of the tree. Branches holds, for every level from the top
// of the view down to the row itself, whether the entry on that level is the
// last of its siblings.
type Row struct {
	Entry    int
	Branches []bool
}

// Depth is the nesting level below the current directory, starting at 0.
func (r Row) Depth() int { return len(r.Branches) - 1 }

// IsLast reports whether the row is the last of its siblings.
func (r Row) IsLast() bool {
	return len(r.Branches) > 0 && r.Branches[len(r.Branches)-1]
}

// Recompute derives the rows from the index, current directory, filter and
// expanded set, then clamps the cursor.
//
// While a filter is active every directory on the way to a match is shown
// and expanded, without touching the expanded set.
func (s *Session) Recompute() {
	filtering := s.filter != ""

	// Ancestors are always directories. A leaf may share its key with a
	// directory (email.gpg next to email/), so leaves stay out of the map.
	dirByKey := make(map[string]int, len(s.index))
	for i, e := range s.index {
		if e.IsDir() {
			dirByKey[e.Key()] = i
		}
	}

	included := make([]bool, len(s.index))
	for i, e := range s.index {
		if !store.IsStrictDescendant(e.Path, s.cwd) {
			continue
		}
		if filtering && !strings.Contains(e.Name(), s.filter) {
			continue
		}
		included[i] = true
		if !filtering {
			continue
		}
		for anc := store.Parent(e.Path); store.IsStrictDescendant(anc, s.cwd); anc = store.Parent(anc) {
			if j, ok := dirByKey[store.EncodeKey(anc)]; ok {
				included[j] = true
			}
		}
	}

	children := make(map[string][]int)
	for i, ok := range included {
		if !ok {
			continue
		}
		parent := store.EncodeKey(store.Parent(s.relPath(i)))
		children[parent] = append(children[parent], i)
	}
	for _, siblings := range children {
		slices.SortFunc(siblings, func(a, b int) int {
			return store.Compare(s.index[a], s.index[b])
		})
	}

	rows := make([]Row, 0, len(children))
	var walk func(parent string, branches []bool)
	walk = func(parent string, branches []bool) {
		siblings := children[parent]
		for n, i := range siblings {
			own := append(slices.Clone(branches), n == len(siblings)-1)
			rows = append(rows, Row{Entry: i, Branches: own})
			if !s.index[i].IsDir() {
				continue
			}
			key := store.EncodeKey(s.relPath(i))
			if filtering || s.expanded[key] {
				walk(key, own)
			}
		}
	}
	walk("", nil)

	s.rows = rows
	s.clampCursor()
}

func (s *Session) relPath(i int) []string {
	return store.TrimPrefix(s.index[i].Path, s.cwd)
}

func (s *Session) relKey(e store.Entry) string {
	return store.EncodeKey(store.TrimPrefix(e.Path, s.cwd))
}

func (s *Session) clampCursor() {
	if len(s.rows) == 0 {
		s.cursor = 0
		return
	}
	s.cursor = max(0, min(s.cursor, len(s.rows)-1))
}

func (s *Session) Rows() []Row { return s.rows }

func (s *Session) Cursor() int { return s.cursor }

// EntryOf resolves a row to its index entry.
func (s *Session) EntryOf(r Row) store.Entry { return s.index[r.Entry] }

// Selected returns the entry under the cursor.
func (s *Session) Selected() (store.Entry, bool) {
	if s.cursor < 0 || s.cursor >= len(s.rows) {
		return store.Entry{}, false
	}
	return s.index[s.rows[s.cursor].Entry], true
}

// SelectedLeafKey returns the key under the cursor when it is a leaf.
func (s *Session) SelectedLeafKey() (string, bool) {
	e, ok := s.Selected()
	if !ok || e.IsDir() {
		return "", false
	}
	return e.Key(), true
}

// MoveCursor shifts the cursor by delta, clamped to the rows. It reports
// whether the selection changed.
func (s *Session) MoveCursor(delta int) bool {
	return s.SetCursor(s.cursor + delta)
}

// SetCursor places the cursor, clamped to the rows.
func (s *Session) SetCursor(i int) bool {
	before := s.cursor
	s.cursor = i
	s.clampCursor()
	return s.cursor != before
}

func (s *Session) selectKey(key string, kind store.Kind) bool {
	for i, r := range s.rows {
		e := s.index[r.Entry]
		if e.Kind == kind && e.Key() == key {
			s.cursor = i
			return true
		}
	}
	return false
}

// Focus opens every directory between the current one and key, then moves
// the cursor onto the entry of that key and kind. It reports false when the
// entry is not shown, for example because the filter hides it.
func (s *Session) Focus(key string, kind store.Kind) bool {
	path := store.DecodeKey(key)
	if !store.IsStrictDescendant(path, s.cwd) {
		return false
	}
	for dir := store.Parent(path); store.IsStrictDescendant(dir, s.cwd); dir = store.Parent(dir) {
		s.expanded[store.EncodeKey(store.TrimPrefix(dir, s.cwd))] = true
	}
	s.Recompute()
	return s.selectKey(key, kind)
}

// Filter is the active name filter; empty means none.
func (s *Session) Filter() string { return s.filter }

// SetFilter replaces the filter and recomputes.
func (s *Session) SetFilter(filter string) {
	s.filter = filter
	s.Recompute()
}

// Cwd is the directory the view is scoped to.
func (s *Session) Cwd() []string { return s.cwd }

// SetCwd scopes the view to a directory key. Unknown keys and leaves are
// refused. Expanded state is relative to the directory, so it resets.
func (s *Session) SetCwd(key string) bool {
	e, ok := s.index.Lookup(key)
	if !ok || !e.IsDir() {
		return false
	}
	s.cwd = e.Path
	s.expanded = map[string]bool{"": true}
	s.cursor = 0
	s.Recompute()
	return true
}

// IsExpanded reports whether a directory entry is open in the unfiltered
// view.
func (s *Session) IsExpanded(e store.Entry) bool {
	return e.IsDir() && s.expanded[s.relKey(e)]
}

// Enter toggles the directory under the cursor. Leaves are left alone.
func (s *Session) Enter() {
	e, ok := s.Selected()
	if !ok || !e.IsDir() {
		return
	}
	key := s.relKey(e)
	if s.expanded[key] {
		delete(s.expanded, key)
	} else {
		s.expanded[key] = true
	}
	s.Recompute()
}

// Expand opens the directory under the cursor if it is closed.
func (s *Session) Expand() bool {
	e, ok := s.Selected()
	if !ok || !e.IsDir() || s.expanded[s.relKey(e)] {
		return false
	}
	s.expanded[s.relKey(e)] = true
	s.Recompute()
	return true
}

// Collapse closes the directory under the cursor if it is open.
func (s *Session) Collapse() bool {
	e, ok := s.Selected()
	if !ok || !e.IsDir() || !s.expanded[s.relKey(e)] {
		return false
	}
	delete(s.expanded, s.relKey(e))
	s.Recompute()
	return true
}

// ExpandAll opens every directory below the current one.
func (s *Session) ExpandAll() {
	for _, e := range s.index {
		if e.IsDir() && store.HasPrefix(e.Path, s.cwd) {
			s.expanded[s.relKey(e)] = true
		}
	}
	s.Recompute()
}
