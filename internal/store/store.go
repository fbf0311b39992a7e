// Package store indexes a pass password store on disk.
//
// A store is a directory tree whose leaves are files ending in ".gpg". The
// index lists every directory and leaf once, addressed by its path segments
// relative to the store root, in a stable global order.
package store

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/treykane/pass-tui/internal/logging"
)

// ContentSuffix marks a file as an encrypted leaf.
const ContentSuffix = ".gpg"

// ErrStoreNotFound is returned when the store root does not exist.
var ErrStoreNotFound = errors.New("password store not found")

var storeLog = logging.New("store")

// Kind distinguishes directories from leaves.
type Kind int

const (
	Directory Kind = iota
	Leaf
)

func (k Kind) String() string {
	switch k {
	case Directory:
		return "directory"
	case Leaf:
		return "leaf"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Entry is one directory or leaf. Path is relative to the store root; the
// root itself has an empty Path.
type Entry struct {
	Path []string
	Kind Kind
}

// Key returns the canonical store key of the entry.
func (e Entry) Key() string { return EncodeKey(e.Path) }

// Name is the final path segment, or "" for the root.
func (e Entry) Name() string {
	if len(e.Path) == 0 {
		return ""
	}
	return e.Path[len(e.Path)-1]
}

func (e Entry) IsDir() bool { return e.Kind == Directory }

func (e Entry) IsRoot() bool { return e.Kind == Directory && len(e.Path) == 0 }

// Compare orders directories before leaves, then paths segment by segment.
func Compare(a, b Entry) int {
	if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	return slices.Compare(a.Path, b.Path)
}

// Index is the sorted list of store entries. The first element is always
// the root directory.
type Index []Entry

// Lookup finds an entry by key.
func (idx Index) Lookup(key string) (Entry, bool) {
	for _, e := range idx {
		if e.Key() == key {
			return e, true
		}
	}
	return Entry{}, false
}

// Dirs returns the keys of every directory, root included.
func (idx Index) Dirs() []string {
	var keys []string
	for _, e := range idx {
		if e.IsDir() {
			keys = append(keys, e.Key())
		}
	}
	return keys
}

// Leaves counts leaf entries.
func (idx Index) Leaves() int {
	n := 0
	for _, e := range idx {
		if e.Kind == Leaf {
			n++
		}
	}
	return n
}

// Options tune BuildIndex.
type Options struct {
	// Ignore holds glob patterns matched against entry base names. Version
	// control metadata is skipped even when Ignore is empty.
	Ignore []string
}

// BuildIndex walks root and returns every directory and leaf beneath it.
//
// Files that are not leaves, symlinks, and unreadable subtrees are skipped;
// only a missing root is an error.
func BuildIndex(root string, opts Options) (Index, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrStoreNotFound, root)
		}
		return nil, fmt.Errorf("stat store root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrStoreNotFound, root)
	}

	ignore, err := NewMatcher(opts.Ignore)
	if err != nil {
		return nil, err
	}

	entries := Index{{Kind: Directory}}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			storeLog.Warn("skip unreadable path", "path", path, "error", walkErr)
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}
		if ignore.Match(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		segments := strings.Split(filepath.ToSlash(rel), KeySeparator)

		switch {
		case d.IsDir():
			entries = append(entries, Entry{Path: segments, Kind: Directory})
		case d.Type().IsRegular() && strings.HasSuffix(d.Name(), ContentSuffix):
			last := len(segments) - 1
			segments[last] = strings.TrimSuffix(segments[last], ContentSuffix)
			if segments[last] == "" {
				return nil
			}
			entries = append(entries, Entry{Path: segments, Kind: Leaf})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk store: %w", err)
	}

	slices.SortStableFunc(entries, Compare)
	storeLog.Debug("built index", "root", root, "entries", len(entries))
	return entries, nil
}

// DirPath is the on-disk location of a directory key.
func DirPath(root, key string) string {
	return filepath.Join(root, filepath.FromSlash(key))
}

// LeafPath is the on-disk location of a leaf key.
func LeafPath(root, key string) string {
	return filepath.Join(root, filepath.FromSlash(key)+ContentSuffix)
}

// Exists reports whether key names an existing directory or leaf under root.
func Exists(root, key string) bool {
	if info, err := os.Stat(DirPath(root, key)); err == nil && info.IsDir() {
		return true
	}
	if info, err := os.Stat(LeafPath(root, key)); err == nil && info.Mode().IsRegular() {
		return true
	}
	return false
}
