package project

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/user/framecheck/pkg/ports"
)

var (
	// ErrRootItem is returned when an operation targets Source or Timeline.
	ErrRootItem = errors.New("project: root items cannot be changed")
	// ErrNotTimeline is returned for folder operations outside the Timeline.
	ErrNotTimeline = errors.New("project: target is not under Timeline")
	// ErrCycle is returned when a move would put an item inside itself.
	ErrCycle = errors.New("project: cannot move an item into itself")
)

// NewFolderLabel is the base label of folders created by NewFolder.
const NewFolderLabel = "New Folder"

// Tree is the project model. It is not safe for concurrent use.
type Tree struct {
	source   *Item
	timeline *Item
	byID     map[string]*Item
	logger   ports.Logger

	pathA string
	pathB string
}

// New creates a tree with empty Source and Timeline roots.
func New(logger ports.Logger) *Tree {
	t := &Tree{byID: map[string]*Item{}, logger: logger.WithComponent("project")}
	t.source = t.newItem(SourceLabel, "")
	t.source.root = true
	t.timeline = t.newItem(TimelineLabel, "")
	t.timeline.root = true
	return t
}

func (t *Tree) newItem(label, path string) *Item {
	it := &Item{ID: uuid.NewString(), Label: label, path: path}
	t.byID[it.ID] = it
	return it
}

func (t *Tree) newMedia(path string) *Item {
	return t.newItem(filepath.Base(path), path)
}

// Source returns the Source root.
func (t *Tree) Source() *Item { return t.source }

// Timeline returns the Timeline root.
func (t *Tree) Timeline() *Item { return t.timeline }

// Find returns the item with id.
func (t *Tree) Find(id string) (*Item, bool) {
	it, ok := t.byID[id]
	return it, ok
}

// UnderTimeline reports whether it is the Timeline root or below it.
func (t *Tree) UnderTimeline(it *Item) bool {
	return it != nil && it.IsDescendantOf(t.timeline)
}

// AddToSource appends every path that exists and is not already in Source.
// exists may be nil. It returns the new items.
func (t *Tree) AddToSource(paths []string, exists func(string) bool) []*Item {
	var added []*Item
	for _, p := range paths {
		if p == "" {
			continue
		}
		if exists != nil && !exists(p) {
			t.logger.Debug("Skipping missing file %s", p)
			continue
		}
		if it := t.ensureSource(p); it != nil {
			added = append(added, it)
		}
	}
	return added
}

func (t *Tree) ensureSource(path string) *Item {
	if t.source.childWithPath(path) != nil {
		return nil
	}
	it := t.newMedia(path)
	t.source.insert(-1, it)
	t.logger.Debug("Added %s to Source", path)
	return it
}

// Drop adds paths to Source and, when target is under the Timeline, to
// target's enclosing folder. Paths already in that folder are skipped. It
// returns the items added to the Timeline.
func (t *Tree) Drop(paths []string, target *Item) []*Item {
	for _, p := range paths {
		if p != "" {
			t.ensureSource(p)
		}
	}
	if !t.UnderTimeline(target) {
		return nil
	}
	folder := enclosingFolder(target)

	var added []*Item
	for _, p := range paths {
		if p == "" || folder.childWithPath(p) != nil {
			continue
		}
		it := t.newMedia(p)
		folder.insert(-1, it)
		added = append(added, it)
	}
	if len(added) > 0 {
		t.logger.Debug("Dropped %d items into %s", len(added), folder.Label)
	}
	return added
}

// DropPayload decodes an internal drag payload and drops its paths.
func (t *Tree) DropPayload(data []byte, target *Item) []*Item {
	return t.Drop(DecodePayload(data), target)
}

func enclosingFolder(it *Item) *Item {
	if it.IsFolder() {
		return it
	}
	return it.parent
}

// Move reparents Timeline items under target's enclosing folder at row
// (-1 appends). Nothing moves when any item is a root, lies outside the
// Timeline, or would end up inside itself. Items whose path already exists
// in the target folder are left where they are.
func (t *Tree) Move(items []*Item, target *Item, row int) error {
	if !t.UnderTimeline(target) {
		return ErrNotTimeline
	}
	folder := enclosingFolder(target)
	for _, it := range items {
		if it.root {
			return ErrRootItem
		}
		if !t.UnderTimeline(it) {
			return ErrNotTimeline
		}
		if folder.IsDescendantOf(it) {
			return fmt.Errorf("%w: %s", ErrCycle, it.Label)
		}
	}

	for _, it := range items {
		if !it.IsFolder() {
			if dup := folder.childWithPath(it.path); dup != nil && dup != it {
				continue
			}
		}
		if it.parent == folder && row >= 0 && it.Row() < row {
			row--
		}
		it.detach()
		folder.insert(row, it)
		if row >= 0 {
			row++
		}
	}
	return nil
}

// Rename changes the label. The path is untouched.
func (t *Tree) Rename(it *Item, label string) error {
	if it.root {
		return ErrRootItem
	}
	it.Label = label
	return nil
}

// Delete detaches items and everything below them. Roots are skipped and
// reported with ErrRootItem after the others are deleted.
func (t *Tree) Delete(items []*Item) error {
	var err error
	for _, it := range items {
		if it.root {
			err = ErrRootItem
			continue
		}
		if it.parent == nil {
			continue
		}
		it.detach()
		t.forget(it)
	}
	return err
}

func (t *Tree) forget(it *Item) {
	delete(t.byID, it.ID)
	for _, c := range it.children {
		t.forget(c)
	}
}

// NewFolder creates a uniquely labelled folder under parent's enclosing
// folder. A nil parent means the Timeline root.
func (t *Tree) NewFolder(parent *Item) (*Item, error) {
	if parent == nil {
		parent = t.timeline
	}
	if !t.UnderTimeline(parent) {
		return nil, ErrNotTimeline
	}
	folder := enclosingFolder(parent)
	it := t.newItem(uniqueLabel(folder, NewFolderLabel), "")
	folder.insert(-1, it)
	return it, nil
}

func uniqueLabel(folder *Item, base string) string {
	taken := map[string]bool{}
	for _, c := range folder.children {
		taken[c.Label] = true
	}
	if !taken[base] {
		return base
	}
	for n := 2; ; n++ {
		l := fmt.Sprintf("%s (%d)", base, n)
		if !taken[l] {
			return l
		}
	}
}

// Walk visits every item depth first, Source before Timeline.
func (t *Tree) Walk(fn func(it *Item, depth int)) {
	var walk func(it *Item, depth int)
	walk = func(it *Item, depth int) {
		fn(it, depth)
		for _, c := range it.children {
			walk(c, depth+1)
		}
	}
	walk(t.source, 0)
	walk(t.timeline, 0)
}
