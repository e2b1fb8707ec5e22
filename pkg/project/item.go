// Package project holds the two-rooted project tree: a flat Source library
// and a nested Timeline playlist of references into it.
package project

// Root labels.
const (
	SourceLabel   = "Source"
	TimelineLabel = "Timeline"
)

// Item is a node of the tree. An item without a path is a folder.
type Item struct {
	ID    string
	Label string

	path     string
	root     bool
	parent   *Item
	children []*Item
}

// Path returns the media path, "" for folders. It never changes.
func (i *Item) Path() string { return i.path }

// IsFolder reports whether the item has no media path.
func (i *Item) IsFolder() bool { return i.path == "" }

// IsRoot reports whether the item is Source or Timeline.
func (i *Item) IsRoot() bool { return i.root }

// Parent returns the enclosing item, nil for roots.
func (i *Item) Parent() *Item { return i.parent }

// Children returns a copy of the child list.
func (i *Item) Children() []*Item {
	out := make([]*Item, len(i.children))
	copy(out, i.children)
	return out
}

// Row returns the index of i within its parent, -1 for roots.
func (i *Item) Row() int {
	if i.parent == nil {
		return -1
	}
	for n, c := range i.parent.children {
		if c == i {
			return n
		}
	}
	return -1
}

// IsDescendantOf reports whether i is ancestor itself or sits below it.
func (i *Item) IsDescendantOf(ancestor *Item) bool {
	for n := i; n != nil; n = n.parent {
		if n == ancestor {
			return true
		}
	}
	return false
}

func (i *Item) childWithPath(path string) *Item {
	for _, c := range i.children {
		if c.path == path {
			return c
		}
	}
	return nil
}

func (i *Item) insert(row int, child *Item) {
	if row < 0 || row > len(i.children) {
		row = len(i.children)
	}
	i.children = append(i.children, nil)
	copy(i.children[row+1:], i.children[row:])
	i.children[row] = child
	child.parent = i
}

func (i *Item) detach() {
	p := i.parent
	if p == nil {
		return
	}
	for n, c := range p.children {
		if c == i {
			p.children = append(p.children[:n], p.children[n+1:]...)
			break
		}
	}
	i.parent = nil
}
