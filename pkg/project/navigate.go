package project

// NextMediaSibling returns the first media item after it in its parent,
// skipping folders.
func (t *Tree) NextMediaSibling(it *Item) *Item {
	if it == nil || it.parent == nil {
		return nil
	}
	sib := it.parent.children
	for n := it.Row() + 1; n < len(sib); n++ {
		if !sib[n].IsFolder() {
			return sib[n]
		}
	}
	return nil
}

// PreviousMediaSibling returns the last media item before it in its parent.
func (t *Tree) PreviousMediaSibling(it *Item) *Item {
	if it == nil || it.parent == nil {
		return nil
	}
	sib := it.parent.children
	for n := it.Row() - 1; n >= 0; n-- {
		if !sib[n].IsFolder() {
			return sib[n]
		}
	}
	return nil
}

// FirstMedia returns the first direct media child of folder.
func (t *Tree) FirstMedia(folder *Item) *Item {
	if folder == nil {
		return nil
	}
	for _, c := range folder.children {
		if !c.IsFolder() {
			return c
		}
	}
	return nil
}

// FindPath returns the first item below root whose path is path.
func (t *Tree) FindPath(root *Item, path string) *Item {
	if root == nil || path == "" {
		return nil
	}
	if root.path == path {
		return root
	}
	for _, c := range root.children {
		if it := t.FindPath(c, path); it != nil {
			return it
		}
	}
	return nil
}
