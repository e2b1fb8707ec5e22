package project

import (
	"strings"
)

// PayloadMIME is the format of internal drags from Source to Timeline.
const PayloadMIME = "application/x-playlist-paths"

// Annotate records which paths players A and B hold. Display labels pick
// the change up immediately; stored labels are not touched.
func (t *Tree) Annotate(pathA, pathB string) {
	t.pathA, t.pathB = pathA, pathB
}

// Holders returns the paths last passed to Annotate.
func (t *Tree) Holders() (pathA, pathB string) {
	return t.pathA, t.pathB
}

// Suffix returns " (A)", " (B)", " (A/B)" or "" for it.
func (t *Tree) Suffix(it *Item) string {
	if it == nil || it.IsFolder() {
		return ""
	}
	a := t.pathA != "" && it.path == t.pathA
	b := t.pathB != "" && it.path == t.pathB
	switch {
	case a && b:
		return " (A/B)"
	case a:
		return " (A)"
	case b:
		return " (B)"
	default:
		return ""
	}
}

// DisplayLabel is the stored label plus the A/B suffix.
func (t *Tree) DisplayLabel(it *Item) string {
	return it.Label + t.Suffix(it)
}

// EncodePayload joins paths for a drag payload.
func EncodePayload(paths []string) []byte {
	return []byte(strings.Join(paths, ","))
}

// DecodePayload splits a drag payload, dropping empty entries.
func DecodePayload(data []byte) []string {
	var paths []string
	for _, p := range strings.Split(string(data), ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
