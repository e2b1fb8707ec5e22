package viewer

import "strings"

// ShortcutResult tells the host what a key press did.
type ShortcutResult int

const (
	// ShortcutIgnored means the key is not bound.
	ShortcutIgnored ShortcutResult = iota
	// ShortcutHandled means the viewer acted on the key.
	ShortcutHandled
	// ShortcutOpenFile asks the host to show its file dialog.
	ShortcutOpenFile
	// ShortcutOpenSequence asks the host to pick a sequence directory.
	ShortcutOpenSequence
)

func (r ShortcutResult) String() string {
	switch r {
	case ShortcutHandled:
		return "handled"
	case ShortcutOpenFile:
		return "open-file"
	case ShortcutOpenSequence:
		return "open-sequence"
	default:
		return "ignored"
	}
}

// HandleShortcut maps key names such as "Space", "Right" or "Ctrl+T" to
// actions. Modifier names are case-insensitive.
func (v *Viewer) HandleShortcut(key string) ShortcutResult {
	switch normalizeKey(key) {
	case "space":
		v.TogglePlay()
	case "left":
		v.PreviousFrame()
	case "right":
		v.NextFrame()
	case "home":
		v.FirstFrame()
	case "end":
		v.LastFrame()
	case "ctrl+up":
		v.PreviousTimelineItem()
	case "ctrl+down":
		v.NextTimelineItem()
	case "ctrl+t":
		v.ToggleCompare()
	case "ctrl+h":
		v.ToggleProjectPanel()
	case "ctrl+o":
		return ShortcutOpenFile
	case "ctrl+shift+o":
		return ShortcutOpenSequence
	default:
		return ShortcutIgnored
	}
	return ShortcutHandled
}

func normalizeKey(key string) string {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(key)), "+")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	// Shift before the key, after Ctrl.
	if len(parts) == 3 && parts[0] == "shift" && parts[1] == "ctrl" {
		parts[0], parts[1] = "ctrl", "shift"
	}
	return strings.Join(parts, "+")
}
