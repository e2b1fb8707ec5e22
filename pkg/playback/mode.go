// Package playback decides what happens when a clip reaches its end.
package playback

import (
	"fmt"
	"strings"
)

// Mode is the process-wide end-of-clip policy.
type Mode int

const (
	// Loop rewinds the clip.
	Loop Mode = iota
	// PlayNext loads the next media sibling on the timeline.
	PlayNext
	// PlayOnce stops at the end.
	PlayOnce
)

func (m Mode) String() string {
	switch m {
	case Loop:
		return "LOOP"
	case PlayNext:
		return "PLAY_NEXT"
	case PlayOnce:
		return "PLAY_ONCE"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Next returns the mode after m in the cycle LOOP, PLAY_NEXT, PLAY_ONCE.
func (m Mode) Next() Mode {
	switch m {
	case Loop:
		return PlayNext
	case PlayNext:
		return PlayOnce
	default:
		return Loop
	}
}

// ParseMode accepts the String forms and the short names loop, next, once.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "loop":
		return Loop, nil
	case "next", "play_next", "play-next":
		return PlayNext, nil
	case "once", "play_once", "play-once":
		return PlayOnce, nil
	default:
		return Loop, fmt.Errorf("unknown playback mode %q", s)
	}
}
