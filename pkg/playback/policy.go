package playback

// Action is what the viewer does with the finished player.
type Action int

const (
	// Stop leaves the cursor at the end.
	Stop Action = iota
	// Rewind seeks to frame 0.
	Rewind
	// Advance loads NextPath into the primary player.
	Advance
)

func (a Action) String() string {
	switch a {
	case Rewind:
		return "rewind"
	case Advance:
		return "advance"
	default:
		return "stop"
	}
}

// Input describes the state at the end of a clip.
type Input struct {
	Mode Mode
	// Compare is true when the end came from the joint tick.
	Compare bool
	// UnderTimeline is true when the finished item sits under the Timeline root.
	UnderTimeline bool
	// NextPath is the path of the next media sibling, "" when there is none.
	NextPath string
}

// Decision is the outcome of Decide.
type Decision struct {
	Action   Action
	NextPath string
	// Resume asks the viewer to start playback again after the action.
	Resume bool
	// ModeChange is set when the policy switches mode.
	ModeChange bool
	NewMode    Mode
}

// Decide applies the end-of-clip policy. It has no side effects.
func Decide(in Input) Decision {
	switch in.Mode {
	case Loop:
		return Decision{Action: Rewind, Resume: !in.Compare}
	case PlayNext:
		if !in.UnderTimeline {
			return Decision{Action: Stop}
		}
		if in.NextPath == "" {
			return Decision{Action: Stop, ModeChange: true, NewMode: PlayOnce}
		}
		return Decision{Action: Advance, NextPath: in.NextPath, Resume: true}
	default:
		return Decision{Action: Stop}
	}
}
