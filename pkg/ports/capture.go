package ports

import (
	"github.com/user/framecheck/pkg/frame"
)

// Capture is a frame-indexed read handle over a media source.
//
// Implementations guarantee:
//   - Position() is the index the next Read will produce (0 before the first read).
//   - After Seek(i) the next successful Read returns frame i and Position() becomes i+1.
//   - Read returns io.EOF once the cursor is past the last frame.
//   - Release is idempotent.
//
// Captures are not safe for concurrent use. They are owned by exactly one player.
type Capture interface {
	// IsOpened reports whether the source has at least one readable frame.
	IsOpened() bool

	// Read decodes the frame at the cursor and advances it.
	Read() (*frame.Frame, error)

	// Seek moves the cursor without decoding. Out-of-range values are clamped.
	Seek(index int)

	// Position returns the cursor (index of the next frame to be read).
	Position() int

	// FrameCount returns the number of frames, 1 for stills.
	FrameCount() int

	// FPS returns the native frame rate, 0 for stills.
	FPS() float64

	// Release frees decoder resources.
	Release()
}

// FrameNumberer is implemented by captures whose source frames carry their
// own numbering (image sequences starting at 1001, for example).
type FrameNumberer interface {
	// FrameNumber maps a 0-based index to the source frame number.
	FrameNumber(index int) int
	FirstFrameNumber() int
	LastFrameNumber() int
}

// Rescanner is implemented by captures that can pick up frames added to
// their source after opening.
type Rescanner interface {
	Rescan() (changed bool, err error)
}
