package mocks

import (
	"io"

	"github.com/user/framecheck/pkg/frame"
	"github.com/user/framecheck/pkg/ports"
)

// Capture is an in-memory ports.Capture with N synthetic frames.
// Frame i is a 4x2 image whose first byte equals i%256, so tests can
// check which frame was produced.
type Capture struct {
	Frames   int
	Rate     float64
	Numbers  []int // optional source frame numbers
	FailAt   int   // Read fails with a decode error at this index when > 0
	Width    int
	Height   int
	Reads    int
	Seeks    []int
	cursor   int
	released bool
}

// NewCapture creates a capture with n frames at fps.
func NewCapture(n int, fps float64) *Capture {
	return &Capture{Frames: n, Rate: fps, Width: 4, Height: 2}
}

func (c *Capture) IsOpened() bool {
	return c.Frames > 0 && !c.released
}

func (c *Capture) Read() (*frame.Frame, error) {
	if c.released || c.cursor >= c.Frames {
		return nil, io.EOF
	}
	if c.FailAt > 0 && c.cursor == c.FailAt {
		return nil, io.ErrUnexpectedEOF
	}
	f := frame.New(c.Width, c.Height)
	f.Data[0] = byte(c.cursor % 256)
	c.cursor++
	c.Reads++
	return f, nil
}

func (c *Capture) Seek(index int) {
	if index < 0 {
		index = 0
	}
	if index > c.Frames {
		index = c.Frames
	}
	c.Seeks = append(c.Seeks, index)
	c.cursor = index
}

func (c *Capture) Position() int {
	return c.cursor
}

func (c *Capture) FrameCount() int {
	return c.Frames
}

func (c *Capture) FPS() float64 {
	return c.Rate
}

func (c *Capture) Release() {
	c.released = true
	c.cursor = 0
}

// Released reports whether Release was called.
func (c *Capture) Released() bool {
	return c.released
}

// FrameNumber implements ports.FrameNumberer when Numbers is set.
func (c *Capture) FrameNumber(index int) int {
	if index >= 0 && index < len(c.Numbers) {
		return c.Numbers[index]
	}
	return index
}

func (c *Capture) FirstFrameNumber() int {
	return c.FrameNumber(0)
}

func (c *Capture) LastFrameNumber() int {
	return c.FrameNumber(c.Frames - 1)
}

var (
	_ ports.Capture       = (*Capture)(nil)
	_ ports.FrameNumberer = (*Capture)(nil)
)
