// Package stillcapture presents a single decoded image as a one-frame capture.
package stillcapture

import (
	"io"

	"github.com/user/framecheck/pkg/frame"
	"github.com/user/framecheck/pkg/ports"
)

// Capture holds one frame. FrameCount is 1 and FPS is 0.
type Capture struct {
	frame  *frame.Frame
	cursor int
}

// New wraps an already decoded frame.
func New(f *frame.Frame) *Capture {
	return &Capture{frame: f}
}

// Open decodes path with d.
func Open(path string, d *Decoder) (*Capture, error) {
	f, err := d.Decode(path)
	if err != nil {
		return nil, err
	}
	return New(f), nil
}

func (c *Capture) IsOpened() bool {
	return !c.frame.Empty()
}

// Read returns the image once; later reads report io.EOF until a Seek(0).
func (c *Capture) Read() (*frame.Frame, error) {
	if c.frame.Empty() || c.cursor > 0 {
		return nil, io.EOF
	}
	c.cursor = 1
	return c.frame, nil
}

func (c *Capture) Seek(index int) {
	if index < 0 {
		index = 0
	}
	if index > 1 {
		index = 1
	}
	c.cursor = index
}

func (c *Capture) Position() int {
	return c.cursor
}

func (c *Capture) FrameCount() int {
	if c.frame.Empty() {
		return 0
	}
	return 1
}

func (c *Capture) FPS() float64 {
	return 0
}

// Release drops the frame.
func (c *Capture) Release() {
	c.frame = nil
	c.cursor = 0
}

var _ ports.Capture = (*Capture)(nil)
