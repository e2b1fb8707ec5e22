// Package videocapture implements ports.Capture over a ports.VideoBackend.
//
// Sequential reads share one decoding stream. A Seek only moves the cursor;
// the next Read restarts the stream at the cursor when it no longer lines up.
package videocapture

import (
	"errors"
	"fmt"
	"io"

	"github.com/user/framecheck/pkg/frame"
	"github.com/user/framecheck/pkg/ports"
)

// ErrNoFrames is returned when the backend reports no frames or no frame rate.
var ErrNoFrames = errors.New("videocapture: no frames")

// Capture reads frames of one video file.
type Capture struct {
	backend ports.VideoBackend
	path    string
	info    ports.VideoInfo
	count   int
	logger  ports.Logger

	stream    ports.FrameStream
	streamPos int
	cursor    int
	released  bool
}

// Open probes path. The frame count is the container's, or duration*fps
// when the container does not say.
func Open(path string, backend ports.VideoBackend, logger ports.Logger) (*Capture, error) {
	info, err := backend.Probe(path)
	if err != nil {
		return nil, err
	}
	count := info.EstimatedFrameCount()
	if count <= 0 || info.FPS <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFrames, path)
	}
	return &Capture{
		backend: backend,
		path:    path,
		info:    info,
		count:   count,
		logger:  logger.WithComponent("video"),
	}, nil
}

// Info returns the probed metadata.
func (c *Capture) Info() ports.VideoInfo {
	return c.info
}

// IsOpened reports whether the capture has frames and was not released.
func (c *Capture) IsOpened() bool {
	return !c.released && c.count > 0
}

// Read returns the frame at the cursor, restarting the decoder after a seek.
// It returns io.EOF past the last frame.
func (c *Capture) Read() (*frame.Frame, error) {
	if c.released || c.cursor >= c.count {
		return nil, io.EOF
	}
	if c.stream == nil || c.streamPos != c.cursor {
		if err := c.restart(); err != nil {
			return nil, err
		}
	}

	f, err := c.stream.Next()
	if err != nil {
		c.closeStream()
		if errors.Is(err, io.EOF) {
			// The container over-reported its length.
			c.logger.Debug("Stream ended at %d of %d", c.cursor, c.count)
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read frame %d: %w", c.cursor, err)
	}
	c.cursor++
	c.streamPos++
	return f, nil
}

func (c *Capture) restart() error {
	c.closeStream()
	s, err := c.backend.Stream(c.path, c.info, c.cursor)
	if err != nil {
		return fmt.Errorf("start stream at %d: %w", c.cursor, err)
	}
	c.stream = s
	c.streamPos = c.cursor
	return nil
}

func (c *Capture) closeStream() {
	if c.stream != nil {
		_ = c.stream.Close()
		c.stream = nil
	}
}

// Seek sets the cursor to clamp(index, 0, count) without decoding.
func (c *Capture) Seek(index int) {
	if index < 0 {
		index = 0
	}
	if index > c.count {
		index = c.count
	}
	c.cursor = index
}

// Position returns the index the next Read decodes.
func (c *Capture) Position() int {
	return c.cursor
}

// FrameCount returns the probed or estimated frame count.
func (c *Capture) FrameCount() int {
	return c.count
}

// FPS returns the probed frame rate.
func (c *Capture) FPS() float64 {
	return c.info.FPS
}

// Release stops decoding. It is safe to call more than once.
func (c *Capture) Release() {
	c.closeStream()
	c.cursor = 0
	c.released = true
}

var _ ports.Capture = (*Capture)(nil)
