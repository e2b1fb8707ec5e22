// Package sequencecapture reads a directory of numbered image files as if it
// were a video stream.
//
// A template such as shots/shot01.%04d.png matches every file in shots whose
// name is shot01. followed by exactly four digits and .png. Matches are sorted
// by their numeric field, so a sequence starting at 1001 is presented as
// indices 0..N-1 while the original numbers stay available through
// FrameNumber.
package sequencecapture

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/user/framecheck/pkg/frame"
	"github.com/user/framecheck/pkg/media"
	"github.com/user/framecheck/pkg/ports"
)

// ErrNoFrames is returned when the directory has no file matching the template.
var ErrNoFrames = errors.New("sequencecapture: no frames match template")

// FrameDecoder decodes one image file of the sequence.
type FrameDecoder interface {
	Decode(path string) (*frame.Frame, error)
}

// Capture implements ports.Capture over a numbered file sequence.
type Capture struct {
	tmpl    media.Template
	fs      ports.FileSystem
	decoder FrameDecoder
	fps     float64
	logger  ports.Logger

	entries []media.Entry
	cursor  int
}

// Open lists the template's directory. When nothing matches it returns the
// (unopened) capture together with ErrNoFrames.
func Open(template string, fps float64, fs ports.FileSystem, decoder FrameDecoder, logger ports.Logger) (*Capture, error) {
	tmpl, err := media.ParseTemplate(template)
	if err != nil {
		return nil, err
	}
	c := &Capture{
		tmpl:    tmpl,
		fs:      fs,
		decoder: decoder,
		fps:     fps,
		logger:  logger.WithComponent("sequence"),
	}
	if _, err := c.Rescan(); err != nil {
		return c, err
	}
	if len(c.entries) == 0 {
		return c, fmt.Errorf("%w: %s", ErrNoFrames, template)
	}
	c.logger.Debug("Sequence %s: %d frames (%d-%d)", template, len(c.entries), c.FirstFrameNumber(), c.LastFrameNumber())
	return c, nil
}

// Rescan re-lists the directory. It reports whether the set of frames
// changed. The cursor is clamped to the new count.
func (c *Capture) Rescan() (bool, error) {
	names, err := c.fs.ReadDir(c.tmpl.Dir)
	if err != nil {
		c.entries = nil
		c.cursor = 0
		return true, fmt.Errorf("%w: list %s: %v", ErrNoFrames, c.tmpl.Dir, err)
	}
	entries := c.tmpl.Match(names)

	changed := len(entries) != len(c.entries)
	if !changed {
		for i := range entries {
			if entries[i] != c.entries[i] {
				changed = true
				break
			}
		}
	}
	c.entries = entries
	if c.cursor > len(c.entries) {
		c.cursor = len(c.entries)
	}
	return changed, nil
}

// Template returns the parsed template.
func (c *Capture) Template() media.Template {
	return c.tmpl
}

// Paths returns the full path of every frame in index order.
func (c *Capture) Paths() []string {
	paths := make([]string, len(c.entries))
	for i, e := range c.entries {
		paths[i] = filepath.Join(c.tmpl.Dir, e.Name)
	}
	return paths
}

// IsOpened reports whether the sequence has at least one frame.
func (c *Capture) IsOpened() bool {
	return len(c.entries) > 0
}

// Read decodes the file at the cursor. A decode failure leaves the cursor
// where it was.
func (c *Capture) Read() (*frame.Frame, error) {
	if c.cursor >= len(c.entries) {
		return nil, io.EOF
	}
	path := filepath.Join(c.tmpl.Dir, c.entries[c.cursor].Name)
	f, err := c.decoder.Decode(path)
	if err != nil {
		return nil, err
	}
	c.cursor++
	return f, nil
}

// Seek sets the cursor to clamp(index, 0, count) without decoding.
func (c *Capture) Seek(index int) {
	if index < 0 {
		index = 0
	}
	if index > len(c.entries) {
		index = len(c.entries)
	}
	c.cursor = index
}

// Position returns the index the next Read decodes.
func (c *Capture) Position() int {
	return c.cursor
}

// FrameCount returns the number of matching files.
func (c *Capture) FrameCount() int {
	return len(c.entries)
}

// FPS returns the configured default rate; file sequences carry none.
func (c *Capture) FPS() float64 {
	return c.fps
}

// Release rewinds the cursor. The file list is kept.
func (c *Capture) Release() {
	c.cursor = 0
}

// FrameNumber maps an index to the number in the file name. Out-of-range
// indices are clamped; an empty sequence returns -1.
func (c *Capture) FrameNumber(index int) int {
	if len(c.entries) == 0 {
		return -1
	}
	if index < 0 {
		index = 0
	}
	if index >= len(c.entries) {
		index = len(c.entries) - 1
	}
	return c.entries[index].Number
}

// FirstFrameNumber returns the on-disk number of frame 0, -1 when empty.
func (c *Capture) FirstFrameNumber() int {
	return c.FrameNumber(0)
}

// LastFrameNumber returns the on-disk number of the last frame, -1 when empty.
func (c *Capture) LastFrameNumber() int {
	return c.FrameNumber(len(c.entries) - 1)
}

var (
	_ ports.Capture       = (*Capture)(nil)
	_ ports.FrameNumberer = (*Capture)(nil)
	_ ports.Rescanner     = (*Capture)(nil)
)
