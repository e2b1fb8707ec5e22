// Package nullsink provides a frame sink that discards everything.
package nullsink

import (
	"image"

	"github.com/user/framecheck/pkg/ports"
)

// Sink is a no-op implementation of ports.FrameSink.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// SaveFrame does nothing.
func (s *Sink) SaveFrame(index int, img image.Image) error {
	return nil
}

// SaveReport does nothing.
func (s *Sink) SaveReport(name string, data []byte) error {
	return nil
}

var _ ports.FrameSink = (*Sink)(nil)
