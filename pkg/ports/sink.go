package ports

import (
	"image"
)

// FrameSink receives rendered output for inspection.
// It allows dumping what the surface presents during headless playback.
type FrameSink interface {
	// Enabled returns true if output is written anywhere.
	Enabled() bool

	// SaveFrame saves one presented surface image.
	SaveFrame(index int, img image.Image) error

	// SaveReport saves a text report next to the frames.
	SaveReport(name string, data []byte) error
}
