package compare

import (
	"math"

	"github.com/user/framecheck/pkg/frame"
	"github.com/user/framecheck/pkg/ports"
	"github.com/user/framecheck/pkg/surface"
)

// PlaceholderText is drawn in place of a missing frame.
const PlaceholderText = "No Media"

// Compositor joins two frames horizontally at a common height.
type Compositor struct {
	renderer          ports.Renderer
	placeholders      surface.Placeholders
	placeholderWidth  int
	placeholderHeight int
}

// NewCompositor creates a compositor. Missing frames are replaced by a
// placeholder of the other side's size, or width x height when both are
// missing.
func NewCompositor(renderer ports.Renderer, placeholders surface.Placeholders, width, height int) *Compositor {
	if width <= 0 {
		width = 640
	}
	if height <= 0 {
		height = 480
	}
	return &Compositor{
		renderer:          renderer,
		placeholders:      placeholders,
		placeholderWidth:  width,
		placeholderHeight: height,
	}
}

// Compose resizes a and b to min(Ha, Hb) keeping their aspect ratios and
// concatenates them, a on the left.
func (c *Compositor) Compose(a, b *frame.Frame) *frame.Frame {
	switch {
	case a.Empty() && b.Empty():
		a = c.placeholders.Make(PlaceholderText, c.placeholderWidth, c.placeholderHeight)
		b = c.placeholders.Make(PlaceholderText, c.placeholderWidth, c.placeholderHeight)
	case a.Empty():
		a = c.placeholders.Make(PlaceholderText, b.Width, b.Height)
	case b.Empty():
		b = c.placeholders.Make(PlaceholderText, a.Width, a.Height)
	}

	h := a.Height
	if b.Height < h {
		h = b.Height
	}
	return frame.HConcat(c.toHeight(a, h), c.toHeight(b, h))
}

func (c *Compositor) toHeight(f *frame.Frame, h int) *frame.Frame {
	if f.Height == h {
		return f
	}
	w := int(math.Round(float64(f.Width) * float64(h) / float64(f.Height)))
	if w < 1 {
		w = 1
	}
	return frame.FromImage(c.renderer.ResizeImage(f.ToRGBA(), w, h))
}
