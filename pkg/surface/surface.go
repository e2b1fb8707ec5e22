// Package surface renders BGR frames into a fixed-size RGB image the host
// window can blit, and produces placeholder frames.
package surface

import (
	"image"
	"image/color"

	"github.com/user/framecheck/pkg/frame"
	"github.com/user/framecheck/pkg/ports"
)

// Half identifies the side of the surface a point falls in.
type Half int

const (
	// Left routes drops to player A.
	Left Half = iota
	// Right routes drops to player B.
	Right
)

func (h Half) String() string {
	if h == Right {
		return "right"
	}
	return "left"
}

// Target returns the player name the half routes to.
func (h Half) Target() string {
	if h == Right {
		return "B"
	}
	return "A"
}

// Surface letterboxes frames into width x height.
type Surface struct {
	renderer   ports.Renderer
	width      int
	height     int
	background color.Color

	last  *frame.Frame
	image image.Image

	onPresent []func(image.Image)
}

// New creates a surface of the given pixel size.
func New(renderer ports.Renderer, width, height int, background color.Color) *Surface {
	s := &Surface{
		renderer:   renderer,
		width:      width,
		height:     height,
		background: background,
	}
	s.render()
	return s
}

// OnPresent registers fn to receive every rendered image.
func (s *Surface) OnPresent(fn func(image.Image)) {
	s.onPresent = append(s.onPresent, fn)
}

// Size returns the surface size in pixels.
func (s *Surface) Size() (width, height int) {
	return s.width, s.height
}

// Present renders f. The frame is copied, callers may reuse its buffer.
func (s *Surface) Present(f *frame.Frame) image.Image {
	s.last = f.Clone()
	return s.render()
}

// Clear drops the current frame and shows the background.
func (s *Surface) Clear() image.Image {
	s.last = nil
	return s.render()
}

// Resize changes the surface size and re-renders the last frame.
func (s *Surface) Resize(width, height int) image.Image {
	s.width, s.height = width, height
	return s.render()
}

// Image returns the most recent rendering.
func (s *Surface) Image() image.Image {
	return s.image
}

// Frame returns the frame currently shown, or nil.
func (s *Surface) Frame() *frame.Frame {
	return s.last
}

// HitTest reports which half of the surface contains x.
func (s *Surface) HitTest(x, y int) Half {
	if x >= s.width/2 {
		return Right
	}
	return Left
}

func (s *Surface) render() image.Image {
	w, h := s.width, s.height
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	canvas := s.renderer.CreateCanvas(w, h, s.background)
	if !s.last.Empty() {
		r := Fit(s.last.Width, s.last.Height, w, h)
		canvas.DrawImageScaled(s.last.ToRGBA(), r.Min.X, r.Min.Y, r.Dx(), r.Dy())
	}
	s.image = canvas.ToImage()
	for _, fn := range s.onPresent {
		fn(s.image)
	}
	return s.image
}

// Fit returns the largest rectangle with the source aspect ratio that fits
// inside dstW x dstH, centred.
func Fit(srcW, srcH, dstW, dstH int) image.Rectangle {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return image.Rectangle{}
	}
	w, h := dstW, srcH*dstW/srcW
	if h > dstH {
		w, h = srcW*dstH/srcH, dstH
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	x := (dstW - w) / 2
	y := (dstH - h) / 2
	return image.Rect(x, y, x+w, y+h)
}
