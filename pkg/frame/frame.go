// Package frame defines the raw pixel buffer passed between captures,
// players and the render surface.
package frame

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Channels is the number of interleaved 8-bit channels in a Frame.
const Channels = 3

// Frame is a packed 8-bit BGR buffer with stride Width*3.
//
// BGR matches the byte order produced by the decoding backend
// (ffmpeg -pix_fmt bgr24). Conversion to RGB happens at display time.
type Frame struct {
	Width  int
	Height int
	Data   []byte
}

// New allocates a zeroed (black) frame.
func New(width, height int) *Frame {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Frame{
		Width:  width,
		Height: height,
		Data:   make([]byte, width*height*Channels),
	}
}

// FromBGR wraps an existing BGR buffer. The buffer is not copied.
func FromBGR(width, height int, data []byte) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("frame: invalid size %dx%d", width, height)
	}
	if len(data) != width*height*Channels {
		return nil, fmt.Errorf("frame: buffer is %d bytes, want %d", len(data), width*height*Channels)
	}
	return &Frame{Width: width, Height: height, Data: data}, nil
}

// FromImage converts any image into a BGR frame.
func FromImage(img image.Image) *Frame {
	b := img.Bounds()
	f := New(b.Dx(), b.Dy())

	// Fast path for the canvas type produced by the renderer.
	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < f.Height; y++ {
			src := rgba.Pix[(y+b.Min.Y-rgba.Rect.Min.Y)*rgba.Stride+(b.Min.X-rgba.Rect.Min.X)*4:]
			dst := f.Data[y*f.Width*Channels:]
			for x := 0; x < f.Width; x++ {
				dst[x*3+0] = src[x*4+2]
				dst[x*3+1] = src[x*4+1]
				dst[x*3+2] = src[x*4+0]
			}
		}
		return f
	}

	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			i := (y*f.Width + x) * Channels
			f.Data[i+0] = c.B
			f.Data[i+1] = c.G
			f.Data[i+2] = c.R
		}
	}
	return f
}

// ToRGBA converts the frame to an opaque RGBA image.
func (f *Frame) ToRGBA() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		src := f.Data[y*f.Width*Channels:]
		row := dst.Pix[y*dst.Stride:]
		for x := 0; x < f.Width; x++ {
			row[x*4+0] = src[x*3+2]
			row[x*4+1] = src[x*3+1]
			row[x*4+2] = src[x*3+0]
			row[x*4+3] = 0xff
		}
	}
	return dst
}

// Clone returns a deep copy. Consumers that retain a frame past the next
// tick must clone it, the capture may reuse the buffer.
func (f *Frame) Clone() *Frame {
	if f == nil {
		return nil
	}
	data := make([]byte, len(f.Data))
	copy(data, f.Data)
	return &Frame{Width: f.Width, Height: f.Height, Data: data}
}

// Empty reports whether the frame has no pixels.
func (f *Frame) Empty() bool {
	return f == nil || f.Width == 0 || f.Height == 0
}

// ColorModel implements image.Image.
func (f *Frame) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image.
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// At implements image.Image.
func (f *Frame) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return color.RGBA{}
	}
	i := (y*f.Width + x) * Channels
	return color.RGBA{R: f.Data[i+2], G: f.Data[i+1], B: f.Data[i], A: 0xff}
}

// Fill paints every pixel with c.
func (f *Frame) Fill(c color.Color) {
	r, g, b, _ := c.RGBA()
	for i := 0; i+2 < len(f.Data); i += Channels {
		f.Data[i+0] = uint8(b >> 8)
		f.Data[i+1] = uint8(g >> 8)
		f.Data[i+2] = uint8(r >> 8)
	}
}

// HConcat places frames side by side, top-aligned, on a black background.
func HConcat(frames ...*Frame) *Frame {
	width, height := 0, 0
	for _, f := range frames {
		if f.Empty() {
			continue
		}
		width += f.Width
		if f.Height > height {
			height = f.Height
		}
	}
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), image.Black, image.Point{}, draw.Src)

	x := 0
	for _, f := range frames {
		if f.Empty() {
			continue
		}
		draw.Draw(out, image.Rect(x, 0, x+f.Width, f.Height), f.ToRGBA(), image.Point{}, draw.Src)
		x += f.Width
	}
	return FromImage(out)
}
