// Package ggrenderer provides a renderer implementation using the gg library.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/framecheck/pkg/ports"
)

// lineSpacing is the distance between baselines of a multi-line block,
// relative to the face height.
const lineSpacing = 1.3

// Renderer implements ports.Renderer using the gg library.
type Renderer struct{}

// New creates a new Renderer.
func New() *Renderer {
	return &Renderer{}
}

// CreateCanvas creates a new drawing canvas.
func (r *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	dc := gg.NewContext(width, height)
	dc.SetColor(bg)
	dc.Clear()
	return &Canvas{dc: dc}
}

// DecodeImage decodes image data into an image.Image.
func (r *Renderer) DecodeImage(data []byte, format ports.ImageFormat) (image.Image, error) {
	reader := bytes.NewReader(data)

	switch format {
	case ports.FormatJPEG:
		return jpeg.Decode(reader)
	case ports.FormatPNG:
		return png.Decode(reader)
	default:
		img, _, err := image.Decode(reader)
		if err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		return img, nil
	}
}

// EncodeImage encodes an image to the specified format.
func (r *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case ports.FormatJPEG:
		opts := &jpeg.Options{Quality: quality}
		if err := jpeg.Encode(&buf, img, opts); err != nil {
			return nil, fmt.Errorf("encode JPEG: %w", err)
		}
	case ports.FormatPNG, ports.FormatAuto:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %d", format)
	}

	return buf.Bytes(), nil
}

// ResizeImage resizes an image to the specified dimensions.
func (r *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

var _ ports.Renderer = (*Renderer)(nil)

// Canvas implements ports.Canvas using gg.Context.
type Canvas struct {
	dc *gg.Context
}

// DrawImage draws an image at the specified position.
func (c *Canvas) DrawImage(img image.Image, x, y int) {
	c.dc.DrawImage(img, x, y)
}

// DrawImageScaled draws an image scaled to the specified dimensions.
func (c *Canvas) DrawImageScaled(img image.Image, x, y, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		c.dc.DrawImage(img, x, y)
		return
	}
	// Resample first; gg's affine draw uses bilinear filtering only.
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	c.dc.DrawImage(dst, x, y)
}

// DrawRect draws a filled rectangle.
func (c *Canvas) DrawRect(x, y, w, h int, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	c.dc.Fill()
}

// DrawText draws text anchored at (x, y). Lines are centred vertically as a
// block around y and aligned horizontally on x according to style.Align.
func (c *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	if style.Color == nil {
		style.Color = color.White
	}
	c.dc.SetColor(style.Color)
	scale := c.prepareFace(style)

	ax := 0.0
	switch style.Align {
	case ports.AlignCenter:
		ax = 0.5
	case ports.AlignRight:
		ax = 1.0
	}

	lines := strings.Split(text, "\n")
	step := c.dc.FontHeight() * lineSpacing
	top := -step * float64(len(lines)-1) / 2

	c.dc.Push()
	defer c.dc.Pop()
	c.dc.ScaleAbout(scale, scale, float64(x), float64(y))
	for i, line := range lines {
		c.dc.DrawStringAnchored(line, float64(x), float64(y)+top+step*float64(i), ax, 0.5)
	}
}

// MeasureText returns the size of the text block as DrawText would lay it out.
func (c *Canvas) MeasureText(text string, style ports.TextStyle) (width, height float64) {
	scale := c.prepareFace(style)
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		w, _ := c.dc.MeasureString(line)
		if w > width {
			width = w
		}
	}
	fh := c.dc.FontHeight()
	height = fh + fh*lineSpacing*float64(len(lines)-1)
	return width * scale, height * scale
}

// prepareFace selects the font and returns the extra scale factor needed to
// reach style.FontSize. A loaded TrueType face is sized directly; the
// built-in bitmap face is scaled.
func (c *Canvas) prepareFace(style ports.TextStyle) float64 {
	if style.FontPath != "" && style.FontSize > 0 {
		if err := c.dc.LoadFontFace(style.FontPath, style.FontSize); err == nil {
			return 1
		}
	}
	fh := c.dc.FontHeight()
	if style.FontSize <= 0 || fh <= 0 {
		return 1
	}
	return style.FontSize / fh
}

// ToImage returns the canvas as an image.Image.
func (c *Canvas) ToImage() image.Image {
	return c.dc.Image()
}

var _ ports.Canvas = (*Canvas)(nil)
