package surface

import (
	"image/color"
	"math"

	"github.com/user/framecheck/pkg/frame"
	"github.com/user/framecheck/pkg/ports"
)

// fillRatio is the share of the box the text block may cover.
const fillRatio = 0.8

// Placeholders renders centred text on a flat background.
type Placeholders struct {
	Renderer   ports.Renderer
	Background color.Color
	Foreground color.Color
}

// Make renders text centred in a width x height frame, with the font scaled
// so the whole block fits inside the box.
func (p Placeholders) Make(text string, width, height int) *frame.Frame {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	bg := p.Background
	if bg == nil {
		bg = color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}
	}
	fg := p.Foreground
	if fg == nil {
		fg = color.RGBA{R: 0xdc, G: 0xdc, B: 0xdc, A: 0xff}
	}

	canvas := p.Renderer.CreateCanvas(width, height, bg)
	if text != "" {
		style := ports.TextStyle{Color: fg, Align: ports.AlignCenter}
		style.FontSize = FitFontSize(canvas, text, width, height)
		canvas.DrawText(text, width/2, height/2, style)
	}
	return frame.FromImage(canvas.ToImage())
}

// FitFontSize returns the font size at which text covers at most fillRatio
// of the box in both directions.
func FitFontSize(canvas ports.Canvas, text string, width, height int) float64 {
	tw, th := canvas.MeasureText(text, ports.TextStyle{})
	_, lineH := canvas.MeasureText("X", ports.TextStyle{})
	if tw <= 0 || th <= 0 || lineH <= 0 {
		return 0
	}
	scale := math.Min(fillRatio*float64(width)/tw, fillRatio*float64(height)/th)
	return lineH * scale
}
