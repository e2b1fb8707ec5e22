package surface

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/user/framecheck/pkg/frame"
	"github.com/user/framecheck/pkg/mocks"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name       string
		srcW, srcH int
		dstW, dstH int
		want       image.Rectangle
	}{
		{"same aspect", 160, 90, 640, 360, image.Rect(0, 0, 640, 360)},
		{"pillarbox", 100, 100, 640, 360, image.Rect(140, 0, 500, 360)},
		{"letterbox", 200, 50, 400, 400, image.Rect(0, 150, 400, 250)},
		{"empty source", 0, 10, 100, 100, image.Rectangle{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fit(tt.srcW, tt.srcH, tt.dstW, tt.dstH); got != tt.want {
				t.Errorf("Fit = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSurface_PresentLetterboxes(t *testing.T) {
	r := &mocks.Renderer{}
	s := New(r, 640, 360, color.Black)

	var presented int
	s.OnPresent(func(image.Image) { presented++ })

	f := frame.New(100, 100)
	s.Present(f)

	canvas := r.Canvases[len(r.Canvases)-1]
	if len(canvas.Scaled) != 1 {
		t.Fatalf("expected one scaled draw, got %d", len(canvas.Scaled))
	}
	if canvas.Scaled[0] != image.Rect(140, 0, 500, 360) {
		t.Errorf("unexpected placement %v", canvas.Scaled[0])
	}
	if presented != 1 {
		t.Errorf("expected 1 present callback, got %d", presented)
	}
	if b := s.Image().Bounds(); b.Dx() != 640 || b.Dy() != 360 {
		t.Errorf("unexpected image size %v", b)
	}
}

func TestSurface_PresentCopiesFrame(t *testing.T) {
	s := New(&mocks.Renderer{}, 10, 10, color.Black)
	f := frame.New(2, 2)
	s.Present(f)
	f.Data[0] = 200
	if s.Frame().Data[0] != 0 {
		t.Error("surface kept a reference to the caller's buffer")
	}
}

func TestSurface_ResizeRerendersLastFrame(t *testing.T) {
	r := &mocks.Renderer{}
	s := New(r, 100, 100, color.Black)
	s.Present(frame.New(50, 25))

	s.Resize(200, 200)
	canvas := r.Canvases[len(r.Canvases)-1]
	if len(canvas.Scaled) != 1 || canvas.Scaled[0] != image.Rect(0, 50, 200, 150) {
		t.Errorf("unexpected placement after resize %v", canvas.Scaled)
	}
	if w, h := s.Size(); w != 200 || h != 200 {
		t.Errorf("Size = %dx%d", w, h)
	}
}

func TestSurface_Clear(t *testing.T) {
	r := &mocks.Renderer{}
	s := New(r, 10, 10, color.Black)
	s.Present(frame.New(2, 2))
	s.Clear()
	if s.Frame() != nil {
		t.Error("expected no frame after Clear")
	}
	if n := len(r.Canvases[len(r.Canvases)-1].Scaled); n != 0 {
		t.Errorf("expected background only, got %d draws", n)
	}
}

func TestSurface_HitTest(t *testing.T) {
	s := New(&mocks.Renderer{}, 800, 600, color.Black)
	if got := s.HitTest(10, 300); got != Left || got.Target() != "A" {
		t.Errorf("HitTest(10) = %s", got)
	}
	if got := s.HitTest(400, 300); got != Right || got.Target() != "B" {
		t.Errorf("HitTest(400) = %s", got)
	}
}

func TestPlaceholders_Make(t *testing.T) {
	r := &mocks.Renderer{}
	p := Placeholders{Renderer: r}

	f := p.Make("No Image", 640, 480)
	if f.Width != 640 || f.Height != 480 {
		t.Fatalf("unexpected size %dx%d", f.Width, f.Height)
	}
	// default background is #404040
	if f.Data[0] != 0x40 || f.Data[1] != 0x40 || f.Data[2] != 0x40 {
		t.Errorf("unexpected background %v", f.Data[:3])
	}

	canvas := r.Canvases[0]
	if len(canvas.Texts) != 1 || canvas.Texts[0] != "No Image" {
		t.Fatalf("unexpected texts %v", canvas.Texts)
	}
	w, h := canvas.MeasureText("No Image", canvas.Styles[0])
	if w > 0.8*640+0.5 || h > 0.8*480+0.5 {
		t.Errorf("text %vx%v does not fit the box", w, h)
	}
	if math.Abs(w-0.8*640) > 1 && math.Abs(h-0.8*480) > 1 {
		t.Errorf("text %vx%v should fill one dimension", w, h)
	}
}

func TestPlaceholders_EmptyText(t *testing.T) {
	r := &mocks.Renderer{}
	f := Placeholders{Renderer: r, Background: color.RGBA{B: 255, A: 255}}.Make("", 4, 4)
	if len(r.Canvases[0].Texts) != 0 {
		t.Error("expected no text for empty label")
	}
	if f.Data[0] != 255 {
		t.Errorf("expected blue background in BGR byte 0, got %d", f.Data[0])
	}
}
