package stillcapture

import (
	"fmt"
	"math"

	"github.com/user/framecheck/pkg/frame"
	"github.com/user/framecheck/pkg/media"
	"github.com/user/framecheck/pkg/ports"
)

// HDRDecoder decodes high bit depth stills.
type HDRDecoder interface {
	DecodeHDR(path string) (*ports.HDRImage, error)
}

// Decoder turns an image file into a BGR frame. 8-bit formats go through
// the renderer; OpenEXR goes through the HDR decoder and NormalizeHDR.
type Decoder struct {
	fs       ports.FileSystem
	renderer ports.Renderer
	hdr      HDRDecoder
}

// NewDecoder creates a Decoder. hdr may be nil, in which case EXR files
// fail to decode.
func NewDecoder(fs ports.FileSystem, renderer ports.Renderer, hdr HDRDecoder) *Decoder {
	return &Decoder{fs: fs, renderer: renderer, hdr: hdr}
}

// Decode reads and decodes path.
func (d *Decoder) Decode(path string) (*frame.Frame, error) {
	if media.IsEXR(path) {
		if d.hdr == nil {
			return nil, fmt.Errorf("decode %s: no HDR decoder", path)
		}
		img, err := d.hdr.DecodeHDR(path)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return NormalizeHDR(img), nil
	}

	data, err := d.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	img, err := d.renderer.DecodeImage(data, ports.FormatAuto)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	f := frame.FromImage(img)
	if f.Empty() {
		return nil, fmt.Errorf("decode %s: empty image", path)
	}
	return f, nil
}

// NormalizeHDR maps the image linearly so the smallest sample across all
// channels becomes 0 and the largest 255. NaN and infinite samples are
// ignored for the range and written as 0. A constant image (min == max)
// becomes all zero.
func NormalizeHDR(img *ports.HDRImage) *frame.Frame {
	f := frame.New(img.Width, img.Height)
	n := img.Width * img.Height * frame.Channels
	if len(img.Pix) < n {
		return f
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range img.Pix[:n] {
		x := float64(v)
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	if !(hi > lo) {
		return f
	}

	scale := 255 / (hi - lo)
	for i := 0; i < img.Width*img.Height; i++ {
		for c := 0; c < 3; c++ {
			x := float64(img.Pix[i*3+c])
			var b byte
			if !math.IsNaN(x) && !math.IsInf(x, 0) {
				b = byte(math.Round((x - lo) * scale))
			}
			// Pix is RGB, frames are BGR.
			f.Data[i*3+2-c] = b
		}
	}
	return f
}
