package ports

import (
	"github.com/user/framecheck/pkg/frame"
)

// VideoInfo describes the primary video stream of a file.
type VideoInfo struct {
	Width       int
	Height      int
	FPS         float64
	FrameCount  int     // 0 when the container does not say
	DurationSec float64 // 0 when unknown
	Codec       string
	Backend     string // which prober produced the info
}

// EstimatedFrameCount returns FrameCount, or duration*fps rounded when the
// container does not report a count.
func (v VideoInfo) EstimatedFrameCount() int {
	if v.FrameCount > 0 {
		return v.FrameCount
	}
	if v.DurationSec > 0 && v.FPS > 0 {
		return int(v.DurationSec*v.FPS + 0.5)
	}
	return 0
}

// FrameStream yields consecutive decoded frames.
type FrameStream interface {
	// Next returns the next frame or io.EOF at the end of the stream.
	Next() (*frame.Frame, error)

	// Close stops decoding and releases the stream.
	Close() error
}

// HDRImage is a linear float image with interleaved RGB samples.
type HDRImage struct {
	Width  int
	Height int
	Pix    []float32 // R, G, B per pixel
}

// VideoBackend abstracts the decoding library.
type VideoBackend interface {
	// Probe reads stream metadata without decoding frames.
	Probe(path string) (VideoInfo, error)

	// Stream starts decoding at frame index start.
	Stream(path string, info VideoInfo, start int) (FrameStream, error)

	// DecodeHDR decodes a high bit depth still (OpenEXR) as float RGB.
	DecodeHDR(path string) (*HDRImage, error)
}
