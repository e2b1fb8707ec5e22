package ffmpeg

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os/exec"

	"github.com/user/framecheck/pkg/ports"
)

// DecodeHDR decodes the first image of path as planar float32 and returns
// it as interleaved RGB. ffmpeg's gbrpf32le layout stores the G, B and R
// planes in that order.
func (b *Backend) DecodeHDR(path string) (*ports.HDRImage, error) {
	info, err := b.Probe(path)
	if err != nil {
		return nil, err
	}
	ffmpegPath, err := FindFFmpeg()
	if err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(ffmpegPath,
		"-v", "error", "-nostdin",
		"-i", path,
		"-frames:v", "1",
		"-f", "rawvideo",
		"-pix_fmt", "gbrpf32le",
		"-",
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg decode %s: %w\nstderr: %s", path, err, stderr.String())
	}
	return planarToHDR(stdout.Bytes(), info.Width, info.Height)
}

func planarToHDR(data []byte, width, height int) (*ports.HDRImage, error) {
	plane := width * height
	if len(data) < plane*3*4 {
		return nil, fmt.Errorf("hdr: got %d bytes, want %d", len(data), plane*3*4)
	}
	img := &ports.HDRImage{
		Width:  width,
		Height: height,
		Pix:    make([]float32, plane*3),
	}
	sample := func(p, i int) float32 {
		off := (p*plane + i) * 4
		return math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
	}
	for i := 0; i < plane; i++ {
		img.Pix[i*3+0] = sample(2, i)
		img.Pix[i*3+1] = sample(0, i)
		img.Pix[i*3+2] = sample(1, i)
	}
	return img, nil
}
