// Package smartdecoder picks the metadata source for a video file and
// delegates decoding to the ffmpeg backend.
//
// Probe order:
//   - MP4/MOV: mp4ff reads the sample tables directly
//   - anything else, or when mp4ff fails: ffprobe
package smartdecoder

import (
	"errors"
	"fmt"

	"github.com/user/framecheck/pkg/adapters/ffmpeg"
	"github.com/user/framecheck/pkg/adapters/mp4probe"
	"github.com/user/framecheck/pkg/ports"
)

// ErrNoBackend is returned when no prober could read the file.
var ErrNoBackend = errors.New("smartdecoder: no backend could probe file")

// ContainerProber reads metadata for the containers it recognises.
type ContainerProber interface {
	CanProbe(path string) bool
	Probe(path string) (ports.VideoInfo, error)
}

// Options configures executable discovery.
type Options struct {
	// FFmpegPath is an optional custom path to the ffmpeg binary.
	FFmpegPath string
	// FFprobePath is an optional custom path to the ffprobe binary.
	FFprobePath string
}

// Decoder implements ports.VideoBackend.
type Decoder struct {
	container ContainerProber
	backend   ports.VideoBackend
	logger    ports.Logger
}

// New creates a Decoder using mp4ff for containers and ffmpeg for the rest.
func New(opts Options, logger ports.Logger) *Decoder {
	if opts.FFmpegPath != "" {
		ffmpeg.SetFFmpegPath(opts.FFmpegPath)
	}
	if opts.FFprobePath != "" {
		ffmpeg.SetFFprobePath(opts.FFprobePath)
	}
	return NewWith(mp4probe.New(), ffmpeg.New(logger), logger)
}

// NewWith creates a Decoder from explicit parts.
func NewWith(container ContainerProber, backend ports.VideoBackend, logger ports.Logger) *Decoder {
	return &Decoder{
		container: container,
		backend:   backend,
		logger:    logger.WithComponent("decoder"),
	}
}

// Probe returns container metadata when it is complete, otherwise the
// backend's answer.
func (d *Decoder) Probe(path string) (ports.VideoInfo, error) {
	if d.container != nil && d.container.CanProbe(path) {
		info, err := d.container.Probe(path)
		switch {
		case err != nil:
			d.logger.Debug("Container probe failed for %s: %v", path, err)
		case info.FPS <= 0 || info.EstimatedFrameCount() <= 0:
			d.logger.Debug("Container probe incomplete for %s", path)
		default:
			return info, nil
		}
	}

	info, err := d.backend.Probe(path)
	if err != nil {
		return ports.VideoInfo{}, fmt.Errorf("%w: %s: %v", ErrNoBackend, path, err)
	}
	return info, nil
}

// Stream delegates to the backend.
func (d *Decoder) Stream(path string, info ports.VideoInfo, start int) (ports.FrameStream, error) {
	return d.backend.Stream(path, info, start)
}

// DecodeHDR delegates to the backend.
func (d *Decoder) DecodeHDR(path string) (*ports.HDRImage, error) {
	return d.backend.DecodeHDR(path)
}

var _ ports.VideoBackend = (*Decoder)(nil)
