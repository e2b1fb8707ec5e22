// Package capture opens a media path as a ports.Capture, choosing the
// adapter from the path's classification.
package capture

import (
	"errors"
	"fmt"

	"github.com/user/framecheck/pkg/adapters/audioprobe"
	"github.com/user/framecheck/pkg/adapters/sequencecapture"
	"github.com/user/framecheck/pkg/adapters/stillcapture"
	"github.com/user/framecheck/pkg/adapters/videocapture"
	"github.com/user/framecheck/pkg/media"
	"github.com/user/framecheck/pkg/ports"
	"github.com/user/framecheck/pkg/surface"
)

var (
	// ErrUnsupportedFormat is returned for paths the classifier rejects.
	ErrUnsupportedFormat = errors.New("capture: unsupported format")
	// ErrDecodeFailed is returned when no adapter produced a first frame.
	ErrDecodeFailed = errors.New("capture: decode failed")
)

// DefaultSequenceFPS is the rate reported by image sequences.
const DefaultSequenceFPS = 24.0

// AudioProber reads the metadata shown on an audio placeholder.
type AudioProber interface {
	Probe(path string) (audioprobe.Info, error)
}

// Options tunes the factory.
type Options struct {
	SequenceFPS       float64
	PlaceholderWidth  int
	PlaceholderHeight int
}

// Opener is the capture factory.
type Opener struct {
	fs           ports.FileSystem
	backend      ports.VideoBackend
	stills       *stillcapture.Decoder
	audio        AudioProber
	placeholders surface.Placeholders
	opts         Options
	logger       ports.Logger
}

// NewOpener wires the factory. backend decodes video and EXR, renderer
// decodes 8-bit stills and draws audio placeholders.
func NewOpener(fs ports.FileSystem, backend ports.VideoBackend, renderer ports.Renderer, audio AudioProber, opts Options, logger ports.Logger) *Opener {
	if opts.SequenceFPS <= 0 {
		opts.SequenceFPS = DefaultSequenceFPS
	}
	if opts.PlaceholderWidth <= 0 {
		opts.PlaceholderWidth = 640
	}
	if opts.PlaceholderHeight <= 0 {
		opts.PlaceholderHeight = 480
	}
	return &Opener{
		fs:           fs,
		backend:      backend,
		stills:       stillcapture.NewDecoder(fs, renderer, backend),
		audio:        audio,
		placeholders: surface.Placeholders{Renderer: renderer},
		opts:         opts,
		logger:       logger.WithComponent("capture"),
	}
}

// Decoder returns the still decoder, shared with sequence captures.
func (o *Opener) Decoder() *stillcapture.Decoder {
	return o.stills
}

// Open returns an opened capture for path, positioned at frame 0.
func (o *Opener) Open(path string) (ports.Capture, error) {
	kind := media.Classify(path)
	o.logger.Debug("Opening %s as %s", path, kind)

	switch kind {
	case media.KindSequence:
		c, err := sequencecapture.Open(path, o.opts.SequenceFPS, o.fs, o.stills, o.logger)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
		}
		return c, nil
	case media.KindAudio:
		return o.openAudio(path)
	case media.KindImage:
		return o.openStill(path)
	case media.KindVideo:
		c, err := o.openVideo(path)
		if err == nil {
			return c, nil
		}
		o.logger.Debug("Video decode of %s failed, trying still decode: %v", path, err)
		return o.openStill(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func (o *Opener) openVideo(path string) (ports.Capture, error) {
	c, err := videocapture.Open(path, o.backend, o.logger)
	if err != nil {
		return nil, err
	}
	if _, err := c.Read(); err != nil {
		c.Release()
		return nil, fmt.Errorf("first frame of %s: %w", path, err)
	}
	c.Seek(0)
	return c, nil
}

func (o *Opener) openStill(path string) (ports.Capture, error) {
	c, err := stillcapture.Open(path, o.stills)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	return c, nil
}

func (o *Opener) openAudio(path string) (ports.Capture, error) {
	if o.audio == nil {
		return nil, fmt.Errorf("%w: no audio prober for %s", ErrDecodeFailed, path)
	}
	info, err := o.audio.Probe(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	f := o.placeholders.Make(info.Label(), o.opts.PlaceholderWidth, o.opts.PlaceholderHeight)
	return stillcapture.New(f), nil
}
