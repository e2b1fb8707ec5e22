package summarizer

import (
	"fmt"

	"github.com/user/framecheck/pkg/adapters/audioprobe"
	"github.com/user/framecheck/pkg/media"
	"github.com/user/framecheck/pkg/ports"
)

// Opener opens a media path as a capture.
type Opener interface {
	Open(path string) (ports.Capture, error)
}

// VideoProber reads container metadata.
type VideoProber interface {
	Probe(path string) (ports.VideoInfo, error)
}

// AudioProber reads tag data.
type AudioProber interface {
	Probe(path string) (audioprobe.Info, error)
}

// Inspector gathers a Summary by opening a path the way the player would.
type Inspector struct {
	Opener Opener
	Video  VideoProber // optional
	Audio  AudioProber // optional
}

// Inspect opens path, reads its first frame and fills in whatever the
// probers can add. The capture is released before returning.
func (in *Inspector) Inspect(path string) (*Summary, error) {
	c, err := in.Opener.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer c.Release()

	b := NewBuilder(path)
	first, err := c.Read()
	if err != nil {
		return nil, fmt.Errorf("read first frame of %s: %w", path, err)
	}
	b.WithStream(c.FrameCount(), c.FPS(), first.Width, first.Height)

	kind := media.Classify(path)
	if n, ok := c.(ports.FrameNumberer); ok && kind == media.KindSequence {
		b.WithSequence(n.FirstFrameNumber(), n.LastFrameNumber())
	}
	if kind == media.KindVideo && in.Video != nil {
		if info, err := in.Video.Probe(path); err == nil {
			b.WithProbe(info.Codec, info.Backend)
		}
	}
	if kind == media.KindAudio && in.Audio != nil {
		if info, err := in.Audio.Probe(path); err == nil {
			b.WithAudio(info.Title, info.Artist, info.Duration)
		}
	}
	return b.Build(), nil
}
