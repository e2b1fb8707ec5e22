// Package summarizer builds media reports for the probe command.
package summarizer

import (
	"time"

	"github.com/user/framecheck/pkg/media"
)

// Summary describes one media path as the engine sees it.
type Summary struct {
	// Metadata
	GeneratedAt time.Time `yaml:"generated_at"`

	// Source path and classification
	Source SourceInfo `yaml:"source"`

	// Decoded stream shape
	Stream StreamInfo `yaml:"stream"`

	// Numbered sequence range, zero unless Kind is sequence
	Sequence SequenceInfo `yaml:"sequence,omitempty"`

	// Container probe results, zero for stills and sequences
	Probe ProbeInfo `yaml:"probe,omitempty"`

	// Tag data, zero unless Kind is audio
	Audio AudioInfo `yaml:"audio,omitempty"`
}

// SourceInfo identifies the reported path.
type SourceInfo struct {
	Path string     `yaml:"path"`
	Kind media.Kind `yaml:"kind"`
}

// StreamInfo is what a capture reports after opening.
type StreamInfo struct {
	FrameCount int     `yaml:"frame_count"`
	FPS        float64 `yaml:"fps"`
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
}

// Duration returns FrameCount/FPS, or 0 for stills.
func (s StreamInfo) Duration() time.Duration {
	if s.FPS <= 0 || s.FrameCount <= 0 {
		return 0
	}
	return time.Duration(float64(s.FrameCount) / s.FPS * float64(time.Second))
}

// SequenceInfo holds the on-disk frame numbers of the first and last file.
type SequenceInfo struct {
	FirstFrame int `yaml:"first_frame"`
	LastFrame  int `yaml:"last_frame"`
}

// ProbeInfo records what the container prober found.
type ProbeInfo struct {
	Codec   string `yaml:"codec,omitempty"`
	Backend string `yaml:"backend,omitempty"`
}

// AudioInfo holds tag data of an audio file.
type AudioInfo struct {
	Title    string        `yaml:"title,omitempty"`
	Artist   string        `yaml:"artist,omitempty"`
	Duration time.Duration `yaml:"duration,omitempty"`
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a Builder for path. The kind is taken from the path.
func NewBuilder(path string) *Builder {
	s := NewSummary()
	s.Source = SourceInfo{Path: path, Kind: media.Classify(path)}
	return &Builder{summary: s}
}

// WithStream sets the decoded stream shape.
func (b *Builder) WithStream(frames int, fps float64, width, height int) *Builder {
	b.summary.Stream = StreamInfo{
		FrameCount: frames,
		FPS:        fps,
		Width:      width,
		Height:     height,
	}
	return b
}

// WithSequence sets the frame number range.
func (b *Builder) WithSequence(first, last int) *Builder {
	b.summary.Sequence = SequenceInfo{FirstFrame: first, LastFrame: last}
	return b
}

// WithProbe sets container probe results.
func (b *Builder) WithProbe(codec, backend string) *Builder {
	b.summary.Probe = ProbeInfo{Codec: codec, Backend: backend}
	return b
}

// WithAudio sets tag data.
func (b *Builder) WithAudio(title, artist string, d time.Duration) *Builder {
	b.summary.Audio = AudioInfo{Title: title, Artist: artist, Duration: d}
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
