// Package filesink writes presented surface frames and reports to a directory.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/framecheck/pkg/ports"
)

// Sink saves frames as numbered PNG files under baseDir/frames.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// FramePath returns where frame index is written.
func (s *Sink) FramePath(index int) string {
	return filepath.Join(s.baseDir, "frames", fmt.Sprintf("frame-%05d.png", index))
}

// SaveFrame encodes img as PNG and writes it to FramePath(index).
func (s *Sink) SaveFrame(index int, img image.Image) error {
	if err := s.fs.MkdirAll(filepath.Join(s.baseDir, "frames")); err != nil {
		return err
	}
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode frame %d: %w", index, err)
	}
	return s.fs.WriteFile(s.FramePath(index), data)
}

// SaveReport writes data to baseDir/name.
func (s *Sink) SaveReport(name string, data []byte) error {
	return s.fs.WriteFile(filepath.Join(s.baseDir, name), data)
}

var _ ports.FrameSink = (*Sink)(nil)
