package mocks

import (
	"io"

	"github.com/user/framecheck/pkg/frame"
	"github.com/user/framecheck/pkg/ports"
)

// VideoBackend is a mock implementation of ports.VideoBackend.
type VideoBackend struct {
	ProbeFunc     func(path string) (ports.VideoInfo, error)
	StreamFunc    func(path string, info ports.VideoInfo, start int) (ports.FrameStream, error)
	DecodeHDRFunc func(path string) (*ports.HDRImage, error)

	// Starts records the start index of every Stream call.
	Starts []int
}

func (m *VideoBackend) Probe(path string) (ports.VideoInfo, error) {
	if m.ProbeFunc != nil {
		return m.ProbeFunc(path)
	}
	return ports.VideoInfo{Width: 4, Height: 2, FPS: 24, FrameCount: 10}, nil
}

func (m *VideoBackend) Stream(path string, info ports.VideoInfo, start int) (ports.FrameStream, error) {
	m.Starts = append(m.Starts, start)
	if m.StreamFunc != nil {
		return m.StreamFunc(path, info, start)
	}
	return &FrameStream{Cursor: start, Total: info.EstimatedFrameCount(), Width: info.Width, Height: info.Height}, nil
}

func (m *VideoBackend) DecodeHDR(path string) (*ports.HDRImage, error) {
	if m.DecodeHDRFunc != nil {
		return m.DecodeHDRFunc(path)
	}
	return &ports.HDRImage{Width: 1, Height: 1, Pix: []float32{0, 0, 0}}, nil
}

var _ ports.VideoBackend = (*VideoBackend)(nil)

// FrameStream yields frames Cursor..Total-1; frame i has first byte i%256.
type FrameStream struct {
	Cursor int
	Total  int
	Width  int
	Height int
	Closed bool
}

func (s *FrameStream) Next() (*frame.Frame, error) {
	if s.Closed || s.Cursor >= s.Total {
		return nil, io.EOF
	}
	w, h := s.Width, s.Height
	if w == 0 || h == 0 {
		w, h = 4, 2
	}
	f := frame.New(w, h)
	f.Data[0] = byte(s.Cursor % 256)
	s.Cursor++
	return f, nil
}

func (s *FrameStream) Close() error {
	s.Closed = true
	return nil
}

var _ ports.FrameStream = (*FrameStream)(nil)
