package videocapture

import (
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/user/framecheck/pkg/adapters/ffmpeg"
	"github.com/user/framecheck/pkg/adapters/logger"
	"github.com/user/framecheck/pkg/mocks"
	"github.com/user/framecheck/pkg/ports"
)

func TestOpen_EstimatesFrameCount(t *testing.T) {
	backend := &mocks.VideoBackend{
		ProbeFunc: func(string) (ports.VideoInfo, error) {
			return ports.VideoInfo{Width: 4, Height: 2, FPS: 30, DurationSec: 1.0}, nil
		},
	}
	c, err := Open("clip.mov", backend, logger.NewNoop())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if c.FrameCount() != 30 || c.FPS() != 30 {
		t.Errorf("expected 30 frames at 30fps, got %d at %v", c.FrameCount(), c.FPS())
	}
}

func TestOpen_Failures(t *testing.T) {
	probeErr := &mocks.VideoBackend{
		ProbeFunc: func(string) (ports.VideoInfo, error) { return ports.VideoInfo{}, errors.New("no") },
	}
	if _, err := Open("x.mp4", probeErr, logger.NewNoop()); err == nil {
		t.Error("expected probe error")
	}

	noFrames := &mocks.VideoBackend{
		ProbeFunc: func(string) (ports.VideoInfo, error) { return ports.VideoInfo{Width: 4, Height: 2, FPS: 24}, nil },
	}
	if _, err := Open("x.mp4", noFrames, logger.NewNoop()); !errors.Is(err, ErrNoFrames) {
		t.Errorf("expected ErrNoFrames, got %v", err)
	}
}

func TestSequentialReadsShareStream(t *testing.T) {
	backend := &mocks.VideoBackend{}
	c, _ := Open("clip.mp4", backend, logger.NewNoop())

	for i := 0; i < 10; i++ {
		f, err := c.Read()
		if err != nil {
			t.Fatalf("read %d failed: %v", i, err)
		}
		if int(f.Data[0]) != i || c.Position()-1 != i {
			t.Fatalf("read %d: got frame %d at position %d", i, f.Data[0], c.Position())
		}
	}
	if _, err := c.Read(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
	if len(backend.Starts) != 1 {
		t.Errorf("expected one stream, got starts %v", backend.Starts)
	}
}

func TestSeekRestartsLazily(t *testing.T) {
	backend := &mocks.VideoBackend{}
	c, _ := Open("clip.mp4", backend, logger.NewNoop())

	c.Seek(6)
	c.Seek(4)
	if len(backend.Starts) != 0 {
		t.Fatal("Seek should not start decoding")
	}

	f, err := c.Read()
	if err != nil {
		t.Fatal(err)
	}
	if f.Data[0] != 4 || c.Position() != 5 {
		t.Errorf("expected frame 4 and position 5, got %d/%d", f.Data[0], c.Position())
	}

	// Seeking to where the stream already is keeps it.
	c.Seek(5)
	c.Read()
	if len(backend.Starts) != 1 {
		t.Errorf("expected stream reuse, got starts %v", backend.Starts)
	}

	c.Seek(2)
	c.Read()
	if len(backend.Starts) != 2 || backend.Starts[1] != 2 {
		t.Errorf("expected restart at 2, got starts %v", backend.Starts)
	}

	c.Seek(100)
	if c.Position() != 10 {
		t.Errorf("expected clamp to 10, got %d", c.Position())
	}
	c.Seek(-1)
	if c.Position() != 0 {
		t.Errorf("expected clamp to 0, got %d", c.Position())
	}
}

func TestRead_ShortStreamIsEOF(t *testing.T) {
	backend := &mocks.VideoBackend{
		StreamFunc: func(path string, info ports.VideoInfo, start int) (ports.FrameStream, error) {
			return &mocks.FrameStream{Cursor: start, Total: 3}, nil
		},
	}
	c, _ := Open("clip.mp4", backend, logger.NewNoop())
	c.Seek(3)
	if _, err := c.Read(); err != io.EOF {
		t.Errorf("expected io.EOF when stream ends early, got %v", err)
	}
}

func TestRelease(t *testing.T) {
	var stream *mocks.FrameStream
	backend := &mocks.VideoBackend{
		StreamFunc: func(path string, info ports.VideoInfo, start int) (ports.FrameStream, error) {
			stream = &mocks.FrameStream{Cursor: start, Total: 10}
			return stream, nil
		},
	}
	c, _ := Open("clip.mp4", backend, logger.NewNoop())
	c.Read()
	c.Release()
	c.Release()

	if !stream.Closed {
		t.Error("expected stream to be closed")
	}
	if c.IsOpened() {
		t.Error("expected capture to be closed")
	}
	if _, err := c.Read(); err != io.EOF {
		t.Errorf("expected io.EOF after release, got %v", err)
	}
}

func TestCapture_RealClip(t *testing.T) {
	if !ffmpeg.IsAvailable() {
		t.Skip("ffmpeg not available")
	}
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := ffmpeg.GenerateTestClip(path, 32, 24, 12, 12); err != nil {
		t.Skipf("cannot generate clip: %v", err)
	}

	c, err := Open(path, ffmpeg.New(logger.NewNoop()), logger.NewNoop())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer c.Release()

	if c.FrameCount() != 12 {
		t.Errorf("expected 12 frames, got %d", c.FrameCount())
	}
	c.Seek(11)
	f, err := c.Read()
	if err != nil {
		t.Fatalf("read of last frame failed: %v", err)
	}
	if f.Width != 32 || f.Height != 24 {
		t.Errorf("unexpected size %dx%d", f.Width, f.Height)
	}
	if _, err := c.Read(); err != io.EOF {
		t.Errorf("expected io.EOF after last frame, got %v", err)
	}
}
