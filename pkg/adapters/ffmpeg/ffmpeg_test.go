package ffmpeg

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"path/filepath"
	"testing"

	"github.com/user/framecheck/pkg/adapters/logger"
	"github.com/user/framecheck/pkg/ports"
)

func skipWithoutFFmpeg(t *testing.T) {
	t.Helper()
	if !IsAvailable() {
		t.Skip("ffmpeg/ffprobe not available")
	}
}

func TestParseProbe(t *testing.T) {
	data := []byte(`{
		"streams": [{
			"codec_name": "h264",
			"width": 1920,
			"height": 1080,
			"avg_frame_rate": "30000/1001",
			"r_frame_rate": "30000/1001",
			"nb_frames": "300",
			"duration": "10.010000"
		}],
		"format": {"duration": "10.020000"}
	}`)
	info, err := parseProbe(data)
	if err != nil {
		t.Fatalf("parseProbe failed: %v", err)
	}
	if info.Width != 1920 || info.Height != 1080 {
		t.Errorf("unexpected size %dx%d", info.Width, info.Height)
	}
	if math.Abs(info.FPS-29.97) > 0.01 {
		t.Errorf("expected 29.97 fps, got %v", info.FPS)
	}
	if info.FrameCount != 300 || info.Codec != "h264" || info.Backend != "ffprobe" {
		t.Errorf("unexpected info %+v", info)
	}
	if info.DurationSec != 10.01 {
		t.Errorf("expected stream duration, got %v", info.DurationSec)
	}
}

func TestParseProbe_EstimatesWithoutFrameCount(t *testing.T) {
	data := []byte(`{
		"streams": [{"width": 64, "height": 48, "avg_frame_rate": "0/0", "r_frame_rate": "25/1", "nb_frames": "N/A"}],
		"format": {"duration": "2.0"}
	}`)
	info, err := parseProbe(data)
	if err != nil {
		t.Fatalf("parseProbe failed: %v", err)
	}
	if info.FPS != 25 {
		t.Errorf("expected r_frame_rate fallback, got %v", info.FPS)
	}
	if info.FrameCount != 0 {
		t.Errorf("expected unknown frame count, got %d", info.FrameCount)
	}
	if got := info.EstimatedFrameCount(); got != 50 {
		t.Errorf("expected estimate 50, got %d", got)
	}
}

func TestParseProbe_NoVideo(t *testing.T) {
	if _, err := parseProbe([]byte(`{"streams": [], "format": {}}`)); !errors.Is(err, ErrNoVideoStream) {
		t.Errorf("expected ErrNoVideoStream, got %v", err)
	}
}

func TestStartTime(t *testing.T) {
	tests := []struct {
		index int
		fps   float64
		want  float64
	}{
		{0, 24, 0},
		{1, 24, 0.5 / 24},
		{10, 10, 0.95},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := StartTime(tt.index, tt.fps); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("StartTime(%d, %v) = %v, want %v", tt.index, tt.fps, got, tt.want)
		}
	}
}

func TestPlanarToHDR(t *testing.T) {
	// 1x1: planes G, B, R.
	var buf bytes.Buffer
	for _, v := range []float32{0.5, 0.25, 2.0} {
		binary.Write(&buf, binary.LittleEndian, math.Float32bits(v))
	}
	img, err := planarToHDR(buf.Bytes(), 1, 1)
	if err != nil {
		t.Fatalf("planarToHDR failed: %v", err)
	}
	if img.Pix[0] != 2.0 || img.Pix[1] != 0.5 || img.Pix[2] != 0.25 {
		t.Errorf("expected RGB (2, 0.5, 0.25), got %v", img.Pix)
	}

	if _, err := planarToHDR(buf.Bytes()[:8], 1, 1); err == nil {
		t.Error("expected error for short buffer")
	}
}

func TestFind_CustomPathMissing(t *testing.T) {
	SetFFmpegPath(filepath.Join(t.TempDir(), "no-such-ffmpeg"))
	defer SetFFmpegPath("")

	if _, err := FindFFmpeg(); !errors.Is(err, ErrFFmpegNotFound) {
		t.Errorf("expected ErrFFmpegNotFound, got %v", err)
	}
}

func TestBackend_ProbeAndStream(t *testing.T) {
	skipWithoutFFmpeg(t)

	clip := filepath.Join(t.TempDir(), "clip.mp4")
	if err := GenerateTestClip(clip, 64, 48, 10, 20); err != nil {
		t.Skipf("cannot generate clip: %v", err)
	}

	b := New(logger.NewNoop())
	info, err := b.Probe(clip)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if info.Width != 64 || info.Height != 48 {
		t.Errorf("unexpected size %dx%d", info.Width, info.Height)
	}
	if info.FPS != 10 {
		t.Errorf("expected 10 fps, got %v", info.FPS)
	}
	if info.EstimatedFrameCount() != 20 {
		t.Errorf("expected 20 frames, got %d", info.EstimatedFrameCount())
	}

	all := readAll(t, b, clip, info, 0)
	if len(all) != 20 {
		t.Fatalf("expected 20 frames from start, got %d", len(all))
	}

	fromSeven := readAll(t, b, clip, info, 7)
	if len(fromSeven) != 13 {
		t.Fatalf("expected 13 frames from index 7, got %d", len(fromSeven))
	}
	if !bytes.Equal(fromSeven[0], all[7]) {
		t.Error("seek to frame 7 did not produce frame 7")
	}
}

func TestStreamArgs_DisablesAutorotate(t *testing.T) {
	args := streamArgs("clip.mov", ports.VideoInfo{Width: 64, Height: 48, FPS: 10}, 5)

	noRotate, input := -1, -1
	for i, a := range args {
		switch a {
		case "-noautorotate":
			noRotate = i
		case "-i":
			input = i
		}
	}
	if noRotate < 0 || input < 0 || noRotate > input {
		t.Errorf("expected -noautorotate before -i, got %v", args)
	}
}

func TestBackend_StreamRotatedClipKeepsCodedSize(t *testing.T) {
	skipWithoutFFmpeg(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "clip.mp4")
	if err := GenerateTestClip(src, 64, 48, 10, 3); err != nil {
		t.Skipf("cannot generate clip: %v", err)
	}
	rotated := filepath.Join(dir, "rotated.mp4")
	if err := GenerateRotatedClip(src, rotated, 90); err != nil {
		t.Skipf("cannot tag rotation: %v", err)
	}

	b := New(logger.NewNoop())
	info, err := b.Probe(rotated)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if info.Width != 64 || info.Height != 48 {
		t.Fatalf("expected coded size 64x48, got %dx%d", info.Width, info.Height)
	}

	want := readAll(t, b, src, info, 0)
	got := readAll(t, b, rotated, info, 0)
	if len(got) != len(want) {
		t.Fatalf("expected %d frames, got %d", len(want), len(got))
	}
	for i := range got {
		if !bytes.Equal(got[i], want[i]) {
			t.Errorf("frame %d differs from the unrotated source", i)
		}
	}
}

func readAll(t *testing.T, b *Backend, path string, info ports.VideoInfo, start int) [][]byte {
	t.Helper()
	s, err := b.Stream(path, info, start)
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	defer s.Close()

	var frames [][]byte
	for {
		f, err := s.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		frames = append(frames, f.Data)
	}
	return frames
}

func TestBackend_DecodeHDR(t *testing.T) {
	skipWithoutFFmpeg(t)

	path := filepath.Join(t.TempDir(), "flat.exr")
	if err := GenerateConstantEXR(path, 8, 4, "gray"); err != nil {
		t.Skipf("ffmpeg cannot write EXR: %v", err)
	}

	img, err := New(logger.NewNoop()).DecodeHDR(path)
	if err != nil {
		t.Fatalf("DecodeHDR failed: %v", err)
	}
	if img.Width != 8 || img.Height != 4 || len(img.Pix) != 8*4*3 {
		t.Fatalf("unexpected image %dx%d (%d samples)", img.Width, img.Height, len(img.Pix))
	}
	for i := 3; i < len(img.Pix); i++ {
		if img.Pix[i] != img.Pix[i%3] {
			t.Fatalf("expected constant image, sample %d = %v vs %v", i, img.Pix[i], img.Pix[i%3])
		}
	}
}
