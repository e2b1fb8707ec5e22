package mp4probe

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/user/framecheck/pkg/adapters/ffmpeg"
)

func TestCanProbe(t *testing.T) {
	p := New()
	for path, want := range map[string]bool{
		"a.mp4":  true,
		"b.MOV":  true,
		"c.mkv":  false,
		"d.png":  false,
		"mp4":    false,
		"x.mp4/": false,
	} {
		if got := p.CanProbe(path); got != want {
			t.Errorf("CanProbe(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestCodecName(t *testing.T) {
	tests := map[string]string{
		"avc1": "h264",
		"hev1": "hevc",
		"av01": "av1",
		"apch": "prores",
		"mp4v": "mp4v",
	}
	for in, want := range tests {
		if got := codecName(in); got != want {
			t.Errorf("codecName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestProbe_NotMP4(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.mp4")
	if err := os.WriteFile(path, []byte("definitely not an mp4 file"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := New().Probe(path); err == nil {
		t.Error("expected error for junk data")
	}
}

func TestProbe_MissingFile(t *testing.T) {
	if _, err := New().Probe(filepath.Join(t.TempDir(), "missing.mp4")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestProbe_GeneratedClip(t *testing.T) {
	if _, err := ffmpeg.FindFFmpeg(); err != nil {
		t.Skip("ffmpeg not available")
	}
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := ffmpeg.GenerateTestClip(path, 64, 48, 24, 36); err != nil {
		t.Skipf("cannot generate clip: %v", err)
	}

	info, err := New().Probe(path)
	if errors.Is(err, ErrFragmented) {
		t.Skip("ffmpeg produced a fragmented file")
	}
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if info.Width != 64 || info.Height != 48 {
		t.Errorf("unexpected size %dx%d", info.Width, info.Height)
	}
	if info.FrameCount != 36 {
		t.Errorf("expected 36 frames, got %d", info.FrameCount)
	}
	if math.Abs(info.FPS-24) > 0.01 {
		t.Errorf("expected 24 fps, got %v", info.FPS)
	}
	if math.Abs(info.DurationSec-1.5) > 0.01 {
		t.Errorf("expected 1.5s, got %v", info.DurationSec)
	}
	if info.Backend != "mp4ff" {
		t.Errorf("unexpected backend %q", info.Backend)
	}
}
