// Package mp4probe reads video stream metadata from ISO-BMFF files (MP4 and
// QuickTime MOV) without decoding any samples.
package mp4probe

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/framecheck/pkg/ports"
)

var (
	// ErrNoVideoTrack is returned when the file has no video track.
	ErrNoVideoTrack = errors.New("mp4probe: no video track found")

	// ErrFragmented is returned for fragmented files, whose sample tables
	// live in the fragments rather than the movie box.
	ErrFragmented = errors.New("mp4probe: fragmented file")
)

// Prober implements the Probe half of ports.VideoBackend.
type Prober struct{}

// New creates a new Prober.
func New() *Prober {
	return &Prober{}
}

// CanProbe reports whether path has an ISO-BMFF extension.
func (p *Prober) CanProbe(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".mp4") || strings.HasSuffix(lower, ".mov")
}

// Probe reads frame count, frame rate, duration, size and codec from the
// first video track.
func (p *Prober) Probe(path string) (ports.VideoInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ports.VideoInfo{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return ProbeReader(f)
}

// ProbeReader is Probe over an already opened file.
func ProbeReader(r io.ReadSeeker) (ports.VideoInfo, error) {
	file, err := mp4.DecodeFile(r, mp4.WithDecodeMode(mp4.DecModeLazyMdat))
	if err != nil {
		return ports.VideoInfo{}, fmt.Errorf("decode mp4: %w", err)
	}
	if file.IsFragmented() {
		return ports.VideoInfo{}, ErrFragmented
	}
	if file.Moov == nil {
		return ports.VideoInfo{}, ErrNoVideoTrack
	}

	for _, trak := range file.Moov.Traks {
		if info, ok := infoFromTrack(trak); ok {
			return info, nil
		}
	}
	return ports.VideoInfo{}, ErrNoVideoTrack
}

func infoFromTrack(trak *mp4.TrakBox) (ports.VideoInfo, bool) {
	if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
		return ports.VideoInfo{}, false
	}
	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return ports.VideoInfo{}, false
	}
	stbl := trak.Mdia.Minf.Stbl

	info := ports.VideoInfo{Backend: "mp4ff"}
	for _, child := range stbl.Stsd.Children {
		if vse, ok := child.(*mp4.VisualSampleEntryBox); ok {
			info.Width = int(vse.Width)
			info.Height = int(vse.Height)
			info.Codec = codecName(vse.Type())
			break
		}
	}
	if info.Width == 0 || info.Height == 0 {
		return ports.VideoInfo{}, false
	}

	var timescale uint32
	var mdhdDuration uint64
	if trak.Mdia.Mdhd != nil {
		timescale = trak.Mdia.Mdhd.Timescale
		mdhdDuration = trak.Mdia.Mdhd.Duration
	}

	var samples, ticks uint64
	if stbl.Stts != nil {
		for i, n := range stbl.Stts.SampleCount {
			samples += uint64(n)
			ticks += uint64(n) * uint64(stbl.Stts.SampleTimeDelta[i])
		}
	}
	if samples == 0 && stbl.Stsz != nil {
		samples = uint64(stbl.Stsz.SampleNumber)
	}
	if ticks == 0 {
		ticks = mdhdDuration
	}

	info.FrameCount = int(samples)
	if timescale > 0 && ticks > 0 {
		info.DurationSec = float64(ticks) / float64(timescale)
		if samples > 0 {
			info.FPS = float64(samples) / info.DurationSec
		}
	}
	return info, true
}

func codecName(fourcc string) string {
	switch fourcc {
	case "avc1", "avc3":
		return "h264"
	case "hvc1", "hev1":
		return "hevc"
	case "av01":
		return "av1"
	case "vp09":
		return "vp9"
	case "apcn", "apch", "apcs", "apco", "ap4h":
		return "prores"
	default:
		return fourcc
	}
}
