// Package audioprobe reads the title and duration of an audio file so it can
// be shown as a placeholder frame. No samples are decoded for output.
package audioprobe

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/tcolgate/mp3"
)

// Info describes an audio file.
type Info struct {
	Title    string
	Artist   string
	Duration time.Duration
}

// Label renders the placeholder text: the title on the first line and the
// duration as m:ss on the second.
func (i Info) Label() string {
	return i.Title + "\n" + FormatDuration(i.Duration)
}

// FormatDuration formats d as m:ss, or h:mm:ss past an hour.
func FormatDuration(d time.Duration) string {
	total := int(d.Round(time.Second) / time.Second)
	h, m, s := total/3600, (total/60)%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Prober reads audio metadata.
type Prober struct{}

// New creates a new Prober.
func New() *Prober {
	return &Prober{}
}

// Probe opens path and reads its tags and duration. Missing tags fall back
// to the file name; an undecodable stream yields a zero duration.
func (p *Prober) Probe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info := Info{Title: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
	if m, err := tag.ReadFrom(f); err == nil {
		if m.Title() != "" {
			info.Title = m.Title()
		}
		info.Artist = m.Artist()
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return info, fmt.Errorf("seek %s: %w", path, err)
	}
	info.Duration = mp3Duration(f)
	return info, nil
}

// mp3Duration walks the MPEG frames and sums their durations.
func mp3Duration(r io.Reader) time.Duration {
	dec := mp3.NewDecoder(r)
	var total time.Duration
	var skipped int
	for {
		var fr mp3.Frame
		if err := dec.Decode(&fr, &skipped); err != nil {
			if !errors.Is(err, io.EOF) && total == 0 {
				return 0
			}
			break
		}
		total += fr.Duration()
	}
	return total
}
