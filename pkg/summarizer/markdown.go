package summarizer

import (
	"fmt"
	"strings"
	"time"

	"github.com/user/framecheck/pkg/media"
)

// Translator maps an English label to the user's language.
type Translator func(key string) string

// MarkdownFormatter renders a Summary as a Markdown table.
type MarkdownFormatter struct {
	translate Translator
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the label translator.
func WithTranslator(t Translator) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = t
	}
}

// WithVersion adds the tool version to the footer.
func WithVersion(v string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = v
	}
}

// NewMarkdownFormatter creates a formatter. Labels stay English unless a
// translator is given.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(key string) string { return key },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", t("Media Report"))
	fmt.Fprintf(&sb, "| %s | %s |\n", t("Item"), t("Value"))
	sb.WriteString("|---|---|\n")

	row := func(label, value string) {
		fmt.Fprintf(&sb, "| %s | %s |\n", t(label), escapeCell(value))
	}

	row("Path", s.Source.Path)
	row("Kind", string(s.Source.Kind))
	row("Frames", fmt.Sprintf("%d", s.Stream.FrameCount))
	if s.Stream.FPS > 0 {
		row("Frame Rate", fmt.Sprintf("%.3f fps", s.Stream.FPS))
		row("Duration", formatDuration(s.Stream.Duration()))
	} else {
		row("Frame Rate", t("N/A"))
	}
	if s.Stream.Width > 0 && s.Stream.Height > 0 {
		row("Resolution", fmt.Sprintf("%dx%d", s.Stream.Width, s.Stream.Height))
	}
	if s.Source.Kind == media.KindSequence {
		row("Frame Range", fmt.Sprintf("%d-%d", s.Sequence.FirstFrame, s.Sequence.LastFrame))
	}
	if s.Probe.Codec != "" {
		row("Codec", s.Probe.Codec)
	}
	if s.Probe.Backend != "" {
		row("Backend", s.Probe.Backend)
	}
	if s.Source.Kind == media.KindAudio {
		if s.Audio.Title != "" {
			row("Title", s.Audio.Title)
		}
		if s.Audio.Artist != "" {
			row("Artist", s.Audio.Artist)
		}
		row("Audio Duration", formatDuration(s.Audio.Duration))
	}

	sb.WriteString("\n---\n")
	generated := s.GeneratedAt.Format(time.RFC3339)
	if f.version != "" {
		fmt.Fprintf(&sb, "%s framecheck %s, %s\n", t("Generated by"), f.version, generated)
	} else {
		fmt.Fprintf(&sb, "%s framecheck, %s\n", t("Generated by"), generated)
	}
	return sb.String()
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.3f s", d.Seconds())
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
