package summarizer

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Formatter defines the interface for formatting a Summary.
type Formatter interface {
	// Format converts a Summary to a formatted string.
	Format(summary *Summary) string
}

// FormatFunc is a function adapter for the Formatter interface.
type FormatFunc func(summary *Summary) string

// Format implements the Formatter interface.
func (f FormatFunc) Format(summary *Summary) string {
	return f(summary)
}

// YAMLFormatter renders the summary as a YAML document. The stream
// duration is added in seconds at the top level.
func YAMLFormatter() Formatter {
	return FormatFunc(func(s *Summary) string {
		doc := struct {
			Summary `yaml:",inline"`
			Seconds float64 `yaml:"duration_seconds,omitempty"`
		}{*s, s.Stream.Duration().Seconds()}
		out, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Sprintf("# error: %v\n", err)
		}
		return string(out)
	})
}

// FormatterFor returns the formatter named by format ("markdown" or "yaml").
// Options apply to the markdown formatter only.
func FormatterFor(format string, opts ...MarkdownOption) (Formatter, error) {
	switch format {
	case "", "markdown", "md":
		return NewMarkdownFormatter(opts...), nil
	case "yaml", "yml":
		return YAMLFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}
