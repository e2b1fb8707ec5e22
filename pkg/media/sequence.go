package media

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// ErrNotTemplate is returned by ParseTemplate for paths without a usable
// %0Nd token.
var ErrNotTemplate = errors.New("media: path is not a sequence template")

// MaxPadding is the widest frame number padding a template may declare.
const MaxPadding = 64

// Template describes a numbered sequence: Dir/Prefix + N digits + Suffix.
type Template struct {
	Dir    string
	Prefix string
	Digits int
	Suffix string
}

// ParseTemplate splits dir/base%0Nd.ext into its parts.
func ParseTemplate(path string) (Template, error) {
	if !IsSequenceTemplate(path) {
		return Template{}, ErrNotTemplate
	}
	base := filepath.Base(path)
	loc := templateToken.FindStringSubmatchIndex(base)
	digits, err := strconv.Atoi(base[loc[2]:loc[3]])
	if err != nil || digits < 1 || digits > MaxPadding {
		return Template{}, fmt.Errorf("%w: bad padding in %q", ErrNotTemplate, base)
	}
	return Template{
		Dir:    filepath.Dir(path),
		Prefix: base[:loc[0]],
		Digits: digits,
		Suffix: base[loc[1]:],
	}, nil
}

// String renders the template back to dir/base%0Nd.ext form.
func (t Template) String() string {
	name := fmt.Sprintf("%s%%0%dd%s", t.Prefix, t.Digits, t.Suffix)
	if t.Dir == "" {
		return name
	}
	return filepath.Join(t.Dir, name)
}

// Pattern returns a regexp matching file names of the sequence, with the
// frame number as the first submatch. Exactly Digits decimal digits match.
// Digits must lie in 1..MaxPadding, which ParseTemplate and DetectSequence
// guarantee.
func (t Template) Pattern() *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`^%s(\d{%d})%s$`,
		regexp.QuoteMeta(t.Prefix), t.Digits, regexp.QuoteMeta(t.Suffix)))
}

// FileName returns the file name for frame number n.
func (t Template) FileName(n int) string {
	return fmt.Sprintf("%s%0*d%s", t.Prefix, t.Digits, n, t.Suffix)
}

// Entry is one file that belongs to a sequence.
type Entry struct {
	Name   string
	Number int
}

// Match filters names by the template and returns the matches sorted by
// frame number ascending.
func (t Template) Match(names []string) []Entry {
	re := t.Pattern()
	var entries []Entry
	for _, name := range names {
		m := re.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Name: name, Number: n})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Number < entries[j].Number
	})
	return entries
}

var lastDigits = regexp.MustCompile(`^(.*?)(\d+)(\D*)$`)

// DetectSequence looks for the dominant numbered sequence among file names
// (base names, no directory). Files are grouped by prefix, digit count and
// suffix around the last run of digits; only supported image files are
// considered. The largest group wins, ties go to the lowest first frame
// number and then the lexically smaller prefix.
func DetectSequence(names []string) (Template, bool) {
	type group struct {
		tmpl  Template
		count int
		first int
	}
	groups := map[Template]*group{}

	for _, name := range names {
		if !IsStillImage(name) {
			continue
		}
		ext := filepath.Ext(name)
		stem := name[:len(name)-len(ext)]
		m := lastDigits.FindStringSubmatch(stem)
		if m == nil {
			continue
		}
		if len(m[2]) > MaxPadding {
			continue
		}
		n, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		key := Template{Prefix: m[1], Digits: len(m[2]), Suffix: m[3] + ext}
		g, ok := groups[key]
		if !ok {
			g = &group{tmpl: key, first: n}
			groups[key] = g
		}
		g.count++
		if n < g.first {
			g.first = n
		}
	}

	var best *group
	for _, g := range groups {
		switch {
		case best == nil:
			best = g
		case g.count > best.count:
			best = g
		case g.count == best.count && g.first < best.first:
			best = g
		case g.count == best.count && g.first == best.first && g.tmpl.Prefix < best.tmpl.Prefix:
			best = g
		}
	}
	if best == nil {
		return Template{}, false
	}
	return best.tmpl, true
}
