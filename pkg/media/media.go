// Package media classifies media paths and handles numbered image sequence
// templates of the form dir/base%0Nd.ext.
package media

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Kind is the classification of a media path.
type Kind string

const (
	KindImage       Kind = "image"
	KindVideo       Kind = "video"
	KindAudio       Kind = "audio"
	KindSequence    Kind = "sequence"
	KindUnsupported Kind = "unsupported"
)

// Supported extensions, lower case.
var (
	ImageExtensions = []string{".jpg", ".jpeg", ".png", ".exr"}
	VideoExtensions = []string{".mov", ".mp4"}
	AudioExtensions = []string{".mp3"}
)

var templateToken = regexp.MustCompile(`%0(\d+)d`)

// Classify maps a path to its Kind. A path whose file name contains a
// %0Nd token is a sequence regardless of its extension.
func Classify(path string) Kind {
	if IsSequenceTemplate(path) {
		return KindSequence
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case contains(ImageExtensions, ext):
		return KindImage
	case contains(VideoExtensions, ext):
		return KindVideo
	case contains(AudioExtensions, ext):
		return KindAudio
	default:
		return KindUnsupported
	}
}

// IsSupported reports whether Classify returns anything but KindUnsupported.
func IsSupported(path string) bool {
	return Classify(path) != KindUnsupported
}

// IsSequenceTemplate reports whether the file name contains a %0Nd token
// with N >= 1.
func IsSequenceTemplate(path string) bool {
	m := templateToken.FindStringSubmatch(filepath.Base(path))
	return m != nil && m[1] != "0" && !strings.HasPrefix(m[1], "0")
}

// IsEXR reports whether path (or the files a template expands to) is OpenEXR.
func IsEXR(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".exr")
}

// IsStillImage reports whether a concrete file name has a supported image
// extension.
func IsStillImage(name string) bool {
	return contains(ImageExtensions, strings.ToLower(filepath.Ext(name)))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
