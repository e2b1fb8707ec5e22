// Package ffmpeg decodes video and high bit depth stills by running the
// ffmpeg and ffprobe executables and reading raw pixels from a pipe.
package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"
)

var (
	// ErrFFmpegNotFound is returned when the ffmpeg executable cannot be located.
	ErrFFmpegNotFound = errors.New("ffmpeg: ffmpeg not found")

	// ErrFFprobeNotFound is returned when the ffprobe executable cannot be located.
	ErrFFprobeNotFound = errors.New("ffmpeg: ffprobe not found")

	// ErrNoVideoStream is returned when a file has no decodable video stream.
	ErrNoVideoStream = errors.New("ffmpeg: no video stream")
)

var (
	pathMu            sync.RWMutex
	customFFmpegPath  string
	customFFprobePath string
)

// SetFFmpegPath overrides executable discovery for ffmpeg. An empty path
// restores discovery.
func SetFFmpegPath(path string) {
	pathMu.Lock()
	defer pathMu.Unlock()
	customFFmpegPath = path
}

// SetFFprobePath overrides executable discovery for ffprobe.
func SetFFprobePath(path string) {
	pathMu.Lock()
	defer pathMu.Unlock()
	customFFprobePath = path
}

// FindFFmpeg locates ffmpeg: the custom path first, then PATH, then common
// install locations.
func FindFFmpeg() (string, error) {
	pathMu.RLock()
	custom := customFFmpegPath
	pathMu.RUnlock()
	return find("ffmpeg", custom, ErrFFmpegNotFound)
}

// FindFFprobe locates ffprobe the same way as FindFFmpeg.
func FindFFprobe() (string, error) {
	pathMu.RLock()
	custom := customFFprobePath
	pathMu.RUnlock()
	return find("ffprobe", custom, ErrFFprobeNotFound)
}

// IsAvailable reports whether both executables can be found.
func IsAvailable() bool {
	if _, err := FindFFmpeg(); err != nil {
		return false
	}
	_, err := FindFFprobe()
	return err == nil
}

func find(name, custom string, notFound error) (string, error) {
	if custom != "" {
		if _, err := os.Stat(custom); err == nil {
			return custom, nil
		}
		return "", fmt.Errorf("%w: custom path %s not found", notFound, custom)
	}

	execName := name
	if runtime.GOOS == "windows" {
		execName = name + ".exe"
	}
	if path, err := exec.LookPath(execName); err == nil {
		return path, nil
	}

	var dirs []string
	switch runtime.GOOS {
	case "windows":
		dirs = []string{`C:\ffmpeg\bin`, `C:\Program Files\ffmpeg\bin`}
	case "darwin":
		dirs = []string{"/opt/homebrew/bin", "/usr/local/bin", "/usr/bin"}
	default:
		dirs = []string{"/usr/bin", "/usr/local/bin", "/snap/bin"}
	}
	for _, dir := range dirs {
		p := dir + string(os.PathSeparator) + execName
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", notFound
}
