package ffmpeg

import (
	"bytes"
	"fmt"
	"os/exec"
)

// GenerateTestClip encodes a synthetic test pattern clip with ffmpeg's
// lavfi source. Used by tests and the harness smoke checks.
func GenerateTestClip(path string, width, height int, fps float64, frames int) error {
	ffmpegPath, err := FindFFmpeg()
	if err != nil {
		return err
	}
	var stderr bytes.Buffer
	cmd := exec.Command(ffmpegPath,
		"-v", "error", "-nostdin", "-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("testsrc=size=%dx%d:rate=%g", width, height, fps),
		"-frames:v", fmt.Sprintf("%d", frames),
		"-pix_fmt", "yuv420p",
		path,
	)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("generate %s: %w\nstderr: %s", path, err, stderr.String())
	}
	return nil
}

// GenerateRotatedClip remuxes src into dst with a display rotation tag.
// Newer ffmpeg takes -display_rotation on the input; older releases only
// honour the rotate stream tag.
func GenerateRotatedClip(src, dst string, degrees int) error {
	ffmpegPath, err := FindFFmpeg()
	if err != nil {
		return err
	}
	attempts := [][]string{
		{"-v", "error", "-nostdin", "-y", "-display_rotation", fmt.Sprintf("%d", degrees), "-i", src, "-c", "copy", dst},
		{"-v", "error", "-nostdin", "-y", "-i", src, "-c", "copy", "-metadata:s:v:0", fmt.Sprintf("rotate=%d", degrees), dst},
	}
	var stderr bytes.Buffer
	for _, args := range attempts {
		stderr.Reset()
		cmd := exec.Command(ffmpegPath, args...)
		cmd.Stderr = &stderr
		if err = cmd.Run(); err == nil {
			return nil
		}
	}
	return fmt.Errorf("rotate %s: %w\nstderr: %s", src, err, stderr.String())
}

// GenerateConstantEXR writes a single-colour OpenEXR still.
func GenerateConstantEXR(path string, width, height int, gray string) error {
	ffmpegPath, err := FindFFmpeg()
	if err != nil {
		return err
	}
	var stderr bytes.Buffer
	cmd := exec.Command(ffmpegPath,
		"-v", "error", "-nostdin", "-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=%s:s=%dx%d", gray, width, height),
		"-frames:v", "1",
		"-pix_fmt", "gbrpf32le",
		path,
	)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("generate %s: %w\nstderr: %s", path, err, stderr.String())
	}
	return nil
}
