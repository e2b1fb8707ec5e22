package ffmpeg

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/user/framecheck/pkg/frame"
	"github.com/user/framecheck/pkg/ports"
)

// Backend implements ports.VideoBackend with ffmpeg subprocesses.
type Backend struct {
	logger ports.Logger
}

// New creates a new Backend.
func New(logger ports.Logger) *Backend {
	return &Backend{logger: logger.WithComponent("ffmpeg")}
}

// StartTime returns the input seek offset that makes frame index the first
// frame ffmpeg emits. Seeking half a frame early keeps rounding in the
// container timestamps from skipping the target.
func StartTime(index int, fps float64) float64 {
	if index <= 0 || fps <= 0 {
		return 0
	}
	return (float64(index) - 0.5) / fps
}

// Stream starts an ffmpeg process that writes bgr24 frames beginning at
// frame index start.
func (b *Backend) Stream(path string, info ports.VideoInfo, start int) (ports.FrameStream, error) {
	if info.Width <= 0 || info.Height <= 0 {
		return nil, fmt.Errorf("stream %s: unknown frame size", path)
	}
	ffmpegPath, err := FindFFmpeg()
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(ffmpegPath, streamArgs(path, info, start)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("create stdout pipe: %w", err)
	}
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}
	b.logger.Debug("ffmpeg stream %s from frame %d", path, start)

	return &rawStream{
		cmd:    cmd,
		reader: bufio.NewReaderSize(stdout, info.Width*info.Height*frame.Channels),
		stderr: stderr,
		width:  info.Width,
		height: info.Height,
	}, nil
}

// streamArgs builds the ffmpeg command line. Display-matrix rotation is
// ignored so frames keep the coded size that Probe reports.
func streamArgs(path string, info ports.VideoInfo, start int) []string {
	args := []string{"-v", "error", "-nostdin", "-noautorotate"}
	if t := StartTime(start, info.FPS); t > 0 {
		args = append(args, "-ss", fmt.Sprintf("%.6f", t))
	}
	return append(args,
		"-i", path,
		"-map", "0:v:0",
		"-an", "-sn",
		"-vsync", "0",
		"-f", "rawvideo",
		"-pix_fmt", "bgr24",
		"-",
	)
}

// rawStream reads fixed-size bgr24 frames from an ffmpeg pipe.
type rawStream struct {
	cmd    *exec.Cmd
	reader *bufio.Reader
	stderr *bytes.Buffer
	width  int
	height int
	done   bool
}

func (s *rawStream) Next() (*frame.Frame, error) {
	if s.done {
		return nil, io.EOF
	}
	buf := make([]byte, s.width*s.height*frame.Channels)
	if _, err := io.ReadFull(s.reader, buf); err != nil {
		s.done = true
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("truncated frame: %w\nstderr: %s", err, s.stderr.String())
		}
		return nil, err
	}
	return frame.FromBGR(s.width, s.height, buf)
}

func (s *rawStream) Close() error {
	s.done = true
	if s.cmd.Process != nil && s.cmd.ProcessState == nil {
		_ = s.cmd.Process.Kill()
		_ = s.cmd.Wait()
	}
	return nil
}

var _ ports.VideoBackend = (*Backend)(nil)
