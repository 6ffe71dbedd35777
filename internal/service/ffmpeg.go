package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/set-night/cookieai/internal/domain"
)

// MediaTool probes and converts media files.
type MediaTool interface {
	Duration(ctx context.Context, path string) (float64, error)
	ExtractFrame(ctx context.Context, videoPath string, position float64, outPath string) error
	TranscodeMP3(ctx context.Context, inPath, outPath string) error
}

// FFmpeg runs the ffprobe and ffmpeg binaries, each call bounded by timeout.
type FFmpeg struct {
	ffmpeg  string
	ffprobe string
	timeout time.Duration
}

func NewFFmpeg(ffmpegPath, ffprobePath string, timeout time.Duration) *FFmpeg {
	return &FFmpeg{ffmpeg: ffmpegPath, ffprobe: ffprobePath, timeout: timeout}
}

func (f *FFmpeg) Duration(ctx context.Context, path string) (float64, error) {
	out, err := f.run(ctx, f.ffprobe, "-v", "quiet", "-print_format", "json", "-show_format", path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrProbeFailed, err)
	}

	var probe struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(out, &probe); err != nil {
		return 0, fmt.Errorf("%w: decode ffprobe output: %w", domain.ErrProbeFailed, err)
	}
	if probe.Format.Duration == "" {
		return 0, nil
	}
	d, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parse duration %q: %w", domain.ErrProbeFailed, probe.Format.Duration, err)
	}
	return d, nil
}

func (f *FFmpeg) ExtractFrame(ctx context.Context, videoPath string, position float64, outPath string) error {
	pos := strconv.FormatFloat(position, 'f', 3, 64)
	if _, err := f.run(ctx, f.ffmpeg, "-y", "-ss", pos, "-i", videoPath, "-vframes", "1", "-q:v", "2", outPath); err != nil {
		return fmt.Errorf("extract frame at %s: %w", pos, err)
	}
	// ffmpeg exits 0 without writing anything when seeking at or past the end.
	if err := checkOutput(outPath); err != nil {
		return fmt.Errorf("extract frame at %s: %w", pos, err)
	}
	return nil
}

func (f *FFmpeg) TranscodeMP3(ctx context.Context, inPath, outPath string) error {
	if _, err := f.run(ctx, f.ffmpeg, "-y", "-i", inPath, "-vn", "-ab", "128k", "-ar", "44100", "-f", "mp3", outPath); err != nil {
		return fmt.Errorf("transcode to mp3: %w", err)
	}
	if err := checkOutput(outPath); err != nil {
		return fmt.Errorf("transcode to mp3: %w", err)
	}
	return nil
}

func checkOutput(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.Size() == 0) {
		return fmt.Errorf("%w: %s", domain.ErrNoOutput, path)
	}
	if err != nil {
		return fmt.Errorf("stat output: %w", err)
	}
	return nil
}

func (f *FFmpeg) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// stray grandchildren must not keep Wait blocked on the output pipes
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		msg := tail(strings.TrimSpace(stderr.String()), stderrTail)
		if msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}

// stderrTail caps how much tool output ends up in an error, in bytes.
const stderrTail = 300

// tail returns the last max bytes of s, moved forward to a rune boundary.
func tail(s string, max int) string {
	if len(s) <= max {
		return s
	}
	i := len(s) - max
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return s[i:]
}
