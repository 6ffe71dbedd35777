package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/set-night/cookieai/internal/config"
	"github.com/set-night/cookieai/internal/domain"
)

// FrameSet is the set of still images chosen to represent a video.
type FrameSet struct {
	Paths         []string
	FromThumbnail bool
}

type MediaNormalizer struct {
	tool MediaTool
}

func NewMediaNormalizer(tool MediaTool) *MediaNormalizer {
	return &MediaNormalizer{tool: tool}
}

// FramePositions spreads n sample points over [0, duration].
// A single sample is taken at the midpoint.
func FramePositions(duration float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{duration / 2}
	}
	positions := make([]float64, n)
	for i := range n {
		positions[i] = duration * float64(i) / float64(n-1)
	}
	return positions
}

// VideoFrames extracts n frames from videoPath into ws. When the video cannot
// be probed or a frame fails and a thumbnail exists, the thumbnail is used alone.
// Without a thumbnail, whatever frames did extract are returned.
func (m *MediaNormalizer) VideoFrames(ctx context.Context, ws *Workspace, videoPath, thumbnailPath string, n int) (FrameSet, error) {
	thumb := FrameSet{Paths: []string{thumbnailPath}, FromThumbnail: true}

	if videoPath == "" {
		if thumbnailPath != "" {
			return thumb, nil
		}
		return FrameSet{}, domain.ErrNoMedia
	}

	duration, err := m.tool.Duration(ctx, videoPath)
	if err == nil && duration <= 0 {
		err = fmt.Errorf("%w: non-positive duration %.3f", domain.ErrProbeFailed, duration)
	}
	if err != nil {
		slog.Warn("video probe failed", "path", videoPath, "error", err)
		if thumbnailPath != "" {
			return thumb, nil
		}
		return FrameSet{}, err
	}

	var (
		frames []string
		errs   []error
	)
	for i, pos := range FramePositions(duration, n) {
		out := ws.Path(fmt.Sprintf("frame_%d.jpg", i))
		if err := m.tool.ExtractFrame(ctx, videoPath, pos, out); err != nil {
			errs = append(errs, err)
			continue
		}
		frames = append(frames, out)
	}

	if len(errs) > 0 {
		slog.Warn("frame extraction failed", "path", videoPath, "failed", len(errs), "extracted", len(frames), "error", errors.Join(errs...))
		if thumbnailPath != "" {
			return thumb, nil
		}
	}
	if len(frames) == 0 {
		return FrameSet{}, fmt.Errorf("extract frames: %w", errors.Join(append(errs, domain.ErrNoMedia)...))
	}
	return FrameSet{Paths: frames}, nil
}

// PrepareAudio returns a path the transcription service accepts, transcoding
// into ws when the extension is not supported as-is.
func (m *MediaNormalizer) PrepareAudio(ctx context.Context, ws *Workspace, audioPath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(audioPath))
	if slices.Contains(config.SupportedAudioFormats, ext) {
		return audioPath, nil
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	out := ws.Path(base + ".mp3")
	if err := m.tool.TranscodeMP3(ctx, audioPath, out); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUnsupportedFormat, err)
	}
	return out, nil
}
