package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/set-night/cookieai/internal/config"
	"github.com/set-night/cookieai/internal/domain"
)

type AnalysisRequest struct {
	UserID   string
	Artifact domain.MediaArtifact
	// Prompt overrides the per-kind default prompt.
	Prompt string
	// Caption is attached to the voice history entry.
	Caption string
	// SuppressTranscript drops the "I heard" banner from voice replies.
	SuppressTranscript bool
}

// Orchestrator runs the media fallback chain against the remote model.
// Analyze never fails; irrecoverable errors become apology text.
type Orchestrator struct {
	model         ModelClient
	media         *MediaNormalizer
	conversations *ConversationService
	composer      *Composer
	tempRoot      string
	language      string
	frames        int
}

func NewOrchestrator(model ModelClient, media *MediaNormalizer, conversations *ConversationService, composer *Composer, tempRoot, language string) *Orchestrator {
	return &Orchestrator{
		model:         model,
		media:         media,
		conversations: conversations,
		composer:      composer,
		tempRoot:      tempRoot,
		language:      language,
		frames:        config.VideoFrames,
	}
}

func (o *Orchestrator) Analyze(ctx context.Context, req AnalysisRequest) domain.AnalysisResult {
	switch req.Artifact.Kind {
	case domain.MediaImage:
		return o.analyzeImage(ctx, req.Artifact.LocalPath, req.Prompt)
	case domain.MediaVideo:
		return o.analyzeVideo(ctx, req)
	case domain.MediaAudio:
		return o.analyzeAudio(ctx, req)
	default:
		slog.Error("unknown media kind", "kind", req.Artifact.Kind)
		return failed(MsgGenericError)
	}
}

func (o *Orchestrator) analyzeImage(ctx context.Context, path, prompt string) domain.AnalysisResult {
	if prompt == "" {
		prompt = PromptImage
	}
	text, err := o.vision(ctx, prompt, []string{path}, config.MaxTokensText)
	if err != nil {
		slog.Error("image analysis failed", "path", path, "error", err)
		return failed(MsgImageError)
	}
	return domain.AnalysisResult{Text: text, Outcome: domain.OutcomeOK}
}

func (o *Orchestrator) analyzeSingleFrame(ctx context.Context, path, prompt string) domain.AnalysisResult {
	if prompt == "" {
		prompt = PromptSingleFrame
	}
	text, err := o.vision(ctx, prompt, []string{path}, config.MaxTokensText)
	if err != nil {
		slog.Error("frame analysis failed", "path", path, "error", err)
		return failed(MsgVideoError)
	}
	return domain.AnalysisResult{Text: text, Outcome: domain.OutcomeOK}
}

func (o *Orchestrator) analyzeVideo(ctx context.Context, req AnalysisRequest) domain.AnalysisResult {
	ws, err := NewWorkspace(o.tempRoot)
	if err != nil {
		slog.Error("failed to create frame workspace", "error", err)
		return failed(MsgVideoError)
	}
	defer ws.Close()

	art := req.Artifact
	set, err := o.media.VideoFrames(ctx, ws, art.LocalPath, art.ThumbnailPath, o.frames)
	if err != nil {
		slog.Error("no usable video frames", "path", art.LocalPath, "error", err)
		return failed(MsgFrameError)
	}

	if set.FromThumbnail || len(set.Paths) == 1 {
		return o.analyzeSingleFrame(ctx, set.Paths[0], req.Prompt)
	}

	images, err := readImages(set.Paths)
	if err != nil {
		slog.Error("failed to read extracted frames", "path", art.LocalPath, "error", err)
		return failed(MsgFrameError)
	}

	prompt := req.Prompt
	if prompt == "" {
		prompt = PromptMultiFrame
	}
	text, err := o.describe(ctx, prompt, images, config.MaxTokensMultiFrame)
	if err == nil {
		return domain.AnalysisResult{Text: text, Outcome: domain.OutcomeOK}
	}
	slog.Warn("multi-frame analysis failed, retrying with first frame", "frames", len(images), "error", err)
	return o.analyzeSingleFrame(ctx, set.Paths[0], req.Prompt)
}

func (o *Orchestrator) analyzeAudio(ctx context.Context, req AnalysisRequest) domain.AnalysisResult {
	ws, err := NewWorkspace(o.tempRoot)
	if err != nil {
		slog.Error("failed to create audio workspace", "error", err)
		return failed(MsgAudioError)
	}
	defer ws.Close()

	path, err := o.media.PrepareAudio(ctx, ws, req.Artifact.LocalPath)
	if err != nil {
		slog.Error("audio conversion failed", "path", req.Artifact.LocalPath, "error", err)
		return domain.AnalysisResult{Text: MsgAudioFormatError, Outcome: domain.OutcomeFormatError}
	}

	audio, err := os.ReadFile(path)
	if err != nil {
		slog.Error("failed to read audio", "path", path, "error", err)
		return failed(MsgAudioError)
	}

	transcript, err := o.model.Transcribe(ctx, audio, filepath.Base(path), o.language)
	if err != nil {
		slog.Error("transcription failed", "user_id", req.UserID, "error", err)
		return failed(MsgAudioError)
	}
	if transcript == "" {
		return domain.AnalysisResult{Text: MsgSpeechNotRecognized, Outcome: domain.OutcomeNotUnderstood}
	}

	o.conversations.Append(ctx, req.UserID, domain.RoleUser, VoiceEntry(transcript, req.Caption))

	reply, err := o.composer.Reply(ctx, req.UserID)
	if err != nil {
		slog.Error("voice reply failed", "user_id", req.UserID, "error", err)
		return domain.AnalysisResult{Text: MsgChatError, Transcription: transcript, Outcome: domain.OutcomeFailed}
	}

	if !req.SuppressTranscript {
		reply = fmt.Sprintf(TranscriptBanner, transcript) + reply
	}
	return domain.AnalysisResult{Text: reply, Transcription: transcript, Outcome: domain.OutcomeOK}
}

func (o *Orchestrator) vision(ctx context.Context, prompt string, paths []string, maxTokens int) (string, error) {
	images, err := readImages(paths)
	if err != nil {
		return "", err
	}
	return o.describe(ctx, prompt, images, maxTokens)
}

// describe is the remote leg of a vision request; local I/O happens before it.
func (o *Orchestrator) describe(ctx context.Context, prompt string, images [][]byte, maxTokens int) (string, error) {
	if len(images) == 0 {
		return "", domain.ErrNoMedia
	}
	text, err := o.model.AnalyzeVision(ctx, prompt, images, maxTokens)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", domain.ErrEmptyResponse
	}
	return text, nil
}

func readImages(paths []string) ([][]byte, error) {
	images := make([][]byte, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read frame: %w", err)
		}
		images = append(images, data)
	}
	return images, nil
}

func failed(text string) domain.AnalysisResult {
	return domain.AnalysisResult{Text: text, Outcome: domain.OutcomeFailed}
}

// VoiceEntry is the history marker for a transcribed voice message.
func VoiceEntry(transcript, caption string) string {
	if caption != "" {
		return fmt.Sprintf("[Голосовое сообщение: \"%s\" | %s]", transcript, caption)
	}
	return fmt.Sprintf("[Голосовое сообщение: \"%s\"]", transcript)
}
