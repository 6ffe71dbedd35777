package service

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/set-night/cookieai/internal/domain"
)

// Downloader fetches a platform attachment to a local path.
type Downloader interface {
	Download(ctx context.Context, ref domain.AttachmentRef, destPath string) error
}

// Pipeline turns one inbound message into one reply.
type Pipeline struct {
	conversations *ConversationService
	preferences   *PreferenceService
	orchestrator  *Orchestrator
	composer      *Composer
	tempRoot      string
}

func NewPipeline(conversations *ConversationService, preferences *PreferenceService, orchestrator *Orchestrator, composer *Composer, tempRoot string) *Pipeline {
	return &Pipeline{
		conversations: conversations,
		preferences:   preferences,
		orchestrator:  orchestrator,
		composer:      composer,
		tempRoot:      tempRoot,
	}
}

// Handle always returns a reply; panics become the generic apology.
func (p *Pipeline) Handle(ctx context.Context, msg domain.InboundMessage, dl Downloader) (reply domain.Reply) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in message pipeline",
				"user_id", msg.UserID,
				"kind", msg.Kind,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			reply = domain.Reply{Text: MsgGenericError}
		}
	}()

	switch msg.Kind {
	case domain.MessageText:
		return p.handleText(ctx, msg)
	case domain.MessagePhoto:
		return p.withWorkspace(msg, MsgPhotoFailed, func(ws *Workspace, r *domain.Reply) {
			p.handlePhoto(ctx, ws, msg, dl, r)
		})
	case domain.MessageVideo:
		return p.withWorkspace(msg, MsgVideoFailed, func(ws *Workspace, r *domain.Reply) {
			p.handleVideo(ctx, ws, msg, dl, r)
		})
	case domain.MessageVideoNote:
		return p.withWorkspace(msg, MsgVideoNoteFailed, func(ws *Workspace, r *domain.Reply) {
			p.handleVideoNote(ctx, ws, msg, dl, r)
		})
	case domain.MessageVoice:
		return p.withWorkspace(msg, MsgVoiceFailed, func(ws *Workspace, r *domain.Reply) {
			p.handleVoice(ctx, ws, msg, dl, r)
		})
	default:
		slog.Warn("unsupported message kind", "user_id", msg.UserID, "kind", msg.Kind)
		return domain.Reply{Text: MsgGenericError}
	}
}

func (p *Pipeline) withWorkspace(msg domain.InboundMessage, failText string, fn func(ws *Workspace, r *domain.Reply)) domain.Reply {
	ws, err := NewWorkspace(p.tempRoot)
	if err != nil {
		slog.Error("failed to create request workspace", "user_id", msg.UserID, "error", err)
		return domain.Reply{Text: failText}
	}
	defer ws.Close()

	var r domain.Reply
	fn(ws, &r)
	return r
}

func (p *Pipeline) handleText(ctx context.Context, msg domain.InboundMessage) domain.Reply {
	p.conversations.Append(ctx, msg.UserID, domain.RoleUser, msg.Text)
	isNew := p.preferences.Update(ctx, msg.UserID, msg.Text)

	text, err := p.composer.Reply(ctx, msg.UserID)
	if err != nil {
		slog.Error("failed to generate reply", "user_id", msg.UserID, "error", err)
		return domain.Reply{Text: MsgGenericError, NewUser: isNew}
	}
	return domain.Reply{Text: text, NewUser: isNew}
}

func (p *Pipeline) updateFromCaption(ctx context.Context, msg domain.InboundMessage, r *domain.Reply) {
	if msg.Caption != "" {
		r.NewUser = p.preferences.Update(ctx, msg.UserID, msg.Caption)
	}
}

func (p *Pipeline) download(ctx context.Context, ws *Workspace, dl Downloader, ref *domain.AttachmentRef, name, defaultExt string) (string, error) {
	if ref == nil || ref.FileID == "" {
		return "", domain.ErrNoMedia
	}
	ext := ref.Ext
	if ext == "" {
		ext = defaultExt
	}
	dest := ws.Path(name + ext)
	if err := dl.Download(ctx, *ref, dest); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrDownloadFailed, err)
	}
	return dest, nil
}

func (p *Pipeline) record(ctx context.Context, userID, userEntry string, res domain.AnalysisResult) {
	if !res.OK() {
		return
	}
	p.conversations.Append(ctx, userID, domain.RoleUser, userEntry)
	p.conversations.Append(ctx, userID, domain.RoleAssistant, res.Text)
}

func (p *Pipeline) handlePhoto(ctx context.Context, ws *Workspace, msg domain.InboundMessage, dl Downloader, r *domain.Reply) {
	p.updateFromCaption(ctx, msg, r)

	path, err := p.download(ctx, ws, dl, msg.Attachment, "photo", ".jpg")
	if err != nil {
		slog.Error("failed to download photo", "user_id", msg.UserID, "error", err)
		r.Text = MsgPhotoFailed
		return
	}

	var prompt string
	if msg.Caption != "" {
		prompt = PromptImagePrefix + msg.Caption
	}
	res := p.orchestrator.Analyze(ctx, AnalysisRequest{
		UserID:   msg.UserID,
		Artifact: domain.MediaArtifact{Kind: domain.MediaImage, LocalPath: path},
		Prompt:   prompt,
	})

	p.record(ctx, msg.UserID, mediaEntry("[Пользователь отправил фотографию", msg.Caption), res)
	r.Text = res.Text
}

func (p *Pipeline) handleVideo(ctx context.Context, ws *Workspace, msg domain.InboundMessage, dl Downloader, r *domain.Reply) {
	p.updateFromCaption(ctx, msg, r)

	videoPath, err := p.download(ctx, ws, dl, msg.Attachment, "video", ".mp4")
	if err != nil {
		slog.Error("failed to download video", "user_id", msg.UserID, "error", err)
	}
	thumbPath, err := p.download(ctx, ws, dl, msg.Thumbnail, "video_thumb", ".jpg")
	if err != nil && msg.Thumbnail != nil {
		slog.Error("failed to download video thumbnail", "user_id", msg.UserID, "error", err)
	}
	if videoPath == "" && thumbPath == "" {
		r.Text = MsgVideoFailed
		return
	}

	prompt := VideoPrompt(msg.Caption)
	if videoPath == "" {
		slog.Warn("using thumbnail-only analysis", "user_id", msg.UserID)
	}

	res := p.orchestrator.Analyze(ctx, AnalysisRequest{
		UserID:   msg.UserID,
		Artifact: domain.MediaArtifact{Kind: domain.MediaVideo, LocalPath: videoPath, ThumbnailPath: thumbPath},
		Prompt:   prompt,
	})

	p.record(ctx, msg.UserID, mediaEntry("[Пользователь отправил видео", msg.Caption), res)
	r.Text = res.Text
}

func (p *Pipeline) handleVideoNote(ctx context.Context, ws *Workspace, msg domain.InboundMessage, dl Downloader, r *domain.Reply) {
	videoPath, err := p.download(ctx, ws, dl, msg.Attachment, "video_note", ".mp4")
	if err != nil {
		slog.Error("failed to download video note", "user_id", msg.UserID, "error", err)
		r.Text = MsgVideoNoteFailed
		return
	}
	thumbPath, err := p.download(ctx, ws, dl, msg.Thumbnail, "video_note_thumb", ".jpg")
	if err != nil && msg.Thumbnail != nil {
		slog.Warn("failed to download video note thumbnail", "user_id", msg.UserID, "error", err)
	}

	res := p.orchestrator.Analyze(ctx, AnalysisRequest{
		UserID:   msg.UserID,
		Artifact: domain.MediaArtifact{Kind: domain.MediaVideo, LocalPath: videoPath, ThumbnailPath: thumbPath},
		Prompt:   PromptVideoNote,
	})

	p.record(ctx, msg.UserID, "[Пользователь отправил круговое видео]", res)
	r.Text = res.Text
}

func (p *Pipeline) handleVoice(ctx context.Context, ws *Workspace, msg domain.InboundMessage, dl Downloader, r *domain.Reply) {
	p.updateFromCaption(ctx, msg, r)

	path, err := p.download(ctx, ws, dl, msg.Attachment, "voice", ".ogg")
	if err != nil {
		slog.Error("failed to download voice", "user_id", msg.UserID, "error", err)
		r.Text = MsgVoiceFailed
		return
	}

	res := p.orchestrator.Analyze(ctx, AnalysisRequest{
		UserID:   msg.UserID,
		Artifact: domain.MediaArtifact{Kind: domain.MediaAudio, LocalPath: path},
		Caption:  msg.Caption,
	})

	switch res.Outcome {
	case domain.OutcomeNotUnderstood:
		r.Text = MsgVoiceUnclear
	default:
		r.Text = res.Text
	}
}

// VideoPrompt picks the video prompt for a caption; empty captions use the default.
func VideoPrompt(caption string) string {
	if caption == "" {
		return ""
	}
	lower := strings.ToLower(caption)
	if strings.Contains(lower, "исправить") || strings.Contains(lower, "улучшить") || strings.Contains(lower, "проблема") {
		return PromptVideoFix + caption
	}
	return PromptVideo + caption
}

func mediaEntry(prefix, caption string) string {
	if caption != "" {
		return prefix + ": " + caption + "]"
	}
	return prefix + "]"
}
