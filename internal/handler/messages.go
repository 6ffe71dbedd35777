package handler

import (
	"context"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/cookieai/internal/domain"
	"github.com/set-night/cookieai/internal/telegram"
)

// InboundFromMessage converts a Telegram message into the pipeline's view of it.
// It reports false for messages the bot does not handle.
func InboundFromMessage(m *models.Message) (domain.InboundMessage, bool) {
	if m == nil || m.From == nil {
		return domain.InboundMessage{}, false
	}

	in := domain.InboundMessage{
		UserID:  strconv.FormatInt(m.From.ID, 10),
		Caption: m.Caption,
	}

	switch {
	case len(m.Photo) > 0:
		// Sizes are ascending; the last one is the original.
		in.Kind = domain.MessagePhoto
		in.Attachment = &domain.AttachmentRef{FileID: m.Photo[len(m.Photo)-1].FileID, Ext: ".jpg"}
	case m.Video != nil:
		in.Kind = domain.MessageVideo
		ext := filepath.Ext(m.Video.FileName)
		if ext == "" {
			ext = ".mp4"
		}
		in.Attachment = &domain.AttachmentRef{FileID: m.Video.FileID, Ext: ext}
		in.Thumbnail = thumbnailRef(m.Video.Thumbnail)
	case m.VideoNote != nil:
		in.Kind = domain.MessageVideoNote
		in.Attachment = &domain.AttachmentRef{FileID: m.VideoNote.FileID, Ext: ".mp4"}
		in.Thumbnail = thumbnailRef(m.VideoNote.Thumbnail)
	case m.Voice != nil:
		in.Kind = domain.MessageVoice
		in.Attachment = &domain.AttachmentRef{FileID: m.Voice.FileID, Ext: ".ogg"}
	case m.Text != "":
		in.Kind = domain.MessageText
		in.Text = m.Text
	default:
		return domain.InboundMessage{}, false
	}
	return in, true
}

func thumbnailRef(p *models.PhotoSize) *domain.AttachmentRef {
	if p == nil || p.FileID == "" {
		return nil
	}
	return &domain.AttachmentRef{FileID: p.FileID, Ext: ".jpg"}
}

func (h *Handler) handleMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	in, ok := InboundFromMessage(update.Message)
	if !ok {
		return
	}

	msg := update.Message
	chatID := msg.Chat.ID

	stopTyping := telegram.StartTyping(ctx, b, chatID)
	reply := h.pipeline.Handle(ctx, in, h.downloader)
	stopTyping()

	if reply.NewUser {
		h.opsLogger.LogNewUser(msg.From.ID, msg.From.FirstName, msg.From.Username)
	}

	if err := telegram.SendLongMessage(ctx, b, chatID, reply.Text, nil); err != nil {
		slog.Error("send reply", "error", err, "chat_id", chatID, "kind", in.Kind)
		h.opsLogger.LogError(err, "send reply")
	}
}
