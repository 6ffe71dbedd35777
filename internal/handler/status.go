package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/cookieai/internal/service"
)

// FormatStatus renders a runtime snapshot for the /status command.
func FormatStatus(snap service.StatusSnapshot) string {
	uptime := snap.Uptime
	days := int(uptime / (24 * time.Hour))
	hours := int(uptime % (24 * time.Hour) / time.Hour)
	minutes := int(uptime % time.Hour / time.Minute)

	disk := "н/д"
	if snap.FreeDiskGB >= 0 {
		disk = fmt.Sprintf("%.2f ГБ свободно", snap.FreeDiskGB)
	}

	var sb strings.Builder
	sb.WriteString("🤖 *Статус Cookie AI*\n\n")
	sb.WriteString("✅ *Бот активен и работает*\n")
	fmt.Fprintf(&sb, "⏱ *Время работы*: %d дней, %d часов, %d минут\n", days, hours, minutes)
	fmt.Fprintf(&sb, "🧠 *Память*: %.2f МБ\n", snap.HeapMB)
	fmt.Fprintf(&sb, "💾 *Диск*: %s\n", disk)
	fmt.Fprintf(&sb, "🔄 *Перезапусков*: %d\n", snap.Reconnects)
	fmt.Fprintf(&sb, "⚡ *Последняя проверка соединения*: %s\n", snap.LastCheck.Format("2006-01-02 15:04:05"))
	return sb.String()
}

func (h *Handler) handleStatus(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	chatID := update.Message.Chat.ID
	if !h.cfg.IsAdmin(update.Message.From.ID) {
		slog.Debug("status denied", "user_id", update.Message.From.ID)
		return
	}

	snap := h.state.Snapshot(time.Now(), h.cfg.TempDir)
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      FormatStatus(snap),
		ParseMode: models.ParseModeMarkdownV1,
	})
	if err != nil {
		slog.Error("send status", "error", err, "chat_id", chatID)
	}
}
