package handler

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const (
	clearedText     = "🧹 Готово! История нашего разговора очищена! ✨ Теперь мы начинаем с чистого листа. О чём ты хочешь поговорить? 😊"
	clearFailedText = "❌ Не удалось очистить историю. Попробуй ещё раз чуть позже."
)

func (h *Handler) handleClear(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	h.clearHistory(ctx, b, update.Message.Chat.ID, update.Message.From.ID)
}

func (h *Handler) handleClearCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	answerCallback(ctx, b, update)

	msg := update.CallbackQuery.Message.Message
	if msg == nil {
		return
	}
	h.clearHistory(ctx, b, msg.Chat.ID, update.CallbackQuery.From.ID)
}

func (h *Handler) clearHistory(ctx context.Context, b *bot.Bot, chatID, telegramID int64) {
	text := clearedText
	if err := h.conversations.Clear(ctx, strconv.FormatInt(telegramID, 10)); err != nil {
		slog.Error("clear conversation", "error", err, "user_id", telegramID)
		h.opsLogger.LogError(err, "clear conversation")
		text = clearFailedText
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
}
