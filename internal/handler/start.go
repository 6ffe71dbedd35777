package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/cookieai/internal/telegram"
)

const helpText = "📚 Как использовать Cookie AI:\n\n" +
	"- 💬 Просто отправь любое сообщение, и я отвечу с помощью своего ИИ-мозга 🧠\n" +
	"- 📸 Отправь мне фотографию, и я расскажу, что на ней вижу\n" +
	"- 🎥 Отправь мне видео, и я проанализирую всё его содержание (а не только первый кадр)\n" +
	"- 🎤 Отправь мне голосовое сообщение, и я распознаю речь и отвечу на твой вопрос\n" +
	"- 🔘 Запиши круговое видео (видеосообщение), и я проанализирую что на нем\n" +
	"- 🗑️ Используй /clear, чтобы очистить историю нашего разговора\n" +
	"- 🔄 Используй /start, чтобы начать наш дружеский чат заново\n" +
	"- ❓ Используй /help, чтобы увидеть эту справку снова\n\n" +
	"О чём ты хочешь поговорить сегодня? 😊"

// WelcomeText greets a user by first name.
func WelcomeText(firstName string) string {
	return fmt.Sprintf(
		"Привет, %s! 👋 Я Cookie AI, твой дружелюбный помощник! ✨\n\n"+
			"Я очень рад общаться с тобой! 🎉 Просто отправь мне сообщение, и я дам осмысленный ответ. "+
			"Я здесь, чтобы помогать, развлекать или просто обсуждать твой день! 💬",
		firstName,
	)
}

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	chatID := update.Message.Chat.ID
	text := WelcomeText(update.Message.From.FirstName)
	if err := telegram.SendLongMessage(ctx, b, chatID, text, telegram.StartKeyboard()); err != nil {
		slog.Error("send welcome", "error", err, "chat_id", chatID)
	}
}

func (h *Handler) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	if err := telegram.SendLongMessage(ctx, b, chatID, helpText, telegram.HelpKeyboard()); err != nil {
		slog.Error("send help", "error", err, "chat_id", chatID)
	}
}

func (h *Handler) handleHelpCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	answerCallback(ctx, b, update)

	msg := update.CallbackQuery.Message.Message
	if msg == nil {
		return
	}
	if err := telegram.EditMessage(ctx, b, msg.Chat.ID, msg.ID, helpText, telegram.HelpKeyboard()); err != nil {
		slog.Error("show help", "error", err, "chat_id", msg.Chat.ID)
	}
}
