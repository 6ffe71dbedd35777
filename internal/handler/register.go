package handler

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/cookieai/internal/telegram"
)

// Register registers all command, callback and message handlers on the bot instance.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, h.handleHelp)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/clear", bot.MatchTypePrefix, h.handleClear)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/status", bot.MatchTypePrefix, h.handleStatus)

	// Callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, telegram.CallbackHelp, bot.MatchTypeExact, h.handleHelpCallback)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, telegram.CallbackClearChat, bot.MatchTypeExact, h.handleClearCallback)

	// Conversation messages: text and media
	h.bot.RegisterHandlerMatchFunc(isConversationMessage, h.handleMessage)
}

// isConversationMessage matches non-command text and the supported media kinds.
func isConversationMessage(update *models.Update) bool {
	m := update.Message
	if m == nil || m.From == nil {
		return false
	}
	if len(m.Photo) > 0 || m.Video != nil || m.VideoNote != nil || m.Voice != nil {
		return true
	}
	return m.Text != "" && !strings.HasPrefix(m.Text, "/")
}

// answerCallback clears the loading state on the pressed button.
func answerCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: update.CallbackQuery.ID,
	})
}
