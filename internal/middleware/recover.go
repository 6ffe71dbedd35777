package middleware

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/cookieai/internal/service"
)

// Recover returns middleware that turns a handler panic into a logged stack
// and the generic apology in the originating chat.
func Recover() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				chat := chatID(update)
				slog.Error("panic recovered in handler",
					"update_id", update.ID,
					"chat_id", chat,
					"panic", r,
					"stack", string(debug.Stack()),
				)
				if chat == 0 {
					return
				}
				if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: chat,
					Text:   service.MsgGenericError,
				}); err != nil {
					slog.Error("failed to send apology after panic", "chat_id", chat, "error", err)
				}
			}()
			next(ctx, b, update)
		}
	}
}
