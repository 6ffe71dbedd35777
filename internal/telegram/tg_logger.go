package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/set-night/cookieai/internal/config"
)

type LogType string

const (
	LogTypeError   LogType = "error"
	LogTypeNewUser LogType = "newUser"
)

// OpsLogger mirrors notable events into an operator chat, one forum topic per type.
// It is a no-op when no log chat is configured.
type OpsLogger struct {
	bot *bot.Bot
	cfg *config.Config
}

func NewOpsLogger(b *bot.Bot, cfg *config.Config) *OpsLogger {
	return &OpsLogger{bot: b, cfg: cfg}
}

func (l *OpsLogger) Log(logType LogType, message string) {
	if l == nil || l.cfg.LogTelegramChatID == 0 {
		return
	}

	if len([]rune(message)) > config.MaxTelegramMessageLen {
		message = string([]rune(message)[:config.MaxTelegramMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := l.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          l.cfg.LogTelegramChatID,
		Text:            message,
		MessageThreadID: l.topicID(logType),
	})
	if err != nil {
		slog.Error("failed to send telegram log", "type", logType, "error", err)
	}
}

func (l *OpsLogger) LogError(err error, where string) {
	msg := fmt.Sprintf("❌ Error\n\nContext: %s\nError: %s\nTime: %s",
		where, err.Error(), time.Now().Format("2006-01-02 15:04:05"))
	l.Log(LogTypeError, msg)
}

func (l *OpsLogger) LogNewUser(telegramID int64, name, username string) {
	msg := fmt.Sprintf("👤 New user\n\nID: %d\nName: %s", telegramID, name)
	if username != "" {
		msg += "\nUsername: @" + username
	}
	l.Log(LogTypeNewUser, msg)
}

// topicID returns 0 (the general topic) for unmapped types.
func (l *OpsLogger) topicID(logType LogType) int {
	switch logType {
	case LogTypeError:
		return l.cfg.LogTopicError
	case LogTypeNewUser:
		return l.cfg.LogTopicNewUser
	default:
		return 0
	}
}
