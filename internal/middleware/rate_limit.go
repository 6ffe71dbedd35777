package middleware

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/time/rate"
)

const rateLimitedText = "⏳ Слишком много запросов. Подождите немного."

type chatBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ChatLimiter hands out one token bucket per chat.
type ChatLimiter struct {
	mu      sync.Mutex
	buckets map[int64]*chatBucket
	limit   rate.Limit
	burst   int
}

// NewChatLimiter allows perMinute messages per chat with a burst of the same size.
// A non-positive perMinute disables limiting.
func NewChatLimiter(perMinute int) *ChatLimiter {
	l := &ChatLimiter{buckets: make(map[int64]*chatBucket)}
	if perMinute <= 0 {
		l.limit = rate.Inf
		return l
	}
	l.limit = rate.Every(time.Minute / time.Duration(perMinute))
	l.burst = perMinute
	return l
}

func (l *ChatLimiter) Allow(chatID int64) bool {
	now := time.Now()

	l.mu.Lock()
	b, ok := l.buckets[chatID]
	if !ok {
		b = &chatBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[chatID] = b
	}
	b.lastSeen = now
	l.mu.Unlock()

	return b.limiter.AllowN(now, 1)
}

// Sweep drops buckets not used for longer than idle and returns how many went.
// idle should be at least a minute so dropped buckets were already full.
func (l *ChatLimiter) Sweep(now time.Time, idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for id, b := range l.buckets {
		if now.Sub(b.lastSeen) > idle {
			delete(l.buckets, id)
			removed++
		}
	}
	return removed
}

func (l *ChatLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Run sweeps idle buckets every interval until ctx is done.
func (l *ChatLimiter) Run(ctx context.Context, interval, idle time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if n := l.Sweep(now, idle); n > 0 {
				slog.Debug("rate limiters swept", "removed", n, "active", l.Len())
			}
		}
	}
}

// RateLimit returns middleware that enforces per-chat message rate limits.
func RateLimit(limiter *ChatLimiter) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			// Only rate limit messages (not callbacks or other updates)
			if update.Message == nil {
				next(ctx, b, update)
				return
			}

			chatID := update.Message.Chat.ID
			if !limiter.Allow(chatID) {
				slog.Debug("rate limited", "chat_id", chatID)
				b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: chatID,
					Text:   rateLimitedText,
				})
				return
			}

			next(ctx, b, update)
		}
	}
}
