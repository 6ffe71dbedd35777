package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/set-night/cookieai/internal/domain"
)

const conversationKeyPrefix = "cookieai:conversation:"

// NewRedisClient connects and pings; the caller owns Close.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// RedisConversations stores each user's log as a redis list of JSON entries.
type RedisConversations struct {
	client *redis.Client
}

func NewRedisConversations(client *redis.Client) *RedisConversations {
	return &RedisConversations{client: client}
}

func (s *RedisConversations) key(userID string) string {
	return conversationKeyPrefix + userID
}

func (s *RedisConversations) Load(ctx context.Context, userID string) ([]domain.ConversationEntry, error) {
	raw, err := s.client.LRange(ctx, s.key(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	entries := make([]domain.ConversationEntry, 0, len(raw))
	for _, item := range raw {
		var e domain.ConversationEntry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			slog.Warn("skip malformed conversation entry", "user_id", userID, "error", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *RedisConversations) Append(ctx context.Context, userID string, entry domain.ConversationEntry, limit int) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	key := s.key(userID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, payload)
		if limit > 0 {
			pipe.LTrim(ctx, key, int64(-limit), -1)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append conversation: %w", err)
	}
	return nil
}

func (s *RedisConversations) Clear(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("clear conversation: %w", err)
	}
	return nil
}
