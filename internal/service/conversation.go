package service

import (
	"context"
	"log/slog"

	"github.com/set-night/cookieai/internal/config"
	"github.com/set-night/cookieai/internal/domain"
)

// ConversationStore is the backing store for per-user dialogue logs.
// Implementations live in the repository package.
type ConversationStore interface {
	Load(ctx context.Context, userID string) ([]domain.ConversationEntry, error)
	Append(ctx context.Context, userID string, entry domain.ConversationEntry, limit int) error
	Clear(ctx context.Context, userID string) error
}

type ConversationService struct {
	store ConversationStore
	limit int
}

func NewConversationService(store ConversationStore) *ConversationService {
	return &ConversationService{store: store, limit: config.MaxHistoryEntries}
}

// History returns the user's log oldest first. Store failures yield an empty log.
func (s *ConversationService) History(ctx context.Context, userID string) []domain.ConversationEntry {
	log, err := s.store.Load(ctx, userID)
	if err != nil {
		slog.Error("failed to load conversation", "user_id", userID, "error", err)
		return []domain.ConversationEntry{}
	}
	return log
}

// Recent returns at most n trailing entries of the user's log.
func (s *ConversationService) Recent(ctx context.Context, userID string, n int) []domain.ConversationEntry {
	log := s.History(ctx, userID)
	if len(log) > n {
		log = log[len(log)-n:]
	}
	return log
}

func (s *ConversationService) Append(ctx context.Context, userID string, role domain.Role, content string) {
	if !role.Valid() {
		slog.Warn("ignoring conversation entry", "user_id", userID, "role", role, "error", domain.ErrInvalidRole)
		return
	}
	entry := domain.ConversationEntry{Role: role, Content: content}
	if err := s.store.Append(ctx, userID, entry, s.limit); err != nil {
		slog.Error("failed to append conversation", "user_id", userID, "error", err)
	}
}

func (s *ConversationService) Clear(ctx context.Context, userID string) error {
	return s.store.Clear(ctx, userID)
}
