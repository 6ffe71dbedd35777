package repository

import (
	"context"
	"sync"

	"github.com/set-night/cookieai/internal/domain"
)

// MemoryConversations keeps conversation logs in process memory.
// History is lost on restart.
type MemoryConversations struct {
	mu      sync.Mutex
	entries map[string][]domain.ConversationEntry
}

func NewMemoryConversations() *MemoryConversations {
	return &MemoryConversations{entries: make(map[string][]domain.ConversationEntry)}
}

func (s *MemoryConversations) Load(_ context.Context, userID string) ([]domain.ConversationEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, ok := s.entries[userID]
	if !ok {
		s.entries[userID] = []domain.ConversationEntry{}
		return []domain.ConversationEntry{}, nil
	}
	return append([]domain.ConversationEntry{}, log...), nil
}

func (s *MemoryConversations) Append(_ context.Context, userID string, entry domain.ConversationEntry, limit int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := append(s.entries[userID], entry)
	if limit > 0 && len(log) > limit {
		log = append([]domain.ConversationEntry{}, log[len(log)-limit:]...)
	}
	s.entries[userID] = log
	return nil
}

func (s *MemoryConversations) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[userID] = []domain.ConversationEntry{}
	return nil
}
