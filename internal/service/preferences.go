package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/set-night/cookieai/internal/config"
	"github.com/set-night/cookieai/internal/domain"
)

// ProfileStore persists the full profile map as one snapshot.
type ProfileStore interface {
	Load(ctx context.Context) (map[string]*domain.UserProfile, error)
	Save(ctx context.Context, profiles map[string]*domain.UserProfile) error
}

type PreferenceService struct {
	mu        sync.Mutex
	store     ProfileStore
	extractor Extractor
	profiles  map[string]*domain.UserProfile
	now       func() time.Time
}

func NewPreferenceService(store ProfileStore, extractor Extractor) *PreferenceService {
	return &PreferenceService{
		store:     store,
		extractor: extractor,
		profiles:  make(map[string]*domain.UserProfile),
		now:       time.Now,
	}
}

// Load replaces the in-memory profiles with the stored snapshot.
// On error the current (possibly empty) profiles are kept.
func (s *PreferenceService) Load(ctx context.Context) error {
	profiles, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}
	s.mu.Lock()
	s.profiles = profiles
	s.mu.Unlock()
	slog.Info("user profiles loaded", "count", len(profiles))
	return nil
}

// Update merges what the extractor finds in text into the user's profile
// and writes the snapshot through. It reports whether the profile was created.
func (s *PreferenceService) Update(ctx context.Context, userID, text string) bool {
	upd := s.extractor.Extract(text)
	now := domain.NewTimestamp(s.now())

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		p = &domain.UserProfile{FirstInteraction: now}
		s.profiles[userID] = p
	}
	p.LastInteraction = now
	p.InteractionCount++
	applyUpdate(p, upd)

	if err := s.store.Save(ctx, s.profiles); err != nil {
		slog.Error("failed to save user profiles", "user_id", userID, "error", err)
	}
	return !ok
}

func applyUpdate(p *domain.UserProfile, u domain.ProfileUpdate) {
	info := &p.PersonalInfo
	if u.Name != "" {
		info.Name = u.Name
	}
	if u.Age > 0 {
		info.Age = u.Age
	}
	if u.Hobby != "" {
		info.Hobbies = appendCapped(info.Hobbies, u.Hobby)
	}
	if u.Like != "" {
		info.Likes = appendCapped(info.Likes, u.Like)
	}
	if u.Dislike != "" {
		info.Dislikes = appendCapped(info.Dislikes, u.Dislike)
	}
	for _, t := range u.Topics {
		p.Topics.Add(t)
	}
}

func appendCapped(list []string, item string) []string {
	list = append(list, item)
	if len(list) > config.MaxProfileListEntries {
		list = append([]string(nil), list[len(list)-config.MaxProfileListEntries:]...)
	}
	return list
}

// Get returns a copy of the user's profile, or nil when none exists.
func (s *PreferenceService) Get(userID string) *domain.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profiles[userID].Clone()
}

// Format renders the profile as a Russian block for the system prompt.
// Unknown users yield an empty string.
func (s *PreferenceService) Format(userID string) string {
	p := s.Get(userID)
	if p == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("Информация о пользователе:\n")

	info := p.PersonalInfo
	if info.Name != "" {
		fmt.Fprintf(&b, "- Имя пользователя: %s\n", info.Name)
	}
	if info.Age > 0 {
		fmt.Fprintf(&b, "- Возраст: %d\n", info.Age)
	}
	writeList(&b, "- Пользователь упоминал интересы и хобби:\n", info.Hobbies)
	writeList(&b, "- Пользователь упоминал, что ему нравится:\n", info.Likes)
	writeList(&b, "- Пользователь упоминал, что ему не нравится:\n", info.Dislikes)

	fmt.Fprintf(&b, "- Количество взаимодействий с ботом: %d\n", p.InteractionCount)

	if top := p.Topics.Top(config.TopTopics); len(top) > 0 {
		b.WriteString("- Частые темы в разговорах:\n")
		for _, t := range top {
			fmt.Fprintf(&b, "  * %s\n", t)
		}
	}
	return b.String()
}

func writeList(b *strings.Builder, header string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(header)
	if len(items) > config.ProfileListShown {
		items = items[len(items)-config.ProfileListShown:]
	}
	for _, it := range items {
		fmt.Fprintf(b, "  * %s\n", it)
	}
}
