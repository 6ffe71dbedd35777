package service

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/set-night/cookieai/internal/domain"
)

// Extractor turns one user message into a partial profile update.
type Extractor interface {
	Extract(text string) domain.ProfileUpdate
}

var (
	hobbyTriggers   = []string{"увлекаюсь", "люблю", "моё хобби", "мое хобби", "занимаюсь"}
	likeTriggers    = []string{"люблю", "нравится", "обожаю", "предпочитаю"}
	dislikeTriggers = []string{"не люблю", "ненавижу", "не нравится"}
)

const (
	nameCutset  = ".,!?"
	topicCutset = ".,!?()[]{}:;\"'"
)

// HeuristicExtractor recognises a handful of Russian self-descriptions
// with substring and token rules.
type HeuristicExtractor struct{}

func (HeuristicExtractor) Extract(text string) domain.ProfileUpdate {
	lower := strings.ToLower(text)
	words := strings.Fields(text)

	u := domain.ProfileUpdate{
		Name: extractName(lower, words),
		Age:  extractAge(lower, words),
	}
	if containsAny(lower, hobbyTriggers) {
		u.Hobby = text
	}
	if containsAny(lower, likeTriggers) {
		u.Like = text
	}
	if containsAny(lower, dislikeTriggers) {
		u.Dislike = text
	}

	for _, w := range words {
		if utf8.RuneCountInString(w) <= 3 {
			continue
		}
		topic := strings.ToLower(strings.Trim(w, topicCutset))
		if topic == "" {
			continue
		}
		u.Topics = append(u.Topics, topic)
	}
	return u
}

func extractName(lower string, words []string) string {
	if !strings.Contains(lower, "меня зовут") && !(strings.Contains(lower, "я") && strings.Contains(lower, "зовусь")) {
		return ""
	}
	for i, w := range words {
		lw := strings.ToLower(w)
		if lw != "зовут" && lw != "зовусь" {
			continue
		}
		if i+1 >= len(words) {
			return ""
		}
		name := strings.Trim(words[i+1], nameCutset)
		first, _ := utf8.DecodeRuneInString(name)
		if utf8.RuneCountInString(name) > 1 && unicode.IsUpper(first) {
			return name
		}
		return ""
	}
	return ""
}

// extractAge keeps the last valid "мне <N>" pair in the message.
func extractAge(lower string, words []string) int {
	if !strings.Contains(lower, "мне") || !strings.Contains(lower, "лет") {
		return 0
	}
	age := 0
	for i := 0; i+1 < len(words); i++ {
		if strings.ToLower(words[i]) != "мне" {
			continue
		}
		candidate := strings.Trim(words[i+1], nameCutset)
		if !isDigits(candidate) {
			continue
		}
		n, err := strconv.Atoi(candidate)
		if err == nil && n >= 1 && n <= 120 {
			age = n
		}
	}
	return age
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
