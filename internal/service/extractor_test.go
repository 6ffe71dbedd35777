package service_test

import (
	"testing"

	"github.com/set-night/cookieai/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestHeuristicExtractor_Name(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"capitalised", "Привет, меня зовут Иван.", "Иван"},
		{"lowercase rejected", "меня зовут иван", ""},
		{"zovus form", "Я зовусь Мария!", "Мария"},
		{"single letter rejected", "меня зовут И", ""},
		{"trigger at end", "меня зовут", ""},
		{"no trigger", "Иван пришёл домой", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.HeuristicExtractor{}.Extract(tt.text)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestHeuristicExtractor_Age(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"мне 25 лет", 25},
		{"Мне 7 лет!", 7},
		{"мне 200 лет", 0},
		{"мне 0 лет", 0},
		{"мне двадцать лет", 0},
		{"мне 30", 0},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, service.HeuristicExtractor{}.Extract(tt.text).Age)
		})
	}
}

func TestHeuristicExtractor_PreferenceTriggers(t *testing.T) {
	text := "Я не люблю дождь"
	got := service.HeuristicExtractor{}.Extract(text)

	// "не люблю" also contains "люблю", so all three lists fire
	assert.Equal(t, text, got.Hobby)
	assert.Equal(t, text, got.Like)
	assert.Equal(t, text, got.Dislike)

	got = service.HeuristicExtractor{}.Extract("Обожаю кофе")
	assert.Empty(t, got.Hobby)
	assert.Equal(t, "Обожаю кофе", got.Like)
	assert.Empty(t, got.Dislike)
}

func TestHeuristicExtractor_Topics(t *testing.T) {
	got := service.HeuristicExtractor{}.Extract(`Сегодня (погода) отличная, да! """" кот`)

	assert.Equal(t, []string{"сегодня", "погода", "отличная"}, got.Topics)
}
