package telegram_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/set-night/cookieai/internal/telegram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitMessage_ShortIsSingle(t *testing.T) {
	assert.Equal(t, []string{"привет"}, telegram.SplitMessage("привет", 4096))
}

func TestSplitMessage_CountsRunesNotBytes(t *testing.T) {
	text := strings.Repeat("я", 10)

	parts := telegram.SplitMessage(text, 4)

	assert.Equal(t, []string{"яяяя", "яяяя", "яя"}, parts)
}

func TestSplitMessage_PrefersNewline(t *testing.T) {
	text := "ааааааа\nбббббб"

	parts := telegram.SplitMessage(text, 10)

	assert.Equal(t, []string{"ааааааа\n", "бббббб"}, parts)
}

func TestSplitMessage_IgnoresEarlyNewline(t *testing.T) {
	text := "а\nбббббббббббб"

	parts := telegram.SplitMessage(text, 10)

	require.Len(t, parts, 2)
	assert.Equal(t, "а\nбббббббб", parts[0])
}

func TestSplitMessage_RejoinsToOriginal(t *testing.T) {
	text := strings.Repeat("строка текста\n", 700)

	parts := telegram.SplitMessage(text, 4096)

	for _, p := range parts {
		assert.LessOrEqual(t, utf8.RuneCountInString(p), 4096)
	}
	assert.Equal(t, text, strings.Join(parts, ""))
}
