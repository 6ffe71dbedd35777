package config_test

import (
	"testing"
	"time"

	"github.com/set-night/cookieai/internal/config"
	"github.com/set-night/cookieai/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("OPENAI_API_KEY", "sk-test")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, "whisper-1", cfg.SpeechModel)
	assert.Equal(t, "ru", cfg.LanguageHint)
	assert.Equal(t, config.StoreMemory, cfg.ConversationStore)
	assert.Equal(t, config.StoreFile, cfg.ProfileStore)
	assert.Equal(t, "temp_media", cfg.TempDir)
	assert.Equal(t, 2*time.Minute, cfg.MediaToolTimeout)
}

func TestLoad_EmptyTokenFails(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	_, err := config.Load()
	assert.ErrorContains(t, err, "BOT_TOKEN")
}

func TestLoad_EmptyAPIKeyFails(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("OPENAI_API_KEY", "")

	_, err := config.Load()
	assert.ErrorContains(t, err, "OPENAI_API_KEY")
}

func TestLoad_PostgresRequiresDatabaseURL(t *testing.T) {
	setRequired(t)
	t.Setenv("PROFILE_STORE", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := config.Load()
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoad_RejectsUnknownConversationStore(t *testing.T) {
	setRequired(t)
	t.Setenv("CONVERSATION_STORE", "bolt")

	_, err := config.Load()
	assert.ErrorIs(t, err, domain.ErrUnknownStore)
	assert.ErrorContains(t, err, "CONVERSATION_STORE")
}

func TestLoad_RejectsUnknownProfileStore(t *testing.T) {
	setRequired(t)
	t.Setenv("PROFILE_STORE", "sqlite")

	_, err := config.Load()
	assert.ErrorIs(t, err, domain.ErrUnknownStore)
}

func TestIsAdmin(t *testing.T) {
	open := &config.Config{}
	assert.True(t, open.IsAdmin(42))

	restricted := &config.Config{AdminIDs: []int64{1, 2}}
	assert.True(t, restricted.IsAdmin(2))
	assert.False(t, restricted.IsAdmin(42))
}
