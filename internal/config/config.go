package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/set-night/cookieai/internal/domain"
)

type Config struct {
	// Core
	BotToken     string `env:"BOT_TOKEN,required,notEmpty"`
	OpenAIKey    string `env:"OPENAI_API_KEY,required,notEmpty"`
	OpenAIURL    string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	Model        string `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
	SpeechModel  string `env:"TRANSCRIPTION_MODEL" envDefault:"whisper-1"`
	LanguageHint string `env:"TRANSCRIPTION_LANGUAGE" envDefault:"ru"`

	// Conversation store: memory or redis
	ConversationStore string `env:"CONVERSATION_STORE" envDefault:"memory"`
	RedisAddr         string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	RedisPassword     string `env:"REDIS_PASSWORD"`
	RedisDB           int    `env:"REDIS_DB" envDefault:"0"`

	// Profile store: file or postgres
	ProfileStore    string `env:"PROFILE_STORE" envDefault:"file"`
	PreferencesFile string `env:"PREFERENCES_FILE" envDefault:"user_data/user_preferences.json"`
	DatabaseURL     string `env:"DATABASE_URL"`

	KnowledgeBasePath string `env:"KNOWLEDGE_BASE_PATH"`

	// Media
	TempDir          string        `env:"TEMP_DIR" envDefault:"temp_media"`
	FFmpegPath       string        `env:"FFMPEG_PATH" envDefault:"ffmpeg"`
	FFprobePath      string        `env:"FFPROBE_PATH" envDefault:"ffprobe"`
	MediaToolTimeout time.Duration `env:"MEDIA_TOOL_TIMEOUT" envDefault:"2m"`

	// Admin
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Telegram logging
	LogTelegramChatID int64 `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError     int   `env:"LOG_TOPIC_ERROR"`
	LogTopicNewUser   int   `env:"LOG_TOPIC_NEW_USER"`
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.ConversationStore {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("%w: CONVERSATION_STORE must be %q or %q, got %q", domain.ErrUnknownStore, StoreMemory, StoreRedis, c.ConversationStore)
	}
	switch c.ProfileStore {
	case StoreFile:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when PROFILE_STORE=%s", StorePostgres)
		}
	default:
		return fmt.Errorf("%w: PROFILE_STORE must be %q or %q, got %q", domain.ErrUnknownStore, StoreFile, StorePostgres, c.ProfileStore)
	}
	return nil
}

// IsAdmin reports whether telegramID may use admin commands.
// An empty admin list opens them to everyone.
func (c *Config) IsAdmin(telegramID int64) bool {
	if len(c.AdminIDs) == 0 {
		return true
	}
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}
