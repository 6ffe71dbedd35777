package config

import "time"

const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StoreFile     = "file"
	StorePostgres = "postgres"
)

const (
	// Conversation bounds: what is kept vs. what is sent to the model
	MaxHistoryEntries = 50
	ContextWindow     = 10

	// Profile list retention; prompt formatting shows the last ProfileListShown
	MaxProfileListEntries = 20
	ProfileListShown      = 3
	TopTopics             = 5

	// Model call ceilings
	MaxTokensText       = 1000
	MaxTokensMultiFrame = 1200
	Temperature         = 0.7

	// Video sampling
	VideoFrames = 5

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Remote request timeout
	RequestTimeout = 120 * time.Second

	// Background maintenance
	TempCleanupInterval     = 1 * time.Hour
	TempRetention           = 1 * time.Hour
	ConnectionCheckInterval = 5 * time.Minute

	// Circuit breaker around the remote model
	BreakerMaxFailures = 5
	BreakerTimeout     = 30 * time.Second

	// Per-chat rate limiter eviction
	RateLimiterSweepInterval = 10 * time.Minute
	RateLimiterIdle          = 10 * time.Minute

	// Knowledge base reload debounce
	KnowledgeReloadDelay = 500 * time.Millisecond
)

// SupportedAudioFormats are passed to transcription without transcoding.
var SupportedAudioFormats = []string{".mp3", ".wav", ".m4a", ".mp4", ".mpeg", ".mpga", ".webm", ".ogg"}
