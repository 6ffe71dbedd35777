package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/cookieai/internal/config"
	"github.com/set-night/cookieai/internal/handler"
	"github.com/set-night/cookieai/internal/logging"
	"github.com/set-night/cookieai/internal/middleware"
	"github.com/set-night/cookieai/internal/repository"
	"github.com/set-night/cookieai/internal/service"
	"github.com/set-night/cookieai/internal/telegram"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		slog.Error("failed to configure logging", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.TempDir, 0o755); err != nil {
		slog.Error("failed to create temp dir", "error", err, "path", cfg.TempDir)
		os.Exit(1)
	}

	// Conversation store
	var conversationStore service.ConversationStore
	switch cfg.ConversationStore {
	case config.StoreRedis:
		rdb, err := repository.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		conversationStore = repository.NewRedisConversations(rdb)
	default:
		conversationStore = repository.NewMemoryConversations()
	}

	// Profile store
	var profileStore service.ProfileStore
	switch cfg.ProfileStore {
	case config.StorePostgres:
		pool, err := repository.OpenProfileDB(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to open profile database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		profileStore = repository.NewPostgresProfiles(pool)
	default:
		profileStore = repository.NewFileProfiles(cfg.PreferencesFile)
	}

	// Initialize services
	conversations := service.NewConversationService(conversationStore)

	preferences := service.NewPreferenceService(profileStore, service.HeuristicExtractor{})
	if err := preferences.Load(ctx); err != nil {
		slog.Error("failed to load user preferences, starting with none", "error", err)
	}

	knowledge := service.NewKnowledgeBase(cfg.KnowledgeBasePath)
	if err := knowledge.Load(); err != nil {
		slog.Warn("knowledge base not loaded", "error", err, "path", cfg.KnowledgeBasePath)
	}

	breaker := service.NewCircuitBreaker("openai", config.BreakerMaxFailures, config.BreakerTimeout)
	model := service.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIURL, cfg.Model, cfg.SpeechModel, breaker)
	media := service.NewMediaNormalizer(service.NewFFmpeg(cfg.FFmpegPath, cfg.FFprobePath, cfg.MediaToolTimeout))
	composer := service.NewComposer(model, conversations, preferences, knowledge)
	orchestrator := service.NewOrchestrator(model, media, conversations, composer, cfg.TempDir, cfg.LanguageHint)
	pipeline := service.NewPipeline(conversations, preferences, orchestrator, composer, cfg.TempDir)
	state := service.NewRuntimeState(time.Now())

	limiter := middleware.NewChatLimiter(cfg.RateLimitPerMinute)

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			middleware.RateLimit(limiter),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			// Stickers, documents and other content are ignored.
		}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	slog.Info("bot info retrieved", "id", me.ID, "username", me.Username)

	h := handler.New(handler.Deps{
		Bot:           b,
		Cfg:           cfg,
		Pipeline:      pipeline,
		Conversations: conversations,
		State:         state,
		Downloader:    telegram.NewDownloader(b),
		OpsLogger:     telegram.NewOpsLogger(b, cfg),
	})
	h.Register()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return service.RunJanitor(gctx, cfg.TempDir, config.TempCleanupInterval, config.TempRetention)
	})
	g.Go(func() error {
		return limiter.Run(gctx, config.RateLimiterSweepInterval, config.RateLimiterIdle)
	})
	g.Go(func() error {
		return service.RunConnectionMonitor(gctx, state, config.ConnectionCheckInterval, func(ctx context.Context) error {
			_, err := b.GetMe(ctx)
			return err
		})
	})
	if cfg.KnowledgeBasePath != "" {
		g.Go(func() error {
			if err := knowledge.Watch(gctx, config.KnowledgeReloadDelay); err != nil {
				slog.Warn("knowledge base watcher stopped", "error", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		slog.Info("starting bot", "username", me.Username, "id", me.ID)
		b.Start(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("background task failed", "error", err)
	}

	// Graceful shutdown
	slog.Info("bot stopped gracefully", "breaker_state", breaker.State())
}
