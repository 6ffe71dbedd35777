package handler

import (
	"github.com/go-telegram/bot"
	"github.com/set-night/cookieai/internal/config"
	"github.com/set-night/cookieai/internal/service"
	"github.com/set-night/cookieai/internal/telegram"
)

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot           *bot.Bot
	cfg           *config.Config
	pipeline      *service.Pipeline
	conversations *service.ConversationService
	state         *service.RuntimeState
	downloader    service.Downloader
	opsLogger     *telegram.OpsLogger
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot           *bot.Bot
	Cfg           *config.Config
	Pipeline      *service.Pipeline
	Conversations *service.ConversationService
	State         *service.RuntimeState
	Downloader    service.Downloader
	OpsLogger     *telegram.OpsLogger
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:           deps.Bot,
		cfg:           deps.Cfg,
		pipeline:      deps.Pipeline,
		conversations: deps.Conversations,
		state:         deps.State,
		downloader:    deps.Downloader,
		opsLogger:     deps.OpsLogger,
	}
}
