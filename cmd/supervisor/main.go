package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/set-night/cookieai/internal/logging"
	"github.com/set-night/cookieai/internal/supervisor"
)

type options struct {
	CheckInterval time.Duration `long:"check-interval" env:"SUPERVISOR_CHECK_INTERVAL" default:"60s" description:"How often the child is checked"`
	HealthURL     string        `long:"health-url" env:"SUPERVISOR_HEALTH_URL" description:"Optional URL that must answer 200"`
	HealthTimeout time.Duration `long:"health-timeout" env:"SUPERVISOR_HEALTH_TIMEOUT" default:"5s" description:"Health probe timeout"`
	MaxRestarts   int           `long:"max-restarts" env:"SUPERVISOR_MAX_RESTARTS" default:"1000" description:"Give up after this many restarts"`
	RestartPause  time.Duration `long:"restart-pause" env:"SUPERVISOR_RESTART_PAUSE" default:"5s" description:"Pause between stop and start"`
	StopTimeout   time.Duration `long:"stop-timeout" env:"SUPERVISOR_STOP_TIMEOUT" default:"5s" description:"Grace period after SIGTERM before kill"`
	LogLevel      string        `long:"log-level" env:"LOG_LEVEL" default:"info" description:"Log level"`
	LogFormat     string        `long:"log-format" env:"LOG_FORMAT" default:"json" description:"Log format: json or text"`

	Args struct {
		Command []string `positional-arg-name:"command" description:"Command to supervise (default ./bot)"`
	} `positional-args:"yes"`
}

func main() {
	_ = godotenv.Load()

	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] [-- command [args...]]"
	if _, err := parser.Parse(); err != nil {
		var fe *flags.Error
		if errors.As(err, &fe) && fe.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	logger, err := logging.New(os.Stdout, opts.LogLevel, opts.LogFormat)
	if err != nil {
		slog.Error("failed to configure logging", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	command := opts.Args.Command
	if len(command) == 0 {
		command = []string{"./bot"}
	}

	w, err := supervisor.New(supervisor.Config{
		Command:       command,
		CheckInterval: opts.CheckInterval,
		HealthURL:     opts.HealthURL,
		HealthTimeout: opts.HealthTimeout,
		MaxRestarts:   opts.MaxRestarts,
		RestartPause:  opts.RestartPause,
		StopTimeout:   opts.StopTimeout,
	}, logger)
	if err != nil {
		slog.Error("invalid supervisor config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Run(ctx); err != nil {
		slog.Error("supervisor stopped", "error", err, "restarts", w.State().Restarts)
		os.Exit(1)
	}
	slog.Info("supervisor stopped gracefully", "restarts", w.State().Restarts)
}
