package supervisor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

var (
	ErrRestartLimit = errors.New("restart limit reached")
	errNotRunning   = errors.New("child process is not running")
)

type Config struct {
	Command       []string
	CheckInterval time.Duration
	// HealthURL is probed on every check when set; anything but 200 fails the check.
	HealthURL     string
	HealthTimeout time.Duration
	MaxRestarts   int
	RestartPause  time.Duration
	StopTimeout   time.Duration
}

// State is a point-in-time view of the supervised child.
type State struct {
	Running     bool
	PID         int
	Restarts    int
	LastRestart time.Time
}

// Watchdog keeps one child process alive.
type Watchdog struct {
	cfg    Config
	logger *slog.Logger
	client *http.Client

	mu    sync.Mutex
	state State
	cmd   *exec.Cmd
	done  chan struct{}
}

func New(cfg Config, logger *slog.Logger) (*Watchdog, error) {
	if len(cfg.Command) == 0 {
		return nil, errors.New("supervisor: command is required")
	}
	if cfg.CheckInterval <= 0 {
		return nil, errors.New("supervisor: check interval must be positive")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watchdog{
		cfg:    cfg,
		logger: logger,
		client: &http.Client{Timeout: cfg.HealthTimeout},
	}, nil
}

func (w *Watchdog) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Run starts the child and checks it every interval until ctx is done or the
// restart limit is reached. The child is always stopped before Run returns.
func (w *Watchdog) Run(ctx context.Context) error {
	w.logger.Info("supervisor started", "command", w.cfg.Command)
	if err := w.start(); err != nil {
		return fmt.Errorf("start child: %w", err)
	}
	defer w.stop()

	ticker := time.NewTicker(w.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		if w.State().Restarts >= w.cfg.MaxRestarts {
			w.logger.Error("restart limit reached", "max_restarts", w.cfg.MaxRestarts)
			return ErrRestartLimit
		}

		select {
		case <-ctx.Done():
			w.logger.Info("supervisor stopping")
			return nil
		case <-ticker.C:
		}

		w.logStatus()

		if err := w.check(ctx); err != nil {
			restarts := w.recordRestart()
			w.logger.Warn("child check failed, restarting",
				"error", err,
				"restart", restarts,
				"max_restarts", w.cfg.MaxRestarts,
			)
			w.stop()

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(w.cfg.RestartPause):
			}

			if err := w.start(); err != nil {
				w.logger.Error("failed to restart child", "error", err)
			}
			continue
		}
		w.logger.Info("child check ok")
	}
}

func (w *Watchdog) start() error {
	out, in, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("create output pipe: %w", err)
	}

	cmd := exec.Command(w.cfg.Command[0], w.cfg.Command[1:]...)
	cmd.Stdout = in
	cmd.Stderr = in
	if err := cmd.Start(); err != nil {
		in.Close()
		out.Close()
		return err
	}
	in.Close()

	done := make(chan struct{})
	w.mu.Lock()
	w.cmd = cmd
	w.done = done
	w.state.Running = true
	w.state.PID = cmd.Process.Pid
	w.state.LastRestart = time.Now()
	w.mu.Unlock()

	w.logger.Info("child started", "pid", cmd.Process.Pid)

	go w.streamOutput(out, cmd.Process.Pid)
	go func() {
		err := cmd.Wait()
		w.mu.Lock()
		if w.cmd == cmd {
			w.state.Running = false
		}
		w.mu.Unlock()
		w.logger.Info("child exited", "pid", cmd.Process.Pid, "error", err)
		close(done)
	}()
	return nil
}

func (w *Watchdog) streamOutput(out *os.File, pid int) {
	defer out.Close()
	scanner := bufio.NewScanner(out)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		w.logger.Info("child output", "pid", pid, "line", scanner.Text())
	}
}

// stop sends SIGTERM and kills the child if it outlives the stop timeout.
func (w *Watchdog) stop() {
	w.mu.Lock()
	cmd, done := w.cmd, w.done
	w.mu.Unlock()
	if cmd == nil {
		return
	}

	select {
	case <-done:
		return
	default:
	}

	w.logger.Info("stopping child", "pid", cmd.Process.Pid)
	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		w.logger.Warn("failed to signal child", "error", err)
	}

	select {
	case <-done:
		w.logger.Info("child stopped", "pid", cmd.Process.Pid)
	case <-time.After(w.cfg.StopTimeout):
		w.logger.Warn("child ignored SIGTERM, killing", "pid", cmd.Process.Pid)
		cmd.Process.Kill()
		<-done
	}
}

func (w *Watchdog) check(ctx context.Context) error {
	w.mu.Lock()
	done := w.done
	w.mu.Unlock()

	if done == nil {
		return errNotRunning
	}
	select {
	case <-done:
		return errNotRunning
	default:
	}

	if w.cfg.HealthURL == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.cfg.HealthURL, nil)
	if err != nil {
		return fmt.Errorf("create health request: %w", err)
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("health probe: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health probe: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (w *Watchdog) recordRestart() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Restarts++
	return w.state.Restarts
}

func (w *Watchdog) logStatus() {
	s := w.State()
	attrs := []any{
		"running", s.Running,
		"restarts", s.Restarts,
		"last_restart", s.LastRestart.Format(time.DateTime),
	}
	if s.Running {
		attrs = append(attrs, "pid", s.PID, "uptime", time.Since(s.LastRestart).Truncate(time.Second).String())
	}
	w.logger.Info("supervisor status", attrs...)
}
