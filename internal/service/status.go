package service

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// RuntimeState tracks process-level facts shown by /status.
type RuntimeState struct {
	mu         sync.Mutex
	started    time.Time
	reconnects int
	lastCheck  time.Time
}

type StatusSnapshot struct {
	Started    time.Time
	Uptime     time.Duration
	Reconnects int
	LastCheck  time.Time
	HeapMB     float64
	// FreeDiskGB is negative when the filesystem could not be queried.
	FreeDiskGB float64
}

func NewRuntimeState(started time.Time) *RuntimeState {
	return &RuntimeState{started: started, lastCheck: started}
}

// RecordCheck notes a connection check; a failed check counts as a reconnect.
func (s *RuntimeState) RecordCheck(at time.Time, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCheck = at
	if !ok {
		s.reconnects++
	}
}

func (s *RuntimeState) Snapshot(now time.Time, diskPath string) StatusSnapshot {
	s.mu.Lock()
	snap := StatusSnapshot{
		Started:    s.started,
		Uptime:     now.Sub(s.started),
		Reconnects: s.reconnects,
		LastCheck:  s.lastCheck,
	}
	s.mu.Unlock()

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	snap.HeapMB = float64(ms.HeapAlloc) / (1 << 20)
	snap.FreeDiskGB = freeDiskGB(diskPath)
	return snap
}

func freeDiskGB(path string) float64 {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return -1
	}
	return float64(st.Bavail) * float64(st.Bsize) / (1 << 30)
}

// RunConnectionMonitor calls check every interval and records the outcome.
func RunConnectionMonitor(ctx context.Context, state *RuntimeState, interval time.Duration, check func(context.Context) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			err := check(checkCtx)
			cancel()
			if err != nil {
				slog.Warn("connection check failed", "error", err)
			} else {
				slog.Info("connection check ok")
			}
			state.RecordCheck(time.Now(), err == nil)
		}
	}
}
