package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// SweepTemp removes entries under root last modified before now-retention.
func SweepTemp(root string, retention time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(root)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read temp dir: %w", err)
	}

	cutoff := now.Add(-retention)
	removed := 0
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(root, e.Name())
		if err := os.RemoveAll(path); err != nil {
			slog.Error("failed to remove temp entry", "path", path, "error", err)
			continue
		}
		slog.Info("removed old temp entry", "path", path)
		removed++
	}
	return removed, nil
}

// RunJanitor sweeps root every interval until ctx is done.
func RunJanitor(ctx context.Context, root string, interval, retention time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := SweepTemp(root, retention, time.Now()); err != nil {
				slog.Error("temp sweep failed", "error", err)
			}
		}
	}
}
