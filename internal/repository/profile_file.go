package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/set-night/cookieai/internal/domain"
)

// CorruptSuffix is appended to a profile file that failed to decode.
const CorruptSuffix = ".corrupt"

// FileProfiles persists the whole profile map as one JSON document.
type FileProfiles struct {
	path string
}

func NewFileProfiles(path string) *FileProfiles {
	return &FileProfiles{path: path}
}

func (s *FileProfiles) Load(_ context.Context) (map[string]*domain.UserProfile, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]*domain.UserProfile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}

	profiles := map[string]*domain.UserProfile{}
	if len(bytes.TrimSpace(data)) == 0 {
		return profiles, nil
	}
	if err := json.Unmarshal(data, &profiles); err != nil {
		// Move the bad snapshot aside so the next save cannot overwrite it.
		if rerr := os.Rename(s.path, s.path+CorruptSuffix); rerr != nil {
			return nil, fmt.Errorf("decode profiles: %w (keep corrupt file: %w)", err, rerr)
		}
		return nil, fmt.Errorf("decode profiles, moved to %s: %w", s.path+CorruptSuffix, err)
	}
	return profiles, nil
}

// Save writes to a sibling temp file and renames it over the target,
// so a crash mid-write leaves the previous snapshot intact.
func (s *FileProfiles) Save(_ context.Context, profiles map[string]*domain.UserProfile) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(profiles); err != nil {
		return fmt.Errorf("encode profiles: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".profiles-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write profiles: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace profiles: %w", err)
	}
	return nil
}
