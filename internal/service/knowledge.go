package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fsnotify/fsnotify"
	"github.com/set-night/cookieai/internal/domain"
	"gopkg.in/yaml.v3"
)

// KnowledgeBase holds the reference text injected into every system prompt.
// The source file may be YAML, HTML or plain text, chosen by extension.
type KnowledgeBase struct {
	path string

	mu   sync.RWMutex
	text string
}

type knowledgeDoc struct {
	Title    string             `yaml:"title"`
	Sections []knowledgeSection `yaml:"sections"`
}

type knowledgeSection struct {
	Title string   `yaml:"title"`
	Facts []string `yaml:"facts"`
}

func NewKnowledgeBase(path string) *KnowledgeBase {
	return &KnowledgeBase{path: path}
}

func (k *KnowledgeBase) Text() string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.text
}

// Load reads the source file. With no path configured the base stays empty.
func (k *KnowledgeBase) Load() error {
	if k.path == "" {
		return nil
	}
	data, err := os.ReadFile(k.path)
	if err != nil {
		return fmt.Errorf("read knowledge base: %w", err)
	}
	text, err := renderKnowledge(filepath.Ext(k.path), data)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: %s", domain.ErrKnowledgeBaseEmpty, k.path)
	}

	k.mu.Lock()
	k.text = text
	k.mu.Unlock()
	slog.Info("knowledge base loaded", "path", k.path, "bytes", len(text))
	return nil
}

func renderKnowledge(ext string, data []byte) (string, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return renderKnowledgeYAML(data)
	case ".html", ".htm":
		return renderKnowledgeHTML(data)
	default:
		return strings.TrimSpace(string(data)), nil
	}
}

func renderKnowledgeYAML(data []byte) (string, error) {
	var doc knowledgeDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("parse knowledge yaml: %w", err)
	}

	var b strings.Builder
	if doc.Title != "" {
		b.WriteString(doc.Title)
		b.WriteString("\n\n")
	}
	for _, s := range doc.Sections {
		if s.Title != "" {
			fmt.Fprintf(&b, "%s:\n", s.Title)
		}
		for _, f := range s.Facts {
			fmt.Fprintf(&b, "- %s\n", strings.TrimSpace(f))
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String()), nil
}

func renderKnowledgeHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		return "", fmt.Errorf("parse knowledge html: %w", err)
	}

	var lines []string
	doc.Find("h1, h2, h3, p, li").Each(func(_ int, sel *goquery.Selection) {
		text := strings.Join(strings.Fields(sel.Text()), " ")
		if text == "" {
			return
		}
		switch goquery.NodeName(sel) {
		case "li":
			text = "- " + text
		case "h1", "h2", "h3":
			text += ":"
		}
		lines = append(lines, text)
	})
	return strings.Join(lines, "\n"), nil
}

// Watch reloads the base whenever its file changes, until ctx is done.
// The parent directory is watched so editors that replace the file are seen.
func (k *KnowledgeBase) Watch(ctx context.Context, delay time.Duration) error {
	if k.path == "" {
		<-ctx.Done()
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(k.path)); err != nil {
		return fmt.Errorf("watch knowledge dir: %w", err)
	}
	target := filepath.Clean(k.path)

	var (
		timer  *time.Timer
		reload <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case evt, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(evt.Name) != target || evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(delay)
			reload = timer.C
		case <-reload:
			reload = nil
			if err := k.Load(); err != nil {
				slog.Warn("knowledge base reload failed, keeping previous", "path", k.path, "error", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("knowledge watcher error", "error", err)
		}
	}
}
