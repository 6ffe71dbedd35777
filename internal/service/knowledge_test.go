package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/set-night/cookieai/internal/domain"
	"github.com/set-night/cookieai/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnowledgeBase_EmptyPath(t *testing.T) {
	kb := service.NewKnowledgeBase("")

	require.NoError(t, kb.Load())
	assert.Empty(t, kb.Text())
}

func TestKnowledgeBase_YAML(t *testing.T) {
	path := writeFile(t, "kb.yaml", `
title: Справка
sections:
  - title: События
    facts:
      - Первый факт
      - "Второй факт "
  - title: Люди
    facts:
      - Третий факт
`)
	kb := service.NewKnowledgeBase(path)

	require.NoError(t, kb.Load())
	assert.Equal(t, "Справка\n\nСобытия:\n- Первый факт\n- Второй факт\n\nЛюди:\n- Третий факт", kb.Text())
}

func TestKnowledgeBase_HTML(t *testing.T) {
	path := writeFile(t, "kb.html", `<html><body>
<h2>Новости</h2>
<p>Что-то   произошло
   вчера.</p>
<ul><li>Пункт один</li><li>Пункт два</li></ul>
<script>ignored()</script>
</body></html>`)
	kb := service.NewKnowledgeBase(path)

	require.NoError(t, kb.Load())
	assert.Equal(t, "Новости:\nЧто-то произошло вчера.\n- Пункт один\n- Пункт два", kb.Text())
}

func TestKnowledgeBase_PlainText(t *testing.T) {
	kb := service.NewKnowledgeBase(writeFile(t, "kb.txt", "  просто текст \n"))

	require.NoError(t, kb.Load())
	assert.Equal(t, "просто текст", kb.Text())
}

func TestKnowledgeBase_EmptyFileIsError(t *testing.T) {
	kb := service.NewKnowledgeBase(writeFile(t, "kb.txt", "   "))

	assert.ErrorIs(t, kb.Load(), domain.ErrKnowledgeBaseEmpty)
}

func TestKnowledgeBase_BadYAMLKeepsPrevious(t *testing.T) {
	path := writeFile(t, "kb.yaml", "sections:\n  - title: A\n    facts: [x]\n")
	kb := service.NewKnowledgeBase(path)
	require.NoError(t, kb.Load())

	require.NoError(t, os.WriteFile(path, []byte("sections: [unclosed"), 0o644))

	assert.Error(t, kb.Load())
	assert.Equal(t, "A:\n- x", kb.Text())
}

func TestKnowledgeBase_WatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kb.txt")
	require.NoError(t, os.WriteFile(path, []byte("старое"), 0o644))

	kb := service.NewKnowledgeBase(path)
	require.NoError(t, kb.Load())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- kb.Watch(ctx, 20*time.Millisecond) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("новое"), 0o644))

	assert.Eventually(t, func() bool { return kb.Text() == "новое" }, 3*time.Second, 20*time.Millisecond)
}
