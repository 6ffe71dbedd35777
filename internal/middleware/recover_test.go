package middleware_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/cookieai/internal/middleware"
	"github.com/set-night/cookieai/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// telegramServer answers Bot API calls and records the text of sent messages.
type telegramServer struct {
	bot *bot.Bot

	mu   sync.Mutex
	text []string
}

func newTelegramServer(t *testing.T) *telegramServer {
	t.Helper()
	ts := &telegramServer{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/sendMessage") {
			assert.NoError(t, r.ParseMultipartForm(1<<20))
			ts.mu.Lock()
			ts.text = append(ts.text, r.FormValue("text"))
			ts.mu.Unlock()
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":5,"type":"private"}}}`)
	}))
	t.Cleanup(srv.Close)

	b, err := bot.New("123:test", bot.WithServerURL(srv.URL), bot.WithSkipGetMe())
	require.NoError(t, err)
	ts.bot = b
	return ts
}

func (ts *telegramServer) sent() []string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]string(nil), ts.text...)
}

func TestRecover_SendsApologyToChat(t *testing.T) {
	tg := newTelegramServer(t)
	h := middleware.Recover()(func(context.Context, *bot.Bot, *models.Update) {
		panic("boom")
	})

	assert.NotPanics(t, func() {
		h(context.Background(), tg.bot, &models.Update{ID: 1, Message: &models.Message{Chat: models.Chat{ID: 5}}})
	})
	assert.Equal(t, []string{service.MsgGenericError}, tg.sent())
}

func TestRecover_NoChatNoMessage(t *testing.T) {
	tg := newTelegramServer(t)
	h := middleware.Recover()(func(context.Context, *bot.Bot, *models.Update) {
		panic("boom")
	})

	assert.NotPanics(t, func() {
		h(context.Background(), tg.bot, &models.Update{ID: 2})
	})
	assert.Empty(t, tg.sent())
}

func TestRecover_PassesThrough(t *testing.T) {
	tg := newTelegramServer(t)
	called := false
	h := middleware.Recover()(func(context.Context, *bot.Bot, *models.Update) {
		called = true
	})

	h(context.Background(), tg.bot, &models.Update{Message: &models.Message{Chat: models.Chat{ID: 5}}})

	assert.True(t, called)
	assert.Empty(t, tg.sent())
}
