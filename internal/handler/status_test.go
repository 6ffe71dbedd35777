package handler_test

import (
	"testing"
	"time"

	"github.com/set-night/cookieai/internal/handler"
	"github.com/set-night/cookieai/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestFormatStatus(t *testing.T) {
	snap := service.StatusSnapshot{
		Uptime:     2*24*time.Hour + 3*time.Hour + 15*time.Minute + 40*time.Second,
		Reconnects: 4,
		LastCheck:  time.Date(2025, 5, 1, 10, 20, 30, 0, time.Local),
		HeapMB:     12.5,
		FreeDiskGB: 7.5,
	}

	text := handler.FormatStatus(snap)

	assert.Contains(t, text, "2 дней, 3 часов, 15 минут")
	assert.Contains(t, text, "*Память*: 12.50 МБ")
	assert.Contains(t, text, "*Диск*: 7.50 ГБ свободно")
	assert.Contains(t, text, "*Перезапусков*: 4")
	assert.Contains(t, text, "2025-05-01 10:20:30")
}

func TestFormatStatus_UnknownDisk(t *testing.T) {
	text := handler.FormatStatus(service.StatusSnapshot{FreeDiskGB: -1})

	assert.Contains(t, text, "*Диск*: н/д")
}

func TestWelcomeText(t *testing.T) {
	assert.Contains(t, handler.WelcomeText("Аня"), "Привет, Аня!")
}
