package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/set-night/cookieai/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposer_SystemPromptSections(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.prefs.Update(ctx, "1", "меня зовут Олег")

	prompt := h.composer.SystemPrompt("1")

	assert.True(t, strings.HasPrefix(prompt, "You are Cookie AI (Печенье ИИ)"))
	assert.Contains(t, prompt, "МУЖСКОМ роде")
	assert.Contains(t, prompt, "Факт: печенье вкусное.")
	assert.Contains(t, prompt, "- Имя пользователя: Олег\n")
	assert.True(t, strings.HasSuffix(prompt, "без навязчивого повторения."))

	kb := strings.Index(prompt, "Факт:")
	profile := strings.Index(prompt, "Информация о пользователе:")
	assert.Less(t, kb, profile)
}

func TestComposer_SystemPromptIntroducesCreatorAndKnowledgeYear(t *testing.T) {
	h := newHarness(t)

	prompt := h.composer.SystemPrompt("1")

	about := strings.Index(prompt, "Important information about yourself: You were created by Vadim Prohorenko")
	require.GreaterOrEqual(t, about, 0)
	assert.Contains(t, prompt, "mem coin called Cookie AI.")
	assert.Contains(t, prompt, "knowledge base with up-to-date information (up to 2025):\n\n")
	assert.Contains(t, prompt, "information from after 2023")

	kb := strings.Index(prompt, "Факт:")
	assert.Less(t, about, kb)
}

func TestComposer_SystemPromptWithoutProfile(t *testing.T) {
	h := newHarness(t)

	prompt := h.composer.SystemPrompt("stranger")

	assert.NotContains(t, prompt, "Информация о пользователе:")
	assert.Contains(t, prompt, "Если пользователь указал имя")
}

func TestComposer_ReplySendsLastTenAndRecords(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	for i := range 12 {
		h.conv.Append(ctx, "1", domain.RoleUser, fmt.Sprintf("m%d", i))
	}

	text, err := h.composer.Reply(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "ответ", text)

	require.Len(t, h.model.chatCalls, 1)
	sent := h.model.chatCalls[0]
	require.Len(t, sent, 11)
	assert.Equal(t, domain.RoleSystem, sent[0].Role)
	assert.Equal(t, "m2", sent[1].Content)
	assert.Equal(t, "m11", sent[10].Content)

	log := h.conv.History(ctx, "1")
	assert.Equal(t, domain.ConversationEntry{Role: domain.RoleAssistant, Content: "ответ"}, log[len(log)-1])
}

func TestComposer_ReplyFailureRecordsNothing(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.model.chatErr = errRemote
	h.conv.Append(ctx, "1", domain.RoleUser, "привет")

	_, err := h.composer.Reply(ctx, "1")

	assert.ErrorIs(t, err, errRemote)
	assert.Len(t, h.conv.History(ctx, "1"), 1)
}

func TestComposer_EmptyReplyIsError(t *testing.T) {
	h := newHarness(t)
	h.model.chatReply = ""

	_, err := h.composer.Reply(context.Background(), "1")

	assert.ErrorIs(t, err, domain.ErrEmptyResponse)
	assert.Empty(t, h.conv.History(context.Background(), "1"))
}
