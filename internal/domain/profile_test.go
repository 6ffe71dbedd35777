package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/set-night/cookieai/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicCounts_TopOrdersByCountThenFirstSeen(t *testing.T) {
	var topics domain.TopicCounts
	for _, w := range []string{"музыка", "кино", "книги", "кино", "игры", "спорт", "погода", "книги"} {
		topics.Add(w)
	}

	top := topics.Top(5)

	assert.Equal(t, []string{"кино", "книги", "музыка", "игры", "спорт"}, top)
}

func TestTopicCounts_TopReturnsAllWhenFewer(t *testing.T) {
	var topics domain.TopicCounts
	topics.Add("один")
	topics.Add("два")

	assert.Equal(t, []string{"один", "два"}, topics.Top(5))
	assert.Empty(t, domain.TopicCounts{}.Top(5))
}

func TestTopicCounts_JSONKeepsInsertionOrder(t *testing.T) {
	var topics domain.TopicCounts
	topics.Add("яблоко")
	topics.Add("апельсин")
	topics.Add("яблоко")

	data, err := json.Marshal(topics)
	require.NoError(t, err)
	assert.Equal(t, `{"яблоко":2,"апельсин":1}`, string(data))

	var decoded domain.TopicCounts
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []string{"яблоко", "апельсин"}, decoded.Words())
	assert.Equal(t, 2, decoded.Count("яблоко"))
}

func TestTopicCounts_UnmarshalRejectsArray(t *testing.T) {
	var topics domain.TopicCounts
	assert.Error(t, json.Unmarshal([]byte(`["a"]`), &topics))
}

func TestTimestamp_RoundTrip(t *testing.T) {
	ts := domain.NewTimestamp(time.Date(2025, 3, 14, 15, 9, 26, 535, time.Local))

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-14 15:09:26"`, string(data))

	var decoded domain.Timestamp
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, ts.Equal(decoded.Time))
}

func TestUserProfile_CloneIsDeep(t *testing.T) {
	p := &domain.UserProfile{}
	p.PersonalInfo.Hobbies = []string{"шахматы"}
	p.Topics.Add("шахматы")

	c := p.Clone()
	c.PersonalInfo.Hobbies[0] = "футбол"
	c.Topics.Add("футбол")

	assert.Equal(t, "шахматы", p.PersonalInfo.Hobbies[0])
	assert.Equal(t, 1, p.Topics.Len())
	assert.Equal(t, 2, c.Topics.Len())
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, domain.RoleUser.Valid())
	assert.True(t, domain.RoleAssistant.Valid())
	assert.True(t, domain.RoleSystem.Valid())
	assert.False(t, domain.Role("tool").Valid())
}
