package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// TimestampLayout matches the format of the legacy user_preferences.json file.
const TimestampLayout = "2006-01-02 15:04:05"

type UserProfile struct {
	FirstInteraction Timestamp    `json:"first_interaction"`
	LastInteraction  Timestamp    `json:"last_interaction"`
	InteractionCount int          `json:"interaction_count"`
	PersonalInfo     PersonalInfo `json:"personal_info"`
	Topics           TopicCounts  `json:"topics"`
}

type PersonalInfo struct {
	Name     string   `json:"name,omitempty"`
	Age      int      `json:"age,omitempty"`
	Hobbies  []string `json:"hobbies,omitempty"`
	Likes    []string `json:"likes,omitempty"`
	Dislikes []string `json:"dislikes,omitempty"`
}

// Clone returns a deep copy safe to hand out of a locked section.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	c := *p
	c.PersonalInfo.Hobbies = append([]string(nil), p.PersonalInfo.Hobbies...)
	c.PersonalInfo.Likes = append([]string(nil), p.PersonalInfo.Likes...)
	c.PersonalInfo.Dislikes = append([]string(nil), p.PersonalInfo.Dislikes...)
	c.Topics = p.Topics.Clone()
	return &c
}

// ProfileUpdate is the partial profile produced by an extractor.
// Zero values mean "nothing extracted".
type ProfileUpdate struct {
	Name    string
	Age     int
	Hobby   string
	Like    string
	Dislike string
	Topics  []string
}

// Timestamp is a second-precision local time serialised with TimestampLayout.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Truncate(time.Second)}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(strconv.Quote(t.Format(TimestampLayout))), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("decode timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.ParseInLocation(TimestampLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("parse timestamp: %w", err)
	}
	t.Time = parsed
	return nil
}

// TopicCounts is a word frequency map that remembers first-seen order,
// both in memory and in its JSON form.
type TopicCounts struct {
	order  []string
	counts map[string]int
}

func (t *TopicCounts) Add(word string) {
	t.set(word, t.counts[word]+1)
}

func (t *TopicCounts) set(word string, n int) {
	if t.counts == nil {
		t.counts = make(map[string]int)
	}
	if _, ok := t.counts[word]; !ok {
		t.order = append(t.order, word)
	}
	t.counts[word] = n
}

func (t TopicCounts) Count(word string) int {
	return t.counts[word]
}

func (t TopicCounts) Len() int {
	return len(t.order)
}

// Words returns the tracked words in first-seen order.
func (t TopicCounts) Words() []string {
	return append([]string(nil), t.order...)
}

// Top returns up to n words by descending frequency; ties keep first-seen order.
func (t TopicCounts) Top(n int) []string {
	words := t.Words()
	sort.SliceStable(words, func(i, j int) bool {
		return t.counts[words[i]] > t.counts[words[j]]
	})
	if len(words) > n {
		words = words[:n]
	}
	return words
}

func (t TopicCounts) Clone() TopicCounts {
	c := TopicCounts{order: append([]string(nil), t.order...)}
	if t.counts != nil {
		c.counts = make(map[string]int, len(t.counts))
		for k, v := range t.counts {
			c.counts[k] = v
		}
	}
	return c
}

func (t TopicCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, word := range t.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(word)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(t.counts[word]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (t *TopicCounts) UnmarshalJSON(data []byte) error {
	*t = TopicCounts{}
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode topics: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode topics: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode topics: %w", err)
		}
		word, ok := tok.(string)
		if !ok {
			return fmt.Errorf("decode topics: unexpected key %v", tok)
		}
		var n int
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("decode topic %q: %w", word, err)
		}
		t.set(word, n)
	}
	return nil
}
