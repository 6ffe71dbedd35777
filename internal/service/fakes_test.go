package service_test

import (
	"context"
	"errors"
	"os"
	"strconv"
	"sync"
	"testing"

	"github.com/set-night/cookieai/internal/domain"
	"github.com/set-night/cookieai/internal/repository"
	"github.com/set-night/cookieai/internal/service"
	"github.com/stretchr/testify/require"
)

var errRemote = errors.New("remote unavailable")

type visionCall struct {
	prompt    string
	images    [][]byte
	maxTokens int
}

type fakeModel struct {
	mu sync.Mutex

	chatReply string
	chatErr   error
	chatCalls [][]domain.ConversationEntry

	visionFn    func(call visionCall) (string, error)
	visionCalls []visionCall

	transcript      string
	transcribeErr   error
	transcribeCalls []string
}

func (m *fakeModel) CompleteChat(_ context.Context, messages []domain.ConversationEntry, _ int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chatCalls = append(m.chatCalls, append([]domain.ConversationEntry(nil), messages...))
	return m.chatReply, m.chatErr
}

func (m *fakeModel) AnalyzeVision(_ context.Context, prompt string, images [][]byte, maxTokens int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	call := visionCall{prompt: prompt, images: images, maxTokens: maxTokens}
	m.visionCalls = append(m.visionCalls, call)
	if m.visionFn != nil {
		return m.visionFn(call)
	}
	return "описание", nil
}

func (m *fakeModel) Transcribe(_ context.Context, _ []byte, filename, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transcribeCalls = append(m.transcribeCalls, filename)
	return m.transcript, m.transcribeErr
}

// fakeTool writes "frame@<pos>" into each extracted frame.
type fakeTool struct {
	duration     float64
	durationErr  error
	extractErr   func(pos float64) error
	transcodeErr error

	positions  []float64
	transcoded []string
}

func (t *fakeTool) Duration(context.Context, string) (float64, error) {
	return t.duration, t.durationErr
}

func (t *fakeTool) ExtractFrame(_ context.Context, _ string, pos float64, out string) error {
	t.positions = append(t.positions, pos)
	if t.extractErr != nil {
		if err := t.extractErr(pos); err != nil {
			return err
		}
	}
	return os.WriteFile(out, []byte(frameBytes(pos)), 0o644)
}

func (t *fakeTool) TranscodeMP3(_ context.Context, in, out string) error {
	t.transcoded = append(t.transcoded, in)
	if t.transcodeErr != nil {
		return t.transcodeErr
	}
	return os.WriteFile(out, []byte("mp3"), 0o644)
}

func frameBytes(pos float64) string {
	return "frame@" + formatPos(pos)
}

func formatPos(pos float64) string {
	return strconv.FormatFloat(pos, 'f', -1, 64)
}

type memProfiles struct {
	mu      sync.Mutex
	saved   map[string]*domain.UserProfile
	saves   int
	loadErr error
}

func (s *memProfiles) Load(context.Context) (map[string]*domain.UserProfile, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return map[string]*domain.UserProfile{}, nil
}

func (s *memProfiles) Save(_ context.Context, profiles map[string]*domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	s.saved = profiles
	return nil
}

type staticKnowledge string

func (k staticKnowledge) Text() string { return string(k) }

// fakeDownloader copies canned bytes per file id; unknown ids fail.
type fakeDownloader struct {
	files map[string]string
	calls []string
}

func (d *fakeDownloader) Download(_ context.Context, ref domain.AttachmentRef, dest string) error {
	d.calls = append(d.calls, ref.FileID)
	data, ok := d.files[ref.FileID]
	if !ok {
		return errors.New("file not found")
	}
	return os.WriteFile(dest, []byte(data), 0o644)
}

type harness struct {
	model    *fakeModel
	tool     *fakeTool
	profiles *memProfiles
	conv     *service.ConversationService
	prefs    *service.PreferenceService
	composer *service.Composer
	orch     *service.Orchestrator
	pipeline *service.Pipeline
	tempRoot string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		model:    &fakeModel{chatReply: "ответ"},
		tool:     &fakeTool{duration: 40},
		profiles: &memProfiles{},
		tempRoot: t.TempDir(),
	}
	h.conv = service.NewConversationService(repository.NewMemoryConversations())
	h.prefs = service.NewPreferenceService(h.profiles, service.HeuristicExtractor{})
	h.composer = service.NewComposer(h.model, h.conv, h.prefs, staticKnowledge("Факт: печенье вкусное."))
	h.orch = service.NewOrchestrator(h.model, service.NewMediaNormalizer(h.tool), h.conv, h.composer, h.tempRoot, "ru")
	h.pipeline = service.NewPipeline(h.conv, h.prefs, h.orch, h.composer, h.tempRoot)
	return h
}

// writeFile creates a file with content in a fresh temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := t.TempDir() + "/" + name
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func tempRootEmpty(t *testing.T, root string) bool {
	t.Helper()
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	return len(entries) == 0
}
