package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/set-night/cookieai/internal/config"
	"github.com/set-night/cookieai/internal/domain"
)

// ModelClient is the remote chat, vision and speech-to-text service.
type ModelClient interface {
	CompleteChat(ctx context.Context, messages []domain.ConversationEntry, maxTokens int) (string, error)
	AnalyzeVision(ctx context.Context, prompt string, images [][]byte, maxTokens int) (string, error)
	Transcribe(ctx context.Context, audio []byte, filename, language string) (string, error)
}

// OpenAIClient talks to any OpenAI-compatible endpoint. Every call goes
// through the circuit breaker.
type OpenAIClient struct {
	client      openai.Client
	model       string
	speechModel string
	breaker     *CircuitBreaker
}

func NewOpenAIClient(apiKey, baseURL, model, speechModel string, breaker *CircuitBreaker) *OpenAIClient {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithRequestTimeout(config.RequestTimeout),
		option.WithMaxRetries(0),
	)
	return &OpenAIClient{
		client:      client,
		model:       model,
		speechModel: speechModel,
		breaker:     breaker,
	}
}

func (c *OpenAIClient) CompleteChat(ctx context.Context, messages []domain.ConversationEntry, maxTokens int) (string, error) {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case domain.RoleSystem:
			params = append(params, openai.SystemMessage(m.Content))
		case domain.RoleAssistant:
			params = append(params, openai.AssistantMessage(m.Content))
		default:
			params = append(params, openai.UserMessage(m.Content))
		}
	}
	return c.complete(ctx, params, maxTokens)
}

func (c *OpenAIClient) AnalyzeVision(ctx context.Context, prompt string, images [][]byte, maxTokens int) (string, error) {
	parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(images)+1)
	parts = append(parts, openai.TextContentPart(prompt))
	for _, img := range images {
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(img),
		}))
	}
	return c.complete(ctx, []openai.ChatCompletionMessageParamUnion{openai.UserMessage(parts)}, maxTokens)
}

func (c *OpenAIClient) complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion, maxTokens int) (string, error) {
	return c.breaker.Execute(ctx, func() (string, error) {
		completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:       c.model,
			Messages:    messages,
			MaxTokens:   openai.Int(int64(maxTokens)),
			Temperature: openai.Float(config.Temperature),
		})
		if err != nil {
			return "", fmt.Errorf("chat completion: %w", err)
		}
		if len(completion.Choices) == 0 {
			return "", domain.ErrEmptyResponse
		}
		text := strings.TrimSpace(completion.Choices[0].Message.Content)
		if text == "" {
			return "", domain.ErrEmptyResponse
		}
		return text, nil
	})
}

// Transcribe returns the recognised text; an empty string is not an error.
func (c *OpenAIClient) Transcribe(ctx context.Context, audio []byte, filename, language string) (string, error) {
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return c.breaker.Execute(ctx, func() (string, error) {
		params := openai.AudioTranscriptionNewParams{
			Model: c.speechModel,
			File:  openai.File(bytes.NewReader(audio), filename, contentType),
		}
		if language != "" {
			params.Language = openai.String(language)
		}
		tr, err := c.client.Audio.Transcriptions.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("transcribe audio: %w", err)
		}
		return strings.TrimSpace(tr.Text), nil
	})
}
