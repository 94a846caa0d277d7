// ABOUTME: Text-generation client for copy rewriting and document extraction
// ABOUTME: OpenAI-compatible chat completions with JSON mode for structured output

package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// ErrGenerationFailed wraps every upstream failure so callers can
// branch on a single sentinel. Unlike the state and cache layers, AI
// calls are allowed to fail loudly; the surfaces invoking them decide
// what to show.
var ErrGenerationFailed = errors.New("ai: text generation failed")

// Client is the text-generation collaborator the rest of the app
// depends on. Implementations are expected to be slow and fallible;
// callers bound them with their own context deadlines.
type Client interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateJSON(ctx context.Context, prompt string, v interface{}) error
}

// Config holds generation settings, filled from the environment.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// ConfigFromEnv builds a Config from OPENAI_API_KEY plus MARQUEE_AI_*
// overrides, so a self-hosted OpenAI-compatible endpoint works too.
func ConfigFromEnv() *Config {
	cfg := &Config{
		APIKey: os.Getenv("OPENAI_API_KEY"),
		Model:  openai.GPT4oMini,
	}
	if v := os.Getenv("MARQUEE_AI_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("MARQUEE_AI_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("MARQUEE_AI_MODEL"); v != "" {
		cfg.Model = v
	}
	return cfg
}

// OpenAIClient implements Client over the chat completions API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// New builds a client from cfg. A missing API key is an error here so
// callers can report "AI features disabled" instead of failing later.
func New(cfg *Config) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("ai: no API key configured")
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(oc),
		model:  cfg.Model,
	}, nil
}

// GenerateText returns the model's completion for prompt.
func (c *OpenAIClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateJSON asks for a single JSON object and decodes it into v.
func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt string, v interface{}) error {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "Respond with a single JSON object and nothing else."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), v); err != nil {
		return fmt.Errorf("%w: undecodable JSON answer: %v", ErrGenerationFailed, err)
	}
	return nil
}
