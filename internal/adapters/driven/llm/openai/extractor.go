// Package openai provides an Extractor adapter using the OpenAI API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/ainki-cli/internal/adapters/driven/llm"
	"github.com/custodia-labs/ainki-cli/internal/core/domain"
	"github.com/custodia-labs/ainki-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ainki-cli/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 120 * time.Second

	// DefaultRequestsPerSecond throttles outgoing API calls.
	DefaultRequestsPerSecond = 1.0
)

// Config holds configuration for the OpenAI extractor.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the LLM model to use (default: gpt-4o-mini).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// RequestsPerSecond throttles API calls (default: 1).
	RequestsPerSecond float64
}

// Extractor extracts knowledge objects and generates review questions
// using the OpenAI chat completions API.
type Extractor struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	limiter *rate.Limiter
}

// chatCompletionRequest is the OpenAI /chat/completions request format.
type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []chatCompletionMsg `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature,omitempty"`
}

// chatCompletionMsg is the OpenAI chat message format.
type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the OpenAI /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewExtractor creates a new OpenAI extractor.
func NewExtractor(cfg Config) (*Extractor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	return &Extractor{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}, nil
}

// ExtractObjects finds knowledge objects in an ordered run of chunks.
func (e *Extractor) ExtractObjects(ctx context.Context, chunks []string, startOrdinal int) ([]driven.ExtractedObject, error) {
	prompt := llm.BuildExtractionPrompt(chunks, startOrdinal)

	var lastErr error
	for attempt := 1; attempt <= llm.MaxJSONAttempts; attempt++ {
		content, err := e.chatCompletion(ctx, prompt)
		if err != nil {
			return nil, err
		}

		objects, err := llm.ParseExtraction(content)
		if err != nil {
			lastErr = err
			logger.Debug("openai: extraction attempt %d not parseable: %v", attempt, err)
			continue
		}
		return objects, nil
	}
	return nil, fmt.Errorf("openai: no parseable extraction after %d attempts: %w", llm.MaxJSONAttempts, lastErr)
}

// GenerateQuestion produces one review question for a knowledge object.
func (e *Extractor) GenerateQuestion(ctx context.Context, obj *domain.KnowledgeObject, reference string, qt domain.QuestionType) (*domain.ReviewQuestion, error) {
	prompt := llm.BuildQuestionPrompt(obj, reference, qt)

	var lastErr error
	for attempt := 1; attempt <= llm.MaxJSONAttempts; attempt++ {
		content, err := e.chatCompletion(ctx, prompt)
		if err != nil {
			return nil, err
		}

		question, answer, err := llm.ParseQuestion(content)
		if err != nil {
			lastErr = err
			logger.Debug("openai: question attempt %d not parseable: %v", attempt, err)
			continue
		}
		return &domain.ReviewQuestion{
			ID:        uuid.New().String(),
			ObjectID:  obj.ID,
			Type:      qt,
			Text:      question,
			Answer:    answer,
			CreatedAt: time.Now().UTC(),
		}, nil
	}
	return nil, fmt.Errorf("openai: no parseable question after %d attempts: %w", llm.MaxJSONAttempts, lastErr)
}

// chatCompletion sends one prompt and returns the first choice's content.
func (e *Extractor) chatCompletion(ctx context.Context, prompt string) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	reqBody := chatCompletionRequest{
		Model: e.model,
		Messages: []chatCompletionMsg{
			{Role: "user", Content: prompt},
		},
		Temperature: 0.3,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		e.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("openai error: %s", chatResp.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(body))
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("openai: no response choices returned")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// ModelName returns the name of the model being used.
func (e *Extractor) ModelName() string {
	return e.model
}

// Close releases resources.
func (e *Extractor) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
