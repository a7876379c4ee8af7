// Package anthropic provides an Extractor adapter using the Anthropic API.
package anthropic

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
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-3-5-sonnet-latest"
	DefaultTimeout = 120 * time.Second

	// DefaultRequestsPerSecond throttles outgoing API calls.
	DefaultRequestsPerSecond = 1.0

	// anthropicVersion is the required API version header.
	anthropicVersion = "2023-06-01"

	// maxResponseTokens bounds every completion.
	maxResponseTokens = 2048
)

// Config holds configuration for the Anthropic extractor.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.anthropic.com).
	BaseURL string

	// Model is the LLM model to use (default: claude-3-5-sonnet-latest).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// RequestsPerSecond throttles API calls (default: 1).
	RequestsPerSecond float64
}

// Extractor extracts knowledge objects and generates review questions
// using the Anthropic messages API.
type Extractor struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	limiter *rate.Limiter
}

// messagesRequest is the Anthropic /v1/messages request format.
type messagesRequest struct {
	Model       string            `json:"model"`
	Messages    []messagesMessage `json:"messages"`
	MaxTokens   int               `json:"max_tokens"`
	Temperature float64           `json:"temperature,omitempty"`
}

// messagesMessage is the Anthropic message format.
type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse is the Anthropic /v1/messages response format.
type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewExtractor creates a new Anthropic extractor.
func NewExtractor(cfg Config) (*Extractor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
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
		content, err := e.complete(ctx, prompt)
		if err != nil {
			return nil, err
		}

		objects, err := llm.ParseExtraction(content)
		if err != nil {
			lastErr = err
			logger.Debug("anthropic: extraction attempt %d not parseable: %v", attempt, err)
			continue
		}
		return objects, nil
	}
	return nil, fmt.Errorf("anthropic: no parseable extraction after %d attempts: %w", llm.MaxJSONAttempts, lastErr)
}

// GenerateQuestion produces one review question for a knowledge object.
func (e *Extractor) GenerateQuestion(ctx context.Context, obj *domain.KnowledgeObject, reference string, qt domain.QuestionType) (*domain.ReviewQuestion, error) {
	prompt := llm.BuildQuestionPrompt(obj, reference, qt)

	var lastErr error
	for attempt := 1; attempt <= llm.MaxJSONAttempts; attempt++ {
		content, err := e.complete(ctx, prompt)
		if err != nil {
			return nil, err
		}

		question, answer, err := llm.ParseQuestion(content)
		if err != nil {
			lastErr = err
			logger.Debug("anthropic: question attempt %d not parseable: %v", attempt, err)
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
	return nil, fmt.Errorf("anthropic: no parseable question after %d attempts: %w", llm.MaxJSONAttempts, lastErr)
}

// complete sends one prompt and returns the concatenated text content.
func (e *Extractor) complete(ctx context.Context, prompt string) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	reqBody := messagesRequest{
		Model: e.model,
		Messages: []messagesMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxResponseTokens,
		Temperature: 0.3,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		e.baseURL+"/v1/messages",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", e.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var msgResp messagesResponse
	if err := json.Unmarshal(body, &msgResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if msgResp.Error != nil {
		return "", fmt.Errorf("anthropic error: %s", msgResp.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic error (status %d): %s", resp.StatusCode, string(body))
	}

	var text string
	for _, block := range msgResp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("anthropic: no text content returned")
	}

	return text, nil
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
