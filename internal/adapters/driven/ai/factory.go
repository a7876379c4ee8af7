// Package ai creates the configured extraction backend from stored
// settings. It lives outside the provider packages so that they can
// share the prompt and parsing helpers of the llm package without an
// import cycle.
package ai

import (
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/ainki-cli/internal/adapters/driven/llm/anthropic"
	"github.com/custodia-labs/ainki-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/ainki-cli/internal/core/domain"
	"github.com/custodia-labs/ainki-cli/internal/core/ports/driven"
)

// Configuration keys for the extraction backend.
const (
	KeyProvider          = "llm.provider"
	KeyAPIKey            = "llm.api_key"
	KeyBaseURL           = "llm.base_url"
	KeyModel             = "llm.model"
	KeyTimeoutSeconds    = "llm.timeout_seconds"
	KeyRequestsPerSecond = "llm.requests_per_second"
)

// Environment variables consulted when llm.api_key is unset.
const (
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
)

// NewExtractorFromConfig creates the configured extraction backend.
// Returns (nil, nil) when no provider is configured: extraction is
// optional and uploads degrade gracefully without it.
func NewExtractorFromConfig(store driven.ConfigStore) (driven.Extractor, error) {
	provider := store.GetString(KeyProvider)
	if provider == "" {
		return nil, nil
	}

	timeout := time.Duration(store.GetInt(KeyTimeoutSeconds)) * time.Second
	rps := store.GetFloat(KeyRequestsPerSecond)

	switch provider {
	case "openai":
		return openai.NewExtractor(openai.Config{
			APIKey:            apiKey(store, EnvOpenAIKey),
			BaseURL:           store.GetString(KeyBaseURL),
			Model:             store.GetString(KeyModel),
			Timeout:           timeout,
			RequestsPerSecond: rps,
		})

	case "anthropic":
		return anthropic.NewExtractor(anthropic.Config{
			APIKey:            apiKey(store, EnvAnthropicKey),
			BaseURL:           store.GetString(KeyBaseURL),
			Model:             store.GetString(KeyModel),
			Timeout:           timeout,
			RequestsPerSecond: rps,
		})

	default:
		return nil, fmt.Errorf("%w: unsupported llm provider %q", domain.ErrExtractorUnavailable, provider)
	}
}

// apiKey reads the configured key, falling back to the provider's
// environment variable.
func apiKey(store driven.ConfigStore, envVar string) string {
	if key := store.GetString(KeyAPIKey); key != "" {
		return key
	}
	return os.Getenv(envVar)
}
