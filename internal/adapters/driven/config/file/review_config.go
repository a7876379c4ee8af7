package file

import (
	"time"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
	"github.com/custodia-labs/ainki-cli/internal/core/ports/driven"
)

// Configuration keys for the repetition engine.
const (
	KeyBaseIntervalMinutes = "review.base_interval_minutes"
	KeyLevelRatios         = "review.level_ratios"
	KeyContextChunks       = "review.context_chunks"
	KeyTruncateAfter       = "review.truncate_after"
	KeySamplerExponent     = "review.sampler_exponent"
	KeySamplerSkipWeight   = "review.sampler_skip_weight"
)

// ReviewConfigFrom builds a domain.ReviewConfig from the config store,
// falling back to the stock defaults for unset keys. The result is
// validated so a broken config file fails loudly at startup.
func ReviewConfigFrom(store driven.ConfigStore) (domain.ReviewConfig, error) {
	cfg := domain.DefaultReviewConfig()

	if minutes := store.GetInt(KeyBaseIntervalMinutes); minutes > 0 {
		cfg.BaseInterval = time.Duration(minutes) * time.Minute
	}
	if ratios := store.GetIntSlice(KeyLevelRatios); len(ratios) > 0 {
		cfg.LevelRatios = ratios
	}
	if _, ok := store.Get(KeyContextChunks); ok {
		cfg.ContextChunks = store.GetInt(KeyContextChunks)
	}
	if _, ok := store.Get(KeyTruncateAfter); ok {
		cfg.TruncateAfter = store.GetInt(KeyTruncateAfter)
	}
	if _, ok := store.Get(KeySamplerExponent); ok {
		cfg.SamplerExponent = store.GetFloat(KeySamplerExponent)
	}
	if _, ok := store.Get(KeySamplerSkipWeight); ok {
		cfg.SamplerSkipWeight = store.GetFloat(KeySamplerSkipWeight)
	}

	if err := cfg.Validate(); err != nil {
		return domain.ReviewConfig{}, err
	}
	return cfg, nil
}
