package services

import (
	"math"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
)

// sampleQuestionType picks a question style for an object, weighting
// each style by 1/(1+asked)^exponent so heavily used styles fade, with
// a residual skip weight competing against every style. r must be a
// uniform draw from [0, 1). The second return is false for a skip.
//
// The exact distribution shape is a policy parameter, not a contract;
// both the exponent and the skip weight live in ReviewConfig.
func sampleQuestionType(cfg domain.ReviewConfig, counts map[domain.QuestionType]int, r float64) (domain.QuestionType, bool) {
	weights := make([]float64, domain.QuestionTypeCount)
	total := cfg.SamplerSkipWeight
	if total < 0 {
		total = 0
	}
	for i := range weights {
		weights[i] = 1 / math.Pow(1+float64(counts[domain.QuestionType(i)]), cfg.SamplerExponent)
		total += weights[i]
	}
	if total <= 0 {
		return 0, false
	}

	target := r * total
	for i, w := range weights {
		if target < w {
			return domain.QuestionType(i), true
		}
		target -= w
	}
	// Remaining mass is the skip weight.
	return 0, false
}
