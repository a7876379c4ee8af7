package services

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
)

func TestSampleQuestionTypeUniformWhenUnasked(t *testing.T) {
	cfg := domain.DefaultReviewConfig()
	counts := map[domain.QuestionType]int{}

	// With no history every style carries weight 1. The first style wins
	// any draw below 1/total.
	total := float64(domain.QuestionTypeCount) + cfg.SamplerSkipWeight
	qt, ok := sampleQuestionType(cfg, counts, 0)
	require.True(t, ok)
	assert.Equal(t, domain.QuestionType(0), qt)

	qt, ok = sampleQuestionType(cfg, counts, 0.99/total)
	require.True(t, ok)
	assert.Equal(t, domain.QuestionType(0), qt)

	qt, ok = sampleQuestionType(cfg, counts, 1.01/total)
	require.True(t, ok)
	assert.Equal(t, domain.QuestionType(1), qt)
}

func TestSampleQuestionTypeSkipResidual(t *testing.T) {
	cfg := domain.DefaultReviewConfig()
	counts := map[domain.QuestionType]int{}

	// A draw landing in the trailing skip-weight band yields no style.
	_, ok := sampleQuestionType(cfg, counts, 0.9999999)
	assert.False(t, ok)
}

func TestSampleQuestionTypeFadesAskedStyles(t *testing.T) {
	cfg := domain.DefaultReviewConfig()
	cfg.SamplerSkipWeight = 0

	// Style 0 was asked often; over many draws it should come up far
	// less than the untouched styles.
	counts := map[domain.QuestionType]int{0: 9}
	r := rand.New(rand.NewSource(1))

	picks := make(map[domain.QuestionType]int)
	const draws = 10000
	for i := 0; i < draws; i++ {
		qt, ok := sampleQuestionType(cfg, counts, r.Float64())
		require.True(t, ok, "zero skip weight never skips")
		picks[qt]++
	}

	assert.Less(t, picks[0], picks[1]/10)
	for qt := domain.QuestionType(1); int(qt) < domain.QuestionTypeCount; qt++ {
		assert.Greater(t, picks[qt], 0)
	}
}

func TestSampleQuestionTypeNoMass(t *testing.T) {
	cfg := domain.DefaultReviewConfig()
	cfg.SamplerSkipWeight = -1

	// A negative skip weight is treated as zero, leaving the style
	// weights intact.
	_, ok := sampleQuestionType(cfg, map[domain.QuestionType]int{}, 0)
	assert.True(t, ok)
}
