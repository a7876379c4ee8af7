package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
)

func TestBuildExtractionPromptNumbersChunksAbsolutely(t *testing.T) {
	prompt := BuildExtractionPrompt([]string{"first chunk", "second chunk"}, 40)

	assert.Contains(t, prompt, "[40] first chunk")
	assert.Contains(t, prompt, "[41] second chunk")
	assert.NotContains(t, prompt, "[0]")
}

func TestBuildQuestionPromptCarriesStyle(t *testing.T) {
	obj := &domain.KnowledgeObject{
		Name: "Lagrange's theorem",
		Type: domain.ObjectTypeTheorem,
	}
	prompt := BuildQuestionPrompt(obj, "the order of a subgroup divides...", domain.QuestionCuedRecall)

	assert.Contains(t, prompt, "Lagrange's theorem")
	assert.Contains(t, prompt, "theorem")
	assert.Contains(t, prompt, domain.QuestionCuedRecall.Description())
}

func TestParseExtraction(t *testing.T) {
	raw := `[
		{"name": "group", "type": "definition", "chunk_start": 3, "chunk_end": 4},
		{"name": "", "type": "theorem", "chunk_start": 5, "chunk_end": 5},
		{"name": "lagrange", "type": "theorem", "chunk_start": 6, "chunk_end": 8}
	]`

	objects, err := ParseExtraction(raw)
	require.NoError(t, err)
	require.Len(t, objects, 2, "nameless items are dropped")
	assert.Equal(t, "group", objects[0].Name)
	assert.Equal(t, "definition", objects[0].TypeTag)
	assert.Equal(t, 3, objects[0].ChunkStart)
	assert.Equal(t, 8, objects[1].ChunkEnd)
}

func TestParseExtractionStripsCodeFence(t *testing.T) {
	raw := "```json\n[{\"name\": \"group\", \"type\": \"definition\", \"chunk_start\": 0, \"chunk_end\": 0}]\n```"

	objects, err := ParseExtraction(raw)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "group", objects[0].Name)
}

func TestParseExtractionRejectsProse(t *testing.T) {
	_, err := ParseExtraction("Sure! Here are the knowledge objects I found:")
	assert.Error(t, err)
}

func TestParseQuestion(t *testing.T) {
	question, answer, err := ParseQuestion(`{"question": "State Lagrange's theorem.", "answer": "The order of a subgroup divides the order of the group."}`)
	require.NoError(t, err)
	assert.Equal(t, "State Lagrange's theorem.", question)
	assert.True(t, strings.HasPrefix(answer, "The order"))
}

func TestParseQuestionRejectsEmpty(t *testing.T) {
	_, _, err := ParseQuestion(`{"question": "", "answer": "x"}`)
	assert.Error(t, err)
}
