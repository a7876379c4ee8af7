// Package llm holds the prompt templates and response parsing shared by
// the LLM extractor adapters. The provider packages own the transport;
// everything the model reads or writes is defined here.
package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
	"github.com/custodia-labs/ainki-cli/internal/core/ports/driven"
)

// MaxJSONAttempts is how many times a request is retried when the model
// returns something that does not parse as the expected JSON.
const MaxJSONAttempts = 3

const extractionPromptHeader = `You are building a study aid from a textbook excerpt.
Identify every self-contained knowledge unit in the numbered chunks below:
definitions, properties, theorems, lemmas, axioms, corollaries, conjectures,
examples, proofs. Use type "other" for implicit knowledge that fits no named kind.

Return ONLY a JSON array, no prose, where each element is:
{"name": "<short name>", "type": "<kind>", "chunk_start": <n>, "chunk_end": <n>}

chunk_start and chunk_end are the inclusive chunk numbers the unit spans.
Use the chunk numbers exactly as given.

Chunks:
`

// BuildExtractionPrompt renders the object-extraction prompt for a run
// of chunks. Chunk numbers are absolute ordinals so the model's ranges
// need no translation.
func BuildExtractionPrompt(chunks []string, startOrdinal int) string {
	var b strings.Builder
	b.WriteString(extractionPromptHeader)
	for i, chunk := range chunks {
		fmt.Fprintf(&b, "\n[%d] %s\n", startOrdinal+i, chunk)
	}
	return b.String()
}

const questionPromptTemplate = `You are quizzing a learner on the following material.

Material (%s "%s"):
%s

Write ONE question in this style: %s

Return ONLY a JSON object, no prose:
{"question": "<the question>", "answer": "<a concise reference answer>"}`

// BuildQuestionPrompt renders the question-generation prompt for one
// knowledge object and question style.
func BuildQuestionPrompt(obj *domain.KnowledgeObject, reference string, qt domain.QuestionType) string {
	return fmt.Sprintf(questionPromptTemplate, obj.Type, obj.Name, reference, qt.Description())
}

// extractionItem is the wire format of one extracted unit.
type extractionItem struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	ChunkStart int    `json:"chunk_start"`
	ChunkEnd   int    `json:"chunk_end"`
}

// questionItem is the wire format of a generated question.
type questionItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ParseExtraction decodes the model's extraction response.
func ParseExtraction(raw string) ([]driven.ExtractedObject, error) {
	var items []extractionItem
	if err := json.Unmarshal([]byte(stripFences(raw)), &items); err != nil {
		return nil, fmt.Errorf("parsing extraction response: %w", err)
	}

	objects := make([]driven.ExtractedObject, 0, len(items))
	for _, item := range items {
		if item.Name == "" {
			continue
		}
		objects = append(objects, driven.ExtractedObject{
			Name:       item.Name,
			TypeTag:    item.Type,
			ChunkStart: item.ChunkStart,
			ChunkEnd:   item.ChunkEnd,
		})
	}
	return objects, nil
}

// ParseQuestion decodes the model's question response.
func ParseQuestion(raw string) (question, answer string, err error) {
	var item questionItem
	if err := json.Unmarshal([]byte(stripFences(raw)), &item); err != nil {
		return "", "", fmt.Errorf("parsing question response: %w", err)
	}
	if item.Question == "" {
		return "", "", fmt.Errorf("parsing question response: empty question")
	}
	return item.Question, item.Answer, nil
}

// stripFences removes a surrounding markdown code fence, which models
// add even when told not to.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
