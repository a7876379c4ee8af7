package driven

import (
	"context"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
)

// ExtractedObject is one knowledge object candidate returned by the
// extraction backend, before it is assigned an identity.
type ExtractedObject struct {
	// Name is the human-readable name of the extracted unit.
	Name string

	// TypeTag is the backend's free-form type label. Unknown tags
	// collapse to domain.ObjectTypeOther.
	TypeTag string

	// ChunkStart and ChunkEnd delimit the inclusive ordinal range the
	// unit was extracted from.
	ChunkStart int
	ChunkEnd   int
}

// Extractor is an LLM-backed extraction backend.
// This is an optional service - when nil, uploads still chunk and
// align, but no knowledge objects or questions are produced.
//
// Implementations may include:
//   - OpenAI-compatible chat APIs
//   - Anthropic (Claude)
type Extractor interface {
	// ExtractObjects finds knowledge objects in an ordered run of
	// chunks. Ordinals in the result refer to positions in the given
	// chunk slice offset by startOrdinal.
	ExtractObjects(ctx context.Context, chunks []string, startOrdinal int) ([]ExtractedObject, error)

	// GenerateQuestion produces one review question of the given style
	// for a knowledge object, grounded on the reference excerpt.
	GenerateQuestion(ctx context.Context, obj *domain.KnowledgeObject, reference string, qt domain.QuestionType) (*domain.ReviewQuestion, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// Chunker splits document text into ordered chunks.
type Chunker interface {
	// Name returns the chunker name for logging and persistence.
	Name() string

	// Chunk splits text into an ordered list of chunk contents.
	Chunk(text string) []string
}

// LayoutParser turns one extraction backend's raw layout output into
// per-page text segments for the aligner.
type LayoutParser interface {
	// Name returns the reader tag recorded on chunks aligned against
	// this layout.
	Name() string

	// Pages produces the ordered page segments of the document.
	Pages(raw []byte) ([]string, error)
}
