package domain

import (
	"encoding"
	"fmt"
	"time"
)

// QuestionType is the closed catalogue of review question styles.
// The styles come from retrieval-practice research; the sampler avoids
// over-repeating any single style for the same object.
type QuestionType int

const (
	QuestionFreeRecall QuestionType = iota
	QuestionCuedRecall
	QuestionElaborative
	QuestionApplication
	QuestionCompareContrast
	QuestionExampleNonExample
	QuestionPrediction
	QuestionErrorCorrection
	QuestionReflection
)

var questionTypeNames = [...]string{
	QuestionFreeRecall:        "free-recall",
	QuestionCuedRecall:        "cued-recall",
	QuestionElaborative:       "elaborative",
	QuestionApplication:       "application",
	QuestionCompareContrast:   "compare-contrast",
	QuestionExampleNonExample: "example-non-example",
	QuestionPrediction:        "prediction",
	QuestionErrorCorrection:   "error-correction",
	QuestionReflection:        "reflection",
}

// questionTypeDescriptions guide the extraction backend when generating
// a question of each style.
var questionTypeDescriptions = [...]string{
	QuestionFreeRecall:        "Ask the learner to recall everything they can about the topic without cues.",
	QuestionCuedRecall:        "Provide a partial cue or keyword so retrieval is guided but still effortful.",
	QuestionElaborative:       "Ask for explanations, causes, or mechanisms behind the material.",
	QuestionApplication:       "Pose a new scenario requiring application of the learned material.",
	QuestionCompareContrast:   "Ask the learner to identify similarities and differences with a related concept.",
	QuestionExampleNonExample: "Ask for one example and one non-example of the concept.",
	QuestionPrediction:        "Ask a question about the material before revealing it, priming attention.",
	QuestionErrorCorrection:   "Present a possibly wrong statement and ask the learner to evaluate or correct it.",
	QuestionReflection:        "Ask the learner to assess their own understanding of the material.",
}

// Compile-time interface checks.
var (
	_ fmt.Stringer             = QuestionType(0)
	_ encoding.TextMarshaler   = QuestionType(0)
	_ encoding.TextUnmarshaler = (*QuestionType)(nil)
)

// String returns the persisted label for the question type.
func (q QuestionType) String() string {
	if q.IsValid() {
		return questionTypeNames[q]
	}
	return fmt.Sprintf("QuestionType(%d)", int(q))
}

// IsValid reports whether q is a known question type.
func (q QuestionType) IsValid() bool {
	return q >= QuestionFreeRecall && q <= QuestionReflection
}

// Description returns guidance text for generating this question style.
func (q QuestionType) Description() string {
	if q.IsValid() {
		return questionTypeDescriptions[q]
	}
	return ""
}

// MarshalText implements encoding.TextMarshaler.
func (q QuestionType) MarshalText() ([]byte, error) {
	if !q.IsValid() {
		return nil, fmt.Errorf("%w: question type %d", ErrInvalidInput, int(q))
	}
	return []byte(questionTypeNames[q]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *QuestionType) UnmarshalText(text []byte) error {
	for i, name := range questionTypeNames {
		if name == string(text) {
			*q = QuestionType(i)
			return nil
		}
	}
	return fmt.Errorf("%w: question type %q", ErrInvalidInput, text)
}

// QuestionTypeCount is the number of question styles in the catalogue.
const QuestionTypeCount = int(QuestionReflection) + 1

// ReviewQuestion is a generated question bound to one knowledge object.
// The asked/correct counters feed the question-type sampler.
type ReviewQuestion struct {
	// ID is the unique identifier for the question.
	ID string

	// ObjectID links to the knowledge object the question tests.
	ObjectID string

	// Type tags the question style.
	Type QuestionType

	// Text is the question itself.
	Text string

	// Answer is the reference answer, when the backend produced one.
	Answer string

	// Asked counts how many times the question was shown.
	Asked int

	// Correct counts how many times it was answered correctly.
	Correct int

	// CreatedAt is when the question was generated.
	CreatedAt time.Time
}

// User is a minimal identity record. Authentication beyond a stored
// credential hash lives outside this core.
type User struct {
	// ID is the unique identifier for the user.
	ID string

	// Username is the unique login name.
	Username string

	// Email is the user's contact address.
	Email string

	// PasswordHash is the hex-encoded hash of the user's password.
	PasswordHash string

	// CreatedAt is when the user registered.
	CreatedAt time.Time
}
