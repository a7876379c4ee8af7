package domain

import (
	"encoding"
	"fmt"
	"time"
)

// ObjectType is the closed enumeration of knowledge object kinds.
type ObjectType int

const (
	ObjectTypeDefinition ObjectType = iota
	ObjectTypeProperty
	ObjectTypeTheorem
	ObjectTypeLemma
	ObjectTypeAxiom
	ObjectTypeCorollary
	ObjectTypeConjecture
	ObjectTypeExample
	ObjectTypeProof
	// ObjectTypeOther labels implicit knowledge that fits no named kind.
	// Unknown tags from the extractor map here.
	ObjectTypeOther
)

var objectTypeNames = [...]string{
	ObjectTypeDefinition: "definition",
	ObjectTypeProperty:   "property",
	ObjectTypeTheorem:    "theorem",
	ObjectTypeLemma:      "lemma",
	ObjectTypeAxiom:      "axiom",
	ObjectTypeCorollary:  "corollary",
	ObjectTypeConjecture: "conjecture",
	ObjectTypeExample:    "example",
	ObjectTypeProof:      "proof",
	ObjectTypeOther:      "other",
}

// Compile-time interface checks.
var (
	_ fmt.Stringer             = ObjectType(0)
	_ encoding.TextMarshaler   = ObjectType(0)
	_ encoding.TextUnmarshaler = (*ObjectType)(nil)
)

// String returns the persisted label for the object type.
// For invalid values it returns "ObjectType(n)".
func (t ObjectType) String() string {
	if t.IsValid() {
		return objectTypeNames[t]
	}
	return fmt.Sprintf("ObjectType(%d)", int(t))
}

// IsValid reports whether t is a known object type.
func (t ObjectType) IsValid() bool {
	return t >= ObjectTypeDefinition && t <= ObjectTypeOther
}

// MarshalText implements encoding.TextMarshaler.
func (t ObjectType) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: object type %d", ErrInvalidInput, int(t))
	}
	return []byte(objectTypeNames[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ObjectType) UnmarshalText(text []byte) error {
	*t = ParseObjectType(string(text))
	return nil
}

// ParseObjectType maps a type tag to an ObjectType. Tags the closed
// enumeration does not know collapse to ObjectTypeOther, so extractor
// output can never produce an unpersistable object.
func ParseObjectType(tag string) ObjectType {
	for t, name := range objectTypeNames {
		if name == tag {
			return ObjectType(t)
		}
	}
	return ObjectTypeOther
}

// KnowledgeObject represents an extracted fact, definition, theorem or
// similar unit of knowledge. Immutable once created.
type KnowledgeObject struct {
	// ID is the unique identifier for the object.
	ID string

	// DocumentID links to the document the object was extracted from.
	DocumentID string

	// Name is the human-readable name (e.g. "Peano axioms").
	Name string

	// Type tags the kind of knowledge.
	Type ObjectType

	// ChunkStart and ChunkEnd delimit the inclusive range of active
	// chunk ordinals the object was extracted from. ChunkStart <= ChunkEnd.
	ChunkStart int
	ChunkEnd   int

	// Orphaned marks objects whose chunk range refers to a deactivated
	// chunk set after a forced re-process. Orphaned objects are excluded
	// from assignment and mastery aggregation.
	Orphaned bool

	// CreatedAt is when the object was extracted.
	CreatedAt time.Time
}

// Validate checks structural invariants of the object.
func (o *KnowledgeObject) Validate() error {
	if o.Name == "" {
		return fmt.Errorf("%w: knowledge object requires a name", ErrInvalidInput)
	}
	if o.DocumentID == "" {
		return fmt.Errorf("%w: knowledge object requires a document", ErrInvalidInput)
	}
	if o.ChunkStart < 0 || o.ChunkEnd < o.ChunkStart {
		return fmt.Errorf("%w: chunk range [%d, %d]", ErrInvalidInput, o.ChunkStart, o.ChunkEnd)
	}
	if !o.Type.IsValid() {
		return fmt.Errorf("%w: object type %d", ErrInvalidInput, int(o.Type))
	}
	return nil
}

// Covers reports whether the object's chunk range contains the ordinal.
func (o *KnowledgeObject) Covers(ordinal int) bool {
	return ordinal >= o.ChunkStart && ordinal <= o.ChunkEnd
}
