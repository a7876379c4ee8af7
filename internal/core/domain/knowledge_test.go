package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectTypeRoundTrip(t *testing.T) {
	for i := 0; i < len(objectTypeNames); i++ {
		typ := ObjectType(i)
		require.True(t, typ.IsValid())

		text, err := typ.MarshalText()
		require.NoError(t, err)

		var parsed ObjectType
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, typ, parsed)
	}
}

func TestParseObjectTypeUnknownTagCollapsesToOther(t *testing.T) {
	assert.Equal(t, ObjectTypeOther, ParseObjectType("remark"))
	assert.Equal(t, ObjectTypeOther, ParseObjectType(""))
	assert.Equal(t, ObjectTypeTheorem, ParseObjectType("theorem"))
}

func TestObjectTypeInvalid(t *testing.T) {
	typ := ObjectType(99)
	assert.False(t, typ.IsValid())
	assert.Equal(t, "ObjectType(99)", typ.String())

	_, err := typ.MarshalText()
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestKnowledgeObjectValidate(t *testing.T) {
	valid := KnowledgeObject{
		ID:         "obj-1",
		DocumentID: "doc-1",
		Name:       "Peano axioms",
		Type:       ObjectTypeAxiom,
		ChunkStart: 3,
		ChunkEnd:   5,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*KnowledgeObject)
	}{
		{"empty name", func(o *KnowledgeObject) { o.Name = "" }},
		{"empty document", func(o *KnowledgeObject) { o.DocumentID = "" }},
		{"negative start", func(o *KnowledgeObject) { o.ChunkStart = -1 }},
		{"end before start", func(o *KnowledgeObject) { o.ChunkEnd = o.ChunkStart - 1 }},
		{"invalid type", func(o *KnowledgeObject) { o.Type = ObjectType(42) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := valid
			tt.mutate(&obj)
			assert.ErrorIs(t, obj.Validate(), ErrInvalidInput)
		})
	}
}

func TestKnowledgeObjectCovers(t *testing.T) {
	obj := KnowledgeObject{ChunkStart: 3, ChunkEnd: 5}
	assert.False(t, obj.Covers(2))
	assert.True(t, obj.Covers(3))
	assert.True(t, obj.Covers(4))
	assert.True(t, obj.Covers(5))
	assert.False(t, obj.Covers(6))
}
