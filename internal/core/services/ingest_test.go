package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
	"github.com/custodia-labs/ainki-cli/internal/core/ports/driven"
)

type ingestFixture struct {
	svc     *IngestService
	docs    *mockDocumentStore
	chunks  *mockChunkStore
	objects *mockObjectStore
}

func newIngestFixture(t *testing.T, extractor driven.Extractor, opts ...IngestOption) *ingestFixture {
	t.Helper()
	f := &ingestFixture{
		docs:    newMockDocumentStore(),
		chunks:  newMockChunkStore(),
		objects: newMockObjectStore(),
	}
	f.svc = NewIngestService(
		f.docs, f.chunks, f.objects,
		fixedChunker{size: 4},
		[]driven.LayoutParser{rawPagesParser{}},
		extractor,
		opts...,
	)
	return f
}

func TestIngestChunksAndAligns(t *testing.T) {
	f := newIngestFixture(t, nil)
	ctx := context.Background()

	// Two four-byte pages; the fixed chunker cuts matching chunks.
	text := "aaaabbbb"
	layout := []byte("aaaa\fbbbb")

	result, err := f.svc.Ingest(ctx, "notes", "math", text, layout, "raw", false)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Chunks)
	assert.Equal(t, 2, result.Pages)
	assert.Equal(t, 0, result.Objects)

	chunks, err := f.chunks.GetChunks(ctx, result.DocumentID)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	for i, c := range chunks {
		assert.Equal(t, i, c.Ordinal)
		assert.Equal(t, "raw", c.ReaderTag)
		require.NotNil(t, c.PageIndex)
		assert.Equal(t, i, *c.PageIndex)
	}

	doc, err := f.docs.GetDocument(ctx, result.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, "notes", doc.Name)
	assert.Equal(t, "math", doc.Folder)
}

func TestIngestUnsupportedLayout(t *testing.T) {
	f := newIngestFixture(t, nil)
	_, err := f.svc.Ingest(context.Background(), "notes", "", "text", nil, "pdf", false)
	assert.ErrorIs(t, err, domain.ErrUnsupportedLayout)
}

func TestIngestRequiresName(t *testing.T) {
	f := newIngestFixture(t, nil)
	_, err := f.svc.Ingest(context.Background(), "", "", "text", nil, "raw", false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestExtractsObjectsInBatches(t *testing.T) {
	extractor := &mockExtractor{
		objects: []driven.ExtractedObject{
			{Name: "group", TypeTag: "definition", ChunkStart: 0, ChunkEnd: 1},
			{Name: "lagrange", TypeTag: "theorem", ChunkStart: 2, ChunkEnd: 2},
		},
	}
	f := newIngestFixture(t, extractor, WithExtractionBatch(2))
	ctx := context.Background()

	// Three chunks from twelve bytes, batch size two: two calls.
	result, err := f.svc.Ingest(ctx, "notes", "", "aaaabbbbcccc", []byte("aaaabbbbcccc"), "raw", false)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Chunks)
	assert.Equal(t, 2, result.Objects)
	assert.Equal(t, 2, extractor.calls)

	objs, err := f.objects.ListObjects(ctx, result.DocumentID)
	require.NoError(t, err)
	require.Len(t, objs, 2)
	for _, obj := range objs {
		switch obj.Name {
		case "group":
			assert.Equal(t, domain.ObjectTypeDefinition, obj.Type)
		case "lagrange":
			assert.Equal(t, domain.ObjectTypeTheorem, obj.Type)
		default:
			t.Fatalf("unexpected object %q", obj.Name)
		}
	}
}

func TestIngestClampsExtractorOrdinals(t *testing.T) {
	extractor := &mockExtractor{
		objects: []driven.ExtractedObject{
			{Name: "runaway", TypeTag: "lemma", ChunkStart: -3, ChunkEnd: 99},
		},
	}
	f := newIngestFixture(t, extractor)
	ctx := context.Background()

	result, err := f.svc.Ingest(ctx, "notes", "", "aaaabbbb", []byte("aaaabbbb"), "raw", false)
	require.NoError(t, err)

	objs, err := f.objects.ListObjects(ctx, result.DocumentID)
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, 0, objs[0].ChunkStart)
	assert.Equal(t, 1, objs[0].ChunkEnd)
}

func TestIngestRefusesReprocessWithObjects(t *testing.T) {
	extractor := &mockExtractor{
		objects: []driven.ExtractedObject{
			{Name: "group", TypeTag: "definition", ChunkStart: 0, ChunkEnd: 0},
		},
	}
	f := newIngestFixture(t, extractor)
	ctx := context.Background()

	_, err := f.svc.Ingest(ctx, "notes", "", "aaaa", []byte("aaaa"), "raw", false)
	require.NoError(t, err)

	extractor.calls = 0
	_, err = f.svc.Ingest(ctx, "notes", "", "aaaa", []byte("aaaa"), "raw", false)
	assert.ErrorIs(t, err, domain.ErrObjectsExist)
	assert.Equal(t, 0, extractor.calls, "refused re-process must not reach the extractor")
}

func TestIngestForceOrphansAndDeactivates(t *testing.T) {
	extractor := &mockExtractor{
		objects: []driven.ExtractedObject{
			{Name: "group", TypeTag: "definition", ChunkStart: 0, ChunkEnd: 0},
		},
	}
	f := newIngestFixture(t, extractor)
	ctx := context.Background()

	first, err := f.svc.Ingest(ctx, "notes", "", "aaaa", []byte("aaaa"), "raw", false)
	require.NoError(t, err)

	extractor.calls = 0
	second, err := f.svc.Ingest(ctx, "notes", "", "xxxxyyyy", []byte("xxxxyyyy"), "raw", true)
	require.NoError(t, err)
	assert.Equal(t, first.DocumentID, second.DocumentID, "same name keeps the document record")

	// Old objects are orphaned, not listed.
	objs, err := f.objects.ListObjects(ctx, second.DocumentID)
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, 0, objs[0].ChunkStart)

	// Only the replacement chunk set is active.
	chunks, err := f.chunks.GetChunks(ctx, second.DocumentID)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	for _, c := range chunks {
		assert.True(t, strings.HasPrefix(c.Content, "xxxx") || strings.HasPrefix(c.Content, "yyyy"))
	}
}

func TestIngestReprocessWithoutObjects(t *testing.T) {
	f := newIngestFixture(t, nil)
	ctx := context.Background()

	first, err := f.svc.Ingest(ctx, "notes", "old", "aaaa", []byte("aaaa"), "raw", false)
	require.NoError(t, err)

	// No objects reference the chunks, so no force is needed.
	second, err := f.svc.Ingest(ctx, "notes", "new", "bbbb", []byte("bbbb"), "raw", false)
	require.NoError(t, err)
	assert.Equal(t, first.DocumentID, second.DocumentID)

	doc, err := f.docs.GetDocument(ctx, second.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, "new", doc.Folder)
}

func TestIngestDropsMalformedExtractedObjects(t *testing.T) {
	extractor := &mockExtractor{
		objects: []driven.ExtractedObject{
			{Name: "", TypeTag: "definition", ChunkStart: 0, ChunkEnd: 0},
			{Name: "kept", TypeTag: "unheard-of", ChunkStart: 0, ChunkEnd: 0},
		},
	}
	f := newIngestFixture(t, extractor)
	ctx := context.Background()

	result, err := f.svc.Ingest(ctx, "notes", "", "aaaa", []byte("aaaa"), "raw", false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Objects)
}

func TestIngestVerificationRejectsMismatch(t *testing.T) {
	f := newIngestFixture(t, nil, WithVerification())
	// Chunker output cannot be found in the layout text.
	_, err := f.svc.Ingest(context.Background(), "notes", "", "aaaabbbb", []byte("zzzz"), "raw", false)
	assert.ErrorIs(t, err, domain.ErrAlignmentMismatch)
}
