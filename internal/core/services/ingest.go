package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
	"github.com/custodia-labs/ainki-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ainki-cli/internal/core/ports/driving"
	"github.com/custodia-labs/ainki-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// DefaultExtractionBatch is the number of chunks sent to the extraction
// backend per call.
const DefaultExtractionBatch = 10

// IngestService runs the upload pipeline: chunk the text, align chunks
// onto the layout's pages, persist the active chunk set, and extract
// knowledge objects.
type IngestService struct {
	docs      driven.DocumentStore
	chunks    driven.ChunkStore
	objects   driven.ObjectStore
	chunker   driven.Chunker
	layouts   map[string]driven.LayoutParser
	extractor driven.Extractor

	extractionBatch int
	verify          bool
	now             func() time.Time
}

// IngestOption configures the ingest service.
type IngestOption func(*IngestService)

// WithExtractionBatch sets how many chunks go into one extraction call.
func WithExtractionBatch(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.extractionBatch = n
		}
	}
}

// WithVerification makes ingestion verify that every chunk can be
// located in the reconstructed layout text before aligning. Only
// meaningful when chunks are cut from the same normalised text the
// layout parser reproduces.
func WithVerification() IngestOption {
	return func(s *IngestService) {
		s.verify = true
	}
}

// NewIngestService creates an ingest service. The extractor may be nil;
// ingestion then stops after chunking and alignment. Layout parsers are
// keyed by their reader tag.
func NewIngestService(
	docs driven.DocumentStore,
	chunks driven.ChunkStore,
	objects driven.ObjectStore,
	chunker driven.Chunker,
	parsers []driven.LayoutParser,
	extractor driven.Extractor,
	opts ...IngestOption,
) *IngestService {
	layouts := make(map[string]driven.LayoutParser, len(parsers))
	for _, p := range parsers {
		layouts[p.Name()] = p
	}

	s := &IngestService{
		docs:            docs,
		chunks:          chunks,
		objects:         objects,
		chunker:         chunker,
		layouts:         layouts,
		extractor:       extractor,
		extractionBatch: DefaultExtractionBatch,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest processes a document's text against the layout output of the
// named extraction backend.
//
// Re-processing is refused while knowledge objects reference the
// document's current chunk set, unless force is set: then prior chunks
// are deactivated and the objects marked orphaned instead of silently
// pointing into a replaced chunk set. The caller serialises mutation
// per document.
func (s *IngestService) Ingest(ctx context.Context, name, folder, text string, layout []byte, readerTag string, force bool) (*driving.IngestResult, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: document name required", domain.ErrInvalidInput)
	}
	parser, ok := s.layouts[readerTag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedLayout, readerTag)
	}

	pages, err := parser.Pages(layout)
	if err != nil {
		return nil, fmt.Errorf("parsing %s layout: %w", readerTag, err)
	}

	doc, err := s.prepareDocument(ctx, name, folder, force)
	if err != nil {
		return nil, err
	}

	contents := s.chunker.Chunk(text)
	if s.verify {
		if err := VerifyChunks(contents, pages); err != nil {
			return nil, err
		}
	}
	indices, err := AlignChunks(contents, pages)
	if err != nil {
		return nil, err
	}

	chunkSet := make([]domain.Chunk, len(contents))
	for i, content := range contents {
		page := indices[i]
		chunkSet[i] = domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Ordinal:    i,
			PageIndex:  &page,
			Content:    content,
			ReaderTag:  readerTag,
			Active:     true,
		}
	}

	inserted, err := s.chunks.InsertChunks(ctx, chunkSet)
	if err != nil {
		return nil, fmt.Errorf("inserting chunks: %w", err)
	}
	logger.Info("document %s: %d chunks across %d pages", name, inserted, len(pages))

	objectCount := 0
	if s.extractor != nil {
		objectCount, err = s.extractObjects(ctx, doc.ID, contents)
		if err != nil {
			return nil, err
		}
		logger.Info("document %s: %d knowledge objects extracted", name, objectCount)
	}

	return &driving.IngestResult{
		DocumentID: doc.ID,
		Chunks:     inserted,
		Pages:      len(pages),
		Objects:    objectCount,
	}, nil
}

// prepareDocument creates the document record, or readies an existing
// one for re-processing.
func (s *IngestService) prepareDocument(ctx context.Context, name, folder string, force bool) (*domain.Document, error) {
	now := s.now().UTC()

	doc, err := s.docs.GetDocumentByName(ctx, name)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("looking up document %q: %w", name, err)
	}

	if doc == nil {
		doc = &domain.Document{
			ID:        uuid.New().String(),
			Name:      name,
			Folder:    folder,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.docs.SaveDocument(ctx, doc); err != nil {
			return nil, fmt.Errorf("saving document: %w", err)
		}
		return doc, nil
	}

	count, err := s.objects.CountObjects(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("counting objects: %w", err)
	}
	if count > 0 {
		if !force {
			return nil, fmt.Errorf("%w: document %q has %d objects", domain.ErrObjectsExist, name, count)
		}
		if err := s.objects.OrphanObjects(ctx, doc.ID); err != nil {
			return nil, fmt.Errorf("orphaning objects: %w", err)
		}
		logger.Warn("document %s: %d knowledge objects orphaned by re-processing", name, count)
	}

	if err := s.chunks.DeactivateChunks(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("deactivating chunks: %w", err)
	}

	doc.Folder = folder
	doc.UpdatedAt = now
	if err := s.docs.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}
	return doc, nil
}

// extractObjects runs the extraction backend over the chunk contents in
// batches and persists the results.
func (s *IngestService) extractObjects(ctx context.Context, documentID string, contents []string) (int, error) {
	created := 0
	for start := 0; start < len(contents); start += s.extractionBatch {
		end := start + s.extractionBatch
		if end > len(contents) {
			end = len(contents)
		}

		extracted, err := s.extractor.ExtractObjects(ctx, contents[start:end], start)
		if err != nil {
			return created, fmt.Errorf("extracting objects from chunks %d..%d: %w", start, end-1, err)
		}

		for _, ext := range extracted {
			obj := &domain.KnowledgeObject{
				ID:         uuid.New().String(),
				DocumentID: documentID,
				Name:       ext.Name,
				Type:       domain.ParseObjectType(ext.TypeTag),
				ChunkStart: clampOrdinal(ext.ChunkStart, len(contents)),
				ChunkEnd:   clampOrdinal(ext.ChunkEnd, len(contents)),
				CreatedAt:  s.now().UTC(),
			}
			if obj.ChunkEnd < obj.ChunkStart {
				obj.ChunkEnd = obj.ChunkStart
			}
			if err := obj.Validate(); err != nil {
				logger.Warn("dropping malformed extracted object %q: %v", ext.Name, err)
				continue
			}
			if err := s.objects.SaveObject(ctx, obj); err != nil {
				return created, fmt.Errorf("saving object %q: %w", obj.Name, err)
			}
			created++
		}
	}
	return created, nil
}

// clampOrdinal bounds an extractor-reported ordinal into the valid
// range for the chunk set.
func clampOrdinal(ordinal, chunkCount int) int {
	if ordinal < 0 {
		return 0
	}
	if ordinal >= chunkCount {
		return chunkCount - 1
	}
	return ordinal
}
