package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
	"github.com/custodia-labs/ainki-cli/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// mockDocumentStore implements driven.DocumentStore for testing.
type mockDocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*domain.Document
}

func newMockDocumentStore() *mockDocumentStore {
	return &mockDocumentStore{docs: make(map[string]*domain.Document)}
}

func (m *mockDocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc == nil {
		return domain.ErrInvalidInput
	}
	docCopy := *doc
	m.docs[doc.ID] = &docCopy
	return nil
}

func (m *mockDocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	docCopy := *doc
	return &docCopy, nil
}

func (m *mockDocumentStore) GetDocumentByName(_ context.Context, name string) (*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, doc := range m.docs {
		if doc.Name == name {
			docCopy := *doc
			return &docCopy, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	docs := make([]domain.Document, 0, len(m.docs))
	for _, doc := range m.docs {
		docs = append(docs, *doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].CreatedAt.Before(docs[j].CreatedAt) })
	return docs, nil
}

// mockChunkStore implements driven.ChunkStore for testing.
type mockChunkStore struct {
	mu     sync.RWMutex
	chunks []domain.Chunk
}

func newMockChunkStore() *mockChunkStore {
	return &mockChunkStore{}
}

func (m *mockChunkStore) InsertChunks(_ context.Context, chunks []domain.Chunk) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = append(m.chunks, chunks...)
	return len(chunks), nil
}

func (m *mockChunkStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Chunk
	for _, c := range m.chunks {
		if c.DocumentID == documentID && c.Active {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ordinal < out[j].Ordinal })
	return out, nil
}

func (m *mockChunkStore) GetRange(ctx context.Context, documentID string, start, end int) ([]domain.Chunk, error) {
	all, err := m.GetChunks(ctx, documentID)
	if err != nil {
		return nil, err
	}
	var out []domain.Chunk
	for _, c := range all {
		if c.Ordinal >= start && c.Ordinal <= end {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockChunkStore) DeactivateChunks(_ context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.chunks {
		if m.chunks[i].DocumentID == documentID {
			m.chunks[i].Active = false
		}
	}
	return nil
}

func (m *mockChunkStore) MaxOrdinal(ctx context.Context, documentID string) (int, error) {
	all, err := m.GetChunks(ctx, documentID)
	if err != nil {
		return 0, err
	}
	if len(all) == 0 {
		return 0, domain.ErrNotFound
	}
	return all[len(all)-1].Ordinal, nil
}

func (m *mockChunkStore) PageOfChunk(ctx context.Context, documentID string, ordinal int) (int, error) {
	all, err := m.GetChunks(ctx, documentID)
	if err != nil {
		return 0, err
	}
	for _, c := range all {
		if c.Ordinal == ordinal {
			if c.PageIndex == nil {
				return 0, domain.ErrMissingPageMapping
			}
			return *c.PageIndex, nil
		}
	}
	return 0, domain.ErrNotFound
}

// addChunks seeds n active aligned chunks of the given content.
func (m *mockChunkStore) addChunks(documentID string, contents []string, pageIndices []int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, content := range contents {
		chunk := domain.Chunk{
			ID:         fmt.Sprintf("%s-chunk-%d", documentID, i),
			DocumentID: documentID,
			Ordinal:    i,
			Content:    content,
			Active:     true,
		}
		if pageIndices != nil {
			page := pageIndices[i]
			chunk.PageIndex = &page
		}
		m.chunks = append(m.chunks, chunk)
	}
}

// mockObjectStore implements driven.ObjectStore for testing.
type mockObjectStore struct {
	mu      sync.RWMutex
	objects map[string]*domain.KnowledgeObject
}

func newMockObjectStore() *mockObjectStore {
	return &mockObjectStore{objects: make(map[string]*domain.KnowledgeObject)}
}

func (m *mockObjectStore) SaveObject(_ context.Context, obj *domain.KnowledgeObject) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if obj == nil {
		return domain.ErrInvalidInput
	}
	objCopy := *obj
	m.objects[obj.ID] = &objCopy
	return nil
}

func (m *mockObjectStore) GetObject(_ context.Context, id string) (*domain.KnowledgeObject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	objCopy := *obj
	return &objCopy, nil
}

func (m *mockObjectStore) ListObjects(_ context.Context, documentID string) ([]domain.KnowledgeObject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.KnowledgeObject
	for _, obj := range m.objects {
		if obj.DocumentID == documentID && !obj.Orphaned {
			out = append(out, *obj)
		}
	}
	return out, nil
}

func (m *mockObjectStore) ListObjectsEndingBy(_ context.Context, documentID string, ordinal int) ([]domain.KnowledgeObject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.KnowledgeObject
	for _, obj := range m.objects {
		if obj.DocumentID == documentID && !obj.Orphaned && obj.ChunkEnd <= ordinal {
			out = append(out, *obj)
		}
	}
	return out, nil
}

func (m *mockObjectStore) CountObjects(ctx context.Context, documentID string) (int, error) {
	objs, err := m.ListObjects(ctx, documentID)
	if err != nil {
		return 0, err
	}
	return len(objs), nil
}

func (m *mockObjectStore) OrphanObjects(_ context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, obj := range m.objects {
		if obj.DocumentID == documentID {
			obj.Orphaned = true
		}
	}
	return nil
}

// mockRepetitionStore implements driven.RepetitionStore for testing.
// It honours the same merge and transition contracts as the SQLite store.
type mockRepetitionStore struct {
	mu      sync.Mutex
	states  map[string]*domain.RepetitionState
	objects *mockObjectStore
}

func newMockRepetitionStore(objects *mockObjectStore) *mockRepetitionStore {
	return &mockRepetitionStore{
		states:  make(map[string]*domain.RepetitionState),
		objects: objects,
	}
}

func stateKey(objectID, userID string) string {
	return objectID + "|" + userID
}

func (m *mockRepetitionStore) Merge(_ context.Context, state *domain.RepetitionState, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := stateKey(state.ObjectID, state.UserID)
	if existing, ok := m.states[key]; ok {
		existing.LastReviewed = now
		return false, nil
	}
	stateCopy := *state
	stateCopy.LastReviewed = time.Time{}
	m.states[key] = &stateCopy
	return true, nil
}

func (m *mockRepetitionStore) Answer(_ context.Context, objectID, userID string, correct bool, cfg domain.ReviewConfig, now time.Time) (*domain.RepetitionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.states[stateKey(objectID, userID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	state.Level = cfg.NextLevel(state.Level, correct)
	state.LastReviewed = now
	state.NextReview = now.Add(cfg.Interval(state.Level))
	stateCopy := *state
	return &stateCopy, nil
}

func (m *mockRepetitionStore) GetState(_ context.Context, objectID, userID string) (*domain.RepetitionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.states[stateKey(objectID, userID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	stateCopy := *state
	return &stateCopy, nil
}

func (m *mockRepetitionStore) ListPending(ctx context.Context, userID *string, now time.Time) ([]driven.PendingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []driven.PendingRecord
	for _, state := range m.states {
		if !state.NextReview.Before(now) {
			continue
		}
		if userID != nil && state.UserID != *userID {
			continue
		}
		obj, err := m.objects.GetObject(ctx, state.ObjectID)
		if err != nil {
			return nil, err
		}
		if obj.Orphaned {
			continue
		}
		out = append(out, driven.PendingRecord{Object: *obj, State: *state})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].State.NextReview.Before(out[j].State.NextReview) })
	return out, nil
}

func (m *mockRepetitionStore) ListAssigned(ctx context.Context, userID, documentID string) ([]driven.PendingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []driven.PendingRecord
	for _, state := range m.states {
		if state.UserID != userID {
			continue
		}
		obj, err := m.objects.GetObject(ctx, state.ObjectID)
		if err != nil {
			return nil, err
		}
		if obj.DocumentID != documentID || obj.Orphaned {
			continue
		}
		out = append(out, driven.PendingRecord{Object: *obj, State: *state})
	}
	return out, nil
}

// mockQuestionStore implements driven.QuestionStore for testing.
type mockQuestionStore struct {
	mu        sync.Mutex
	questions map[string]*domain.ReviewQuestion
}

func newMockQuestionStore() *mockQuestionStore {
	return &mockQuestionStore{questions: make(map[string]*domain.ReviewQuestion)}
}

func (m *mockQuestionStore) SaveQuestion(_ context.Context, q *domain.ReviewQuestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	qCopy := *q
	m.questions[q.ID] = &qCopy
	return nil
}

func (m *mockQuestionStore) ListQuestions(_ context.Context, objectID string) ([]domain.ReviewQuestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ReviewQuestion
	for _, q := range m.questions {
		if q.ObjectID == objectID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (m *mockQuestionStore) CountAskedByType(_ context.Context, objectID string) (map[domain.QuestionType]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[domain.QuestionType]int)
	for _, q := range m.questions {
		if q.ObjectID == objectID {
			counts[q.Type] += q.Asked
		}
	}
	return counts, nil
}

func (m *mockQuestionStore) RecordAsked(_ context.Context, questionID string, correct bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.questions[questionID]
	if !ok {
		return domain.ErrNotFound
	}
	q.Asked++
	if correct {
		q.Correct++
	}
	return nil
}

// mockExtractor implements driven.Extractor for testing.
type mockExtractor struct {
	objects   []driven.ExtractedObject
	question  *domain.ReviewQuestion
	extractErr error
	calls     int
}

func (m *mockExtractor) ExtractObjects(_ context.Context, _ []string, _ int) ([]driven.ExtractedObject, error) {
	m.calls++
	if m.extractErr != nil {
		return nil, m.extractErr
	}
	if m.calls > 1 {
		return nil, nil // Objects only in the first batch
	}
	return m.objects, nil
}

func (m *mockExtractor) GenerateQuestion(_ context.Context, obj *domain.KnowledgeObject, _ string, qt domain.QuestionType) (*domain.ReviewQuestion, error) {
	if m.question != nil {
		return m.question, nil
	}
	return &domain.ReviewQuestion{
		ID:       "q-" + obj.ID,
		ObjectID: obj.ID,
		Type:     qt,
		Text:     "What is " + obj.Name + "?",
	}, nil
}

func (m *mockExtractor) ModelName() string { return "mock" }

func (m *mockExtractor) Close() error { return nil }

// fixedChunker implements driven.Chunker with a fixed stride.
type fixedChunker struct {
	size int
}

func (c fixedChunker) Name() string { return "fixed" }

func (c fixedChunker) Chunk(text string) []string {
	var out []string
	for i := 0; i < len(text); i += c.size {
		end := i + c.size
		if end > len(text) {
			end = len(text)
		}
		out = append(out, text[i:end])
	}
	return out
}

// rawPagesParser implements driven.LayoutParser by splitting raw bytes
// on form feeds.
type rawPagesParser struct{}

func (rawPagesParser) Name() string { return "raw" }

func (rawPagesParser) Pages(raw []byte) ([]string, error) {
	var pages []string
	start := 0
	for i, b := range raw {
		if b == '\f' {
			pages = append(pages, string(raw[start:i]))
			start = i + 1
		}
	}
	if start < len(raw) {
		pages = append(pages, string(raw[start:]))
	}
	return pages, nil
}
