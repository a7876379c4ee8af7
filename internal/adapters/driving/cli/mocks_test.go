package cli

import (
	"context"
	"time"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
	"github.com/custodia-labs/ainki-cli/internal/core/ports/driving"
)

// Mock services for command tests. setupTestServices wires a fixed
// fixture into the package-level service vars and returns a cleanup
// that restores the unconfigured state.

type mockIngestService struct {
	lastName   string
	lastReader string
	lastForce  bool
	err        error
}

func (m *mockIngestService) Ingest(_ context.Context, name, _, _ string, _ []byte, readerTag string, force bool) (*driving.IngestResult, error) {
	m.lastName = name
	m.lastReader = readerTag
	m.lastForce = force
	if m.err != nil {
		return nil, m.err
	}
	return &driving.IngestResult{DocumentID: "doc-1", Chunks: 12, Pages: 3, Objects: 4}, nil
}

type mockReviewService struct {
	items []driving.PendingItem

	answeredObject string
	answeredUser   string
	answeredResult bool
}

func (m *mockReviewService) Pending(_ context.Context, userID *string) ([]driving.PendingItem, error) {
	return m.items, nil
}

func (m *mockReviewService) Answer(_ context.Context, objectID, userID string, correct bool) (*domain.RepetitionState, error) {
	m.answeredObject = objectID
	m.answeredUser = userID
	m.answeredResult = correct
	return &domain.RepetitionState{
		ObjectID:   objectID,
		UserID:     userID,
		Level:      2,
		NextReview: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}, nil
}

func (m *mockReviewService) NextQuestion(_ context.Context, _ string) (*domain.ReviewQuestion, bool, error) {
	return nil, false, nil
}

type mockProgressService struct {
	lastUser     string
	lastDocument string
	lastOrdinal  int
	created      int
}

func (m *mockProgressService) Assign(_ context.Context, userID, documentID string, ordinal int) (int, error) {
	m.lastUser = userID
	m.lastDocument = documentID
	m.lastOrdinal = ordinal
	return m.created, nil
}

type mockMasteryService struct {
	chunkValues []float64
	pageValues  []float64
	err         error
}

func (m *mockMasteryService) ChunkMastery(_ context.Context, _, _ string) ([]float64, error) {
	return m.chunkValues, m.err
}

func (m *mockMasteryService) PageMastery(_ context.Context, _, _ string) ([]float64, error) {
	return m.pageValues, m.err
}

type mockDocumentStore struct {
	docs []domain.Document
}

func (m *mockDocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	m.docs = append(m.docs, *doc)
	return nil
}

func (m *mockDocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	for i := range m.docs {
		if m.docs[i].ID == id {
			return &m.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentStore) GetDocumentByName(_ context.Context, name string) (*domain.Document, error) {
	for i := range m.docs {
		if m.docs[i].Name == name {
			return &m.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	return m.docs, nil
}

type mockUserStore struct {
	users []domain.User
}

func (m *mockUserStore) SaveUser(_ context.Context, user *domain.User) error {
	for i := range m.users {
		if m.users[i].Username == user.Username {
			return domain.ErrAlreadyExists
		}
	}
	m.users = append(m.users, *user)
	return nil
}

func (m *mockUserStore) GetUser(_ context.Context, id string) (*domain.User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			return &m.users[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserStore) GetUserByName(_ context.Context, name string) (*domain.User, error) {
	for i := range m.users {
		if m.users[i].Username == name || m.users[i].Email == name {
			return &m.users[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserStore) ListUsers(_ context.Context) ([]domain.User, error) {
	return m.users, nil
}

type mockChunkStore struct {
	maxOrdinal int
	page       int
	pageErr    error
}

func (m *mockChunkStore) InsertChunks(_ context.Context, chunks []domain.Chunk) (int, error) {
	return len(chunks), nil
}

func (m *mockChunkStore) GetChunks(_ context.Context, _ string) ([]domain.Chunk, error) {
	return nil, nil
}

func (m *mockChunkStore) GetRange(_ context.Context, _ string, _, _ int) ([]domain.Chunk, error) {
	return nil, nil
}

func (m *mockChunkStore) DeactivateChunks(_ context.Context, _ string) error {
	return nil
}

func (m *mockChunkStore) MaxOrdinal(_ context.Context, _ string) (int, error) {
	return m.maxOrdinal, nil
}

func (m *mockChunkStore) PageOfChunk(_ context.Context, _ string, _ int) (int, error) {
	return m.page, m.pageErr
}

// testFixture holds the mocks wired by setupTestServices.
type testFixture struct {
	ingest   *mockIngestService
	review   *mockReviewService
	progress *mockProgressService
	mastery  *mockMasteryService
	docs     *mockDocumentStore
	users    *mockUserStore
	chunks   *mockChunkStore
}

func setupTestServices() (*testFixture, func()) {
	f := &testFixture{
		ingest:   &mockIngestService{},
		progress: &mockProgressService{},
		review: &mockReviewService{
			items: []driving.PendingItem{
				{
					ObjectID:   "obj-1",
					Name:       "Peano axioms",
					Type:       domain.ObjectTypeDefinition,
					Level:      1,
					ChunkStart: 3,
					ChunkEnd:   5,
					NextReview: time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC),
				},
			},
		},
		mastery: &mockMasteryService{
			chunkValues: []float64{0, 1.5, 3},
			pageValues:  []float64{0.5, 1},
		},
		docs: &mockDocumentStore{
			docs: []domain.Document{
				{ID: "doc-1", Name: "Analysis I", Folder: "/tmp/books",
					CreatedAt: time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)},
			},
		},
		users: &mockUserStore{
			users: []domain.User{
				{ID: "user-1", Username: "terry", Email: "terry@example.com"},
			},
		},
		chunks: &mockChunkStore{maxOrdinal: 11, page: 2},
	}

	SetServices(&Services{
		Ingest:    f.ingest,
		Review:    f.review,
		Progress:  f.progress,
		Mastery:   f.mastery,
		Documents: f.docs,
		Users:     f.users,
		Chunks:    f.chunks,
	})

	return f, func() {
		ingestService = nil
		reviewService = nil
		progressService = nil
		masteryService = nil
		documentStore = nil
		userStore = nil
		chunkStore = nil
	}
}
