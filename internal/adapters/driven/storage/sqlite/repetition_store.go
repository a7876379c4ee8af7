package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
	"github.com/custodia-labs/ainki-cli/internal/core/ports/driven"
)

// ==================== Repetition Store ====================

// repetitionStore implements driven.RepetitionStore.
// Merge and Answer run inside single transactions so concurrent callers
// always transition from the stored level, never a stale one.
type repetitionStore struct {
	store *Store
}

var _ driven.RepetitionStore = (*repetitionStore)(nil)

// Merge upserts the state for (objectID, userID). New pairs are stored
// as given with a NULL last-reviewed; existing pairs only have their
// last-reviewed advanced so level and next-review survive re-reads.
func (s *repetitionStore) Merge(ctx context.Context, state *domain.RepetitionState, now time.Time) (bool, error) {
	if state == nil || state.ObjectID == "" || state.UserID == "" {
		return false, domain.ErrInvalidInput
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM repetition_states WHERE object_id = ? AND user_id = ?",
		state.ObjectID, state.UserID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking state: %w", err)
	}

	if exists > 0 {
		_, err = tx.ExecContext(ctx,
			"UPDATE repetition_states SET last_reviewed = ? WHERE object_id = ? AND user_id = ?",
			now.UTC(), state.ObjectID, state.UserID)
		if err != nil {
			return false, fmt.Errorf("touching state: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("committing transaction: %w", err)
		}
		return false, nil
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO repetition_states (object_id, user_id, level, last_reviewed, next_review)
		VALUES (?, ?, ?, NULL, ?)
	`, state.ObjectID, state.UserID, state.Level, state.NextReview.UTC())
	if err != nil {
		return false, fmt.Errorf("inserting state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing transaction: %w", err)
	}
	return true, nil
}

// Answer applies a quiz answer as one read-modify-write transaction.
func (s *repetitionStore) Answer(ctx context.Context, objectID, userID string, correct bool, cfg domain.ReviewConfig, now time.Time) (*domain.RepetitionState, error) {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var level int
	err = tx.QueryRowContext(ctx,
		"SELECT level FROM repetition_states WHERE object_id = ? AND user_id = ?",
		objectID, userID).Scan(&level)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reading state: %w", err)
	}

	now = now.UTC()
	level = cfg.NextLevel(level, correct)
	nextReview := now.Add(cfg.Interval(level))

	_, err = tx.ExecContext(ctx, `
		UPDATE repetition_states SET level = ?, last_reviewed = ?, next_review = ?
		WHERE object_id = ? AND user_id = ?
	`, level, now, nextReview, objectID, userID)
	if err != nil {
		return nil, fmt.Errorf("updating state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return &domain.RepetitionState{
		ObjectID:     objectID,
		UserID:       userID,
		Level:        level,
		LastReviewed: now,
		NextReview:   nextReview,
	}, nil
}

// GetState retrieves the state for a pair.
func (s *repetitionStore) GetState(ctx context.Context, objectID, userID string) (*domain.RepetitionState, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT object_id, user_id, level, last_reviewed, next_review
		FROM repetition_states WHERE object_id = ? AND user_id = ?
	`, objectID, userID)

	var state domain.RepetitionState
	var lastReviewed, nextReview sql.NullTime
	if err := row.Scan(&state.ObjectID, &state.UserID, &state.Level, &lastReviewed, &nextReview); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning state: %w", err)
	}

	if lastReviewed.Valid {
		state.LastReviewed = lastReviewed.Time
	}
	if nextReview.Valid {
		state.NextReview = nextReview.Time
	}

	return &state, nil
}

// ListPending returns due records joined with their objects, ordered by
// next-review ascending. Orphaned objects never come up for review.
func (s *repetitionStore) ListPending(ctx context.Context, userID *string, now time.Time) ([]driven.PendingRecord, error) {
	query := `
		SELECT o.id, o.document_id, o.name, o.type, o.chunk_start, o.chunk_end, o.orphaned, o.created_at,
			r.object_id, r.user_id, r.level, r.last_reviewed, r.next_review
		FROM repetition_states r
		JOIN knowledge_objects o ON o.id = r.object_id
		WHERE o.orphaned = 0 AND r.next_review < ?`
	args := []any{now.UTC()}
	if userID != nil {
		query += " AND r.user_id = ?"
		args = append(args, *userID)
	}
	query += " ORDER BY r.next_review"

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying pending states: %w", err)
	}
	defer rows.Close()

	return scanPendingRecords(rows)
}

// ListAssigned returns every record of a user for a document's
// non-orphaned objects.
func (s *repetitionStore) ListAssigned(ctx context.Context, userID, documentID string) ([]driven.PendingRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT o.id, o.document_id, o.name, o.type, o.chunk_start, o.chunk_end, o.orphaned, o.created_at,
			r.object_id, r.user_id, r.level, r.last_reviewed, r.next_review
		FROM repetition_states r
		JOIN knowledge_objects o ON o.id = r.object_id
		WHERE o.document_id = ? AND o.orphaned = 0 AND r.user_id = ?
	`, documentID, userID)
	if err != nil {
		return nil, fmt.Errorf("querying assigned states: %w", err)
	}
	defer rows.Close()

	return scanPendingRecords(rows)
}

// scanPendingRecords scans joined object and state rows.
func scanPendingRecords(rows *sql.Rows) ([]driven.PendingRecord, error) {
	var records []driven.PendingRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec driven.PendingRecord
		var typeTag string
		var objCreatedAt, lastReviewed, nextReview sql.NullTime
		if err := rows.Scan(
			&rec.Object.ID, &rec.Object.DocumentID, &rec.Object.Name, &typeTag,
			&rec.Object.ChunkStart, &rec.Object.ChunkEnd, &rec.Object.Orphaned, &objCreatedAt,
			&rec.State.ObjectID, &rec.State.UserID, &rec.State.Level, &lastReviewed, &nextReview,
		); err != nil {
			return nil, fmt.Errorf("scanning pending record: %w", err)
		}
		rec.Object.Type = domain.ParseObjectType(typeTag)
		if objCreatedAt.Valid {
			rec.Object.CreatedAt = objCreatedAt.Time
		}
		if lastReviewed.Valid {
			rec.State.LastReviewed = lastReviewed.Time
		}
		if nextReview.Valid {
			rec.State.NextReview = nextReview.Time
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pending records: %w", err)
	}

	return records, nil
}

// ==================== Question Store ====================

// questionStore implements driven.QuestionStore.
type questionStore struct {
	store *Store
}

var _ driven.QuestionStore = (*questionStore)(nil)

// SaveQuestion stores a generated question.
func (s *questionStore) SaveQuestion(ctx context.Context, q *domain.ReviewQuestion) error {
	if q == nil || q.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO review_questions (id, object_id, type, text, answer, asked, correct, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			text = excluded.text,
			answer = excluded.answer
	`, q.ID, q.ObjectID, q.Type.String(), q.Text, q.Answer, q.Asked, q.Correct, q.CreatedAt)

	if err != nil {
		return fmt.Errorf("saving question: %w", err)
	}
	return nil
}

// ListQuestions returns the questions of an object.
func (s *questionStore) ListQuestions(ctx context.Context, objectID string) ([]domain.ReviewQuestion, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, object_id, type, text, answer, asked, correct, created_at
		FROM review_questions WHERE object_id = ?
		ORDER BY created_at
	`, objectID)
	if err != nil {
		return nil, fmt.Errorf("querying questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.ReviewQuestion //nolint:prealloc // size unknown from query
	for rows.Next() {
		var q domain.ReviewQuestion
		var typeTag string
		var createdAt sql.NullTime
		if err := rows.Scan(&q.ID, &q.ObjectID, &typeTag, &q.Text, &q.Answer,
			&q.Asked, &q.Correct, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning question: %w", err)
		}
		if err := q.Type.UnmarshalText([]byte(typeTag)); err != nil {
			return nil, fmt.Errorf("parsing question type: %w", err)
		}
		if createdAt.Valid {
			q.CreatedAt = createdAt.Time
		}
		questions = append(questions, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating questions: %w", err)
	}

	return questions, nil
}

// CountAskedByType returns, per question type, how many times questions
// of that type were asked for the object.
func (s *questionStore) CountAskedByType(ctx context.Context, objectID string) (map[domain.QuestionType]int, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT type, SUM(asked) FROM review_questions
		WHERE object_id = ? GROUP BY type
	`, objectID)
	if err != nil {
		return nil, fmt.Errorf("querying asked counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.QuestionType]int)
	for rows.Next() {
		var typeTag string
		var asked int
		if err := rows.Scan(&typeTag, &asked); err != nil {
			return nil, fmt.Errorf("scanning asked count: %w", err)
		}
		var qt domain.QuestionType
		if err := qt.UnmarshalText([]byte(typeTag)); err != nil {
			return nil, fmt.Errorf("parsing question type: %w", err)
		}
		counts[qt] = asked
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating asked counts: %w", err)
	}

	return counts, nil
}

// RecordAsked increments the asked counter, and the correct counter
// when correct is true.
func (s *questionStore) RecordAsked(ctx context.Context, questionID string, correct bool) error {
	inc := 0
	if correct {
		inc = 1
	}
	res, err := s.store.db.ExecContext(ctx,
		"UPDATE review_questions SET asked = asked + 1, correct = correct + ? WHERE id = ?",
		inc, questionID)
	if err != nil {
		return fmt.Errorf("recording answer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
