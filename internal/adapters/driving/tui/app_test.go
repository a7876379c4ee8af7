package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
	"github.com/custodia-labs/ainki-cli/internal/core/ports/driving"
)

// mockReviewService records calls for session tests.
type mockReviewService struct {
	items    []driving.PendingItem
	question *domain.ReviewQuestion

	answered   []string
	answerArgs []bool
}

func (m *mockReviewService) Pending(_ context.Context, _ *string) ([]driving.PendingItem, error) {
	return m.items, nil
}

func (m *mockReviewService) Answer(_ context.Context, objectID, _ string, correct bool) (*domain.RepetitionState, error) {
	m.answered = append(m.answered, objectID)
	m.answerArgs = append(m.answerArgs, correct)
	return &domain.RepetitionState{ObjectID: objectID, Level: 1}, nil
}

func (m *mockReviewService) NextQuestion(_ context.Context, _ string) (*domain.ReviewQuestion, bool, error) {
	if m.question == nil {
		return nil, false, nil
	}
	return m.question, true, nil
}

func newSessionApp(t *testing.T, svc *mockReviewService) *App {
	t.Helper()
	app, err := NewApp(&Ports{Review: svc}, "user-1")
	require.NoError(t, err)
	return app
}

func pendingItems() []driving.PendingItem {
	return []driving.PendingItem{
		{ObjectID: "obj-1", Name: "Peano axioms", Type: domain.ObjectTypeDefinition, Level: 1,
			Context: "The natural numbers are defined by the Peano axioms.",
			NextReview: time.Now().Add(-time.Hour)},
		{ObjectID: "obj-2", Name: "Induction", Type: domain.ObjectTypeTheorem, Level: 0,
			Context: "Proof by induction proceeds from a base case.",
			NextReview: time.Now().Add(-time.Minute)},
	}
}

func TestNewAppRequiresServiceAndUser(t *testing.T) {
	_, err := NewApp(nil, "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewApp(&Ports{}, "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewApp(&Ports{Review: &mockReviewService{}}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSessionShowsFirstItem(t *testing.T) {
	svc := &mockReviewService{items: pendingItems()}
	app := newSessionApp(t, svc)

	model, _ := app.Update(pendingLoadedMsg{items: svc.items})
	view := model.View()

	assert.Contains(t, view, "Peano axioms")
	assert.Contains(t, view, "Item 1 of 2")
	assert.Contains(t, view, "[space] Reveal")
}

func TestSessionRevealShowsExcerpt(t *testing.T) {
	svc := &mockReviewService{items: pendingItems()}
	app := newSessionApp(t, svc)
	app.Update(pendingLoadedMsg{items: svc.items})

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeySpace})
	view := model.View()

	assert.Contains(t, view, "defined by the Peano axioms")
	assert.Contains(t, view, "[y] Correct")
}

func TestSessionAnswerAdvances(t *testing.T) {
	svc := &mockReviewService{items: pendingItems()}
	app := newSessionApp(t, svc)
	app.Update(pendingLoadedMsg{items: svc.items})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	require.NotNil(t, cmd)

	model, _ := app.Update(cmd())
	require.Equal(t, []string{"obj-1"}, svc.answered)
	require.Equal(t, []bool{true}, svc.answerArgs)

	view := model.View()
	assert.Contains(t, view, "Item 2 of 2")
	assert.Contains(t, view, "Induction")
}

func TestSessionCompletesWithSummary(t *testing.T) {
	svc := &mockReviewService{items: pendingItems()[:1]}
	app := newSessionApp(t, svc)
	app.Update(pendingLoadedMsg{items: svc.items})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	require.NotNil(t, cmd)
	model, _ := app.Update(cmd())

	view := model.View()
	assert.Contains(t, view, "Session complete")
	assert.Contains(t, view, "1 reviewed, 0 correct")
}

func TestSessionSkipDoesNotAnswer(t *testing.T) {
	svc := &mockReviewService{items: pendingItems()}
	app := newSessionApp(t, svc)
	app.Update(pendingLoadedMsg{items: svc.items})

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})

	assert.Empty(t, svc.answered)
	assert.Contains(t, model.View(), "Item 2 of 2")
}

func TestSessionShowsGeneratedQuestion(t *testing.T) {
	svc := &mockReviewService{
		items: pendingItems(),
		question: &domain.ReviewQuestion{
			Type: domain.QuestionCuedRecall,
			Text: "Which axiom rules out loops in the naturals?",
		},
	}
	app := newSessionApp(t, svc)
	app.Update(pendingLoadedMsg{items: svc.items})

	model, _ := app.Update(questionMsg{question: svc.question, asked: true})

	assert.Contains(t, model.View(), "Which axiom rules out loops")
}

func TestSessionEmptyQueue(t *testing.T) {
	svc := &mockReviewService{}
	app := newSessionApp(t, svc)

	model, _ := app.Update(pendingLoadedMsg{})

	assert.Contains(t, model.View(), "Nothing due")
}
