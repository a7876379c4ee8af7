// Package tui implements the interactive review session.
//
// The session walks the user's due items one at a time: show the object
// name and a generated question, let the user recall, reveal the source
// excerpt, and record the answer. The model is a plain bubbletea
// program driven entirely by the ReviewService port.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
	"github.com/custodia-labs/ainki-cli/internal/core/ports/driving"
)

// Ports holds the service interfaces the session runs against.
type Ports struct {
	Review driving.ReviewService
}

// Messages produced by the session's commands.
type (
	pendingLoadedMsg struct {
		items []driving.PendingItem
		err   error
	}

	questionMsg struct {
		question *domain.ReviewQuestion
		asked    bool
		err      error
	}

	answeredMsg struct {
		state   *domain.RepetitionState
		correct bool
		err     error
	}
)

// App is the bubbletea model for one review session.
type App struct {
	ports  *Ports
	ctx    context.Context
	keys   *KeyMap
	styles *Styles

	// userID scopes the session to one user.
	userID string

	items    []driving.PendingItem
	index    int
	question *domain.ReviewQuestion
	revealed bool
	loading  bool

	reviewed int
	correct  int

	err    error
	width  int
	height int
}

// NewApp creates a review session for one user.
func NewApp(ports *Ports, userID string) (*App, error) {
	if ports == nil || ports.Review == nil {
		return nil, fmt.Errorf("%w: review service is required", domain.ErrInvalidInput)
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: user is required", domain.ErrInvalidInput)
	}
	return &App{
		ports:   ports,
		ctx:     context.Background(),
		keys:    DefaultKeyMap(),
		styles:  DefaultStyles(),
		userID:  userID,
		loading: true,
		width:   80,
		height:  24,
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) {
	if ctx != nil {
		a.ctx = ctx
	}
}

// Init loads the pending queue.
func (a *App) Init() tea.Cmd {
	return a.loadPending
}

func (a *App) loadPending() tea.Msg {
	items, err := a.ports.Review.Pending(a.ctx, &a.userID)
	return pendingLoadedMsg{items: items, err: err}
}

// loadQuestion generates a question for the current item.
func (a *App) loadQuestion() tea.Cmd {
	objectID := a.items[a.index].ObjectID
	return func() tea.Msg {
		question, asked, err := a.ports.Review.NextQuestion(a.ctx, objectID)
		return questionMsg{question: question, asked: asked, err: err}
	}
}

// answer records the result for the current item.
func (a *App) answer(correct bool) tea.Cmd {
	objectID := a.items[a.index].ObjectID
	return func() tea.Msg {
		state, err := a.ports.Review.Answer(a.ctx, objectID, a.userID, correct)
		return answeredMsg{state: state, correct: correct, err: err}
	}
}

// advance moves to the next due item, if any.
func (a *App) advance() tea.Cmd {
	a.index++
	a.question = nil
	a.revealed = false
	if a.index >= len(a.items) {
		return nil
	}
	return a.loadQuestion()
}

// Update handles messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case pendingLoadedMsg:
		a.loading = false
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.items = msg.items
		if len(a.items) == 0 {
			return a, nil
		}
		return a, a.loadQuestion()

	case questionMsg:
		// A missing extractor or a sampler skip both fall back to free
		// recall against the object name, so the session keeps moving.
		if msg.err == nil && msg.asked {
			a.question = msg.question
		}
		return a, nil

	case answeredMsg:
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.reviewed++
		if msg.correct {
			a.correct++
		}
		return a, a.advance()

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case a.done() || a.loading:
		return a, nil

	case key.Matches(msg, a.keys.Reveal):
		a.revealed = true
		return a, nil

	case key.Matches(msg, a.keys.Correct):
		return a, a.answer(true)

	case key.Matches(msg, a.keys.Incorrect):
		return a, a.answer(false)

	case key.Matches(msg, a.keys.Skip):
		return a, a.advance()
	}

	return a, nil
}

// done reports whether the queue is exhausted.
func (a *App) done() bool {
	return !a.loading && a.index >= len(a.items)
}

// View renders the session.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Ainki Review"))
	b.WriteString("\n\n")

	switch {
	case a.err != nil:
		b.WriteString(a.styles.Error.Render(fmt.Sprintf("Error: %v", a.err)))
		b.WriteString("\n\n")
		b.WriteString(a.styles.Muted.Render("[q] Quit"))

	case a.loading:
		b.WriteString(a.styles.Muted.Render("Loading due items..."))

	case len(a.items) == 0:
		b.WriteString(a.styles.Normal.Render("Nothing due. Keep reading."))
		b.WriteString("\n\n")
		b.WriteString(a.styles.Muted.Render("[q] Quit"))

	case a.done():
		summary := fmt.Sprintf("Session complete: %d reviewed, %d correct.", a.reviewed, a.correct)
		b.WriteString(a.styles.Success.Render(summary))
		b.WriteString("\n\n")
		b.WriteString(a.styles.Muted.Render("[q] Quit"))

	default:
		a.viewItem(&b)
	}

	return b.String()
}

func (a *App) viewItem(b *strings.Builder) {
	item := a.items[a.index]

	b.WriteString(a.styles.Muted.Render(
		fmt.Sprintf("Item %d of %d", a.index+1, len(a.items))))
	b.WriteString("\n\n")

	b.WriteString(a.styles.Subtitle.Render(
		fmt.Sprintf("%s (%s, level %d)", item.Name, item.Type, item.Level)))
	b.WriteString("\n\n")

	if a.question != nil {
		b.WriteString(a.styles.Normal.Render(a.question.Text))
	} else {
		b.WriteString(a.styles.Normal.Render(
			fmt.Sprintf("Recall everything you can about %q.", item.Name)))
	}
	b.WriteString("\n\n")

	if a.revealed {
		b.WriteString(a.styles.Normal.Render(item.Context))
		b.WriteString("\n")
		if a.question != nil && a.question.Answer != "" {
			b.WriteString("\n")
			b.WriteString(a.styles.Subtitle.Render("Answer: "))
			b.WriteString(a.styles.Normal.Render(a.question.Answer))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(a.styles.Muted.Render("[y] Correct  [n] Incorrect  [s] Skip  [q] Quit"))
	} else {
		b.WriteString(a.styles.Muted.Render("[space] Reveal  [s] Skip  [q] Quit"))
	}
}
