package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ainki-cli/internal/adapters/driving/tui"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Start an interactive review session",
	Long: `Start an interactive review session over everything that is due.

Each due knowledge object is shown with a generated question. Recall
the answer, reveal the source excerpt, then grade yourself.

Controls:
  space - Reveal the excerpt and answer
  y / n - Mark correct / incorrect
  s     - Skip without answering
  q     - Quit`,
	RunE: runReview,
}

// reviewUser names the reviewing user.
var reviewUser string

func init() {
	reviewCmd.Flags().StringVarP(
		&reviewUser, "user", "u", "", "Username to review as (required)")

	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, _ []string) error {
	if reviewService == nil {
		return errors.New("review service not configured")
	}
	if reviewUser == "" {
		return errors.New("--user is required")
	}

	// Panic recovery so a TUI crash still prints a stack trace.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in review session: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	userID, err := resolveUserID(cmd.Context(), reviewUser)
	if err != nil {
		return err
	}

	app, err := tui.NewApp(&tui.Ports{Review: reviewService}, userID)
	if err != nil {
		return fmt.Errorf("failed to create review session: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("review session error: %w", err)
	}
	return nil
}
