package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
)

var answerCmd = &cobra.Command{
	Use:   "answer [object-id] (correct|incorrect)",
	Short: "Record a quiz answer for a knowledge object",
	Long: `Record a quiz answer and advance the object's review schedule.

A correct answer promotes the object one level, lengthening the interval
until its next review. An incorrect answer demotes it one level.`,
	Args: cobra.ExactArgs(2),
	RunE: runAnswer,
}

// answerUser names the user whose state is updated.
var answerUser string

func init() {
	answerCmd.Flags().StringVarP(
		&answerUser, "user", "u", "", "Username whose review state to update (required)")

	rootCmd.AddCommand(answerCmd)
}

func runAnswer(cmd *cobra.Command, args []string) error {
	if reviewService == nil {
		return errors.New("review service not configured")
	}
	if answerUser == "" {
		return errors.New("--user is required")
	}

	var correct bool
	switch args[1] {
	case "correct":
		correct = true
	case "incorrect":
		correct = false
	default:
		return fmt.Errorf("%w: answer must be correct or incorrect, got %q",
			domain.ErrInvalidInput, args[1])
	}

	ctx := cmd.Context()
	userID, err := resolveUserID(ctx, answerUser)
	if err != nil {
		return err
	}

	state, err := reviewService.Answer(ctx, args[0], userID, correct)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no review state for object %s, read past it first: %w", args[0], err)
		}
		return fmt.Errorf("failed to record answer: %w", err)
	}

	cmd.Printf("Recorded. Level %d, next review %s\n",
		state.Level, state.NextReview.Format("2006-01-02 15:04:05"))
	return nil
}
