package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List knowledge objects due for review",
	Long: `List every knowledge object whose next review time has passed,
soonest due first. Without --user, due items across all users are shown.`,
	RunE: runPending,
}

// pendingUser filters pending items to one user.
var pendingUser string

func init() {
	pendingCmd.Flags().StringVarP(
		&pendingUser, "user", "u", "", "Username to list due items for")

	rootCmd.AddCommand(pendingCmd)
}

func runPending(cmd *cobra.Command, _ []string) error {
	if reviewService == nil {
		return errors.New("review service not configured")
	}

	ctx := cmd.Context()

	var userID *string
	if pendingUser != "" {
		id, err := resolveUserID(ctx, pendingUser)
		if err != nil {
			return err
		}
		userID = &id
	}

	items, err := reviewService.Pending(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list pending reviews: %w", err)
	}

	if len(items) == 0 {
		cmd.Println("Nothing due. Keep reading.")
		return nil
	}

	for i := range items {
		cmd.Printf("  %s\n", items[i].ObjectID)
		cmd.Printf("    Name:   %s (%s)\n", items[i].Name, items[i].Type)
		cmd.Printf("    Level:  %d\n", items[i].Level)
		cmd.Printf("    Due:    %s\n", items[i].NextReview.Format("2006-01-02 15:04:05"))
		cmd.Printf("    Chunks: %d-%d\n", items[i].ChunkStart, items[i].ChunkEnd)
		cmd.Println()
	}

	cmd.Printf("Total: %d due\n", len(items))
	return nil
}

// resolveUserID maps a username (or email) to the stored user ID.
func resolveUserID(ctx context.Context, name string) (string, error) {
	if userStore == nil {
		return "", errors.New("user store not configured")
	}
	user, err := userStore.GetUserByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to resolve user %q: %w", name, err)
	}
	return user.ID, nil
}
