package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
)

var readCmd = &cobra.Command{
	Use:   "read [document] [chunk-ordinal]",
	Short: "Record reading progress",
	Long: `Record that a user has read a document up to the given chunk.

Every knowledge object whose chunk range ends at or before that point
enters the review schedule at level 0. Safe to repeat: re-reading never
resets existing progress.`,
	Args: cobra.ExactArgs(2),
	RunE: runRead,
}

// readUser names the reading user.
var readUser string

func init() {
	readCmd.Flags().StringVarP(
		&readUser, "user", "u", "", "Username recording progress (required)")

	rootCmd.AddCommand(readCmd)
}

func runRead(cmd *cobra.Command, args []string) error {
	if progressService == nil {
		return errors.New("progress service not configured")
	}
	if readUser == "" {
		return errors.New("--user is required")
	}

	ordinal, err := strconv.Atoi(args[1])
	if err != nil || ordinal < 0 {
		return fmt.Errorf("%w: chunk ordinal must be a non-negative integer", domain.ErrInvalidInput)
	}

	ctx := cmd.Context()
	userID, err := resolveUserID(ctx, readUser)
	if err != nil {
		return err
	}
	doc, err := resolveDocument(ctx, args[0])
	if err != nil {
		return err
	}

	created, err := progressService.Assign(ctx, userID, doc.ID, ordinal)
	if err != nil {
		return fmt.Errorf("failed to record progress: %w", err)
	}

	cmd.Printf("Progress recorded for %q up to chunk %d.\n", doc.Name, ordinal)
	if created > 0 {
		cmd.Printf("%d new objects entered the review schedule.\n", created)
	}

	if chunkStore != nil {
		page, err := chunkStore.PageOfChunk(ctx, doc.ID, ordinal)
		if err == nil {
			cmd.Printf("You are on page %d of the original document.\n", page+1)
		}
	}
	return nil
}

// resolveDocument looks a document up by display name, then by ID.
func resolveDocument(ctx context.Context, ref string) (*domain.Document, error) {
	if documentStore == nil {
		return nil, errors.New("document store not configured")
	}
	doc, err := documentStore.GetDocumentByName(ctx, ref)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to resolve document %q: %w", ref, err)
	}
	doc, err = documentStore.GetDocument(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve document %q: %w", ref, err)
	}
	return doc, nil
}
