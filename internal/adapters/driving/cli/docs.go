package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List uploaded documents",
	RunE:  runDocs,
}

func init() {
	rootCmd.AddCommand(docsCmd)
}

func runDocs(cmd *cobra.Command, _ []string) error {
	if documentStore == nil {
		return errors.New("document store not configured")
	}

	ctx := cmd.Context()
	docs, err := documentStore.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents uploaded yet.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Name:     %s\n", docs[i].Name)
		cmd.Printf("    Folder:   %s\n", docs[i].Folder)
		cmd.Printf("    Chunks:   %d\n", activeChunkCount(ctx, docs[i].ID))
		cmd.Printf("    Uploaded: %s\n", docs[i].CreatedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

// activeChunkCount reports the active chunk count of a document, zero
// when the document was never chunked.
func activeChunkCount(ctx context.Context, documentID string) int {
	if chunkStore == nil {
		return 0
	}
	maxOrdinal, err := chunkStore.MaxOrdinal(ctx, documentID)
	if err != nil {
		return 0
	}
	return maxOrdinal + 1
}
