package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
)

var masteryCmd = &cobra.Command{
	Use:   "mastery [document]",
	Short: "Show mastery across a document",
	Long: `Show how well a user has mastered a document.

By default one value per chunk is printed: the mean review level of the
knowledge objects covering that chunk. With --pages the values are
averaged per page and normalised to [0, 1].`,
	Args: cobra.ExactArgs(1),
	RunE: runMastery,
}

// Flags for mastery.
var (
	masteryUser  string
	masteryPages bool
)

func init() {
	masteryCmd.Flags().StringVarP(
		&masteryUser, "user", "u", "", "Username to report on (required)")
	masteryCmd.Flags().BoolVarP(
		&masteryPages, "pages", "p", false, "Aggregate per page instead of per chunk")

	rootCmd.AddCommand(masteryCmd)
}

func runMastery(cmd *cobra.Command, args []string) error {
	if masteryService == nil {
		return errors.New("mastery service not configured")
	}
	if masteryUser == "" {
		return errors.New("--user is required")
	}

	ctx := cmd.Context()
	userID, err := resolveUserID(ctx, masteryUser)
	if err != nil {
		return err
	}
	doc, err := resolveDocument(ctx, args[0])
	if err != nil {
		return err
	}

	var values []float64
	unit := "chunk"
	if masteryPages {
		unit = "page"
		values, err = masteryService.PageMastery(ctx, userID, doc.ID)
	} else {
		values, err = masteryService.ChunkMastery(ctx, userID, doc.ID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrMissingPageMapping) {
			return fmt.Errorf("document has unaligned chunks, re-upload it with a layout: %w", err)
		}
		return fmt.Errorf("failed to compute mastery: %w", err)
	}

	if len(values) == 0 {
		cmd.Printf("No chunks recorded for %q.\n", doc.Name)
		return nil
	}

	// Page values are already normalised to [0, 1]; chunk values are raw
	// review levels, so scale the gauge against the document's maximum.
	denom := 1.0
	if !masteryPages {
		for _, v := range values {
			if v > denom {
				denom = v
			}
		}
	}

	cmd.Printf("Mastery for %q (%s, per %s):\n\n", doc.Name, masteryUser, unit)
	for i, v := range values {
		cmd.Printf("  %4d  %6.2f  %s\n", i, v, masteryBar(v/denom))
	}
	return nil
}

// masteryBar renders a small text gauge for a value in [0, 1].
func masteryBar(scale float64) string {
	const width = 20
	if scale < 0 {
		scale = 0
	}
	if scale > 1 {
		scale = 1
	}
	filled := int(scale * width)
	return strings.Repeat("#", filled) + strings.Repeat(".", width-filled)
}
