package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [text-file]",
	Short: "Upload a document for study",
	Long: `Upload a document's extracted text together with its layout output.

The layout file tells the aligner which page of the original document
each chunk belongs to. Two readers are supported:

  structured - JSON content-element list ({text, text_level, page_idx})
  markers    - markdown export with inline <!-- PageBreak --> comments

With --reader markers and no --layout flag, the text file itself is
used as the layout, since the page breaks are inline.

Examples:
  ainki upload analysis.md --layout analysis.layout.json
  ainki upload notes.md --reader markers
  ainki upload analysis.md --layout analysis.layout.json --force`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

// Flags for upload.
var (
	uploadLayout string
	uploadReader string
	uploadName   string
	uploadFolder string
	uploadForce  bool
)

func init() {
	uploadCmd.Flags().StringVarP(
		&uploadLayout, "layout", "l", "", "Path to the layout output file")
	uploadCmd.Flags().StringVarP(
		&uploadReader, "reader", "r", "structured", "Layout reader (structured, markers)")
	uploadCmd.Flags().StringVarP(
		&uploadName, "name", "n", "", "Display name (defaults to the file name)")
	uploadCmd.Flags().StringVarP(
		&uploadFolder, "folder", "f", "", "Storage folder (defaults to the file's directory)")
	uploadCmd.Flags().BoolVar(
		&uploadForce, "force", false, "Re-process even when knowledge objects exist")

	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	textPath := args[0]
	text, err := os.ReadFile(textPath)
	if err != nil {
		return fmt.Errorf("failed to read text file: %w", err)
	}

	layout := text
	if uploadLayout != "" {
		layout, err = os.ReadFile(uploadLayout)
		if err != nil {
			return fmt.Errorf("failed to read layout file: %w", err)
		}
	} else if uploadReader != "markers" {
		return errors.New("--layout is required unless --reader markers is used")
	}

	name := uploadName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(textPath), filepath.Ext(textPath))
	}
	folder := uploadFolder
	if folder == "" {
		folder = filepath.Dir(textPath)
	}

	result, err := ingestService.Ingest(
		cmd.Context(), name, folder, string(text), layout, uploadReader, uploadForce)
	if err != nil {
		if errors.Is(err, domain.ErrObjectsExist) {
			return fmt.Errorf("document already has knowledge objects, re-run with --force: %w", err)
		}
		return fmt.Errorf("upload failed: %w", err)
	}

	cmd.Printf("Uploaded %q\n\n", name)
	cmd.Printf("  Document: %s\n", result.DocumentID)
	cmd.Printf("  Chunks:   %d\n", result.Chunks)
	cmd.Printf("  Pages:    %d\n", result.Pages)
	cmd.Printf("  Objects:  %d\n", result.Objects)
	return nil
}
