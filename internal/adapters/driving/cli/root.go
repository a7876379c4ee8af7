// Package cli implements the cobra command tree for the Ainki CLI.
//
// Commands hold no business logic: each resolves its arguments, calls a
// driving-port service and renders the result. Services are injected
// once at startup via SetServices.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ainki-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ainki-cli/internal/core/ports/driving"
	"github.com/custodia-labs/ainki-cli/internal/logger"
)

// version is set from main at startup.
var version = "dev"

// Injected services and stores. Commands nil-check before use so the
// tree stays testable without a full wiring.
var (
	ingestService   driving.IngestService
	reviewService   driving.ReviewService
	progressService driving.ProgressService
	masteryService  driving.MasteryService

	documentStore driven.DocumentStore
	userStore     driven.UserStore
	chunkStore    driven.ChunkStore
)

// Services bundles everything the command tree needs.
type Services struct {
	Ingest   driving.IngestService
	Review   driving.ReviewService
	Progress driving.ProgressService
	Mastery  driving.MasteryService

	Documents driven.DocumentStore
	Users     driven.UserStore
	Chunks    driven.ChunkStore
}

// SetServices injects the services the commands run against.
func SetServices(s *Services) {
	ingestService = s.Ingest
	reviewService = s.Review
	progressService = s.Progress
	masteryService = s.Mastery
	documentStore = s.Documents
	userStore = s.Users
	chunkStore = s.Chunks
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	version = v
}

// verboseFlag enables debug logging on stderr.
var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "ainki",
	Short: "Spaced-repetition study tool for your own documents",
	Long: `Ainki turns uploaded documents into a spaced-repetition study queue.

Upload a document together with its extraction layout, read it page by
page, and Ainki schedules the knowledge objects it finds (definitions,
theorems, examples) for review with a Leitner-style interval table.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(
		&verboseFlag, "verbose", "v", false, "Enable verbose debug output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
