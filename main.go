// Command ainki is a local spaced-repetition study tool. Upload
// documents, read them, and review the extracted knowledge objects on a
// Leitner schedule.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/ainki-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/ainki-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ainki-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ainki-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/ainki-cli/internal/chunkers/sentence"
	"github.com/custodia-labs/ainki-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ainki-cli/internal/core/services"
	"github.com/custodia-labs/ainki-cli/internal/layouts/markers"
	"github.com/custodia-labs/ainki-cli/internal/layouts/structured"
	"github.com/custodia-labs/ainki-cli/internal/logger"
)

// version is overridden at build time with -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	reviewConfig, err := file.ReviewConfigFrom(configStore)
	if err != nil {
		return fmt.Errorf("loading review config: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	// Extraction backend is optional. Uploads still chunk and align
	// without one; object extraction and question generation are skipped.
	extractor, err := ai.NewExtractorFromConfig(configStore)
	if err != nil {
		return fmt.Errorf("configuring extraction backend: %w", err)
	}
	if extractor != nil {
		defer extractor.Close()
		logger.Debug("extraction backend: %s", extractor.ModelName())
	}

	parsers := []driven.LayoutParser{structured.New(), markers.New()}

	ingest := services.NewIngestService(
		store.DocumentStore(),
		store.ChunkStore(),
		store.ObjectStore(),
		sentence.New(),
		parsers,
		extractor,
	)
	review := services.NewReviewService(
		store.ObjectStore(),
		store.ChunkStore(),
		store.RepetitionStore(),
		store.QuestionStore(),
		extractor,
		reviewConfig,
	)
	progress := services.NewProgressService(
		store.ObjectStore(), store.RepetitionStore(), reviewConfig)
	mastery := services.NewMasteryService(
		store.ChunkStore(), store.RepetitionStore())

	cli.SetVersion(version)
	cli.SetServices(&cli.Services{
		Ingest:    ingest,
		Review:    review,
		Progress:  progress,
		Mastery:   mastery,
		Documents: store.DocumentStore(),
		Users:     store.UserStore(),
		Chunks:    store.ChunkStore(),
	})

	return cli.Execute()
}
