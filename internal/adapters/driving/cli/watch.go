package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ainki-cli/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Auto-upload documents dropped into a folder",
	Long: `Watch a directory and upload markdown exports as they appear.

Files ending in .md are ingested with the markers reader, so exports
with inline <!-- PageBreak --> comments align without a separate layout
file. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

// watchForce re-processes documents that already have knowledge objects.
var watchForce bool

// watchSettle is how long a file must stay quiet before it is ingested,
// so partially written files are not picked up mid-write.
const watchSettle = 2 * time.Second

func init() {
	watchCmd.Flags().BoolVar(
		&watchForce, "force", false, "Re-process documents that already have knowledge objects")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to stat watch directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	cmd.Printf("Watching %s for markdown exports. Ctrl+C to stop.\n", dir)

	ctx := cmd.Context()

	// Pending timers per path, reset on every write so a file is only
	// ingested once it has settled.
	var mu sync.Mutex
	timers := make(map[string]*time.Timer)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".md") {
				continue
			}

			path := event.Name
			mu.Lock()
			if timer, exists := timers[path]; exists {
				timer.Stop()
			}
			timers[path] = time.AfterFunc(watchSettle, func() {
				mu.Lock()
				delete(timers, path)
				mu.Unlock()
				ingestWatched(ctx, cmd, path)
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// ingestWatched uploads one settled markdown file with the markers reader.
func ingestWatched(ctx context.Context, cmd *cobra.Command, path string) {
	text, err := os.ReadFile(path)
	if err != nil {
		cmd.PrintErrf("skipping %s: %v\n", path, err)
		return
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	result, err := ingestService.Ingest(
		ctx, name, filepath.Dir(path), string(text), text, "markers", watchForce)
	if err != nil {
		cmd.PrintErrf("failed to upload %s: %v\n", path, err)
		return
	}

	cmd.Printf("Uploaded %q: %d chunks, %d pages, %d objects\n",
		name, result.Chunks, result.Pages, result.Objects)
}
