package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/outline-cli/internal/adapters/driven/pdf"
	"github.com/custodia-labs/outline-cli/internal/adapters/driven/watcher"
	"github.com/custodia-labs/outline-cli/internal/core/domain"
	"github.com/custodia-labs/outline-cli/internal/core/eventbus"
	"github.com/custodia-labs/outline-cli/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow changes to a document",
	Long: `Watches the selected document and prints its outlines whenever they change.

Edits made by other outline processes are picked up from the database.
When the document was imported from a PDF, saving the PDF re-imports its
bookmarks. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := requireServices(); err != nil {
		return err
	}
	if svc.Bus == nil {
		return errors.New("event bus not configured")
	}
	doc, err := resolveDocument(ctx)
	if err != nil {
		return err
	}

	w, stop, err := followDocument(ctx, doc)
	if err != nil {
		return err
	}
	defer stop()

	_, panel, err := openPanel(ctx)
	if err != nil {
		return err
	}
	defer panel.Deactivate()

	show := func() {
		cmd.Printf("--- %s ---\n", doc.Name)
		for _, row := range panel.Rows() {
			cmd.Println(formatRow(row))
		}
	}
	show()
	for _, unsub := range []func(){
		svc.Bus.OnDocumentLoaded(show),
		svc.Bus.OnForceUpdateOutlines(show),
		svc.Bus.OnOutlinesChanged(show),
	} {
		defer unsub()
	}

	cmd.PrintErrf("Watching %s (Ctrl+C to stop)\n", doc.Name)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watcher stopped: %w", err)
	}
	return nil
}

// followDocument watches the database and, for imported PDFs, the source
// file. Source changes re-import the bookmarks before any panel refresh
// triggered by the same signal, so callers must open their panel after
// calling it.
func followDocument(ctx context.Context, doc *domain.Document) (*watcher.Watcher, func(), error) {
	settings := domain.DefaultAppSettings()
	if svc.Settings != nil {
		if s, err := svc.Settings.Get(); err == nil {
			settings = *s
		}
	}

	w, err := watcher.New(svc.Bus, settings.Watch)
	if err != nil {
		return nil, nil, err
	}
	stops := []func(){func() { w.Close() }}
	stop := func() {
		for i := len(stops) - 1; i >= 0; i-- {
			stops[i]()
		}
	}

	if svc.DatabasePath != "" {
		if err := w.WatchDatabase(svc.DatabasePath); err != nil {
			stop()
			return nil, nil, err
		}
	}
	if isPDF(doc.SourcePath) {
		if err := w.WatchSource(doc.SourcePath, doc.ID); err != nil {
			stop()
			return nil, nil, err
		}
		stops = append(stops, svc.Bus.SubscribeDocumentLoaded(func(p eventbus.DocumentLoadedPayload) {
			if p.DocumentID == doc.ID {
				reimport(ctx, doc)
			}
		}))
	}
	return w, stop, nil
}

func isPDF(path string) bool {
	return path != "" && strings.EqualFold(filepath.Ext(path), ".pdf")
}

// reimport replaces the document's outlines with the PDF's bookmarks.
// A half-written file fails to parse and is retried on the next change.
func reimport(ctx context.Context, doc *domain.Document) {
	log := logger.Component("watch")
	imported, err := pdf.ImportFile(ctx, doc.SourcePath)
	if err != nil {
		log.Warn().Err(err).Str("path", doc.SourcePath).Msg("re-import failed")
		return
	}
	if err := svc.Documents.ReplaceOutlines(ctx, doc.ID, imported.Seeds); err != nil {
		log.Warn().Err(err).Str("document", doc.ID).Msg("storing re-imported outlines failed")
		return
	}
	log.Info().Int("outlines", imported.Count()).Str("document", doc.Name).Msg("re-imported")
}
