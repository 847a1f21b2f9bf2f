package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/outline-cli/internal/core/domain"
	"github.com/custodia-labs/outline-cli/internal/core/eventbus"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driven"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driving"
	"github.com/custodia-labs/outline-cli/internal/core/services"
	"github.com/custodia-labs/outline-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Options are the global flags that affect how services are built.
type Options struct {
	ConfigDir string
	DataDir   string
}

// Services holds everything the commands need.
type Services struct {
	Documents driven.DocumentStore
	Settings  driving.SettingsService
	Flattener driving.BookmarkFlattener
	Bus       *eventbus.EventBus

	// DatabasePath is watched by the watch command. Empty disables it.
	DatabasePath string

	// Close releases resources. May be nil.
	Close func() error
}

// Bootstrap builds services once flags have been parsed.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var (
	bootstrap Bootstrap
	svc       *Services

	// Global flags.
	opts        Options
	documentRef string
	verbose     bool
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "outline",
	Short: "Manage document outlines and bookmarks",
	Long: `outline edits the outline (bookmark) tree of documents.

Documents are imported from PDF files or created empty. Outlines are
addressed by paths of sibling indices: "0" is the first top-level outline,
"0-2" its third child.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setupRoot,
	PersistentPostRunE: teardownRoot,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.ConfigDir, "config-dir", "", "Configuration directory (default ~/.outline)")
	flags.StringVar(&opts.DataDir, "data-dir", "", "Data directory (default ~/.outline/data)")
	flags.StringVarP(&documentRef, "document", "d", "", "Document ID or name")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVar(&logLevel, "log-level", "", "Log level (overrides log.level)")
}

// SetBootstrap registers the function that builds services.
func SetBootstrap(fn Bootstrap) {
	bootstrap = fn
}

// SetServices installs ready-made services, bypassing the bootstrap.
func SetServices(s *Services) {
	svc = s
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setupRoot(cmd *cobra.Command, _ []string) error {
	// Log setup comes first so component loggers built during bootstrap
	// honour --log-level and --verbose.
	if err := logger.Setup(logLevel, cmd.ErrOrStderr()); err != nil {
		return err
	}
	logger.SetVerbose(verbose)

	if svc == nil && bootstrap != nil {
		built, err := bootstrap(cmd.Context(), opts)
		if err != nil {
			return err
		}
		svc = built
	}

	if logLevel == "" && svc != nil && svc.Settings != nil {
		if settings, err := svc.Settings.Get(); err == nil {
			return logger.Setup(settings.LogLevel, nil)
		}
	}
	return nil
}

func teardownRoot(_ *cobra.Command, _ []string) error {
	if svc == nil || svc.Close == nil || bootstrap == nil {
		return nil
	}
	err := svc.Close()
	svc = nil
	return err
}

func requireServices() error {
	if svc == nil || svc.Documents == nil {
		return errors.New("document store not configured")
	}
	return nil
}

// resolveDocument returns the document named by --document.
func resolveDocument(ctx context.Context) (*domain.Document, error) {
	ref := documentRef
	if ref == "" {
		ref = os.Getenv("OUTLINE_DOCUMENT")
	}
	if ref == "" {
		return nil, errors.New("no document selected: pass --document or set OUTLINE_DOCUMENT")
	}
	return lookupDocument(ctx, ref)
}

// lookupDocument finds a document by ID or name.
func lookupDocument(ctx context.Context, ref string) (*domain.Document, error) {
	if err := requireServices(); err != nil {
		return nil, err
	}
	doc, err := svc.Documents.GetDocument(ctx, ref)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("document %q %w", ref, domain.ErrNotFound)
	}
	return doc, err
}

// openEngine opens the engine of the selected document.
func openEngine(ctx context.Context) (*domain.Document, driven.DocumentEngine, error) {
	doc, err := resolveDocument(ctx)
	if err != nil {
		return nil, nil, err
	}
	engine, err := svc.Documents.Engine(ctx, doc.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("opening document: %w", err)
	}
	return doc, engine, nil
}

// panelSettings returns the configured panel settings or the defaults.
func panelSettings() domain.PanelSettings {
	if svc != nil && svc.Settings != nil {
		if settings, err := svc.Settings.Get(); err == nil {
			return settings.Panel
		}
	}
	return domain.DefaultAppSettings().Panel
}

// openPanel activates an outline panel over the selected document.
// The caller must Deactivate it.
func openPanel(ctx context.Context) (*domain.Document, driving.OutlinePanel, error) {
	doc, err := resolveDocument(ctx)
	if err != nil {
		return nil, nil, err
	}
	return activatePanel(ctx, doc)
}

// openPanelByRef is openPanel for an explicit document reference.
func openPanelByRef(ctx context.Context, ref string) (*domain.Document, driving.OutlinePanel, error) {
	doc, err := lookupDocument(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	return activatePanel(ctx, doc)
}

func activatePanel(ctx context.Context, doc *domain.Document) (*domain.Document, driving.OutlinePanel, error) {
	engine, err := svc.Documents.Engine(ctx, doc.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("opening document: %w", err)
	}

	flattener := svc.Flattener
	if flattener == nil {
		flattener = services.NewBookmarkService()
	}
	var signals driven.Signals
	if svc.Bus != nil {
		signals = svc.Bus
	}

	panel := services.NewOutlinePanelService(engine, signals, flattener, panelSettings())
	if err := panel.Activate(ctx); err != nil {
		panel.Deactivate()
		return nil, nil, fmt.Errorf("loading outlines: %w", err)
	}
	return doc, panel, nil
}
