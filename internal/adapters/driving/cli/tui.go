package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/outline-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/outline-cli/internal/logger"
)

var tuiFollow bool

// runProgram runs the TUI. Tests replace it to avoid taking the terminal.
var runProgram = func(app *tui.App) error {
	return app.Run()
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Edit outlines in the interactive terminal UI",
	Long: `Opens the outline panel of the selected document in the terminal.

Controls:
  ↑/k, ↓/j  Move          ←/h, →/l  Collapse / expand
  enter     Go to         a         Add under the active outline
  r         Rename        d         Delete (asks first)
  m         Multi-select  space     Select in multi-select
  x         Cut           <, >, i   Drop before / after / inside
  R         Refresh       esc       Cancel
  ?         Help          q         Quit

With --follow, changes made by other outline processes, and saves of an
imported PDF, show up while the panel is open.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().BoolVarP(&tuiFollow, "follow", "f", true, "watch the document for outside changes")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\nStack trace:\n%s\n", r, debug.Stack())
			err = fmt.Errorf("tui panicked: %v", r)
		}
	}()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	doc, err := resolveDocument(ctx)
	if err != nil {
		return err
	}

	if tuiFollow && svc.Bus != nil {
		w, stop, err := followDocument(ctx, doc)
		if err != nil {
			return err
		}
		defer stop()
		go func() {
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log := logger.Component("tui")
				log.Warn().Err(err).Msg("watcher stopped")
			}
		}()
	}

	_, panel, err := openPanel(ctx)
	if err != nil {
		return err
	}
	defer panel.Deactivate()

	ports := &tui.Ports{
		Panel:    panel,
		Document: doc,
		Settings: panelSettings(),
	}
	if svc.Bus != nil {
		ports.Signals = svc.Bus
	}

	app, err := tui.NewAppWithContext(ctx, ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	if err := runProgram(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
