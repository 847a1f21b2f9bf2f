package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/outline-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/outline-cli/internal/core/eventbus"
	"github.com/custodia-labs/outline-cli/internal/core/eventbus/testbus"
)

// stubProgram replaces the terminal program with fn for one test.
func stubProgram(t *testing.T, fn func(app *tui.App) error) {
	t.Helper()
	orig := runProgram
	runProgram = fn
	t.Cleanup(func() { runProgram = orig })
}

func TestTUICmd_Flags(t *testing.T) {
	flag := tuiCmd.Flags().Lookup("follow")
	require.NotNil(t, flag)
	assert.Equal(t, "f", flag.Shorthand)
	assert.Equal(t, "true", flag.DefValue)
}

func TestTUICmd_OpensPanel(t *testing.T) {
	env := setupTestServices(t)
	env.addGuide(t)

	var rows int
	stubProgram(t, func(app *tui.App) error {
		rows = len(app.OutlineView().Rows())
		return nil
	})

	_, err := execute(t, "-d", "guide", "tui")

	require.NoError(t, err)
	assert.Equal(t, 3, rows)
}

func TestTUICmd_Follow(t *testing.T) {
	env := setupTestServices(t)
	env.addGuide(t)
	bus := testbus.New(t)
	svc.Bus = bus.EventBus
	base := bus.Subscribers(eventbus.EventOutlinesChanged)

	var during int
	stubProgram(t, func(_ *tui.App) error {
		during = bus.Subscribers(eventbus.EventOutlinesChanged)
		return nil
	})

	_, err := execute(t, "-d", "guide", "tui")

	require.NoError(t, err)
	// The panel subscribes while the program runs and unsubscribes after.
	assert.Greater(t, during, base)
	assert.Equal(t, base, bus.Subscribers(eventbus.EventOutlinesChanged))
}

func TestTUICmd_ProgramError(t *testing.T) {
	env := setupTestServices(t)
	env.addGuide(t)
	stubProgram(t, func(_ *tui.App) error { return errors.New("no tty") })

	_, err := execute(t, "-d", "guide", "tui", "--follow=false")

	assert.ErrorContains(t, err, "TUI error: no tty")
}

func TestTUICmd_RecoversPanic(t *testing.T) {
	env := setupTestServices(t)
	env.addGuide(t)
	stubProgram(t, func(_ *tui.App) error { panic("boom") })

	_, err := execute(t, "-d", "guide", "tui")

	assert.ErrorContains(t, err, "tui panicked: boom")
}

func TestTUICmd_UnknownDocument(t *testing.T) {
	setupTestServices(t)
	stubProgram(t, func(_ *tui.App) error {
		t.Fatal("program must not start")
		return nil
	})

	_, err := execute(t, "-d", "manual", "tui")

	assert.ErrorContains(t, err, `document "manual" not found`)
}
