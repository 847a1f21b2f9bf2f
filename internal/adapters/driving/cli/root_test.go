package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	configmem "github.com/custodia-labs/outline-cli/internal/adapters/driven/config/memory"
	storemem "github.com/custodia-labs/outline-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/outline-cli/internal/core/domain"
	"github.com/custodia-labs/outline-cli/internal/core/services"
)

// syncBuffer is a bytes.Buffer safe for a command writing while a test reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testEnv struct {
	docs     *storemem.DocumentStore
	config   *configmem.ConfigStore
	settings *services.SettingsService
}

// setupTestServices installs in-memory services and restores globals when
// the test ends.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		docs:   storemem.NewDocumentStore(),
		config: configmem.NewConfigStore(),
	}
	env.settings = services.NewSettingsService(env.config)

	resetFlags(rootCmd)
	SetServices(&Services{
		Documents: env.docs,
		Settings:  env.settings,
		Flattener: services.NewBookmarkService(),
	})
	t.Cleanup(func() {
		svc = nil
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	return env
}

// resetFlags restores every flag of cmd and its children to its default.
// Cobra keeps parsed values in package variables between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// guideSeeds is a small outline tree:
//
//	0   Install (bold, blue)
//	0-0   Linux
//	1   Usage
func guideSeeds() []domain.OutlineSeed {
	return []domain.OutlineSeed{
		{
			Name:        "Install",
			Destination: domain.FullPageDestination(1),
			Style:       domain.BookmarkStyle{Flag: domain.FlagBold, Color: domain.Color{B: 1}},
			Children: []domain.OutlineSeed{
				{Name: "Linux", Destination: domain.Destination{Page: 2, X: 10, Y: 20}},
			},
		},
		{Name: "Usage", Destination: domain.FullPageDestination(3)},
	}
}

func (e *testEnv) addGuide(t *testing.T) *domain.Document {
	t.Helper()
	ctx := context.Background()
	doc, err := e.docs.CreateDocument(ctx, domain.Document{ID: "doc-1", Name: "guide", PageCount: 12})
	require.NoError(t, err)
	require.NoError(t, e.docs.ReplaceOutlines(ctx, doc.ID, guideSeeds()))
	return doc
}

func (e *testEnv) outlineNames(t *testing.T) []string {
	t.Helper()
	ctx := context.Background()
	engine, err := e.docs.Engine(ctx, "doc-1")
	require.NoError(t, err)
	outlines, err := engine.ListOutlines(ctx)
	require.NoError(t, err)
	var names []string
	for _, row := range domain.FlattenOutlines(outlines) {
		names = append(names, row.Node.Path.String()+" "+row.Node.Name)
	}
	return names
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "outline", rootCmd.Use)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	var names []string
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"document", "outline", "bookmarks", "config", "watch", "tui", "mcp", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestResolveDocument(t *testing.T) {
	env := setupTestServices(t)
	env.addGuide(t)
	ctx := context.Background()

	t.Run("none selected", func(t *testing.T) {
		t.Setenv("OUTLINE_DOCUMENT", "")
		documentRef = ""

		_, err := resolveDocument(ctx)

		assert.ErrorContains(t, err, "no document selected")
	})

	t.Run("from environment", func(t *testing.T) {
		t.Setenv("OUTLINE_DOCUMENT", "guide")
		documentRef = ""

		doc, err := resolveDocument(ctx)

		require.NoError(t, err)
		assert.Equal(t, "doc-1", doc.ID)
	})

	t.Run("flag wins over environment", func(t *testing.T) {
		t.Setenv("OUTLINE_DOCUMENT", "other")
		documentRef = "doc-1"
		defer func() { documentRef = "" }()

		doc, err := resolveDocument(ctx)

		require.NoError(t, err)
		assert.Equal(t, "guide", doc.Name)
	})

	t.Run("unknown", func(t *testing.T) {
		documentRef = "manual"
		defer func() { documentRef = "" }()

		_, err := resolveDocument(ctx)

		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.EqualError(t, err, `document "manual" not found`)
	})
}

func TestRequireServices_NotConfigured(t *testing.T) {
	setupTestServices(t)
	svc = nil

	_, err := execute(t, "document", "list")

	assert.ErrorContains(t, err, "document store not configured")
}

func TestSetupRoot_Bootstrap(t *testing.T) {
	setupTestServices(t)
	svc = nil

	var closed bool
	var gotOpts Options
	SetBootstrap(func(_ context.Context, o Options) (*Services, error) {
		gotOpts = o
		return &Services{
			Documents: storemem.NewDocumentStore(),
			Close: func() error {
				closed = true
				return nil
			},
		}, nil
	})
	defer SetBootstrap(nil)

	out, err := execute(t, "--data-dir", "/tmp/outline-data", "document", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No documents")
	assert.Equal(t, "/tmp/outline-data", gotOpts.DataDir)
	assert.True(t, closed)
	assert.Nil(t, svc)
}

func TestSetupRoot_InvalidLogLevel(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "--log-level", "loud", "version")

	assert.Error(t, err)
}

func TestOpenPanelByRef(t *testing.T) {
	env := setupTestServices(t)
	env.addGuide(t)
	ctx := context.Background()

	doc, panel, err := openPanelByRef(ctx, "guide")
	require.NoError(t, err)
	defer panel.Deactivate()

	assert.Equal(t, "doc-1", doc.ID)
	assert.Len(t, panel.Rows(), 3)
	assert.True(t, panel.State().Editable)

	_, _, err = openPanelByRef(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPanelSettings_FromConfig(t *testing.T) {
	env := setupTestServices(t)
	require.NoError(t, env.settings.Set("panel.untitled_name", "Bookmark"))

	assert.Equal(t, "Bookmark", panelSettings().UntitledName)

	svc = nil
	assert.Equal(t, "Untitled", panelSettings().UntitledName)
}
