package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/outline-cli/internal/core/domain"
)

func TestOutlineCmd_HasSubcommands(t *testing.T) {
	var names []string
	for _, cmd := range outlineCmd.Commands() {
		names = append(names, cmd.Name())
	}

	assert.ElementsMatch(t, []string{"list", "add", "rename", "move", "delete", "dest", "goto"}, names)
}

func TestOutlineListCmd(t *testing.T) {
	env := setupTestServices(t)
	env.addGuide(t)

	out, err := execute(t, "-d", "guide", "outline", "list")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "0      Install  (p. 1)  [bold #0000ff]", lines[0])
	assert.Equal(t, "  0-0    Linux  (p. 2)", lines[1])
	assert.Equal(t, "1      Usage  (p. 3)", lines[2])
}

func TestOutlineListCmd_Empty(t *testing.T) {
	env := setupTestServices(t)
	_, err := env.docs.CreateDocument(t.Context(), domain.Document{Name: "blank"})
	require.NoError(t, err)

	out, err := execute(t, "-d", "blank", "outline", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "blank has no outlines.")
}

func TestOutlineListCmd_NoDocument(t *testing.T) {
	setupTestServices(t)
	t.Setenv("OUTLINE_DOCUMENT", "")

	_, err := execute(t, "outline", "list")

	assert.ErrorContains(t, err, "no document selected")
}

func TestOutlineAddCmd(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		out   string
		names []string
	}{
		{
			name:  "top level",
			args:  []string{"FAQ", "--page", "5"},
			out:   `Added 2 "FAQ"`,
			names: []string{"0 Install", "0-0 Linux", "1 Usage", "2 FAQ"},
		},
		{
			name:  "under parent",
			args:  []string{"macOS", "--parent", "0"},
			out:   `Added 0-1 "macOS"`,
			names: []string{"0 Install", "0-0 Linux", "0-1 macOS", "1 Usage"},
		},
		{
			name:  "named by text pick",
			args:  []string{"--page", "4", "--x", "10", "--y", "700", "--text", "Troubleshooting"},
			out:   `Added 2 "Troubleshooting"`,
			names: []string{"0 Install", "0-0 Linux", "1 Usage", "2 Troubleshooting"},
		},
		{
			name:  "untitled",
			args:  nil,
			out:   `Added 2 "Untitled"`,
			names: []string{"0 Install", "0-0 Linux", "1 Usage", "2 Untitled"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestServices(t)
			env.addGuide(t)

			out, err := execute(t, append([]string{"-d", "guide", "outline", "add"}, tt.args...)...)

			require.NoError(t, err)
			assert.Contains(t, out, tt.out)
			assert.Equal(t, tt.names, env.outlineNames(t))
		})
	}
}

func TestOutlineAddCmd_TextPickDestination(t *testing.T) {
	env := setupTestServices(t)
	env.addGuide(t)

	_, err := execute(t, "-d", "guide", "outline", "add", "Pick", "--page", "4", "--x", "10", "--y", "700")
	require.NoError(t, err)

	engine, err := env.docs.Engine(t.Context(), "doc-1")
	require.NoError(t, err)
	outlines, err := engine.ListOutlines(t.Context())
	require.NoError(t, err)
	// Page space y=700 on a letter page is 92 from the top.
	assert.Equal(t, domain.Destination{Page: 4, X: 10, Y: domain.DefaultPageHeight - 700}, outlines[2].Destination)
}

func TestOutlineAddCmd_ReadOnly(t *testing.T) {
	env := setupTestServices(t)
	env.addGuide(t)
	require.NoError(t, env.settings.Set("panel.editing_enabled", "false"))

	_, err := execute(t, "-d", "guide", "outline", "add", "FAQ")

	assert.ErrorIs(t, err, domain.ErrNotEditable)
	assert.Len(t, env.outlineNames(t), 3)
}

func TestOutlineRenameCmd(t *testing.T) {
	env := setupTestServices(t)
	env.addGuide(t)

	out, err := execute(t, "-d", "guide", "outline", "rename", "0-0", "  GNU/Linux ")

	require.NoError(t, err)
	assert.Contains(t, out, `Renamed 0-0 to "GNU/Linux"`)
	assert.Contains(t, env.outlineNames(t), "0-0 GNU/Linux")
}

func TestOutlineRenameCmd_Errors(t *testing.T) {
	env := setupTestServices(t)
	env.addGuide(t)

	_, err := execute(t, "-d", "guide", "outline", "rename", "0--1", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidPath)

	_, err = execute(t, "-d", "guide", "outline", "rename", "5", "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = execute(t, "-d", "guide", "outline", "rename", "0", " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOutlineMoveCmd(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		out   string
		names []string
	}{
		{
			name:  "after by default",
			args:  []string{"0", "1"},
			out:   "Moved 0 after 1; now at 1",
			names: []string{"0 Usage", "1 Install", "1-0 Linux"},
		},
		{
			name:  "before",
			args:  []string{"1", "0", "--where", "before"},
			out:   "now at 0",
			names: []string{"0 Usage", "1 Install", "1-0 Linux"},
		},
		{
			name:  "inward",
			args:  []string{"1", "0", "-w", "inward"},
			out:   "now at 0-0",
			names: []string{"0 Install", "0-0 Usage", "0-1 Linux"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestServices(t)
			env.addGuide(t)

			out, err := execute(t, append([]string{"-d", "guide", "outline", "move"}, tt.args...)...)

			require.NoError(t, err)
			assert.Contains(t, out, tt.out)
			assert.Equal(t, tt.names, env.outlineNames(t))
		})
	}
}

func TestOutlineMoveCmd_Errors(t *testing.T) {
	env := setupTestServices(t)
	env.addGuide(t)

	_, err := execute(t, "-d", "guide", "outline", "move", "0", "0-0", "--where", "inward")
	assert.ErrorIs(t, err, domain.ErrInvalidMove)

	_, err = execute(t, "-d", "guide", "outline", "move", "0", "1", "--where", "up")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Len(t, env.outlineNames(t), 3)
}

func TestOutlineDeleteCmd_Yes(t *testing.T) {
	env := setupTestServices(t)
	env.addGuide(t)

	out, err := execute(t, "-d", "guide", "outline", "delete", "0-0", "1", "--yes")

	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 1, 0-0")
	assert.Equal(t, []string{"0 Install"}, env.outlineNames(t))
}

func TestOutlineDeleteCmd_Confirm(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		left   int
	}{
		{"yes", "y\n", 1},
		{"no", "n\n", 3},
		{"eof", "", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestServices(t)
			env.addGuide(t)
			orig := stdinIsTerm
			stdinIsTerm = func() bool { return true }
			defer func() { stdinIsTerm = orig }()
			rootCmd.SetIn(strings.NewReader(tt.answer))

			out, err := execute(t, "-d", "guide", "outline", "delete", "1", "0-0")

			require.NoError(t, err)
			assert.Contains(t, out, "Delete 1, 0-0 and their children? [y/N]")
			assert.Len(t, env.outlineNames(t), tt.left)
		})
	}
}

func TestOutlineDeleteCmd_RefusesWithoutTerminal(t *testing.T) {
	env := setupTestServices(t)
	env.addGuide(t)
	orig := stdinIsTerm
	stdinIsTerm = func() bool { return false }
	defer func() { stdinIsTerm = orig }()

	_, err := execute(t, "-d", "guide", "outline", "delete", "1")

	assert.ErrorContains(t, err, "refusing to delete without --yes")
	assert.Len(t, env.outlineNames(t), 3)
}

func TestOutlineDeleteCmd_UnknownPath(t *testing.T) {
	env := setupTestServices(t)
	env.addGuide(t)

	_, err := execute(t, "-d", "guide", "outline", "delete", "7", "--yes")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOutlineDestCmd(t *testing.T) {
	env := setupTestServices(t)
	env.addGuide(t)

	out, err := execute(t, "-d", "guide", "outline", "dest", "1", "--page", "9")

	require.NoError(t, err)
	assert.Contains(t, out, "1 now points to page 9")

	engine, err := env.docs.Engine(t.Context(), "doc-1")
	require.NoError(t, err)
	outlines, err := engine.ListOutlines(t.Context())
	require.NoError(t, err)
	assert.Equal(t, domain.FullPageDestination(9), outlines[1].Destination)
}

func TestOutlineGotoCmd(t *testing.T) {
	env := setupTestServices(t)
	env.addGuide(t)

	out, err := execute(t, "-d", "guide", "outline", "goto", "0-0")

	require.NoError(t, err)
	assert.Contains(t, out, `0-0 "Linux" -> page 2`)

	engine, ok := env.docs.MemoryEngine("doc-1")
	require.True(t, ok)
	assert.Equal(t, []domain.Path{"0-0"}, engine.Navigations())
}

func TestBookmarksCmd(t *testing.T) {
	env := setupTestServices(t)
	env.addGuide(t)

	out, err := execute(t, "-d", "guide", "bookmarks")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, out, domain.BookmarkID("0", "Install")+"\tbold\t#0000ff")
	assert.Contains(t, out, domain.BookmarkID("0-0", "Linux")+"\tnormal\t#000000")
}

func TestBookmarksCmd_Empty(t *testing.T) {
	env := setupTestServices(t)
	_, err := env.docs.CreateDocument(t.Context(), domain.Document{Name: "blank"})
	require.NoError(t, err)

	out, err := execute(t, "-d", "blank", "bookmarks")

	require.NoError(t, err)
	assert.Contains(t, out, "No bookmarks.")
}

func TestFormatRow_DefaultStyleHasNoTags(t *testing.T) {
	row := domain.PanelRow{
		OutlineRow: domain.OutlineRow{
			Node:  domain.OutlineNode{Path: "2", Name: "Index", Destination: domain.FullPageDestination(30)},
			Depth: 0,
		},
		Bookmark: &domain.BookmarkEntry{},
	}

	assert.Equal(t, "2      Index  (p. 30)", formatRow(row))
}
