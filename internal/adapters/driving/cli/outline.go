package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/outline-cli/internal/core/domain"
)

var outlineCmd = &cobra.Command{
	Use:   "outline",
	Short: "Edit a document's outlines",
	Long: `List and edit the outline tree of the document selected with --document.

Paths are dash-separated sibling indices, e.g. "1-0" is the first child of
the second top-level outline. Paths change after every structural edit, so
list the outlines again before chaining edits.`,
}

var outlineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List outlines with their bookmark styling",
	Args:  cobra.NoArgs,
	RunE:  runOutlineList,
}

var outlineAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add an outline",
	Long: `Adds an outline pointing at --page. Without --parent it is appended at the
top level, otherwise as the last child of the parent.

Without a name, the --text preview (truncated) or the configured untitled
name is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOutlineAdd,
}

var outlineRenameCmd = &cobra.Command{
	Use:   "rename [path] [name]",
	Short: "Rename an outline",
	Args:  cobra.ExactArgs(2),
	RunE:  runOutlineRename,
}

var outlineMoveCmd = &cobra.Command{
	Use:   "move [drag-path] [drop-path]",
	Short: "Move an outline relative to another",
	Long: `Moves the outline at drag-path before, after, or inward (as first child of)
the outline at drop-path.`,
	Args: cobra.ExactArgs(2),
	RunE: runOutlineMove,
}

var outlineDeleteCmd = &cobra.Command{
	Use:   "delete [path...]",
	Short: "Delete outlines and their children",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runOutlineDelete,
}

var outlineDestCmd = &cobra.Command{
	Use:   "dest [path]",
	Short: "Change where an outline points",
	Args:  cobra.ExactArgs(1),
	RunE:  runOutlineDest,
}

var outlineGotoCmd = &cobra.Command{
	Use:   "goto [path]",
	Short: "Navigate to an outline",
	Args:  cobra.ExactArgs(1),
	RunE:  runOutlineGoto,
}

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "Print the flattened bookmark map",
	Long:  `Walks the bookmark tree breadth-first and prints each entry's id and styling.`,
	Args:  cobra.NoArgs,
	RunE:  runBookmarks,
}

// Flags for outline commands.
var (
	addParent   string
	destPage    int
	destX       float64
	destY       float64
	destText    string
	moveWhere   string
	deleteYes   bool
	stdinIsTerm = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
)

func addDestinationFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&destPage, "page", 1, "Destination page")
	cmd.Flags().Float64Var(&destX, "x", 0, "Destination x in page space")
	cmd.Flags().Float64Var(&destY, "y", 0, "Destination y in page space")
	cmd.Flags().StringVar(&destText, "text", "", "Picked text preview (marks a text pick)")
}

func init() {
	addDestinationFlags(outlineAddCmd)
	outlineAddCmd.Flags().StringVarP(&addParent, "parent", "p", "", "Parent outline path")
	addDestinationFlags(outlineDestCmd)
	outlineMoveCmd.Flags().StringVarP(&moveWhere, "where", "w", "after", "before, after, or inward")
	outlineDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip confirmation")

	outlineCmd.AddCommand(outlineListCmd)
	outlineCmd.AddCommand(outlineAddCmd)
	outlineCmd.AddCommand(outlineRenameCmd)
	outlineCmd.AddCommand(outlineMoveCmd)
	outlineCmd.AddCommand(outlineDeleteCmd)
	outlineCmd.AddCommand(outlineDestCmd)
	outlineCmd.AddCommand(outlineGotoCmd)
	rootCmd.AddCommand(outlineCmd)
	rootCmd.AddCommand(bookmarksCmd)
}

func runOutlineList(cmd *cobra.Command, _ []string) error {
	doc, panel, err := openPanel(cmd.Context())
	if err != nil {
		return err
	}
	defer panel.Deactivate()

	rows := panel.Rows()
	if len(rows) == 0 {
		cmd.Printf("%s has no outlines.\n", doc.Name)
		return nil
	}
	for _, row := range rows {
		cmd.Println(formatRow(row))
	}
	if err := panel.State().BookmarksErr; err != nil {
		cmd.PrintErrf("warning: bookmark styling unavailable: %v\n", err)
	}
	return nil
}

// formatRow renders "  0-1  Name  (p. 3)  [bold #ff0000]".
func formatRow(row domain.PanelRow) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", row.Depth))
	fmt.Fprintf(&b, "%-6s %s  (p. %d)", row.Node.Path, row.Node.Name, row.Node.Destination.Page)
	if bm := row.Bookmark; bm != nil {
		var tags []string
		if bm.Style.Flag != domain.FlagNormal {
			tags = append(tags, bm.Style.Flag.String())
		}
		if bm.Style.Color != domain.Black {
			tags = append(tags, bm.Style.Color.Hex())
		}
		if len(tags) > 0 {
			fmt.Fprintf(&b, "  [%s]", strings.Join(tags, " "))
		}
	}
	return b.String()
}

// pick returns the destination flags as a capture-tool pick, or false when
// only the page was given.
func pick(cmd *cobra.Command) (domain.DestinationPick, bool) {
	flags := cmd.Flags()
	if !flags.Changed("x") && !flags.Changed("y") && destText == "" {
		return domain.DestinationPick{}, false
	}
	return domain.DestinationPick{
		Page:        destPage,
		X:           destX,
		Y:           destY,
		IsText:      destText != "",
		PreviewText: destText,
	}, true
}

func runOutlineAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	_, panel, err := openPanel(ctx)
	if err != nil {
		return err
	}
	defer panel.Deactivate()

	panel.SetCurrentPage(destPage)
	if addParent != "" {
		parent, err := domain.ParsePath(addParent)
		if err != nil {
			return err
		}
		panel.SetActive(parent)
	}

	if err := panel.BeginAdd(ctx); err != nil {
		return fmt.Errorf("failed to start adding: %w", err)
	}
	if p, ok := pick(cmd); ok {
		panel.PickDestination(p)
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	}
	path, err := panel.CommitAdd(ctx, name)
	if err != nil {
		_ = panel.CancelAdd(ctx)
		return fmt.Errorf("failed to add outline: %w", err)
	}

	if node, ok := domain.FindOutline(panel.State().Outlines, path); ok {
		cmd.Printf("Added %s %q\n", path, node.Name)
	} else {
		cmd.Printf("Added %s\n", path)
	}
	return nil
}

func runOutlineRename(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path, err := domain.ParsePath(args[0])
	if err != nil {
		return err
	}
	_, panel, err := openPanel(ctx)
	if err != nil {
		return err
	}
	defer panel.Deactivate()

	if err := panel.BeginRename(path); err != nil {
		return fmt.Errorf("failed to rename %s: %w", path, err)
	}
	if err := panel.CommitRename(ctx, path, args[1]); err != nil {
		return fmt.Errorf("failed to rename %s: %w", path, err)
	}

	cmd.Printf("Renamed %s to %q\n", path, strings.TrimSpace(args[1]))
	return nil
}

func runOutlineMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	drag, err := domain.ParsePath(args[0])
	if err != nil {
		return err
	}
	drop, err := domain.ParsePath(args[1])
	if err != nil {
		return err
	}
	dir, err := domain.ParseMoveDirection(moveWhere)
	if err != nil {
		return fmt.Errorf("%w: --where must be before, after, or inward", err)
	}

	_, panel, err := openPanel(ctx)
	if err != nil {
		return err
	}
	defer panel.Deactivate()

	moved, err := panel.Move(ctx, drag, drop, dir)
	if err != nil {
		return fmt.Errorf("failed to move %s: %w", drag, err)
	}

	cmd.Printf("Moved %s %s %s; now at %s\n", drag, dir, drop, moved)
	return nil
}

func runOutlineDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	paths := make([]domain.Path, 0, len(args))
	for _, arg := range args {
		p, err := domain.ParsePath(arg)
		if err != nil {
			return err
		}
		paths = append(paths, p)
	}

	_, panel, err := openPanel(ctx)
	if err != nil {
		return err
	}
	defer panel.Deactivate()

	if err := panel.RequestDelete(paths); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	pending := panel.State().PendingDelete

	if !deleteYes {
		if !stdinIsTerm() {
			panel.CancelDelete()
			return errors.New("refusing to delete without --yes when stdin is not a terminal")
		}
		ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete %s and their children?", joinPaths(pending)))
		if err != nil || !ok {
			panel.CancelDelete()
			cmd.Println("Cancelled.")
			return err
		}
	}

	if err := panel.ConfirmDelete(ctx); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	cmd.Printf("Deleted %s\n", joinPaths(pending))
	return nil
}

func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func joinPaths(paths []domain.Path) string {
	parts := make([]string, len(paths))
	for i, p := range paths {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

func runOutlineDest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path, err := domain.ParsePath(args[0])
	if err != nil {
		return err
	}
	_, panel, err := openPanel(ctx)
	if err != nil {
		return err
	}
	defer panel.Deactivate()

	panel.SetCurrentPage(destPage)
	if p, ok := pick(cmd); ok {
		panel.PickDestination(p)
	}
	if err := panel.UpdateDestination(ctx, path); err != nil {
		return fmt.Errorf("failed to update destination: %w", err)
	}

	cmd.Printf("%s now points to page %d\n", path, destPage)
	return nil
}

func runOutlineGoto(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path, err := domain.ParsePath(args[0])
	if err != nil {
		return err
	}
	_, panel, err := openPanel(ctx)
	if err != nil {
		return err
	}
	defer panel.Deactivate()

	if err := panel.Navigate(ctx, path); err != nil {
		return fmt.Errorf("failed to navigate: %w", err)
	}
	node, _ := domain.FindOutline(panel.State().Outlines, path)
	cmd.Printf("%s %q -> page %d\n", path, node.Name, node.Destination.Page)
	return nil
}

func runBookmarks(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	_, engine, err := openEngine(ctx)
	if err != nil {
		return err
	}

	flattener := svc.Flattener
	if flattener == nil {
		return errors.New("bookmark flattener not configured")
	}
	bookmarks, err := flattener.Flatten(ctx, engine)
	if err != nil {
		return fmt.Errorf("failed to read bookmarks: %w", err)
	}
	if len(bookmarks) == 0 {
		cmd.Println("No bookmarks.")
		return nil
	}

	ids := make([]string, 0, len(bookmarks))
	for id := range bookmarks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		e := bookmarks[id]
		cmd.Printf("%s\t%s\t%s\n", id, e.Style.Flag, e.Style.Color.Hex())
	}
	return nil
}
