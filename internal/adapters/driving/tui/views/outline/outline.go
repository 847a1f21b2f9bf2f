// Package outline provides the outline panel view.
package outline

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/outline-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/outline-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/outline-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/outline-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/outline-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/outline-cli/internal/core/domain"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driving"
)

// chrome is the number of lines used by the title, input and status bar.
const chrome = 4

// View renders the outline tree and drives the panel from key presses.
type View struct {
	ctx    context.Context
	panel  driving.OutlinePanel
	styles *styles.Styles
	keymap *keymap.KeyMap
	input  *input.NameInput
	bar    *status.Bar

	title      string
	autoExpand bool

	state domain.PanelState
	rows  []domain.PanelRow

	// toggled holds outlines whose expansion differs from autoExpand.
	toggled map[domain.Path]bool

	cursor int
	offset int

	// renaming is the outline whose name is being edited. It is zero
	// while the input is used for a new outline.
	renaming domain.Path

	// cut is the outline waiting to be dropped.
	cut domain.Path

	busy   bool
	err    error
	width  int
	height int
}

// NewView creates the outline view over an activated panel.
func NewView(
	ctx context.Context,
	s *styles.Styles,
	km *keymap.KeyMap,
	panel driving.OutlinePanel,
	title string,
	settings domain.PanelSettings,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	v := &View{
		ctx:        ctx,
		panel:      panel,
		styles:     s,
		keymap:     km,
		input:      input.NewNameInput(s),
		bar:        status.NewBar(s, km),
		title:      title,
		autoExpand: settings.AutoExpand,
		toggled:    make(map[domain.Path]bool),
		width:      80,
		height:     24,
	}
	v.sync()
	return v
}

// Init implements the view lifecycle.
func (v *View) Init() tea.Cmd {
	return nil
}

// Capturing reports whether key presses go to the name input.
func (v *View) Capturing() bool {
	return v.input.Focused()
}

// Update handles messages for the outline view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.PanelUpdated:
		return v.handlePanelUpdated(msg), nil
	case messages.SignalReceived:
		v.sync()
		return v, nil
	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handlePanelUpdated(msg messages.PanelUpdated) *View {
	v.busy = false
	v.err = msg.Err
	if msg.Err == nil {
		switch msg.Action {
		case messages.ActionAdd, messages.ActionMove, messages.ActionDelete:
			// Paths shift after structural edits.
			v.toggled = make(map[domain.Path]bool)
		}
	}
	v.sync()
	if msg.Err == nil && !msg.Path.IsZero() {
		v.moveTo(msg.Path)
	}
	v.bar.SetMessage(v.describe(msg))
	return v
}

func (v *View) describe(msg messages.PanelUpdated) string {
	if msg.Err != nil {
		return msg.Err.Error()
	}
	switch msg.Action {
	case messages.ActionAdd:
		return fmt.Sprintf("Added %s", msg.Path)
	case messages.ActionRename:
		return fmt.Sprintf("Renamed %s", msg.Path)
	case messages.ActionMove:
		return fmt.Sprintf("Moved to %s", msg.Path)
	case messages.ActionDelete:
		return "Deleted"
	case messages.ActionRefresh:
		return "Refreshed"
	case messages.ActionNavigate:
		return fmt.Sprintf("Showing %s", msg.Path)
	}
	return ""
}

//nolint:gocyclo // key dispatch
func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.input.Focused() {
		return v.handleInputKey(msg)
	}
	if len(v.state.PendingDelete) > 0 {
		return v.handleConfirmKey(msg)
	}
	if v.busy {
		return v, nil
	}

	keyStr := msg.String()
	km := v.keymap
	multi := v.state.Mode == domain.ModeMultiSelect
	row, hasRow := v.current()

	switch {
	case keymap.Matches(keyStr, km.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case keymap.Matches(keyStr, km.Down):
		if v.cursor < len(v.rows)-1 {
			v.cursor++
		}
	case keymap.Matches(keyStr, km.Expand):
		if hasRow && row.Node.HasChildren() && !v.isOpen(row.Node.Path) {
			v.setOpen(row.Node.Path, true)
			v.sync()
		}
	case keymap.Matches(keyStr, km.Collapse):
		v.collapse(row, hasRow)
	case keymap.Matches(keyStr, km.Navigate):
		if hasRow && !multi {
			return v.run(messages.ActionNavigate, func(ctx context.Context) (domain.Path, error) {
				path := row.Node.Path
				return path, v.panel.Navigate(ctx, path)
			})
		}
	case keymap.Matches(keyStr, km.Add):
		return v.beginAdd()
	case keymap.Matches(keyStr, km.Rename):
		if hasRow {
			return v.beginRename(row.Node)
		}
	case keymap.Matches(keyStr, km.Delete):
		v.requestDelete(row, hasRow)
	case keymap.Matches(keyStr, km.MultiSelect):
		v.toggleMultiSelect()
	case keymap.Matches(keyStr, km.Toggle):
		if multi && hasRow {
			v.panel.SetSelected(row.Node.Path, !row.Selected)
			v.sync()
		}
	case keymap.Matches(keyStr, km.Cut):
		if hasRow && !multi {
			v.cut = row.Node.Path
			v.err = nil
			v.sync()
		}
	case keymap.Matches(keyStr, km.MoveBefore):
		return v.drop(row, hasRow, domain.MoveBefore)
	case keymap.Matches(keyStr, km.MoveAfter):
		return v.drop(row, hasRow, domain.MoveAfter)
	case keymap.Matches(keyStr, km.MoveInward):
		return v.drop(row, hasRow, domain.MoveInward)
	case keymap.Matches(keyStr, km.Refresh):
		return v.run(messages.ActionRefresh, func(ctx context.Context) (domain.Path, error) {
			return domain.NoPath, v.panel.Refresh(ctx)
		})
	case keymap.Matches(keyStr, km.Cancel):
		if v.state.Mode == domain.ModeAddingNew {
			// A failed commit leaves the add open.
			return v.run(messages.ActionCancel, func(ctx context.Context) (domain.Path, error) {
				return domain.NoPath, v.panel.CancelAdd(ctx)
			})
		}
		v.cancel()
	}
	v.scroll()
	return v, nil
}

func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		name := v.input.Value()
		path := v.renaming
		v.input.Stop()
		if path.IsZero() {
			return v.run(messages.ActionAdd, func(ctx context.Context) (domain.Path, error) {
				return v.panel.CommitAdd(ctx, name)
			})
		}
		v.renaming = domain.NoPath
		return v.run(messages.ActionRename, func(ctx context.Context) (domain.Path, error) {
			return path, v.panel.CommitRename(ctx, path, name)
		})
	case tea.KeyEsc:
		v.input.Stop()
		if v.renaming.IsZero() {
			return v.run(messages.ActionCancel, func(ctx context.Context) (domain.Path, error) {
				return domain.NoPath, v.panel.CancelAdd(ctx)
			})
		}
		v.panel.CancelRename(v.renaming)
		v.renaming = domain.NoPath
		v.sync()
		return v, nil
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleConfirmKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.Confirm):
		return v.run(messages.ActionDelete, func(ctx context.Context) (domain.Path, error) {
			return domain.NoPath, v.panel.ConfirmDelete(ctx)
		})
	case keymap.Matches(keyStr, v.keymap.Deny):
		v.panel.CancelDelete()
		v.sync()
	}
	return v, nil
}

func (v *View) beginAdd() (*View, tea.Cmd) {
	if err := v.panel.BeginAdd(v.ctx); err != nil {
		v.fail(err)
		return v, nil
	}
	v.renaming = domain.NoPath
	v.err = nil
	v.state = v.panel.State()
	parent := "top level"
	if !v.state.ActivePath.IsZero() {
		parent = v.state.ActivePath.String()
	}
	cmd := v.input.Start("New outline under "+parent, v.state.Destination.Text, "")
	v.sync()
	return v, cmd
}

func (v *View) beginRename(node domain.OutlineNode) (*View, tea.Cmd) {
	if err := v.panel.BeginRename(node.Path); err != nil {
		v.fail(err)
		return v, nil
	}
	v.renaming = node.Path
	v.err = nil
	cmd := v.input.Start("Rename "+node.Path.String(), node.Name, node.Name)
	v.sync()
	return v, cmd
}

func (v *View) requestDelete(row domain.PanelRow, hasRow bool) {
	var paths []domain.Path
	if v.state.Mode == domain.ModeMultiSelect {
		paths = v.state.Selected
	} else if hasRow {
		paths = []domain.Path{row.Node.Path}
	}
	if err := v.panel.RequestDelete(paths); err != nil {
		v.fail(err)
		return
	}
	v.err = nil
	v.sync()
}

func (v *View) toggleMultiSelect() {
	var err error
	if v.state.Mode == domain.ModeMultiSelect {
		err = v.panel.ExitMultiSelect()
	} else {
		err = v.panel.EnterMultiSelect()
		v.cut = domain.NoPath
	}
	if err != nil {
		v.fail(err)
		return
	}
	v.err = nil
	v.sync()
}

func (v *View) drop(row domain.PanelRow, hasRow bool, dir domain.MoveDirection) (*View, tea.Cmd) {
	if v.cut.IsZero() || !hasRow {
		return v, nil
	}
	drag, drop := v.cut, row.Node.Path
	v.cut = domain.NoPath
	return v.run(messages.ActionMove, func(ctx context.Context) (domain.Path, error) {
		return v.panel.Move(ctx, drag, drop, dir)
	})
}

func (v *View) collapse(row domain.PanelRow, hasRow bool) {
	if !hasRow {
		return
	}
	if row.Node.HasChildren() && v.isOpen(row.Node.Path) {
		v.setOpen(row.Node.Path, false)
		v.sync()
		return
	}
	if parent := row.Node.Path.Parent(); !parent.IsZero() {
		v.moveTo(parent)
	}
}

func (v *View) cancel() {
	switch {
	case !v.cut.IsZero():
		v.cut = domain.NoPath
	case v.state.AnyRenaming():
		for _, p := range v.state.Editing {
			v.panel.CancelRename(p)
		}
	case v.state.Mode == domain.ModeMultiSelect:
		if err := v.panel.ExitMultiSelect(); err != nil {
			v.fail(err)
			return
		}
	case !v.state.ActivePath.IsZero():
		v.panel.ClearActive()
	}
	v.err = nil
	v.sync()
}

// run executes a panel call off the update loop.
func (v *View) run(action messages.Action, fn func(ctx context.Context) (domain.Path, error)) (*View, tea.Cmd) {
	v.busy = true
	v.bar.SetState(status.StateBusy)
	ctx := v.ctx
	return v, func() tea.Msg {
		path, err := fn(ctx)
		return messages.PanelUpdated{Action: action, Path: path, Err: err}
	}
}

func (v *View) fail(err error) {
	v.err = err
	v.bar.SetState(status.StateError)
	v.bar.SetMessage(err.Error())
}

func (v *View) isOpen(p domain.Path) bool {
	return v.autoExpand != v.toggled[p]
}

func (v *View) setOpen(p domain.Path, open bool) {
	if open == v.autoExpand {
		delete(v.toggled, p)
		return
	}
	v.toggled[p] = true
}

func (v *View) visible(p domain.Path) bool {
	for a := p.Parent(); !a.IsZero(); a = a.Parent() {
		if !v.isOpen(a) {
			return false
		}
	}
	return true
}

func (v *View) current() (domain.PanelRow, bool) {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return domain.PanelRow{}, false
	}
	return v.rows[v.cursor], true
}

func (v *View) moveTo(p domain.Path) {
	// Reveal the target if a collapsed ancestor hides it.
	for a := p.Parent(); !a.IsZero(); a = a.Parent() {
		v.setOpen(a, true)
	}
	v.rebuild()
	for i, r := range v.rows {
		if r.Node.Path == p {
			v.cursor = i
			break
		}
	}
	v.scroll()
}

// sync pulls panel state and keeps the cursor on the same outline.
func (v *View) sync() {
	var keep domain.Path
	if row, ok := v.current(); ok {
		keep = row.Node.Path
	}
	v.state = v.panel.State()
	v.rebuild()
	if !keep.IsZero() {
		for i, r := range v.rows {
			if r.Node.Path == keep {
				v.cursor = i
				break
			}
		}
	}
	if v.cursor >= len(v.rows) {
		v.cursor = len(v.rows) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
	v.scroll()
	v.updateBar()
}

func (v *View) rebuild() {
	all := v.panel.Rows()
	v.rows = make([]domain.PanelRow, 0, len(all))
	for _, r := range all {
		if v.visible(r.Node.Path) {
			v.rows = append(v.rows, r)
		}
	}
}

func (v *View) updateBar() {
	v.bar.SetCount(domain.CountOutlines(v.state.Outlines))
	switch {
	case v.busy:
		v.bar.SetState(status.StateBusy)
	case v.err != nil:
		v.bar.SetState(status.StateError)
		v.bar.SetMessage(v.err.Error())
	case len(v.state.PendingDelete) > 0:
		v.bar.SetState(status.StateConfirm)
		v.bar.SetMessage(fmt.Sprintf("Delete %d outline(s) and their children?", len(v.state.PendingDelete)))
	case v.input.Focused():
		v.bar.SetState(status.StateEditing)
		v.bar.SetMessage("")
	case v.state.Mode == domain.ModeMultiSelect:
		v.bar.SetState(status.StateMultiSelect)
		v.bar.SetMessage(fmt.Sprintf("%d selected", len(v.state.Selected)))
	case !v.cut.IsZero():
		v.bar.SetState(status.StateMoving)
		v.bar.SetMessage(fmt.Sprintf("Moving %s", v.cut))
	default:
		v.bar.Clear()
	}
}

func (v *View) listHeight() int {
	h := v.height - chrome
	if h < 1 {
		h = 1
	}
	return h
}

func (v *View) scroll() {
	h := v.listHeight()
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+h {
		v.offset = v.cursor - h + 1
	}
	if v.offset < 0 {
		v.offset = 0
	}
}

// View renders the outline panel.
func (v *View) View() string {
	var b strings.Builder

	title := "Outlines"
	if v.title != "" {
		title += ": " + v.title
	}
	if !v.state.Editable {
		title += " (read only)"
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")

	if len(v.rows) == 0 {
		b.WriteString(v.styles.Muted.Render("  No outlines. Press a to add one."))
		b.WriteString("\n")
	}

	end := v.offset + v.listHeight()
	if end > len(v.rows) {
		end = len(v.rows)
	}
	for i := v.offset; i < end; i++ {
		b.WriteString(v.renderRow(i, v.rows[i]))
		b.WriteString("\n")
	}

	if v.input.Focused() {
		b.WriteString(v.input.View())
		b.WriteString("\n")
	} else if v.state.BookmarksErr != nil {
		b.WriteString(v.styles.Warning.Render("  Bookmark styles unavailable: " + v.state.BookmarksErr.Error()))
		b.WriteString("\n")
	}

	b.WriteString(v.bar.View())
	return b.String()
}

func (v *View) renderRow(i int, row domain.PanelRow) string {
	node := row.Node

	cursor := "  "
	if i == v.cursor {
		cursor = "> "
	}

	check := ""
	if v.state.Mode == domain.ModeMultiSelect {
		check = "[ ] "
		if row.Selected {
			check = "[x] "
		}
	}

	marker := "  "
	if node.HasChildren() {
		marker = "▸ "
		if v.isOpen(node.Path) {
			marker = "▾ "
		}
	}

	nameStyle := v.styles.Normal
	if row.Bookmark != nil {
		nameStyle = v.styles.Bookmark(row.Bookmark.Style)
	}
	name := nameStyle.Render(node.Name)
	switch {
	case node.Path == v.cut || row.Selected:
		name = v.styles.Marked.Render(node.Name)
	case row.Active:
		name = v.styles.Active.Render(node.Name)
	}

	suffix := v.styles.Page.Render(fmt.Sprintf("  p.%d", node.Destination.Page))
	if row.Editing {
		suffix += v.styles.Muted.Render("  (renaming)")
	}

	line := cursor + strings.Repeat("  ", row.Depth) + check + marker + name + suffix
	if i == v.cursor {
		return v.styles.Selected.Render(cursor) + line[len(cursor):]
	}
	return line
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)
	v.bar.SetWidth(width)
	v.scroll()
}

// Rows returns the visible rows.
func (v *View) Rows() []domain.PanelRow {
	return v.rows
}

// Cursor returns the cursor index into the visible rows.
func (v *View) Cursor() int {
	return v.cursor
}

// Cut returns the outline waiting to be dropped.
func (v *View) Cut() domain.Path {
	return v.cut
}

// Busy reports whether a panel call is in flight.
func (v *View) Busy() bool {
	return v.busy
}

// Err returns the last error shown.
func (v *View) Err() error {
	return v.err
}
