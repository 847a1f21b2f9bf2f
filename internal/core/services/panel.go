package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/custodia-labs/outline-cli/internal/core/domain"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driven"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driving"
	"github.com/custodia-labs/outline-cli/internal/logger"
)

// Ensure OutlinePanelService implements the interface.
var _ driving.OutlinePanel = (*OutlinePanelService)(nil)

// OutlinePanelService coordinates outline editing against a document engine.
//
// The engine owns the outline tree. The service keeps a cached copy of it and
// of the bookmark map, and replaces both wholesale after every mutation and
// on every engine signal. Paths are only valid for the snapshot they came from.
type OutlinePanelService struct {
	engine    driven.DocumentEngine
	signals   driven.Signals
	flattener driving.BookmarkFlattener
	settings  domain.PanelSettings
	log       zerolog.Logger

	mu       sync.Mutex
	active   bool
	editable bool
	// epoch changes on every activate/deactivate so results started in an
	// earlier lifetime are dropped.
	epoch uint64
	// gen numbers refreshes; a result older than the last committed one is
	// dropped.
	gen          uint64
	outlinesGen  uint64
	bookmarksGen uint64
	unsubs       []driven.Unsubscribe
	signalCtx    context.Context

	outlines      []domain.OutlineNode
	bookmarks     domain.BookmarkMap
	bookmarksErr  error
	mode          domain.PanelMode
	activePath    domain.Path
	nextActive    domain.Path
	selected      []domain.Path
	editing       map[domain.Path]struct{}
	pendingDelete []domain.Path
	capture       domain.DestinationCapture
	capturing     bool
	currentPage   int
}

// NewOutlinePanelService creates a panel controller. signals may be nil, in
// which case the panel only refreshes when asked to.
func NewOutlinePanelService(
	engine driven.DocumentEngine,
	signals driven.Signals,
	flattener driving.BookmarkFlattener,
	settings domain.PanelSettings,
) *OutlinePanelService {
	if settings.UntitledName == "" {
		settings.UntitledName = domain.DefaultAppSettings().Panel.UntitledName
	}
	if !settings.BookmarkFailure.IsValid() {
		settings.BookmarkFailure = domain.RetainOnFailure
	}
	return &OutlinePanelService{
		engine:      engine,
		signals:     signals,
		flattener:   flattener,
		settings:    settings,
		log:         logger.Component("panel"),
		bookmarks:   domain.BookmarkMap{},
		editing:     make(map[domain.Path]struct{}),
		capture:     domain.DefaultCapture(1),
		currentPage: 1,
	}
}

// Activate subscribes to engine signals and loads the initial state.
func (s *OutlinePanelService) Activate(ctx context.Context) error {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return nil
	}
	s.active = true
	s.epoch++
	s.editable = s.settings.EditingEnabled && s.engine.ExtendedModeEnabled(ctx)
	s.bookmarks = domain.BookmarkMap{}
	s.bookmarksErr = nil
	s.signalCtx = context.WithoutCancel(ctx)
	s.mu.Unlock()

	if s.signals != nil {
		unsubs := []driven.Unsubscribe{
			s.signals.OnDocumentLoaded(func() { s.onSignal("document-loaded", s.Refresh) }),
			s.signals.OnForceUpdateOutlines(func() { s.onSignal("force-update", s.Refresh) }),
			s.signals.OnOutlinesChanged(func() { s.onSignal("outlines-changed", s.ReloadOutlines) }),
			s.signals.OnDestinationPicked(s.PickDestination),
		}
		s.mu.Lock()
		s.unsubs = unsubs
		s.mu.Unlock()
	}

	s.log.Debug().Bool("editable", s.editable).Msg("panel activated")
	return s.Refresh(ctx)
}

func (s *OutlinePanelService) onSignal(name string, fn func(context.Context) error) {
	s.mu.Lock()
	ctx, active := s.signalCtx, s.active
	s.mu.Unlock()
	if !active {
		return
	}
	if err := fn(ctx); err != nil {
		s.log.Warn().Err(err).Str("signal", name).Msg("refresh after signal failed")
	}
}

// Deactivate unsubscribes from signals and drops the bookmark map.
// Engine calls already in flight complete but their results are discarded.
func (s *OutlinePanelService) Deactivate() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	s.epoch++
	unsubs := s.unsubs
	s.unsubs = nil
	s.bookmarks = domain.BookmarkMap{}
	s.bookmarksErr = nil
	s.mode = domain.ModeIdle
	s.selected = nil
	s.pendingDelete = nil
	s.editing = make(map[domain.Path]struct{})
	capturing := s.capturing
	s.capturing = false
	ctx := s.signalCtx
	s.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
	if capturing {
		s.stopCapture(ctx)
	}
	s.log.Debug().Msg("panel deactivated")
}

// Refresh rebuilds the bookmark map and reloads the outline list.
func (s *OutlinePanelService) Refresh(ctx context.Context) error {
	flattenErr, listErr, err := s.refresh(ctx)
	if err != nil {
		return err
	}
	return errors.Join(flattenErr, listErr)
}

// resync follows a local mutation. Paths have shifted, so the bookmark map
// is rebuilt along with the outlines. A flatten failure is recorded on the
// state under the failure policy; only a failed reload is returned, since
// the mutation itself went through.
func (s *OutlinePanelService) resync(ctx context.Context) error {
	_, listErr, err := s.refresh(ctx)
	if err != nil {
		return err
	}
	return listErr
}

func (s *OutlinePanelService) refresh(ctx context.Context) (flattenErr, listErr, err error) {
	gen, epoch, err := s.beginRefresh()
	if err != nil {
		return nil, nil, err
	}

	bookmarks, flattenErr := s.flattener.Flatten(ctx, s.engine)
	outlines, listErr := s.engine.ListOutlines(ctx)

	s.mu.Lock()
	capturing := false
	if s.current(epoch) {
		if gen > s.bookmarksGen {
			s.bookmarksGen = gen
			s.commitBookmarksLocked(bookmarks, flattenErr)
		}
		if listErr == nil && gen > s.outlinesGen {
			capturing = s.applyOutlinesLocked(gen, outlines)
		}
	}
	s.mu.Unlock()

	if capturing {
		s.stopCapture(ctx)
	}

	if flattenErr != nil {
		flattenErr = fmt.Errorf("flatten bookmarks: %w", flattenErr)
	}
	if listErr != nil {
		listErr = fmt.Errorf("list outlines: %w", listErr)
	}
	return flattenErr, listErr, nil
}

// ReloadOutlines re-lists the outline tree without touching bookmarks.
func (s *OutlinePanelService) ReloadOutlines(ctx context.Context) error {
	gen, epoch, err := s.beginRefresh()
	if err != nil {
		return err
	}

	outlines, err := s.engine.ListOutlines(ctx)
	if err != nil {
		return fmt.Errorf("list outlines: %w", err)
	}

	s.mu.Lock()
	capturing := false
	if s.current(epoch) && gen > s.outlinesGen {
		capturing = s.applyOutlinesLocked(gen, outlines)
	}
	s.mu.Unlock()

	if capturing {
		s.stopCapture(ctx)
	}
	return nil
}

func (s *OutlinePanelService) beginRefresh() (gen, epoch uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return 0, 0, domain.ErrPanelInactive
	}
	s.gen++
	return s.gen, s.epoch, nil
}

// current reports whether a result from epoch may still be committed.
func (s *OutlinePanelService) current(epoch uint64) bool {
	return s.active && s.epoch == epoch
}

func (s *OutlinePanelService) commitBookmarksLocked(m domain.BookmarkMap, err error) {
	if err == nil {
		s.bookmarks = m
		s.bookmarksErr = nil
		return
	}
	s.bookmarksErr = err
	if s.settings.BookmarkFailure == domain.ClearOnFailure {
		s.bookmarks = domain.BookmarkMap{}
	}
	s.log.Warn().Err(err).Str("policy", string(s.settings.BookmarkFailure)).Msg("bookmarks unavailable")
}

// applyOutlinesLocked swaps in a new outline list and resets the state that
// was keyed on the old paths. Selection and a staged delete survive only an
// identical snapshot: after any change their paths may name other outlines.
// It reports whether the capture tool was on.
func (s *OutlinePanelService) applyOutlinesLocked(gen uint64, outlines []domain.OutlineNode) bool {
	changed := !domain.SameOutlines(s.outlines, outlines)
	s.outlinesGen = gen
	s.outlines = outlines
	s.editing = make(map[domain.Path]struct{})
	if changed {
		s.selected = nil
		s.pendingDelete = nil
		if _, ok := domain.FindOutline(outlines, s.activePath); !ok {
			s.activePath = domain.NoPath
		}
	}
	s.capture = domain.DefaultCapture(s.currentPage)

	if s.mode == domain.ModeAddingNew {
		s.mode = domain.ModeIdle
	}
	if !s.nextActive.IsZero() {
		s.activePath = s.nextActive
		s.nextActive = domain.NoPath
	}
	if len(outlines) == 0 && s.mode == domain.ModeMultiSelect {
		s.mode = domain.ModeIdle
		s.selected = nil
	}

	capturing := s.capturing
	s.capturing = false
	return capturing
}

func (s *OutlinePanelService) stopCapture(ctx context.Context) {
	if err := s.engine.SetDestinationCapture(ctx, false); err != nil {
		s.log.Warn().Err(err).Msg("failed to leave destination capture")
	}
}

// State returns a snapshot of the panel.
func (s *OutlinePanelService) State() domain.PanelState {
	s.mu.Lock()
	defer s.mu.Unlock()

	editing := make([]domain.Path, 0, len(s.editing))
	for p := range s.editing {
		editing = append(editing, p)
	}
	sort.Slice(editing, func(i, j int) bool {
		return domain.ComparePaths(editing[i], editing[j]) < 0
	})

	return domain.PanelState{
		Outlines:      s.outlines,
		Bookmarks:     s.bookmarks.Clone(),
		BookmarksErr:  s.bookmarksErr,
		Mode:          s.mode,
		ActivePath:    s.activePath,
		Selected:      append([]domain.Path(nil), s.selected...),
		Editing:       editing,
		PendingDelete: append([]domain.Path(nil), s.pendingDelete...),
		Destination:   s.capture,
		Editable:      s.editable,
		Active:        s.active,
	}
}

// Rows returns the outline tree in display order, each row merged with
// its bookmark entry when one exists.
func (s *OutlinePanelService) Rows() []domain.PanelRow {
	state := s.State()
	flat := domain.FlattenOutlines(state.Outlines)
	rows := make([]domain.PanelRow, 0, len(flat))
	for _, r := range flat {
		row := domain.PanelRow{
			OutlineRow: r,
			Active:     r.Node.Path == state.ActivePath,
			Selected:   state.IsSelected(r.Node.Path),
			Editing:    state.IsEditing(r.Node.Path),
		}
		if entry, ok := state.Bookmarks.Lookup(r.Node); ok {
			row.Bookmark = &entry
		}
		rows = append(rows, row)
	}
	return rows
}

// SetActive marks path as the active outline.
func (s *OutlinePanelService) SetActive(path domain.Path) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activePath = path
}

// ClearActive clears the active outline.
func (s *OutlinePanelService) ClearActive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activePath = domain.NoPath
}

// SetCurrentPage records the viewer page. A full-page capture follows it.
func (s *OutlinePanelService) SetCurrentPage(page int) {
	if page < 1 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentPage = page
	if s.capture.Text == domain.FullPageText {
		s.capture.Page = page
	}
}

// checkEditableLocked gates mutations.
func (s *OutlinePanelService) checkEditableLocked() error {
	if !s.active {
		return domain.ErrPanelInactive
	}
	if !s.editable {
		return domain.ErrNotEditable
	}
	return nil
}

// BeginAdd enters adding mode and switches the engine to destination capture.
// It is allowed from idle and from multi-select while nothing is selected.
func (s *OutlinePanelService) BeginAdd(ctx context.Context) error {
	s.mu.Lock()
	if err := s.checkEditableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	emptySelect := s.mode == domain.ModeMultiSelect && len(s.selected) == 0
	if s.mode != domain.ModeIdle && !emptySelect {
		mode := s.mode
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot add while %s", domain.ErrInvalidState, mode)
	}
	s.mode = domain.ModeAddingNew
	s.capture = domain.DefaultCapture(s.currentPage)
	s.capturing = true
	s.mu.Unlock()

	if err := s.engine.SetDestinationCapture(ctx, true); err != nil {
		s.mu.Lock()
		s.mode = domain.ModeIdle
		s.capturing = false
		s.mu.Unlock()
		return fmt.Errorf("enter destination capture: %w", err)
	}
	return nil
}

// PickDestination stages a location picked with the capture tool.
func (s *OutlinePanelService) PickDestination(pick domain.DestinationPick) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.capture = domain.CaptureFromPick(pick)
}

// CommitAdd creates the outline being added. It goes at the root when the
// tree is empty or nothing is active, otherwise it becomes the last child
// of the active outline. The new outline becomes active after the reload.
func (s *OutlinePanelService) CommitAdd(ctx context.Context, name string) (domain.Path, error) {
	s.mu.Lock()
	if err := s.checkEditableLocked(); err != nil {
		s.mu.Unlock()
		return domain.NoPath, err
	}
	if s.mode != domain.ModeAddingNew {
		s.mu.Unlock()
		return domain.NoPath, fmt.Errorf("%w: not adding", domain.ErrInvalidState)
	}
	capture := s.capture
	parent := s.activePath
	empty := len(s.outlines) == 0
	s.mu.Unlock()

	dest, err := s.destinationFor(ctx, capture)
	if err != nil {
		return domain.NoPath, err
	}
	outlineName := capture.NameFor(strings.TrimSpace(name), s.settings.UntitledName)

	var path domain.Path
	if empty || parent.IsZero() {
		path, err = s.engine.AddRootOutline(ctx, outlineName, dest)
	} else {
		path, err = s.engine.AddChildOutline(ctx, outlineName, parent, dest)
	}
	if err != nil {
		return domain.NoPath, fmt.Errorf("add outline %q: %w", outlineName, err)
	}
	s.log.Debug().Str("path", path.String()).Str("name", outlineName).Int("page", dest.Page).Msg("outline added")

	s.setNextActive(path)
	return path, s.resync(ctx)
}

// destinationFor converts a capture into engine coordinates. Full-page
// captures keep the page origin.
func (s *OutlinePanelService) destinationFor(ctx context.Context, c domain.DestinationCapture) (domain.Destination, error) {
	if c.Text == domain.FullPageText {
		return domain.FullPageDestination(c.Page), nil
	}
	x, y, err := s.engine.PageToViewer(ctx, c.Page, c.X, c.Y)
	if err != nil {
		return domain.Destination{}, fmt.Errorf("convert destination: %w", err)
	}
	return domain.Destination{Page: c.Page, X: x, Y: y}, nil
}

func (s *OutlinePanelService) setNextActive(path domain.Path) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextActive = path
}

// CancelAdd leaves adding mode without touching the engine's tree.
func (s *OutlinePanelService) CancelAdd(ctx context.Context) error {
	s.mu.Lock()
	if s.mode != domain.ModeAddingNew {
		s.mu.Unlock()
		return nil
	}
	s.mode = domain.ModeIdle
	s.capture = domain.DefaultCapture(s.currentPage)
	capturing := s.capturing
	s.capturing = false
	s.mu.Unlock()

	if capturing {
		if err := s.engine.SetDestinationCapture(ctx, false); err != nil {
			return fmt.Errorf("leave destination capture: %w", err)
		}
	}
	return nil
}

// UpdateDestination re-targets an existing outline to the staged capture.
func (s *OutlinePanelService) UpdateDestination(ctx context.Context, path domain.Path) error {
	s.mu.Lock()
	if err := s.checkEditableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	capture := s.capture
	s.mu.Unlock()

	dest, err := s.destinationFor(ctx, capture)
	if err != nil {
		return err
	}
	if err := s.engine.SetOutlineDestination(ctx, path, dest); err != nil {
		return fmt.Errorf("set destination of %s: %w", path, err)
	}
	s.log.Debug().Str("path", path.String()).Int("page", dest.Page).Msg("outline destination updated")

	s.setNextActive(path)
	return s.resync(ctx)
}

// BeginRename opens a rename affordance for path.
func (s *OutlinePanelService) BeginRename(path domain.Path) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkEditableLocked(); err != nil {
		return err
	}
	if s.mode == domain.ModeAddingNew {
		return fmt.Errorf("%w: cannot rename while adding", domain.ErrInvalidState)
	}
	if _, ok := domain.FindOutline(s.outlines, path); !ok {
		return fmt.Errorf("%w: outline %s", domain.ErrNotFound, path)
	}
	s.editing[path] = struct{}{}
	return nil
}

// CancelRename closes the rename affordance for path.
func (s *OutlinePanelService) CancelRename(path domain.Path) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.editing, path)
}

// CommitRename renames the outline at path and reloads.
func (s *OutlinePanelService) CommitRename(ctx context.Context, path domain.Path, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	err := s.checkEditableLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if err := s.engine.RenameOutline(ctx, path, name); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	s.log.Debug().Str("path", path.String()).Str("name", name).Msg("outline renamed")
	return s.resync(ctx)
}

// EnterMultiSelect switches to multi-select with an empty selection.
func (s *OutlinePanelService) EnterMultiSelect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkEditableLocked(); err != nil {
		return err
	}
	switch {
	case s.mode == domain.ModeAddingNew:
		return fmt.Errorf("%w: cannot select while adding", domain.ErrInvalidState)
	case len(s.outlines) == 0:
		return fmt.Errorf("%w: no outlines to select", domain.ErrInvalidState)
	}
	s.mode = domain.ModeMultiSelect
	s.selected = nil
	return nil
}

// ExitMultiSelect returns to idle. It is refused while a delete is
// waiting for confirmation.
func (s *OutlinePanelService) ExitMultiSelect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != domain.ModeMultiSelect {
		return nil
	}
	if len(s.pendingDelete) > 0 {
		return fmt.Errorf("%w: delete pending confirmation", domain.ErrInvalidState)
	}
	s.mode = domain.ModeIdle
	s.selected = nil
	return nil
}

// SetSelected adds or removes path from the selection. Both directions are
// idempotent.
func (s *OutlinePanelService) SetSelected(path domain.Path, selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, p := range s.selected {
		if p == path {
			idx = i
			break
		}
	}
	switch {
	case selected && idx < 0:
		s.selected = append(s.selected, path)
	case !selected && idx >= 0:
		s.selected = append(s.selected[:idx:idx], s.selected[idx+1:]...)
	}
}

// Move relocates drag relative to drop. The returned path is the dragged
// outline's new path, which becomes active after the reload. The viewer is
// sent there without waiting for the reload.
func (s *OutlinePanelService) Move(ctx context.Context, drag, drop domain.Path, dir domain.MoveDirection) (domain.Path, error) {
	if !dir.Valid() {
		return domain.NoPath, fmt.Errorf("%w: move direction %d", domain.ErrInvalidInput, dir)
	}

	s.mu.Lock()
	if err := s.checkEditableLocked(); err != nil {
		s.mu.Unlock()
		return domain.NoPath, err
	}
	if s.mode == domain.ModeAddingNew {
		s.mu.Unlock()
		return domain.NoPath, fmt.Errorf("%w: cannot move while adding", domain.ErrInvalidState)
	}
	for _, p := range []domain.Path{drag, drop} {
		if _, ok := domain.FindOutline(s.outlines, p); !ok {
			s.mu.Unlock()
			return domain.NoPath, fmt.Errorf("%w: outline %s", domain.ErrNotFound, p)
		}
	}
	s.selected = nil
	s.mu.Unlock()

	var (
		path domain.Path
		err  error
	)
	switch dir {
	case domain.MoveBefore:
		path, err = s.engine.MoveOutlineBefore(ctx, drag, drop)
	case domain.MoveAfter:
		path, err = s.engine.MoveOutlineAfter(ctx, drag, drop)
	default:
		path, err = s.engine.MoveOutlineInward(ctx, drag, drop)
	}
	if err != nil {
		return domain.NoPath, fmt.Errorf("move %s %s %s: %w", drag, dir, drop, err)
	}
	s.log.Debug().Str("from", drag.String()).Str("to", path.String()).Msg("outline moved")

	go s.navigateDetached(context.WithoutCancel(ctx), path)

	s.setNextActive(path)
	return path, s.resync(ctx)
}

func (s *OutlinePanelService) navigateDetached(ctx context.Context, path domain.Path) {
	if err := s.engine.NavigateTo(ctx, path); err != nil {
		s.log.Debug().Err(err).Str("path", path.String()).Msg("navigate after move failed")
	}
}

// RequestDelete stages paths for deletion pending confirmation.
func (s *OutlinePanelService) RequestDelete(paths []domain.Path) error {
	if len(paths) == 0 {
		return domain.ErrNothingToDelete
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkEditableLocked(); err != nil {
		return err
	}
	for _, p := range paths {
		if _, ok := domain.FindOutline(s.outlines, p); !ok {
			return fmt.Errorf("%w: outline %s", domain.ErrNotFound, p)
		}
	}
	s.pendingDelete = domain.SortPathsDescending(paths)
	return nil
}

// ConfirmDelete deletes the staged paths one at a time, deepest and
// rightmost first, so earlier deletions never shift later targets.
func (s *OutlinePanelService) ConfirmDelete(ctx context.Context) error {
	s.mu.Lock()
	if err := s.checkEditableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	pending := append([]domain.Path(nil), s.pendingDelete...)
	s.mu.Unlock()
	if len(pending) == 0 {
		return domain.ErrNothingToDelete
	}

	for i, p := range pending {
		if err := s.engine.DeleteOutline(ctx, p); err != nil {
			err = fmt.Errorf("delete %s: %w", p, err)
			err = errors.Join(err, s.resync(ctx))
			s.restorePending(pending[i:])
			return err
		}
		s.log.Debug().Str("path", p.String()).Msg("outline deleted")
	}

	s.mu.Lock()
	s.pendingDelete = nil
	s.mu.Unlock()

	err := s.resync(ctx)

	s.mu.Lock()
	s.activePath = domain.NoPath
	s.selected = nil
	s.mu.Unlock()
	return err
}

// restorePending re-stages the deletes left after a failure. Earlier deletes
// only removed larger paths, so the rest are unaffected by them. A path that
// no longer resolves drops the whole batch.
func (s *OutlinePanelService) restorePending(rest []domain.Path) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range rest {
		if _, ok := domain.FindOutline(s.outlines, p); !ok {
			s.pendingDelete = nil
			return
		}
	}
	s.pendingDelete = rest
}

// CancelDelete drops the staged delete batch.
func (s *OutlinePanelService) CancelDelete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingDelete = nil
}

// Navigate jumps the viewer to the outline at path and makes it active.
func (s *OutlinePanelService) Navigate(ctx context.Context, path domain.Path) error {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	if !active {
		return domain.ErrPanelInactive
	}
	if err := s.engine.NavigateTo(ctx, path); err != nil {
		return fmt.Errorf("navigate to %s: %w", path, err)
	}
	s.SetActive(path)
	return nil
}
