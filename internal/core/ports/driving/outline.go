package driving

import (
	"context"

	"github.com/custodia-labs/outline-cli/internal/core/domain"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driven"
)

// BookmarkFlattener turns the engine's bookmark tree into a BookmarkMap.
type BookmarkFlattener interface {
	// Flatten walks every reachable bookmark breadth-first. It returns an
	// empty map without error when extended mode is off or the tree is empty.
	// Any failed read aborts the walk and no map is returned.
	Flatten(ctx context.Context, engine driven.DocumentEngine) (domain.BookmarkMap, error)
}

// OutlinePanel coordinates outline editing, selection and moves against a
// document engine.
type OutlinePanel interface {
	// Activate subscribes to engine signals and performs the first refresh.
	Activate(ctx context.Context) error

	// Deactivate unsubscribes and drops cached state.
	Deactivate()

	// Refresh rebuilds the bookmark map and reloads outlines.
	Refresh(ctx context.Context) error

	// ReloadOutlines re-lists outlines from the engine.
	ReloadOutlines(ctx context.Context) error

	// State returns a snapshot of the panel.
	State() domain.PanelState

	// Rows returns outlines depth-first, merged with bookmark styling.
	Rows() []domain.PanelRow

	// SetActive marks an outline as the active one.
	SetActive(path domain.Path)

	// ClearActive clears the active outline.
	ClearActive()

	// SetCurrentPage sets the viewer page used for full-page destinations.
	SetCurrentPage(page int)

	// BeginAdd starts adding a new outline.
	BeginAdd(ctx context.Context) error

	// PickDestination stages a location picked with the capture tool.
	PickDestination(pick domain.DestinationPick)

	// CommitAdd creates the outline and returns its path.
	CommitAdd(ctx context.Context, name string) (domain.Path, error)

	// CancelAdd abandons the add without mutating the engine.
	CancelAdd(ctx context.Context) error

	// UpdateDestination re-targets an outline to the staged destination.
	UpdateDestination(ctx context.Context, path domain.Path) error

	// BeginRename opens a rename for path.
	BeginRename(path domain.Path) error

	// CancelRename closes the rename for path.
	CancelRename(path domain.Path)

	// CommitRename renames the outline at path.
	CommitRename(ctx context.Context, path domain.Path, name string) error

	// EnterMultiSelect switches to multi-select with an empty selection.
	EnterMultiSelect() error

	// ExitMultiSelect returns to idle.
	ExitMultiSelect() error

	// SetSelected adds or removes path from the selection.
	SetSelected(path domain.Path, selected bool)

	// Move moves drag relative to drop and returns the new path.
	Move(ctx context.Context, drag, drop domain.Path, dir domain.MoveDirection) (domain.Path, error)

	// RequestDelete stages paths for deletion pending confirmation.
	RequestDelete(paths []domain.Path) error

	// ConfirmDelete deletes the staged paths.
	ConfirmDelete(ctx context.Context) error

	// CancelDelete discards the staged paths.
	CancelDelete()

	// Navigate moves the viewport to an outline.
	Navigate(ctx context.Context, path domain.Path) error
}
