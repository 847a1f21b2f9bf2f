package driven

import (
	"context"

	"github.com/custodia-labs/outline-cli/internal/core/domain"
)

// DocumentEngine owns a document's outline tree and bookmark tree.
// Every call may block on the engine; paths are only valid for the tree
// snapshot they were computed from.
type DocumentEngine interface {
	// ExtendedModeEnabled reports whether bookmark styling can be read.
	ExtendedModeEnabled(ctx context.Context) bool

	// BookmarkRoot returns the first root-level bookmark. The handle is
	// invalid when the document has no bookmarks.
	BookmarkRoot(ctx context.Context) (BookmarkHandle, error)

	// ListOutlines returns the full outline forest with paths assigned.
	ListOutlines(ctx context.Context) ([]domain.OutlineNode, error)

	// AddRootOutline appends a root-level outline and returns its path.
	AddRootOutline(ctx context.Context, name string, dest domain.Destination) (domain.Path, error)

	// AddChildOutline appends a child under parent and returns its path.
	AddChildOutline(ctx context.Context, name string, parent domain.Path, dest domain.Destination) (domain.Path, error)

	// RenameOutline changes an outline's display name.
	RenameOutline(ctx context.Context, path domain.Path, name string) error

	// SetOutlineDestination re-targets an outline.
	SetOutlineDestination(ctx context.Context, path domain.Path, dest domain.Destination) error

	// MoveOutlineBefore moves drag to become the previous sibling of drop.
	// Returns the dragged outline's new path.
	MoveOutlineBefore(ctx context.Context, drag, drop domain.Path) (domain.Path, error)

	// MoveOutlineAfter moves drag to become the next sibling of drop.
	MoveOutlineAfter(ctx context.Context, drag, drop domain.Path) (domain.Path, error)

	// MoveOutlineInward moves drag to become the first child of drop.
	MoveOutlineInward(ctx context.Context, drag, drop domain.Path) (domain.Path, error)

	// DeleteOutline removes an outline and its subtree. Later siblings
	// are renumbered.
	DeleteOutline(ctx context.Context, path domain.Path) error

	// NavigateTo moves the viewport to an outline's destination.
	NavigateTo(ctx context.Context, path domain.Path) error

	// PageToViewer converts a page-space point to viewer coordinates.
	PageToViewer(ctx context.Context, page int, x, y float64) (float64, float64, error)

	// SetDestinationCapture switches the destination-capture tool on or off.
	SetDestinationCapture(ctx context.Context, on bool) error
}

// BookmarkHandle is an opaque reference to a node in the engine's bookmark
// tree. Each accessor is an independent engine call.
type BookmarkHandle interface {
	// IsValid reports whether the handle refers to an existing node.
	IsValid(ctx context.Context) (bool, error)

	// Next returns the next sibling; invalid at the end of the chain.
	Next(ctx context.Context) (BookmarkHandle, error)

	// FirstChild returns the first child; invalid for leaves.
	FirstChild(ctx context.Context) (BookmarkHandle, error)

	// HasChildren reports whether the node has children.
	HasChildren(ctx context.Context) (bool, error)

	// Title returns the display title.
	Title(ctx context.Context) (string, error)

	// Color returns the text colour.
	Color(ctx context.Context) (domain.Color, error)

	// Flags returns the style flag word.
	Flags(ctx context.Context) (domain.BookmarkFlag, error)
}
