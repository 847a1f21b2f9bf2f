package domain

// PanelMode is the top-level state of the outline panel.
// Renames are tracked per path on top of the mode.
type PanelMode int

const (
	// ModeIdle is the default browsing state.
	ModeIdle PanelMode = iota
	// ModeAddingNew captures a destination for a new outline.
	ModeAddingNew
	// ModeMultiSelect selects several outlines for a batch delete.
	ModeMultiSelect
)

// String returns the mode name.
func (m PanelMode) String() string {
	switch m {
	case ModeAddingNew:
		return "adding-new"
	case ModeMultiSelect:
		return "multi-select"
	default:
		return "idle"
	}
}

// MoveDirection says where a dragged outline lands relative to the drop target.
type MoveDirection int

const (
	// MoveBefore places the dragged outline as the previous sibling.
	MoveBefore MoveDirection = iota
	// MoveAfter places the dragged outline as the next sibling.
	MoveAfter
	// MoveInward places the dragged outline as the first child.
	MoveInward
)

// String returns the direction name.
func (d MoveDirection) String() string {
	switch d {
	case MoveAfter:
		return "after"
	case MoveInward:
		return "inward"
	default:
		return "before"
	}
}

// Valid reports whether d is one of the defined directions.
func (d MoveDirection) Valid() bool {
	return d >= MoveBefore && d <= MoveInward
}

// ParseMoveDirection parses "before", "after" or "inward".
func ParseMoveDirection(s string) (MoveDirection, error) {
	switch s {
	case "before":
		return MoveBefore, nil
	case "after":
		return MoveAfter, nil
	case "inward", "into":
		return MoveInward, nil
	}
	return MoveBefore, ErrInvalidInput
}

// PanelState is a snapshot of the panel. Slices and maps are copies.
type PanelState struct {
	Outlines  []OutlineNode
	Bookmarks BookmarkMap

	// BookmarksErr is the error of the last failed bookmark refresh, if any.
	BookmarksErr error

	Mode          PanelMode
	ActivePath    Path
	Selected      []Path
	Editing       []Path
	PendingDelete []Path
	Destination   DestinationCapture
	Editable      bool
	Active        bool
}

// IsSelected reports whether p is in the multi-select set.
func (s PanelState) IsSelected(p Path) bool {
	for _, sel := range s.Selected {
		if sel == p {
			return true
		}
	}
	return false
}

// IsEditing reports whether a rename is open for p.
func (s PanelState) IsEditing(p Path) bool {
	for _, e := range s.Editing {
		if e == p {
			return true
		}
	}
	return false
}

// AnyRenaming reports whether any rename is open.
func (s PanelState) AnyRenaming() bool {
	return len(s.Editing) > 0
}

// PanelRow is an outline row merged with its bookmark styling.
type PanelRow struct {
	OutlineRow

	// Bookmark is the styling entry, nil when bookmarks are unavailable.
	Bookmark *BookmarkEntry

	Active   bool
	Selected bool
	Editing  bool
}
