// Package domain defines the core entities of the outline panel.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Path: sibling-index address of a node in a tree snapshot
//   - OutlineNode: an editable table-of-contents entry and its destination
//   - BookmarkEntry / BookmarkMap: styling mirrored from the engine's bookmark tree
//   - PanelState: a snapshot of the panel's selection and editing state
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
