package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity with the same name exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidPath indicates a malformed outline path or one that
	// addresses no node in the current tree.
	ErrInvalidPath = errors.New("invalid outline path")

	// ErrInvalidMove indicates a move onto the node itself or into its own subtree.
	ErrInvalidMove = errors.New("invalid outline move")

	// Panel Errors.

	// ErrNotEditable indicates outline editing is disabled or extended mode
	// is unavailable.
	ErrNotEditable = errors.New("outlines are not editable")

	// ErrInvalidState indicates the operation is not allowed in the panel's
	// current mode.
	ErrInvalidState = errors.New("operation not allowed in current panel state")

	// ErrNothingToDelete indicates a delete was confirmed with no pending batch.
	ErrNothingToDelete = errors.New("no outlines pending deletion")

	// ErrPanelInactive indicates the panel has been deactivated.
	ErrPanelInactive = errors.New("outline panel is not active")

	// Engine Errors.

	// ErrExtendedModeUnavailable indicates bookmark styling cannot be read.
	// Callers treat bookmarks as absent, not as a failure.
	ErrExtendedModeUnavailable = errors.New("extended mode unavailable")

	// ErrEngineClosed indicates the document engine has been closed.
	ErrEngineClosed = errors.New("document engine closed")
)
