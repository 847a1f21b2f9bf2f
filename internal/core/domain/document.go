package domain

import "time"

// Document is a document whose outlines are managed by an engine.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Name is the human-readable name.
	Name string

	// SourcePath is the file the document was imported from, if any.
	SourcePath string

	// PageCount is the number of pages. Zero when unknown.
	PageCount int

	// PageHeight is the height of a page in PDF points, used to convert
	// page coordinates to viewer coordinates.
	PageHeight float64

	// LastOutline is the outline the viewer last navigated to.
	LastOutline Path

	// CreatedAt is when the document was first registered.
	CreatedAt time.Time

	// UpdatedAt is when the document was last loaded or modified.
	UpdatedAt time.Time
}

// DefaultPageHeight is US Letter height in points.
const DefaultPageHeight = 792.0

// OutlineSeed describes an outline subtree to import into an engine.
type OutlineSeed struct {
	Name        string
	Destination Destination
	Style       BookmarkStyle
	Children    []OutlineSeed
}
