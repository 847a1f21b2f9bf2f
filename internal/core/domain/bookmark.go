package domain

import (
	"fmt"
	"math"
)

// BookmarkFlag is the style flag word of a bookmark.
type BookmarkFlag int

const (
	// FlagNormal is plain text.
	FlagNormal BookmarkFlag = 0
	// FlagItalic renders the bookmark in italics.
	FlagItalic BookmarkFlag = 1
	// FlagBold renders the bookmark in bold.
	FlagBold BookmarkFlag = 2
)

// Italic reports whether the italic bit is set.
func (f BookmarkFlag) Italic() bool {
	return f&FlagItalic != 0
}

// Bold reports whether the bold bit is set.
func (f BookmarkFlag) Bold() bool {
	return f&FlagBold != 0
}

// String returns a readable name for the flag.
func (f BookmarkFlag) String() string {
	switch {
	case f.Bold() && f.Italic():
		return "bold-italic"
	case f.Bold():
		return "bold"
	case f.Italic():
		return "italic"
	default:
		return "normal"
	}
}

// Color is an RGB colour with components in [0, 1].
type Color struct {
	R float64
	G float64
	B float64
}

// Black is the default bookmark colour.
var Black = Color{}

// Hex renders the colour as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int {
	v = math.Max(0, math.Min(1, v))
	return int(math.Round(v * 255))
}

// BookmarkStyle is the styling metadata mirrored from the engine.
type BookmarkStyle struct {
	Color Color
	Flag  BookmarkFlag
}

// BookmarkEntry is one flattened bookmark.
type BookmarkEntry struct {
	Name  string
	Style BookmarkStyle
}

// BookmarkMap maps BookmarkID to entry. It is rebuilt in full on refresh.
type BookmarkMap map[string]BookmarkEntry

// BookmarkID keys a bookmark by path and title, e.g. "0-1-Chapter 2".
//
// Two nodes with the same path and title collide; the last one written wins.
func BookmarkID(path Path, title string) string {
	return string(path) + PathSeparator + title
}

// Lookup returns the entry matching an outline node, if any.
func (m BookmarkMap) Lookup(n OutlineNode) (BookmarkEntry, bool) {
	if m == nil {
		return BookmarkEntry{}, false
	}
	e, ok := m[BookmarkID(n.Path, n.Name)]
	return e, ok
}

// Clone returns a shallow copy of the map.
func (m BookmarkMap) Clone() BookmarkMap {
	out := make(BookmarkMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
