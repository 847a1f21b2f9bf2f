package domain

import "unicode/utf8"

// Destination display texts.
const (
	// FullPageText is shown when no explicit location was picked.
	FullPageText = "Full Page"

	// AreaSelectionText is shown when an area (not text) was picked.
	AreaSelectionText = "Area Selection"

	// MaxPreviewNameLength caps outline names derived from a text preview.
	MaxPreviewNameLength = 40
)

// Destination is where an outline navigates to.
type Destination struct {
	// Page is the 1-based page number.
	Page int

	// X and Y are the target point in viewer coordinates.
	X float64
	Y float64

	// Rotation is the zoom/rotation parameter passed to the engine.
	Rotation int
}

// FullPageDestination returns the default destination for a page.
func FullPageDestination(page int) Destination {
	return Destination{Page: page}
}

// OutlineNode is one entry of the engine's outline tree.
type OutlineNode struct {
	// Path addresses the node in the snapshot it was listed from.
	Path Path

	// Name is the display name.
	Name string

	// Destination is the navigation target.
	Destination Destination

	// Children are the ordered child nodes.
	Children []OutlineNode
}

// HasChildren reports whether the node has any children.
func (n OutlineNode) HasChildren() bool {
	return len(n.Children) > 0
}

// OutlineRow is a node positioned in a depth-first listing.
type OutlineRow struct {
	Node  OutlineNode
	Depth int
}

// FlattenOutlines lists nodes depth-first in pre-order.
func FlattenOutlines(nodes []OutlineNode) []OutlineRow {
	var rows []OutlineRow
	var walk func(ns []OutlineNode, depth int)
	walk = func(ns []OutlineNode, depth int) {
		for i := range ns {
			rows = append(rows, OutlineRow{Node: ns[i], Depth: depth})
			walk(ns[i].Children, depth+1)
		}
	}
	walk(nodes, 0)
	return rows
}

// FindOutline returns the node at path, if present.
func FindOutline(nodes []OutlineNode, path Path) (OutlineNode, bool) {
	level := nodes
	var found OutlineNode
	segs := path.Segments()
	if len(segs) == 0 {
		return OutlineNode{}, false
	}
	for _, idx := range segs {
		if idx < 0 || idx >= len(level) {
			return OutlineNode{}, false
		}
		found = level[idx]
		level = found.Children
	}
	return found, true
}

// SameOutlines reports whether a and b list the same tree: equal paths,
// names and destinations in the same order.
func SameOutlines(a, b []OutlineNode) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Path != b[i].Path || a[i].Name != b[i].Name || a[i].Destination != b[i].Destination {
			return false
		}
		if !SameOutlines(a[i].Children, b[i].Children) {
			return false
		}
	}
	return true
}

// CountOutlines returns the total number of nodes in the forest.
func CountOutlines(nodes []OutlineNode) int {
	n := 0
	for i := range nodes {
		n += 1 + CountOutlines(nodes[i].Children)
	}
	return n
}

// DestinationPick is a location chosen with the destination-capture tool.
type DestinationPick struct {
	Page int
	X    float64
	Y    float64

	// IsText is set when the pick was a text selection.
	IsText bool

	// PreviewText is the selected text for text picks.
	PreviewText string
}

// DestinationCapture is the destination currently staged for a new or
// re-targeted outline. Coordinates are in page space until committed.
type DestinationCapture struct {
	Page int
	X    float64
	Y    float64
	Text string
}

// DefaultCapture returns the full-page capture for a page.
func DefaultCapture(page int) DestinationCapture {
	return DestinationCapture{Page: page, Text: FullPageText}
}

// CaptureFromPick converts a pick into a capture.
func CaptureFromPick(p DestinationPick) DestinationCapture {
	text := AreaSelectionText
	if p.IsText {
		text = p.PreviewText
	}
	return DestinationCapture{Page: p.Page, X: p.X, Y: p.Y, Text: text}
}

// IsDefaultText reports whether the capture text is one of the fixed labels
// rather than a text preview.
func (c DestinationCapture) IsDefaultText() bool {
	return c.Text == FullPageText || c.Text == AreaSelectionText
}

// NameFor picks the name of a new outline: the given name, else the start
// of a text preview, else untitled.
func (c DestinationCapture) NameFor(name, untitled string) string {
	if name != "" {
		return name
	}
	if !c.IsDefaultText() && c.Text != "" {
		return truncateRunes(c.Text, MaxPreviewNameLength)
	}
	return untitled
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
