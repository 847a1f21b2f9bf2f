package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// PathSeparator joins sibling indices in a Path.
const PathSeparator = "-"

// Path addresses a node in an outline or bookmark tree by its sibling
// indices from the root, e.g. "2-0" is the first child of the third root.
//
// Paths are only meaningful for one tree snapshot. Any structural change
// (add, move, delete) can renumber them.
type Path string

// NoPath is the zero Path. It never addresses a node.
const NoPath Path = ""

// RootPath returns the path of the i-th root-level node.
func RootPath(i int) Path {
	return Path(strconv.Itoa(i))
}

// ParsePath validates s and returns it as a Path.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NoPath, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	for _, seg := range strings.Split(s, PathSeparator) {
		n, err := strconv.Atoi(seg)
		if err != nil || n < 0 || seg != strconv.Itoa(n) {
			return NoPath, fmt.Errorf("%w: %q", ErrInvalidPath, s)
		}
	}
	return Path(s), nil
}

// String returns the path text.
func (p Path) String() string {
	return string(p)
}

// IsZero reports whether p is NoPath.
func (p Path) IsZero() bool {
	return p == NoPath
}

// Segments returns the sibling indices of p. Malformed segments are -1.
func (p Path) Segments() []int {
	if p.IsZero() {
		return nil
	}
	parts := strings.Split(string(p), PathSeparator)
	segs := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			n = -1
		}
		segs[i] = n
	}
	return segs
}

// Depth is the number of segments; root-level nodes have depth 1.
func (p Path) Depth() int {
	if p.IsZero() {
		return 0
	}
	return strings.Count(string(p), PathSeparator) + 1
}

// Index returns the last segment, the node's position among its siblings.
func (p Path) Index() int {
	segs := p.Segments()
	if len(segs) == 0 {
		return -1
	}
	return segs[len(segs)-1]
}

// Child returns the path of the i-th child of p. The child of NoPath is a root.
func (p Path) Child(i int) Path {
	if p.IsZero() {
		return RootPath(i)
	}
	return Path(string(p) + PathSeparator + strconv.Itoa(i))
}

// Parent returns the parent path, or NoPath for root-level nodes.
func (p Path) Parent() Path {
	idx := strings.LastIndex(string(p), PathSeparator)
	if idx < 0 {
		return NoPath
	}
	return p[:idx]
}

// IsAncestorOf reports whether p is a strict ancestor of other.
func (p Path) IsAncestorOf(other Path) bool {
	if p.IsZero() {
		return !other.IsZero()
	}
	return strings.HasPrefix(string(other), string(p)+PathSeparator)
}

// ComparePaths orders paths segment by segment, numerically.
// A path sorts before its descendants. Returns -1, 0 or +1.
func ComparePaths(a, b Path) int {
	as, bs := a.Segments(), b.Segments()
	for i := 0; i < len(as) && i < len(bs); i++ {
		switch {
		case as[i] < bs[i]:
			return -1
		case as[i] > bs[i]:
			return 1
		}
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	}
	return 0
}

// SortPathsDescending returns a de-duplicated copy of paths in decreasing
// order. Deleting in this order never shifts a path that is still pending.
func SortPathsDescending(paths []Path) []Path {
	seen := make(map[Path]struct{}, len(paths))
	out := make([]Path, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return ComparePaths(out[i], out[j]) > 0
	})
	return out
}
