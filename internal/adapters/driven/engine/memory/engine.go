// Package memory provides an in-memory document engine.
// It is used by tests and by the CLI's --demo mode.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/outline-cli/internal/core/domain"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.DocumentEngine = (*Engine)(nil)

type node struct {
	name     string
	dest     domain.Destination
	style    domain.BookmarkStyle
	parent   *node
	children []*node
}

// Engine is an in-memory implementation of driven.DocumentEngine.
type Engine struct {
	mu         sync.RWMutex
	roots      []*node
	extended   bool
	pageHeight float64
	capturing  bool
	navigated  []domain.Path
	mutations  []string
	failures   map[string]error
	readHook   func(op string)
}

// Option configures an Engine.
type Option func(*Engine)

// WithExtendedMode sets whether bookmark styling can be read.
func WithExtendedMode(on bool) Option {
	return func(e *Engine) { e.extended = on }
}

// WithPageHeight sets the page height used by PageToViewer.
func WithPageHeight(h float64) Option {
	return func(e *Engine) { e.pageHeight = h }
}

// WithSeeds loads an initial outline tree.
func WithSeeds(seeds []domain.OutlineSeed) Option {
	return func(e *Engine) { e.roots = buildNodes(seeds, nil) }
}

// NewEngine creates an empty engine with extended mode enabled.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		extended:   true,
		pageHeight: domain.DefaultPageHeight,
		failures:   make(map[string]error),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func buildNodes(seeds []domain.OutlineSeed, parent *node) []*node {
	nodes := make([]*node, 0, len(seeds))
	for _, s := range seeds {
		n := &node{name: s.Name, dest: s.Destination, style: s.Style, parent: parent}
		n.children = buildNodes(s.Children, n)
		nodes = append(nodes, n)
	}
	return nodes
}

// FailOn makes every call of op return err until cleared with a nil err.
// Ops are the method names in lower case ("delete", "move", "title", ...).
func (e *Engine) FailOn(op string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err == nil {
		delete(e.failures, op)
		return
	}
	e.failures[op] = err
}

// SetReadHook installs fn to run before every bookmark handle read.
// Tests use it to observe or stall traversal.
func (e *Engine) SetReadHook(fn func(op string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.readHook = fn
}

// Mutations returns the log of successful mutations, e.g. "delete 0-1".
func (e *Engine) Mutations() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, len(e.mutations))
	copy(out, e.mutations)
	return out
}

// Navigations returns the paths passed to NavigateTo.
func (e *Engine) Navigations() []domain.Path {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]domain.Path, len(e.navigated))
	copy(out, e.navigated)
	return out
}

// Capturing reports whether the destination-capture tool is on.
func (e *Engine) Capturing() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.capturing
}

// SetStyle sets the bookmark style of the node at path.
func (e *Engine) SetStyle(path domain.Path, style domain.BookmarkStyle) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, err := e.resolve(path)
	if err != nil {
		return err
	}
	n.style = style
	return nil
}

func (e *Engine) failure(op string) error {
	if err, ok := e.failures[op]; ok {
		return err
	}
	return nil
}

func (e *Engine) record(format string, args ...any) {
	e.mutations = append(e.mutations, fmt.Sprintf(format, args...))
}

// ExtendedModeEnabled reports whether bookmark styling can be read.
func (e *Engine) ExtendedModeEnabled(_ context.Context) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.extended
}

// BookmarkRoot returns the first root-level bookmark.
func (e *Engine) BookmarkRoot(_ context.Context) (driven.BookmarkHandle, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.extended {
		return nil, domain.ErrExtendedModeUnavailable
	}
	if err := e.failure("root"); err != nil {
		return nil, err
	}
	if len(e.roots) == 0 {
		return &handle{engine: e}, nil
	}
	return &handle{engine: e, node: e.roots[0]}, nil
}

// ListOutlines returns the full outline forest.
func (e *Engine) ListOutlines(_ context.Context) ([]domain.OutlineNode, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if err := e.failure("list"); err != nil {
		return nil, err
	}
	return toDomain(e.roots, domain.NoPath), nil
}

func toDomain(nodes []*node, parent domain.Path) []domain.OutlineNode {
	out := make([]domain.OutlineNode, 0, len(nodes))
	for i, n := range nodes {
		p := parent.Child(i)
		out = append(out, domain.OutlineNode{
			Path:        p,
			Name:        n.name,
			Destination: n.dest,
			Children:    toDomain(n.children, p),
		})
	}
	return out
}

// AddRootOutline appends a root-level outline.
func (e *Engine) AddRootOutline(_ context.Context, name string, dest domain.Destination) (domain.Path, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.failure("add"); err != nil {
		return domain.NoPath, err
	}
	e.roots = append(e.roots, &node{name: name, dest: dest})
	p := domain.RootPath(len(e.roots) - 1)
	e.record("add %s", p)
	return p, nil
}

// AddChildOutline appends a child under parent.
func (e *Engine) AddChildOutline(_ context.Context, name string, parent domain.Path, dest domain.Destination) (domain.Path, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.failure("add"); err != nil {
		return domain.NoPath, err
	}
	pn, err := e.resolve(parent)
	if err != nil {
		return domain.NoPath, err
	}
	pn.children = append(pn.children, &node{name: name, dest: dest, parent: pn})
	p := parent.Child(len(pn.children) - 1)
	e.record("add %s", p)
	return p, nil
}

// RenameOutline changes an outline's name.
func (e *Engine) RenameOutline(_ context.Context, path domain.Path, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.failure("rename"); err != nil {
		return err
	}
	n, err := e.resolve(path)
	if err != nil {
		return err
	}
	n.name = name
	e.record("rename %s", path)
	return nil
}

// SetOutlineDestination re-targets an outline.
func (e *Engine) SetOutlineDestination(_ context.Context, path domain.Path, dest domain.Destination) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.failure("dest"); err != nil {
		return err
	}
	n, err := e.resolve(path)
	if err != nil {
		return err
	}
	n.dest = dest
	e.record("dest %s", path)
	return nil
}

// MoveOutlineBefore moves drag to become the previous sibling of drop.
func (e *Engine) MoveOutlineBefore(_ context.Context, drag, drop domain.Path) (domain.Path, error) {
	return e.move(drag, drop, domain.MoveBefore)
}

// MoveOutlineAfter moves drag to become the next sibling of drop.
func (e *Engine) MoveOutlineAfter(_ context.Context, drag, drop domain.Path) (domain.Path, error) {
	return e.move(drag, drop, domain.MoveAfter)
}

// MoveOutlineInward moves drag to become the first child of drop.
func (e *Engine) MoveOutlineInward(_ context.Context, drag, drop domain.Path) (domain.Path, error) {
	return e.move(drag, drop, domain.MoveInward)
}

func (e *Engine) move(drag, drop domain.Path, dir domain.MoveDirection) (domain.Path, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.failure("move"); err != nil {
		return domain.NoPath, err
	}
	if drag == drop || drag.IsAncestorOf(drop) {
		return domain.NoPath, fmt.Errorf("%w: %s onto %s", domain.ErrInvalidMove, drag, drop)
	}
	dn, err := e.resolve(drag)
	if err != nil {
		return domain.NoPath, err
	}
	target, err := e.resolve(drop)
	if err != nil {
		return domain.NoPath, err
	}

	e.detach(dn)
	switch dir {
	case domain.MoveInward:
		dn.parent = target
		target.children = insertAt(target.children, 0, dn)
	default:
		siblings := e.siblings(target)
		idx := indexOf(*siblings, target)
		if dir == domain.MoveAfter {
			idx++
		}
		dn.parent = target.parent
		*siblings = insertAt(*siblings, idx, dn)
	}

	p := e.pathOf(dn)
	e.record("move %s %s %s -> %s", drag, dir, drop, p)
	return p, nil
}

// DeleteOutline removes an outline and its subtree.
func (e *Engine) DeleteOutline(_ context.Context, path domain.Path) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.failure("delete"); err != nil {
		return err
	}
	n, err := e.resolve(path)
	if err != nil {
		return err
	}
	e.detach(n)
	e.record("delete %s", path)
	return nil
}

// NavigateTo records a viewport jump to the outline at path.
func (e *Engine) NavigateTo(_ context.Context, path domain.Path) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.failure("navigate"); err != nil {
		return err
	}
	e.navigated = append(e.navigated, path)
	_, err := e.resolve(path)
	return err
}

// PageToViewer flips the y axis: page space has its origin bottom-left.
func (e *Engine) PageToViewer(_ context.Context, page int, x, y float64) (float64, float64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if page < 1 {
		return 0, 0, fmt.Errorf("%w: page %d", domain.ErrInvalidInput, page)
	}
	return x, e.pageHeight - y, nil
}

// SetDestinationCapture switches the capture tool on or off.
func (e *Engine) SetDestinationCapture(_ context.Context, on bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.capturing = on
	return nil
}

// resolve finds the node at path (caller must hold lock).
func (e *Engine) resolve(path domain.Path) (*node, error) {
	segs := path.Segments()
	if len(segs) == 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPath, path)
	}
	level := e.roots
	var n *node
	for _, idx := range segs {
		if idx < 0 || idx >= len(level) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		n = level[idx]
		level = n.children
	}
	return n, nil
}

// siblings returns the slice holding n (caller must hold lock).
func (e *Engine) siblings(n *node) *[]*node {
	if n.parent == nil {
		return &e.roots
	}
	return &n.parent.children
}

func (e *Engine) detach(n *node) {
	s := e.siblings(n)
	idx := indexOf(*s, n)
	if idx >= 0 {
		*s = append((*s)[:idx:idx], (*s)[idx+1:]...)
	}
	n.parent = nil
}

func (e *Engine) pathOf(n *node) domain.Path {
	var segs []int
	for cur := n; cur != nil; cur = cur.parent {
		segs = append(segs, indexOf(*e.siblings(cur), cur))
	}
	p := domain.NoPath
	for i := len(segs) - 1; i >= 0; i-- {
		p = p.Child(segs[i])
	}
	return p
}

func indexOf(nodes []*node, n *node) int {
	for i, c := range nodes {
		if c == n {
			return i
		}
	}
	return -1
}

func insertAt(nodes []*node, idx int, n *node) []*node {
	if idx < 0 {
		idx = 0
	}
	if idx > len(nodes) {
		idx = len(nodes)
	}
	nodes = append(nodes, nil)
	copy(nodes[idx+1:], nodes[idx:])
	nodes[idx] = n
	return nodes
}
