package memory

import (
	"context"

	"github.com/custodia-labs/outline-cli/internal/core/domain"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driven"
)

var _ driven.BookmarkHandle = (*handle)(nil)

// handle points at a node. A nil node is the invalid handle returned past
// the last sibling or below a leaf.
type handle struct {
	engine *Engine
	node   *node
}

func (h *handle) read(op string) error {
	h.engine.mu.RLock()
	hook := h.engine.readHook
	err := h.engine.failure(op)
	h.engine.mu.RUnlock()
	if hook != nil {
		hook(op)
	}
	return err
}

func (h *handle) IsValid(ctx context.Context) (bool, error) {
	if err := h.read("valid"); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return h.node != nil, nil
}

func (h *handle) Next(_ context.Context) (driven.BookmarkHandle, error) {
	if err := h.read("next"); err != nil {
		return nil, err
	}
	h.engine.mu.RLock()
	defer h.engine.mu.RUnlock()
	if h.node == nil {
		return &handle{engine: h.engine}, nil
	}
	siblings := *h.engine.siblings(h.node)
	idx := indexOf(siblings, h.node)
	if idx < 0 || idx+1 >= len(siblings) {
		return &handle{engine: h.engine}, nil
	}
	return &handle{engine: h.engine, node: siblings[idx+1]}, nil
}

func (h *handle) FirstChild(_ context.Context) (driven.BookmarkHandle, error) {
	if err := h.read("child"); err != nil {
		return nil, err
	}
	h.engine.mu.RLock()
	defer h.engine.mu.RUnlock()
	if h.node == nil || len(h.node.children) == 0 {
		return &handle{engine: h.engine}, nil
	}
	return &handle{engine: h.engine, node: h.node.children[0]}, nil
}

func (h *handle) HasChildren(_ context.Context) (bool, error) {
	if err := h.read("haschildren"); err != nil {
		return false, err
	}
	h.engine.mu.RLock()
	defer h.engine.mu.RUnlock()
	return h.node != nil && len(h.node.children) > 0, nil
}

func (h *handle) Title(_ context.Context) (string, error) {
	if err := h.read("title"); err != nil {
		return "", err
	}
	h.engine.mu.RLock()
	defer h.engine.mu.RUnlock()
	if h.node == nil {
		return "", domain.ErrNotFound
	}
	return h.node.name, nil
}

func (h *handle) Color(_ context.Context) (domain.Color, error) {
	if err := h.read("color"); err != nil {
		return domain.Black, err
	}
	h.engine.mu.RLock()
	defer h.engine.mu.RUnlock()
	if h.node == nil {
		return domain.Black, domain.ErrNotFound
	}
	return h.node.style.Color, nil
}

func (h *handle) Flags(_ context.Context) (domain.BookmarkFlag, error) {
	if err := h.read("flags"); err != nil {
		return domain.FlagNormal, err
	}
	h.engine.mu.RLock()
	defer h.engine.mu.RUnlock()
	if h.node == nil {
		return domain.FlagNormal, domain.ErrNotFound
	}
	return h.node.style.Flag, nil
}
