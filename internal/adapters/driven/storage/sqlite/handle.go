package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/outline-cli/internal/core/domain"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driven"
)

// handle addresses a bookmark by outline row id. Zero is the invalid handle.
type handle struct {
	engine *Engine
	id     int64
}

var _ driven.BookmarkHandle = (*handle)(nil)

func (h *handle) IsValid(ctx context.Context) (bool, error) {
	if h.id == 0 {
		return false, nil
	}
	var exists bool
	err := h.engine.store.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM outlines WHERE id = ?)`, h.id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking bookmark: %w", err)
	}
	return exists, nil
}

func (h *handle) Next(ctx context.Context) (driven.BookmarkHandle, error) {
	return h.related(ctx, `
		SELECT n.id FROM outlines n JOIN outlines o ON o.id = ?
		WHERE n.document_id = o.document_id
		  AND n.parent_id IS o.parent_id
		  AND n.position = o.position + 1
	`)
}

func (h *handle) FirstChild(ctx context.Context) (driven.BookmarkHandle, error) {
	return h.related(ctx, `SELECT id FROM outlines WHERE parent_id = ? AND position = 0`)
}

func (h *handle) related(ctx context.Context, query string) (driven.BookmarkHandle, error) {
	if h.id == 0 {
		return &handle{engine: h.engine}, nil
	}
	var id int64
	err := h.engine.store.db.QueryRowContext(ctx, query, h.id).Scan(&id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("walking bookmarks: %w", err)
	}
	return &handle{engine: h.engine, id: id}, nil
}

func (h *handle) HasChildren(ctx context.Context) (bool, error) {
	var has bool
	err := h.engine.store.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM outlines WHERE parent_id = ?)`, h.id).Scan(&has)
	if err != nil {
		return false, fmt.Errorf("checking children: %w", err)
	}
	return has, nil
}

func (h *handle) Title(ctx context.Context) (string, error) {
	var title string
	if err := h.scan(ctx, `SELECT name FROM outlines WHERE id = ?`, &title); err != nil {
		return "", err
	}
	return title, nil
}

func (h *handle) Color(ctx context.Context) (domain.Color, error) {
	var c domain.Color
	if err := h.scan(ctx, `SELECT color_r, color_g, color_b FROM outlines WHERE id = ?`, &c.R, &c.G, &c.B); err != nil {
		return domain.Color{}, err
	}
	return c, nil
}

func (h *handle) Flags(ctx context.Context) (domain.BookmarkFlag, error) {
	var flags int
	if err := h.scan(ctx, `SELECT flags FROM outlines WHERE id = ?`, &flags); err != nil {
		return domain.FlagNormal, err
	}
	return domain.BookmarkFlag(flags), nil
}

func (h *handle) scan(ctx context.Context, query string, dest ...any) error {
	err := h.engine.store.db.QueryRowContext(ctx, query, h.id).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: bookmark %d", domain.ErrNotFound, h.id)
	}
	if err != nil {
		return fmt.Errorf("reading bookmark: %w", err)
	}
	return nil
}
