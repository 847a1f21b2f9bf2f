package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/outline-cli/internal/core/domain"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driven"
)

// Engine serves one document's outline tree from the database.
// Bookmark styling is stored with each outline, so extended mode is always on.
type Engine struct {
	store *Store
	docID string
}

var _ driven.DocumentEngine = (*Engine)(nil)

// DocumentID returns the document this engine serves.
func (e *Engine) DocumentID() string {
	return e.docID
}

// ref locates an outline row.
type ref struct {
	id       int64
	parent   sql.NullInt64
	position int
}

// ExtendedModeEnabled always reports true.
func (e *Engine) ExtendedModeEnabled(context.Context) bool {
	return true
}

// BookmarkRoot returns a handle to the first root outline.
func (e *Engine) BookmarkRoot(ctx context.Context) (driven.BookmarkHandle, error) {
	var id int64
	err := e.store.db.QueryRowContext(ctx, `
		SELECT id FROM outlines
		WHERE document_id = ? AND parent_id IS NULL AND position = 0
	`, e.docID).Scan(&id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bookmark root: %w", err)
	}
	return &handle{engine: e, id: id}, nil
}

type outlineRow struct {
	id       int64
	parent   int64
	name     string
	dest     domain.Destination
	children []*outlineRow
}

// ListOutlines loads the whole tree in one query.
func (e *Engine) ListOutlines(ctx context.Context) ([]domain.OutlineNode, error) {
	rows, err := e.store.db.QueryContext(ctx, `
		SELECT id, COALESCE(parent_id, 0), name, page, x, y, rotation
		FROM outlines WHERE document_id = ?
		ORDER BY position
	`, e.docID)
	if err != nil {
		return nil, fmt.Errorf("listing outlines: %w", err)
	}
	defer rows.Close()

	children := make(map[int64][]*outlineRow)
	for rows.Next() {
		r := &outlineRow{}
		if err := rows.Scan(&r.id, &r.parent, &r.name, &r.dest.Page, &r.dest.X, &r.dest.Y, &r.dest.Rotation); err != nil {
			return nil, fmt.Errorf("scanning outline: %w", err)
		}
		children[r.parent] = append(children[r.parent], r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var build func(parentID int64, parent domain.Path) []domain.OutlineNode
	build = func(parentID int64, parent domain.Path) []domain.OutlineNode {
		level := children[parentID]
		nodes := make([]domain.OutlineNode, 0, len(level))
		for i, r := range level {
			p := parent.Child(i)
			nodes = append(nodes, domain.OutlineNode{
				Path:        p,
				Name:        r.name,
				Destination: r.dest,
				Children:    build(r.id, p),
			})
		}
		return nodes
	}
	return build(0, domain.NoPath), nil
}

// AddRootOutline appends a root outline.
func (e *Engine) AddRootOutline(ctx context.Context, name string, dest domain.Destination) (domain.Path, error) {
	var path domain.Path
	err := e.store.inTx(ctx, func(tx *sql.Tx) error {
		pos, err := countChildren(ctx, tx, e.docID, sql.NullInt64{})
		if err != nil {
			return err
		}
		if _, err := insertOutline(ctx, tx, e.docID, sql.NullInt64{}, pos, name, dest, domain.BookmarkStyle{}); err != nil {
			return err
		}
		path = domain.RootPath(pos)
		return touchDocument(ctx, tx, e.docID)
	})
	return path, err
}

// AddChildOutline appends a last child under parent.
func (e *Engine) AddChildOutline(ctx context.Context, name string, parent domain.Path, dest domain.Destination) (domain.Path, error) {
	var path domain.Path
	err := e.store.inTx(ctx, func(tx *sql.Tx) error {
		p, err := e.resolve(ctx, tx, parent)
		if err != nil {
			return err
		}
		parentID := sql.NullInt64{Int64: p.id, Valid: true}
		pos, err := countChildren(ctx, tx, e.docID, parentID)
		if err != nil {
			return err
		}
		if _, err := insertOutline(ctx, tx, e.docID, parentID, pos, name, dest, domain.BookmarkStyle{}); err != nil {
			return err
		}
		path = parent.Child(pos)
		return touchDocument(ctx, tx, e.docID)
	})
	return path, err
}

// RenameOutline changes an outline's name.
func (e *Engine) RenameOutline(ctx context.Context, path domain.Path, name string) error {
	return e.store.inTx(ctx, func(tx *sql.Tx) error {
		r, err := e.resolve(ctx, tx, path)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE outlines SET name = ? WHERE id = ?`, name, r.id); err != nil {
			return fmt.Errorf("renaming outline: %w", err)
		}
		return touchDocument(ctx, tx, e.docID)
	})
}

// SetOutlineDestination re-targets an outline.
func (e *Engine) SetOutlineDestination(ctx context.Context, path domain.Path, dest domain.Destination) error {
	return e.store.inTx(ctx, func(tx *sql.Tx) error {
		r, err := e.resolve(ctx, tx, path)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `UPDATE outlines SET page = ?, x = ?, y = ?, rotation = ? WHERE id = ?`,
			dest.Page, dest.X, dest.Y, dest.Rotation, r.id)
		if err != nil {
			return fmt.Errorf("updating destination: %w", err)
		}
		return touchDocument(ctx, tx, e.docID)
	})
}

// SetOutlineStyle sets the bookmark color and flags of an outline.
func (e *Engine) SetOutlineStyle(ctx context.Context, path domain.Path, style domain.BookmarkStyle) error {
	return e.store.inTx(ctx, func(tx *sql.Tx) error {
		r, err := e.resolve(ctx, tx, path)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `UPDATE outlines SET color_r = ?, color_g = ?, color_b = ?, flags = ? WHERE id = ?`,
			style.Color.R, style.Color.G, style.Color.B, int(style.Flag), r.id)
		if err != nil {
			return fmt.Errorf("updating style: %w", err)
		}
		return touchDocument(ctx, tx, e.docID)
	})
}

// MoveOutlineBefore moves drag to become the previous sibling of drop.
func (e *Engine) MoveOutlineBefore(ctx context.Context, drag, drop domain.Path) (domain.Path, error) {
	return e.move(ctx, drag, drop, domain.MoveBefore)
}

// MoveOutlineAfter moves drag to become the next sibling of drop.
func (e *Engine) MoveOutlineAfter(ctx context.Context, drag, drop domain.Path) (domain.Path, error) {
	return e.move(ctx, drag, drop, domain.MoveAfter)
}

// MoveOutlineInward moves drag to become the first child of drop.
func (e *Engine) MoveOutlineInward(ctx context.Context, drag, drop domain.Path) (domain.Path, error) {
	return e.move(ctx, drag, drop, domain.MoveInward)
}

func (e *Engine) move(ctx context.Context, drag, drop domain.Path, dir domain.MoveDirection) (domain.Path, error) {
	if drag == drop || drag.IsAncestorOf(drop) {
		return domain.NoPath, fmt.Errorf("%w: %s onto %s", domain.ErrInvalidMove, drag, drop)
	}

	var path domain.Path
	err := e.store.inTx(ctx, func(tx *sql.Tx) error {
		d, err := e.resolve(ctx, tx, drag)
		if err != nil {
			return err
		}
		t, err := e.resolve(ctx, tx, drop)
		if err != nil {
			return err
		}

		// Park the dragged row outside any sibling range, then close its gap.
		if _, err := tx.ExecContext(ctx, `UPDATE outlines SET position = -1 WHERE id = ?`, d.id); err != nil {
			return fmt.Errorf("detaching outline: %w", err)
		}
		if err := shiftSiblings(ctx, tx, e.docID, d.parent, d.position+1, -1); err != nil {
			return err
		}

		var (
			parent sql.NullInt64
			pos    int
		)
		if dir == domain.MoveInward {
			parent = sql.NullInt64{Int64: t.id, Valid: true}
		} else {
			// The gap may have shifted the drop target.
			if err := tx.QueryRowContext(ctx, `SELECT position FROM outlines WHERE id = ?`, t.id).Scan(&pos); err != nil {
				return fmt.Errorf("reading drop position: %w", err)
			}
			if dir == domain.MoveAfter {
				pos++
			}
			parent = t.parent
		}

		if err := shiftSiblings(ctx, tx, e.docID, parent, pos, 1); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE outlines SET parent_id = ?, position = ? WHERE id = ?`, parent, pos, d.id); err != nil {
			return fmt.Errorf("attaching outline: %w", err)
		}

		if path, err = pathOf(ctx, tx, d.id); err != nil {
			return err
		}
		return touchDocument(ctx, tx, e.docID)
	})
	return path, err
}

// DeleteOutline removes an outline and its subtree.
func (e *Engine) DeleteOutline(ctx context.Context, path domain.Path) error {
	return e.store.inTx(ctx, func(tx *sql.Tx) error {
		r, err := e.resolve(ctx, tx, path)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM outlines WHERE id = ?`, r.id); err != nil {
			return fmt.Errorf("deleting outline: %w", err)
		}
		if err := shiftSiblings(ctx, tx, e.docID, r.parent, r.position+1, -1); err != nil {
			return err
		}
		return touchDocument(ctx, tx, e.docID)
	})
}

// NavigateTo records path as the document's last viewed outline.
func (e *Engine) NavigateTo(ctx context.Context, path domain.Path) error {
	return e.store.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := e.resolve(ctx, tx, path); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `UPDATE documents SET last_outline = ? WHERE id = ?`, path.String(), e.docID)
		if err != nil {
			return fmt.Errorf("recording navigation: %w", err)
		}
		return nil
	})
}

// PageToViewer flips y using the document's page height.
func (e *Engine) PageToViewer(ctx context.Context, page int, x, y float64) (float64, float64, error) {
	var (
		count  int
		height float64
	)
	err := e.store.db.QueryRowContext(ctx,
		`SELECT page_count, page_height FROM documents WHERE id = ?`, e.docID).Scan(&count, &height)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, fmt.Errorf("%w: document %s", domain.ErrNotFound, e.docID)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("reading page size: %w", err)
	}
	if page < 1 || (count > 0 && page > count) {
		return 0, 0, fmt.Errorf("%w: page %d", domain.ErrInvalidInput, page)
	}
	return x, height - y, nil
}

// SetDestinationCapture stores whether the capture tool is on.
func (e *Engine) SetDestinationCapture(ctx context.Context, on bool) error {
	_, err := e.store.db.ExecContext(ctx, `UPDATE documents SET capturing = ? WHERE id = ?`, on, e.docID)
	if err != nil {
		return fmt.Errorf("setting capture mode: %w", err)
	}
	return nil
}

// resolve walks path from the root one sibling index at a time.
func (e *Engine) resolve(ctx context.Context, q querier, path domain.Path) (ref, error) {
	segs := path.Segments()
	if len(segs) == 0 {
		return ref{}, fmt.Errorf("%w: %q", domain.ErrInvalidPath, path)
	}
	var cur ref
	for _, seg := range segs {
		parent := cur.parent
		if cur.id != 0 {
			parent = sql.NullInt64{Int64: cur.id, Valid: true}
		}
		var id int64
		err := q.QueryRowContext(ctx, `
			SELECT id FROM outlines
			WHERE document_id = ? AND parent_id IS ? AND position = ?
		`, e.docID, parent, seg).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return ref{}, fmt.Errorf("%w: outline %s", domain.ErrNotFound, path)
		}
		if err != nil {
			return ref{}, fmt.Errorf("resolving %s: %w", path, err)
		}
		cur = ref{id: id, parent: parent, position: seg}
	}
	return cur, nil
}

func pathOf(ctx context.Context, q querier, id int64) (domain.Path, error) {
	var segs []int
	for cur := id; cur != 0; {
		var (
			parent sql.NullInt64
			pos    int
		)
		if err := q.QueryRowContext(ctx, `SELECT parent_id, position FROM outlines WHERE id = ?`, cur).Scan(&parent, &pos); err != nil {
			return domain.NoPath, fmt.Errorf("computing path: %w", err)
		}
		segs = append(segs, pos)
		cur = parent.Int64
	}
	path := domain.NoPath
	for i := len(segs) - 1; i >= 0; i-- {
		path = path.Child(segs[i])
	}
	return path, nil
}

func countChildren(ctx context.Context, q querier, docID string, parent sql.NullInt64) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM outlines WHERE document_id = ? AND parent_id IS ?
	`, docID, parent).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting outlines: %w", err)
	}
	return n, nil
}

func shiftSiblings(ctx context.Context, q querier, docID string, parent sql.NullInt64, from, delta int) error {
	_, err := q.ExecContext(ctx, `
		UPDATE outlines SET position = position + ?
		WHERE document_id = ? AND parent_id IS ? AND position >= ?
	`, delta, docID, parent, from)
	if err != nil {
		return fmt.Errorf("shifting siblings: %w", err)
	}
	return nil
}

func insertOutline(
	ctx context.Context,
	q querier,
	docID string,
	parent sql.NullInt64,
	position int,
	name string,
	dest domain.Destination,
	style domain.BookmarkStyle,
) (int64, error) {
	if dest.Page < 1 {
		dest.Page = 1
	}
	res, err := q.ExecContext(ctx, `
		INSERT INTO outlines (document_id, parent_id, position, name, page, x, y, rotation, color_r, color_g, color_b, flags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, docID, parent, position, name, dest.Page, dest.X, dest.Y, dest.Rotation,
		style.Color.R, style.Color.G, style.Color.B, int(style.Flag))
	if err != nil {
		return 0, fmt.Errorf("inserting outline: %w", err)
	}
	return res.LastInsertId()
}
