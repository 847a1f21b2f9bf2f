package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/outline-cli/internal/core/domain"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driven"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driving"
	"github.com/custodia-labs/outline-cli/internal/logger"
)

// Ensure BookmarkService implements the interface.
var _ driving.BookmarkFlattener = (*BookmarkService)(nil)

// BookmarkService flattens an engine's bookmark tree into a path-keyed map.
type BookmarkService struct {
	log zerolog.Logger
}

// NewBookmarkService creates a new bookmark flattener.
func NewBookmarkService() *BookmarkService {
	return &BookmarkService{log: logger.Component("bookmarks")}
}

// queued is a bookmark waiting to be read, with the path it was assigned
// when its parent (or the root chain) was walked.
type queued struct {
	handle driven.BookmarkHandle
	path   domain.Path
}

// Flatten walks the bookmark tree breadth first. Paths follow sibling order
// so they line up with the outline paths the engine reports.
//
// An engine without extended mode, or with no valid root, yields an empty
// map and no error. Any failed read aborts the walk and returns no map.
func (s *BookmarkService) Flatten(ctx context.Context, engine driven.DocumentEngine) (domain.BookmarkMap, error) {
	result := domain.BookmarkMap{}
	if !engine.ExtendedModeEnabled(ctx) {
		s.log.Debug().Msg("extended mode unavailable, no bookmarks")
		return result, nil
	}

	root, err := engine.BookmarkRoot(ctx)
	if err != nil {
		return nil, fmt.Errorf("bookmark root: %w", err)
	}

	queue, err := walkSiblings(ctx, root, domain.NoPath)
	if err != nil {
		return nil, err
	}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		entry, hasChildren, err := readBookmark(ctx, item.handle)
		if err != nil {
			return nil, fmt.Errorf("bookmark %s: %w", item.path, err)
		}

		id := domain.BookmarkID(item.path, entry.Name)
		if _, dup := result[id]; dup {
			s.log.Debug().Str("id", id).Msg("bookmark id collision, keeping last")
		}
		result[id] = entry

		if !hasChildren {
			continue
		}
		first, err := item.handle.FirstChild(ctx)
		if err != nil {
			return nil, fmt.Errorf("bookmark %s first child: %w", item.path, err)
		}
		children, err := walkSiblings(ctx, first, item.path)
		if err != nil {
			return nil, err
		}
		queue = append(queue, children...)
	}

	s.log.Debug().Int("count", len(result)).Msg("bookmarks flattened")
	return result, nil
}

// walkSiblings follows the next chain from h until an invalid handle,
// numbering each sibling under parent.
func walkSiblings(ctx context.Context, h driven.BookmarkHandle, parent domain.Path) ([]queued, error) {
	var out []queued
	cur := h
	for i := 0; ; i++ {
		if cur == nil {
			return out, nil
		}
		ok, err := cur.IsValid(ctx)
		if err != nil {
			return nil, fmt.Errorf("bookmark validity under %q: %w", parent, err)
		}
		if !ok {
			return out, nil
		}
		out = append(out, queued{handle: cur, path: parent.Child(i)})
		if cur, err = cur.Next(ctx); err != nil {
			return nil, fmt.Errorf("bookmark next under %q: %w", parent, err)
		}
	}
}

// readBookmark issues the four metadata reads together.
func readBookmark(ctx context.Context, h driven.BookmarkHandle) (domain.BookmarkEntry, bool, error) {
	var (
		entry       domain.BookmarkEntry
		hasChildren bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		entry.Name, err = h.Title(gctx)
		return err
	})
	g.Go(func() (err error) {
		entry.Style.Color, err = h.Color(gctx)
		return err
	})
	g.Go(func() (err error) {
		entry.Style.Flag, err = h.Flags(gctx)
		return err
	})
	g.Go(func() (err error) {
		hasChildren, err = h.HasChildren(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.BookmarkEntry{}, false, err
	}
	return entry, hasChildren, nil
}
