package pdf

import (
	"context"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/custodia-labs/outline-cli/internal/core/domain"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driven"
)

// bookmark is an outline item dictionary. A null value is the invalid handle.
type bookmark struct {
	doc *Document
	v   pdflib.Value
}

var _ driven.BookmarkHandle = (*bookmark)(nil)

func (b *bookmark) IsValid(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return b.v.Kind() == pdflib.Dict, nil
}

func (b *bookmark) Next(ctx context.Context) (driven.BookmarkHandle, error) {
	return b.follow(ctx, "Next")
}

func (b *bookmark) FirstChild(ctx context.Context) (driven.BookmarkHandle, error) {
	return b.follow(ctx, "First")
}

func (b *bookmark) follow(ctx context.Context, key string) (driven.BookmarkHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.doc.mu.Lock()
	defer b.doc.mu.Unlock()
	return &bookmark{doc: b.doc, v: b.v.Key(key)}, nil
}

func (b *bookmark) HasChildren(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	b.doc.mu.Lock()
	defer b.doc.mu.Unlock()
	return b.v.Key("First").Kind() == pdflib.Dict, nil
}

func (b *bookmark) Title(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b.doc.mu.Lock()
	defer b.doc.mu.Unlock()
	return b.v.Key("Title").Text(), nil
}

// Color reads /C. Missing or malformed colours are black.
func (b *bookmark) Color(ctx context.Context) (domain.Color, error) {
	if err := ctx.Err(); err != nil {
		return domain.Color{}, err
	}
	b.doc.mu.Lock()
	defer b.doc.mu.Unlock()

	c := b.v.Key("C")
	if c.Kind() != pdflib.Array || c.Len() != 3 {
		return domain.Black, nil
	}
	return domain.Color{
		R: c.Index(0).Float64(),
		G: c.Index(1).Float64(),
		B: c.Index(2).Float64(),
	}, nil
}

func (b *bookmark) Flags(ctx context.Context) (domain.BookmarkFlag, error) {
	if err := ctx.Err(); err != nil {
		return domain.FlagNormal, err
	}
	b.doc.mu.Lock()
	defer b.doc.mu.Unlock()
	return domain.BookmarkFlag(b.v.Key("F").Int64()), nil
}

// destination resolves /Dest, or the /D of a GoTo action, to a page and a
// viewer-space point. Unresolvable destinations fall back to page 1.
func (b *bookmark) destination(pageHeight float64) domain.Destination {
	b.doc.mu.Lock()
	defer b.doc.mu.Unlock()

	dest := b.v.Key("Dest")
	if dest.IsNull() {
		if action := b.v.Key("A"); action.Key("S").Name() == "GoTo" {
			dest = action.Key("D")
		}
	}
	switch dest.Kind() {
	case pdflib.Name:
		dest = b.doc.namedDest(dest.Name())
	case pdflib.String:
		dest = b.doc.namedDest(dest.Text())
	}
	if dest.Kind() == pdflib.Dict {
		dest = dest.Key("D")
	}
	if dest.Kind() != pdflib.Array || dest.Len() == 0 {
		return domain.FullPageDestination(1)
	}

	d := domain.FullPageDestination(b.doc.pageNumber(dest.Index(0)))
	// [page /XYZ left top zoom]; other fit types target the whole page.
	if dest.Len() >= 4 && dest.Index(1).Name() == "XYZ" {
		d.X = dest.Index(2).Float64()
		if top := dest.Index(3); top.Kind() == pdflib.Integer || top.Kind() == pdflib.Real {
			d.Y = pageHeight - top.Float64()
		}
	}
	return d
}
