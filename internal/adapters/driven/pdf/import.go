package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/outline-cli/internal/core/domain"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driven"
)

// maxBookmarks bounds the walk so a cyclic /Next chain cannot loop forever.
const maxBookmarks = 100_000

// Imported is the result of reading a PDF for import.
type Imported struct {
	Seeds      []domain.OutlineSeed
	PageCount  int
	PageHeight float64
}

// Count returns the total number of imported outlines.
func (i *Imported) Count() int {
	var count func([]domain.OutlineSeed) int
	count = func(seeds []domain.OutlineSeed) int {
		n := len(seeds)
		for _, s := range seeds {
			n += count(s.Children)
		}
		return n
	}
	return count(i.Seeds)
}

// ImportFile opens path and reads its page geometry and bookmark tree.
func ImportFile(ctx context.Context, path string) (*Imported, error) {
	doc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()
	return doc.Import(ctx)
}

// Import reads the page geometry and converts the bookmark tree to seeds.
func (d *Document) Import(ctx context.Context) (*Imported, error) {
	out := &Imported{
		PageCount:  d.PageCount(),
		PageHeight: d.PageHeight(),
	}
	root, err := d.BookmarkRoot(ctx)
	if err != nil {
		return nil, err
	}
	budget := maxBookmarks
	out.Seeds, err = d.importSiblings(ctx, root, out.PageHeight, &budget)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (d *Document) importSiblings(ctx context.Context, h driven.BookmarkHandle, pageHeight float64, budget *int) ([]domain.OutlineSeed, error) {
	var seeds []domain.OutlineSeed
	for {
		valid, err := h.IsValid(ctx)
		if err != nil {
			return nil, err
		}
		if !valid {
			return seeds, nil
		}
		if *budget--; *budget < 0 {
			return nil, fmt.Errorf("%w: more than %d bookmarks", ErrNotPDF, maxBookmarks)
		}

		seed, err := d.importBookmark(ctx, h, pageHeight, budget)
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, seed)

		if h, err = h.Next(ctx); err != nil {
			return nil, err
		}
	}
}

func (d *Document) importBookmark(ctx context.Context, h driven.BookmarkHandle, pageHeight float64, budget *int) (domain.OutlineSeed, error) {
	var seed domain.OutlineSeed
	title, err := h.Title(ctx)
	if err != nil {
		return seed, err
	}
	seed.Name = strings.TrimSpace(title)
	if seed.Style.Color, err = h.Color(ctx); err != nil {
		return seed, err
	}
	if seed.Style.Flag, err = h.Flags(ctx); err != nil {
		return seed, err
	}
	if b, ok := h.(*bookmark); ok {
		seed.Destination = b.destination(pageHeight)
	}

	child, err := h.FirstChild(ctx)
	if err != nil {
		return seed, err
	}
	if seed.Children, err = d.importSiblings(ctx, child, pageHeight, budget); err != nil {
		return seed, err
	}
	return seed, nil
}
