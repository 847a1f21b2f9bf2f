package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/custodia-labs/outline-cli/internal/core/domain"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driven"
)

// ErrNotPDF indicates the file could not be parsed as a PDF.
var ErrNotPDF = errors.New("not a readable PDF")

// Document is an open PDF file.
type Document struct {
	// mu serializes reads; the underlying reader is not safe for concurrent use.
	mu     sync.Mutex
	file   *os.File
	reader *pdflib.Reader

	pages map[string]int
}

// Open opens the PDF at path.
func Open(path string) (*Document, error) {
	f, r, err := openReader(path)
	if err != nil {
		return nil, err
	}
	return &Document{file: f, reader: r}, nil
}

// openReader recovers from parser panics on malformed input.
func openReader(path string) (f *os.File, r *pdflib.Reader, err error) {
	if _, statErr := os.Stat(path); statErr != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, statErr)
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %s: %v", ErrNotPDF, path, p)
		}
	}()
	f, r, err = pdflib.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrNotPDF, path, err)
	}
	return f, r, nil
}

// Close releases the file.
func (d *Document) Close() error {
	return d.file.Close()
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reader.NumPage()
}

// PageHeight returns the height of the first page's MediaBox, falling back
// to US Letter when the box is missing.
func (d *Document) PageHeight() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.reader.NumPage() == 0 {
		return domain.DefaultPageHeight
	}
	// MediaBox is inheritable from the page tree.
	for v := d.reader.Page(1).V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Kind() == pdflib.Array && box.Len() == 4 {
			if h := box.Index(3).Float64() - box.Index(1).Float64(); h > 0 {
				return h
			}
		}
	}
	return domain.DefaultPageHeight
}

// BookmarkRoot returns the first top-level bookmark. The handle is invalid
// when the file has no outline.
func (d *Document) BookmarkRoot(ctx context.Context) (driven.BookmarkHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	first := d.reader.Trailer().Key("Root").Key("Outlines").Key("First")
	return &bookmark{doc: d, v: first}, nil
}

// pageNumber maps a destination's page reference to a 1-based page number.
// Page dictionaries are matched by their serialized form, which carries
// their /Contents and /Parent references. Callers hold d.mu.
func (d *Document) pageNumber(ref pdflib.Value) int {
	switch ref.Kind() {
	case pdflib.Integer:
		// Remote-style destinations use a 0-based page index.
		return int(ref.Int64()) + 1
	case pdflib.Dict:
	default:
		return 1
	}
	if d.pages == nil {
		d.pages = make(map[string]int, d.reader.NumPage())
		for i := d.reader.NumPage(); i >= 1; i-- {
			d.pages[d.reader.Page(i).V.String()] = i
		}
	}
	if n, ok := d.pages[ref.String()]; ok {
		return n
	}
	return 1
}

// namedDest looks a destination name up in the catalog's /Dests dictionary
// or the /Names /Dests name tree. Callers hold d.mu.
func (d *Document) namedDest(name string) pdflib.Value {
	root := d.reader.Trailer().Key("Root")
	if v := root.Key("Dests").Key(name); !v.IsNull() {
		return v
	}
	return lookupNameTree(root.Key("Names").Key("Dests"), name, 0)
}

const maxNameTreeDepth = 32

func lookupNameTree(node pdflib.Value, name string, depth int) pdflib.Value {
	if node.IsNull() || depth > maxNameTreeDepth {
		return pdflib.Value{}
	}
	names := node.Key("Names")
	for i := 0; i+1 < names.Len(); i += 2 {
		if names.Index(i).Text() == name {
			return names.Index(i + 1)
		}
	}
	kids := node.Key("Kids")
	for i := 0; i < kids.Len(); i++ {
		if v := lookupNameTree(kids.Index(i), name, depth+1); !v.IsNull() {
			return v
		}
	}
	return pdflib.Value{}
}
