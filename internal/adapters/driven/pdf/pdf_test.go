package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/outline-cli/internal/core/domain"
)

// buildPDF assembles numbered objects (1-based) into a file with a valid
// cross-reference table.
func buildPDF(objects ...string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

// outlinedPDF has two A4 pages and the bookmarks:
//
//	Chapter 1 (bold, red)  -> page 1 at (72, 700)
//	  Section 1.1          -> page 2 via a GoTo action
//	Intro (italic)         -> named destination on page 2
func outlinedPDF() []byte {
	return buildPDF(
		"<< /Type /Catalog /Pages 2 0 R /Outlines 5 0 R /Dests << /intro [4 0 R /Fit] >> >>",
		"<< /Type /Pages /Kids [3 0 R 4 0 R] /Count 2 /MediaBox [0 0 595 842] >>",
		"<< /Type /Page /Parent 2 0 R /Contents 20 0 R >>",
		"<< /Type /Page /Parent 2 0 R /Contents 21 0 R >>",
		"<< /Type /Outlines /First 6 0 R /Last 8 0 R /Count 3 >>",
		"<< /Title (Chapter 1) /Parent 5 0 R /Next 8 0 R /First 7 0 R /Last 7 0 R /Dest [3 0 R /XYZ 72 700 0] /C [1 0 0] /F 2 >>",
		"<< /Title (Section 1.1) /Parent 6 0 R /A << /S /GoTo /D [4 0 R /XYZ 10 842 null] >> >>",
		"<< /Title (Intro) /Parent 5 0 R /Prev 6 0 R /Dest /intro /F 1 >>",
	)
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestImportFile(t *testing.T) {
	path := writeFile(t, "book.pdf", outlinedPDF())

	imported, err := ImportFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 2, imported.PageCount)
	assert.InDelta(t, 842, imported.PageHeight, 0.001)
	assert.Equal(t, 3, imported.Count())
	require.Len(t, imported.Seeds, 2)

	chapter := imported.Seeds[0]
	assert.Equal(t, "Chapter 1", chapter.Name)
	assert.Equal(t, domain.Destination{Page: 1, X: 72, Y: 142}, chapter.Destination)
	assert.Equal(t, domain.Color{R: 1}, chapter.Style.Color)
	assert.True(t, chapter.Style.Flag.Bold())

	require.Len(t, chapter.Children, 1)
	section := chapter.Children[0]
	assert.Equal(t, "Section 1.1", section.Name)
	assert.Equal(t, domain.Destination{Page: 2, X: 10, Y: 0}, section.Destination)
	assert.Equal(t, domain.Black, section.Style.Color)

	intro := imported.Seeds[1]
	assert.Equal(t, "Intro", intro.Name)
	assert.Equal(t, domain.FullPageDestination(2), intro.Destination)
	assert.True(t, intro.Style.Flag.Italic())
}

func TestImportFile_NoOutlines(t *testing.T) {
	path := writeFile(t, "plain.pdf", buildPDF(
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R >>",
	))

	imported, err := ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, imported.Seeds)
	assert.Equal(t, 1, imported.PageCount)
	assert.InDelta(t, domain.DefaultPageHeight, imported.PageHeight, 0.001)
}

func TestImportFile_Errors(t *testing.T) {
	_, err := ImportFile(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotPDF)

	path := writeFile(t, "junk.pdf", []byte("definitely not a pdf"))
	_, err = ImportFile(context.Background(), path)
	assert.ErrorIs(t, err, ErrNotPDF)
}

func TestBookmarkHandles(t *testing.T) {
	doc, err := Open(writeFile(t, "book.pdf", outlinedPDF()))
	require.NoError(t, err)
	defer doc.Close()
	ctx := context.Background()

	root, err := doc.BookmarkRoot(ctx)
	require.NoError(t, err)
	valid, err := root.IsValid(ctx)
	require.NoError(t, err)
	assert.True(t, valid)

	has, err := root.HasChildren(ctx)
	require.NoError(t, err)
	assert.True(t, has)

	next, err := root.Next(ctx)
	require.NoError(t, err)
	title, err := next.Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Intro", title)

	has, err = next.HasChildren(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	end, err := next.Next(ctx)
	require.NoError(t, err)
	valid, err = end.IsValid(ctx)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestBookmarkHandles_CancelledContext(t *testing.T) {
	doc, err := Open(writeFile(t, "book.pdf", outlinedPDF()))
	require.NoError(t, err)
	defer doc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = doc.BookmarkRoot(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
