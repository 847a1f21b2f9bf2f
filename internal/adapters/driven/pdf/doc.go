// Package pdf reads the bookmark tree of a PDF file.
//
// It uses github.com/ledongthuc/pdf, a pure Go reader. Bookmarks are exposed
// through driven.BookmarkHandle, walking the /Outlines dictionary's /First
// and /Next chains. Import converts that tree into outline seeds for a
// document store, resolving each bookmark's destination to a page number
// and a point in viewer coordinates.
//
// The reader is read-only; edits happen in the document store after import.
package pdf
