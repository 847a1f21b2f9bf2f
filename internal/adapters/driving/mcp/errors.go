// Package mcp provides an MCP (Model Context Protocol) server adapter for
// outline editing. It lets AI assistants read and edit document outlines.
package mcp

import "errors"

// ErrMissingDocumentStore is returned when the document store is not provided.
var ErrMissingDocumentStore = errors.New("mcp: document store is required")

// ErrMissingPanelOpener is returned when no panel opener is provided.
var ErrMissingPanelOpener = errors.New("mcp: panel opener is required")
