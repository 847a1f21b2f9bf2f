package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/outline-cli/internal/core/domain"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driving"
)

// DocumentInput selects a document by ID or name.
type DocumentInput struct {
	Document string `json:"document" jsonschema:"document ID or name"`
}

// DocumentOutput describes one document.
type DocumentOutput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	SourcePath  string `json:"source_path,omitempty"`
	PageCount   int    `json:"page_count"`
	LastOutline string `json:"last_outline,omitempty"`
}

// DocumentsOutput is the output of list_documents.
type DocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
}

// OutlineOutput is one outline in depth-first order.
type OutlineOutput struct {
	Path   string  `json:"path"`
	Name   string  `json:"name"`
	Depth  int     `json:"depth"`
	Page   int     `json:"page"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Active bool    `json:"active,omitempty"`
	Color  string  `json:"color,omitempty"`
	Style  string  `json:"style,omitempty"`
}

// OutlinesOutput is the outline listing of a document.
type OutlinesOutput struct {
	Document string          `json:"document"`
	Outlines []OutlineOutput `json:"outlines"`
	Count    int             `json:"count"`
	Editable bool            `json:"editable"`
}

// AddInput is the input of add_outline.
type AddInput struct {
	Document string  `json:"document" jsonschema:"document ID or name"`
	Parent   string  `json:"parent,omitempty" jsonschema:"path of the parent outline, e.g. 0-1; empty adds at top level"`
	Name     string  `json:"name,omitempty" jsonschema:"outline name; defaults to the selected text or Untitled"`
	Page     int     `json:"page,omitempty" jsonschema:"1-based target page (default 1)"`
	X        float64 `json:"x,omitempty" jsonschema:"x of the target point in page space"`
	Y        float64 `json:"y,omitempty" jsonschema:"y of the target point in page space"`
	Text     string  `json:"text,omitempty" jsonschema:"text selected at the target point"`
}

// PathOutput reports the path an operation produced.
type PathOutput struct {
	Path string `json:"path"`
}

// RenameInput is the input of rename_outline.
type RenameInput struct {
	Document string `json:"document" jsonschema:"document ID or name"`
	Path     string `json:"path" jsonschema:"path of the outline to rename"`
	Name     string `json:"name" jsonschema:"new name"`
}

// MoveInput is the input of move_outline.
type MoveInput struct {
	Document string `json:"document" jsonschema:"document ID or name"`
	Path     string `json:"path" jsonschema:"path of the outline to move"`
	Target   string `json:"target" jsonschema:"path of the outline to move relative to"`
	Where    string `json:"where,omitempty" jsonschema:"before, after (default) or inward"`
}

// DeleteInput is the input of delete_outlines.
type DeleteInput struct {
	Document string   `json:"document" jsonschema:"document ID or name"`
	Paths    []string `json:"paths" jsonschema:"paths of the outlines to delete with their children"`
}

// DeleteOutput reports how many outlines were requested for deletion.
type DeleteOutput struct {
	Deleted int `json:"deleted"`
}

// PathInput selects one outline.
type PathInput struct {
	Document string `json:"document" jsonschema:"document ID or name"`
	Path     string `json:"path" jsonschema:"outline path, e.g. 0-1"`
}

// DestinationInput is the input of set_destination.
type DestinationInput struct {
	Document string  `json:"document" jsonschema:"document ID or name"`
	Path     string  `json:"path" jsonschema:"outline path, e.g. 0-1"`
	Page     int     `json:"page" jsonschema:"1-based target page"`
	X        float64 `json:"x,omitempty" jsonschema:"x of the target point in page space"`
	Y        float64 `json:"y,omitempty" jsonschema:"y of the target point in page space"`
	FullPage bool    `json:"full_page,omitempty" jsonschema:"target the whole page and ignore x and y"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List documents whose outlines can be edited",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_outlines",
		Description: "List a document's outlines depth-first with their paths, targets and styling",
	}, s.handleListOutlines)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_outline",
		Description: "Add an outline at top level or as the last child of a parent",
	}, s.handleAdd)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rename_outline",
		Description: "Rename an outline",
	}, s.handleRename)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "move_outline",
		Description: "Move an outline before, after or inside another outline",
	}, s.handleMove)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_outlines",
		Description: "Delete outlines and everything under them",
	}, s.handleDelete)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "goto_outline",
		Description: "Make an outline the document's current position",
	}, s.handleGoto)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "set_destination",
		Description: "Change where an outline points to",
	}, s.handleSetDestination)
}

// withPanel opens a panel for one call.
func (s *Server) withPanel(
	ctx context.Context,
	document string,
	fn func(doc *domain.Document, panel driving.OutlinePanel) error,
) error {
	if document == "" {
		return fmt.Errorf("%w: document is required", domain.ErrInvalidInput)
	}
	doc, panel, err := s.ports.OpenPanel(ctx, document)
	if err != nil {
		return err
	}
	defer panel.Deactivate()
	return fn(doc, panel)
}

func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, DocumentsOutput, error) {
	docs, err := s.ports.Documents.ListDocuments(ctx)
	if err != nil {
		return nil, DocumentsOutput{}, fmt.Errorf("listing documents: %w", err)
	}
	out := DocumentsOutput{Documents: make([]DocumentOutput, len(docs))}
	for i := range docs {
		out.Documents[i] = documentOutput(&docs[i])
	}
	return nil, out, nil
}

func documentOutput(d *domain.Document) DocumentOutput {
	return DocumentOutput{
		ID:          d.ID,
		Name:        d.Name,
		SourcePath:  d.SourcePath,
		PageCount:   d.PageCount,
		LastOutline: d.LastOutline.String(),
	}
}

func (s *Server) handleListOutlines(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentInput,
) (*mcp.CallToolResult, OutlinesOutput, error) {
	var out OutlinesOutput
	err := s.withPanel(ctx, input.Document, func(doc *domain.Document, panel driving.OutlinePanel) error {
		out = outlinesOutput(doc, panel)
		return nil
	})
	return nil, out, err
}

func outlinesOutput(doc *domain.Document, panel driving.OutlinePanel) OutlinesOutput {
	rows := panel.Rows()
	out := OutlinesOutput{
		Document: doc.Name,
		Outlines: make([]OutlineOutput, len(rows)),
		Count:    len(rows),
		Editable: panel.State().Editable,
	}
	for i, row := range rows {
		o := OutlineOutput{
			Path:   row.Node.Path.String(),
			Name:   row.Node.Name,
			Depth:  row.Depth,
			Page:   row.Node.Destination.Page,
			X:      row.Node.Destination.X,
			Y:      row.Node.Destination.Y,
			Active: row.Active,
		}
		if row.Bookmark != nil {
			o.Color = row.Bookmark.Style.Color.Hex()
			o.Style = row.Bookmark.Style.Flag.String()
		}
		out.Outlines[i] = o
	}
	return out
}

func (s *Server) handleAdd(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddInput,
) (*mcp.CallToolResult, PathOutput, error) {
	var out PathOutput
	err := s.withPanel(ctx, input.Document, func(_ *domain.Document, panel driving.OutlinePanel) error {
		page := input.Page
		if page <= 0 {
			page = 1
		}
		panel.SetCurrentPage(page)
		if input.Parent != "" {
			parent, err := domain.ParsePath(input.Parent)
			if err != nil {
				return err
			}
			panel.SetActive(parent)
		}
		if err := panel.BeginAdd(ctx); err != nil {
			return err
		}
		if input.X != 0 || input.Y != 0 || input.Text != "" {
			panel.PickDestination(domain.DestinationPick{
				Page:        page,
				X:           input.X,
				Y:           input.Y,
				IsText:      input.Text != "",
				PreviewText: input.Text,
			})
		}
		path, err := panel.CommitAdd(ctx, input.Name)
		if err != nil {
			_ = panel.CancelAdd(ctx)
			return err
		}
		out.Path = path.String()
		return nil
	})
	return nil, out, err
}

func (s *Server) handleRename(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RenameInput,
) (*mcp.CallToolResult, PathOutput, error) {
	path, err := domain.ParsePath(input.Path)
	if err != nil {
		return nil, PathOutput{}, err
	}
	err = s.withPanel(ctx, input.Document, func(_ *domain.Document, panel driving.OutlinePanel) error {
		if err := panel.BeginRename(path); err != nil {
			return err
		}
		return panel.CommitRename(ctx, path, input.Name)
	})
	return nil, PathOutput{Path: path.String()}, err
}

func (s *Server) handleMove(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MoveInput,
) (*mcp.CallToolResult, PathOutput, error) {
	drag, err := domain.ParsePath(input.Path)
	if err != nil {
		return nil, PathOutput{}, err
	}
	drop, err := domain.ParsePath(input.Target)
	if err != nil {
		return nil, PathOutput{}, err
	}
	where := input.Where
	if where == "" {
		where = "after"
	}
	dir, err := domain.ParseMoveDirection(where)
	if err != nil {
		return nil, PathOutput{}, fmt.Errorf("%w: where must be before, after or inward", err)
	}

	var out PathOutput
	err = s.withPanel(ctx, input.Document, func(_ *domain.Document, panel driving.OutlinePanel) error {
		path, err := panel.Move(ctx, drag, drop, dir)
		out.Path = path.String()
		return err
	})
	return nil, out, err
}

func (s *Server) handleDelete(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteInput,
) (*mcp.CallToolResult, DeleteOutput, error) {
	paths := make([]domain.Path, 0, len(input.Paths))
	for _, raw := range input.Paths {
		p, err := domain.ParsePath(raw)
		if err != nil {
			return nil, DeleteOutput{}, err
		}
		paths = append(paths, p)
	}

	err := s.withPanel(ctx, input.Document, func(_ *domain.Document, panel driving.OutlinePanel) error {
		if err := panel.RequestDelete(paths); err != nil {
			return err
		}
		return panel.ConfirmDelete(ctx)
	})
	if err != nil {
		return nil, DeleteOutput{}, err
	}
	return nil, DeleteOutput{Deleted: len(paths)}, nil
}

func (s *Server) handleGoto(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PathInput,
) (*mcp.CallToolResult, PathOutput, error) {
	path, err := domain.ParsePath(input.Path)
	if err != nil {
		return nil, PathOutput{}, err
	}
	err = s.withPanel(ctx, input.Document, func(_ *domain.Document, panel driving.OutlinePanel) error {
		return panel.Navigate(ctx, path)
	})
	return nil, PathOutput{Path: path.String()}, err
}

func (s *Server) handleSetDestination(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DestinationInput,
) (*mcp.CallToolResult, PathOutput, error) {
	path, err := domain.ParsePath(input.Path)
	if err != nil {
		return nil, PathOutput{}, err
	}
	if input.Page < 1 {
		return nil, PathOutput{}, fmt.Errorf("%w: page must be at least 1", domain.ErrInvalidInput)
	}
	err = s.withPanel(ctx, input.Document, func(_ *domain.Document, panel driving.OutlinePanel) error {
		panel.SetCurrentPage(input.Page)
		if !input.FullPage {
			panel.PickDestination(domain.DestinationPick{Page: input.Page, X: input.X, Y: input.Y})
		}
		return panel.UpdateDestination(ctx, path)
	})
	return nil, PathOutput{Path: path.String()}, err
}
