package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/outline-cli/internal/core/domain"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driving"
)

const uriScheme = "outline://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "Documents whose outlines can be edited",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}/outlines",
		Name:        "document-outlines",
		Description: "Outline tree of a document",
		MIMEType:    "application/json",
	}, s.handleOutlinesResource)
}

func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docs, err := s.ports.Documents.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	infos := make([]DocumentOutput, len(docs))
	for i := range docs {
		infos[i] = documentOutput(&docs[i])
	}
	return jsonResult(req.Params.URI, infos)
}

// outlineTree is the nested form served by the outlines resource.
type outlineTree struct {
	Path     string        `json:"path"`
	Name     string        `json:"name"`
	Page     int           `json:"page"`
	X        float64       `json:"x"`
	Y        float64       `json:"y"`
	Children []outlineTree `json:"children,omitempty"`
}

func (s *Server) handleOutlinesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	var tree []outlineTree
	err := s.withPanel(ctx, docID, func(_ *domain.Document, panel driving.OutlinePanel) error {
		tree = toTree(panel.State().Outlines)
		return nil
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("reading outlines: %w", err)
	}
	if tree == nil {
		tree = []outlineTree{}
	}
	return jsonResult(req.Params.URI, tree)
}

func toTree(nodes []domain.OutlineNode) []outlineTree {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]outlineTree, len(nodes))
	for i, n := range nodes {
		out[i] = outlineTree{
			Path:     n.Path.String(),
			Name:     n.Name,
			Page:     n.Destination.Page,
			X:        n.Destination.X,
			Y:        n.Destination.Y,
			Children: toTree(n.Children),
		}
	}
	return out
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDocumentID extracts the ID from outline://documents/{documentId}/outlines.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"
	const suffix = "/outlines"

	if len(uri) < len(prefix)+len(suffix) || !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, suffix) {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(uri, prefix), suffix)
}
