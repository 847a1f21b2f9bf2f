package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/outline-cli/internal/adapters/driven/pdf"
	"github.com/custodia-labs/outline-cli/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage documents",
	Long:  `Create, import, list, or remove the documents whose outlines are managed.`,
}

var documentCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create an empty document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentCreate,
}

var documentImportCmd = &cobra.Command{
	Use:   "import [file.pdf]",
	Short: "Import a PDF's bookmarks",
	Long: `Reads the bookmark tree of a PDF file and stores it as the outline tree
of a document. The document is named after the file unless --name is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentImport,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentShowCmd = &cobra.Command{
	Use:   "show [doc]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentShow,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc]",
	Short: "Delete a document and its outlines",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

// Flags for document commands.
var (
	createPages      int
	createPageHeight float64
	importName       string
	importReplace    bool
)

func init() {
	documentCreateCmd.Flags().IntVar(&createPages, "pages", 0, "Number of pages (0 = unknown)")
	documentCreateCmd.Flags().Float64Var(&createPageHeight, "page-height", domain.DefaultPageHeight, "Page height in points")
	documentImportCmd.Flags().StringVarP(&importName, "name", "n", "", "Document name (default: file name)")
	documentImportCmd.Flags().BoolVar(&importReplace, "replace", false, "Replace the outlines of an existing document")

	documentCmd.AddCommand(documentCreateCmd)
	documentCmd.AddCommand(documentImportCmd)
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentShowCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentCreate(cmd *cobra.Command, args []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	doc, err := svc.Documents.CreateDocument(cmd.Context(), domain.Document{
		Name:       args[0],
		PageCount:  createPages,
		PageHeight: createPageHeight,
	})
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	cmd.Printf("Created document %s (%s)\n", doc.Name, doc.ID)
	return nil
}

func runDocumentImport(cmd *cobra.Command, args []string) error {
	if err := requireServices(); err != nil {
		return err
	}
	ctx := cmd.Context()
	path := args[0]

	imported, err := pdf.ImportFile(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	name := importName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	doc, err := svc.Documents.CreateDocument(ctx, domain.Document{
		Name:       name,
		SourcePath: abs,
		PageCount:  imported.PageCount,
		PageHeight: imported.PageHeight,
	})
	if errors.Is(err, domain.ErrAlreadyExists) && importReplace {
		doc, err = svc.Documents.GetDocument(ctx, name)
	}
	if err != nil {
		return fmt.Errorf("failed to register document: %w", err)
	}

	if err := svc.Documents.ReplaceOutlines(ctx, doc.ID, imported.Seeds); err != nil {
		return fmt.Errorf("failed to store outlines: %w", err)
	}

	cmd.Printf("Imported %d outlines from %s into %s (%s)\n", imported.Count(), path, doc.Name, doc.ID)
	return nil
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	docs, err := svc.Documents.ListDocuments(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents. Create one with 'outline document create' or 'outline document import'.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s  %s\n", docs[i].ID, docs[i].Name)
	}
	cmd.Println()
	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentShow(cmd *cobra.Command, args []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	doc, err := svc.Documents.GetDocument(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("ID:          %s\n", doc.ID)
	cmd.Printf("Name:        %s\n", doc.Name)
	if doc.SourcePath != "" {
		cmd.Printf("Source:      %s\n", doc.SourcePath)
	}
	cmd.Printf("Pages:       %d\n", doc.PageCount)
	cmd.Printf("Page height: %.0fpt\n", doc.PageHeight)
	if !doc.LastOutline.IsZero() {
		cmd.Printf("Last viewed: %s\n", doc.LastOutline)
	}
	cmd.Printf("Updated:     %s\n", doc.UpdatedAt.Local().Format("2006-01-02 15:04"))
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if err := requireServices(); err != nil {
		return err
	}
	ctx := cmd.Context()

	doc, err := svc.Documents.GetDocument(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}
	if err := svc.Documents.DeleteDocument(ctx, doc.ID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted document %s\n", doc.Name)
	return nil
}
