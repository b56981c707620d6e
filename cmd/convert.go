package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/docsmith/internal/config"
	"github.com/teemow/docsmith/internal/docs"
	"github.com/teemow/docsmith/internal/markdown"
	"github.com/teemow/docsmith/internal/slides"
)

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert Markdown offline",
		Long: `Convert a Markdown file without calling any Google API and print the
result as JSON. Use - as FILE to read from stdin.`,
	}

	cmd.AddCommand(newConvertDocumentCmd())
	cmd.AddCommand(newConvertOutlineCmd())
	cmd.AddCommand(newConvertRequestsCmd())
	cmd.AddCommand(newConvertSlidesCmd())

	return cmd
}

func newConvertDocumentCmd() *cobra.Command {
	var (
		tabID  string
		format string
	)

	cmd := &cobra.Command{
		Use:   "document FILE",
		Short: "Convert a Docs API document payload into its structured form",
		Long: `Convert a document as returned by the Docs API documents.get endpoint
(with includeTabsContent) into the structured form, Markdown or plain text.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			doc, tabs, err := docs.DecodeDocument([]byte(source))
			if err != nil {
				return err
			}
			structured, err := docs.BuildStructuredDocument(docs.Source{Document: doc, Tabs: tabs}, tabID)
			if err != nil {
				return err
			}

			var text string
			switch format {
			case "structured":
				return writeJSON(cmd.OutOrStdout(), structured)
			case "markdown":
				text, err = docs.RenderMarkdown(structured)
			case "text":
				text, err = docs.RenderPlainText(structured)
			default:
				return fmt.Errorf("unknown format %q (supported: structured, markdown, text)", format)
			}
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), text)
			return err
		},
	}

	cmd.Flags().StringVar(&tabID, "tab-id", "", "Only convert the tab with this ID")
	cmd.Flags().StringVar(&format, "format", "structured", "Output format: structured, markdown or text")

	return cmd
}

func newConvertOutlineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outline FILE",
		Short: "Print the slide outline of a Markdown file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), markdown.ParseOutline(source))
		},
	}
}

func newConvertRequestsCmd() *cobra.Command {
	var startIndex int64

	cmd := &cobra.Command{
		Use:   "requests FILE",
		Short: "Print the Google Docs batchUpdate requests for a Markdown file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if startIndex < 1 {
				return fmt.Errorf("--start-index must be at least 1")
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			source, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}

			compiler := &docs.Compiler{ImageWidthPt: cfg.Docs.ImageWidthPt}
			return writeJSON(cmd.OutOrStdout(), compiler.Compile(docs.ParseMarkdownBlocks(source), startIndex))
		},
	}

	cmd.Flags().Int64Var(&startIndex, "start-index", 1, "Document index the content is inserted at")

	return cmd
}

func newConvertSlidesCmd() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "slides FILE",
		Short: "Print the Google Slides request batches for a Markdown file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			source, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}

			outline, deckTitle, err := slides.Prepare(title, source)
			if err != nil {
				return err
			}
			builder := slides.NewBuilder(geometry(cfg), nil)
			return writeJSON(cmd.OutOrStdout(), struct {
				Title    string               `json:"title"`
				Warnings []string             `json:"warnings"`
				Batches  []*slides.SlideBatch `json:"batches"`
			}{deckTitle, outline.Warnings, builder.Build(outline)})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Presentation title (default: the # H1 heading)")

	return cmd
}

func geometry(cfg *config.Config) slides.Geometry {
	return slides.Geometry{PageWidthPt: cfg.Slides.PageWidthPt, PageHeightPt: cfg.Slides.PageHeightPt}
}

func readSource(cmd *cobra.Command, path string) (string, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(cmd.InOrStdin())
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(b), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
