package slides_tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/docsmith/internal/instrumentation"
	"github.com/teemow/docsmith/internal/markdown"
	"github.com/teemow/docsmith/internal/server"
	"github.com/teemow/docsmith/internal/slides"
	"github.com/teemow/docsmith/internal/tools/common"
)

// RegisterSlidesTools registers the Google Slides tools with the MCP server.
// The tools that write to Google Slides are only registered when readOnly is
// false.
func RegisterSlidesTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	previewTool := mcp.NewTool("slides_preview_outline",
		mcp.WithDescription("Parse Markdown into a slide outline without creating a presentation. # H1 is the presentation title and every ## H2 starts a slide."),
		mcp.WithString("markdown",
			mcp.Required(),
			mcp.Description("Markdown content of the deck"),
		),
		mcp.WithBoolean("includeRequests",
			mcp.Description("Also return the Slides API requests for every slide (default: false)"),
		),
	)
	s.AddTool(previewTool, common.InstrumentedToolHandler("slides_preview_outline", "", instrumentation.OperationCompile, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handlePreviewOutline(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	createTool := mcp.NewTool("slides_create_from_markdown",
		mcp.WithDescription("Create a Google Slides presentation from Markdown. # H1 is the presentation title, every ## H2 starts a slide, and the content below it becomes the slide body. The first image of a slide is placed beside the body."),
		mcp.WithString("markdown",
			mcp.Required(),
			mcp.Description("Markdown content of the deck"),
		),
		mcp.WithString("title",
			mcp.Description("Presentation title (default: the # H1 heading)"),
		),
		mcp.WithString("account",
			mcp.Description(common.AccountDescription),
		),
	)
	s.AddTool(createTool, common.InstrumentedToolHandler("slides_create_from_markdown", instrumentation.ServiceSlides, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateFromMarkdown(ctx, request, sc)
		}))

	addPageTool := mcp.NewTool("slides_add_page",
		mcp.WithDescription("Add one slide to an existing Google Slides presentation. The body is Markdown like a slide body of slides_create_from_markdown; the image is placed beside it."),
		mcp.WithString("presentation",
			mcp.Required(),
			mcp.Description("URL or ID of the presentation"),
		),
		mcp.WithString("title",
			mcp.Description("Slide title"),
		),
		mcp.WithString("body",
			mcp.Description("Slide body as Markdown"),
		),
		mcp.WithString("imageUrl",
			mcp.Description("Publicly reachable URL of an image to place on the slide"),
		),
		mcp.WithString("layout",
			mcp.Description("Predefined layout of the slide, such as TITLE_ONLY or TITLE_AND_BODY (default: BLANK)"),
		),
		mcp.WithString("account",
			mcp.Description(common.AccountDescription),
		),
	)
	s.AddTool(addPageTool, common.InstrumentedToolHandler("slides_add_page", instrumentation.ServiceSlides, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAddPage(ctx, request, sc)
		}))

	return nil
}

// PreviewOutput is the result of slides_preview_outline.
type PreviewOutput struct {
	*markdown.Outline
	RequestCount int                  `json:"requestCount"`
	Batches      []*slides.SlideBatch `json:"batches,omitempty"`
}

func handlePreviewOutline(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	source := common.StringArg(args, "markdown", "")
	if strings.TrimSpace(source) == "" {
		return common.ErrorResult(slides.ErrEmptyMarkdown), nil
	}

	outline := markdown.ParseOutline(source)
	batches := slides.NewBuilder(sc.Geometry(), nil).Build(outline)

	out := PreviewOutput{Outline: outline}
	for _, b := range batches {
		out.RequestCount += len(b.Requests)
	}
	if include, _ := args["includeRequests"].(bool); include {
		out.Batches = batches
	}

	sc.Metrics().RecordConversion(ctx, instrumentation.ConversionSlides, out.RequestCount)
	return common.JSONResult(out)
}

func handleCreateFromMarkdown(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	svc, err := sc.SlidesClientForAccount(common.GetAccountFromArgs(sc, args))
	if err != nil {
		return common.ErrorResult(err), nil
	}

	result, err := slides.CreateDeck(ctx, svc,
		common.StringArg(args, "title", ""),
		common.StringArg(args, "markdown", ""),
		slides.DeckOptions{
			Geometry: sc.Geometry(),
			Logger:   sc.Logger(),
		})
	if err != nil {
		if isValidation(err) {
			return common.ErrorResult(err), nil
		}
		return common.ErrorResult(fmt.Errorf("Failed to create presentation: %w", err)), nil
	}

	sc.Metrics().RecordConversion(ctx, instrumentation.ConversionSlides, result.RequestCount)
	sc.Metrics().RecordSlidePartialFailures(ctx, result.SlidesFailed)
	return common.JSONResult(result)
}

func handleAddPage(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	svc, err := sc.SlidesClientForAccount(common.GetAccountFromArgs(sc, args))
	if err != nil {
		return common.ErrorResult(err), nil
	}

	result, err := slides.AddSlide(ctx, svc,
		common.StringArg(args, "presentation", ""),
		slides.Page{
			Title:    common.StringArg(args, "title", ""),
			Body:     common.StringArg(args, "body", ""),
			ImageURL: common.StringArg(args, "imageUrl", ""),
			Layout:   common.StringArg(args, "layout", ""),
		},
		slides.DeckOptions{
			Geometry: sc.Geometry(),
			Logger:   sc.Logger(),
		})
	if err != nil {
		if isValidation(err) {
			return common.ErrorResult(err), nil
		}
		return common.ErrorResult(fmt.Errorf("Failed to add slide: %w", err)), nil
	}

	sc.Metrics().RecordConversion(ctx, instrumentation.ConversionSlides, result.RequestCount)
	return common.JSONResult(result)
}

func isValidation(err error) bool {
	return errors.Is(err, slides.ErrEmptyMarkdown) ||
		errors.Is(err, slides.ErrMissingPresentation) ||
		errors.Is(err, slides.ErrEmptySlide) ||
		errors.Is(err, slides.ErrUnknownLayout) ||
		errors.Is(err, slides.ErrMissingTitle) ||
		errors.Is(err, slides.ErrNoSlides)
}
