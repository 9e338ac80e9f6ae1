package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wudi/docsmith/actions"
)

// tool adapts an action method into an MCP tool handler. The action's
// input struct doubles as the tool's input schema.
func tool[In, Out any](fn func(ctx context.Context, in In) (Out, error)) mcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		out, err := fn(ctx, in)
		if err != nil {
			var zero Out
			return nil, zero, err
		}
		return nil, out, nil
	}
}

// registerTools registers all tool handlers with the MCP server.
// Remote tools only appear when the matching provider is configured.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "deck_create",
		Description: "Create an empty presentation deck and return its handle",
	}, tool(s.svc.DeckCreate))
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "deck_add_slide",
		Description: "Append a slide, optionally laid out from markdown",
	}, tool(s.svc.DeckAddSlide))
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "deck_add_text",
		Description: "Place an auto-fitted text box on a slide and report how the text landed",
	}, tool(s.svc.DeckAddText))
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "deck_add_table",
		Description: "Place a table on a slide",
	}, tool(s.svc.DeckAddTable))
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "deck_add_image",
		Description: "Place an image on a slide from base64 data",
	}, tool(s.svc.DeckAddImage))
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "deck_script",
		Description: "Run a JavaScript snippet against the deck's object model",
	}, tool(s.svc.DeckScript))
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "deck_render",
		Description: "Render the deck to PDF, PNG, or SVG for preview",
	}, tool(s.svc.DeckRender))
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "deck_export",
		Description: "Export the deck as a .pptx file",
	}, tool(s.svc.DeckExport))
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "deck_inspect",
		Description: "Report deck structure, overflowing frames, and validation findings",
	}, tool(s.svc.DeckInspect))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "document_create",
		Description: "Create an empty word-processing document and return its handle",
	}, tool(s.svc.DocCreate))
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "document_add_markdown",
		Description: "Append markdown or HTML content to the document body",
	}, tool(s.svc.DocAddMarkdown))
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "document_export",
		Description: "Export the document as a .docx file",
	}, tool(s.svc.DocExport))
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "fit_preview",
		Description: "Preview the auto-fit size search for text in a box",
	}, tool(s.svc.FitPreview))

	s.registerRemoteTools(s.svc.Providers())
}

func (s *Server) registerRemoteTools(p actions.Providers) {
	if p.Links != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "links_shorten",
			Description: "Shorten a URL with Bitly",
		}, tool(s.svc.LinksShorten))
	}
	if p.Search != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "search_web",
			Description: "Run a web search via SerpAPI",
		}, tool(s.svc.SearchWeb))
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "search_images",
			Description: "Run an image search via SerpAPI",
		}, tool(s.svc.SearchImages))
	}
	if p.Sheets != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "sheets_read",
			Description: "Read a range from a Google Sheet",
		}, tool(s.svc.SheetsRead))
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "sheets_append",
			Description: "Append a row to a Google Sheet",
		}, tool(s.svc.SheetsAppend))
	}
	if p.Storage != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "storage_upload",
			Description: "Upload a file to Dropbox, optionally sharing it",
		}, tool(s.svc.StorageUpload))
	}
	if p.Meetings != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "meetings_create",
			Description: "Schedule a Zoom meeting",
		}, tool(s.svc.MeetingsCreate))
	}
}
