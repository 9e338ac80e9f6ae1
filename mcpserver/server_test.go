package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wudi/docsmith/actions"
)

func TestNewServer(t *testing.T) {
	if _, err := NewServer(nil, nil); err != ErrMissingService {
		t.Fatalf("nil service error = %v", err)
	}

	svc := actions.NewService(nil, actions.Providers{}, nil)
	srv, err := NewServer(svc, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if srv.server == nil {
		t.Fatal("inner MCP server not built")
	}
}

func TestToolWrapper(t *testing.T) {
	svc := actions.NewService(nil, actions.Providers{}, nil)
	create := tool(svc.DeckCreate)

	_, out, err := create(context.Background(), nil, actions.DeckCreateInput{Title: "T"})
	if err != nil {
		t.Fatalf("deck_create: %v", err)
	}
	if out.Handle == "" || out.ID == "" {
		t.Fatalf("deck_create output: %+v", out)
	}

	// Errors pass through untouched for the SDK to report.
	addSlide := tool(svc.DeckAddSlide)
	if _, _, err := addSlide(context.Background(), nil, actions.DeckAddSlideInput{Handle: "garbage"}); err == nil {
		t.Fatal("bad handle accepted")
	}
}

func TestActionsResource(t *testing.T) {
	svc := actions.NewService(nil, actions.Providers{}, nil)
	srv, err := NewServer(svc, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	req := &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: uriScheme + "actions"},
	}
	res, err := srv.handleActionsResource(context.Background(), req)
	if err != nil {
		t.Fatalf("read actions resource: %v", err)
	}
	if len(res.Contents) != 1 || res.Contents[0].MIMEType != "application/json" {
		t.Fatalf("resource contents: %+v", res.Contents)
	}
	body := res.Contents[0].Text
	for _, want := range []string{"deck.create", "fit.preview", "document.export"} {
		if !strings.Contains(body, want) {
			t.Errorf("catalog missing %s:\n%s", want, body)
		}
	}
}
