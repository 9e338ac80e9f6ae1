package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const uriScheme = "docsmith://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "actions",
		Name:        "actions",
		Description: "Catalog of the actions this server exposes",
		MIMEType:    "application/json",
	}, s.handleActionsResource)
}

// handleActionsResource returns the action catalog, which doubles as a
// quick capability probe for clients.
func (s *Server) handleActionsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type actionInfo struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	list := s.reg.List()
	infos := make([]actionInfo, len(list))
	for i, a := range list {
		infos[i] = actionInfo{Name: a.Name, Description: a.Description}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling actions: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
