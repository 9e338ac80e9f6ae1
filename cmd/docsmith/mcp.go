package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wudi/docsmith/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the actions over the Model Context Protocol",
	Long: `Serve every configured action as an MCP tool.

By default the server speaks JSON-RPC over stdio, for use from MCP
clients launched as subprocesses. With --addr (or mcp.transport =
"http" in the config) it serves streamable HTTP instead.

Example client configuration:
  {
    "mcpServers": {
      "docsmith": {
        "command": "/path/to/docsmith",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

var mcpAddr string

func init() {
	mcpServeCmd.Flags().StringVar(&mcpAddr, "addr", "", "HTTP listen address (empty = stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := newService(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	server, err := mcpserver.NewServer(svc, logger())
	if err != nil {
		return err
	}

	addr := mcpAddr
	if addr == "" && cfg.MCP.Transport == "http" {
		addr = cfg.MCP.Addr
	}
	if addr != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}
	return server.Run(cmd.Context())
}
