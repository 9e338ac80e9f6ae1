// Command docsmith generates presentation decks and word documents
// from markdown, with auto-fitted text, and serves the same
// operations over MCP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	// Credentials may live in a .env next to the binary; a missing
	// file is fine.
	godotenv.Load() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "docsmith:", err)
		os.Exit(1)
	}
}
