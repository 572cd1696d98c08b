package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mlindgren/vitrine/internal/mcp"
)

func runMCP(args []string) int {
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "Usage: vitrine mcp")
		return 2
	}

	srv := mcp.NewServer()
	if err := srv.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		return 1
	}
	return 0
}
