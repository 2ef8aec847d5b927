package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/statewrap/pkg/adapters/mcp"
)

// RunMCP exposes the engine as an MCP server, on stdio unless port is set.
// Stdout belongs to the protocol in stdio mode, so out is only written in SSE mode.
func RunMCP(ctx context.Context, opts Options, port int, out io.Writer) error {
	a, err := open(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := mcp.NewServer(a.Engine, mcp.WithLogger(a.Logger))
	if port == 0 {
		a.Logger.Info("MCP Server listening (stdio)", "dir", opts.Dir)
		return srv.ServeStdio()
	}

	printSystemMessage(out, "Starting MCP server (SSE) on port %d", port)
	return srv.ServeSSE(ctx, fmt.Sprintf(":%d", port), fmt.Sprintf("http://localhost:%d", port))
}
