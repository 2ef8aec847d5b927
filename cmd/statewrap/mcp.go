package main

import (
	"context"
	"os"

	"github.com/aretw0/statewrap/internal/cli"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start a Model Context Protocol server",
	Long: `Exposes listing, generation and validation as MCP tools, and generated units as resources.
Serves on stdio by default, or over SSE when --port is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()
		return cli.RunMCP(sigCtx, globalOptions(cmd), port, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().IntP("port", "p", 0, "Serve over SSE on this port instead of stdio")
}
