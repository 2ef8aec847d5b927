package main

import (
	"context"
	"os"

	"github.com/aretw0/statewrap/internal/cli"
	"github.com/aretw0/statewrap/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Exposes descriptions, generated units, transition diagrams and metrics as a JSON/HTTP API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")

		if cli.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout)
		}

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()
		return cli.RunServe(sigCtx, globalOptions(cmd), ":"+port, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
