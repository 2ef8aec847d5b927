package main

import (
	"os"

	"github.com/aretw0/statewrap/internal/cli"
	"github.com/aretw0/statewrap/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <entity>",
	Short: "Show the wrappers of an entity",
	Long:  `Prints a report of the state groups, wrappers and transitions of an entity. Markdown is rendered on terminals.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunInspect(cmd.Context(), globalOptions(cmd), args[0], os.Stdout, tui.RendererFor(os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
