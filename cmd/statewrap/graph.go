package main

import (
	"os"

	"github.com/aretw0/statewrap/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <entity>",
	Short: "Export the transition diagram of an entity",
	Long:  `Generates the entity and outputs a Mermaid diagram (graph TD) with one node per wrapper and one edge per transition.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		return cli.RunGraph(cmd.Context(), globalOptions(cmd), args[0], from, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("from", "", "Highlight this wrapper and every wrapper reachable from it")
}
