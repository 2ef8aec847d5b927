package main

import (
	"os"

	"github.com/aretw0/statewrap/internal/cli"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List described entities",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunList(cmd.Context(), globalOptions(cmd), os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
