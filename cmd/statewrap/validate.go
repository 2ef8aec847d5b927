package main

import (
	"os"

	"github.com/aretw0/statewrap/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [entity...]",
	Short: "Check descriptions for consistency",
	Long:  `Runs the whole generation pipeline without writing anything and reports why each invalid entity was rejected.
Valid entities are linted for capabilities no wrapper exposes and for wrappers without transitions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		return cli.RunValidate(cmd.Context(), globalOptions(cmd), args, from, os.Stdout, cli.IsTerminal(os.Stdout))
	},
}

func init() {
	validateCmd.Flags().String("from", "", "Also report wrappers unreachable from this wrapper")
	rootCmd.AddCommand(validateCmd)
}
