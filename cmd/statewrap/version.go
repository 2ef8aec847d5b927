package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/statewrap"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of statewrap",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("statewrap version %s\n", strings.TrimSpace(statewrap.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
