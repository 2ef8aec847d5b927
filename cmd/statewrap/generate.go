package main

import (
	"context"
	"os"

	"github.com/aretw0/statewrap/internal/cli"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [entity...]",
	Short: "Generate wrapper types",
	Long: `Expands every named entity (all entities when none are named) and writes the result.
Use --out - to print to stdout and --watch to regenerate on every description change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		format, _ := flags.GetString("format")
		out, _ := flags.GetString("out")
		split, _ := flags.GetBool("split")
		pkg, _ := flags.GetString("package")
		suffix, _ := flags.GetString("suffix")
		workers, _ := flags.GetInt("workers")
		watch, _ := flags.GetBool("watch")
		metricsFile, _ := flags.GetString("metrics-file")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		return cli.RunGenerate(sigCtx, globalOptions(cmd), cli.GenerateOptions{
			Names:       args,
			Format:      format,
			OutDir:      out,
			Split:       split,
			Package:     pkg,
			Suffix:      suffix,
			Workers:     workers,
			Watch:       watch,
			MetricsFile: metricsFile,
		}, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringP("format", "f", "", "Output format: go, json or mermaid (default go)")
	generateCmd.Flags().StringP("out", "o", "", "Output directory, or - for stdout (default .)")
	generateCmd.Flags().Bool("split", false, "Write one Go file per wrapper")
	generateCmd.Flags().String("package", "", "Override the Go package name")
	generateCmd.Flags().String("suffix", "", "Wrapper name suffix (default State)")
	generateCmd.Flags().Int("workers", 0, "Permutations assembled concurrently (default GOMAXPROCS)")
	generateCmd.Flags().BoolP("watch", "w", false, "Regenerate when descriptions change")
	generateCmd.Flags().String("metrics-file", "", "Write Prometheus metrics in textfile format after generating")
}
