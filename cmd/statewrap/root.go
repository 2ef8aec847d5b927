package main

import (
	"fmt"
	"os"

	"github.com/aretw0/statewrap/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "statewrap",
	Short: "statewrap generates state-typed wrappers for stateful types",
	Long: `statewrap reads declarative descriptions of stateful entities and generates one
wrapper type per permutation of states, exposing only the capabilities legal in it.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing the entity descriptions")
	rootCmd.PersistentFlags().String("provider", cli.ProviderLoam, "Description provider: loam or file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: <dir>/statewrap.yaml if present)")
	rootCmd.PersistentFlags().String("cache-dir", "", "Cache generated units in this directory")
	rootCmd.PersistentFlags().String("redis", "", "Cache generated units in redis at this address")
}

// globalOptions reads the persistent flags.
func globalOptions(cmd *cobra.Command) cli.Options {
	flags := cmd.Flags()
	dir, _ := flags.GetString("dir")
	provider, _ := flags.GetString("provider")
	debug, _ := flags.GetBool("debug")
	logFormat, _ := flags.GetString("log-format")
	configPath, _ := flags.GetString("config")
	cacheDir, _ := flags.GetString("cache-dir")
	redisAddr, _ := flags.GetString("redis")

	return cli.Options{
		Dir:        dir,
		Provider:   provider,
		Debug:      debug,
		LogFormat:  logFormat,
		ConfigPath: configPath,
		CacheDir:   cacheDir,
		RedisAddr:  redisAddr,
	}
}
