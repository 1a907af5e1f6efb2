package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

// rootCmd is the base command when called without subcommands
var rootCmd = &cobra.Command{
	Use:   "spacedock",
	Short: "Search, ranking and similarity engine for SpaceDock mods",
	Long: `Serves mod search, browse listings and activity tracking over HTTP,
and runs the batch jobs that keep mod scores and similar-mod lists fresh.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing spacedock.env")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
