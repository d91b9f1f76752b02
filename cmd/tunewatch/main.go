package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/tunewatch/internal/config"
	"github.com/Nomadcxx/tunewatch/internal/logging"
)

var (
	version = "dev" // Set by build flags: -ldflags="-X main.version=1.0.0"
	cfgFile string
	dryRun  bool
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tunewatch",
		Short: "Music file organizer",
		Long: `Tunewatch organizes music collections into a browsable library.

Files are filed by their tags:
  <library>/<Letter>/<Album Artist>/<Album>/<original filename>

Every run appends a CSV manifest of what moved where, and completed
moves are recorded in a local history database.`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/tunewatch/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "preview changes without moving files")

	rootCmd.AddCommand(newOrganizeCmd())
	rootCmd.AddCommand(newCleanupCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tunewatch %s\n", version)
		},
	}
}

// loadConfig loads the config file named by --config, or the default one.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadPath(cfgFile)
	}
	return config.Load()
}

// newLogger builds the run's logger from config, letting --verbose win
// over the configured level.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	logCfg := logging.Config{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	}
	if verbose {
		logCfg.Level = "debug"
	}
	return logging.New(logCfg)
}
