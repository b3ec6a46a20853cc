package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DarlingtonDeveloper/listkey/config"
)

// Global flags
var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "listkey",
	Short: "Assign stable, collision-free keys to list items",
	Long: `listkey derives a deterministic key for every element of a JSON array.

Keys come from a shallow fingerprint of each element: only the first level
of an object or array contributes. Keys are unique within one array.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// setup loads the config for cmd and builds its logger.
func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	log, err := newLogger(cfg.Log.Verbose || verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	return zc.Build()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
