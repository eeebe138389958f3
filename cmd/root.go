package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/padasch/french-nfi-dashboard/internal/config"
	"github.com/padasch/french-nfi-dashboard/internal/lists"
	"github.com/padasch/french-nfi-dashboard/internal/observability"
)

var (
	dataDir    string
	assetsDir  string
	verbose    bool
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
	closeLog   func() error
)

var rootCmd = &cobra.Command{
	Use:           "nfi-dash",
	Short:         "Browse pre-rendered tree mortality maps from the French National Forest Inventory",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if !cmd.Flags().Changed("data-dir") {
			dataDir = cfg.Data.Dir
		}
		if !cmd.Flags().Changed("assets-dir") {
			assetsDir = cfg.Assets.Dir
		}

		logger, closeLog, err = observability.NewLogger(cfg.Log, verbose)
		if err != nil {
			return fmt.Errorf("setting up logging: %w", err)
		}
		slog.SetDefault(logger)

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if closeLog != nil {
			return closeLog()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "data", "Directory for the dataset database")
	rootCmd.PersistentFlags().StringVar(&assetsDir, "assets-dir", "figs", "Directory of pre-rendered figures")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// loadLists reads the four group value files named in the config.
func loadLists() (*lists.Lists, error) {
	l, err := lists.Load(cfg.ListFiles())
	if err != nil {
		return nil, fmt.Errorf("loading group lists: %w", err)
	}
	return l, nil
}

func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
