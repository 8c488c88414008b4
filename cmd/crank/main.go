// Command crank reads workout logbooks, keeps them in a JSON store, repairs
// set notation the parser could not read, and plans 5/3/1 and pyramid days.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/claude/crank/internal/config"
	"github.com/claude/crank/internal/logging"
	"github.com/claude/crank/internal/storage"
)

const defaultConfigPath = "crank.yaml"

var (
	configPath string
	storePath  string
	logLevel   string

	cfg       *config.Config
	log       *slog.Logger
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "crank",
	Short: "Workout logbook parser, store and program calculator",
	Long: `crank reads .wkt workout logbooks into a JSON store.

Set notation the parser cannot read is kept verbatim and can be listed with
"crank review" and repaired interactively with "crank fix".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(cmd)
		if err != nil {
			return err
		}
		if storePath != "" {
			cfg.Store.Path = storePath
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid flags: %w", err)
		}
		log, logCloser = logging.New(cfg.Log, cmd.ErrOrStderr())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

// loadConfig reads the config file. A missing default file means defaults;
// a missing file named on the command line is an error.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	c, err := config.Load(configPath)
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		return config.FromEnv()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return c, nil
}

// openStore opens the configured workout store.
func openStore() (*storage.Store, error) {
	s, err := storage.Open(cfg.Store.Path, log)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	log.Debug("store opened", "path", s.Path(), "workouts", s.Len())
	return s, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "path to config file (.yaml or .toml)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "path to the workout store (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(upgradeCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(ftoCmd)
	rootCmd.AddCommand(maxCmd)
	rootCmd.AddCommand(sspCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
