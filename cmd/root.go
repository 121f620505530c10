package cmd

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftgen/internal/config"
	"github.com/chriserin/ftgen/internal/db"
	"github.com/chriserin/ftgen/internal/logging"
)

var (
	configPath string
	logLevel   string
	logFile    string
	closeLog   = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:           "ftgen",
	Short:         "Generate unit tests from Gherkin feature files",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := logging.Setup(logLevel, logFile)
		if err != nil {
			return err
		}
		closeLog = c
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.FileName, "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write JSON logs to this file")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the command's flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func openStore() (*sql.DB, error) {
	if _, err := os.Stat(config.StateDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("run `ftgen init` first")
	}
	sqlDB, err := db.Open(config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return sqlDB, nil
}
