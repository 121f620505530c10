package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftgen/internal/config"
	"github.com/chriserin/ftgen/internal/db"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize ftgen in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunInit(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func RunInit(w io.Writer) error {
	cfg := config.Default()

	// features directory
	featuresDir := cfg.FeaturesRoot()
	_, err := os.Stat(featuresDir)
	featuresExist := err == nil
	if err := os.MkdirAll(featuresDir, 0o755); err != nil {
		return fmt.Errorf("creating %s directory: %w", featuresDir, err)
	}
	if featuresExist {
		fmt.Fprintf(w, "%s/ already exists\n", featuresDir)
	} else {
		fmt.Fprintf(w, "%s/ created\n", featuresDir)
	}

	// config file
	err = config.Write(config.FileName, cfg)
	switch {
	case errors.Is(err, os.ErrExist):
		fmt.Fprintf(w, "%s already exists\n", config.FileName)
	case err != nil:
		return fmt.Errorf("writing %s: %w", config.FileName, err)
	default:
		fmt.Fprintf(w, "%s created\n", config.FileName)
	}

	// database
	if err := os.MkdirAll(config.StateDir, 0o755); err != nil {
		return fmt.Errorf("creating %s directory: %w", config.StateDir, err)
	}
	_, err = os.Stat(config.DBPath)
	dbExists := err == nil
	sqlDB, err := db.Open(config.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	sqlDB.Close()
	if dbExists {
		fmt.Fprintf(w, "%s already exists\n", config.DBPath)
	} else {
		fmt.Fprintf(w, "%s created\n", config.DBPath)
	}

	// gitignore
	msgs, err := ensureGitignore()
	if err != nil {
		return fmt.Errorf("updating .gitignore: %w", err)
	}
	for _, msg := range msgs {
		fmt.Fprintln(w, msg)
	}

	return nil
}

func ensureGitignore() ([]string, error) {
	const entry = config.StateDir + "/"

	data, err := os.ReadFile(".gitignore")
	if os.IsNotExist(err) {
		if err := os.WriteFile(".gitignore", []byte(entry+"\n"), 0o644); err != nil {
			return nil, err
		}
		return []string{".gitignore created", entry + " added to .gitignore"}, nil
	}
	if err != nil {
		return nil, err
	}

	for _, line := range strings.Split(string(data), "\n") {
		if t := strings.TrimSpace(line); t == entry || t == config.StateDir {
			return []string{entry + " already in .gitignore"}, nil
		}
	}

	content := string(data)
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += entry + "\n"

	if err := os.WriteFile(".gitignore", []byte(content), 0o644); err != nil {
		return nil, err
	}
	return []string{entry + " added to .gitignore"}, nil
}
