package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftgen/internal/config"
	"github.com/chriserin/ftgen/internal/diff"
	"github.com/chriserin/ftgen/internal/ui"
)

var ErrOutOfDate = errors.New("generated files are out of date")

var checkDiffFlag bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify generated files match the feature files",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return RunCheck(cmd.Context(), cmd.OutOrStdout(), cfg, checkDiffFlag)
	},
}

func init() {
	config.Flags(checkCmd.Flags())
	checkCmd.Flags().BoolVar(&checkDiffFlag, "diff", false, "Show a diff for each out-of-date file")
	rootCmd.AddCommand(checkCmd)
}

// RunCheck regenerates in memory and compares with the files on disk.
// Nothing is written.
func RunCheck(ctx context.Context, w io.Writer, cfg config.Config, showDiff bool) error {
	units, err := generateAll(ctx, cfg)
	if err != nil {
		return err
	}

	stale := 0
	for _, u := range units {
		path := u.res.Unit.Path
		existing, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			ui.MissingLine(w, path)
			stale++
			continue
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		lines := diff.Lines(string(existing), string(u.res.Unit.Source))
		if !diff.Changed(lines) {
			ui.SameLine(w, path)
			continue
		}
		stale++
		ui.StaleLine(w, path)
		if showDiff {
			ui.DiffLines(w, diff.Context(lines, 3))
		}
	}

	ui.CheckSummary(w, len(units), stale)
	if stale > 0 {
		return fmt.Errorf("%w: %d of %d", ErrOutOfDate, stale, len(units))
	}
	return nil
}
