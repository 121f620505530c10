package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/chriserin/ftgen/internal/db"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what the last generate run recorded",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunStatus(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func RunStatus(w io.Writer) error {
	sqlDB, err := openStore()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	features, err := db.Features(sqlDB)
	if err != nil {
		return err
	}
	cases, err := db.ListCases(sqlDB, db.CaseFilter{})
	if err != nil {
		return err
	}

	byFeature := lo.GroupBy(cases, func(c db.Case) string { return c.Feature })
	total := 0
	fmt.Fprintf(w, "Features: %d\n", len(features))
	for _, f := range features {
		methods := lo.Uniq(lo.Map(byFeature[f.Path], func(c db.Case, _ int) string { return c.Method }))
		state := ""
		if _, err := os.Stat(f.Output); os.IsNotExist(err) {
			state = " (missing)"
		}
		fmt.Fprintf(w, "  %s -> %s%s: %d cases in %d methods\n", f.Path, f.Output, state, f.Cases, len(methods))
		total += f.Cases
	}
	fmt.Fprintf(w, "Cases: %d\n", total)
	return nil
}
