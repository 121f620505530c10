package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftgen/internal/db"
	"github.com/chriserin/ftgen/internal/ui"
)

var (
	listFeatureFlag string
	listTagFlag     string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List generated test cases",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunList(cmd.OutOrStdout(), listFeatureFlag, listTagFlag)
	},
}

func init() {
	listCmd.Flags().StringVar(&listFeatureFlag, "feature", "", "Only cases of this feature file")
	listCmd.Flags().StringVar(&listTagFlag, "tag", "", "Only cases carrying this tag")
	rootCmd.AddCommand(listCmd)
}

func RunList(w io.Writer, feature, tag string) error {
	sqlDB, err := openStore()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	cases, err := db.ListCases(sqlDB, db.CaseFilter{
		Feature: filepath.ToSlash(feature),
		Tag:     trimTag(tag),
	})
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		return nil
	}

	// Compute column widths
	idWidth, fileWidth, nameWidth := 0, 0, 0
	for _, c := range cases {
		idWidth = max(idWidth, len(fmt.Sprintf("#%d", c.ID)))
		fileWidth = max(fileWidth, len(filepath.Base(c.Feature)))
		nameWidth = max(nameWidth, len(c.Name))
	}

	for _, c := range cases {
		ui.ListRow(w, c.ID, filepath.Base(c.Feature), c.Name, c.Tags, idWidth, fileWidth, nameWidth)
	}
	return nil
}
