package cmd

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftgen/internal/db"
	"github.com/chriserin/ftgen/internal/ui"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Count generated cases per tag",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunTags(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}

func RunTags(w io.Writer) error {
	sqlDB, err := openStore()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	counts, err := db.TagCounts(sqlDB)
	if err != nil {
		return err
	}
	width := 0
	for _, tc := range counts {
		width = max(width, len(tc.Tag))
	}
	for _, tc := range counts {
		ui.TagRow(w, tc.Tag, tc.Cases, width)
	}
	return nil
}

// trimTag accepts tags written with or without the @ prefix.
func trimTag(tag string) string {
	return strings.TrimPrefix(strings.TrimSpace(tag), "@")
}
