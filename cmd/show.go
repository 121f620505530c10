package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/chriserin/ftgen/internal/config"
	"github.com/chriserin/ftgen/internal/db"
	"github.com/chriserin/ftgen/internal/generator"
	"github.com/chriserin/ftgen/internal/model"
	"github.com/chriserin/ftgen/internal/parser"
	"github.com/chriserin/ftgen/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show a generated case with its resolved steps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return RunShow(cmd.OutOrStdout(), cfg, args[0])
	},
}

func init() {
	config.Flags(showCmd.Flags())
	rootCmd.AddCommand(showCmd)
}

// RunShow looks a case up by id (with or without the # prefix) or by name,
// then regenerates its feature to print the resolved steps.
func RunShow(w io.Writer, cfg config.Config, ref string) error {
	sqlDB, err := openStore()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	var id int64
	name := ref
	if n, err := strconv.ParseInt(strings.TrimPrefix(ref, "#"), 10, 64); err == nil {
		id, name = n, ""
	}
	stored, err := db.GetCase(sqlDB, id, name)
	if err != nil {
		return err
	}

	doc, err := parser.LoadFeature(stored.Feature)
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	res, err := generator.Generate(doc, opts)
	if err != nil {
		return err
	}
	c, ok := lo.Find(res.Cases, func(c model.TestCase) bool { return c.Name == stored.Name })
	if !ok {
		return fmt.Errorf("%w: %s no longer generates %s; run `ftgen generate`",
			db.ErrCaseNotFound, stored.Feature, stored.Name)
	}

	ui.ShowHeader(w, stored.ID, c.Name, stored.Feature)
	ui.ShowField(w, "output", res.Unit.Path)
	ui.ShowField(w, "method", c.Method)
	ui.ShowField(w, "scenario", c.Title)
	ui.ShowField(w, "examples", c.Block)
	ui.ShowField(w, "tags", ui.Tags(c.Tags))
	for _, p := range c.Params {
		ui.ShowField(w, "  <"+p.Name+">", strconv.Quote(p.Value))
	}
	fmt.Fprintln(w)
	ui.ShowSteps(w, c.Steps)
	return nil
}

