package cmd

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/chriserin/ftgen/internal/config"
	"github.com/chriserin/ftgen/internal/db"
	"github.com/chriserin/ftgen/internal/framework"
	"github.com/chriserin/ftgen/internal/generator"
	"github.com/chriserin/ftgen/internal/model"
	"github.com/chriserin/ftgen/internal/parser"
	"github.com/chriserin/ftgen/internal/ui"
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generate test sources from feature files",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return RunGenerate(cmd.Context(), cmd.OutOrStdout(), cfg)
	},
}

func init() {
	config.Flags(generateCmd.Flags())
	rootCmd.AddCommand(generateCmd)
}

// generated pairs a feature document with its generation result.
type generated struct {
	doc *model.FeatureDocument
	res *generator.Result
}

func RunGenerate(ctx context.Context, w io.Writer, cfg config.Config) error {
	sqlDB, err := openStore()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	units, err := generateAll(ctx, cfg)
	if err != nil {
		return err
	}

	cases := 0
	for _, g := range units {
		path := g.res.Unit.Path
		if g.res.Empty() {
			slog.Warn("no cases generated", "feature", g.doc.Path)
		}
		cases += len(g.res.Cases)

		existing, err := os.ReadFile(path)
		if err == nil && bytes.Equal(existing, g.res.Unit.Source) {
			ui.SameLine(w, path)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, g.res.Unit.Source, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		slog.Debug("wrote unit", "path", path, "cases", len(g.res.Cases))
		ui.GenLine(w, path, len(g.res.Cases))
	}

	if err := saveManifests(sqlDB, units); err != nil {
		return err
	}
	if cfg.Manifest != "" {
		if err := writeManifestFile(cfg.Manifest, units); err != nil {
			return err
		}
	}

	ui.SummaryLine(w, len(units), cases)
	return nil
}

// generateAll parses and generates every discovered feature concurrently.
// Any failure fails the whole run before anything is written.
func generateAll(ctx context.Context, cfg config.Config) ([]generated, error) {
	paths, err := discover(cfg.Features)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	units := make([]generated, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers())
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := parser.LoadFeature(path)
			if err != nil {
				return err
			}
			res, err := generator.Generate(doc, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			units[i] = generated{doc: doc, res: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	owners := map[string]string{}
	for _, u := range units {
		if prev, ok := owners[u.res.Unit.Path]; ok {
			return nil, fmt.Errorf("%s and %s both generate %s; use the mirror layout", prev, u.doc.Path, u.res.Unit.Path)
		}
		owners[u.res.Unit.Path] = u.doc.Path
	}

	classes := map[string]string{}
	for _, u := range units {
		key := classScope(cfg, u.res)
		if prev, ok := classes[key]; ok {
			return nil, fmt.Errorf("%s and %s both generate class %s; give the features distinct titles",
				prev, u.doc.Path, u.res.Class)
		}
		classes[key] = u.doc.Path
	}
	return units, nil
}

// classScope keys a generated class by where its name must be unique: the
// configured namespace for .NET, the output directory's package for Go.
func classScope(cfg config.Config, res *generator.Result) string {
	scope := cfg.Namespace
	if framework.Framework(cfg.Framework) == framework.GoTest {
		scope = filepath.Dir(res.Unit.Path)
	}
	return scope + "\x00" + strings.ToLower(res.Class)
}

func discover(pattern string) ([]string, error) {
	paths, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", pattern, err)
	}
	sort.Strings(paths)
	slog.Debug("discovered features", "pattern", pattern, "count", len(paths))
	return paths, nil
}

func saveManifests(sqlDB *sql.DB, units []generated) error {
	runs := make([]db.Run, 0, len(units))
	for _, u := range units {
		runs = append(runs, db.Run{Title: u.doc.Title, Manifest: u.res.Manifest})
	}
	pruned, err := db.ReplaceAll(sqlDB, runs)
	if err != nil {
		return err
	}
	if pruned > 0 {
		slog.Info("removed features no longer on disk", "count", pruned)
	}
	return nil
}

func writeManifestFile(path string, units []generated) error {
	manifests := make([]model.Manifest, 0, len(units))
	for _, u := range units {
		manifests = append(manifests, u.res.Manifest)
	}
	data, err := yaml.Marshal(manifests)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
