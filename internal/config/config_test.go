package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/ftgen/internal/framework"
	"github.com/chriserin/ftgen/internal/generator"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `framework: nunit
language: vb
output: tests/Generated
allowRowTests: false
jobs: 2
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "nunit", cfg.Framework)
	assert.Equal(t, "vb", cfg.Language)
	assert.Equal(t, "tests/Generated", cfg.Output)
	assert.False(t, cfg.AllowRowTests)
	assert.Equal(t, 2, cfg.Workers())
	assert.Equal(t, "flat", cfg.Layout, "unset keys keep their default")
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "framework: [oops"))
	assert.ErrorContains(t, err, "parsing")
}

func TestValidate_ClosedChoices(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"framework": func(c *Config) { c.Framework = "junit" },
		"language":  func(c *Config) { c.Framework = "gotest"; c.Language = "csharp" },
		"layout":    func(c *Config) { c.Layout = "nested" },
		"features":  func(c *Config) { c.Features = "features/[" },
		"output":    func(c *Config) { c.Output = "" },
		"jobs":      func(c *Config) { c.Jobs = -1 },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
		})
	}
}

func TestApplyFlags_OnlyChangedFlags(t *testing.T) {
	fs := pflag.NewFlagSet("generate", pflag.ContinueOnError)
	Flags(fs)
	require.NoError(t, fs.Parse([]string{"--framework", "gotest", "--row-tests=false", "--jobs", "3"}))

	cfg := Default()
	cfg.Output = "from-file"
	require.NoError(t, cfg.ApplyFlags(fs))

	assert.Equal(t, "gotest", cfg.Framework)
	assert.False(t, cfg.AllowRowTests)
	assert.Equal(t, 3, cfg.Jobs)
	assert.Equal(t, "from-file", cfg.Output)
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.Framework = "xunit"
	cfg.Layout = "mirror"
	cfg.Features = "specs/web/**/*.feature"

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, framework.XUnit, opts.Adapter.Framework())
	assert.Equal(t, framework.CSharp, opts.Adapter.Language())
	assert.Equal(t, generator.LayoutMirror, opts.Layout)
	assert.Equal(t, filepath.FromSlash("specs/web"), opts.FeaturesRoot)
	assert.True(t, opts.AllowRowTests)
}

func TestWrite_RefusesToOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Write(path, Default()))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	assert.Error(t, Write(path, Default()))
}

func TestWrite_FlushesEveryField(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	want := Default()
	want.Framework = "gotest"
	want.Namespace = "specs_test"
	want.Jobs = 3
	want.Manifest = "out/manifest.yaml"

	require.NoError(t, Write(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
