// Package config loads ftgen.yaml and merges command line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/chriserin/ftgen/internal/framework"
	"github.com/chriserin/ftgen/internal/generator"
)

const (
	FileName = "ftgen.yaml"
	StateDir = ".ftgen"
	DBPath   = ".ftgen/ftgen.db"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Framework     string `yaml:"framework"`
	Language      string `yaml:"language,omitempty"`
	Layout        string `yaml:"layout"`
	Features      string `yaml:"features"`
	Output        string `yaml:"output"`
	Namespace     string `yaml:"namespace,omitempty"`
	AllowRowTests bool   `yaml:"allowRowTests"`
	Jobs          int    `yaml:"jobs,omitempty"`
	Manifest      string `yaml:"manifest,omitempty"`
}

func Default() Config {
	return Config{
		Framework:     string(framework.MSTest),
		Layout:        string(generator.LayoutFlat),
		Features:      "features/**/*.feature",
		Output:        "generated",
		AllowRowTests: true,
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Write saves cfg as YAML, refusing to overwrite an existing file.
func Write(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Flags registers the override flags on fs.
func Flags(fs *pflag.FlagSet) {
	fs.String("framework", "", "Target framework (mstest|nunit|xunit|gotest)")
	fs.String("language", "", "Target language (csharp|vb|go)")
	fs.String("layout", "", "Output layout (flat|mirror)")
	fs.String("features", "", "Glob of feature files")
	fs.String("output", "", "Output directory")
	fs.String("namespace", "", "Namespace or Go package of generated code")
	fs.Bool("row-tests", true, "Render outlines as data-driven methods")
	fs.Int("jobs", 0, "Documents generated in parallel (0 = number of CPUs)")
	fs.String("manifest", "", "Also write the case manifest to this YAML file")
}

// ApplyFlags copies every flag the user set explicitly onto c.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	strs := map[string]*string{
		"framework": &c.Framework,
		"language":  &c.Language,
		"layout":    &c.Layout,
		"features":  &c.Features,
		"output":    &c.Output,
		"namespace": &c.Namespace,
		"manifest":  &c.Manifest,
	}
	for name, dst := range strs {
		if fs.Lookup(name) == nil || !fs.Changed(name) {
			continue
		}
		v, err := fs.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}
	if fs.Lookup("row-tests") != nil && fs.Changed("row-tests") {
		v, err := fs.GetBool("row-tests")
		if err != nil {
			return err
		}
		c.AllowRowTests = v
	}
	if fs.Lookup("jobs") != nil && fs.Changed("jobs") {
		v, err := fs.GetInt("jobs")
		if err != nil {
			return err
		}
		c.Jobs = v
	}
	return nil
}

// Validate checks the closed choices.
func (c Config) Validate() error {
	fw := framework.Framework(c.Framework)
	if !slices.Contains(framework.Frameworks(), fw) {
		return fmt.Errorf("%w: framework %q (want one of %v)", ErrInvalid, c.Framework, framework.Frameworks())
	}
	if c.Language != "" && !slices.Contains(framework.Languages(fw), framework.Language(c.Language)) {
		return fmt.Errorf("%w: language %q is not available for %s (want one of %v)",
			ErrInvalid, c.Language, c.Framework, framework.Languages(fw))
	}
	if !slices.Contains(generator.Layouts(), generator.Layout(c.Layout)) {
		return fmt.Errorf("%w: layout %q (want one of %v)", ErrInvalid, c.Layout, generator.Layouts())
	}
	if c.Features == "" || !doublestar.ValidatePattern(filepath.ToSlash(c.Features)) {
		return fmt.Errorf("%w: features pattern %q", ErrInvalid, c.Features)
	}
	if c.Output == "" {
		return fmt.Errorf("%w: output directory is empty", ErrInvalid)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("%w: jobs must not be negative", ErrInvalid)
	}
	return nil
}

// Adapter builds the framework adapter the config selects.
func (c Config) Adapter() (framework.Adapter, error) {
	return framework.New(framework.Framework(c.Framework), framework.Language(c.Language))
}

// FeaturesRoot is the static directory prefix of the features pattern.
func (c Config) FeaturesRoot() string {
	base, _ := doublestar.SplitPattern(filepath.ToSlash(c.Features))
	return filepath.FromSlash(base)
}

func (c Config) Workers() int {
	if c.Jobs > 0 {
		return c.Jobs
	}
	return runtime.NumCPU()
}

// Options turns the config into generator options.
func (c Config) Options() (generator.Options, error) {
	a, err := c.Adapter()
	if err != nil {
		return generator.Options{}, err
	}
	return generator.Options{
		Adapter:       a,
		Layout:        generator.Layout(c.Layout),
		OutputDir:     c.Output,
		FeaturesRoot:  c.FeaturesRoot(),
		Namespace:     c.Namespace,
		AllowRowTests: c.AllowRowTests,
	}, nil
}
