package model

// Param is one placeholder binding of a generated case, in header order.
type Param struct {
	Name  string
	Value string
}

// TestCase is one concrete case produced from a (scenario, block, row) triple.
// A plain scenario yields a single case with no params.
type TestCase struct {
	Name       string
	Method     string
	Scenario   string // scenario or outline title as written
	Title      string // Scenario with placeholders resolved
	Block      string // examples block title, may be empty
	BlockIndex int
	RowIndex   int
	Params     []Param
	Tags       Tags // effective: feature ∪ scenario ∪ block
	BlockTags  Tags
	Steps      []Step // background + scenario steps, placeholders resolved
	Outline    bool
}

// Value returns the cell bound to column name.
func (c TestCase) Value(name string) (string, bool) {
	for _, p := range c.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Method is one test method in the generated file. Row-test methods run
// every case of an outline as data rows; all other methods run one case.
type Method struct {
	Name       string
	Class      string
	Title      string
	Tags       Tags     // categories: feature ∪ scenario, plus block tags for single-case methods
	Columns    []string // parameter columns, empty for single-case methods
	TagsArg    bool     // every data row carries an explicit block-tags argument
	RowTest    bool
	Background []Step // never substituted
	Steps      []Step // templates for row tests, resolved otherwise
	Cases      []TestCase
	Line       int
}

// ManifestEntry records one generated case for the reporting layer.
type ManifestEntry struct {
	Name     string   `yaml:"name"`
	Method   string   `yaml:"method"`
	Scenario string   `yaml:"scenario"`
	Block    string   `yaml:"block,omitempty"`
	Row      int      `yaml:"row"`
	Tags     []string `yaml:"tags"`
}

// Manifest lists the cases of one output unit in generation order.
type Manifest struct {
	Feature string          `yaml:"feature"`
	Output  string          `yaml:"output"`
	Cases   []ManifestEntry `yaml:"cases"`
}

func NewManifest(feature, output string, cases []TestCase) Manifest {
	m := Manifest{Feature: feature, Output: output, Cases: make([]ManifestEntry, 0, len(cases))}
	for _, c := range cases {
		m.Cases = append(m.Cases, ManifestEntry{
			Name:     c.Name,
			Method:   c.Method,
			Scenario: c.Scenario,
			Block:    c.Block,
			Row:      c.RowIndex,
			Tags:     append([]string{}, c.Tags...),
		})
	}
	return m
}
