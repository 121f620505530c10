// Package model holds the feature document handed to the generator and the
// test cases it produces.
package model

import "strconv"

// FeatureDocument is one parsed feature file.
type FeatureDocument struct {
	Path        string
	Title       string
	Description string
	Tags        Tags
	Background  []Step
	Scenarios   []ScenarioDefinition // document order
}

// ScenarioDefinition holds exactly one of Scenario or Outline.
type ScenarioDefinition struct {
	Scenario *Scenario
	Outline  *ScenarioOutline
}

// Title returns the title of whichever definition is set.
func (d ScenarioDefinition) Title() string {
	if d.Outline != nil {
		return d.Outline.Title
	}
	if d.Scenario != nil {
		return d.Scenario.Title
	}
	return ""
}

type Scenario struct {
	Title string
	Steps []Step
	Tags  Tags
	Line  int
}

type ScenarioOutline struct {
	Title    string
	Steps    []Step // may contain <placeholders>
	Tags     Tags
	Examples []ExamplesBlock
	Line     int
}

type ExamplesBlock struct {
	Title  string
	Tags   Tags
	Header []string
	Rows   [][]string
	Line   int
}

// Label identifies the block in error messages and listings.
func (b ExamplesBlock) Label(index int) string {
	if b.Title != "" {
		return b.Title
	}
	return "Examples #" + strconv.Itoa(index+1)
}

type Step struct {
	Keyword   string // Given, When, Then, And, But, *
	Text      string
	DocString *DocString
	Table     *DataTable
	Line      int
}

type DocString struct {
	MediaType string
	Content   string
}

type DataTable struct {
	Rows [][]string
}
