package parser

import "fmt"

// Layer 1: Gherkin AST types

type Document struct {
	Feature *Feature
}

type Feature struct {
	Header     FeatureHeader
	Background *Background
	Scenarios  []ScenarioDefinition
}

type FeatureHeader struct {
	Tags        []Tag
	Name        string
	Description string
	Line        int
}

type Background struct {
	Description string
	StepGroups  []StepGroup
	Line        int
}

type ScenarioDefinition struct {
	Tags     []Tag
	Keyword  string // Scenario, Scenario Outline, Scenario Template, Example
	Scenario Scenario
	Examples []Examples
	Line     int // 1-based line number of the Scenario line
}

// IsOutline reports whether the definition expands over examples.
func (sd ScenarioDefinition) IsOutline() bool {
	return sd.Keyword == "Scenario Outline" || sd.Keyword == "Scenario Template" || len(sd.Examples) > 0
}

type Scenario struct {
	Name        string
	Description string
	StepGroups  []StepGroup
}

type Examples struct {
	Tags        []Tag
	Keyword     string // Examples or Scenarios
	Name        string
	Description string
	Table       *DataTable // first row is the header
	Line        int
}

type Tag struct {
	Name string // e.g. "@smoke", "@example_tag"
	Line int
}

type StepGroup struct {
	Step     Step
	AltSteps []Step // And, But, *
}

type Step struct {
	Keyword  string // Given, When, Then, And, But, *
	Text     string
	Argument *StepArgument
	Line     int
}

type StepArgument struct {
	DocString *DocString
	DataTable *DataTable
}

type DocString struct {
	MediaType string
	Content   string
}

type DataTable struct {
	HeaderRow []string
	Rows      [][]string
	Line      int
}

type ParseError struct {
	Line    int
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}
