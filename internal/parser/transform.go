package parser

import (
	"fmt"
	"os"
	"strings"

	"github.com/chriserin/ftgen/internal/model"
)

// ParseErrors is the full list of problems found in one file.
type ParseErrors struct {
	Path   string
	Errors []ParseError
}

func (e *ParseErrors) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, pe := range e.Errors {
		msgs = append(msgs, pe.Error())
	}
	return fmt.Sprintf("%s: %s", e.Path, strings.Join(msgs, "; "))
}

// Transform converts a Layer 1 Document into the generator's input model.
func Transform(doc *Document, path string) *model.FeatureDocument {
	fd := &model.FeatureDocument{
		Path:  path,
		Title: filenameWithoutExt(path),
		Tags:  model.NewTags(),
	}
	if doc == nil || doc.Feature == nil {
		return fd
	}

	f := doc.Feature
	fd.Title = f.Header.Name
	fd.Description = f.Header.Description
	fd.Tags = tagNames(f.Header.Tags)
	if f.Background != nil {
		fd.Background = flattenSteps(f.Background.StepGroups)
	}

	for _, sd := range f.Scenarios {
		steps := flattenSteps(sd.Scenario.StepGroups)
		tags := tagNames(sd.Tags)

		if !sd.IsOutline() {
			fd.Scenarios = append(fd.Scenarios, model.ScenarioDefinition{
				Scenario: &model.Scenario{
					Title: sd.Scenario.Name,
					Steps: steps,
					Tags:  tags,
					Line:  sd.Line,
				},
			})
			continue
		}

		outline := &model.ScenarioOutline{
			Title: sd.Scenario.Name,
			Steps: steps,
			Tags:  tags,
			Line:  sd.Line,
		}
		for _, ex := range sd.Examples {
			block := model.ExamplesBlock{
				Title:  ex.Name,
				Tags:   tagNames(ex.Tags),
				Header: []string{},
				Line:   ex.Line,
			}
			if ex.Table != nil && ex.Table.HeaderRow != nil {
				block.Header = ex.Table.HeaderRow
				block.Rows = ex.Table.Rows
			}
			outline.Examples = append(outline.Examples, block)
		}
		fd.Scenarios = append(fd.Scenarios, model.ScenarioDefinition{Outline: outline})
	}

	return fd
}

// ParseFeature parses content and transforms it, failing on any parse error.
func ParseFeature(path string, content []byte) (*model.FeatureDocument, error) {
	doc, errs := Parse(path, content)
	if len(errs) > 0 {
		return nil, &ParseErrors{Path: path, Errors: errs}
	}
	return Transform(doc, path), nil
}

// LoadFeature reads a feature file from disk and parses it.
func LoadFeature(path string) (*model.FeatureDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseFeature(path, content)
}

func flattenSteps(groups []StepGroup) []model.Step {
	var steps []model.Step
	for _, g := range groups {
		steps = append(steps, convertStep(g.Step))
		for _, alt := range g.AltSteps {
			steps = append(steps, convertStep(alt))
		}
	}
	return steps
}

func convertStep(s Step) model.Step {
	ms := model.Step{Keyword: s.Keyword, Text: s.Text, Line: s.Line}
	if s.Argument != nil {
		if ds := s.Argument.DocString; ds != nil {
			ms.DocString = &model.DocString{MediaType: ds.MediaType, Content: ds.Content}
		}
		if dt := s.Argument.DataTable; dt != nil {
			rows := make([][]string, 0, len(dt.Rows)+1)
			if dt.HeaderRow != nil {
				rows = append(rows, dt.HeaderRow)
			}
			rows = append(rows, dt.Rows...)
			ms.Table = &model.DataTable{Rows: rows}
		}
	}
	return ms
}

func tagNames(tags []Tag) model.Tags {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return model.NewTags(names...)
}

func filenameWithoutExt(filename string) string {
	name := filename
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[:idx]
	}
	return name
}
