package generator

import (
	"fmt"
	"slices"

	"github.com/chriserin/ftgen/internal/model"
	"github.com/chriserin/ftgen/internal/placeholder"
)

// run is the state of one Generate call.
type run struct {
	doc           *model.FeatureDocument
	class         string
	allowRowTests bool
	cases         *registry
	methods       *registry
}

func newRun(doc *model.FeatureDocument, class string, allowRowTests bool) *run {
	return &run{
		doc:           doc,
		class:         class,
		allowRowTests: allowRowTests,
		cases:         newRegistry(),
		methods:       newRegistry(class, "OnScenarioStart", "OnStep"),
	}
}

func (r *run) fail(scenario, block, name string, err error) error {
	return &Error{Feature: r.doc.Title, Scenario: scenario, Block: block, Case: name, Err: err}
}

func (r *run) expand() ([]model.Method, error) {
	var methods []model.Method
	for _, def := range r.doc.Scenarios {
		switch {
		case def.Outline != nil:
			ms, err := r.expandOutline(def.Outline)
			if err != nil {
				return nil, err
			}
			methods = append(methods, ms...)
		case def.Scenario != nil:
			m, err := r.expandScenario(def.Scenario)
			if err != nil {
				return nil, err
			}
			methods = append(methods, m)
		}
	}
	return methods, nil
}

// expandScenario treats a plain scenario as one implicit row with no columns.
func (r *run) expandScenario(sc *model.Scenario) (model.Method, error) {
	name, err := r.cases.claim(scenarioName(sc.Title))
	if err != nil {
		return model.Method{}, r.fail(sc.Title, "", "", err)
	}
	c := model.TestCase{
		Name:      name,
		Scenario:  sc.Title,
		Title:     sc.Title,
		Tags:      effectiveTags(r.doc, sc.Tags, nil),
		BlockTags: model.NewTags(),
		Steps:     append(slices.Clone(r.doc.Background), sc.Steps...),
	}
	return r.singleMethod(c, sc.Line)
}

func (r *run) expandOutline(o *model.ScenarioOutline) ([]model.Method, error) {
	if err := r.validate(o); err != nil {
		return nil, err
	}

	var cases []model.TestCase
	for bi, block := range o.Examples {
		for ri, cells := range block.Rows {
			name, err := r.cases.claim(outlineCaseName(o.Title, block.Title, ri))
			if err != nil {
				return nil, r.fail(o.Title, block.Label(bi), "", err)
			}
			row := placeholder.NewRow(block.Header, cells)
			params := make([]model.Param, 0, len(block.Header))
			for i, h := range block.Header {
				params = append(params, model.Param{Name: h, Value: cells[i]})
			}
			cases = append(cases, model.TestCase{
				Name:       name,
				Scenario:   o.Title,
				Title:      placeholder.Resolve(o.Title, row),
				Block:      block.Title,
				BlockIndex: bi,
				RowIndex:   ri,
				Params:     params,
				Tags:       effectiveTags(r.doc, o.Tags, block.Tags),
				BlockTags:  model.NewTags(block.Tags...),
				Steps:      append(slices.Clone(r.doc.Background), resolveSteps(o.Steps, row)...),
				Outline:    true,
			})
		}
	}
	if len(cases) == 0 {
		return nil, nil
	}

	if columns, ok := r.rowTestColumns(o); ok {
		name, err := r.methods.claim(scenarioName(o.Title))
		if err != nil {
			return nil, r.fail(o.Title, "", "", err)
		}
		for i := range cases {
			cases[i].Method = name
		}
		return []model.Method{{
			Name:       name,
			Class:      r.class,
			Title:      o.Title,
			Tags:       effectiveTags(r.doc, o.Tags, nil),
			Columns:    columns,
			TagsArg:    needsTagsArg(o.Examples),
			RowTest:    true,
			Background: r.doc.Background,
			Steps:      o.Steps,
			Cases:      cases,
			Line:       o.Line,
		}}, nil
	}

	methods := make([]model.Method, 0, len(cases))
	for _, c := range cases {
		m, err := r.singleMethod(c, o.Line)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, nil
}

func (r *run) singleMethod(c model.TestCase, line int) (model.Method, error) {
	name, err := r.methods.claim(c.Name)
	if err != nil {
		return model.Method{}, r.fail(c.Scenario, c.Block, c.Name, err)
	}
	c.Method = name
	return model.Method{
		Name:  name,
		Class: r.class,
		Title: c.Title,
		Tags:  c.Tags,
		Steps: c.Steps,
		Cases: []model.TestCase{c},
		Line:  line,
	}, nil
}

// validate checks every block with a header before any row is expanded.
func (r *run) validate(o *model.ScenarioOutline) error {
	templates := outlineTemplates(o.Steps)
	for bi, block := range o.Examples {
		label := block.Label(bi)
		seen := map[string]bool{}
		for _, h := range block.Header {
			if seen[h] {
				return r.fail(o.Title, label, "", fmt.Errorf("%w: duplicate column %q", ErrInvalidExamplesShape, h))
			}
			seen[h] = true
		}
		for ri, cells := range block.Rows {
			if len(cells) != len(block.Header) {
				return r.fail(o.Title, label, "", fmt.Errorf("%w: row %d has %d cells, header has %d",
					ErrInvalidExamplesShape, ri+1, len(cells), len(block.Header)))
			}
		}
		if len(block.Header) == 0 {
			continue
		}
		if err := placeholder.Check(block.Header, templates...); err != nil {
			return r.fail(o.Title, label, "", err)
		}
	}
	return nil
}

// rowTestColumns returns the shared header when the outline can run as one
// data-driven method.
func (r *run) rowTestColumns(o *model.ScenarioOutline) ([]string, bool) {
	if !r.allowRowTests {
		return nil, false
	}
	var columns []string
	found := false
	for _, b := range o.Examples {
		if len(b.Rows) == 0 {
			continue
		}
		if !found {
			columns, found = b.Header, true
			continue
		}
		if !slices.Equal(columns, b.Header) {
			return nil, false
		}
	}
	return columns, found
}

func outlineTemplates(steps []model.Step) []string {
	var out []string
	for _, s := range steps {
		out = append(out, s.Text)
		if s.DocString != nil {
			out = append(out, s.DocString.Content)
		}
		if s.Table != nil {
			for _, row := range s.Table.Rows {
				out = append(out, row...)
			}
		}
	}
	return out
}

func resolveSteps(steps []model.Step, row placeholder.Row) []model.Step {
	out := make([]model.Step, 0, len(steps))
	for _, s := range steps {
		s.Text = placeholder.Resolve(s.Text, row)
		if s.DocString != nil {
			doc := *s.DocString
			doc.Content = placeholder.Resolve(doc.Content, row)
			s.DocString = &doc
		}
		if s.Table != nil {
			rows := make([][]string, 0, len(s.Table.Rows))
			for _, r := range s.Table.Rows {
				cells := make([]string, 0, len(r))
				for _, cell := range r {
					cells = append(cells, placeholder.Resolve(cell, row))
				}
				rows = append(rows, cells)
			}
			s.Table = &model.DataTable{Rows: rows}
		}
		out = append(out, s)
	}
	return out
}
