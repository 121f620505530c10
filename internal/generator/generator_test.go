package generator

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/ftgen/internal/framework"
	"github.com/chriserin/ftgen/internal/model"
)

func adapter(t *testing.T, fw framework.Framework) framework.Adapter {
	t.Helper()
	a, err := framework.New(fw, "")
	require.NoError(t, err)
	return a
}

func options(t *testing.T, fw framework.Framework) Options {
	return Options{Adapter: adapter(t, fw), Layout: LayoutFlat, OutputDir: "out", AllowRowTests: true}
}

func tags(names ...string) model.Tags { return model.NewTags(names...) }

func outlineDoc(blocks ...model.ExamplesBlock) *model.FeatureDocument {
	return &model.FeatureDocument{
		Path:  "features/outlines.feature",
		Title: "Outlines",
		Tags:  tags("feature_tag"),
		Scenarios: []model.ScenarioDefinition{{Outline: &model.ScenarioOutline{
			Title:    "Sample",
			Tags:     tags("outline"),
			Steps:    []model.Step{{Keyword: "When", Text: "<what> happens"}},
			Examples: blocks,
		}}},
	}
}

func block(title string, tg model.Tags, header []string, rows ...[]string) model.ExamplesBlock {
	return model.ExamplesBlock{Title: title, Tags: tg, Header: header, Rows: rows}
}

func caseNames(cases []model.TestCase) []string {
	names := make([]string, 0, len(cases))
	for _, c := range cases {
		names = append(names, c.Name)
	}
	return names
}

func TestGenerate_MixedTaggingIsUniform(t *testing.T) {
	doc := outlineDoc(
		block("", tags("example_tag"), []string{"what"}, []string{"foo"}, []string{"bar"}),
		block("", tags(), []string{"what"}, []string{"baz"}),
	)
	res, err := Generate(doc, options(t, framework.MSTest))
	require.NoError(t, err)

	require.Len(t, res.Methods, 1)
	m := res.Methods[0]
	assert.True(t, m.RowTest)
	assert.True(t, m.TagsArg)
	assert.Equal(t, []string{"feature_tag", "outline"}, []string(m.Tags))

	assert.Equal(t, []string{"Sample_Variant0", "Sample_Variant1", "Sample_Variant0_2"}, caseNames(res.Cases))
	assert.Equal(t, []string{"feature_tag", "outline", "example_tag"}, []string(res.Cases[0].Tags))
	assert.Equal(t, []string{"feature_tag", "outline"}, []string(res.Cases[2].Tags))
	assert.NotNil(t, res.Cases[2].BlockTags)

	src := string(res.Unit.Source)
	assert.Contains(t, src, `[DataRow(new object[] { "baz", new string[0] }, DisplayName = "Sample_Variant0_2")]`)
	assert.Equal(t, 3, strings.Count(src, "[DataRow("))
}

func TestGenerate_TitledBlocksNameCases(t *testing.T) {
	doc := outlineDoc(
		block("Fixed", tags(), []string{"what"}, []string{"a"}),
		block("Percent", tags(), []string{"what"}, []string{"b"}),
	)
	res, err := Generate(doc, options(t, framework.NUnit))
	require.NoError(t, err)
	assert.Equal(t, []string{"Sample_Fixed_Variant0", "Sample_Percent_Variant0"}, caseNames(res.Cases))
	assert.False(t, res.Methods[0].TagsArg)
}

func TestGenerate_ResolvesStepsPerCase(t *testing.T) {
	doc := outlineDoc(block("", tags(), []string{"what"}, []string{"foo"}))
	doc.Background = []model.Step{{Keyword: "Given", Text: "a <what> literal"}}
	doc.Scenarios[0].Outline.Title = "Sample <what>"
	doc.Scenarios[0].Outline.Steps = append(doc.Scenarios[0].Outline.Steps,
		model.Step{Keyword: "Then", Text: "done", DocString: &model.DocString{Content: "saw <what>"}},
		model.Step{Keyword: "And", Text: "rows", Table: &model.DataTable{Rows: [][]string{{"<what>"}}}},
	)

	res, err := Generate(doc, options(t, framework.XUnit))
	require.NoError(t, err)
	c := res.Cases[0]
	assert.Equal(t, "Sample foo", c.Title)
	require.Len(t, c.Steps, 4)
	assert.Equal(t, "a <what> literal", c.Steps[0].Text, "background is not substituted")
	assert.Equal(t, "foo happens", c.Steps[1].Text)
	assert.Equal(t, "saw foo", c.Steps[2].DocString.Content)
	assert.Equal(t, [][]string{{"foo"}}, c.Steps[3].Table.Rows)
	assert.Equal(t, "saw <what>", doc.Scenarios[0].Outline.Steps[1].DocString.Content, "input is not mutated")
}

func TestGenerate_FallsBackToOneMethodPerCase(t *testing.T) {
	doc := outlineDoc(
		block("", tags("a"), []string{"what"}, []string{"foo"}),
		block("", tags(), []string{"what", "extra"}, []string{"bar", "x"}),
	)
	res, err := Generate(doc, options(t, framework.XUnit))
	require.NoError(t, err)

	require.Len(t, res.Methods, 2)
	for i, m := range res.Methods {
		assert.False(t, m.RowTest)
		assert.Equal(t, res.Cases[i].Name, m.Name)
		assert.Equal(t, m.Name, res.Cases[i].Method)
	}
	assert.Equal(t, []string{"feature_tag", "outline", "a"}, []string(res.Methods[0].Tags))

	opts := options(t, framework.XUnit)
	opts.AllowRowTests = false
	single := outlineDoc(block("", tags(), []string{"what"}, []string{"foo"}, []string{"bar"}))
	res, err = Generate(single, opts)
	require.NoError(t, err)
	assert.Len(t, res.Methods, 2)
}

func TestGenerate_ZeroRowBlocks(t *testing.T) {
	doc := outlineDoc(
		block("", tags("ghost"), []string{"what"}),
		block("", tags(), []string{"what"}, []string{"foo"}),
	)
	res, err := Generate(doc, options(t, framework.MSTest))
	require.NoError(t, err)
	require.Len(t, res.Cases, 1)
	assert.False(t, res.Methods[0].TagsArg, "tags of a block with no rows are discarded")
	assert.NotContains(t, string(res.Unit.Source), "ghost")

	empty := outlineDoc()
	res, err = Generate(empty, options(t, framework.MSTest))
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.Contains(t, string(res.Unit.Source), "public partial class OutlinesFeature")
}

func TestGenerate_UnresolvedPlaceholder(t *testing.T) {
	doc := outlineDoc(
		block("Good", tags(), []string{"what"}, []string{"foo"}),
		block("Bad", tags(), []string{"other"}, []string{"x"}),
	)
	_, err := Generate(doc, options(t, framework.MSTest))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnresolvedPlaceholder))

	var ge *Error
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, "Sample", ge.Scenario)
	assert.Equal(t, "Bad", ge.Block)
	assert.Contains(t, err.Error(), "<what>")
}

func TestGenerate_UnresolvedPlaceholderInHeaderOnlyBlock(t *testing.T) {
	doc := outlineDoc(
		block("", tags(), []string{"what"}, []string{"foo"}),
		block("", tags(), []string{"other"}),
	)
	_, err := Generate(doc, options(t, framework.MSTest))
	assert.True(t, errors.Is(err, ErrUnresolvedPlaceholder))
}

func TestGenerate_InvalidExamplesShape(t *testing.T) {
	short := outlineDoc(block("", tags(), []string{"what", "who"}, []string{"foo"}))
	_, err := Generate(short, options(t, framework.MSTest))
	assert.True(t, errors.Is(err, ErrInvalidExamplesShape))
	assert.Contains(t, err.Error(), "row 1 has 1 cells")

	dup := outlineDoc(block("", tags(), []string{"what", "what"}, []string{"a", "b"}))
	_, err = Generate(dup, options(t, framework.MSTest))
	assert.True(t, errors.Is(err, ErrInvalidExamplesShape))
}

func TestGenerate_UnsupportedCaseShape(t *testing.T) {
	doc := outlineDoc(block("", tags(), []string{"what", "#"}, []string{"foo", "1"}))
	_, err := Generate(doc, options(t, framework.NUnit))
	require.Error(t, err)
	assert.True(t, errors.Is(err, framework.ErrUnsupportedCaseShape))

	var ge *Error
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, "Sample_Variant0", ge.Case)
}

func TestGenerate_NoAdapter(t *testing.T) {
	_, err := Generate(outlineDoc(), Options{})
	assert.True(t, errors.Is(err, framework.ErrUnsupportedTarget))
}

func TestGenerate_CollidingScenarioTitles(t *testing.T) {
	doc := &model.FeatureDocument{
		Path:  "dup.feature",
		Title: "Dup",
		Scenarios: []model.ScenarioDefinition{
			{Scenario: &model.Scenario{Title: "Same thing"}},
			{Scenario: &model.Scenario{Title: "same thing"}},
			{Scenario: &model.Scenario{Title: "Dup feature"}},
		},
	}
	res, err := Generate(doc, options(t, framework.MSTest))
	require.NoError(t, err)
	assert.Equal(t, []string{"SameThing", "SameThing_2", "DupFeature"}, caseNames(res.Cases))
	assert.Equal(t, "DupFeature_2", res.Methods[2].Name, "the class name is reserved for methods")
}

func TestGenerate_OutputPaths(t *testing.T) {
	doc := outlineDoc(block("", tags(), []string{"what"}, []string{"foo"}))
	doc.Path = filepath.Join("features", "shop", "outlines.feature")

	res, err := Generate(doc, options(t, framework.MSTest))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "outlines.feature.cs"), res.Unit.Path)

	opts := options(t, framework.GoTest)
	opts.Layout = LayoutMirror
	opts.FeaturesRoot = "features"
	res, err = Generate(doc, opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "shop", "outlines_feature_test.go"), res.Unit.Path)
	assert.Equal(t, "out/shop/outlines_feature_test.go", res.Manifest.Output)
	assert.Equal(t, "features/shop/outlines.feature", res.Manifest.Feature)

	opts.FeaturesRoot = "elsewhere"
	_, err = Generate(doc, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside the features root")
}

func TestGenerate_ManifestMatchesCases(t *testing.T) {
	doc := outlineDoc(block("Only", tags("b"), []string{"what"}, []string{"foo"}))
	res, err := Generate(doc, options(t, framework.GoTest))
	require.NoError(t, err)
	require.Len(t, res.Manifest.Cases, 1)
	e := res.Manifest.Cases[0]
	assert.Equal(t, "Sample_Only_Variant0", e.Name)
	assert.Equal(t, "Sample", e.Method)
	assert.Equal(t, "Only", e.Block)
	assert.Equal(t, []string{"feature_tag", "outline", "b"}, e.Tags)
}

func TestError_Message(t *testing.T) {
	err := &Error{Feature: "F", Scenario: "S", Block: "B", Case: "C", Err: ErrInvalidExamplesShape}
	assert.Equal(t, `feature "F", scenario "S", examples "B", case C: invalid examples shape`, err.Error())
	assert.Equal(t, "invalid examples shape", (&Error{Err: ErrInvalidExamplesShape}).Error())
}
