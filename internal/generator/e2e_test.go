package generator_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/chriserin/ftgen/internal/framework"
	"github.com/chriserin/ftgen/internal/generator"
	"github.com/chriserin/ftgen/internal/model"
	ftparser "github.com/chriserin/ftgen/internal/parser"
)

func load(name string) *model.FeatureDocument {
	doc, err := ftparser.LoadFeature(filepath.Join("testdata", name))
	Expect(err).NotTo(HaveOccurred())
	return doc
}

func generate(doc *model.FeatureDocument, fw framework.Framework, lang framework.Language) *generator.Result {
	a, err := framework.New(fw, lang)
	Expect(err).NotTo(HaveOccurred())
	res, err := generator.Generate(doc, generator.Options{
		Adapter:       a,
		Layout:        generator.LayoutFlat,
		OutputDir:     "out",
		Namespace:     "Acme.Specs",
		AllowRowTests: true,
	})
	Expect(err).NotTo(HaveOccurred())
	return res
}

func rowCount(doc *model.FeatureDocument) int {
	n := 0
	for _, def := range doc.Scenarios {
		if def.Scenario != nil {
			n++
			continue
		}
		for _, b := range def.Outline.Examples {
			n += len(b.Rows)
		}
	}
	return n
}

// goCases counts the test functions and table rows of generated Go source.
func goCases(src []byte) int {
	file, err := parser.ParseFile(token.NewFileSet(), "gen_test.go", src, 0)
	Expect(err).NotTo(HaveOccurred())
	n := 0
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || !strings.HasPrefix(fn.Name.Name, "Test") {
			continue
		}
		rows := 0
		ast.Inspect(fn.Body, func(node ast.Node) bool {
			if lit, ok := node.(*ast.CompositeLit); ok {
				if _, isSlice := lit.Type.(*ast.ArrayType); isSlice {
					if _, isStruct := lit.Type.(*ast.ArrayType).Elt.(*ast.StructType); isStruct {
						rows += len(lit.Elts)
					}
				}
			}
			return true
		})
		if rows == 0 {
			rows = 1
		}
		n += rows
	}
	return n
}

var targets = []struct {
	fw   framework.Framework
	lang framework.Language
}{
	{framework.MSTest, framework.CSharp},
	{framework.MSTest, framework.VB},
	{framework.NUnit, framework.CSharp},
	{framework.NUnit, framework.VB},
	{framework.XUnit, framework.CSharp},
	{framework.XUnit, framework.VB},
	{framework.GoTest, framework.Go},
}

var _ = Describe("Generate", func() {
	Context("with twelve independent scenarios", func() {
		It("generates exactly twelve cases for every target", func() {
			doc := load("twelve.feature")
			for _, tg := range targets {
				res := generate(doc, tg.fw, tg.lang)
				Expect(res.Cases).To(HaveLen(12), "%s/%s", tg.fw, tg.lang)
				Expect(res.Methods).To(HaveLen(12))
				Expect(res.Manifest.Cases).To(HaveLen(12))
			}
		})

		It("emits Go tests that parse and run one test per scenario", func() {
			res := generate(load("twelve.feature"), framework.GoTest, framework.Go)
			Expect(goCases(res.Unit.Source)).To(Equal(12))
			Expect(res.Unit.Path).To(Equal(filepath.Join("out", "twelve_feature_test.go")))
		})

		It("carries the feature tag on every case", func() {
			res := generate(load("twelve.feature"), framework.NUnit, framework.CSharp)
			for _, c := range res.Cases {
				Expect(c.Tags).To(ContainElement("catalog"))
			}
		})
	})

	Context("with a feature totalling five cases", func() {
		It("generates exactly five cases", func() {
			res := generate(load("five.feature"), framework.MSTest, framework.CSharp)
			Expect(res.Cases).To(HaveLen(5))
			Expect(strings.Count(string(res.Unit.Source), "[DataRow(")).To(Equal(3))
		})

		It("prepends the background to every case", func() {
			res := generate(load("five.feature"), framework.XUnit, framework.CSharp)
			for _, c := range res.Cases {
				Expect(c.Steps[0].Text).To(Equal("an empty basket"))
			}
		})

		It("names outline cases after their blocks", func() {
			res := generate(load("five.feature"), framework.GoTest, framework.Go)
			names := make([]string, 0, len(res.Cases))
			for _, c := range res.Cases {
				names = append(names, c.Name)
			}
			Expect(names).To(Equal([]string{
				"PayByCard",
				"PayByInvoice",
				"ApplyAVoucher_Fixed_Variant0",
				"ApplyAVoucher_Fixed_Variant1",
				"ApplyAVoucher_Percentage_Variant0",
			}))
			Expect(goCases(res.Unit.Source)).To(Equal(5))
		})
	})

	Context("with one outline under tagged and untagged blocks", func() {
		var doc *model.FeatureDocument

		BeforeEach(func() {
			doc = load("outline.feature")
		})

		It("generates foo, bar, baz in document order", func() {
			res := generate(doc, framework.MSTest, framework.CSharp)
			Expect(res.Cases).To(HaveLen(3))
			values := []string{}
			for _, c := range res.Cases {
				v, _ := c.Value("what")
				values = append(values, v)
			}
			Expect(values).To(Equal([]string{"foo", "bar", "baz"}))
			Expect([]string(res.Cases[0].BlockTags)).To(Equal([]string{"example_tag"}))
			Expect([]string(res.Cases[1].BlockTags)).To(Equal([]string{"example_tag"}))
			Expect(res.Cases[2].BlockTags).To(BeEmpty())
		})

		It("names the titled untagged block's case after the block", func() {
			res := generate(doc, framework.MSTest, framework.CSharp)
			names := []string{}
			for _, c := range res.Cases {
				names = append(names, c.Name)
			}
			Expect(names).To(Equal([]string{
				"SampleScenarioOutline_Variant0",
				"SampleScenarioOutline_Variant1",
				"SampleScenarioOutline_SecondExampleWithoutTagsInThisCaseTheTagListIsNull_Variant0",
			}))
			Expect(string(res.Unit.Source)).To(ContainSubstring(
				`[DataRow(new object[] { "baz", new string[0] }, DisplayName = "SampleScenarioOutline_SecondExampleWithoutTagsInThisCaseTheTagListIsNull_Variant0")]`))
		})

		DescribeTable("renders a uniform tags argument",
			func(fw framework.Framework, lang framework.Language, tagged, untagged string) {
				src := string(generate(doc, fw, lang).Unit.Source)
				Expect(strings.Count(src, tagged)).To(Equal(2))
				Expect(strings.Count(src, untagged)).To(Equal(1))
			},
			Entry("mstest csharp", framework.MSTest, framework.CSharp, `new string[] { "example_tag" } }`, `"baz", new string[0] }`),
			Entry("mstest vb", framework.MSTest, framework.VB, `New String() {"example_tag"}}`, `"baz", New String() {}}`),
			Entry("nunit csharp", framework.NUnit, framework.CSharp, `new string[] { "example_tag" }, TestName`, `"baz", new string[0], TestName`),
			Entry("xunit csharp", framework.XUnit, framework.CSharp, `new string[] { "example_tag" })]`, `[InlineData("baz", new string[0])]`),
			Entry("gotest", framework.GoTest, framework.Go, `exampleTags: []string{"example_tag"}}`, `exampleTags: []string{}}`),
		)

		It("is deterministic", func() {
			for _, tg := range targets {
				first := generate(doc, tg.fw, tg.lang)
				second := generate(load("outline.feature"), tg.fw, tg.lang)
				Expect(second.Unit.Source).To(Equal(first.Unit.Source))
				Expect(second.Manifest).To(Equal(first.Manifest))
			}
		})
	})

	Context("laws over every fixture", func() {
		DescribeTable("case count equals the number of rows",
			func(name string) {
				doc := load(name)
				for _, tg := range targets {
					Expect(generate(doc, tg.fw, tg.lang).Cases).To(HaveLen(rowCount(doc)))
				}
			},
			Entry("twelve", "twelve.feature"),
			Entry("five", "five.feature"),
			Entry("outline", "outline.feature"),
		)

		DescribeTable("effective tags include feature, scenario and block tags",
			func(name string) {
				doc := load(name)
				res := generate(doc, framework.XUnit, framework.VB)
				for _, c := range res.Cases {
					for _, tag := range doc.Tags {
						Expect(c.Tags).To(ContainElement(tag))
					}
					for _, tag := range c.BlockTags {
						Expect(c.Tags).To(ContainElement(tag))
					}
				}
			},
			Entry("twelve", "twelve.feature"),
			Entry("five", "five.feature"),
			Entry("outline", "outline.feature"),
		)
	})

	Context("placeholder completeness", func() {
		It("fails when any block lacks a referenced column", func() {
			doc, err := ftparser.ParseFeature("bad.feature", []byte(`Feature: Bad
  Scenario Outline: Missing
    When <what> happens
    Examples:
      | what |
      | foo  |
    Examples:
      | who |
      | bar |
`))
			Expect(err).NotTo(HaveOccurred())
			a, _ := framework.New(framework.GoTest, "")
			_, err = generator.Generate(doc, generator.Options{Adapter: a})
			Expect(err).To(MatchError(generator.ErrUnresolvedPlaceholder))
			Expect(err.Error()).To(ContainSubstring("Examples #2"))
		})
	})
})
