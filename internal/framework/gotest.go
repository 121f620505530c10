package framework

import (
	"fmt"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/samber/lo"
	"golang.org/x/tools/imports"

	"github.com/chriserin/ftgen/internal/model"
)

const caseNameField = "caseName"

// goTest renders table-driven tests. Scenario and step calls go through
// package-level hook variables that user code can replace from an init func.
type goTest struct{}

func newGoTest() Adapter { return goTest{} }

func (goTest) Framework() Framework { return GoTest }
func (goTest) Language() Language   { return Go }

func (goTest) FileName(base string) string {
	return lo.SnakeCase(base) + "_feature_test.go"
}

func (goTest) quote(s string) string { return strconv.Quote(s) }

func (goTest) concat(exprs []string) string { return strings.Join(exprs, " + ") }

func (g goTest) RenderHeader(info FileInfo) (string, error) {
	hooks := hookPrefix(info.ClassName)
	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by ftgen from %s. DO NOT EDIT.\n\n", filepath.ToSlash(info.SourcePath))
	fmt.Fprintf(&b, "package %s\n\n", goPackage(info.Namespace))
	b.WriteString("import \"testing\"\n\n")
	fmt.Fprintf(&b, "// Feature: %s\n", info.Feature)
	if info.Description != "" {
		for _, l := range commentLines(func(s string) string { return "// " + s }, info.Description) {
			b.WriteString(l + "\n")
		}
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "// %sScenario is called before each scenario of %s.\n", hooks, info.Feature)
	fmt.Fprintf(&b, "var %sScenario = func(t *testing.T, title string, tags, exampleTags []string) {}\n\n", hooks)
	fmt.Fprintf(&b, "// %sStep runs one step of %s. arg is nil, a doc string or a [][]string table.\n", hooks, info.Feature)
	fmt.Fprintf(&b, "var %sStep = func(t *testing.T, keyword, text string, arg any) {}\n", hooks)
	return b.String(), nil
}

func (goTest) RenderFooter(FileInfo) (string, error) { return "", nil }

func (g goTest) RenderCase(c model.TestCase, m model.Method) (string, error) {
	if !m.RowTest {
		return g.caseBody(c, m), nil
	}
	idents, err := columnIdents(m.Columns, goEscape, caseNameField, exampleTagsParam)
	if err != nil {
		return "", caseShapeError(c.Name, "%v", err)
	}
	fields := []string{caseNameField + ": " + g.quote(c.Name)}
	for i, v := range rowValues(c, m.Columns) {
		fields = append(fields, idents[i]+": "+g.quote(v))
	}
	if m.TagsArg {
		fields = append(fields, exampleTagsParam+": "+g.stringSlice(c.BlockTags))
	}
	return "{" + strings.Join(fields, ", ") + "},", nil
}

func (g goTest) RenderMethod(m model.Method, fragments []string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "\n// %s\nfunc Test%s_%s(t *testing.T) {\n", m.Title, m.Class, m.Name)
	if !m.RowTest {
		b.WriteString(indent(strings.Join(fragments, "\n"), "\t", 1))
		b.WriteString("\n}\n")
		return b.String(), nil
	}

	idents, err := columnIdents(m.Columns, goEscape, caseNameField, exampleTagsParam)
	if err != nil {
		return "", caseShapeError(firstCase(m), "%v", err)
	}
	b.WriteString("\tcases := []struct {\n")
	fmt.Fprintf(&b, "\t\t%s string\n", caseNameField)
	for _, id := range idents {
		fmt.Fprintf(&b, "\t\t%s string\n", id)
	}
	if m.TagsArg {
		fmt.Fprintf(&b, "\t\t%s []string\n", exampleTagsParam)
	}
	b.WriteString("\t}{\n")
	b.WriteString(indent(strings.Join(fragments, "\n"), "\t", 2))
	b.WriteString("\n\t}\n")
	b.WriteString("\tfor _, tc := range cases {\n")
	fmt.Fprintf(&b, "\t\tt.Run(tc.%s, func(t *testing.T) {\n", caseNameField)
	b.WriteString(indent(g.rowBody(m, idents), "\t", 3))
	b.WriteString("\n\t\t})\n\t}\n}\n")
	return b.String(), nil
}

// Format gofmts the unit; output that does not parse is rejected.
func (goTest) Format(path string, src []byte) ([]byte, error) {
	out, err := imports.Process(path, src, &imports.Options{
		FormatOnly: true,
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidOutput, path, err)
	}
	return out, nil
}

func (g goTest) caseBody(c model.TestCase, m model.Method) string {
	hooks := hookPrefix(m.Class)
	lines := []string{fmt.Sprintf("%sScenario(t, %s, %s, %s)",
		hooks, g.quote(c.Title), g.stringSlice(c.Tags), g.stringSlice(c.BlockTags))}
	for _, s := range c.Steps {
		lines = append(lines, g.stepCall(hooks, s, nil))
	}
	return strings.Join(lines, "\n")
}

func (g goTest) rowBody(m model.Method, idents []string) string {
	hooks := hookPrefix(m.Class)
	cols := make(map[string]string, len(m.Columns))
	for i, col := range m.Columns {
		cols[col] = "tc." + idents[i]
	}
	exampleTags := g.stringSlice(nil)
	if m.TagsArg {
		exampleTags = "tc." + exampleTagsParam
	}
	lines := []string{fmt.Sprintf("%sScenario(t, %s, %s, %s)",
		hooks, templateExpr(g, m.Title, cols), g.stringSlice(m.Tags), exampleTags)}
	for _, s := range m.Background {
		lines = append(lines, g.stepCall(hooks, s, nil))
	}
	for _, s := range m.Steps {
		lines = append(lines, g.stepCall(hooks, s, cols))
	}
	return strings.Join(lines, "\n")
}

func (g goTest) stepCall(hooks string, s model.Step, cols map[string]string) string {
	arg := "nil"
	switch {
	case s.DocString != nil:
		arg = templateExpr(g, s.DocString.Content, cols)
	case s.Table != nil:
		rows := make([]string, 0, len(s.Table.Rows))
		for _, r := range s.Table.Rows {
			cells := lo.Map(r, func(cell string, _ int) string { return templateExpr(g, cell, cols) })
			rows = append(rows, "{"+strings.Join(cells, ", ")+"}")
		}
		arg = "[][]string{" + strings.Join(rows, ", ") + "}"
	}
	return fmt.Sprintf("%sStep(t, %s, %s, %s)", hooks, g.quote(s.Keyword), templateExpr(g, s.Text, cols), arg)
}

func (g goTest) stringSlice(values []string) string {
	return "[]string{" + strings.Join(quoteAll(g, values), ", ") + "}"
}

func goEscape(ident string) string {
	if token.IsKeyword(ident) {
		return ident + "_"
	}
	return ident
}

func hookPrefix(class string) string {
	if class == "" {
		return "feature"
	}
	r := []rune(class)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// goPackage derives a package name from the last element of ns.
func goPackage(ns string) string {
	if i := strings.LastIndexAny(ns, "./"); i >= 0 {
		ns = ns[i+1:]
	}
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return unicode.ToLower(r)
		}
		return -1
	}, ns)
	if name == "" || unicode.IsDigit([]rune(name)[0]) || token.IsKeyword(name) {
		return "features_test"
	}
	return name
}
