package framework

import (
	"strings"

	"github.com/chriserin/ftgen/internal/model"
)

// DefaultNamespace wraps .NET output when none is configured.
const DefaultNamespace = "Features"

const dotnetIndent = "    "

// conventions is what differs between the .NET test frameworks.
type conventions interface {
	framework() Framework
	imports() []string
	classAttributes() []string
	methodAttributes(m model.Method) []string
	category(tag string) string
	dataRow(c model.TestCase, m model.Method, args []string) string
}

// dotnetAdapter renders a partial test class. Scenario and step calls go to
// partial methods the user's half of the class may implement.
type dotnetAdapter struct {
	d    dialect
	conv conventions
}

func (a *dotnetAdapter) Framework() Framework { return a.conv.framework() }
func (a *dotnetAdapter) Language() Language   { return a.d.language() }

func (a *dotnetAdapter) FileName(base string) string {
	return base + ".feature" + a.d.ext()
}

func (a *dotnetAdapter) RenderHeader(info FileInfo) (string, error) {
	var lines []string
	lines = append(lines,
		a.d.comment("<auto-generated>"),
		a.d.comment("Generated by ftgen from "+info.SourcePath+". Do not edit."),
		a.d.comment("</auto-generated>"),
	)
	for _, ns := range a.conv.imports() {
		lines = append(lines, a.d.using(ns))
	}
	lines = append(lines, "")

	ns := info.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	lines = append(lines, a.d.namespaceOpen(ns))

	var class []string
	class = append(class, a.d.comment("Feature: "+info.Feature))
	if info.Description != "" {
		class = append(class, commentLines(a.d.comment, info.Description)...)
	}
	for _, attr := range a.conv.classAttributes() {
		class = append(class, a.d.attribute(attr))
	}
	class = append(class, a.d.classOpen(info.ClassName))
	lines = append(lines, indent(strings.Join(class, "\n"), dotnetIndent, 1))

	for _, h := range a.d.hookDecls() {
		lines = append(lines, indent(h, dotnetIndent, 2))
	}
	return strings.Join(lines, "\n") + "\n", nil
}

func (a *dotnetAdapter) RenderFooter(FileInfo) (string, error) {
	return indent(a.d.classClose(), dotnetIndent, 1) + "\n" + a.d.namespaceClose() + "\n", nil
}

func (a *dotnetAdapter) RenderCase(c model.TestCase, m model.Method) (string, error) {
	if !m.RowTest {
		return a.caseBody(c), nil
	}
	if _, err := columnIdents(m.Columns, a.d.escape, exampleTagsParam); err != nil {
		return "", caseShapeError(c.Name, "%v", err)
	}
	args := quoteAll(a.d, rowValues(c, m.Columns))
	if m.TagsArg {
		args = append(args, a.d.stringArray(quoteAll(a.d, c.BlockTags)))
	}
	return a.conv.dataRow(c, m, args), nil
}

func (a *dotnetAdapter) RenderMethod(m model.Method, fragments []string) (string, error) {
	var head []string
	head = append(head, a.conv.methodAttributes(m)...)
	for _, tag := range m.Tags {
		head = append(head, a.conv.category(tag))
	}

	var params []param
	body := strings.Join(fragments, "\n")
	if m.RowTest {
		head = append(head, fragments...)
		idents, err := columnIdents(m.Columns, a.d.escape, exampleTagsParam)
		if err != nil {
			return "", caseShapeError(firstCase(m), "%v", err)
		}
		for _, id := range idents {
			params = append(params, param{name: id})
		}
		if m.TagsArg {
			params = append(params, param{name: exampleTagsParam, kind: paramStringArray})
		}
		body = a.rowBody(m, idents)
	}
	head = append(head, a.d.methodOpen(a.d.escape(m.Name), params))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(indent(strings.Join(head, "\n"), dotnetIndent, 2))
	b.WriteString("\n")
	b.WriteString(indent(body, dotnetIndent, 3))
	b.WriteString("\n")
	b.WriteString(indent(a.d.methodClose(), dotnetIndent, 2))
	b.WriteString("\n")
	return b.String(), nil
}

func (a *dotnetAdapter) Format(_ string, src []byte) ([]byte, error) {
	return src, nil
}

func (a *dotnetAdapter) caseBody(c model.TestCase) string {
	lines := []string{a.d.call("OnScenarioStart",
		a.d.quote(c.Title),
		a.d.stringArray(quoteAll(a.d, c.Tags)),
		a.d.stringArray(quoteAll(a.d, c.BlockTags)),
	)}
	for _, s := range c.Steps {
		lines = append(lines, a.stepCall(s, nil))
	}
	return strings.Join(lines, "\n")
}

func (a *dotnetAdapter) rowBody(m model.Method, idents []string) string {
	cols := make(map[string]string, len(m.Columns))
	for i, col := range m.Columns {
		cols[col] = idents[i]
	}
	exampleTags := a.d.stringArray(nil)
	if m.TagsArg {
		exampleTags = exampleTagsParam
	}
	lines := []string{a.d.call("OnScenarioStart",
		templateExpr(a.d, m.Title, cols),
		a.d.stringArray(quoteAll(a.d, m.Tags)),
		exampleTags,
	)}
	for _, s := range m.Background {
		lines = append(lines, a.stepCall(s, nil))
	}
	for _, s := range m.Steps {
		lines = append(lines, a.stepCall(s, cols))
	}
	return strings.Join(lines, "\n")
}

func (a *dotnetAdapter) stepCall(s model.Step, cols map[string]string) string {
	doc, table := a.d.null(), a.d.null()
	if s.DocString != nil {
		doc = templateExpr(a.d, s.DocString.Content, cols)
	}
	if s.Table != nil {
		rows := make([][]string, 0, len(s.Table.Rows))
		for _, r := range s.Table.Rows {
			cells := make([]string, 0, len(r))
			for _, cell := range r {
				cells = append(cells, templateExpr(a.d, cell, cols))
			}
			rows = append(rows, cells)
		}
		table = a.d.tableArray(rows)
	}
	return a.d.call("OnStep", a.d.quote(s.Keyword), templateExpr(a.d, s.Text, cols), doc, table)
}

// soleArray reports whether a data row's only argument is the tags array,
// which attribute constructors taking params object[] would otherwise spread.
func soleArray(m model.Method, args []string) bool {
	return m.TagsArg && len(args) == 1
}

func firstCase(m model.Method) string {
	if len(m.Cases) > 0 {
		return m.Cases[0].Name
	}
	return m.Name
}
