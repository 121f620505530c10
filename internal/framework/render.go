package framework

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/samber/lo"

	"github.com/chriserin/ftgen/internal/model"
	"github.com/chriserin/ftgen/internal/placeholder"
)

const exampleTagsParam = "exampleTags"

type literals interface {
	quote(s string) string
	concat(exprs []string) string
}

// templateExpr renders tpl as an expression, replacing each placeholder that
// names a column with that column's expression. Other tokens stay literal.
func templateExpr(l literals, tpl string, cols map[string]string) string {
	var parts []string
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, l.quote(lit.String()))
			lit.Reset()
		}
	}
	for _, seg := range placeholder.Split(tpl) {
		if !seg.Placeholder {
			lit.WriteString(seg.Text)
			continue
		}
		expr, ok := cols[seg.Text]
		if !ok {
			lit.WriteString("<" + seg.Text + ">")
			continue
		}
		flush()
		parts = append(parts, expr)
	}
	flush()
	if len(parts) == 0 {
		return l.quote("")
	}
	return l.concat(parts)
}

// columnIdents turns header names into parameter identifiers. Names that
// sanitise to nothing, or that collide with each other or with reserved,
// cannot be expressed.
func columnIdents(columns []string, escape func(string) string, reserved ...string) ([]string, error) {
	taken := map[string]string{}
	for _, r := range reserved {
		taken[strings.ToLower(r)] = r
	}
	idents := make([]string, 0, len(columns))
	for _, col := range columns {
		id := lo.CamelCase(col)
		if id == "" {
			return nil, fmt.Errorf("column %q has no usable identifier", col)
		}
		if unicode.IsDigit([]rune(id)[0]) {
			id = "_" + id
		}
		key := strings.ToLower(id)
		if prev, ok := taken[key]; ok {
			return nil, fmt.Errorf("column %q collides with %q", col, prev)
		}
		taken[key] = col
		idents = append(idents, escape(id))
	}
	return idents, nil
}

func quoteAll(l literals, values []string) []string {
	return lo.Map(values, func(v string, _ int) string { return l.quote(v) })
}

func rowValues(c model.TestCase, columns []string) []string {
	return lo.Map(columns, func(col string, _ int) string {
		v, _ := c.Value(col)
		return v
	})
}

func indent(text, unit string, depth int) string {
	prefix := strings.Repeat(unit, depth)
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

func commentLines(comment func(string) string, text string) []string {
	var out []string
	for _, l := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		out = append(out, strings.TrimRight(comment(l), " "))
	}
	return out
}
