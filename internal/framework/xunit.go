package framework

import "github.com/chriserin/ftgen/internal/model"

type xunit struct{ d dialect }

func newXUnit(d dialect) Adapter {
	return &dotnetAdapter{d: d, conv: xunit{d: d}}
}

func (xunit) framework() Framework { return XUnit }

func (xunit) imports() []string { return []string{"Xunit"} }

func (xunit) classAttributes() []string { return nil }

func (c xunit) methodAttributes(m model.Method) []string {
	if m.RowTest {
		return []string{c.d.attribute("Theory")}
	}
	return []string{c.d.attribute("Fact", c.d.namedArg("DisplayName", c.d.quote(m.Title)))}
}

func (c xunit) category(tag string) string {
	return c.d.attribute("Trait", c.d.quote("Category"), c.d.quote(tag))
}

// InlineData has no per-row display name; case names live in the manifest.
func (c xunit) dataRow(_ model.TestCase, m model.Method, args []string) string {
	if soleArray(m, args) {
		args = []string{c.d.objectArray(args)}
	}
	return c.d.attribute("InlineData", args...)
}
