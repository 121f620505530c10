package framework

import (
	"strings"

	"github.com/chriserin/ftgen/internal/model"
)

type nunit struct{ d dialect }

func newNUnit(d dialect) Adapter {
	return &dotnetAdapter{d: d, conv: nunit{d: d}}
}

func (nunit) framework() Framework { return NUnit }

func (nunit) imports() []string { return []string{"NUnit.Framework"} }

func (nunit) classAttributes() []string { return []string{"TestFixture"} }

// Row-test methods are marked by their TestCase rows alone.
func (c nunit) methodAttributes(m model.Method) []string {
	if m.RowTest {
		return nil
	}
	return []string{c.d.attribute("Test")}
}

func (c nunit) category(tag string) string {
	return c.d.attribute("Category", c.d.quote(tag))
}

func (c nunit) dataRow(tc model.TestCase, m model.Method, args []string) string {
	if soleArray(m, args) {
		args = []string{c.d.objectArray(args)}
	}
	args = append(args, c.d.namedArg("TestName", c.d.quote(tc.Name)))
	if !tc.BlockTags.Empty() {
		args = append(args, c.d.namedArg("Category", c.d.quote(strings.Join(tc.BlockTags, ","))))
	}
	return c.d.attribute("TestCase", args...)
}
