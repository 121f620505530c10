package framework

import "github.com/chriserin/ftgen/internal/model"

type mstest struct{ d dialect }

func newMSTest(d dialect) Adapter {
	return &dotnetAdapter{d: d, conv: mstest{d: d}}
}

func (mstest) framework() Framework { return MSTest }

func (mstest) imports() []string {
	return []string{"Microsoft.VisualStudio.TestTools.UnitTesting"}
}

func (mstest) classAttributes() []string { return []string{"TestClass"} }

func (c mstest) methodAttributes(model.Method) []string {
	return []string{c.d.attribute("TestMethod")}
}

func (c mstest) category(tag string) string {
	return c.d.attribute("TestCategory", c.d.quote(tag))
}

// DataRow always gets an explicit object array. A trailing string[] passed
// through DataRow(object, params object[]) would otherwise be spread.
func (c mstest) dataRow(tc model.TestCase, _ model.Method, args []string) string {
	return c.d.attribute("DataRow",
		c.d.objectArray(args),
		c.d.namedArg("DisplayName", c.d.quote(tc.Name)),
	)
}
