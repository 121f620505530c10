package framework

import (
	"fmt"
	"strings"
)

// dialect is the .NET language syntax the framework variants share.
type dialect interface {
	language() Language
	ext() string
	comment(text string) string
	quote(s string) string
	null() string
	stringArray(exprs []string) string // always explicitly typed, even when empty
	objectArray(exprs []string) string
	tableArray(rows [][]string) string
	concat(exprs []string) string
	attribute(name string, args ...string) string
	namedArg(name, value string) string
	escape(ident string) string

	using(ns string) string
	namespaceOpen(ns string) string
	namespaceClose() string
	classOpen(name string) string
	classClose() string
	hookDecls() []string
	methodOpen(name string, params []param) string
	methodClose() string
	call(name string, args ...string) string
}

type paramKind int

const (
	paramString paramKind = iota
	paramStringArray
)

// param names are already escaped.
type param struct {
	name string
	kind paramKind
}

func dotnetDialect(lang Language) dialect {
	if lang == VB {
		return vbDialect{}
	}
	return csharpDialect{}
}

// ---- C# ----

type csharpDialect struct{}

var csharpKeywords = keywordSet(`abstract as base bool break byte case catch char checked class const
continue decimal default delegate do double else enum event explicit extern false finally fixed float
for foreach goto if implicit in int interface internal is lock long namespace new null object operator
out override params private protected public readonly ref return sbyte sealed short sizeof stackalloc
static string struct switch this throw true try typeof uint ulong unchecked unsafe ushort using virtual
void volatile while`)

func (csharpDialect) language() Language { return CSharp }
func (csharpDialect) ext() string        { return ".cs" }
func (csharpDialect) null() string       { return "null" }

func (csharpDialect) comment(text string) string { return "// " + text }

func (csharpDialect) quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		case '\u0085', '\u2028', '\u2029':
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func (csharpDialect) stringArray(exprs []string) string {
	if len(exprs) == 0 {
		return "new string[0]"
	}
	return "new string[] { " + strings.Join(exprs, ", ") + " }"
}

func (csharpDialect) objectArray(exprs []string) string {
	return "new object[] { " + strings.Join(exprs, ", ") + " }"
}

func (d csharpDialect) tableArray(rows [][]string) string {
	parts := make([]string, 0, len(rows))
	for _, row := range rows {
		parts = append(parts, d.stringArray(row))
	}
	return "new string[][] { " + strings.Join(parts, ", ") + " }"
}

func (csharpDialect) concat(exprs []string) string {
	if len(exprs) == 0 {
		return `""`
	}
	return strings.Join(exprs, " + ")
}

func (csharpDialect) attribute(name string, args ...string) string {
	if len(args) == 0 {
		return "[" + name + "]"
	}
	return "[" + name + "(" + strings.Join(args, ", ") + ")]"
}

func (csharpDialect) namedArg(name, value string) string { return name + " = " + value }

func (csharpDialect) escape(ident string) string {
	if csharpKeywords[ident] {
		return "@" + ident
	}
	return ident
}

func (csharpDialect) using(ns string) string { return "using " + ns + ";" }

func (csharpDialect) namespaceOpen(ns string) string { return "namespace " + ns + "\n{" }
func (csharpDialect) namespaceClose() string         { return "}" }

func (csharpDialect) classOpen(name string) string { return "public partial class " + name + "\n{" }
func (csharpDialect) classClose() string           { return "}" }

func (csharpDialect) hookDecls() []string {
	return []string{
		"partial void OnScenarioStart(string title, string[] tags, string[] exampleTags);",
		"partial void OnStep(string keyword, string text, string docString, string[][] table);",
	}
}

func (csharpDialect) methodOpen(name string, params []param) string {
	ps := make([]string, 0, len(params))
	for _, p := range params {
		typ := "string"
		if p.kind == paramStringArray {
			typ = "string[]"
		}
		ps = append(ps, typ+" "+p.name)
	}
	return fmt.Sprintf("public void %s(%s)\n{", name, strings.Join(ps, ", "))
}

func (csharpDialect) methodClose() string { return "}" }

func (csharpDialect) call(name string, args ...string) string {
	return name + "(" + strings.Join(args, ", ") + ");"
}

// ---- Visual Basic ----

type vbDialect struct{}

var vbKeywords = keywordSet(`addhandler addressof alias and andalso as boolean byref byte byval call case
catch cbool cbyte cchar cdate cdbl cdec char cint class clng cobj const continue csbyte cshort csng cstr
ctype cuint culng cushort date decimal declare default delegate dim directcast do double each else elseif
end endif enum erase error event exit false finally for friend function get gettype getxmlnamespace
global gosub goto handles if implements imports in inherits integer interface is isnot let lib like long
loop me mod module mustinherit mustoverride mybase myclass namespace narrowing new next not nothing
notinheritable notoverridable object of on operator option optional or orelse overloads overridable
overrides paramarray partial private property protected public raiseevent readonly redim rem
removehandler resume return sbyte select set shadows shared short single static step stop string
structure sub synclock then throw to true try trycast typeof uinteger ulong ushort using variant wend
when while widening with withevents writeonly xor`)

func (vbDialect) language() Language { return VB }
func (vbDialect) ext() string        { return ".vb" }
func (vbDialect) null() string       { return "Nothing" }

func (vbDialect) comment(text string) string { return "' " + text }

// quote doubles embedded quotes; control characters are spliced in with
// the vb constants since VB string literals have no escapes.
func (vbDialect) quote(s string) string {
	var parts []string
	var cur strings.Builder
	flush := func() {
		parts = append(parts, `"`+strings.ReplaceAll(cur.String(), `"`, `""`)+`"`)
		cur.Reset()
	}
	for _, r := range s {
		var constant string
		switch r {
		case '\n':
			constant = "vbLf"
		case '\r':
			constant = "vbCr"
		case '\t':
			constant = "vbTab"
		case '\u0085', '\u2028', '\u2029':
			constant = fmt.Sprintf("ChrW(&H%04X)", r)
		default:
			cur.WriteRune(r)
			continue
		}
		if cur.Len() > 0 {
			flush()
		}
		parts = append(parts, constant)
	}
	if cur.Len() > 0 || len(parts) == 0 {
		flush()
	}
	return strings.Join(parts, " & ")
}

func (vbDialect) stringArray(exprs []string) string {
	return "New String() {" + strings.Join(exprs, ", ") + "}"
}

func (vbDialect) objectArray(exprs []string) string {
	return "New Object() {" + strings.Join(exprs, ", ") + "}"
}

func (d vbDialect) tableArray(rows [][]string) string {
	parts := make([]string, 0, len(rows))
	for _, row := range rows {
		parts = append(parts, d.stringArray(row))
	}
	return "New String()() {" + strings.Join(parts, ", ") + "}"
}

func (vbDialect) concat(exprs []string) string {
	if len(exprs) == 0 {
		return `""`
	}
	return strings.Join(exprs, " & ")
}

func (vbDialect) attribute(name string, args ...string) string {
	if len(args) == 0 {
		return "<" + name + ">"
	}
	return "<" + name + "(" + strings.Join(args, ", ") + ")>"
}

func (vbDialect) namedArg(name, value string) string { return name + ":=" + value }

func (vbDialect) escape(ident string) string {
	if vbKeywords[strings.ToLower(ident)] {
		return "[" + ident + "]"
	}
	return ident
}

func (vbDialect) using(ns string) string { return "Imports " + ns }

func (vbDialect) namespaceOpen(ns string) string { return "Namespace " + ns }
func (vbDialect) namespaceClose() string         { return "End Namespace" }

func (vbDialect) classOpen(name string) string { return "Partial Public Class " + name }
func (vbDialect) classClose() string           { return "End Class" }

func (vbDialect) hookDecls() []string {
	return []string{
		"Partial Private Sub OnScenarioStart(ByVal title As String, ByVal tags As String(), ByVal exampleTags As String())\nEnd Sub",
		"Partial Private Sub OnStep(ByVal keyword As String, ByVal text As String, ByVal docString As String, ByVal table As String()())\nEnd Sub",
	}
}

func (vbDialect) methodOpen(name string, params []param) string {
	ps := make([]string, 0, len(params))
	for _, p := range params {
		typ := "String"
		if p.kind == paramStringArray {
			typ = "String()"
		}
		ps = append(ps, "ByVal "+p.name+" As "+typ)
	}
	return fmt.Sprintf("Public Sub %s(%s)", name, strings.Join(ps, ", "))
}

func (vbDialect) methodClose() string { return "End Sub" }

func (vbDialect) call(name string, args ...string) string {
	return name + "(" + strings.Join(args, ", ") + ")"
}

func keywordSet(words string) map[string]bool {
	set := map[string]bool{}
	for _, w := range strings.Fields(words) {
		set[w] = true
	}
	return set
}
