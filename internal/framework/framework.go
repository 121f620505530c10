// Package framework renders generated test cases into the source conventions
// of one target test framework and language.
package framework

import (
	"errors"
	"fmt"
	"slices"

	"github.com/chriserin/ftgen/internal/model"
)

type Framework string

const (
	MSTest Framework = "mstest"
	NUnit  Framework = "nunit"
	XUnit  Framework = "xunit"
	GoTest Framework = "gotest"
)

type Language string

const (
	CSharp Language = "csharp"
	VB     Language = "vb"
	Go     Language = "go"
)

var (
	ErrUnsupportedTarget    = errors.New("unsupported target")
	ErrUnsupportedCaseShape = errors.New("unsupported case shape")
	ErrInvalidOutput        = errors.New("invalid generated output")
)

// Frameworks lists the closed set of supported frameworks.
func Frameworks() []Framework { return []Framework{MSTest, NUnit, XUnit, GoTest} }

// Languages lists the languages each framework can be generated in.
func Languages(fw Framework) []Language {
	switch fw {
	case MSTest, NUnit, XUnit:
		return []Language{CSharp, VB}
	case GoTest:
		return []Language{Go}
	}
	return nil
}

// DefaultLanguage is the first language listed for fw.
func DefaultLanguage(fw Framework) Language {
	if langs := Languages(fw); len(langs) > 0 {
		return langs[0]
	}
	return ""
}

// FileInfo describes the unit being generated.
type FileInfo struct {
	Feature     string
	Description string
	SourcePath  string
	Namespace   string
	ClassName   string
	Tags        model.Tags
}

// Adapter renders one framework's invocation conventions.
//
// RenderCase returns the per-case fragment: a data row for row-test methods,
// the scenario body for single-case methods. RenderMethod wraps the fragments
// of one method's cases, in order.
type Adapter interface {
	Framework() Framework
	Language() Language
	FileName(base string) string
	RenderHeader(info FileInfo) (string, error)
	RenderCase(c model.TestCase, m model.Method) (string, error)
	RenderMethod(m model.Method, fragments []string) (string, error)
	RenderFooter(info FileInfo) (string, error)
	Format(path string, src []byte) ([]byte, error)
}

// New returns the adapter for fw in lang. An empty lang selects the
// framework's default language.
func New(fw Framework, lang Language) (Adapter, error) {
	langs := Languages(fw)
	if langs == nil {
		return nil, fmt.Errorf("%w: unknown framework %q", ErrUnsupportedTarget, fw)
	}
	if lang == "" {
		lang = langs[0]
	}
	if !slices.Contains(langs, lang) {
		return nil, fmt.Errorf("%w: %s does not support language %q", ErrUnsupportedTarget, fw, lang)
	}

	switch fw {
	case MSTest:
		return newMSTest(dotnetDialect(lang)), nil
	case NUnit:
		return newNUnit(dotnetDialect(lang)), nil
	case XUnit:
		return newXUnit(dotnetDialect(lang)), nil
	default:
		return newGoTest(), nil
	}
}

func caseShapeError(name string, format string, args ...any) error {
	return fmt.Errorf("%w: case %s: %s", ErrUnsupportedCaseShape, name, fmt.Sprintf(format, args...))
}
