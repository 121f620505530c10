package generator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chriserin/ftgen/internal/framework"
	"github.com/chriserin/ftgen/internal/model"
)

type Layout string

const (
	LayoutFlat   Layout = "flat"
	LayoutMirror Layout = "mirror"
)

func Layouts() []Layout { return []Layout{LayoutFlat, LayoutMirror} }

// Unit is one generated source file.
type Unit struct {
	Path   string
	Source []byte
}

func baseName(path string) string {
	return filepath.Base(filepath.ToSlash(path))
}

// outputPath places the unit for doc according to the layout.
func outputPath(doc *model.FeatureDocument, opts Options) (string, error) {
	base := strings.TrimSuffix(baseName(doc.Path), filepath.Ext(doc.Path))
	if base == "" {
		base = strings.ToLower(identifier(doc.Title, "feature"))
	}
	name := opts.Adapter.FileName(base)

	if opts.Layout != LayoutMirror {
		return filepath.Join(opts.OutputDir, name), nil
	}
	rel, err := filepath.Rel(opts.FeaturesRoot, filepath.Dir(doc.Path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("feature %s is outside the features root %s", doc.Path, opts.FeaturesRoot)
	}
	return filepath.Join(opts.OutputDir, rel, name), nil
}

// emit renders header, methods in order, and footer, then formats the
// whole unit. The first adapter failure aborts the file.
func (r *run) emit(a framework.Adapter, info framework.FileInfo, path string, methods []model.Method) ([]byte, error) {
	var b strings.Builder

	head, err := a.RenderHeader(info)
	if err != nil {
		return nil, r.fail("", "", "", err)
	}
	b.WriteString(head)

	for _, m := range methods {
		fragments := make([]string, 0, len(m.Cases))
		for _, c := range m.Cases {
			frag, err := a.RenderCase(c, m)
			if err != nil {
				return nil, r.fail(c.Scenario, c.Block, c.Name, err)
			}
			fragments = append(fragments, frag)
		}
		out, err := a.RenderMethod(m, fragments)
		if err != nil {
			return nil, r.fail(m.Title, "", m.Name, err)
		}
		b.WriteString(out)
	}

	foot, err := a.RenderFooter(info)
	if err != nil {
		return nil, r.fail("", "", "", err)
	}
	b.WriteString(foot)

	src, err := a.Format(path, []byte(b.String()))
	if err != nil {
		return nil, r.fail("", "", "", err)
	}
	return src, nil
}
