// Package generator expands parsed feature documents into test cases and
// renders them through a framework adapter into one source unit.
package generator

import (
	"fmt"
	"path/filepath"

	"github.com/chriserin/ftgen/internal/framework"
	"github.com/chriserin/ftgen/internal/model"
)

type Options struct {
	Adapter       framework.Adapter
	Layout        Layout
	OutputDir     string
	FeaturesRoot  string // mirror layout only
	Namespace     string
	AllowRowTests bool
}

type Result struct {
	Unit     Unit
	Class    string
	Cases    []model.TestCase // generation order
	Methods  []model.Method
	Manifest model.Manifest
}

// Empty reports a document that produced no cases. This is not an error.
func (r *Result) Empty() bool { return len(r.Cases) == 0 }

// Generate turns one document into one unit. It either returns the complete
// unit or an error; nothing partial is produced. Generate holds no state
// between calls and is safe for concurrent use.
func Generate(doc *model.FeatureDocument, opts Options) (*Result, error) {
	if opts.Adapter == nil {
		return nil, fmt.Errorf("%w: no framework adapter", framework.ErrUnsupportedTarget)
	}
	class := className(doc.Title, doc.Path)
	r := newRun(doc, class, opts.AllowRowTests)

	methods, err := r.expand()
	if err != nil {
		return nil, err
	}

	path, err := outputPath(doc, opts)
	if err != nil {
		return nil, r.fail("", "", "", err)
	}
	info := framework.FileInfo{
		Feature:     doc.Title,
		Description: doc.Description,
		SourcePath:  doc.Path,
		Namespace:   opts.Namespace,
		ClassName:   class,
		Tags:        doc.Tags,
	}
	src, err := r.emit(opts.Adapter, info, path, methods)
	if err != nil {
		return nil, err
	}

	var cases []model.TestCase
	for _, m := range methods {
		cases = append(cases, m.Cases...)
	}
	return &Result{
		Unit:     Unit{Path: path, Source: src},
		Class:    class,
		Cases:    cases,
		Methods:  methods,
		Manifest: model.NewManifest(filepath.ToSlash(doc.Path), filepath.ToSlash(path), cases),
	}, nil
}
