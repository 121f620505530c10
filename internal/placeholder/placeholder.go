// Package placeholder substitutes <name> tokens in step templates.
package placeholder

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrUnresolved = errors.New("unresolved placeholder")

var tokenPattern = regexp.MustCompile(`<([^<>\n]+)>`)

// Segment is either literal text or a placeholder name.
type Segment struct {
	Text        string
	Placeholder bool
}

// Split breaks a template into literal and placeholder segments, in order.
// Adjacent literals are never produced.
func Split(template string) []Segment {
	var segs []Segment
	last := 0
	for _, m := range tokenPattern.FindAllStringSubmatchIndex(template, -1) {
		if m[0] > last {
			segs = append(segs, Segment{Text: template[last:m[0]]})
		}
		segs = append(segs, Segment{Text: template[m[2]:m[3]], Placeholder: true})
		last = m[1]
	}
	if last < len(template) {
		segs = append(segs, Segment{Text: template[last:]})
	}
	return segs
}

// Names lists the distinct placeholder names of template in first-seen order.
func Names(template string) []string {
	var names []string
	seen := map[string]bool{}
	for _, m := range tokenPattern.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Row maps column names to cell values for one examples row.
type Row map[string]string

// NewRow zips a header with one row of cells.
func NewRow(header, cells []string) Row {
	row := make(Row, len(header))
	for i, h := range header {
		if i < len(cells) {
			row[h] = cells[i]
		}
	}
	return row
}

// Resolve replaces every token whose name is in row. Unknown tokens are
// left as written; use Check first when they must not occur.
func Resolve(template string, row Row) string {
	if len(row) == 0 || !strings.Contains(template, "<") {
		return template
	}
	return tokenPattern.ReplaceAllStringFunc(template, func(tok string) string {
		if v, ok := row[tok[1:len(tok)-1]]; ok {
			return v
		}
		return tok
	})
}

// Check reports the first name referenced by any template that is not in
// header.
func Check(header []string, templates ...string) error {
	known := make(map[string]bool, len(header))
	for _, h := range header {
		known[h] = true
	}
	for _, tpl := range templates {
		for _, name := range Names(tpl) {
			if !known[name] {
				return fmt.Errorf("%w <%s>", ErrUnresolved, name)
			}
		}
	}
	return nil
}
