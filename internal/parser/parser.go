package parser

import (
	"fmt"
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`@[^@\s]+`)

var (
	scenarioKeywords = []string{"Scenario Outline", "Scenario Template", "Scenario", "Example"}
	examplesKeywords = []string{"Examples", "Scenarios"}
	stepKeywords     = []string{"Given", "When", "Then", "And", "But", "*"}
)

// scanner walks the file line by line. i always points at the next
// unconsumed line.
type scanner struct {
	lines  []string
	i      int
	errors []ParseError
}

// Parse parses a .feature file and returns a Document AST and any parse errors.
func Parse(filename string, content []byte) (*Document, []ParseError) {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	s := &scanner{lines: strings.Split(text, "\n")}

	feature := &Feature{}
	doc := &Document{Feature: feature}

	// Leading blanks, comments and feature-level tags
	feature.Header.Tags = s.leadingTags()
	feature.Header.Name = filenameWithoutExt(filename)

	if !s.done() && strings.HasPrefix(s.trimmed(), "Feature:") {
		feature.Header.Name = strings.TrimSpace(strings.TrimPrefix(s.trimmed(), "Feature:"))
		feature.Header.Line = s.lineNo()
		s.i++
		feature.Header.Description = s.description()
	}

	// Body loop
	var pendingTags []Tag
	for !s.done() {
		trimmed := s.trimmed()

		switch {
		case trimmed == "" || isComment(trimmed):
			s.i++

		case isTagLine(trimmed):
			pendingTags = append(pendingTags, parseTags(trimmed, s.lineNo())...)
			s.i++

		case strings.HasPrefix(trimmed, "Background:"):
			if len(pendingTags) > 0 {
				s.errorf(s.lineNo(), "Background cannot be tagged")
				pendingTags = nil
			}
			bg := &Background{Line: s.lineNo()}
			if feature.Background != nil {
				s.errorf(s.lineNo(), "only one Background is allowed")
			}
			s.i++
			bg.Description = s.description()
			bg.StepGroups = s.steps()
			if feature.Background == nil {
				feature.Background = bg
			}

		case scenarioKeyword(trimmed) != "":
			feature.Scenarios = append(feature.Scenarios, s.scenario(pendingTags))
			pendingTags = nil

		case strings.HasPrefix(trimmed, "Rule:"):
			s.errorf(s.lineNo(), "Rule is not supported")
			pendingTags = nil
			s.i++
			s.consumeBlock()

		case examplesKeyword(trimmed) != "":
			s.errorf(s.lineNo(), "Examples must follow a Scenario Outline")
			pendingTags = nil
			s.i++
			s.consumeBlock()

		case strings.HasPrefix(trimmed, "Feature:"):
			s.errorf(s.lineNo(), "only one Feature is allowed per file")
			s.i++

		case isStepLine(trimmed):
			s.errorf(s.lineNo(), "step outside of a Scenario")
			s.i++

		case isTableRow(trimmed):
			s.errorf(s.lineNo(), "table row outside of a step or Examples")
			s.i++

		default:
			// Free text between blocks
			s.i++
		}
	}

	if len(pendingTags) > 0 {
		s.errorf(pendingTags[0].Line, "tags must be followed by a Scenario or Examples")
	}

	return doc, s.errors
}

func (s *scanner) done() bool      { return s.i >= len(s.lines) }
func (s *scanner) trimmed() string { return strings.TrimSpace(s.lines[s.i]) }
func (s *scanner) lineNo() int     { return s.i + 1 }

func (s *scanner) errorf(line int, format string, args ...any) {
	s.errors = append(s.errors, ParseError{Line: line, Message: fmt.Sprintf(format, args...)})
}

func (s *scanner) leadingTags() []Tag {
	var tags []Tag
	for !s.done() {
		trimmed := s.trimmed()
		if trimmed == "" || isComment(trimmed) {
			s.i++
			continue
		}
		if isTagLine(trimmed) {
			tags = append(tags, parseTags(trimmed, s.lineNo())...)
			s.i++
			continue
		}
		break
	}
	return tags
}

// description collects free text up to the first structural line.
func (s *scanner) description() string {
	var desc []string
	for !s.done() {
		trimmed := s.trimmed()
		if isKeyword(trimmed) || isTagLine(trimmed) || isStepLine(trimmed) ||
			isTableRow(trimmed) || isDocStringDelimiter(trimmed) {
			break
		}
		if !isComment(trimmed) {
			desc = append(desc, trimmed)
		}
		s.i++
	}
	return strings.TrimSpace(strings.Join(desc, "\n"))
}

func (s *scanner) scenario(tags []Tag) ScenarioDefinition {
	trimmed := s.trimmed()
	kw := scenarioKeyword(trimmed)
	sd := ScenarioDefinition{
		Tags:    tags,
		Keyword: kw,
		Line:    s.lineNo(),
	}
	sd.Scenario.Name = strings.TrimSpace(trimmed[len(kw)+1:])
	s.i++
	sd.Scenario.Description = s.description()
	sd.Scenario.StepGroups = s.steps()

	for {
		ex, ok := s.examples()
		if !ok {
			break
		}
		sd.Examples = append(sd.Examples, ex)
	}
	return sd
}

// examples consumes one (optionally tagged) Examples block. When the next
// structural line is not an Examples keyword it rewinds and reports false.
func (s *scanner) examples() (Examples, bool) {
	start := s.i
	var tags []Tag
	for !s.done() {
		trimmed := s.trimmed()
		if trimmed == "" || isComment(trimmed) {
			s.i++
			continue
		}
		if isTagLine(trimmed) {
			tags = append(tags, parseTags(trimmed, s.lineNo())...)
			s.i++
			continue
		}
		break
	}
	if s.done() || examplesKeyword(s.trimmed()) == "" {
		s.i = start
		return Examples{}, false
	}

	trimmed := s.trimmed()
	kw := examplesKeyword(trimmed)
	ex := Examples{
		Tags:    tags,
		Keyword: kw,
		Name:    strings.TrimSpace(trimmed[len(kw)+1:]),
		Line:    s.lineNo(),
	}
	s.i++
	ex.Description = s.description()
	s.skipBlank()
	if !s.done() && isTableRow(s.trimmed()) {
		ex.Table = s.table()
	}
	return ex, true
}

func (s *scanner) steps() []StepGroup {
	var groups []StepGroup
	for !s.done() {
		trimmed := s.trimmed()
		switch {
		case trimmed == "" || isComment(trimmed):
			s.i++

		case isDocStringDelimiter(trimmed):
			line := s.lineNo()
			ds := s.docString()
			if last := lastStep(groups); last == nil || last.Argument != nil {
				s.errorf(line, "doc string must follow a step")
			} else {
				last.Argument = &StepArgument{DocString: ds}
			}

		case isTableRow(trimmed):
			line := s.lineNo()
			table := s.table()
			if last := lastStep(groups); last == nil || last.Argument != nil {
				s.errorf(line, "data table must follow a step")
			} else {
				last.Argument = &StepArgument{DataTable: table}
			}

		case isStepLine(trimmed):
			kw, text := parseStep(trimmed)
			step := Step{Keyword: kw, Text: text, Line: s.lineNo()}
			s.i++
			if isConjunction(kw) && len(groups) > 0 {
				g := &groups[len(groups)-1]
				g.AltSteps = append(g.AltSteps, step)
			} else {
				groups = append(groups, StepGroup{Step: step})
			}

		case isKeyword(trimmed) || isTagLine(trimmed):
			return groups

		default:
			s.errorf(s.lineNo(), "unexpected line in steps: %q", trimmed)
			s.i++
		}
	}
	return groups
}

// lastStep points into groups; callers must not append before using it.
func lastStep(groups []StepGroup) *Step {
	if len(groups) == 0 {
		return nil
	}
	g := &groups[len(groups)-1]
	if n := len(g.AltSteps); n > 0 {
		return &g.AltSteps[n-1]
	}
	return &g.Step
}

// docString reads a doc string block. i points at the opening delimiter.
func (s *scanner) docString() *DocString {
	opener := s.lines[s.i]
	trimmed := strings.TrimSpace(opener)
	delimiter := `"""`
	if strings.HasPrefix(trimmed, "```") {
		delimiter = "```"
	}
	indent := len(opener) - len(strings.TrimLeft(opener, " \t"))
	ds := &DocString{MediaType: strings.TrimSpace(trimmed[len(delimiter):])}
	start := s.lineNo()
	s.i++ // move past opening delimiter

	escaped := `\` + strings.Join(strings.Split(delimiter, ""), `\`)
	var content []string
	for !s.done() {
		line := s.lines[s.i]
		s.i++
		if strings.TrimSpace(line) == delimiter {
			ds.Content = strings.Join(content, "\n")
			return ds
		}
		content = append(content, strings.ReplaceAll(unindent(line, indent), escaped, delimiter))
	}
	s.errorf(start, "doc string is not closed")
	ds.Content = strings.Join(content, "\n")
	return ds
}

// table reads consecutive table rows. Comments and blank lines between rows
// are allowed; the table ends at the first other line.
func (s *scanner) table() *DataTable {
	t := &DataTable{Line: s.lineNo()}
	var rows [][]string
	for !s.done() {
		trimmed := s.trimmed()
		if trimmed == "" || isComment(trimmed) {
			if !s.tableContinues() {
				break
			}
			s.i++
			continue
		}
		if !isTableRow(trimmed) {
			break
		}
		rows = append(rows, parseTableRow(trimmed))
		s.i++
	}
	if len(rows) > 0 {
		t.HeaderRow = rows[0]
		t.Rows = rows[1:]
	}
	return t
}

func (s *scanner) tableContinues() bool {
	for j := s.i; j < len(s.lines); j++ {
		t := strings.TrimSpace(s.lines[j])
		if t == "" || isComment(t) {
			continue
		}
		return isTableRow(t)
	}
	return false
}

func (s *scanner) skipBlank() {
	for !s.done() {
		trimmed := s.trimmed()
		if trimmed != "" && !isComment(trimmed) {
			return
		}
		s.i++
	}
}

// consumeBlock advances past content lines, skipping over doc strings,
// until the next keyword, tag line, or EOF.
func (s *scanner) consumeBlock() {
	for !s.done() {
		t := s.trimmed()
		if isDocStringDelimiter(t) {
			s.docString()
			continue
		}
		if isKeyword(t) || isTagLine(t) {
			return
		}
		s.i++
	}
}

func parseTags(line string, lineNo int) []Tag {
	// Trailing comments are not tags
	if idx := strings.Index(line, " #"); idx >= 0 {
		line = line[:idx]
	}
	matches := tagPattern.FindAllString(line, -1)
	var tags []Tag
	for _, m := range matches {
		tags = append(tags, Tag{Name: m, Line: lineNo})
	}
	return tags
}

func parseStep(trimmed string) (keyword, text string) {
	for _, kw := range stepKeywords {
		if trimmed == kw {
			return kw, ""
		}
		if strings.HasPrefix(trimmed, kw+" ") {
			return kw, strings.TrimSpace(trimmed[len(kw):])
		}
	}
	return "", ""
}

// parseTableRow splits "| a | b |" into cells, honouring \|, \\ and \n escapes.
func parseTableRow(trimmed string) []string {
	body := strings.TrimPrefix(trimmed, "|")
	var cells []string
	var cur strings.Builder
	escaped := false
	for _, r := range body {
		if escaped {
			switch r {
			case 'n':
				cur.WriteRune('\n')
			case '|', '\\':
				cur.WriteRune(r)
			default:
				cur.WriteRune('\\')
				cur.WriteRune(r)
			}
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case '|':
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if rest := strings.TrimSpace(cur.String()); rest != "" {
		cells = append(cells, rest)
	}
	return cells
}

func unindent(line string, indent int) string {
	for n := 0; n < indent && len(line) > 0 && (line[0] == ' ' || line[0] == '\t'); n++ {
		line = line[1:]
	}
	return line
}

func scenarioKeyword(trimmed string) string {
	for _, kw := range scenarioKeywords {
		if strings.HasPrefix(trimmed, kw+":") {
			return kw
		}
	}
	return ""
}

func examplesKeyword(trimmed string) string {
	for _, kw := range examplesKeywords {
		if strings.HasPrefix(trimmed, kw+":") {
			return kw
		}
	}
	return ""
}

func isComment(trimmed string) bool {
	return strings.HasPrefix(trimmed, "#")
}

func isTagLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "@")
}

func isTableRow(trimmed string) bool {
	return strings.HasPrefix(trimmed, "|")
}

func isStepLine(trimmed string) bool {
	kw, _ := parseStep(trimmed)
	return kw != ""
}

func isConjunction(kw string) bool {
	return kw == "And" || kw == "But" || kw == "*"
}

func isKeyword(trimmed string) bool {
	return strings.HasPrefix(trimmed, "Feature:") ||
		strings.HasPrefix(trimmed, "Background:") ||
		strings.HasPrefix(trimmed, "Rule:") ||
		scenarioKeyword(trimmed) != "" ||
		examplesKeyword(trimmed) != ""
}

func isDocStringDelimiter(trimmed string) bool {
	return strings.HasPrefix(trimmed, `"""`) || strings.HasPrefix(trimmed, "```")
}
