package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chriserin/ftgen/internal/diff"
	"github.com/chriserin/ftgen/internal/model"
)

var (
	genStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	okStyle      = lipgloss.NewStyle().Faint(true)
	staleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	idStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	keywordStyle = lipgloss.NewStyle().Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true)
)

// GenLine reports a file that was written.
func GenLine(w io.Writer, path string, cases int) {
	fmt.Fprintf(w, "%s  %s (%d cases)\n", genStyle.Render("gen"), path, cases)
}

// SameLine reports a file whose content did not change.
func SameLine(w io.Writer, path string) {
	fmt.Fprintln(w, okStyle.Render("ok ")+"  "+path)
}

// StaleLine reports a file that differs from what generation produces.
func StaleLine(w io.Writer, path string) {
	fmt.Fprintln(w, staleStyle.Render("chg")+"  "+path)
}

// MissingLine reports a file that generation would create.
func MissingLine(w io.Writer, path string) {
	fmt.Fprintln(w, errStyle.Render("mis")+"  "+path)
}

func SummaryLine(w io.Writer, files, cases int) {
	fmt.Fprintf(w, "generated %d files, %d cases\n", files, cases)
}

func CheckSummary(w io.Writer, files, stale int) {
	if stale == 0 {
		fmt.Fprintf(w, "%d files up to date\n", files)
		return
	}
	fmt.Fprintf(w, "%d of %d files out of date\n", stale, files)
}

// DiffLines prints a line diff with -/+ markers.
func DiffLines(w io.Writer, lines []diff.Line) {
	for _, l := range lines {
		switch l.Op {
		case diff.Delete:
			fmt.Fprintln(w, errStyle.Render("- "+l.Text))
		case diff.Insert:
			fmt.Fprintln(w, genStyle.Render("+ "+l.Text))
		default:
			fmt.Fprintln(w, okStyle.Render("  "+l.Text))
		}
	}
}

func ListRow(w io.Writer, id int64, file, name string, tags []string, idWidth, fileWidth, nameWidth int) {
	ref := fmt.Sprintf("#%d", id)
	fmt.Fprintf(w, "%s  %-*s  %-*s  %s\n",
		idStyle.Render(fmt.Sprintf("%-*s", idWidth, ref)),
		fileWidth, file,
		nameWidth, name,
		Tags(tags),
	)
}

// Tags renders tags with their @ prefix.
func Tags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return tagStyle.Render("@" + strings.Join(tags, " @"))
}

func TagRow(w io.Writer, tag string, cases, width int) {
	fmt.Fprintf(w, "%s  %d\n", tagStyle.Render(fmt.Sprintf("@%-*s", width, tag)), cases)
}

func ShowHeader(w io.Writer, id int64, name, feature string) {
	fmt.Fprintf(w, "%s  %s\n", idStyle.Render(fmt.Sprintf("#%d", id)), headerStyle.Render(name))
	fmt.Fprintf(w, "feature: %s\n", feature)
}

func ShowField(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "%s: %s\n", label, value)
}

// ShowSteps prints resolved steps in Gherkin form.
func ShowSteps(w io.Writer, steps []model.Step) {
	for _, s := range steps {
		fmt.Fprintf(w, "    %s %s\n", keywordStyle.Render(s.Keyword), s.Text)
		if s.DocString != nil {
			fmt.Fprintln(w, `      """`+s.DocString.MediaType)
			for _, l := range strings.Split(s.DocString.Content, "\n") {
				fmt.Fprintln(w, "      "+l)
			}
			fmt.Fprintln(w, `      """`)
		}
		if s.Table != nil {
			for _, row := range s.Table.Rows {
				fmt.Fprintln(w, "      | "+strings.Join(row, " | ")+" |")
			}
		}
	}
}
