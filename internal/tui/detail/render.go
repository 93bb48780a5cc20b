package detail

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/taskdeck/internal/listview"
)

// Field is one labelled value.
type Field struct {
	Name  string
	Label string
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	emptyValue = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true).Render("(none)")
)

// Render writes title, then every field of rec: the listed fields first in
// order, then the remaining record fields alphabetically. Long values wrap
// at width.
func Render(title string, rec listview.Record, fields []Field, width int) string {
	ordered := slices.Clone(fields)
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		seen[f.Name] = true
	}
	var rest []string
	for name := range rec {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	for _, name := range rest {
		ordered = append(ordered, Field{Name: name, Label: name})
	}

	labelWidth := 0
	for _, f := range ordered {
		labelWidth = max(labelWidth, len(f.Label))
	}
	valueWidth := max(width-labelWidth-4, 20)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")
	for _, f := range ordered {
		value := rec.String(f.Name)
		if value == "" {
			value = emptyValue
		} else {
			value = lipgloss.NewStyle().Width(valueWidth).Render(value)
		}
		label := labelStyle.Render(f.Label + strings.Repeat(" ", labelWidth-len(f.Label)))
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, "  ", label, "  ", value))
		sb.WriteByte('\n')
	}
	return sb.String()
}
