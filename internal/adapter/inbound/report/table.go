package report

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// maxCellWidth bounds free-text cells such as arrow function bodies.
const maxCellWidth = 48

func truncateText(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", "    ")

	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// table renders rows as left aligned columns separated by two spaces.
type table struct {
	header []string
	rows   [][]string
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render(headerStyle lipgloss.Style, indent string) string {
	widths := make([]int, len(t.header))
	for i, h := range t.header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); i < len(widths) && w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	line := func(cells []string, style *lipgloss.Style) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			if i < len(cells)-1 {
				cell = padRight(cell, widths[i])
			}
			if style != nil {
				cell = style.Render(cell)
			}
			parts[i] = cell
		}
		b.WriteString(indent)
		b.WriteString(strings.TrimRight(strings.Join(parts, "  "), " "))
		b.WriteByte('\n')
	}

	line(t.header, &headerStyle)
	for _, row := range t.rows {
		line(row, nil)
	}
	return b.String()
}
