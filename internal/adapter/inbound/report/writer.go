// Package report renders analysis reports and compensation rule listings for the CLI.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"phpcsutils/internal/application/dto"
	"phpcsutils/internal/domain/errors/domain"
	"phpcsutils/internal/domain/structure"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Format is an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML}
}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown output format %q", domain.ErrInvalidArgument, name)
}

type styles struct {
	title  lipgloss.Style
	header lipgloss.Style
	muted  lipgloss.Style
	roles  map[structure.Role]lipgloss.Style
	active lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:  r.NewStyle().Bold(true),
		header: r.NewStyle().Bold(true).Underline(true),
		muted:  r.NewStyle().Faint(true),
		roles: map[structure.Role]lipgloss.Style{
			structure.RoleCollectionLiteral:    r.NewStyle().Foreground(lipgloss.Color("#A3BE8C")),
			structure.RoleDestructuringPattern: r.NewStyle().Foreground(lipgloss.Color("#EBCB8B")),
			structure.RolePlainGrouping:        r.NewStyle().Foreground(lipgloss.Color("#81A1C1")),
			structure.RoleNotApplicable:        r.NewStyle().Faint(true),
		},
		active: r.NewStyle().Foreground(lipgloss.Color("#A3BE8C")).Bold(true),
	}
}

// Writer renders reports in one format.
type Writer struct {
	out    io.Writer
	format Format
	styles styles
}

// NewWriter creates a Writer. Text output is styled only when out is a terminal.
func NewWriter(out io.Writer, format Format) *Writer {
	return &Writer{
		out:    out,
		format: format,
		styles: newStyles(lipgloss.NewRenderer(out)),
	}
}

// WriteReports renders the reports of several units.
func (w *Writer) WriteReports(reports []*dto.UnitReport) error {
	switch w.format {
	case FormatJSON:
		return w.writeJSON(reports)
	case FormatYAML:
		return w.writeYAML(reports)
	default:
		for i, r := range reports {
			if i > 0 {
				if _, err := io.WriteString(w.out, "\n"); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w.out, w.renderReport(r)); err != nil {
				return err
			}
		}
		return nil
	}
}

// WriteRules renders a compensation rule listing.
func (w *Writer) WriteRules(rules []dto.RuleView) error {
	switch w.format {
	case FormatJSON:
		return w.writeJSON(rules)
	case FormatYAML:
		return w.writeYAML(rules)
	default:
		_, err := io.WriteString(w.out, w.renderRules(rules))
		return err
	}
}

func (w *Writer) writeJSON(v any) error {
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (w *Writer) writeYAML(v any) error {
	enc := yaml.NewEncoder(w.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func at(p dto.Position) string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

func index(i int) string {
	if i < 0 {
		return "-"
	}
	return strconv.Itoa(i)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (w *Writer) renderReport(r *dto.UnitReport) string {
	st := w.styles
	var b strings.Builder

	host := r.HostVersion
	if host == "" {
		host = "current"
	}
	fmt.Fprintf(&b, "%s  %s\n", st.title.Render(r.Path), st.muted.Render(r.UnitID.String()))
	fmt.Fprintf(&b, "host %s  tokens %d  cached %s\n", host, r.Tokens, yesNo(r.Cached))
	if len(r.ActiveRules) == 0 {
		b.WriteString("compensation: none\n")
	} else {
		fmt.Fprintf(&b, "compensation: %s\n", strings.Join(r.ActiveRules, ", "))
	}

	if len(r.Brackets) > 0 {
		t := table{header: []string{"AT", "TOKEN", "KIND", "CLOSE", "ROLE", "ITEMS"}}
		for _, f := range r.Brackets {
			role := st.roles[f.Role].Render(f.Role.String())
			t.add(at(f.Position), index(f.Index), f.Kind, index(f.Close), role, strconv.Itoa(f.Items))
		}
		b.WriteString("\n" + st.title.Render("Brackets") + "\n")
		b.WriteString(t.render(st.header, "  "))
	}

	if len(r.Arrows) > 0 {
		t := table{header: []string{"AT", "HEADER", "BODY END", "TERMINATOR", "PARAMS", "BODY"}}
		for _, f := range r.Arrows {
			t.add(
				at(f.Position),
				index(f.Function.Header),
				index(f.Function.BodyEnd),
				index(f.Function.Terminator),
				strings.Join(f.Parameters, ","),
				truncateText(f.Body, maxCellWidth),
			)
		}
		b.WriteString("\n" + st.title.Render("Arrow functions") + "\n")
		b.WriteString(t.render(st.header, "  "))
	}

	if len(r.Owners) > 0 {
		t := table{header: []string{"AT", "OPEN", "CLOSE", "OWNER", "KIND"}}
		for _, f := range r.Owners {
			kind := f.OwnerKind
			if kind == "" {
				kind = st.muted.Render("-")
			}
			t.add(at(f.Position), index(f.Index), index(f.Close), index(f.Owner), kind)
		}
		b.WriteString("\n" + st.title.Render("Parentheses") + "\n")
		b.WriteString(t.render(st.header, "  "))
	}

	if len(r.References) > 0 {
		t := table{header: []string{"AT", "TOKEN", "MEANING"}}
		for _, f := range r.References {
			meaning := "bitwise and"
			if f.IsReference {
				meaning = "reference"
			}
			t.add(at(f.Position), index(f.Index), meaning)
		}
		b.WriteString("\n" + st.title.Render("Ampersands") + "\n")
		b.WriteString(t.render(st.header, "  "))
	}

	fmt.Fprintf(&b, "\n%s\n", st.muted.Render(fmt.Sprintf(
		"memo: %d entries, %d hits, %d misses", r.Memo.Entries, r.Memo.Hits, r.Memo.Misses)))
	return b.String()
}

func (w *Writer) renderRules(rules []dto.RuleView) string {
	st := w.styles
	t := table{header: []string{"ID", "COMPONENT", "VERSIONS", "OUTCOME", "ACTIVE"}}
	for _, r := range rules {
		active := st.muted.Render("no")
		if r.Active {
			active = st.active.Render("yes")
		}
		t.add(r.ID, r.Component, r.Versions, r.Outcome, active)
	}
	return t.render(st.header, "")
}
