package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"phpcsutils/internal/application/dto"
	"phpcsutils/internal/domain/errors/domain"
	"phpcsutils/internal/domain/structure"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleReport() *dto.UnitReport {
	return &dto.UnitReport{
		Path:        "sample.php",
		UnitID:      uuid.MustParse("6f1c1e52-8a3c-4d57-9d5e-2b1b6e4f0a11"),
		HostVersion: "3.5.2",
		Tokens:      24,
		ActiveRules: []string{"fn-keyword-as-identifier"},
		Brackets: []dto.BracketFact{
			{
				Position: dto.Position{Index: 2, Line: 2, Column: 1},
				Kind:     "T_OPEN_SHORT_ARRAY",
				Close:    7,
				Role:     structure.RoleDestructuringPattern,
				Items:    2,
			},
		},
		Arrows: []dto.ArrowFact{
			{
				Position: dto.Position{Index: 12, Line: 3, Column: 6},
				Function: structure.ArrowFunction{
					Header: 12, ParenOpen: 13, ParenClose: 15, Marker: 17,
					BodyStart: 19, BodyEnd: 23, Terminator: 24,
				},
				Body:       "$x * 2",
				Parameters: []string{"$x"},
			},
		},
		Owners: []dto.OwnerFact{
			{Position: dto.Position{Index: 13, Line: 3, Column: 8}, Close: 15, Owner: 12, OwnerKind: "T_FN"},
			{Position: dto.Position{Index: 30, Line: 4, Column: 1}, Close: 32, Owner: -1},
		},
		References: []dto.ReferenceFact{
			{Position: dto.Position{Index: 40, Line: 5, Column: 9}, IsReference: true},
		},
		Memo: structure.Stats{Entries: 10, Hits: 3, Misses: 10},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{name: "text", want: FormatText},
		{name: "JSON", want: FormatJSON},
		{name: " yaml ", want: FormatYAML},
		{name: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriter_JSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewWriter(&out, FormatJSON).WriteReports([]*dto.UnitReport{sampleReport()}))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 1)

	r := decoded[0]
	assert.Equal(t, "sample.php", r["path"])
	assert.Equal(t, "6f1c1e52-8a3c-4d57-9d5e-2b1b6e4f0a11", r["unit_id"])

	brackets := r["brackets"].([]any)
	bracket := brackets[0].(map[string]any)
	assert.Equal(t, "destructuring_pattern", bracket["role"])
	assert.EqualValues(t, 2, bracket["line"], "positions are flattened")

	arrow := r["arrows"].([]any)[0].(map[string]any)
	assert.EqualValues(t, 23, arrow["function"].(map[string]any)["body_end"])
}

func TestWriter_YAML(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewWriter(&out, FormatYAML).WriteReports([]*dto.UnitReport{sampleReport()}))

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 1)

	bracket := decoded[0]["brackets"].([]any)[0].(map[string]any)
	assert.Equal(t, "destructuring_pattern", bracket["role"])
	assert.Equal(t, 2, bracket["line"])

	owner := decoded[0]["owners"].([]any)[1].(map[string]any)
	assert.Equal(t, -1, owner["owner"])
	assert.NotContains(t, owner, "owner_kind")
}

func TestWriter_Text(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewWriter(&out, FormatText).WriteReports([]*dto.UnitReport{sampleReport(), sampleReport()}))
	text := out.String()

	for _, want := range []string{
		"sample.php",
		"host 3.5.2  tokens 24  cached no",
		"compensation: fn-keyword-as-identifier",
		"Brackets",
		"destructuring_pattern",
		"Arrow functions",
		"$x * 2",
		"Parentheses",
		"T_FN",
		"Ampersands",
		"reference",
		"memo: 10 entries, 3 hits, 10 misses",
	} {
		assert.Contains(t, text, want)
	}
	assert.Equal(t, 2, strings.Count(text, "Brackets"))
}

func TestWriter_TextTruncatesLongBodies(t *testing.T) {
	r := sampleReport()
	r.Arrows[0].Body = strings.Repeat("$a + ", 30) + "$a"

	var out bytes.Buffer
	require.NoError(t, NewWriter(&out, FormatText).WriteReports([]*dto.UnitReport{r}))
	assert.Contains(t, out.String(), "...")
	assert.NotContains(t, out.String(), r.Arrows[0].Body)
}

func TestWriter_Rules(t *testing.T) {
	rules := []dto.RuleView{
		{ID: "fn-keyword-as-identifier", Component: "arrow_header", Versions: "<3.5.3", Outcome: "arrow_header", Active: true},
		{ID: "short-list-after-foreach-as", Component: "bracket_role", Versions: "<3.3.0", Outcome: "destructuring_pattern"},
	}

	var text bytes.Buffer
	require.NoError(t, NewWriter(&text, FormatText).WriteRules(rules))
	lines := strings.Split(strings.TrimSpace(text.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "COMPONENT")
	assert.True(t, strings.HasPrefix(lines[1], "fn-keyword-as-identifier"))
	assert.True(t, strings.HasSuffix(lines[1], "yes"))
	assert.True(t, strings.HasSuffix(lines[2], "no"))

	var js bytes.Buffer
	require.NoError(t, NewWriter(&js, FormatJSON).WriteRules(rules))
	var decoded []dto.RuleView
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, rules, decoded)
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{in: "short", width: 10, want: "short"},
		{in: "a\nb\tc", width: 20, want: "a b    c"},
		{in: "abcdefghij", width: 6, want: "abc..."},
		{in: "abcdefghij", width: 2, want: "ab"},
		{in: "abc", width: 0, want: ""},
		{in: "日本語のテキスト", width: 7, want: "日本..."},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, truncateText(tt.in, tt.width))
		})
	}
}
