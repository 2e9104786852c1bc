package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeByName(t *testing.T) {
	tests := []struct {
		name   string
		want   Type
		wantOK bool
	}{
		{name: "T_OPEN_SHORT_ARRAY", want: OpenShortArray, wantOK: true},
		{name: "open_short_array", want: OpenShortArray, wantOK: true},
		{name: " T_FN ", want: Fn, wantOK: true},
		{name: "T_INVALID"},
		{name: "T_NOT_A_TOKEN"},
		{name: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TypeByName(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestType_String(t *testing.T) {
	assert.Equal(t, "T_BITWISE_AND", BitwiseAnd.String())
	assert.Equal(t, "T_INVALID", Type(250).String())

	for typ := Invalid + 1; typ < typeCount; typ++ {
		got, ok := TypeByName(typ.String())
		assert.True(t, ok, typ.String())
		assert.Equal(t, typ, got)
	}
}

func TestType_IsKeyword(t *testing.T) {
	assert.True(t, Fn.IsKeyword())
	assert.True(t, List.IsKeyword())
	assert.True(t, LogicalAnd.IsKeyword())
	assert.False(t, String.IsKeyword())
	assert.False(t, Variable.IsKeyword())
	assert.False(t, OpenParenthesis.IsKeyword())
}

func TestSet(t *testing.T) {
	base := NewSet(Comma, Semicolon)
	extended := base.With(Colon)

	assert.True(t, base.Has(Comma))
	assert.False(t, base.Has(Colon), "With leaves the receiver untouched")
	assert.True(t, extended.Has(Colon))
	assert.ElementsMatch(t, []Type{Comma, Semicolon, Colon}, extended.Types())

	union := Trivia.Union(Assignments)
	assert.True(t, union.Has(Comment))
	assert.True(t, union.Has(CoalesceEqual))
	assert.False(t, Trivia.Has(CoalesceEqual))
	assert.Empty(t, Set{}.Types())
}
