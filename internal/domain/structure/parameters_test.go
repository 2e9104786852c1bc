package structure

import (
	"testing"

	"phpcsutils/internal/domain/errors/domain"
	"phpcsutils/internal/domain/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzer_DeclaredParameters_Function(t *testing.T) {
	a := analyze("<?php function f(#[A] public readonly ?Foo $a = null, int &...$rest) {}")
	s := a.Stream()

	params, err := a.DeclaredParameters(first(t, s, "function"))
	require.NoError(t, err)
	require.Len(t, params, 2)

	promoted := params[0]
	assert.Equal(t, "$a", promoted.Name)
	assert.Equal(t, first(t, s, "$a"), promoted.NameIndex)
	assert.True(t, promoted.HasAttributes)
	assert.Equal(t, "public", promoted.Visibility)
	assert.Equal(t, first(t, s, "public"), promoted.VisibilityIndex)
	assert.True(t, promoted.Readonly)
	assert.Equal(t, "?Foo", promoted.TypeHint)
	assert.True(t, promoted.Nullable)
	assert.Equal(t, first(t, s, "?"), promoted.TypeHintStart)
	assert.Equal(t, first(t, s, "Foo"), promoted.TypeHintEnd)
	assert.Equal(t, "null", promoted.Default)
	assert.Equal(t, first(t, s, "="), promoted.EqualIndex)
	assert.Equal(t, first(t, s, "null"), promoted.DefaultIndex)
	assert.False(t, promoted.ByReference)
	assert.Equal(t, token.NoPos, promoted.ReferenceIndex)
	assert.Equal(t, "#[A] public readonly ?Foo $a = null", promoted.Content)

	rest := params[1]
	assert.Equal(t, "$rest", rest.Name)
	assert.Equal(t, "int", rest.TypeHint)
	assert.False(t, rest.Nullable)
	assert.True(t, rest.ByReference)
	assert.Equal(t, first(t, s, "&"), rest.ReferenceIndex)
	assert.True(t, rest.Variadic)
	assert.Equal(t, first(t, s, "..."), rest.VariadicIndex)
	assert.Empty(t, rest.Default)
	assert.Equal(t, token.NoPos, rest.DefaultIndex)
	assert.Empty(t, rest.Visibility)
}

func TestAnalyzer_DeclaredParameters_Headers(t *testing.T) {
	tests := []struct {
		name   string
		source string
		at     string
		n      int
		names  []string
		hints  []string
	}{
		{name: "named function", source: "<?php function f($a, $b) {}", at: "function", names: []string{"$a", "$b"}, hints: []string{"", ""}},
		{name: "function returning by reference", source: "<?php function &f(array $a) {}", at: "function", names: []string{"$a"}, hints: []string{"array"}},
		{name: "closure", source: "<?php $f = function (self $a, $b = [1, 2]) {};", at: "function", names: []string{"$a", "$b"}, hints: []string{"self", ""}},
		{name: "closure use clause", source: "<?php $f = function ($a) use ($b, &$c) {};", at: "use", names: []string{"$b", "$c"}, hints: []string{"", ""}},
		{name: "arrow function", source: "<?php $f = fn(int|string $x) => $x;", at: "fn", names: []string{"$x"}, hints: []string{"int|string"}},
		{name: "intersection type", source: "<?php function f(A&B $x) {}", at: "function", names: []string{"$x"}, hints: []string{"A&B"}},
		{name: "qualified type", source: "<?php function f(\\Foo\\Bar $x) {}", at: "function", names: []string{"$x"}, hints: []string{"\\Foo\\Bar"}},
		{name: "no parameters", source: "<?php function f() {}", at: "function"},
		{name: "trailing comma", source: "<?php function f($a,) {}", at: "function", names: []string{"$a"}, hints: []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := analyze(tt.source)
			params, err := a.DeclaredParameters(nth(t, a.Stream(), tt.at, tt.n))
			require.NoError(t, err)
			require.Len(t, params, len(tt.names))
			for i, p := range params {
				assert.Equal(t, tt.names[i], p.Name)
				assert.Equal(t, tt.hints[i], p.TypeHint)
			}
		})
	}
}

func TestAnalyzer_DeclaredParameters_LegacyArrowFunction(t *testing.T) {
	a := analyzeLegacy("<?php $f = fn(?int $x = 1) => $x;", "3.5.2")
	params, err := a.DeclaredParameters(first(t, a.Stream(), "fn"))
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "?int", params[0].TypeHint)
	assert.True(t, params[0].Nullable)
	assert.Equal(t, "1", params[0].Default)
}

func TestAnalyzer_DeclaredParameters_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		source string
		at     string
	}{
		{name: "function call", source: "<?php f($a);", at: "f"},
		{name: "namespace import", source: "<?php use Foo\\Bar;", at: "use"},
		{name: "trait import", source: "<?php class C { use T; }", at: "use"},
		{name: "unclosed parameter list", source: "<?php function f($a", at: "function"},
		{name: "truncated declaration", source: "<?php function;", at: "function"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := analyze(tt.source)
			_, err := a.DeclaredParameters(first(t, a.Stream(), tt.at))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)

			var serr *Error
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, "declared_parameters", serr.Op)
		})
	}
}

func TestAnalyzer_DeclaredParameters_ReturnsCopy(t *testing.T) {
	a := analyze("<?php function f(int $a) {}")
	fn := first(t, a.Stream(), "function")

	params, err := a.DeclaredParameters(fn)
	require.NoError(t, err)
	require.Len(t, params, 1)
	params[0].Name = "$changed"

	again, err := a.DeclaredParameters(fn)
	require.NoError(t, err)
	assert.Equal(t, "$a", again[0].Name)
}
