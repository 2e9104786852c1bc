package structure

import (
	"testing"

	"phpcsutils/internal/adapter/outbound/lexer"
	"phpcsutils/internal/domain/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzer_FindEnclosing(t *testing.T) {
	a := analyze("<?php if ( isset( $t ) ) {}")
	s := a.Stream()
	target := first(t, s, "$t")
	outer := first(t, s, "(")
	inner := nth(t, s, "(", 1)

	ifOnly := token.NewSet(token.If)
	both := token.NewSet(token.If, token.Isset)

	tests := []struct {
		name   string
		kinds  token.Set
		order  SearchOrder
		limit  int
		want   int
		wantOK bool
	}{
		{name: "outermost finds the recognised owner", kinds: ifOnly, order: Outermost, want: outer, wantOK: true},
		{name: "innermost limited to one level misses it", kinds: ifOnly, order: Innermost, limit: 1},
		{name: "innermost unlimited walks outward", kinds: ifOnly, order: Innermost, want: outer, wantOK: true},
		{name: "innermost prefers the closest match", kinds: both, order: Innermost, want: inner, wantOK: true},
		{name: "outermost prefers the furthest match", kinds: both, order: Outermost, want: outer, wantOK: true},
		{name: "outermost limited to one level", kinds: token.NewSet(token.Isset), order: Outermost, limit: 1},
		{name: "no owner of the wanted kind", kinds: token.NewSet(token.Foreach), order: Innermost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := a.FindEnclosing(target, tt.kinds, tt.order, tt.limit)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}

	t.Run("token outside any parentheses", func(t *testing.T) {
		_, ok := a.FindEnclosing(first(t, s, "{"), both, Innermost, 0)
		assert.False(t, ok)
	})

	t.Run("parentheses do not enclose themselves", func(t *testing.T) {
		got, ok := a.FindEnclosing(inner, both, Innermost, 0)
		require.True(t, ok)
		assert.Equal(t, outer, got)
	})

	t.Run("owner shortcuts", func(t *testing.T) {
		owner, ok := a.LastOwnerIn(target, token.NewSet(token.Isset))
		require.True(t, ok)
		assert.Equal(t, first(t, s, "isset"), owner)

		_, ok = a.LastOwnerIn(target, ifOnly)
		assert.False(t, ok)

		owner, ok = a.FirstOwnerIn(target, ifOnly)
		require.True(t, ok)
		assert.Equal(t, first(t, s, "if"), owner)
	})
}

func TestAnalyzer_ResolveOwner(t *testing.T) {
	tests := []struct {
		name   string
		source string
		paren  int // occurrence of "(" or ")"
		closer bool
		owner  string
		wantOK bool
		kind   token.Type
	}{
		{name: "linked keyword", source: "<?php while ($a) {}", owner: "while", wantOK: true, kind: token.While},
		{name: "closer", source: "<?php while ($a) {}", closer: true, owner: "while", wantOK: true, kind: token.While},
		{name: "list", source: "<?php list($a) = $b;", owner: "list", wantOK: true, kind: token.List},
		{name: "anonymous class", source: "<?php new class($a) {};", owner: "class", wantOK: true, kind: token.AnonClass},
		{name: "arrow function", source: "<?php $f = fn($x) => $x;", owner: "fn", wantOK: true, kind: token.Fn},
		{name: "arrow function by reference", source: "<?php $f = fn &($x) => $x;", owner: "fn", wantOK: true, kind: token.Fn},
		{name: "closure use", source: "<?php function () use ($a) {};", paren: 1, owner: "use", wantOK: true, kind: token.Use},
		{name: "function call", source: "<?php f($a);"},
		{name: "grouping", source: "<?php $a = ($b + 1) * 2;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := analyze(tt.source)
			s := a.Stream()
			glyph := "("
			if tt.closer {
				glyph = ")"
			}
			idx := nth(t, s, glyph, tt.paren)

			owner, ok := a.ResolveOwner(idx)
			assert.Equal(t, tt.wantOK, ok)
			kind, kindOK := a.OwnerKind(idx)
			assert.Equal(t, tt.wantOK, kindOK)
			if tt.wantOK {
				assert.Equal(t, first(t, s, tt.owner), owner)
				assert.Equal(t, tt.kind, kind)
			}
		})
	}
}

func TestAnalyzer_ResolveOwner_NotParenthesis(t *testing.T) {
	a := analyze("<?php f($a);")
	_, ok := a.ResolveOwner(first(t, a.Stream(), "$a"))
	assert.False(t, ok)
	_, ok = a.ResolveOwner(-1)
	assert.False(t, ok)
}

func TestAnalyzer_ResolveOwner_LegacyArrowFunction(t *testing.T) {
	src := "<?php $f = fn($x) => $x; $g = fn &($y) => $y;"
	legacy := lexer.MustStreamFor(src, "3.5.2")
	paren := first(t, legacy, "(")
	byRef := nth(t, legacy, "(", 1)

	_, ok := New(legacy).ResolveOwner(paren)
	assert.False(t, ok, "no owner without a host version")

	a := analyzeLegacy(src, "3.5.2")
	owner, ok := a.ResolveOwner(paren)
	require.True(t, ok)
	assert.Equal(t, first(t, legacy, "fn"), owner)
	kind, ok := a.OwnerKind(paren)
	require.True(t, ok)
	assert.Equal(t, token.Fn, kind)

	owner, ok = a.ResolveOwner(byRef)
	require.True(t, ok)
	assert.Equal(t, nth(t, legacy, "fn", 1), owner)
}

func TestAnalyzer_UnlinkedStream(t *testing.T) {
	s := unlinked(lexer.MustStream("<?php list( $a, list( $b ) ) = $c;"))
	a := New(s)

	got, ok := a.FindEnclosing(first(t, s, "$b"), token.NewSet(token.List), Outermost, 0)
	require.True(t, ok)
	assert.Equal(t, first(t, s, "("), got)

	got, ok = a.FindEnclosing(first(t, s, "$b"), token.NewSet(token.List), Innermost, 0)
	require.True(t, ok)
	assert.Equal(t, nth(t, s, "(", 1), got)

	items, err := a.Segment(first(t, s, "("), nth(t, s, ")", 1))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[1].IsNestedList)
}
