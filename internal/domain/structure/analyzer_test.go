package structure

import (
	"errors"
	"sync"
	"testing"

	"phpcsutils/internal/adapter/outbound/lexer"
	"phpcsutils/internal/domain/compensation"
	"phpcsutils/internal/domain/errors/domain"
	"phpcsutils/internal/domain/token"
	"phpcsutils/internal/domain/valueobject"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzer_Memo(t *testing.T) {
	a := analyze("<?php [$a, $b] = $c; $d = [1, 2];")
	s := a.Stream()

	assert.Equal(t, Stats{}, a.Stats())

	open := first(t, s, "[")
	role := a.Classify(open)
	stats := a.Stats()
	assert.Positive(t, stats.Misses)
	assert.Positive(t, stats.Entries)

	assert.Equal(t, role, a.Classify(open))
	assert.Equal(t, stats.Hits+1, a.Stats().Hits)
	assert.Equal(t, stats.Misses, a.Stats().Misses)
}

func TestAnalyzer_ConcurrentQueries(t *testing.T) {
	src := `<?php
[$a, [$b, $c]] = array_map(fn($x) => [$x, $x * 2], $d);
foreach ($e as $k => &$v) { $f = [$k, &$v]; }
list($g, list(, $h)) = $i;`
	stream := lexer.MustStream(src)

	serial := New(stream)
	want := make(map[int]Role)
	for i := 0; i < stream.Len(); i++ {
		want[i] = serial.Classify(i)
	}

	shared := New(stream)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for j := 0; j < stream.Len(); j++ {
				i := (j + offset*7) % stream.Len()
				assert.Equal(t, want[i], shared.Classify(i))
				shared.IsReference(i)
				if shared.IsArrowHeader(i) {
					_, _ = shared.FindBodyEnd(i)
				}
				if stream.Type(i) == token.OpenParenthesis {
					_, _ = shared.ResolveOwner(i)
				}
			}
		}(g)
	}
	wg.Wait()

	assert.Positive(t, shared.Stats().Hits)
}

func TestAnalyzer_HostVersion(t *testing.T) {
	s := lexer.MustStream("<?php $a = [1];")

	modern := New(s)
	assert.True(t, modern.HostVersion().IsZero())
	assert.Empty(t, modern.ActiveRules())

	legacy := New(s, WithHostVersion(valueobject.MustHostVersion("3.5.0")))
	assert.Equal(t, "3.5.0", legacy.HostVersion().String())
	rules := legacy.ActiveRules()
	require.NotEmpty(t, rules)

	rules[0].ID = "mutated"
	assert.NotEqual(t, "mutated", legacy.ActiveRules()[0].ID)
}

func TestAnalyzer_WithRules(t *testing.T) {
	table, err := compensation.Parse([]byte(`
rules:
  - id: everything-is-a-list
    component: bracket_role
    versions: ">=1.0.0"
    match:
      token: [T_OPEN_SHORT_ARRAY]
    outcome: destructuring_pattern
`))
	require.NoError(t, err)

	s := lexer.MustStream("<?php $a = [1];")
	open := first(t, s, "[")

	a := New(s, WithRules(table), WithHostVersion(valueobject.MustHostVersion("4.0.0")))
	assert.Equal(t, RoleDestructuringPattern, a.Classify(open))
	assert.Equal(t, RoleCollectionLiteral, New(s, WithRules(nil)).Classify(open))
}

func TestError(t *testing.T) {
	err := invalidArgument("call_arguments", 7, "%s cannot take arguments", token.Echo)

	assert.Equal(t, "call_arguments at token 7: invalid argument: T_ECHO cannot take arguments", err.Error())
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	var serr *Error
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 7, serr.Index)
}
