package structure

import (
	"testing"

	"phpcsutils/internal/adapter/outbound/lexer"
	"phpcsutils/internal/domain/token"
	"phpcsutils/internal/domain/valueobject"

	"github.com/stretchr/testify/require"
)

// nth returns the index of the n-th (zero based) token with the given content.
func nth(t *testing.T, s *token.Stream, content string, n int) int {
	t.Helper()
	for i := 0; i < s.Len(); i++ {
		if s.Content(i) == content {
			if n == 0 {
				return i
			}
			n--
		}
	}
	require.Failf(t, "token not found", "content %q", content)
	return token.NoPos
}

func first(t *testing.T, s *token.Stream, content string) int {
	t.Helper()
	return nth(t, s, content, 0)
}

func analyze(source string) *Analyzer {
	return New(lexer.MustStream(source))
}

func analyzeLegacy(source, version string) *Analyzer {
	return New(lexer.MustStreamFor(source, version), WithHostVersion(valueobject.MustHostVersion(version)))
}

// retyped rebuilds s with the tokens at the given indices retagged, keeping every link.
func retyped(s *token.Stream, types map[int]token.Type) *token.Stream {
	toks := make([]token.Token, s.Len())
	for i := range toks {
		toks[i] = s.At(i)
		if typ, ok := types[i]; ok {
			toks[i].Type = typ
		}
	}
	return token.NewStream(toks)
}

// unlinked rebuilds s without any pre-resolved link.
func unlinked(s *token.Stream) *token.Stream {
	toks := make([]token.Token, s.Len())
	for i := range toks {
		tok := s.At(i)
		toks[i] = token.NewToken(tok.Type, tok.Content, tok.Line, tok.Column)
	}
	return token.NewStream(toks)
}
