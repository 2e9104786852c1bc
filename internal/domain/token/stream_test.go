package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample builds "( $a /* c */ )" with the parenthesis pair linked.
func sample() *Stream {
	toks := []Token{
		NewToken(OpenParenthesis, "(", 1, 1),
		NewToken(Whitespace, " ", 1, 2),
		NewToken(Variable, "$a", 1, 3),
		NewToken(Whitespace, " ", 1, 5),
		NewToken(Comment, "/* c */", 1, 6),
		NewToken(Whitespace, " ", 1, 13),
		NewToken(CloseParenthesis, ")", 1, 14),
	}
	toks[0].Links.ParenthesisCloser = 6
	toks[6].Links.ParenthesisOpener = 0
	return NewStream(toks)
}

func TestNewStream(t *testing.T) {
	toks := []Token{NewToken(Variable, "$a", 1, 1), NewToken(Semicolon, ";", 1, 3)}
	s := NewStream(toks)

	require.Equal(t, 2, s.Len())
	assert.Equal(t, 1, s.At(1).Index)
	assert.Equal(t, NoPos, toks[1].Index, "input is copied")

	toks[0].Content = "$changed"
	assert.Equal(t, "$a", s.Content(0))

	assert.NotEqual(t, s.ID(), NewStream(toks).ID(), "every stream has its own identity")
}

func TestStream_OutOfRange(t *testing.T) {
	s := sample()

	for _, i := range []int{-1, s.Len(), 100} {
		assert.False(t, s.Valid(i))
		assert.Equal(t, Invalid, s.Type(i))
		assert.Empty(t, s.Content(i))
		assert.Equal(t, NoPos, s.Links(i).ParenthesisOwner)
		assert.Equal(t, Invalid, s.At(i).Type)
	}
}

func TestStream_NonTrivia(t *testing.T) {
	s := sample()

	tests := []struct {
		name string
		got  int
		want int
	}{
		{name: "next from opener", got: s.NextNonTrivia(1, -1), want: 2},
		{name: "next skips comment", got: s.NextNonTrivia(3, -1), want: 6},
		{name: "next stops at exclusive limit", got: s.NextNonTrivia(3, 6), want: NoPos},
		{name: "next past the end", got: s.NextNonTrivia(7, -1), want: NoPos},
		{name: "prev is inclusive", got: s.PrevNonTrivia(2, 0), want: 2},
		{name: "prev skips comment", got: s.PrevNonTrivia(5, 0), want: 2},
		{name: "prev stops at inclusive limit", got: s.PrevNonTrivia(5, 3), want: NoPos},
		{name: "prev clamps from", got: s.PrevNonTrivia(99, -1), want: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestStream_Find(t *testing.T) {
	s := sample()
	closers := NewSet(CloseParenthesis)

	assert.Equal(t, 6, s.FindNext(closers, 0, -1, false))
	assert.Equal(t, 0, s.FindNext(closers, 0, -1, true))
	assert.Equal(t, NoPos, s.FindNext(closers, 0, 6, false))
	assert.Equal(t, 4, s.FindPrev(NewSet(Comment), 6, 0, false))
	assert.Equal(t, NoPos, s.FindPrev(NewSet(Comment), 3, 0, false))
}

func TestStream_Links(t *testing.T) {
	s := sample()

	closer, ok := s.Closer(0)
	require.True(t, ok)
	assert.Equal(t, 6, closer)

	opener, ok := s.Opener(6)
	require.True(t, ok)
	assert.Equal(t, 0, opener)

	_, ok = s.Closer(2)
	assert.False(t, ok)
	_, ok = s.Opener(0)
	assert.False(t, ok)
	_, ok = s.Closer(-1)
	assert.False(t, ok)
}

func TestStream_ScopeCloser(t *testing.T) {
	toks := []Token{
		NewToken(If, "if", 1, 1),
		NewToken(OpenCurlyBracket, "{", 1, 3),
		NewToken(CloseCurlyBracket, "}", 1, 4),
	}
	for i := range toks {
		toks[i].Links.ScopeCondition = 0
		toks[i].Links.ScopeOpener = 1
		toks[i].Links.ScopeCloser = 2
	}
	toks[1].Links.BracketCloser = 2
	toks[2].Links.BracketOpener = 1
	s := NewStream(toks)

	closer, ok := s.Closer(0)
	require.True(t, ok)
	assert.Equal(t, 2, closer)

	closer, ok = s.Closer(1)
	require.True(t, ok)
	assert.Equal(t, 2, closer)
}

func TestStream_Text(t *testing.T) {
	s := sample()
	assert.Equal(t, "( $a /* c */ )", s.Text(0, s.Len()-1))
	assert.Equal(t, "$a", s.Text(2, 2))
	assert.Equal(t, "( $a /* c */ )", s.Text(-5, 50))
	assert.Empty(t, s.Text(3, 2))
}
