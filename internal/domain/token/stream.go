package token

import (
	"strings"

	"github.com/google/uuid"
)

// Stream is the frozen, ordered token sequence of one analysed unit. A Stream never changes
// after NewStream returns; an edited source produces a new Stream with a new identity.
type Stream struct {
	id     uuid.UUID
	tokens []Token
}

// NewStream freezes tokens into a Stream, assigning each token its index.
func NewStream(tokens []Token) *Stream {
	frozen := make([]Token, len(tokens))
	copy(frozen, tokens)
	for i := range frozen {
		frozen[i].Index = i
	}
	return &Stream{id: uuid.New(), tokens: frozen}
}

// ID returns the identity of the stream.
func (s *Stream) ID() uuid.UUID { return s.id }

// Len returns the number of tokens.
func (s *Stream) Len() int { return len(s.tokens) }

// Valid reports whether i addresses a token.
func (s *Stream) Valid(i int) bool { return i >= 0 && i < len(s.tokens) }

// At returns the token at i, or an Invalid token when i is out of range.
// The returned token shares its NestedParenthesis slice with the stream; treat it as read-only.
func (s *Stream) At(i int) Token {
	if !s.Valid(i) {
		return NewToken(Invalid, "", 0, 0)
	}
	return s.tokens[i]
}

// Type returns the type of the token at i, or Invalid.
func (s *Stream) Type(i int) Type {
	if !s.Valid(i) {
		return Invalid
	}
	return s.tokens[i].Type
}

// Content returns the source text of the token at i.
func (s *Stream) Content(i int) string {
	if !s.Valid(i) {
		return ""
	}
	return s.tokens[i].Content
}

// Links returns the pre-resolved links of the token at i.
func (s *Stream) Links(i int) Links {
	if !s.Valid(i) {
		return UnresolvedLinks()
	}
	return s.tokens[i].Links
}

// NextNonTrivia returns the first non-trivia token at or after from and before limit.
// A negative limit means the end of the stream.
func (s *Stream) NextNonTrivia(from, limit int) int {
	return s.FindNext(Trivia, from, limit, true)
}

// PrevNonTrivia returns the last non-trivia token at or before from and not before limit.
// A negative limit means the start of the stream.
func (s *Stream) PrevNonTrivia(from, limit int) int {
	return s.FindPrev(Trivia, from, limit, true)
}

// FindNext searches forward from from (inclusive) to limit (exclusive) for a token whose type
// is in set, or, with exclude, for the first token whose type is not in set.
func (s *Stream) FindNext(set Set, from, limit int, exclude bool) int {
	if limit < 0 || limit > len(s.tokens) {
		limit = len(s.tokens)
	}
	if from < 0 {
		from = 0
	}
	for i := from; i < limit; i++ {
		if set.Has(s.tokens[i].Type) != exclude {
			return i
		}
	}
	return NoPos
}

// FindPrev searches backward from from (inclusive) down to limit (inclusive).
func (s *Stream) FindPrev(set Set, from, limit int, exclude bool) int {
	if from >= len(s.tokens) {
		from = len(s.tokens) - 1
	}
	if limit < 0 {
		limit = 0
	}
	for i := from; i >= limit; i-- {
		if set.Has(s.tokens[i].Type) != exclude {
			return i
		}
	}
	return NoPos
}

// Closer returns the index closing the region opened at i: a parenthesis, bracket, curly,
// attribute or doc block closer, or the scope closer of a scope-owning keyword.
func (s *Stream) Closer(i int) (int, bool) {
	if !s.Valid(i) {
		return NoPos, false
	}
	tok := s.tokens[i]
	end := NoPos
	switch tok.Type {
	case OpenParenthesis:
		end = tok.Links.ParenthesisCloser
	case OpenSquareBracket, OpenShortArray, OpenCurlyBracket:
		end = tok.Links.BracketCloser
	case AttributeOpen:
		end = tok.Links.AttributeCloser
	case DocCommentOpenTag:
		end = tok.Links.CommentCloser
	default:
		if tok.Links.ScopeCondition == i {
			end = tok.Links.ScopeCloser
		}
	}
	if end <= i || end >= len(s.tokens) {
		return NoPos, false
	}
	return end, true
}

// Opener returns the index opening the region closed at i.
func (s *Stream) Opener(i int) (int, bool) {
	if !s.Valid(i) {
		return NoPos, false
	}
	tok := s.tokens[i]
	start := NoPos
	switch tok.Type {
	case CloseParenthesis:
		start = tok.Links.ParenthesisOpener
	case CloseSquareBracket, CloseShortArray, CloseCurlyBracket:
		start = tok.Links.BracketOpener
	case AttributeEnd:
		start = tok.Links.AttributeOpener
	case DocCommentCloseTag:
		start = tok.Links.CommentOpener
	}
	if start < 0 || start >= i {
		return NoPos, false
	}
	return start, true
}

// Text concatenates the content of tokens start..end inclusive.
func (s *Stream) Text(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end >= len(s.tokens) {
		end = len(s.tokens) - 1
	}
	var b strings.Builder
	for i := start; i <= end; i++ {
		b.WriteString(s.tokens[i].Content)
	}
	return b.String()
}
