package structure

import (
	"phpcsutils/internal/domain/compensation"
	"phpcsutils/internal/domain/token"
)

// ArrowFunction describes the parts of an arrow function. Indices are NoPos when absent.
type ArrowFunction struct {
	Header     int `json:"header"      yaml:"header"`
	ParenOpen  int `json:"paren_open"  yaml:"paren_open"`
	ParenClose int `json:"paren_close" yaml:"paren_close"`
	Marker     int `json:"marker"      yaml:"marker"`
	BodyStart  int `json:"body_start"  yaml:"body_start"`
	// BodyEnd is the last non-trivia token of the body. Nested arrow functions may share it.
	BodyEnd int `json:"body_end" yaml:"body_end"`
	// Terminator is the boundary token the body scan stopped at.
	Terminator int `json:"terminator" yaml:"terminator"`
}

// IsArrowHeader reports whether idx is the keyword of an arrow function, including a keyword
// which an older tokenizer emitted as a plain identifier.
func (a *Analyzer) IsArrowHeader(idx int) bool {
	s := a.stream
	switch s.Type(idx) {
	case token.Fn:
		return s.Type(a.nextSkippingReference(idx)) == token.OpenParenthesis
	case token.String:
		rule, ok := a.evaluate(compensation.ComponentArrowHeader, idx)
		return ok && rule.Outcome == compensation.OutcomeArrowHeader
	}
	return false
}

// FindBodyEnd returns the index of the last token of the body of the arrow function whose
// keyword is at idx.
func (a *Analyzer) FindBodyEnd(idx int) (int, bool) {
	af, ok := a.ArrowFunction(idx)
	if !ok {
		return token.NoPos, false
	}
	return af.BodyEnd, true
}

type arrowResult struct {
	fn ArrowFunction
	ok bool
}

// ArrowFunction resolves the full layout of the arrow function whose keyword is at idx.
func (a *Analyzer) ArrowFunction(idx int) (ArrowFunction, bool) {
	if !a.IsArrowHeader(idx) {
		return ArrowFunction{}, false
	}
	res := memoize(a, opArrow, idx, func() arrowResult {
		fn, ok := a.arrowFunction(idx)
		return arrowResult{fn: fn, ok: ok}
	})
	return res.fn, res.ok
}

var arrowMarkers = token.NewSet(token.FnArrow, token.DoubleArrow)

// returnTypeParts may appear between the colon and the marker. A nullable marker emitted as a
// ternary by an older tokenizer is accepted too.
var returnTypeParts = token.TypeParts.With(token.InlineThen)

func (a *Analyzer) arrowFunction(idx int) (ArrowFunction, bool) {
	s := a.stream
	af := ArrowFunction{
		Header: idx, ParenOpen: token.NoPos, ParenClose: token.NoPos, Marker: token.NoPos,
		BodyStart: token.NoPos, BodyEnd: token.NoPos, Terminator: token.NoPos,
	}

	open := a.nextSkippingReference(idx)
	if s.Type(open) != token.OpenParenthesis {
		return af, false
	}
	closer, ok := a.closerOf(open)
	if !ok {
		return af, false
	}
	af.ParenOpen, af.ParenClose = open, closer

	marker := a.nextNonTrivia(closer)
	if s.Type(marker) == token.Colon {
		marker = a.nextNonTrivia(marker)
		for marker != token.NoPos && returnTypeParts.Has(s.Type(marker)) {
			if s.Type(marker) == token.OpenParenthesis {
				end, ok := a.closerOf(marker)
				if !ok {
					return af, false
				}
				marker = end
			}
			marker = a.nextNonTrivia(marker)
		}
	}
	if !arrowMarkers.Has(s.Type(marker)) {
		return af, false
	}
	af.Marker = marker

	start := a.nextNonTrivia(marker)
	if start == token.NoPos {
		return af, false
	}
	af.BodyStart = start

	end, terminator, ok := a.scanBody(start)
	if !ok {
		return af, false
	}
	af.BodyEnd, af.Terminator = end, terminator
	return af, true
}

// scanBody walks an expression without a closing delimiter. It returns the last token of the
// expression and the boundary it stopped at.
func (a *Analyzer) scanBody(start int) (int, int, bool) {
	s := a.stream
	depth := 0
	last := token.NoPos

	for i := start; i < s.Len(); i++ {
		typ := s.Type(i)
		switch {
		case typ == token.DocCommentOpenTag:
			end, ok := a.closerOf(i)
			if !ok {
				return token.NoPos, token.NoPos, false
			}
			i = end
			continue
		case token.Trivia.Has(typ):
			continue
		case typ == token.InlineThen:
			depth++
		case typ == token.InlineElse || typ == token.Colon:
			if depth == 0 {
				return last, i, last != token.NoPos
			}
			depth--
		case token.Terminators.Has(typ):
			return last, i, last != token.NoPos
		default:
			if end, ok := a.skipRegion(i); ok {
				i, last = end, end
				continue
			} else if jumpableStarts.Has(typ) {
				// unterminated region: the stream ends inside the body
				return token.NoPos, token.NoPos, false
			}
		}
		last = i
	}
	return token.NoPos, token.NoPos, false
}
