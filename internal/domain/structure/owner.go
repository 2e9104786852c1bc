package structure

import (
	"phpcsutils/internal/domain/compensation"
	"phpcsutils/internal/domain/token"
)

// SearchOrder selects the direction FindEnclosing walks the parenthesis chain.
type SearchOrder uint8

const (
	// Innermost starts at the parentheses closest to the token.
	Innermost SearchOrder = iota
	// Outermost starts at the parentheses furthest from the token.
	Outermost
)

type ownerResult struct {
	owner int
	ok    bool
}

// ResolveOwner returns the keyword owning the parenthesis pair at idx, which may be either the
// opener or the closer.
func (a *Analyzer) ResolveOwner(idx int) (int, bool) {
	s := a.stream
	open := idx
	switch s.Type(idx) {
	case token.OpenParenthesis:
	case token.CloseParenthesis:
		o, ok := a.openerOf(idx)
		if !ok {
			return token.NoPos, false
		}
		open = o
	default:
		return token.NoPos, false
	}

	res := memoize(a, opOwner, open, func() ownerResult {
		owner, ok := a.resolveOwner(open)
		return ownerResult{owner: owner, ok: ok}
	})
	return res.owner, res.ok
}

func (a *Analyzer) resolveOwner(open int) (int, bool) {
	s := a.stream
	if owner := s.Links(open).ParenthesisOwner; owner != token.NoPos && s.Valid(owner) {
		return owner, true
	}

	prev := a.prevNonTrivia(open)
	if rule, ok := a.evaluate(compensation.ComponentParenthesisOwner, open); ok {
		switch rule.Outcome {
		case compensation.OutcomeOwnerPrevious:
			return prev, prev != token.NoPos
		case compensation.OutcomeOwnerBeforePrevious:
			before := a.prevNonTrivia(prev)
			return before, before != token.NoPos
		default:
			return token.NoPos, false
		}
	}

	switch s.Type(prev) {
	case token.List, token.AnonClass:
		return prev, true
	case token.Fn:
		return prev, true
	case token.BitwiseAnd:
		if before := a.prevNonTrivia(prev); a.IsArrowHeader(before) {
			return before, true
		}
	case token.String:
		if a.IsArrowHeader(prev) {
			return prev, true
		}
	}
	return token.NoPos, false
}

// OwnerKind returns the token type of the owner of the parenthesis pair at idx.
func (a *Analyzer) OwnerKind(idx int) (token.Type, bool) {
	owner, ok := a.ResolveOwner(idx)
	if !ok {
		return token.Invalid, false
	}
	if a.stream.Type(owner) == token.String && a.IsArrowHeader(owner) {
		return token.Fn, true
	}
	return a.stream.Type(owner), true
}

// FindEnclosing walks the parenthesis pairs enclosing idx and returns the opener of the first
// pair whose owner kind is in kinds. At most limit levels are inspected; limit <= 0 means all.
func (a *Analyzer) FindEnclosing(idx int, kinds token.Set, order SearchOrder, limit int) (int, bool) {
	if !a.stream.Valid(idx) {
		return token.NoPos, false
	}
	chain := a.parenChain(idx)
	n := len(chain)
	if limit <= 0 || limit > n {
		limit = n
	}
	for level := 0; level < limit; level++ {
		pair := chain[level]
		if order == Innermost {
			pair = chain[n-1-level]
		}
		if kind, ok := a.OwnerKind(pair.Open); ok && kinds.Has(kind) {
			return pair.Open, true
		}
	}
	return token.NoPos, false
}

// LastOwnerIn returns the owner of the innermost parentheses enclosing idx if its kind is in
// kinds.
func (a *Analyzer) LastOwnerIn(idx int, kinds token.Set) (int, bool) {
	open, ok := a.FindEnclosing(idx, kinds, Innermost, 1)
	if !ok {
		return token.NoPos, false
	}
	return a.ResolveOwner(open)
}

// FirstOwnerIn returns the owner of the outermost parentheses enclosing idx if its kind is in
// kinds.
func (a *Analyzer) FirstOwnerIn(idx int, kinds token.Set) (int, bool) {
	open, ok := a.FindEnclosing(idx, kinds, Outermost, 1)
	if !ok {
		return token.NoPos, false
	}
	return a.ResolveOwner(open)
}

// parenChain returns the parenthesis pairs enclosing idx, outermost first. The pairs of idx
// itself are excluded when idx is a parenthesis.
func (a *Analyzer) parenChain(idx int) []token.Pair {
	if nested := a.stream.Links(idx).NestedParenthesis; nested != nil {
		return nested
	}
	return memoize(a, opChain, idx, func() []token.Pair {
		return a.walkParenChain(idx)
	})
}

// walkParenChain rebuilds the chain when the tokenizer did not record it. It always walks back to
// the start of the stream to find the outermost pair. Results are memoized per index.
func (a *Analyzer) walkParenChain(idx int) []token.Pair {
	s := a.stream
	var inner []token.Pair
	for j := idx - 1; j >= 0; j-- {
		switch s.Type(j) {
		case token.CloseParenthesis:
			if o, ok := a.openerOf(j); ok {
				j = o
			}
		case token.OpenParenthesis:
			if c, ok := a.closerOf(j); ok && c > idx {
				inner = append(inner, token.Pair{Open: j, Close: c})
			}
		}
	}
	chain := make([]token.Pair, len(inner))
	for i, p := range inner {
		chain[len(inner)-1-i] = p
	}
	return chain
}
