package structure

import (
	"phpcsutils/internal/domain/compensation"
	"phpcsutils/internal/domain/token"
)

// Role is the structural role of a square bracket pair or an array/list construct.
type Role uint8

const (
	RoleNotApplicable Role = iota
	RoleCollectionLiteral
	RoleDestructuringPattern
	RolePlainGrouping
)

var roleNames = [...]string{
	RoleNotApplicable:        "not_applicable",
	RoleCollectionLiteral:    "collection_literal",
	RoleDestructuringPattern: "destructuring_pattern",
	RolePlainGrouping:        "plain_grouping",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return roleNames[RoleNotApplicable]
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func roleForOutcome(o compensation.Outcome) (Role, bool) {
	switch o {
	case compensation.OutcomeCollectionLiteral:
		return RoleCollectionLiteral, true
	case compensation.OutcomeDestructuringPattern:
		return RoleDestructuringPattern, true
	case compensation.OutcomePlainGrouping:
		return RolePlainGrouping, true
	}
	return RoleNotApplicable, false
}

// Classify returns the role of the bracket at idx. idx may be a square bracket opener or
// closer, an array or list keyword, or a parenthesis owned by one. Anything else, including an
// out-of-range index, is RoleNotApplicable.
func (a *Analyzer) Classify(idx int) Role {
	key, ok := a.roleKey(idx)
	if !ok {
		return RoleNotApplicable
	}
	return memoize(a, opRole, key, func() Role {
		return a.classify(key)
	})
}

// roleKey maps every accepted index to the canonical token the role is cached under: the
// opening bracket or the keyword.
func (a *Analyzer) roleKey(idx int) (int, bool) {
	s := a.stream
	switch s.Type(idx) {
	case token.OpenSquareBracket, token.OpenShortArray, token.Array, token.List:
		return idx, true
	case token.CloseSquareBracket, token.CloseShortArray:
		return a.openerOf(idx)
	case token.CloseParenthesis:
		open, ok := a.openerOf(idx)
		if !ok {
			return token.NoPos, false
		}
		return a.roleKey(open)
	case token.OpenParenthesis:
		owner, ok := a.ResolveOwner(idx)
		if !ok {
			return token.NoPos, false
		}
		switch s.Type(owner) {
		case token.Array, token.List:
			return owner, true
		}
	}
	return token.NoPos, false
}

func (a *Analyzer) classify(idx int) Role {
	s := a.stream
	switch s.Type(idx) {
	case token.Array:
		if s.Type(a.nextNonTrivia(idx)) == token.OpenParenthesis {
			return RoleCollectionLiteral
		}
		return RoleNotApplicable
	case token.List:
		if s.Type(a.nextNonTrivia(idx)) == token.OpenParenthesis {
			return RoleDestructuringPattern
		}
		return RoleNotApplicable
	}

	closer, ok := a.closerOf(idx)
	if !ok {
		return RoleNotApplicable
	}

	rule, matched := a.evaluate(compensation.ComponentBracketRole, idx)
	if matched {
		if role, ok := roleForOutcome(rule.Outcome); ok {
			return role
		}
	} else if s.Type(idx) == token.OpenSquareBracket {
		return RolePlainGrouping
	}

	return a.classifyShortBracket(idx, closer)
}

func (a *Analyzer) classifyShortBracket(open, closer int) Role {
	s := a.stream

	if s.Type(a.nextNonTrivia(closer)) == token.Equal {
		return RoleDestructuringPattern
	}

	prev := a.prevNonTrivia(open)
	switch s.Type(prev) {
	case token.As:
		if a.isForeachAs(prev) {
			return RoleDestructuringPattern
		}
	case token.DoubleArrow:
		if a.followsForeachAs(prev) {
			return RoleDestructuringPattern
		}
	}

	if role, ok := a.enclosingRole(open, closer); ok {
		return role
	}

	if a.isDereferenceable(prev) {
		return RolePlainGrouping
	}
	return RoleCollectionLiteral
}

func (a *Analyzer) isForeachAs(asIdx int) bool {
	chain := a.parenChain(asIdx)
	if len(chain) == 0 {
		return false
	}
	owner, ok := a.ResolveOwner(chain[len(chain)-1].Open)
	return ok && a.stream.Type(owner) == token.Foreach
}

// followsForeachAs reports whether the double arrow separates the key and value of a foreach.
func (a *Analyzer) followsForeachAs(arrow int) bool {
	chain := a.parenChain(arrow)
	if len(chain) == 0 {
		return false
	}
	inner := chain[len(chain)-1]
	owner, ok := a.ResolveOwner(inner.Open)
	if !ok || a.stream.Type(owner) != token.Foreach {
		return false
	}
	for i := a.prevNonTrivia(arrow); i > inner.Open; i = a.prevNonTrivia(i) {
		switch a.stream.Type(i) {
		case token.As:
			return true
		case token.CloseParenthesis, token.CloseSquareBracket, token.CloseShortArray, token.CloseCurlyBracket:
			open, ok := a.openerOf(i)
			if !ok {
				return false
			}
			i = open
		}
	}
	return false
}

// enclosingRole returns the role of the construct the bracket is a whole item of.
func (a *Analyzer) enclosingRole(open, closer int) (Role, bool) {
	s := a.stream
	outer := a.enclosingRegion(open)
	if outer == token.NoPos {
		return RoleNotApplicable, false
	}

	switch s.Type(outer) {
	case token.OpenSquareBracket, token.OpenShortArray:
	case token.OpenParenthesis:
		owner, ok := a.ResolveOwner(outer)
		if !ok || (s.Type(owner) != token.List && s.Type(owner) != token.Array) {
			return RoleNotApplicable, false
		}
	default:
		return RoleNotApplicable, false
	}

	outerCloser, ok := a.closerOf(outer)
	if !ok {
		return RoleNotApplicable, false
	}
	switch prev := a.prevNonTrivia(open); {
	case prev == outer, s.Type(prev) == token.Comma, s.Type(prev) == token.DoubleArrow:
	default:
		return RoleNotApplicable, false
	}
	if next := a.nextNonTrivia(closer); next != outerCloser && s.Type(next) != token.Comma {
		return RoleNotApplicable, false
	}

	switch role := a.Classify(outer); role {
	case RoleCollectionLiteral, RoleDestructuringPattern:
		return role, true
	}
	return RoleNotApplicable, false
}

// enclosingRegion returns the innermost region opener enclosing idx. The walk jumps over closed
// regions but may reach the start of the stream, and without stream links every jump costs a
// delimiter count, so an uncached query is O(n) on linked streams and O(n²) on unlinked ones.
func (a *Analyzer) enclosingRegion(idx int) int {
	s := a.stream
	for j := idx - 1; j >= 0; j-- {
		typ := s.Type(j)
		if token.RegionClosers.Has(typ) {
			if o, ok := a.openerOf(j); ok {
				j = o
			}
			continue
		}
		if token.RegionOpeners.Has(typ) {
			if c, ok := a.closerOf(j); ok && c > idx {
				return j
			}
		}
	}
	return token.NoPos
}

func (a *Analyzer) isDereferenceable(idx int) bool {
	typ := a.stream.Type(idx)
	if typ == token.CloseCurlyBracket {
		return !a.isScopeCloser(idx)
	}
	return token.Dereferenceable.Has(typ)
}

func (a *Analyzer) isScopeCloser(idx int) bool {
	cond := a.stream.Links(idx).ScopeCondition
	if cond == token.NoPos {
		return false
	}
	return a.stream.Links(cond).ScopeCloser == idx
}
