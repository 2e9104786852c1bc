package structure

import (
	"phpcsutils/internal/domain/compensation"
	"phpcsutils/internal/domain/token"
)

var referenceOpeners = token.NewSet(
	token.OpenParenthesis, token.Comma, token.OpenShortArray, token.OpenSquareBracket,
)

// IsReference reports whether the ampersand at idx marks a reference rather than a bitwise
// "and". Any other token is not a reference.
func (a *Analyzer) IsReference(idx int) bool {
	if a.stream.Type(idx) != token.BitwiseAnd {
		return false
	}
	return memoize(a, opReference, idx, func() bool {
		return a.isReference(idx)
	})
}

func (a *Analyzer) isReference(idx int) bool {
	s := a.stream
	if rule, ok := a.evaluate(compensation.ComponentReference, idx); ok {
		return rule.Outcome == compensation.OutcomeReference
	}

	prev := a.prevNonTrivia(idx)
	prevType := s.Type(prev)
	switch {
	case token.FunctionDeclarations.Has(prevType):
		return true
	case prevType == token.String && a.IsArrowHeader(prev):
		return true
	case prevType == token.DoubleArrow, prevType == token.As:
		return true
	case token.Assignments.Has(prevType):
		return true
	}

	next := a.nextNonTrivia(idx)
	if s.Type(next) == token.New {
		return true
	}

	if owner, ok := a.parameterListOwner(idx); ok {
		params, err := a.DeclaredParameters(owner)
		if err != nil {
			return false
		}
		for _, p := range params {
			if p.ReferenceIndex == idx {
				return true
			}
		}
		return false
	}

	if !referenceOpeners.Has(prevType) {
		return false
	}
	if s.Type(next) == token.Variable {
		return true
	}
	// a static property access such as &Foo\Bar::$baz
	j := next
	for token.NameParts.Has(s.Type(j)) {
		j = a.nextNonTrivia(j)
	}
	return j != next && s.Type(j) == token.DoubleColon && s.Type(a.nextNonTrivia(j)) == token.Variable
}

// parameterListOwner returns the declaration owning the parentheses directly around idx when
// they hold a declared parameter list.
func (a *Analyzer) parameterListOwner(idx int) (int, bool) {
	chain := a.parenChain(idx)
	if len(chain) == 0 {
		return token.NoPos, false
	}
	owner, ok := a.ResolveOwner(chain[len(chain)-1].Open)
	if !ok {
		return token.NoPos, false
	}
	if token.ParameterListOwners.Has(a.stream.Type(owner)) || a.IsArrowHeader(owner) {
		return owner, true
	}
	return token.NoPos, false
}
