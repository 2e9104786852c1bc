package lexer

import (
	"strings"

	"phpcsutils/internal/domain/token"
	"phpcsutils/internal/domain/valueobject"
)

// profile selects which historical tokenizer quirks are reproduced.
type profile struct {
	// fnAsIdentifier emits the arrow function keyword as a plain identifier and leaves its
	// marker as a double arrow.
	fnAsIdentifier bool
	// squareAfterScopeCloser tags a bracket directly after a scope closing curly as index
	// access.
	squareAfterScopeCloser bool
}

var (
	fnKeywordSince                  = valueobject.MustHostVersion("3.5.3")
	shortArrayAfterScopeCloserSince = valueobject.MustHostVersion("3.7.1")
)

func profileFor(v valueobject.HostVersion) profile {
	if v.IsZero() {
		return profile{}
	}
	return profile{
		fnAsIdentifier:         v.Less(fnKeywordSince),
		squareAfterScopeCloser: v.Less(shortArrayAfterScopeCloserSince),
	}
}

type pendingScope struct {
	owner int
	depth int
}

// linker resolves the structural links and retags context-dependent tokens in place.
type linker struct {
	toks    []token.Token
	prof    profile
	openers []int
	pending []pendingScope
	ternary []int
	prev    int
}

func link(toks []token.Token, prof profile) {
	l := &linker{toks: toks, prof: prof, prev: token.NoPos}
	for i := range toks {
		typ := toks[i].Type
		if typ == token.DocCommentOpenTag {
			l.linkDocComment(i)
			continue
		}
		if token.Trivia.Has(typ) {
			continue
		}
		l.retag(i)
		l.structure(i)
		l.prev = i
	}
	if !prof.fnAsIdentifier {
		l.tagFnArrows()
	}
	l.nest()
}

func (l *linker) typeAt(i int) token.Type {
	if i < 0 || i >= len(l.toks) {
		return token.Invalid
	}
	return l.toks[i].Type
}

func (l *linker) prevNonTrivia(i int) int {
	for j := i - 1; j >= 0; j-- {
		if !token.Trivia.Has(l.toks[j].Type) {
			return j
		}
	}
	return token.NoPos
}

func (l *linker) nextNonTrivia(i int) int {
	for j := i + 1; j < len(l.toks); j++ {
		if !token.Trivia.Has(l.toks[j].Type) {
			return j
		}
	}
	return token.NoPos
}

// nextSkippingReference returns the next non-trivia token, stepping over one "&".
func (l *linker) nextSkippingReference(i int) int {
	n := l.nextNonTrivia(i)
	if l.typeAt(n) == token.BitwiseAnd {
		n = l.nextNonTrivia(n)
	}
	return n
}

func (l *linker) linkDocComment(i int) {
	j := i + 1
	for j < len(l.toks) && l.toks[j].Type == token.DocCommentString {
		j++
	}
	if j >= len(l.toks) || l.toks[j].Type != token.DocCommentCloseTag {
		return
	}
	for k := i; k <= j; k++ {
		l.toks[k].Links.CommentOpener = i
		l.toks[k].Links.CommentCloser = j
	}
}

func (l *linker) retag(i int) {
	t := &l.toks[i]
	prevType := l.typeAt(l.prev)

	if t.Type.IsKeyword() && l.keywordInNamePosition(i, prevType) {
		t.Type = token.String
		return
	}

	switch t.Type {
	case token.Function:
		if l.typeAt(l.nextSkippingReference(i)) == token.OpenParenthesis {
			t.Type = token.Closure
		}
	case token.Class:
		p := l.prev
		for l.typeAt(p) == token.AttributeEnd {
			p = l.prevNonTrivia(l.toks[p].Links.AttributeOpener)
		}
		if l.typeAt(p) == token.New {
			t.Type = token.AnonClass
		}
	case token.Fn:
		if l.prof.fnAsIdentifier || l.typeAt(l.nextSkippingReference(i)) != token.OpenParenthesis {
			t.Type = token.String
		}
	case token.Enum:
		if l.typeAt(l.nextNonTrivia(i)) != token.String {
			t.Type = token.String
		}
	case token.InlineThen:
		if l.isNullable(i, prevType) {
			t.Type = token.Nullable
			return
		}
		l.ternary = append(l.ternary, len(l.openers))
	case token.Colon:
		n := len(l.ternary)
		if n > 0 && l.ternary[n-1] == len(l.openers) && !l.isReturnTypeColon() {
			t.Type = token.InlineElse
			l.ternary = l.ternary[:n-1]
		}
	case token.OpenSquareBracket:
		if !l.isIndexAccess() {
			t.Type = token.OpenShortArray
		}
	}
}

func (l *linker) keywordInNamePosition(i int, prevType token.Type) bool {
	switch prevType {
	case token.ObjectOperator, token.NullsafeObjectOperator, token.DoubleColon, token.Function,
		token.Const:
		return true
	case token.BitwiseAnd:
		return l.typeAt(l.prevNonTrivia(l.prev)) == token.Function
	case token.OpenParenthesis, token.Comma:
		// named argument
		next := l.nextNonTrivia(i)
		return l.typeAt(next) == token.Colon
	}
	return false
}

var nullablePredecessors = token.NewSet(
	token.OpenParenthesis, token.Comma, token.Colon, token.Public, token.Protected, token.Private,
	token.Readonly, token.Var, token.Static, token.Const, token.AttributeEnd, token.Final,
)

var typeStarts = token.NewSet(
	token.String, token.NsSeparator, token.Array, token.Callable, token.Static, token.Self,
	token.Parent, token.Namespace,
)

func (l *linker) isNullable(i int, prevType token.Type) bool {
	return nullablePredecessors.Has(prevType) && typeStarts.Has(l.typeAt(l.nextNonTrivia(i)))
}

// isReturnTypeColon reports whether the previous token closes the parameter list of a
// function, closure or arrow function, or the use clause of a closure.
func (l *linker) isReturnTypeColon() bool {
	if l.typeAt(l.prev) != token.CloseParenthesis {
		return false
	}
	links := l.toks[l.prev].Links
	switch l.typeAt(links.ParenthesisOwner) {
	case token.Function, token.Closure, token.Use:
		return true
	}
	if links.ParenthesisOpener == token.NoPos {
		return false
	}
	before := l.prevNonTrivia(links.ParenthesisOpener)
	if l.typeAt(before) == token.BitwiseAnd {
		before = l.prevNonTrivia(before)
	}
	return l.typeAt(before) == token.Fn || l.isFnIdentifier(before)
}

// fnNameContexts precede an "fn" identifier that names a member, function or class.
var fnNameContexts = token.NewSet(
	token.ObjectOperator, token.NullsafeObjectOperator, token.DoubleColon, token.Function,
	token.New, token.Const,
)

// isFnIdentifier reports whether i is an arrow function keyword emitted as an identifier.
func (l *linker) isFnIdentifier(i int) bool {
	return l.typeAt(i) == token.String && strings.EqualFold(l.toks[i].Content, "fn") &&
		!fnNameContexts.Has(l.typeAt(l.prevNonTrivia(i)))
}

func (l *linker) isScopeCloser(i int) bool {
	return l.typeAt(i) == token.CloseCurlyBracket && l.toks[i].Links.ScopeCondition != token.NoPos
}

func (l *linker) isIndexAccess() bool {
	if l.prev == token.NoPos {
		return false
	}
	prevType := l.typeAt(l.prev)
	if prevType == token.CloseCurlyBracket {
		if l.isScopeCloser(l.prev) {
			return l.prof.squareAfterScopeCloser
		}
		return true
	}
	return token.Dereferenceable.Has(prevType)
}

func (l *linker) structure(i int) {
	t := &l.toks[i]
	depth := len(l.openers)

	switch t.Type {
	case token.OpenParenthesis:
		if owner := l.parenOwner(); owner != token.NoPos {
			t.Links.ParenthesisOwner = owner
			l.toks[owner].Links.ParenthesisOpener = i
		}
		t.Links.ParenthesisOpener = i
		l.openers = append(l.openers, i)
	case token.OpenSquareBracket, token.OpenShortArray, token.AttributeOpen:
		l.openers = append(l.openers, i)
	case token.OpenCurlyBracket:
		l.dropPendingAbove(depth)
		if n := len(l.pending); n > 0 && l.pending[n-1].depth == depth && l.mayOpenScope() {
			owner := l.pending[n-1].owner
			l.pending = l.pending[:n-1]
			t.Links.ScopeCondition = owner
			t.Links.ScopeOpener = i
			l.toks[owner].Links.ScopeCondition = owner
			l.toks[owner].Links.ScopeOpener = i
		}
		l.openers = append(l.openers, i)
	case token.CloseParenthesis, token.CloseSquareBracket, token.CloseCurlyBracket:
		l.close(i)
	case token.Semicolon, token.CloseTag:
		l.dropPendingAbove(depth - 1)
		l.dropTernaryAbove(depth - 1)
	case token.Colon:
		if n := len(l.pending); n > 0 && l.pending[n-1].depth == depth {
			ownerType := l.typeAt(l.pending[n-1].owner)
			prevType := l.typeAt(l.prev)
			if token.ControlStructures.Has(ownerType) &&
				(prevType == token.CloseParenthesis || ownerType == token.Else) {
				l.pending = l.pending[:n-1]
			}
		}
	default:
		if !token.ScopeOwners.Has(t.Type) {
			return
		}
		l.dropPendingAbove(depth)
		if n := len(l.pending); t.Type == token.If && n > 0 && l.pending[n-1].depth == depth &&
			l.typeAt(l.pending[n-1].owner) == token.Else {
			l.pending = l.pending[:n-1]
		}
		l.pending = append(l.pending, pendingScope{owner: i, depth: depth})
	}
}

// mayOpenScope rejects curlies used for dynamic member and variable access.
func (l *linker) mayOpenScope() bool {
	switch l.typeAt(l.prev) {
	case token.ObjectOperator, token.NullsafeObjectOperator, token.DoubleColon, token.Dollar,
		token.Variable:
		return false
	}
	return true
}

func (l *linker) parenOwner() int {
	p := l.prev
	pt := l.typeAt(p)
	switch {
	case pt == token.Use:
		q := l.prevNonTrivia(p)
		if l.typeAt(q) == token.CloseParenthesis &&
			l.typeAt(l.toks[q].Links.ParenthesisOwner) == token.Closure {
			return p
		}
		return token.NoPos
	case token.ParenthesisOwners.Has(pt):
		return p
	case pt == token.BitwiseAnd:
		if q := l.prevNonTrivia(p); l.typeAt(q) == token.Closure {
			return q
		}
	case pt == token.String:
		q := l.prevNonTrivia(p)
		if l.typeAt(q) == token.BitwiseAnd {
			q = l.prevNonTrivia(q)
		}
		if l.typeAt(q) == token.Function {
			return q
		}
	}
	return token.NoPos
}

func closes(opener, closer token.Type) bool {
	switch closer {
	case token.CloseParenthesis:
		return opener == token.OpenParenthesis
	case token.CloseSquareBracket:
		return opener == token.OpenSquareBracket || opener == token.OpenShortArray ||
			opener == token.AttributeOpen
	case token.CloseCurlyBracket:
		return opener == token.OpenCurlyBracket
	}
	return false
}

func (l *linker) close(i int) {
	t := &l.toks[i]
	k := len(l.openers) - 1
	for ; k >= 0; k-- {
		if closes(l.toks[l.openers[k]].Type, t.Type) {
			break
		}
	}
	if k < 0 {
		return
	}
	open := l.openers[k]
	l.openers = l.openers[:k]
	o := &l.toks[open]

	switch t.Type {
	case token.CloseParenthesis:
		o.Links.ParenthesisCloser = i
		t.Links.ParenthesisOpener = open
		t.Links.ParenthesisCloser = i
		if owner := o.Links.ParenthesisOwner; owner != token.NoPos {
			t.Links.ParenthesisOwner = owner
			l.toks[owner].Links.ParenthesisCloser = i
		}
	case token.CloseSquareBracket:
		if o.Type == token.AttributeOpen {
			t.Type = token.AttributeEnd
			for j := open; j <= i; j++ {
				l.toks[j].Links.AttributeOpener = open
				l.toks[j].Links.AttributeCloser = i
			}
			break
		}
		if o.Type == token.OpenShortArray {
			t.Type = token.CloseShortArray
		}
		o.Links.BracketOpener = open
		o.Links.BracketCloser = i
		t.Links.BracketOpener = open
		t.Links.BracketCloser = i
	case token.CloseCurlyBracket:
		o.Links.BracketOpener = open
		o.Links.BracketCloser = i
		t.Links.BracketOpener = open
		t.Links.BracketCloser = i
		if sc := o.Links.ScopeCondition; sc != token.NoPos {
			o.Links.ScopeCloser = i
			t.Links.ScopeCondition = sc
			t.Links.ScopeOpener = open
			t.Links.ScopeCloser = i
			l.toks[sc].Links.ScopeCloser = i
		}
	}

	depth := len(l.openers)
	l.dropPendingAbove(depth)
	l.dropTernaryAbove(depth)
}

func (l *linker) dropPendingAbove(depth int) {
	for n := len(l.pending); n > 0 && l.pending[n-1].depth > depth; n-- {
		l.pending = l.pending[:n-1]
	}
}

func (l *linker) dropTernaryAbove(depth int) {
	for n := len(l.ternary); n > 0 && l.ternary[n-1] > depth; n-- {
		l.ternary = l.ternary[:n-1]
	}
}

// tagFnArrows retags the marker of every arrow function header.
func (l *linker) tagFnArrows() {
	for i := range l.toks {
		if l.toks[i].Type != token.Fn {
			continue
		}
		open := l.nextSkippingReference(i)
		if l.typeAt(open) != token.OpenParenthesis {
			continue
		}
		closer := l.toks[open].Links.ParenthesisCloser
		if closer == token.NoPos {
			continue
		}
		m := l.nextNonTrivia(closer)
		if l.typeAt(m) == token.Colon {
			m = l.nextNonTrivia(m)
			for m != token.NoPos && token.TypeParts.Has(l.typeAt(m)) {
				m = l.nextNonTrivia(m)
			}
		}
		if l.typeAt(m) == token.DoubleArrow {
			l.toks[m].Type = token.FnArrow
		}
	}
}

// nest records the enclosing parenthesis pairs of every token. Tokens sharing the same nesting
// share one slice.
func (l *linker) nest() {
	var stack []token.Pair
	current := []token.Pair{}
	for i := range l.toks {
		t := &l.toks[i]
		if t.Type == token.CloseParenthesis && len(stack) > 0 && stack[len(stack)-1].Close == i {
			stack = stack[:len(stack)-1]
			current = append([]token.Pair{}, stack...)
		}
		t.Links.NestedParenthesis = current
		if t.Type == token.OpenParenthesis && t.Links.ParenthesisCloser != token.NoPos {
			stack = append(stack, token.Pair{Open: i, Close: t.Links.ParenthesisCloser})
			current = append([]token.Pair{}, stack...)
		}
	}
}
