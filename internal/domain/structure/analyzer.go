// Package structure is the structural-disambiguation core. An Analyzer answers questions about
// one frozen token stream: the role of a square bracket, the end of an arrow function body, the
// items of a delimited list, the owner of a parenthesis pair and whether an ampersand is a
// reference marker. Every answer is a pure function of the stream and the host version, so
// results are memoized per Analyzer for the lifetime of the stream.
package structure

import (
	"fmt"
	"sync"
	"sync/atomic"

	"phpcsutils/internal/domain/compensation"
	"phpcsutils/internal/domain/errors/domain"
	"phpcsutils/internal/domain/token"
	"phpcsutils/internal/domain/valueobject"
)

// Error reports an asserting query called with an index that does not fit the query.
type Error struct {
	Op    string
	Index int
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at token %d: %v", e.Op, e.Index, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalidArgument(op string, idx int, format string, args ...any) error {
	return &Error{
		Op:    op,
		Index: idx,
		Err:   fmt.Errorf("%w: %s", domain.ErrInvalidArgument, fmt.Sprintf(format, args...)),
	}
}

type operation uint8

const (
	opRole operation = iota
	opArrow
	opOwner
	opReference
	opParameters
	opChain
)

type memoKey struct {
	op  operation
	idx int
}

// Analyzer answers structural queries about one token stream. It is safe for concurrent use.
type Analyzer struct {
	stream  *token.Stream
	version valueobject.HostVersion
	table   *compensation.Table
	rules   []compensation.Rule

	mu     sync.RWMutex
	memo   map[memoKey]any
	hits   atomic.Int64
	misses atomic.Int64
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithHostVersion enables the compensation rows that apply to the host tool version which
// produced the stream. Without it no compensation is applied.
func WithHostVersion(v valueobject.HostVersion) Option {
	return func(a *Analyzer) {
		a.version = v
	}
}

// WithRules replaces the embedded compensation table.
func WithRules(t *compensation.Table) Option {
	return func(a *Analyzer) {
		if t != nil {
			a.table = t
		}
	}
}

// New creates an Analyzer bound to s.
func New(s *token.Stream, opts ...Option) *Analyzer {
	a := &Analyzer{
		stream: s,
		table:  compensation.Default(),
		memo:   make(map[memoKey]any),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.rules = a.table.Active(a.version)
	return a
}

// Stream returns the analysed stream.
func (a *Analyzer) Stream() *token.Stream {
	return a.stream
}

// HostVersion returns the host version the Analyzer compensates for.
func (a *Analyzer) HostVersion() valueobject.HostVersion {
	return a.version
}

// ActiveRules returns the compensation rows in effect, in table order.
func (a *Analyzer) ActiveRules() []compensation.Rule {
	out := make([]compensation.Rule, len(a.rules))
	copy(out, a.rules)
	return out
}

// Stats describes the memo cache.
type Stats struct {
	Entries int   `json:"entries" yaml:"entries"`
	Hits    int64 `json:"hits"    yaml:"hits"`
	Misses  int64 `json:"misses"  yaml:"misses"`
}

// Stats returns a snapshot of the memo cache counters.
func (a *Analyzer) Stats() Stats {
	a.mu.RLock()
	entries := len(a.memo)
	a.mu.RUnlock()
	return Stats{Entries: entries, Hits: a.hits.Load(), Misses: a.misses.Load()}
}

// memoize returns the cached result of (op, idx), computing it outside the lock on a miss.
// Computations may recurse into other memoized queries; concurrent misses on the same key
// compute the same pure value, and the first stored result wins.
func memoize[T any](a *Analyzer, op operation, idx int, compute func() T) T {
	key := memoKey{op: op, idx: idx}

	a.mu.RLock()
	cached, ok := a.memo[key]
	a.mu.RUnlock()
	if ok {
		a.hits.Add(1)
		return cached.(T)
	}

	a.misses.Add(1)
	result := compute()

	a.mu.Lock()
	defer a.mu.Unlock()
	if existing, ok := a.memo[key]; ok {
		return existing.(T)
	}
	a.memo[key] = result
	return result
}

func (a *Analyzer) evaluate(c compensation.Component, idx int) (compensation.Rule, bool) {
	if len(a.rules) == 0 {
		return compensation.Rule{}, false
	}
	return compensation.Evaluate(a.rules, c, a.stream, idx)
}

func (a *Analyzer) prevNonTrivia(idx int) int {
	if idx <= 0 {
		return token.NoPos
	}
	return a.stream.PrevNonTrivia(idx-1, 0)
}

func (a *Analyzer) nextNonTrivia(idx int) int {
	return a.stream.NextNonTrivia(idx+1, -1)
}

// nextSkippingReference returns the next non-trivia token after idx, stepping over one "&".
func (a *Analyzer) nextSkippingReference(idx int) int {
	n := a.nextNonTrivia(idx)
	if a.stream.Type(n) == token.BitwiseAnd {
		n = a.nextNonTrivia(n)
	}
	return n
}

var (
	parenOpeners   = token.NewSet(token.OpenParenthesis)
	parenClosers   = token.NewSet(token.CloseParenthesis)
	curlyOpeners   = token.NewSet(token.OpenCurlyBracket)
	curlyClosers   = token.NewSet(token.CloseCurlyBracket)
	squareOpeners  = token.BracketOpeners.With(token.AttributeOpen)
	squareClosers  = token.BracketClosers.With(token.AttributeEnd)
	docOpeners     = token.NewSet(token.DocCommentOpenTag)
	docClosers     = token.NewSet(token.DocCommentCloseTag)
	jumpableStarts = token.RegionOpeners
)

// closerOf returns the end of the region opened at idx. It trusts the stream links and falls
// back to counting delimiters when the tokenizer left the region unlinked, which is linear in
// the size of the region.
func (a *Analyzer) closerOf(idx int) (int, bool) {
	s := a.stream
	if c, ok := s.Closer(idx); ok {
		return c, true
	}

	var opens, closes token.Set
	switch s.Type(idx) {
	case token.OpenParenthesis:
		opens, closes = parenOpeners, parenClosers
	case token.OpenSquareBracket, token.OpenShortArray, token.AttributeOpen:
		opens, closes = squareOpeners, squareClosers
	case token.OpenCurlyBracket:
		opens, closes = curlyOpeners, curlyClosers
	case token.DocCommentOpenTag:
		opens, closes = docOpeners, docClosers
	default:
		return token.NoPos, false
	}

	depth := 0
	for i := idx; i < s.Len(); i++ {
		switch typ := s.Type(i); {
		case opens.Has(typ):
			depth++
		case closes.Has(typ):
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return token.NoPos, false
}

// openerOf returns the start of the region closed at idx.
func (a *Analyzer) openerOf(idx int) (int, bool) {
	s := a.stream
	if o, ok := s.Opener(idx); ok {
		return o, true
	}

	var opens, closes token.Set
	switch s.Type(idx) {
	case token.CloseParenthesis:
		opens, closes = parenOpeners, parenClosers
	case token.CloseSquareBracket, token.CloseShortArray, token.AttributeEnd:
		opens, closes = squareOpeners, squareClosers
	case token.CloseCurlyBracket:
		opens, closes = curlyOpeners, curlyClosers
	default:
		return token.NoPos, false
	}

	depth := 0
	for i := idx; i >= 0; i-- {
		switch typ := s.Type(i); {
		case closes.Has(typ):
			depth++
		case opens.Has(typ):
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return token.NoPos, false
}

// scopeCloser returns the scope closer of a scope-owning keyword.
func (a *Analyzer) scopeCloser(idx int) (int, bool) {
	links := a.stream.Links(idx)
	if links.ScopeCondition != idx || links.ScopeCloser <= idx || !a.stream.Valid(links.ScopeCloser) {
		return token.NoPos, false
	}
	return links.ScopeCloser, true
}

// skipRegion returns the index to continue scanning from when idx opens a nested region that
// must be jumped as a whole, and reports whether it did.
func (a *Analyzer) skipRegion(idx int) (int, bool) {
	if jumpableStarts.Has(a.stream.Type(idx)) {
		return a.closerOf(idx)
	}
	if end, ok := a.scopeCloser(idx); ok {
		return end, true
	}
	if a.IsArrowHeader(idx) {
		if af, ok := a.ArrowFunction(idx); ok {
			return af.BodyEnd, true
		}
	}
	return token.NoPos, false
}
