package token

// NoPos marks an absent index.
const NoPos = -1

// Pair is a matched opener/closer pair. Open < Close always holds.
type Pair struct {
	Open  int `json:"open"  yaml:"open"`
	Close int `json:"close" yaml:"close"`
}

// Links are the optional structural links an upstream tokenizer may pre-resolve. Every index
// is NoPos when the tokenizer could not (or did not) resolve it.
type Links struct {
	ParenthesisOpener int
	ParenthesisCloser int
	ParenthesisOwner  int

	BracketOpener int
	BracketCloser int

	ScopeCondition int
	ScopeOpener    int
	ScopeCloser    int

	CommentOpener int
	CommentCloser int

	AttributeOpener int
	AttributeCloser int

	// NestedParenthesis lists the parenthesis pairs enclosing the token, outermost first.
	// A nil slice means the tokenizer did not resolve nesting; an empty one means none.
	NestedParenthesis []Pair
}

// UnresolvedLinks returns a Links value with every index unset.
func UnresolvedLinks() Links {
	return Links{
		ParenthesisOpener: NoPos,
		ParenthesisCloser: NoPos,
		ParenthesisOwner:  NoPos,
		BracketOpener:     NoPos,
		BracketCloser:     NoPos,
		ScopeCondition:    NoPos,
		ScopeOpener:       NoPos,
		ScopeCloser:       NoPos,
		CommentOpener:     NoPos,
		CommentCloser:     NoPos,
		AttributeOpener:   NoPos,
		AttributeCloser:   NoPos,
	}
}

// Token is one lexical unit. Index is assigned when the token is frozen into a Stream.
type Token struct {
	Index   int
	Type    Type
	Content string
	Line    int
	Column  int
	Links   Links
}

// NewToken creates a token without any resolved links.
func NewToken(typ Type, content string, line, column int) Token {
	return Token{
		Index:   NoPos,
		Type:    typ,
		Content: content,
		Line:    line,
		Column:  column,
		Links:   UnresolvedLinks(),
	}
}
