package token

// Set is an immutable membership set of token types. It is a value type: every method
// returns a new Set and leaves the receiver untouched.
type Set [4]uint64

// NewSet builds a set holding the given types.
func NewSet(types ...Type) Set {
	var s Set
	for _, t := range types {
		s[t>>6] |= 1 << (t & 63)
	}
	return s
}

// Has reports whether t is a member of the set.
func (s Set) Has(t Type) bool {
	return s[t>>6]&(1<<(t&63)) != 0
}

// With returns a copy of the set extended with the given types.
func (s Set) With(types ...Type) Set {
	return s.Union(NewSet(types...))
}

// Union returns the union of two sets.
func (s Set) Union(o Set) Set {
	for i := range s {
		s[i] |= o[i]
	}
	return s
}

// Types lists the members in declaration order.
func (s Set) Types() []Type {
	var out []Type
	for t := Type(0); t < typeCount; t++ {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// Fixed type groups used as filters. They are built once at package initialisation.
//
//nolint:gochecknoglobals // immutable value sets
var (
	// Trivia is every token that carries no syntax: whitespace, comments and doc blocks.
	Trivia = NewSet(Whitespace, Comment, DocCommentOpenTag, DocCommentString, DocCommentCloseTag)

	// Assignments holds every assignment operator.
	Assignments = NewSet(
		Equal, PlusEqual, MinusEqual, MulEqual, DivEqual, ConcatEqual, ModEqual, PowEqual,
		AndEqual, OrEqual, XorEqual, SlEqual, SrEqual, CoalesceEqual,
	)

	// BracketOpeners are the square bracket glyphs shared by index access, array literals and
	// destructuring.
	BracketOpeners = NewSet(OpenSquareBracket, OpenShortArray)
	BracketClosers = NewSet(CloseSquareBracket, CloseShortArray)

	// RegionOpeners open a region with a resolvable end.
	RegionOpeners = NewSet(
		OpenParenthesis, OpenSquareBracket, OpenShortArray, OpenCurlyBracket, AttributeOpen,
		DocCommentOpenTag,
	)

	// RegionClosers end a region.
	RegionClosers = NewSet(
		CloseParenthesis, CloseSquareBracket, CloseShortArray, CloseCurlyBracket, AttributeEnd,
		DocCommentCloseTag,
	)

	// FunctionDeclarations are the callable declaration headers.
	FunctionDeclarations = NewSet(Function, Closure, Fn)

	// ParameterListOwners own a declared parameter list.
	ParameterListOwners = FunctionDeclarations.With(Use)

	// ScopeOwners are keywords which may own a curly scope.
	ScopeOwners = NewSet(
		Function, Closure, Class, AnonClass, Interface, Trait, Enum, If, Elseif, Else, For,
		Foreach, While, Do, Switch, Match, Try, Catch, Finally, Declare, Namespace,
	)

	// ControlStructures may use the alternative colon syntax.
	ControlStructures = NewSet(If, Elseif, Else, For, Foreach, While, Switch, Declare)

	// ParenthesisOwners are the keywords the tokenizer links to their parentheses.
	ParenthesisOwners = NewSet(
		Function, Closure, If, Elseif, For, Foreach, While, Switch, Catch, Declare, Array,
		Isset, Unset, Empty, Eval, Exit, Match, Use,
	)

	// NameParts make up a (possibly qualified) name.
	NameParts = NewSet(String, NsSeparator, Namespace, Static, Self, Parent)

	// TypeParts may appear in a type declaration.
	TypeParts = NameParts.With(
		Nullable, Array, Callable, Null, False, True, BitwiseOr, BitwiseAnd,
		OpenParenthesis, CloseParenthesis,
	)

	// Dereferenceable tokens may be directly followed by an index access.
	Dereferenceable = NewSet(
		Variable, CloseParenthesis, CloseSquareBracket, CloseShortArray, String,
		ConstantEncapsedString, DoubleQuotedString, Heredoc,
	)

	// Terminators end an expression which lacks its own closing delimiter.
	Terminators = NewSet(
		Comma, Semicolon, CloseParenthesis, CloseSquareBracket, CloseShortArray,
		CloseCurlyBracket, AttributeEnd, CloseTag, OpenTag, OpenTagWithEcho, InlineHTML,
	)
)
