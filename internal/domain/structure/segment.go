package structure

import (
	"strings"

	"phpcsutils/internal/domain/token"
)

// KeyPart is the key of a keyed item, up to its "=>" separator.
type KeyPart struct {
	Start     int    `json:"start"     yaml:"start"`
	End       int    `json:"end"       yaml:"end"`
	Raw       string `json:"raw"       yaml:"raw"`
	Clean     string `json:"clean"     yaml:"clean"`
	Separator int    `json:"separator" yaml:"separator"`
}

// NamePart is the label of a named argument.
type NamePart struct {
	Index int    `json:"index" yaml:"index"`
	Name  string `json:"name"  yaml:"name"`
}

// ListItem is one top-level item of a delimited list.
type ListItem struct {
	// Start and End span every token between the surrounding separators. An empty slot
	// without any token has End == Start-1.
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end"   yaml:"end"`
	Raw   string `json:"raw"   yaml:"raw"`
	// Clean is Raw without comments and surrounding whitespace.
	Clean        string    `json:"clean"                yaml:"clean"`
	IsEmptySlot  bool      `json:"is_empty_slot"        yaml:"is_empty_slot"`
	IsNestedList bool      `json:"is_nested_list"       yaml:"is_nested_list"`
	Key          *KeyPart  `json:"key,omitempty"        yaml:"key,omitempty"`
	Name         *NamePart `json:"name,omitempty"       yaml:"name,omitempty"`
	ByReference  bool      `json:"by_reference"         yaml:"by_reference"`
	// ReferenceIndex is the "&" marking the value as a reference, or NoPos.
	ReferenceIndex int `json:"reference_index" yaml:"reference_index"`
	// ValueStart and ValueEnd bound the value without key, name or reference marker. Both are
	// NoPos for an empty slot.
	ValueStart int `json:"value_start" yaml:"value_start"`
	ValueEnd   int `json:"value_end"   yaml:"value_end"`
}

// Segment splits the region between the matched pair open and closer into its top-level
// comma separated items. Nested regions are never split.
func (a *Analyzer) Segment(open, closer int) ([]ListItem, error) {
	const op = "segment"
	s := a.stream
	if !s.Valid(open) || !s.Valid(closer) || open >= closer {
		return nil, invalidArgument(op, open, "%d..%d is not a token range", open, closer)
	}
	if c, ok := a.closerOf(open); !ok || c != closer {
		return nil, invalidArgument(op, open, "%s at %d is not closed by token %d", s.Type(open), open, closer)
	}
	return a.segment(open, closer), nil
}

func (a *Analyzer) segment(open, closer int) []ListItem {
	s := a.stream
	var items []ListItem
	start := open + 1
	for i := open + 1; i < closer; i++ {
		if s.Type(i) == token.Comma {
			items = append(items, a.buildItem(start, i-1))
			start = i + 1
			continue
		}
		if end, ok := a.skipRegion(i); ok && end < closer {
			i = end
		}
	}
	if s.NextNonTrivia(start, closer) != token.NoPos {
		items = append(items, a.buildItem(start, closer-1))
	}
	return items
}

func (a *Analyzer) buildItem(start, end int) ListItem {
	s := a.stream
	item := ListItem{
		Start:          start,
		End:            end,
		ReferenceIndex: token.NoPos,
		ValueStart:     token.NoPos,
		ValueEnd:       token.NoPos,
	}
	if end < start {
		item.IsEmptySlot = true
		return item
	}
	item.Raw = s.Text(start, end)
	item.Clean = a.cleanText(start, end)

	first := s.NextNonTrivia(start, end+1)
	if first == token.NoPos {
		item.IsEmptySlot = true
		return item
	}
	last := s.PrevNonTrivia(end, start)

	value := first
	if sep := a.findTopLevel(first, last, token.DoubleArrow); sep != token.NoPos {
		keyEnd := s.PrevNonTrivia(sep-1, first)
		key := &KeyPart{Start: first, End: keyEnd, Separator: sep}
		if keyEnd != token.NoPos {
			key.Raw = s.Text(first, keyEnd)
			key.Clean = a.cleanText(first, keyEnd)
		}
		item.Key = key
		value = s.NextNonTrivia(sep+1, last+1)
	} else if colon := s.NextNonTrivia(first+1, last+1); s.Type(first) == token.String &&
		s.Type(colon) == token.Colon {
		item.Name = &NamePart{Index: first, Name: s.Content(first)}
		value = s.NextNonTrivia(colon+1, last+1)
	}

	if s.Type(value) == token.BitwiseAnd {
		item.ByReference = true
		item.ReferenceIndex = value
		value = s.NextNonTrivia(value+1, last+1)
	}
	if value == token.NoPos {
		return item
	}
	item.ValueStart, item.ValueEnd = value, last
	item.IsNestedList = a.isWholeNestedList(value, last)
	return item
}

// isWholeNestedList reports whether value..last is exactly one destructuring pattern.
func (a *Analyzer) isWholeNestedList(value, last int) bool {
	s := a.stream
	open := value
	if s.Type(value) == token.List {
		open = a.nextNonTrivia(value)
		if s.Type(open) != token.OpenParenthesis {
			return false
		}
	} else if !token.BracketOpeners.Has(s.Type(value)) {
		return false
	}
	if c, ok := a.closerOf(open); !ok || c != last {
		return false
	}
	return a.Classify(value) == RoleDestructuringPattern
}

// findTopLevel returns the first token of type typ in from..to outside nested regions.
func (a *Analyzer) findTopLevel(from, to int, typ token.Type) int {
	for i := from; i <= to; i++ {
		if a.stream.Type(i) == typ {
			return i
		}
		if end, ok := a.skipRegion(i); ok && end <= to {
			i = end
		}
	}
	return token.NoPos
}

func (a *Analyzer) cleanText(start, end int) string {
	s := a.stream
	var b strings.Builder
	for i := start; i <= end; i++ {
		switch s.Type(i) {
		case token.Comment, token.DocCommentOpenTag, token.DocCommentString, token.DocCommentCloseTag:
			continue
		}
		b.WriteString(s.Content(i))
	}
	return strings.TrimSpace(b.String())
}

// OpenClose returns the delimiters of the bracket, array or list construct at idx. idx may be
// a square bracket, an array or list keyword, or a parenthesis owned by one.
func (a *Analyzer) OpenClose(idx int) (int, int, bool) {
	s := a.stream
	key, ok := a.roleKey(idx)
	if !ok {
		return token.NoPos, token.NoPos, false
	}
	open := key
	if typ := s.Type(key); typ == token.Array || typ == token.List {
		open = a.nextNonTrivia(key)
		if s.Type(open) != token.OpenParenthesis {
			return token.NoPos, token.NoPos, false
		}
	}
	closer, ok := a.closerOf(open)
	if !ok {
		return token.NoPos, token.NoPos, false
	}
	return open, closer, true
}

// Assignments returns the items of the destructuring pattern at idx.
func (a *Analyzer) Assignments(idx int) ([]ListItem, error) {
	return a.itemsWithRole("assignments", idx, RoleDestructuringPattern)
}

// Elements returns the items of the collection literal at idx.
func (a *Analyzer) Elements(idx int) ([]ListItem, error) {
	return a.itemsWithRole("elements", idx, RoleCollectionLiteral)
}

func (a *Analyzer) itemsWithRole(op string, idx int, want Role) ([]ListItem, error) {
	open, closer, ok := a.OpenClose(idx)
	if !ok {
		return nil, invalidArgument(op, idx, "%s is not a bracket, array or list construct", a.stream.Type(idx))
	}
	if role := a.Classify(idx); role != want {
		return nil, invalidArgument(op, idx, "construct is a %s, not a %s", role, want)
	}
	return a.segment(open, closer), nil
}

var callables = token.NewSet(
	token.String, token.Variable, token.CloseParenthesis, token.CloseSquareBracket,
	token.CloseShortArray, token.CloseCurlyBracket, token.Self, token.Static, token.Parent,
	token.AnonClass, token.Isset, token.Unset, token.Empty, token.Eval, token.Exit, token.Array,
)

// CallArguments returns the arguments passed at idx: a function or method name, a callable
// expression closer, "new Foo", an anonymous class, isset, unset, array or the opening
// parenthesis itself.
func (a *Analyzer) CallArguments(idx int) ([]ListItem, error) {
	const op = "call_arguments"
	s := a.stream
	typ := s.Type(idx)

	open := idx
	if typ != token.OpenParenthesis {
		if !callables.Has(typ) {
			return nil, invalidArgument(op, idx, "%s cannot take arguments", typ)
		}
		if typ == token.String && s.Type(a.prevNonTrivia(idx)) == token.Function {
			return nil, invalidArgument(op, idx, "function declaration, not a call")
		}
		if typ == token.String && a.IsArrowHeader(idx) {
			return nil, invalidArgument(op, idx, "arrow function declaration, not a call")
		}
		open = a.nextNonTrivia(idx)
		if s.Type(open) != token.OpenParenthesis {
			return nil, invalidArgument(op, idx, "no argument list follows")
		}
	}
	if kind, ok := a.OwnerKind(open); ok && token.ParameterListOwners.Has(kind) {
		return nil, invalidArgument(op, idx, "parentheses hold a declared parameter list")
	}

	closer, ok := a.closerOf(open)
	if !ok {
		return nil, invalidArgument(op, idx, "argument list is not closed")
	}
	return a.segment(open, closer), nil
}
