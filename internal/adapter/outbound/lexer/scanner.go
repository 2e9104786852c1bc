package lexer

import (
	"strings"

	"phpcsutils/internal/domain/token"
)

// scanner performs the raw lexing pass: it splits the source into typed tokens without
// resolving any structure. Ambiguous glyphs get a provisional type the linker may revise.
type scanner struct {
	src   string
	pos   int
	line  int
	col   int
	inPHP bool
	toks  []token.Token
}

func newScanner(src string) *scanner {
	return &scanner{src: src, line: 1, col: 1}
}

func (s *scanner) run() []token.Token {
	for s.pos < len(s.src) {
		if !s.inPHP {
			s.scanInline()
			continue
		}
		s.scanPHP()
	}
	return s.toks
}

// emit records src[pos:end] as a token of type typ and advances past it.
func (s *scanner) emit(typ token.Type, end int) {
	if end > len(s.src) {
		end = len(s.src)
	}
	content := s.src[s.pos:end]
	s.toks = append(s.toks, token.NewToken(typ, content, s.line, s.col))
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			s.line++
			s.col = 1
		} else {
			s.col++
		}
	}
	s.pos = end
}

func (s *scanner) peek(offset int) byte {
	if s.pos+offset >= len(s.src) {
		return 0
	}
	return s.src[s.pos+offset]
}

func (s *scanner) hasPrefix(prefix string) bool {
	return strings.HasPrefix(s.src[s.pos:], prefix)
}

func (s *scanner) scanInline() {
	rest := s.src[s.pos:]
	idx := strings.Index(rest, "<?")
	for idx >= 0 {
		tail := rest[idx:]
		if strings.HasPrefix(tail, "<?=") || isPHPOpenTag(tail) {
			break
		}
		next := strings.Index(rest[idx+2:], "<?")
		if next < 0 {
			idx = -1
			break
		}
		idx += 2 + next
	}
	if idx < 0 {
		s.emit(token.InlineHTML, len(s.src))
		return
	}
	if idx > 0 {
		s.emit(token.InlineHTML, s.pos+idx)
	}
	if s.hasPrefix("<?=") {
		s.emit(token.OpenTagWithEcho, s.pos+3)
	} else {
		s.emit(token.OpenTag, s.pos+5)
	}
	s.inPHP = true
}

func isPHPOpenTag(tail string) bool {
	if len(tail) < 5 || !strings.EqualFold(tail[:5], "<?php") {
		return false
	}
	return len(tail) == 5 || isSpace(tail[5])
}

func (s *scanner) scanPHP() {
	c := s.src[s.pos]
	switch {
	case isSpace(c):
		end := s.pos
		for end < len(s.src) && isSpace(s.src[end]) {
			end++
		}
		s.emit(token.Whitespace, end)
	case s.hasPrefix("?>"):
		end := s.pos + 2
		if end < len(s.src) && s.src[end] == '\n' {
			end++
		}
		s.emit(token.CloseTag, end)
		s.inPHP = false
	case s.hasPrefix("#["):
		s.emit(token.AttributeOpen, s.pos+2)
	case c == '#' || s.hasPrefix("//"):
		s.scanLineComment()
	case s.hasPrefix("/*"):
		s.scanBlockComment()
	case c == '$':
		if isIdentStart(s.peek(1)) {
			s.emit(token.Variable, s.identEnd(s.pos+1))
		} else {
			s.emit(token.Dollar, s.pos+1)
		}
	case isIdentStart(c):
		end := s.identEnd(s.pos)
		word := strings.ToLower(s.src[s.pos:end])
		typ, ok := keywords[word]
		if !ok {
			typ = token.String
		}
		s.emit(typ, end)
	case isDigit(c) || (c == '.' && isDigit(s.peek(1))):
		s.scanNumber()
	case c == '\'':
		s.emit(token.ConstantEncapsedString, s.quotedEnd('\''))
	case c == '"' || c == '`':
		end := s.quotedEnd(c)
		typ := token.ConstantEncapsedString
		if c == '`' || hasInterpolation(s.src[s.pos:end]) {
			typ = token.DoubleQuotedString
		}
		s.emit(typ, end)
	case s.hasPrefix("<<<"):
		s.scanHeredoc()
	case c == '(':
		if end, ok := s.castEnd(); ok {
			s.emit(token.Cast, end)
			return
		}
		s.emit(token.OpenParenthesis, s.pos+1)
	default:
		s.scanOperator()
	}
}

func (s *scanner) scanLineComment() {
	end := s.pos
	for end < len(s.src) && s.src[end] != '\n' {
		if strings.HasPrefix(s.src[end:], "?>") {
			break
		}
		end++
	}
	s.emit(token.Comment, end)
}

func (s *scanner) scanBlockComment() {
	closeAt := strings.Index(s.src[s.pos+2:], "*/")
	isDoc := s.hasPrefix("/**") && isSpace(s.peek(3))
	if !isDoc {
		end := len(s.src)
		if closeAt >= 0 {
			end = s.pos + 2 + closeAt + 2
		}
		s.emit(token.Comment, end)
		return
	}

	s.emit(token.DocCommentOpenTag, s.pos+3)
	if closeAt < 0 {
		s.emit(token.DocCommentString, len(s.src))
		return
	}
	bodyEnd := strings.Index(s.src[s.pos:], "*/") + s.pos
	if bodyEnd > s.pos {
		s.emit(token.DocCommentString, bodyEnd)
	}
	s.emit(token.DocCommentCloseTag, s.pos+2)
}

func (s *scanner) identEnd(from int) int {
	end := from
	for end < len(s.src) && isIdentPart(s.src[end]) {
		end++
	}
	return end
}

func (s *scanner) scanNumber() {
	end := s.pos
	typ := token.LNumber
	if s.hasPrefix("0x") || s.hasPrefix("0X") || s.hasPrefix("0b") || s.hasPrefix("0B") {
		end += 2
		for end < len(s.src) && (isHexDigit(s.src[end]) || s.src[end] == '_') {
			end++
		}
		s.emit(typ, end)
		return
	}
	for end < len(s.src) && (isDigit(s.src[end]) || s.src[end] == '_') {
		end++
	}
	if end < len(s.src) && s.src[end] == '.' && (end+1 >= len(s.src) || s.src[end+1] != '.') {
		typ = token.DNumber
		end++
		for end < len(s.src) && (isDigit(s.src[end]) || s.src[end] == '_') {
			end++
		}
	}
	if end < len(s.src) && (s.src[end] == 'e' || s.src[end] == 'E') {
		exp := end + 1
		if exp < len(s.src) && (s.src[exp] == '+' || s.src[exp] == '-') {
			exp++
		}
		if exp < len(s.src) && isDigit(s.src[exp]) {
			typ = token.DNumber
			end = exp
			for end < len(s.src) && isDigit(s.src[end]) {
				end++
			}
		}
	}
	s.emit(typ, end)
}

// quotedEnd returns the index just past the closing quote, or the end of input for an
// unterminated literal.
func (s *scanner) quotedEnd(quote byte) int {
	for i := s.pos + 1; i < len(s.src); i++ {
		switch s.src[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		}
	}
	return len(s.src)
}

func hasInterpolation(lit string) bool {
	for i := 1; i < len(lit)-1; i++ {
		switch lit[i] {
		case '\\':
			i++
		case '$':
			if isIdentStart(lit[i+1]) || lit[i+1] == '{' {
				return true
			}
		case '{':
			if lit[i+1] == '$' {
				return true
			}
		}
	}
	return false
}

func (s *scanner) scanHeredoc() {
	i := s.pos + 3
	for i < len(s.src) && (s.src[i] == ' ' || s.src[i] == '\t') {
		i++
	}
	quoted := i < len(s.src) && (s.src[i] == '\'' || s.src[i] == '"')
	if quoted {
		i++
	}
	labelStart := i
	for i < len(s.src) && isIdentPart(s.src[i]) {
		i++
	}
	label := s.src[labelStart:i]
	if label == "" {
		s.scanOperator()
		return
	}

	lineEnd := strings.IndexByte(s.src[i:], '\n')
	if lineEnd < 0 {
		s.emit(token.Heredoc, len(s.src))
		return
	}
	cursor := i + lineEnd + 1
	for cursor < len(s.src) {
		body := cursor
		for body < len(s.src) && (s.src[body] == ' ' || s.src[body] == '\t') {
			body++
		}
		if strings.HasPrefix(s.src[body:], label) {
			after := body + len(label)
			if after >= len(s.src) || !isIdentPart(s.src[after]) {
				s.emit(token.Heredoc, after)
				return
			}
		}
		next := strings.IndexByte(s.src[cursor:], '\n')
		if next < 0 {
			break
		}
		cursor += next + 1
	}
	s.emit(token.Heredoc, len(s.src))
}

var castWords = map[string]bool{
	"int": true, "integer": true, "bool": true, "boolean": true, "float": true, "double": true,
	"real": true, "string": true, "array": true, "object": true, "unset": true, "binary": true,
}

func (s *scanner) castEnd() (int, bool) {
	i := s.pos + 1
	for i < len(s.src) && (s.src[i] == ' ' || s.src[i] == '\t') {
		i++
	}
	start := i
	for i < len(s.src) && isIdentPart(s.src[i]) {
		i++
	}
	word := strings.ToLower(s.src[start:i])
	for i < len(s.src) && (s.src[i] == ' ' || s.src[i] == '\t') {
		i++
	}
	if !castWords[word] || i >= len(s.src) || s.src[i] != ')' {
		return 0, false
	}
	return i + 1, true
}

var operators = []struct {
	text string
	typ  token.Type
}{
	{"<=>", token.Spaceship},
	{"===", token.IsIdentical},
	{"!==", token.IsNotIdentical},
	{"**=", token.PowEqual},
	{"...", token.Ellipsis},
	{"<<=", token.SlEqual},
	{">>=", token.SrEqual},
	{"??=", token.CoalesceEqual},
	{"?->", token.NullsafeObjectOperator},
	{"==", token.IsEqual},
	{"!=", token.IsNotEqual},
	{"<>", token.IsNotEqual},
	{"<=", token.IsSmallerOrEqual},
	{">=", token.IsGreaterOrEqual},
	{"&&", token.BooleanAnd},
	{"||", token.BooleanOr},
	{"++", token.Inc},
	{"--", token.Dec},
	{"+=", token.PlusEqual},
	{"-=", token.MinusEqual},
	{"*=", token.MulEqual},
	{"/=", token.DivEqual},
	{".=", token.ConcatEqual},
	{"%=", token.ModEqual},
	{"&=", token.AndEqual},
	{"|=", token.OrEqual},
	{"^=", token.XorEqual},
	{"->", token.ObjectOperator},
	{"=>", token.DoubleArrow},
	{"::", token.DoubleColon},
	{"<<", token.Sl},
	{">>", token.Sr},
	{"??", token.Coalesce},
	{"**", token.Pow},
	{"+", token.Plus},
	{"-", token.Minus},
	{"*", token.Multiply},
	{"/", token.Divide},
	{"%", token.Modulus},
	{"=", token.Equal},
	{"<", token.LessThan},
	{">", token.GreaterThan},
	{"!", token.BooleanNot},
	{".", token.StringConcat},
	{"&", token.BitwiseAnd},
	{"|", token.BitwiseOr},
	{"^", token.BitwiseXor},
	{"~", token.BitwiseNot},
	{"?", token.InlineThen},
	{":", token.Colon},
	{";", token.Semicolon},
	{",", token.Comma},
	{"(", token.OpenParenthesis},
	{")", token.CloseParenthesis},
	{"[", token.OpenSquareBracket},
	{"]", token.CloseSquareBracket},
	{"{", token.OpenCurlyBracket},
	{"}", token.CloseCurlyBracket},
	{"@", token.Asperand},
	{"\\", token.NsSeparator},
}

func (s *scanner) scanOperator() {
	for _, op := range operators {
		if s.hasPrefix(op.text) {
			s.emit(op.typ, s.pos+len(op.text))
			return
		}
	}
	s.emit(token.Invalid, s.pos+1)
}

var keywords = map[string]token.Type{
	"abstract":     token.Abstract,
	"and":          token.LogicalAnd,
	"array":        token.Array,
	"as":           token.As,
	"break":        token.Break,
	"callable":     token.Callable,
	"case":         token.Case,
	"catch":        token.Catch,
	"class":        token.Class,
	"clone":        token.Clone,
	"const":        token.Const,
	"continue":     token.Continue,
	"declare":      token.Declare,
	"default":      token.Default,
	"die":          token.Exit,
	"do":           token.Do,
	"echo":         token.Echo,
	"else":         token.Else,
	"elseif":       token.Elseif,
	"empty":        token.Empty,
	"enddeclare":   token.EndDeclare,
	"endfor":       token.EndFor,
	"endforeach":   token.EndForeach,
	"endif":        token.EndIf,
	"endswitch":    token.EndSwitch,
	"endwhile":     token.EndWhile,
	"enum":         token.Enum,
	"eval":         token.Eval,
	"exit":         token.Exit,
	"extends":      token.Extends,
	"false":        token.False,
	"final":        token.Final,
	"finally":      token.Finally,
	"fn":           token.Fn,
	"for":          token.For,
	"foreach":      token.Foreach,
	"function":     token.Function,
	"global":       token.Global,
	"goto":         token.Goto,
	"if":           token.If,
	"implements":   token.Implements,
	"include":      token.Include,
	"include_once": token.Include,
	"instanceof":   token.Instanceof,
	"insteadof":    token.Insteadof,
	"interface":    token.Interface,
	"isset":        token.Isset,
	"list":         token.List,
	"match":        token.Match,
	"namespace":    token.Namespace,
	"new":          token.New,
	"null":         token.Null,
	"or":           token.LogicalOr,
	"parent":       token.Parent,
	"print":        token.Print,
	"private":      token.Private,
	"protected":    token.Protected,
	"public":       token.Public,
	"readonly":     token.Readonly,
	"require":      token.Include,
	"require_once": token.Include,
	"return":       token.Return,
	"self":         token.Self,
	"static":       token.Static,
	"switch":       token.Switch,
	"throw":        token.Throw,
	"trait":        token.Trait,
	"true":         token.True,
	"try":          token.Try,
	"unset":        token.Unset,
	"use":          token.Use,
	"var":          token.Var,
	"while":        token.While,
	"xor":          token.LogicalXor,
	"yield":        token.Yield,
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
