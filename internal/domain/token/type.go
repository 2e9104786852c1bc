// Package token defines the immutable token model shared by the tokenizer adapter and the
// structural analysis core: the closed enumeration of token types, fixed type sets, tokens
// with their optional pre-resolved links, and the frozen Stream.
package token

import "strings"

// Type is the type tag of a token.
type Type uint8

const (
	Invalid Type = iota

	// Markup
	OpenTag         // <?php
	OpenTagWithEcho // <?=
	CloseTag        // ?>
	InlineHTML

	// Trivia
	Whitespace
	Comment
	DocCommentOpenTag  // /**
	DocCommentString   // doc block body
	DocCommentCloseTag // */

	// Literals and names
	Variable
	String // bare identifier
	LNumber
	DNumber
	ConstantEncapsedString
	DoubleQuotedString
	Heredoc

	// Delimiters
	OpenParenthesis
	CloseParenthesis
	OpenSquareBracket
	CloseSquareBracket
	OpenShortArray
	CloseShortArray
	OpenCurlyBracket
	CloseCurlyBracket
	AttributeOpen // #[
	AttributeEnd  // ] closing an attribute
	Comma
	Semicolon
	Colon
	InlineThen // ? of a ternary
	InlineElse // : of a ternary
	Nullable   // ? in a type declaration
	DoubleArrow
	FnArrow // => of an arrow function
	ObjectOperator
	NullsafeObjectOperator
	DoubleColon
	NsSeparator
	Ellipsis
	Dollar
	Asperand

	// Assignment
	Equal
	PlusEqual
	MinusEqual
	MulEqual
	DivEqual
	ConcatEqual
	ModEqual
	PowEqual
	AndEqual
	OrEqual
	XorEqual
	SlEqual
	SrEqual
	CoalesceEqual

	// Comparison
	IsEqual
	IsNotEqual
	IsIdentical
	IsNotIdentical
	LessThan
	GreaterThan
	IsSmallerOrEqual
	IsGreaterOrEqual
	Spaceship

	// Arithmetic, bitwise and logical
	Plus
	Minus
	Multiply
	Divide
	Modulus
	Pow
	StringConcat
	BitwiseAnd
	BitwiseOr
	BitwiseXor
	BitwiseNot
	Sl
	Sr
	BooleanNot
	BooleanAnd
	BooleanOr
	LogicalAnd
	LogicalOr
	LogicalXor
	Coalesce
	Inc
	Dec
	Instanceof
	Cast

	// Keywords
	Abstract
	Array
	As
	Break
	Callable
	Case
	Catch
	Class
	AnonClass
	Clone
	Closure
	Const
	Continue
	Declare
	Default
	Do
	Echo
	Else
	Elseif
	Empty
	Enum
	Eval
	Exit
	Extends
	False
	Final
	Finally
	Fn
	For
	Foreach
	Function
	Global
	Goto
	If
	Implements
	Include
	Insteadof
	Interface
	Isset
	List
	Match
	Namespace
	New
	Null
	Parent
	Print
	Private
	Protected
	Public
	Readonly
	Return
	Self
	Static
	Switch
	Throw
	Trait
	True
	Try
	Unset
	Use
	Var
	While
	Yield
	EndIf
	EndFor
	EndForeach
	EndWhile
	EndSwitch
	EndDeclare

	typeCount
)

var typeNames = [...]string{
	Invalid:                "T_INVALID",
	OpenTag:                "T_OPEN_TAG",
	OpenTagWithEcho:        "T_OPEN_TAG_WITH_ECHO",
	CloseTag:               "T_CLOSE_TAG",
	InlineHTML:             "T_INLINE_HTML",
	Whitespace:             "T_WHITESPACE",
	Comment:                "T_COMMENT",
	DocCommentOpenTag:      "T_DOC_COMMENT_OPEN_TAG",
	DocCommentString:       "T_DOC_COMMENT_STRING",
	DocCommentCloseTag:     "T_DOC_COMMENT_CLOSE_TAG",
	Variable:               "T_VARIABLE",
	String:                 "T_STRING",
	LNumber:                "T_LNUMBER",
	DNumber:                "T_DNUMBER",
	ConstantEncapsedString: "T_CONSTANT_ENCAPSED_STRING",
	DoubleQuotedString:     "T_DOUBLE_QUOTED_STRING",
	Heredoc:                "T_HEREDOC",
	OpenParenthesis:        "T_OPEN_PARENTHESIS",
	CloseParenthesis:       "T_CLOSE_PARENTHESIS",
	OpenSquareBracket:      "T_OPEN_SQUARE_BRACKET",
	CloseSquareBracket:     "T_CLOSE_SQUARE_BRACKET",
	OpenShortArray:         "T_OPEN_SHORT_ARRAY",
	CloseShortArray:        "T_CLOSE_SHORT_ARRAY",
	OpenCurlyBracket:       "T_OPEN_CURLY_BRACKET",
	CloseCurlyBracket:      "T_CLOSE_CURLY_BRACKET",
	AttributeOpen:          "T_ATTRIBUTE",
	AttributeEnd:           "T_ATTRIBUTE_END",
	Comma:                  "T_COMMA",
	Semicolon:              "T_SEMICOLON",
	Colon:                  "T_COLON",
	InlineThen:             "T_INLINE_THEN",
	InlineElse:             "T_INLINE_ELSE",
	Nullable:               "T_NULLABLE",
	DoubleArrow:            "T_DOUBLE_ARROW",
	FnArrow:                "T_FN_ARROW",
	ObjectOperator:         "T_OBJECT_OPERATOR",
	NullsafeObjectOperator: "T_NULLSAFE_OBJECT_OPERATOR",
	DoubleColon:            "T_DOUBLE_COLON",
	NsSeparator:            "T_NS_SEPARATOR",
	Ellipsis:               "T_ELLIPSIS",
	Dollar:                 "T_DOLLAR",
	Asperand:               "T_ASPERAND",
	Equal:                  "T_EQUAL",
	PlusEqual:              "T_PLUS_EQUAL",
	MinusEqual:             "T_MINUS_EQUAL",
	MulEqual:               "T_MUL_EQUAL",
	DivEqual:               "T_DIV_EQUAL",
	ConcatEqual:            "T_CONCAT_EQUAL",
	ModEqual:               "T_MOD_EQUAL",
	PowEqual:               "T_POW_EQUAL",
	AndEqual:               "T_AND_EQUAL",
	OrEqual:                "T_OR_EQUAL",
	XorEqual:               "T_XOR_EQUAL",
	SlEqual:                "T_SL_EQUAL",
	SrEqual:                "T_SR_EQUAL",
	CoalesceEqual:          "T_COALESCE_EQUAL",
	IsEqual:                "T_IS_EQUAL",
	IsNotEqual:             "T_IS_NOT_EQUAL",
	IsIdentical:            "T_IS_IDENTICAL",
	IsNotIdentical:         "T_IS_NOT_IDENTICAL",
	LessThan:               "T_LESS_THAN",
	GreaterThan:            "T_GREATER_THAN",
	IsSmallerOrEqual:       "T_IS_SMALLER_OR_EQUAL",
	IsGreaterOrEqual:       "T_IS_GREATER_OR_EQUAL",
	Spaceship:              "T_SPACESHIP",
	Plus:                   "T_PLUS",
	Minus:                  "T_MINUS",
	Multiply:               "T_MULTIPLY",
	Divide:                 "T_DIVIDE",
	Modulus:                "T_MODULUS",
	Pow:                    "T_POW",
	StringConcat:           "T_STRING_CONCAT",
	BitwiseAnd:             "T_BITWISE_AND",
	BitwiseOr:              "T_BITWISE_OR",
	BitwiseXor:             "T_BITWISE_XOR",
	BitwiseNot:             "T_BITWISE_NOT",
	Sl:                     "T_SL",
	Sr:                     "T_SR",
	BooleanNot:             "T_BOOLEAN_NOT",
	BooleanAnd:             "T_BOOLEAN_AND",
	BooleanOr:              "T_BOOLEAN_OR",
	LogicalAnd:             "T_LOGICAL_AND",
	LogicalOr:              "T_LOGICAL_OR",
	LogicalXor:             "T_LOGICAL_XOR",
	Coalesce:               "T_COALESCE",
	Inc:                    "T_INC",
	Dec:                    "T_DEC",
	Instanceof:             "T_INSTANCEOF",
	Cast:                   "T_CAST",
	Abstract:               "T_ABSTRACT",
	Array:                  "T_ARRAY",
	As:                     "T_AS",
	Break:                  "T_BREAK",
	Callable:               "T_CALLABLE",
	Case:                   "T_CASE",
	Catch:                  "T_CATCH",
	Class:                  "T_CLASS",
	AnonClass:              "T_ANON_CLASS",
	Clone:                  "T_CLONE",
	Closure:                "T_CLOSURE",
	Const:                  "T_CONST",
	Continue:               "T_CONTINUE",
	Declare:                "T_DECLARE",
	Default:                "T_DEFAULT",
	Do:                     "T_DO",
	Echo:                   "T_ECHO",
	Else:                   "T_ELSE",
	Elseif:                 "T_ELSEIF",
	Empty:                  "T_EMPTY",
	Enum:                   "T_ENUM",
	Eval:                   "T_EVAL",
	Exit:                   "T_EXIT",
	Extends:                "T_EXTENDS",
	False:                  "T_FALSE",
	Final:                  "T_FINAL",
	Finally:                "T_FINALLY",
	Fn:                     "T_FN",
	For:                    "T_FOR",
	Foreach:                "T_FOREACH",
	Function:               "T_FUNCTION",
	Global:                 "T_GLOBAL",
	Goto:                   "T_GOTO",
	If:                     "T_IF",
	Implements:             "T_IMPLEMENTS",
	Include:                "T_INCLUDE",
	Insteadof:              "T_INSTEADOF",
	Interface:              "T_INTERFACE",
	Isset:                  "T_ISSET",
	List:                   "T_LIST",
	Match:                  "T_MATCH",
	Namespace:              "T_NAMESPACE",
	New:                    "T_NEW",
	Null:                   "T_NULL",
	Parent:                 "T_PARENT",
	Print:                  "T_PRINT",
	Private:                "T_PRIVATE",
	Protected:              "T_PROTECTED",
	Public:                 "T_PUBLIC",
	Readonly:               "T_READONLY",
	Return:                 "T_RETURN",
	Self:                   "T_SELF",
	Static:                 "T_STATIC",
	Switch:                 "T_SWITCH",
	Throw:                  "T_THROW",
	Trait:                  "T_TRAIT",
	True:                   "T_TRUE",
	Try:                    "T_TRY",
	Unset:                  "T_UNSET",
	Use:                    "T_USE",
	Var:                    "T_VAR",
	While:                  "T_WHILE",
	Yield:                  "T_YIELD",
	EndIf:                  "T_ENDIF",
	EndFor:                 "T_ENDFOR",
	EndForeach:             "T_ENDFOREACH",
	EndWhile:               "T_ENDWHILE",
	EndSwitch:              "T_ENDSWITCH",
	EndDeclare:             "T_ENDDECLARE",
}

var typesByName = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for t, name := range typeNames {
		m[name] = Type(t)
	}
	return m
}()

// String returns the upstream name of the type, e.g. "T_OPEN_SHORT_ARRAY".
func (t Type) String() string {
	if int(t) < len(typeNames) && typeNames[t] != "" {
		return typeNames[t]
	}
	return "T_INVALID"
}

// TypeByName looks up a type by its upstream name. The lookup ignores case and accepts the
// name with or without the "T_" prefix.
func TypeByName(name string) (Type, bool) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if !strings.HasPrefix(n, "T_") {
		n = "T_" + n
	}
	t, ok := typesByName[n]
	if !ok || t == Invalid {
		return Invalid, false
	}
	return t, true
}

// IsKeyword reports whether t is a reserved word which an upstream tokenizer may emit as a
// plain identifier in name position, for example after "->" or "::".
func (t Type) IsKeyword() bool {
	switch t {
	case LogicalAnd, LogicalOr, LogicalXor, Instanceof:
		return true
	}
	return t >= Abstract && t <= EndDeclare
}
