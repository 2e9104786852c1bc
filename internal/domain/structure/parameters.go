package structure

import (
	"strings"

	"phpcsutils/internal/domain/token"
)

// Parameter is one declared parameter of a function, closure or arrow function, or one
// variable imported by a closure use clause.
type Parameter struct {
	Name      string `json:"name"       yaml:"name"`
	NameIndex int    `json:"name_index" yaml:"name_index"`
	Start     int    `json:"start"      yaml:"start"`
	End       int    `json:"end"        yaml:"end"`
	Content   string `json:"content"    yaml:"content"`

	HasAttributes bool `json:"has_attributes" yaml:"has_attributes"`

	TypeHint      string `json:"type_hint,omitempty" yaml:"type_hint,omitempty"`
	TypeHintStart int    `json:"type_hint_start"     yaml:"type_hint_start"`
	TypeHintEnd   int    `json:"type_hint_end"       yaml:"type_hint_end"`
	Nullable      bool   `json:"nullable"            yaml:"nullable"`

	ByReference    bool `json:"by_reference"    yaml:"by_reference"`
	ReferenceIndex int  `json:"reference_index" yaml:"reference_index"`
	Variadic       bool `json:"variadic"        yaml:"variadic"`
	VariadicIndex  int  `json:"variadic_index"  yaml:"variadic_index"`

	Default      string `json:"default,omitempty" yaml:"default,omitempty"`
	DefaultIndex int    `json:"default_index"     yaml:"default_index"`
	EqualIndex   int    `json:"equal_index"       yaml:"equal_index"`

	// Visibility is set for a constructor promoted property.
	Visibility      string `json:"visibility,omitempty" yaml:"visibility,omitempty"`
	VisibilityIndex int    `json:"visibility_index"     yaml:"visibility_index"`
	Readonly        bool   `json:"readonly"             yaml:"readonly"`
	ReadonlyIndex   int    `json:"readonly_index"       yaml:"readonly_index"`
}

type parametersResult struct {
	params []Parameter
	err    error
}

// DeclaredParameters returns the parameters declared by the function, closure, arrow function
// or closure use clause at idx.
func (a *Analyzer) DeclaredParameters(idx int) ([]Parameter, error) {
	res := memoize(a, opParameters, idx, func() parametersResult {
		params, err := a.declaredParameters(idx)
		return parametersResult{params: params, err: err}
	})
	if res.err != nil {
		return nil, res.err
	}
	out := make([]Parameter, len(res.params))
	copy(out, res.params)
	return out, nil
}

func (a *Analyzer) declaredParameters(idx int) ([]Parameter, error) {
	const op = "declared_parameters"
	s := a.stream

	open := token.NoPos
	switch typ := s.Type(idx); {
	case typ == token.Function:
		open = a.nextSkippingReference(idx)
		if s.Type(open) == token.String {
			open = a.nextNonTrivia(open)
		}
	case typ == token.Closure, typ == token.Fn, a.IsArrowHeader(idx):
		open = a.nextSkippingReference(idx)
	case typ == token.Use:
		open = a.nextNonTrivia(idx)
		if owner, ok := a.ResolveOwner(open); !ok || owner != idx {
			return nil, invalidArgument(op, idx, "use is not a closure use clause")
		}
	default:
		return nil, invalidArgument(op, idx, "%s does not declare parameters", typ)
	}
	if s.Type(open) != token.OpenParenthesis {
		return nil, invalidArgument(op, idx, "no parameter list follows")
	}
	closer, ok := a.closerOf(open)
	if !ok {
		return nil, invalidArgument(op, idx, "parameter list is not closed")
	}

	var params []Parameter
	for _, item := range a.segment(open, closer) {
		if item.IsEmptySlot {
			continue
		}
		params = append(params, a.parseParameter(item))
	}
	return params, nil
}

var visibilities = token.NewSet(token.Public, token.Protected, token.Private)

func (a *Analyzer) parseParameter(item ListItem) Parameter {
	s := a.stream
	first := s.NextNonTrivia(item.Start, item.End+1)
	last := s.PrevNonTrivia(item.End, item.Start)
	p := Parameter{
		NameIndex: token.NoPos, Start: first, End: last, Content: item.Clean,
		TypeHintStart: token.NoPos, TypeHintEnd: token.NoPos,
		ReferenceIndex: token.NoPos, VariadicIndex: token.NoPos,
		DefaultIndex: token.NoPos, EqualIndex: token.NoPos,
		VisibilityIndex: token.NoPos, ReadonlyIndex: token.NoPos,
	}

	var typeHint strings.Builder
	for i := first; i != token.NoPos && i <= last; i = s.NextNonTrivia(i+1, last+1) {
		typ := s.Type(i)
		switch {
		case typ == token.AttributeOpen:
			p.HasAttributes = true
			if end, ok := a.closerOf(i); ok {
				i = end
			}
		case visibilities.Has(typ):
			p.Visibility = strings.ToLower(s.Content(i))
			p.VisibilityIndex = i
		case typ == token.Readonly:
			p.Readonly = true
			p.ReadonlyIndex = i
		case typ == token.BitwiseAnd && a.marksParameter(i):
			p.ByReference = true
			p.ReferenceIndex = i
		case typ == token.Ellipsis:
			p.Variadic = true
			p.VariadicIndex = i
		case typ == token.Variable:
			p.Name = s.Content(i)
			p.NameIndex = i
		case typ == token.Equal:
			p.EqualIndex = i
			p.DefaultIndex = s.NextNonTrivia(i+1, last+1)
			if p.DefaultIndex != token.NoPos {
				p.Default = a.cleanText(p.DefaultIndex, last)
			}
			p.TypeHint = typeHint.String()
			return p
		case p.NameIndex == token.NoPos && (token.TypeParts.Has(typ) || typ == token.InlineThen):
			if typ == token.Nullable || typ == token.InlineThen {
				p.Nullable = true
			}
			if p.TypeHintStart == token.NoPos {
				p.TypeHintStart = i
			}
			p.TypeHintEnd = i
			typeHint.WriteString(s.Content(i))
		}
	}
	p.TypeHint = typeHint.String()
	return p
}

// marksParameter reports whether an ampersand inside a parameter is the by-reference marker
// rather than part of an intersection type.
func (a *Analyzer) marksParameter(idx int) bool {
	switch a.stream.Type(a.nextNonTrivia(idx)) {
	case token.Variable, token.Ellipsis:
		return true
	}
	return false
}
