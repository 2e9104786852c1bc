package compensation

import (
	"fmt"
	"strings"

	"phpcsutils/internal/domain/token"
)

// Pattern describes the token context a rule matches. Every populated field must hold.
type Pattern struct {
	Token                 []string `yaml:"token"`
	Content               string   `yaml:"content"`
	Previous              []string `yaml:"previous"`
	PreviousNot           []string `yaml:"previous_not"`
	PreviousContent       string   `yaml:"previous_content"`
	PreviousIsScopeCloser *bool    `yaml:"previous_is_scope_closer"`
	BeforePrevious        []string `yaml:"before_previous"`
	BeforePreviousNot     []string `yaml:"before_previous_not"`
	BeforePreviousContent string   `yaml:"before_previous_content"`
	Next                  []string `yaml:"next"`
	NextContent           string   `yaml:"next_content"`
	NextAfterCloser       []string `yaml:"next_after_closer"`

	token, previous, beforePrevious, next, nextAfterCloser typeFilter
	previousNot, beforePreviousNot                        typeFilter
}

type typeFilter struct {
	set    token.Set
	active bool
}

func (f typeFilter) allows(t token.Type) bool {
	return !f.active || f.set.Has(t)
}

// excludes reports whether an exclusion filter rejects t. A missing token is never rejected.
func (f typeFilter) excludes(t token.Type) bool {
	return f.active && f.set.Has(t)
}

func compileFilter(names []string) (typeFilter, error) {
	if len(names) == 0 {
		return typeFilter{}, nil
	}
	var types []token.Type
	for _, name := range names {
		t, ok := token.TypeByName(name)
		if !ok {
			return typeFilter{}, fmt.Errorf("unknown token type %q", name)
		}
		types = append(types, t)
	}
	return typeFilter{set: token.NewSet(types...), active: true}, nil
}

func (p *Pattern) compile() error {
	var err error
	if p.token, err = compileFilter(p.Token); err != nil {
		return err
	}
	if p.previous, err = compileFilter(p.Previous); err != nil {
		return err
	}
	if p.previousNot, err = compileFilter(p.PreviousNot); err != nil {
		return err
	}
	if p.beforePrevious, err = compileFilter(p.BeforePrevious); err != nil {
		return err
	}
	if p.beforePreviousNot, err = compileFilter(p.BeforePreviousNot); err != nil {
		return err
	}
	if p.next, err = compileFilter(p.Next); err != nil {
		return err
	}
	if p.nextAfterCloser, err = compileFilter(p.NextAfterCloser); err != nil {
		return err
	}
	return nil
}

func contentMatches(want, got string) bool {
	return want == "" || strings.EqualFold(want, got)
}

// Matches reports whether the token at idx satisfies the pattern.
func (p Pattern) Matches(s *token.Stream, idx int) bool {
	if !p.token.allows(s.Type(idx)) || !contentMatches(p.Content, s.Content(idx)) {
		return false
	}

	if !p.matchesPrevious(s, idx) {
		return false
	}

	if p.next.active || p.NextContent != "" {
		next := s.NextNonTrivia(idx+1, -1)
		if next == token.NoPos {
			return false
		}
		if !p.next.allows(s.Type(next)) || !contentMatches(p.NextContent, s.Content(next)) {
			return false
		}
	}

	if p.nextAfterCloser.active {
		closer, ok := s.Closer(idx)
		if !ok {
			return false
		}
		next := s.NextNonTrivia(closer+1, -1)
		if next == token.NoPos || !p.nextAfterCloser.allows(s.Type(next)) {
			return false
		}
	}
	return true
}

// matchesPrevious checks the fields describing the two non-trivia tokens before idx. Exclusion
// filters hold when the token they describe does not exist.
func (p Pattern) matchesPrevious(s *token.Stream, idx int) bool {
	needPrev := p.previous.active || p.PreviousContent != "" || p.PreviousIsScopeCloser != nil
	needBefore := p.beforePrevious.active || p.BeforePreviousContent != ""
	if !needPrev && !needBefore && !p.previousNot.active && !p.beforePreviousNot.active {
		return true
	}

	prev := s.PrevNonTrivia(idx-1, 0)
	if prev == token.NoPos {
		return !needPrev && !needBefore
	}
	if !p.previous.allows(s.Type(prev)) || p.previousNot.excludes(s.Type(prev)) ||
		!contentMatches(p.PreviousContent, s.Content(prev)) {
		return false
	}
	if p.PreviousIsScopeCloser != nil && isScopeCloser(s, prev) != *p.PreviousIsScopeCloser {
		return false
	}

	if !needBefore && !p.beforePreviousNot.active {
		return true
	}
	before := s.PrevNonTrivia(prev-1, 0)
	if before == token.NoPos {
		return !needBefore
	}
	return p.beforePrevious.allows(s.Type(before)) && !p.beforePreviousNot.excludes(s.Type(before)) &&
		contentMatches(p.BeforePreviousContent, s.Content(before))
}

func isScopeCloser(s *token.Stream, idx int) bool {
	links := s.Links(idx)
	if links.ScopeCondition == token.NoPos {
		return false
	}
	return s.Links(links.ScopeCondition).ScopeCloser == idx
}
