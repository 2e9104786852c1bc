// Package compensation holds the declarative, version-keyed table of corrections for known
// historical tokenizer misclassifications. Components of the structural analysis core evaluate
// the rows for their own component once, ahead of their general algorithm, so that legacy
// compensation can be tested and removed without touching the core logic.
package compensation

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"phpcsutils/internal/domain/errors/domain"
	"phpcsutils/internal/domain/token"
	"phpcsutils/internal/domain/valueobject"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

// Component names the core component a rule applies to.
type Component string

const (
	ComponentBracketRole      Component = "bracket_role"
	ComponentArrowHeader      Component = "arrow_header"
	ComponentParenthesisOwner Component = "parenthesis_owner"
	ComponentReference        Component = "reference"
)

// Outcome is the forced result of a matching rule.
type Outcome string

const (
	// Bracket role outcomes.
	OutcomeCollectionLiteral    Outcome = "collection_literal"
	OutcomeDestructuringPattern Outcome = "destructuring_pattern"
	OutcomePlainGrouping        Outcome = "plain_grouping"
	// OutcomeReclassify treats an index-access bracket as an ambiguous short bracket and hands
	// it to the general heuristic.
	OutcomeReclassify Outcome = "reclassify"

	// Arrow header outcome.
	OutcomeArrowHeader Outcome = "arrow_header"

	// Parenthesis owner outcomes.
	OutcomeOwnerPrevious       Outcome = "owner_previous"
	OutcomeOwnerBeforePrevious Outcome = "owner_before_previous"
	OutcomeNoOwner             Outcome = "no_owner"

	// Reference outcomes.
	OutcomeReference Outcome = "reference"
	OutcomeOperator  Outcome = "operator"
)

var outcomesByComponent = map[Component][]Outcome{
	ComponentBracketRole: {
		OutcomeCollectionLiteral, OutcomeDestructuringPattern, OutcomePlainGrouping, OutcomeReclassify,
	},
	ComponentArrowHeader:      {OutcomeArrowHeader},
	ComponentParenthesisOwner: {OutcomeOwnerPrevious, OutcomeOwnerBeforePrevious, OutcomeNoOwner},
	ComponentReference:        {OutcomeReference, OutcomeOperator},
}

// Rule is one row of the table.
type Rule struct {
	ID          string    `yaml:"id"`
	Component   Component `yaml:"component"`
	Versions    string    `yaml:"versions"`
	Description string    `yaml:"description"`
	Match       Pattern   `yaml:"match"`
	Outcome     Outcome   `yaml:"outcome"`

	versions valueobject.VersionRange
}

// AppliesTo reports whether the rule is active for the host version.
func (r Rule) AppliesTo(v valueobject.HostVersion) bool {
	return r.versions.Contains(v)
}

type document struct {
	Rules []Rule `yaml:"rules"`
}

// Table is an ordered, immutable set of rules.
type Table struct {
	rules []Rule
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the table embedded in the binary.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Parse(defaultRules)
		if err != nil {
			panic(fmt.Errorf("embedded compensation rules: %w", err))
		}
		defaultTable = t
	})
	return defaultTable
}

// Load reads a table from a YAML file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML table.
func Parse(data []byte) (*Table, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedRules, err)
	}

	seen := make(map[string]bool, len(doc.Rules))
	for i := range doc.Rules {
		r := &doc.Rules[i]
		if err := r.compile(); err != nil {
			return nil, fmt.Errorf("%w: rule %d (%s): %w", domain.ErrMalformedRules, i, r.ID, err)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("%w: duplicate rule id %q", domain.ErrMalformedRules, r.ID)
		}
		seen[r.ID] = true
	}
	return &Table{rules: doc.Rules}, nil
}

func (r *Rule) compile() error {
	if r.ID == "" {
		return errors.New("missing id")
	}
	allowed, ok := outcomesByComponent[r.Component]
	if !ok {
		return fmt.Errorf("unknown component %q", r.Component)
	}
	valid := false
	for _, o := range allowed {
		if o == r.Outcome {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("outcome %q is not valid for component %q", r.Outcome, r.Component)
	}
	versions, err := valueobject.ParseVersionRange(r.Versions)
	if err != nil {
		return err
	}
	r.versions = versions
	return r.Match.compile()
}

// Rules returns a copy of every row in table order.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Active returns the rows that apply to a host version, in table order.
func (t *Table) Active(v valueobject.HostVersion) []Rule {
	if t == nil || v.IsZero() {
		return nil
	}
	var out []Rule
	for _, r := range t.rules {
		if r.AppliesTo(v) {
			out = append(out, r)
		}
	}
	return out
}

// Evaluate returns the outcome of the first active rule of component c that matches the token
// at idx.
func Evaluate(active []Rule, c Component, s *token.Stream, idx int) (Rule, bool) {
	if !s.Valid(idx) {
		return Rule{}, false
	}
	for _, r := range active {
		if r.Component != c {
			continue
		}
		if r.Match.Matches(s, idx) {
			return r, true
		}
	}
	return Rule{}, false
}
