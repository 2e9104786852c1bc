package dto

import (
	"phpcsutils/internal/domain/structure"

	"github.com/google/uuid"
)

// SourceFile is one source handed to the analysis service.
type SourceFile struct {
	Path    string
	Content []byte
}

// Position locates a token.
type Position struct {
	Index  int `json:"index"  yaml:"index"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// BracketFact is the role of one bracket, array or list construct.
type BracketFact struct {
	Position `yaml:",inline"`

	Kind  string         `json:"kind"  yaml:"kind"`
	Close int            `json:"close" yaml:"close"`
	Role  structure.Role `json:"role"  yaml:"role"`
	// Items is the number of top-level items, empty slots included.
	Items int `json:"items" yaml:"items"`
}

// ArrowFact describes one arrow function.
type ArrowFact struct {
	Position `yaml:",inline"`

	Function   structure.ArrowFunction `json:"function"   yaml:"function"`
	Body       string                  `json:"body"       yaml:"body"`
	Parameters []string                `json:"parameters" yaml:"parameters"`
}

// OwnerFact is the owner of one parenthesis pair. Owner is NoPos when the pair has none.
type OwnerFact struct {
	Position `yaml:",inline"`

	Close     int    `json:"close"                yaml:"close"`
	Owner     int    `json:"owner"                yaml:"owner"`
	OwnerKind string `json:"owner_kind,omitempty" yaml:"owner_kind,omitempty"`
}

// ReferenceFact is the classification of one "&" token.
type ReferenceFact struct {
	Position `yaml:",inline"`

	IsReference bool `json:"is_reference" yaml:"is_reference"`
}

// UnitReport collects every structural fact of one analysed unit.
type UnitReport struct {
	Path        string          `json:"path"                   yaml:"path"`
	UnitID      uuid.UUID       `json:"unit_id"                yaml:"unit_id"`
	HostVersion string          `json:"host_version,omitempty" yaml:"host_version,omitempty"`
	Tokens      int             `json:"tokens"                 yaml:"tokens"`
	Cached      bool            `json:"cached"                 yaml:"cached"`
	ActiveRules []string        `json:"active_rules"           yaml:"active_rules"`
	Brackets    []BracketFact   `json:"brackets"               yaml:"brackets"`
	Arrows      []ArrowFact     `json:"arrows"                 yaml:"arrows"`
	Owners      []OwnerFact     `json:"owners"                 yaml:"owners"`
	References  []ReferenceFact `json:"references"             yaml:"references"`
	Memo        structure.Stats `json:"memo"                   yaml:"memo"`
}

// RuleView is one compensation rule as listed by the rules command.
type RuleView struct {
	ID          string `json:"id"          yaml:"id"`
	Component   string `json:"component"   yaml:"component"`
	Versions    string `json:"versions"    yaml:"versions"`
	Outcome     string `json:"outcome"     yaml:"outcome"`
	Description string `json:"description" yaml:"description"`
	Active      bool   `json:"active"      yaml:"active"`
}
