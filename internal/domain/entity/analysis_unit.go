package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"phpcsutils/internal/domain/structure"
	"phpcsutils/internal/domain/token"
	"phpcsutils/internal/domain/valueobject"

	"github.com/google/uuid"
)

// AnalysisUnit is one analysed source file: its frozen token stream and the analyzer holding
// the memoized structural facts of that stream. A unit is never updated; edited source
// produces a new unit.
type AnalysisUnit struct {
	id          uuid.UUID
	path        string
	sourceHash  string
	hostVersion valueobject.HostVersion
	stream      *token.Stream
	analyzer    *structure.Analyzer
	createdAt   time.Time
}

// NewAnalysisUnit creates a unit for source. The analyzer must be bound to stream.
func NewAnalysisUnit(path string, source []byte, analyzer *structure.Analyzer) *AnalysisUnit {
	stream := analyzer.Stream()
	return &AnalysisUnit{
		id:          stream.ID(),
		path:        path,
		sourceHash:  HashSource(source),
		hostVersion: analyzer.HostVersion(),
		stream:      stream,
		analyzer:    analyzer,
		createdAt:   time.Now(),
	}
}

// HashSource returns the hex encoded SHA-256 of source.
func HashSource(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}

// ID returns the identity of the unit, which is the identity of its stream.
func (u *AnalysisUnit) ID() uuid.UUID { return u.id }

// Path returns the path the source was read from.
func (u *AnalysisUnit) Path() string { return u.path }

// SourceHash returns the hash of the source the unit was built from.
func (u *AnalysisUnit) SourceHash() string { return u.sourceHash }

// HostVersion returns the host version the unit was analysed for.
func (u *AnalysisUnit) HostVersion() valueobject.HostVersion { return u.hostVersion }

// Stream returns the token stream.
func (u *AnalysisUnit) Stream() *token.Stream { return u.stream }

// Analyzer returns the analyzer bound to the stream.
func (u *AnalysisUnit) Analyzer() *structure.Analyzer { return u.analyzer }

// CreatedAt returns when the unit was built.
func (u *AnalysisUnit) CreatedAt() time.Time { return u.createdAt }

// Matches reports whether the unit was built from source for host version v.
func (u *AnalysisUnit) Matches(source []byte, v valueobject.HostVersion) bool {
	return u.sourceHash == HashSource(source) && u.hostVersion.Compare(v) == 0
}
