package outbound

import (
	"context"

	"phpcsutils/internal/domain/entity"
	"phpcsutils/internal/domain/valueobject"
)

// UnitStore keeps analysed units so that unchanged sources are not tokenized and analysed
// again.
type UnitStore interface {
	// Get returns the unit stored for path if it was built from source for version v.
	// A unit built from other source is dropped.
	Get(ctx context.Context, path string, source []byte, v valueobject.HostVersion) (*entity.AnalysisUnit, bool)

	// Put stores unit under its path, replacing any previous unit
	Put(ctx context.Context, unit *entity.AnalysisUnit)

	// Invalidate drops the unit stored for path
	Invalidate(ctx context.Context, path string)

	// Len returns the number of stored units
	Len() int
}
