package outbound

import (
	"context"

	"phpcsutils/internal/domain/token"
	"phpcsutils/internal/domain/valueobject"
)

// Tokenizer defines the interface to the upstream tokenizer that produces the token streams the
// structural analysis core works on.
type Tokenizer interface {
	// Tokenize lexes source into a frozen stream with whatever links the tokenizer can resolve
	Tokenize(ctx context.Context, source []byte) (*token.Stream, error)

	// HostVersion returns the host tool version whose tokenizer output is produced
	HostVersion() valueobject.HostVersion
}
