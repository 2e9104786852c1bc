// Package lexer is the tokenizer adapter. It turns PHP-like source into a frozen token stream
// with pre-resolved structural links, and can reproduce the output of older host tokenizer
// versions so the compensation table can be exercised end to end.
package lexer

import (
	"context"
	"fmt"

	"phpcsutils/internal/application/common/slogger"
	"phpcsutils/internal/domain/errors/domain"
	"phpcsutils/internal/domain/token"
	"phpcsutils/internal/domain/valueobject"
)

// Options configure a Lexer.
type Options struct {
	// HostVersion selects the tokenizer behaviour to reproduce. The zero value tokenizes the
	// way the current host does.
	HostVersion valueobject.HostVersion
	// MaxSourceBytes rejects larger sources. Zero means no limit.
	MaxSourceBytes int
}

// Lexer implements outbound.Tokenizer.
type Lexer struct {
	opts Options
	prof profile
}

// New creates a Lexer.
func New(opts Options) *Lexer {
	return &Lexer{opts: opts, prof: profileFor(opts.HostVersion)}
}

// HostVersion returns the host version whose tokenizer output the lexer reproduces.
func (l *Lexer) HostVersion() valueobject.HostVersion {
	return l.opts.HostVersion
}

// Tokenize lexes and links source into a Stream.
func (l *Lexer) Tokenize(ctx context.Context, source []byte) (*token.Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.opts.MaxSourceBytes > 0 && len(source) > l.opts.MaxSourceBytes {
		return nil, fmt.Errorf("%w: source of %d bytes exceeds the limit of %d bytes",
			domain.ErrInvalidInput, len(source), l.opts.MaxSourceBytes)
	}

	toks := l.Scan(string(source))
	stream := token.NewStream(toks)
	slogger.Debug(ctx, "Tokenized source", slogger.Fields{
		"stream_id":    stream.ID().String(),
		"tokens":       stream.Len(),
		"host_version": l.opts.HostVersion.String(),
	})
	return stream, nil
}

// Scan returns the linked tokens of source without freezing them.
func (l *Lexer) Scan(source string) []token.Token {
	toks := newScanner(source).run()
	link(toks, l.prof)
	return toks
}

// MustStream tokenizes source for the current host. It is intended for tests and examples.
func MustStream(source string) *token.Stream {
	return token.NewStream(New(Options{}).Scan(source))
}

// MustStreamFor tokenizes source the way the given host version would. It panics on an
// invalid version.
func MustStreamFor(source, hostVersion string) *token.Stream {
	return token.NewStream(New(Options{HostVersion: valueobject.MustHostVersion(hostVersion)}).Scan(source))
}
