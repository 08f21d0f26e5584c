// Package mock provides test doubles for diffmage interfaces.
package mock

import (
	"io"

	"github.com/fwojciec/diffmage"
)

// Compile-time interface verification.
var _ diffmage.Parser = (*Parser)(nil)

// Parser is a mock implementation of diffmage.Parser.
type Parser struct {
	ParseFn func(r io.Reader) (*diffmage.CommitAnalysis, error)
}

func (p *Parser) Parse(r io.Reader) (*diffmage.CommitAnalysis, error) {
	return p.ParseFn(r)
}
