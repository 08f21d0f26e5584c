package mock

import (
	"context"

	"github.com/fwojciec/diffmage"
)

// Compile-time interface verification.
var _ diffmage.Generator = (*Generator)(nil)

// Generator is a mock implementation of diffmage.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, analysis *diffmage.CommitAnalysis) (string, error)
	EnhanceFn  func(ctx context.Context, message, whyContext string) (string, error)
}

func (g *Generator) Generate(ctx context.Context, analysis *diffmage.CommitAnalysis) (string, error) {
	return g.GenerateFn(ctx, analysis)
}

func (g *Generator) Enhance(ctx context.Context, message, whyContext string) (string, error) {
	return g.EnhanceFn(ctx, message, whyContext)
}
