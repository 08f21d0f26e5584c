package mock

import (
	"context"

	"github.com/fwojciec/diffmage"
)

// Compile-time interface verification.
var _ diffmage.Evaluator = (*Evaluator)(nil)

// Evaluator is a mock implementation of diffmage.Evaluator.
type Evaluator struct {
	EvaluateFn func(ctx context.Context, message, diff string) (diffmage.EvaluationResult, error)
}

func (e *Evaluator) Evaluate(ctx context.Context, message, diff string) (diffmage.EvaluationResult, error) {
	return e.EvaluateFn(ctx, message, diff)
}
