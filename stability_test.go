package diffmage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/diffmage"
	"github.com/fwojciec/diffmage/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedEvaluator(t *testing.T, what, why float64) *mock.Evaluator {
	t.Helper()
	return &mock.Evaluator{
		EvaluateFn: func(ctx context.Context, message, diff string) (diffmage.EvaluationResult, error) {
			return diffmage.NewEvaluationResult(what, why, "scores held constant for testing", 0.9, "mock-model")
		},
	}
}

func TestStabilityAnalyzer_Run_IdenticalRuns(t *testing.T) {
	t.Parallel()

	a := diffmage.NewStabilityAnalyzer(fixedEvaluator(t, 4.0, 3.0))

	result, err := a.Run(context.Background(), "fix: handle nil input", "diff text", 5, 0.0)

	require.NoError(t, err)
	assert.Equal(t, 5, result.Runs)
	require.Len(t, result.Results, 5)

	// Identical scores across runs: zero variance, stable even at threshold 0.
	assert.Equal(t, 0.0, result.MaxVariance)
	assert.True(t, result.IsStable)
	assert.Equal(t, 4.0, result.Statistics.What.Mean)
	assert.Equal(t, 4.0, result.Statistics.What.Median)
	assert.Equal(t, 0.0, result.Statistics.What.Std)
	assert.Equal(t, 0.0, result.Statistics.What.Range)
	assert.Equal(t, 3.5, result.Statistics.Overall.Mean)

	// Run records are 1-indexed and ordered.
	for i, run := range result.Results {
		assert.Equal(t, i+1, run.Run)
		assert.Equal(t, 4.0, run.WhatScore)
		assert.Equal(t, 3.5, run.OverallScore)
	}
}

func TestStabilityAnalyzer_Run_SingleRunStd(t *testing.T) {
	t.Parallel()

	a := diffmage.NewStabilityAnalyzer(fixedEvaluator(t, 4.0, 4.0))

	result, err := a.Run(context.Background(), "msg", "diff", 1, 0.2)

	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Statistics.What.Std)
	assert.Equal(t, 0.0, result.Statistics.Why.Std)
	assert.Equal(t, 0.0, result.Statistics.Overall.Std)
	assert.Equal(t, 0.0, result.Statistics.ExecutionTime.Std)
	assert.True(t, result.IsStable)
}

func TestStabilityAnalyzer_Run_VaryingScores(t *testing.T) {
	t.Parallel()

	scores := []float64{3.0, 4.0, 5.0}
	i := 0
	evaluator := &mock.Evaluator{
		EvaluateFn: func(ctx context.Context, message, diff string) (diffmage.EvaluationResult, error) {
			s := scores[i]
			i++
			return diffmage.NewEvaluationResult(s, 3.0, "varying what score across runs", 0.9, "mock-model")
		},
	}
	a := diffmage.NewStabilityAnalyzer(evaluator)

	result, err := a.Run(context.Background(), "msg", "diff", 3, 0.2)

	require.NoError(t, err)
	assert.Equal(t, 4.0, result.Statistics.What.Mean)
	assert.Equal(t, 4.0, result.Statistics.What.Median)
	assert.Equal(t, 3.0, result.Statistics.What.Min)
	assert.Equal(t, 5.0, result.Statistics.What.Max)
	assert.Equal(t, 2.0, result.Statistics.What.Range)
	assert.InDelta(t, 1.0, result.Statistics.What.Std, 1e-9)

	// WHY held constant; overall range is half the WHAT range.
	assert.Equal(t, 0.0, result.Statistics.Why.Range)
	assert.Equal(t, 1.0, result.Statistics.Overall.Range)

	assert.Equal(t, 2.0, result.MaxVariance)
	assert.False(t, result.IsStable)
}

func TestStabilityAnalyzer_Run_ThresholdInclusive(t *testing.T) {
	t.Parallel()

	scores := []float64{3.0, 3.5}
	i := 0
	evaluator := &mock.Evaluator{
		EvaluateFn: func(ctx context.Context, message, diff string) (diffmage.EvaluationResult, error) {
			s := scores[i]
			i++
			return diffmage.NewEvaluationResult(s, s, "threshold boundary test run", 0.9, "mock-model")
		},
	}
	a := diffmage.NewStabilityAnalyzer(evaluator)

	result, err := a.Run(context.Background(), "msg", "diff", 2, 0.5)

	require.NoError(t, err)
	// Variance exactly at threshold counts as stable.
	assert.Equal(t, 0.5, result.MaxVariance)
	assert.True(t, result.IsStable)
}

func TestStabilityAnalyzer_Run_NegativeThreshold(t *testing.T) {
	t.Parallel()

	a := diffmage.NewStabilityAnalyzer(fixedEvaluator(t, 4.0, 4.0))

	// Negative thresholds are accepted, never rejected, and always unstable.
	result, err := a.Run(context.Background(), "msg", "diff", 3, -0.1)

	require.NoError(t, err)
	assert.Equal(t, 0.0, result.MaxVariance)
	assert.False(t, result.IsStable)
}

func TestStabilityAnalyzer_Run_EmptyInputs(t *testing.T) {
	t.Parallel()

	a := diffmage.NewStabilityAnalyzer(fixedEvaluator(t, 4.0, 4.0))

	_, err := a.Run(context.Background(), "", "diff", 3, 0.2)
	assert.ErrorIs(t, err, diffmage.ErrEmptyMessage)

	_, err = a.Run(context.Background(), "msg", "", 3, 0.2)
	assert.ErrorIs(t, err, diffmage.ErrEmptyInput)
}

func TestStabilityAnalyzer_Run_EvaluatorErrorPropagates(t *testing.T) {
	t.Parallel()

	scorerErr := errors.New("rate limited")
	calls := 0
	evaluator := &mock.Evaluator{
		EvaluateFn: func(ctx context.Context, message, diff string) (diffmage.EvaluationResult, error) {
			calls++
			if calls == 2 {
				return diffmage.EvaluationResult{}, scorerErr
			}
			return diffmage.NewEvaluationResult(4.0, 4.0, "successful run before failure", 0.9, "mock-model")
		},
	}
	a := diffmage.NewStabilityAnalyzer(evaluator)

	result, err := a.Run(context.Background(), "msg", "diff", 5, 0.2)

	// Fail-fast: no partial result, no retries.
	require.ErrorIs(t, err, scorerErr)
	assert.Nil(t, result)
	assert.Equal(t, 2, calls)
}

func TestStabilityAnalyzer_Run_Observer(t *testing.T) {
	t.Parallel()

	var observed []int
	a := diffmage.NewStabilityAnalyzer(
		fixedEvaluator(t, 4.0, 4.0),
		diffmage.WithRunObserver(func(r diffmage.RunResult) {
			observed = append(observed, r.Run)
		}),
	)

	_, err := a.Run(context.Background(), "msg", "diff", 3, 0.2)

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, observed)
}
