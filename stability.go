package diffmage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// Stability test errors.
var (
	ErrEmptyMessage = errors.New("message is required for stability test")
	ErrEmptyInput   = errors.New("diff is required for stability test")
)

// RunResult records the scores and timing of a single evaluation run.
type RunResult struct {
	Run           int     `json:"run"`
	WhatScore     float64 `json:"what_score"`
	WhyScore      float64 `json:"why_score"`
	OverallScore  float64 `json:"overall_score"`
	Confidence    float64 `json:"confidence"`
	ExecutionTime float64 `json:"execution_time"` // seconds
}

// ScoreStats holds summary statistics for one score dimension across runs.
type ScoreStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Range  float64 `json:"range"`
}

// ExecutionTimeStats holds timing statistics across runs, in seconds.
type ExecutionTimeStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// BenchmarkStats groups per-dimension statistics for a stability test.
type BenchmarkStats struct {
	What          ScoreStats         `json:"what"`
	Why           ScoreStats         `json:"why"`
	Overall       ScoreStats         `json:"overall"`
	ExecutionTime ExecutionTimeStats `json:"execution_time"`
}

// StabilityTestResult is the outcome of N repeated evaluations of one
// fixed (message, diff) input.
type StabilityTestResult struct {
	Message           string         `json:"message"`
	Runs              int            `json:"runs"`
	Results           []RunResult    `json:"results"`
	Statistics        BenchmarkStats `json:"statistics"`
	IsStable          bool           `json:"is_stable"`
	MaxVariance       float64        `json:"max_variance"`
	VarianceThreshold float64        `json:"variance_threshold"`
	Timestamp         time.Time      `json:"timestamp"`
}

// RunObserver is notified after each completed evaluation run.
type RunObserver func(RunResult)

// StabilityAnalyzer measures evaluator output variance by scoring the
// same input repeatedly. Runs are strictly sequential: variance
// measurement assumes no cross-run interference.
type StabilityAnalyzer struct {
	evaluator Evaluator
	observer  RunObserver
}

// StabilityOption configures a StabilityAnalyzer.
type StabilityOption func(*StabilityAnalyzer)

// WithRunObserver registers a callback invoked after each run.
func WithRunObserver(fn RunObserver) StabilityOption {
	return func(a *StabilityAnalyzer) {
		a.observer = fn
	}
}

// NewStabilityAnalyzer creates a StabilityAnalyzer using the given
// scoring collaborator.
func NewStabilityAnalyzer(evaluator Evaluator, opts ...StabilityOption) *StabilityAnalyzer {
	a := &StabilityAnalyzer{evaluator: evaluator}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run evaluates the same (message, diff) pair runs times and classifies
// the evaluator as stable when the maximum per-dimension score range does
// not exceed varianceThreshold. The threshold comparison is inclusive; a
// negative threshold is accepted and always yields unstable.
//
// Evaluator errors propagate immediately: a failed run produces no
// partial result.
func (a *StabilityAnalyzer) Run(ctx context.Context, message, diff string, runs int, varianceThreshold float64) (*StabilityTestResult, error) {
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if diff == "" {
		return nil, ErrEmptyInput
	}
	if runs < 1 {
		return nil, fmt.Errorf("runs must be positive, got %d", runs)
	}

	results := make([]RunResult, 0, runs)
	executionTimes := make([]float64, 0, runs)

	for run := 1; run <= runs; run++ {
		start := time.Now()
		result, err := a.evaluator.Evaluate(ctx, message, diff)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", run, err)
		}
		elapsed := time.Since(start).Seconds()
		executionTimes = append(executionTimes, elapsed)

		runData := RunResult{
			Run:           run,
			WhatScore:     result.WhatScore,
			WhyScore:      result.WhyScore,
			OverallScore:  result.OverallScore(),
			Confidence:    result.Confidence,
			ExecutionTime: elapsed,
		}
		results = append(results, runData)

		if a.observer != nil {
			a.observer(runData)
		}
	}

	stats := calculateStatistics(results, executionTimes)
	maxVariance := max(stats.What.Range, stats.Why.Range, stats.Overall.Range)

	return &StabilityTestResult{
		Message:           message,
		Runs:              runs,
		Results:           results,
		Statistics:        stats,
		IsStable:          maxVariance <= varianceThreshold,
		MaxVariance:       maxVariance,
		VarianceThreshold: varianceThreshold,
		Timestamp:         time.Now(),
	}, nil
}

func calculateStatistics(results []RunResult, executionTimes []float64) BenchmarkStats {
	whatScores := make([]float64, len(results))
	whyScores := make([]float64, len(results))
	overallScores := make([]float64, len(results))
	for i, r := range results {
		whatScores[i] = r.WhatScore
		whyScores[i] = r.WhyScore
		overallScores[i] = r.OverallScore
	}

	return BenchmarkStats{
		What:    scoreStats(whatScores),
		Why:     scoreStats(whyScores),
		Overall: scoreStats(overallScores),
		ExecutionTime: ExecutionTimeStats{
			Mean: mean(executionTimes),
			Std:  stdev(executionTimes),
			Min:  minOf(executionTimes),
			Max:  maxOf(executionTimes),
		},
	}
}

// scoreStats computes summary statistics for one dimension. The standard
// deviation of a single run is 0, not undefined.
func scoreStats(scores []float64) ScoreStats {
	if len(scores) == 0 {
		return ScoreStats{}
	}
	lo, hi := minOf(scores), maxOf(scores)
	return ScoreStats{
		Mean:   mean(scores),
		Median: median(scores),
		Std:    stdev(scores),
		Min:    lo,
		Max:    hi,
		Range:  hi - lo,
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// stdev is the sample standard deviation, 0 for fewer than two values.
func stdev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func minOf(values []float64) float64 {
	lo := values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
	}
	return lo
}

func maxOf(values []float64) float64 {
	hi := values[0]
	for _, v := range values[1:] {
		if v > hi {
			hi = v
		}
	}
	return hi
}
