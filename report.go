package diffmage

import (
	"errors"
	"sort"
)

// ErrNoResults is returned when aggregation is requested over an empty batch.
var ErrNoResults = errors.New("no evaluation results to report")

// ScoreSummary holds distributional statistics for one dimension across a
// batch of evaluations.
type ScoreSummary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// ReportStatistics aggregates a batch of evaluations into quality
// distributions and per-dimension summaries.
type ReportStatistics struct {
	TotalEvaluations    int                  `json:"total_evaluations"`
	WhatScores          ScoreSummary         `json:"what_scores"`
	WhyScores           ScoreSummary         `json:"why_scores"`
	OverallScores       ScoreSummary         `json:"overall_scores"`
	Confidence          ScoreSummary         `json:"confidence"`
	QualityDistribution map[QualityLevel]int `json:"quality_distribution"`
	ModelUsage          map[string]int       `json:"model_usage"`
	HighQualityCount    int                  `json:"high_quality_count"`
	LowQualityCount     int                  `json:"low_quality_count"`
}

// AggregateReport computes batch statistics over evaluated messages. It
// fails on an empty batch rather than returning degenerate zeros. The
// quality distribution always contains all five buckets, zero-filled when
// unused.
func AggregateReport(results []EvaluatedMessage) (*ReportStatistics, error) {
	if len(results) == 0 {
		return nil, ErrNoResults
	}

	whatScores := make([]float64, len(results))
	whyScores := make([]float64, len(results))
	overallScores := make([]float64, len(results))
	confidence := make([]float64, len(results))
	for i, r := range results {
		whatScores[i] = r.Result.WhatScore
		whyScores[i] = r.Result.WhyScore
		overallScores[i] = r.Result.OverallScore()
		confidence[i] = r.Result.Confidence
	}

	quality := make(map[QualityLevel]int, len(QualityLevels()))
	for _, level := range QualityLevels() {
		quality[level] = 0
	}
	modelUsage := make(map[string]int)
	highQuality := 0
	for _, r := range results {
		quality[r.Result.QualityLevel()]++
		modelUsage[r.Result.ModelUsed]++
		if r.Result.IsHighQuality() {
			highQuality++
		}
	}

	return &ReportStatistics{
		TotalEvaluations:    len(results),
		WhatScores:          roundedSummary(whatScores),
		WhyScores:           roundedSummary(whyScores),
		OverallScores:       roundedSummary(overallScores),
		Confidence:          summary(confidence),
		QualityDistribution: quality,
		ModelUsage:          modelUsage,
		HighQualityCount:    highQuality,
		LowQualityCount:     len(results) - highQuality,
	}, nil
}

func summary(values []float64) ScoreSummary {
	return ScoreSummary{
		Mean:   mean(values),
		Median: median(values),
		Min:    minOf(values),
		Max:    maxOf(values),
	}
}

func roundedSummary(values []float64) ScoreSummary {
	s := summary(values)
	s.Mean = round2(s.Mean)
	s.Median = round2(s.Median)
	s.Min = round2(s.Min)
	s.Max = round2(s.Max)
	return s
}

// TopPerformers returns up to count results with the highest overall
// scores, best first. The input is not modified.
func TopPerformers(results []EvaluatedMessage, count int) []EvaluatedMessage {
	order := sortedIndices(results, false)
	if count > len(order) {
		count = len(order)
	}
	top := make([]EvaluatedMessage, 0, count)
	for _, i := range order[:count] {
		top = append(top, results[i])
	}
	return top
}

// BottomPerformers returns up to count results with the lowest overall
// scores, worst first, excluding any entries already claimed by the
// top-count set. Exclusion is by position, not by value, so duplicate
// scores are handled correctly and the two sets are always disjoint.
func BottomPerformers(results []EvaluatedMessage, count int) []EvaluatedMessage {
	descOrder := sortedIndices(results, false)
	topCount := count
	if topCount > len(descOrder) {
		topCount = len(descOrder)
	}
	claimed := make(map[int]bool, topCount)
	for _, i := range descOrder[:topCount] {
		claimed[i] = true
	}

	var bottom []EvaluatedMessage
	for _, i := range sortedIndices(results, true) {
		if claimed[i] {
			continue
		}
		bottom = append(bottom, results[i])
		if len(bottom) == count {
			break
		}
	}
	return bottom
}

// sortedIndices returns result indices ordered by overall score. The sort
// is stable so ties preserve input order.
func sortedIndices(results []EvaluatedMessage, ascending bool) []int {
	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa := results[order[a]].Result.OverallScore()
		sb := results[order[b]].Result.OverallScore()
		if ascending {
			return sa < sb
		}
		return sa > sb
	})
	return order
}
