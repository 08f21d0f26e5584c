package diffmage

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Score bounds for the WHAT/WHY dimensions.
const (
	MinScore = 1.0
	MaxScore = 5.0
)

// MinReasoningLength is the minimum length of the reasoning text.
const MinReasoningLength = 10

// HighQualityThreshold is the overall-score threshold for IsHighQuality.
// It is deliberately independent of the quality-level boundaries.
const HighQualityThreshold = 3.5

// ValidationError describes a single invalid field in an evaluation result.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// EvaluationResult is the outcome of scoring one (message, diff) pair.
// Construct via NewEvaluationResult to enforce the field constraints;
// results decoded from external sources must be checked with Validate.
type EvaluationResult struct {
	WhatScore  float64 `json:"what_score"` // accuracy of change description, [1.0, 5.0]
	WhyScore   float64 `json:"why_score"`  // clarity of rationale, [1.0, 5.0]
	Reasoning  string  `json:"reasoning"`
	Confidence float64 `json:"confidence"` // [0.0, 1.0]
	ModelUsed  string  `json:"model_used"`
}

// NewEvaluationResult builds a validated EvaluationResult. Out-of-range
// scores are rejected, never clamped.
func NewEvaluationResult(whatScore, whyScore float64, reasoning string, confidence float64, modelUsed string) (EvaluationResult, error) {
	r := EvaluationResult{
		WhatScore:  whatScore,
		WhyScore:   whyScore,
		Reasoning:  reasoning,
		Confidence: confidence,
		ModelUsed:  modelUsed,
	}
	if err := r.Validate(); err != nil {
		return EvaluationResult{}, err
	}
	return r, nil
}

// Validate checks the field constraints.
func (r EvaluationResult) Validate() error {
	if r.WhatScore < MinScore || r.WhatScore > MaxScore {
		return &ValidationError{Field: "what_score", Message: fmt.Sprintf("%.2f is outside [%.1f, %.1f]", r.WhatScore, MinScore, MaxScore)}
	}
	if r.WhyScore < MinScore || r.WhyScore > MaxScore {
		return &ValidationError{Field: "why_score", Message: fmt.Sprintf("%.2f is outside [%.1f, %.1f]", r.WhyScore, MinScore, MaxScore)}
	}
	if r.Confidence < 0.0 || r.Confidence > 1.0 {
		return &ValidationError{Field: "confidence", Message: fmt.Sprintf("%.2f is outside [0.0, 1.0]", r.Confidence)}
	}
	if utf8.RuneCountInString(r.Reasoning) < MinReasoningLength {
		return &ValidationError{Field: "reasoning", Message: fmt.Sprintf("must be at least %d characters", MinReasoningLength)}
	}
	if strings.TrimSpace(r.ModelUsed) == "" {
		return &ValidationError{Field: "model_used", Message: "must not be empty"}
	}
	return nil
}

// OverallScore is the mean of the WHAT and WHY scores, rounded to two
// decimal places.
func (r EvaluationResult) OverallScore() float64 {
	return round2((r.WhatScore + r.WhyScore) / 2)
}

// IsHighQuality reports whether the overall score exceeds
// HighQualityThreshold. Note this is a different boundary than the
// Good/Excellent quality-level split: a "Good" result is also high quality.
func (r EvaluationResult) IsHighQuality() bool {
	return r.OverallScore() > HighQualityThreshold
}

// QualityLevel is the categorical bucket of the overall score.
func (r EvaluationResult) QualityLevel() QualityLevel {
	overall := r.OverallScore()
	switch {
	case overall > 4.5:
		return QualityExcellent
	case overall >= 3.5:
		return QualityGood
	case overall >= 2.5:
		return QualityAverage
	case overall >= 1.5:
		return QualityPoor
	default:
		return QualityVeryPoor
	}
}

// ScoreBreakdown holds the three score dimensions for serialization.
type ScoreBreakdown struct {
	What    float64 `json:"what"`
	Why     float64 `json:"why"`
	Overall float64 `json:"overall"`
}

// EvaluationReport is the serialized form of an evaluation result.
type EvaluationReport struct {
	Scores       ScoreBreakdown `json:"scores"`
	Reasoning    string         `json:"reasoning"`
	Confidence   float64        `json:"confidence"`
	Model        string         `json:"model"`
	QualityLevel string         `json:"quality_level"`
}

// Report returns the serialized form of the result.
func (r EvaluationResult) Report() EvaluationReport {
	return EvaluationReport{
		Scores: ScoreBreakdown{
			What:    r.WhatScore,
			Why:     r.WhyScore,
			Overall: r.OverallScore(),
		},
		Reasoning:    r.Reasoning,
		Confidence:   r.Confidence,
		Model:        r.ModelUsed,
		QualityLevel: r.QualityLevel().String(),
	}
}

// QualityLevel is a categorical quality bucket derived from the overall score.
type QualityLevel int

// Quality levels, lowest to highest.
const (
	QualityVeryPoor QualityLevel = iota
	QualityPoor
	QualityAverage
	QualityGood
	QualityExcellent
)

// String returns the human-readable name of the quality level.
func (q QualityLevel) String() string {
	switch q {
	case QualityExcellent:
		return "Excellent"
	case QualityGood:
		return "Good"
	case QualityAverage:
		return "Average"
	case QualityPoor:
		return "Poor"
	default:
		return "Very Poor"
	}
}

// MarshalText implements encoding.TextMarshaler so quality levels appear
// by name in JSON, including as map keys.
func (q QualityLevel) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *QualityLevel) UnmarshalText(text []byte) error {
	name := string(text)
	for _, level := range QualityLevels() {
		if level.String() == name {
			*q = level
			return nil
		}
	}
	return fmt.Errorf("unknown quality level %q", name)
}

// QualityLevels returns all quality levels in ascending order.
func QualityLevels() []QualityLevel {
	return []QualityLevel{QualityVeryPoor, QualityPoor, QualityAverage, QualityGood, QualityExcellent}
}

// EvaluatedMessage pairs an evaluation result with the message it scored.
type EvaluatedMessage struct {
	Hash    string           `json:"hash,omitempty"` // commit hash when evaluating history
	Message string           `json:"message"`
	Result  EvaluationResult `json:"result"`
}

// Evaluator scores a commit message against a diff. Implementations may
// call an LLM, consult a cache, or apply rules; the contract is only that
// they return a validated result or an error.
type Evaluator interface {
	Evaluate(ctx context.Context, message, diff string) (EvaluationResult, error)
}

// Generator produces commit messages from a structural analysis.
type Generator interface {
	// Generate creates a commit message for the analyzed changes.
	Generate(ctx context.Context, analysis *CommitAnalysis) (string, error)
	// Enhance conditionally rewrites a message with external WHY context.
	// An empty context returns the message unchanged.
	Enhance(ctx context.Context, message, whyContext string) (string, error)
}

// ResultStore persists and retrieves evaluation batches.
type ResultStore interface {
	Load(path string) ([]EvaluatedMessage, error)
	Save(path string, results []EvaluatedMessage) error
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
