package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/diffmage"
)

// Compile-time interface verification.
var _ diffmage.Evaluator = (*Evaluator)(nil)

// DefaultEvaluationTimeout bounds a single evaluation call.
const DefaultEvaluationTimeout = 60 * time.Second

// Evaluator implements diffmage.Evaluator using Google Gemini.
//
// Degenerate inputs short-circuit without an API call: an empty message or
// an empty diff scores 1.0 on both dimensions with full confidence, since
// no model judgment is needed to reach that verdict.
type Evaluator struct {
	client  GenerativeClient
	model   string
	timeout time.Duration
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) EvaluatorOption {
	return func(e *Evaluator) {
		e.timeout = d
	}
}

// NewEvaluator creates a new Evaluator.
func NewEvaluator(client GenerativeClient, model string, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		client:  client,
		model:   model,
		timeout: DefaultEvaluationTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// evaluationResponse is the JSON shape the model is instructed to emit.
type evaluationResponse struct {
	WhatScore  float64 `json:"what_score"`
	WhyScore   float64 `json:"why_score"`
	Reasoning  string  `json:"reasoning"`
	Confidence float64 `json:"confidence"`
}

// Evaluate scores the message against the diff.
func (e *Evaluator) Evaluate(ctx context.Context, message, diff string) (diffmage.EvaluationResult, error) {
	if strings.TrimSpace(message) == "" {
		return diffmage.NewEvaluationResult(1.0, 1.0,
			"Empty commit message provides no information", 1.0, e.model)
	}
	if strings.TrimSpace(diff) == "" {
		return diffmage.NewEvaluationResult(1.0, 1.0,
			"No diff provided. Cannot assess commit content", 1.0, e.model)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	contents := []*Content{{
		Parts: []*Part{{Text: BuildEvaluationPrompt(message, diff)}},
	}}

	resp, err := e.client.GenerateContent(ctx, e.model, contents, BuildEvaluationConfig())
	if err != nil {
		return diffmage.EvaluationResult{}, err
	}
	if resp == nil {
		return diffmage.EvaluationResult{}, fmt.Errorf("gemini: returned nil response")
	}

	var parsed evaluationResponse
	if err := json.Unmarshal([]byte(resp.Text), &parsed); err != nil {
		return diffmage.EvaluationResult{}, fmt.Errorf("gemini: failed to parse evaluation response: %w", err)
	}

	return diffmage.NewEvaluationResult(
		parsed.WhatScore, parsed.WhyScore, parsed.Reasoning, parsed.Confidence, e.model)
}
