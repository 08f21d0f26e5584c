package gemini_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/diffmage"
	"github.com/fwojciec/diffmage/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDiff = `--- main.go
+++ main.go
@@ -1,3 +1,4 @@
 package main
+import "fmt"
`

func TestEvaluator_Evaluate(t *testing.T) {
	t.Parallel()

	t.Run("parses a valid response", func(t *testing.T) {
		t.Parallel()

		client := &gemini.MockGenerativeClient{
			GenerateContentFn: func(ctx context.Context, model string, contents []*gemini.Content, config *gemini.GenerateContentConfig) (*gemini.GenerateContentResponse, error) {
				assert.Equal(t, "gemini-3-flash-preview", model)
				require.Len(t, contents, 1)
				assert.Contains(t, contents[0].Parts[0].Text, "feat: add fmt import")
				assert.Contains(t, contents[0].Parts[0].Text, sampleDiff)
				assert.Equal(t, "application/json", config.ResponseMIMEType)
				return &gemini.GenerateContentResponse{
					Text: `{"what_score": 4.5, "why_score": 3.5, "reasoning": "Accurate description, weak rationale", "confidence": 0.9}`,
				}, nil
			},
		}
		evaluator := gemini.NewEvaluator(client, "gemini-3-flash-preview")

		result, err := evaluator.Evaluate(context.Background(), "feat: add fmt import", sampleDiff)

		require.NoError(t, err)
		assert.Equal(t, 4.5, result.WhatScore)
		assert.Equal(t, 3.5, result.WhyScore)
		assert.Equal(t, 4.0, result.OverallScore())
		assert.Equal(t, 0.9, result.Confidence)
		assert.Equal(t, "gemini-3-flash-preview", result.ModelUsed)
	})

	t.Run("empty message short-circuits without API call", func(t *testing.T) {
		t.Parallel()

		client := &gemini.MockGenerativeClient{
			GenerateContentFn: func(ctx context.Context, model string, contents []*gemini.Content, config *gemini.GenerateContentConfig) (*gemini.GenerateContentResponse, error) {
				t.Fatal("unexpected API call")
				return nil, nil
			},
		}
		evaluator := gemini.NewEvaluator(client, "gemini-3-flash-preview")

		result, err := evaluator.Evaluate(context.Background(), "   ", sampleDiff)

		require.NoError(t, err)
		assert.Equal(t, 1.0, result.WhatScore)
		assert.Equal(t, 1.0, result.WhyScore)
		assert.Equal(t, 1.0, result.Confidence)
		assert.Equal(t, "Empty commit message provides no information", result.Reasoning)
	})

	t.Run("empty diff short-circuits without API call", func(t *testing.T) {
		t.Parallel()

		client := &gemini.MockGenerativeClient{
			GenerateContentFn: func(ctx context.Context, model string, contents []*gemini.Content, config *gemini.GenerateContentConfig) (*gemini.GenerateContentResponse, error) {
				t.Fatal("unexpected API call")
				return nil, nil
			},
		}
		evaluator := gemini.NewEvaluator(client, "gemini-3-flash-preview")

		result, err := evaluator.Evaluate(context.Background(), "feat: something", "")

		require.NoError(t, err)
		assert.Equal(t, 1.0, result.WhatScore)
		assert.Equal(t, 1.0, result.WhyScore)
		assert.Equal(t, "No diff provided. Cannot assess commit content", result.Reasoning)
	})

	t.Run("propagates API errors", func(t *testing.T) {
		t.Parallel()

		apiErr := gemini.NewAPIError(429, "rate limited")
		client := &gemini.MockGenerativeClient{
			GenerateContentFn: func(ctx context.Context, model string, contents []*gemini.Content, config *gemini.GenerateContentConfig) (*gemini.GenerateContentResponse, error) {
				return nil, apiErr
			},
		}
		evaluator := gemini.NewEvaluator(client, "gemini-3-flash-preview")

		_, err := evaluator.Evaluate(context.Background(), "feat: something", sampleDiff)

		var got *gemini.APIError
		require.ErrorAs(t, err, &got)
		assert.Equal(t, 429, got.StatusCode)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()

		client := &gemini.MockGenerativeClient{
			GenerateContentFn: func(ctx context.Context, model string, contents []*gemini.Content, config *gemini.GenerateContentConfig) (*gemini.GenerateContentResponse, error) {
				return &gemini.GenerateContentResponse{Text: "not json at all"}, nil
			},
		}
		evaluator := gemini.NewEvaluator(client, "gemini-3-flash-preview")

		_, err := evaluator.Evaluate(context.Background(), "feat: something", sampleDiff)

		assert.Error(t, err)
	})

	t.Run("rejects out-of-range scores instead of clamping", func(t *testing.T) {
		t.Parallel()

		client := &gemini.MockGenerativeClient{
			GenerateContentFn: func(ctx context.Context, model string, contents []*gemini.Content, config *gemini.GenerateContentConfig) (*gemini.GenerateContentResponse, error) {
				return &gemini.GenerateContentResponse{
					Text: `{"what_score": 5.5, "why_score": 3.0, "reasoning": "Scores out of range", "confidence": 0.8}`,
				}, nil
			},
		}
		evaluator := gemini.NewEvaluator(client, "gemini-3-flash-preview")

		_, err := evaluator.Evaluate(context.Background(), "feat: something", sampleDiff)

		var validationErr *diffmage.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "what_score", validationErr.Field)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		client := &gemini.MockGenerativeClient{
			GenerateContentFn: func(ctx context.Context, model string, contents []*gemini.Content, config *gemini.GenerateContentConfig) (*gemini.GenerateContentResponse, error) {
				return nil, ctx.Err()
			},
		}
		evaluator := gemini.NewEvaluator(client, "gemini-3-flash-preview")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := evaluator.Evaluate(ctx, "feat: something", sampleDiff)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestAPIError(t *testing.T) {
	t.Parallel()

	err := gemini.NewAPIError(500, "internal error")
	assert.Equal(t, "internal error", err.Error())

	var target *gemini.APIError
	assert.True(t, errors.As(error(err), &target))
}
