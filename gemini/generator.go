package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fwojciec/diffmage"
)

// Compile-time interface verification.
var _ diffmage.Generator = (*Generator)(nil)

// ErrNoChanges is returned when generation is requested for an analysis
// with no reconstructable content.
var ErrNoChanges = errors.New("no changes to describe")

// Generator implements diffmage.Generator using Google Gemini.
type Generator struct {
	client GenerativeClient
	model  string
}

// NewGenerator creates a new Generator.
func NewGenerator(client GenerativeClient, model string) *Generator {
	return &Generator{client: client, model: model}
}

// Generate creates a commit message for the analyzed changes.
func (g *Generator) Generate(ctx context.Context, analysis *diffmage.CommitAnalysis) (string, error) {
	if analysis == nil || analysis.TotalFiles == 0 || strings.TrimSpace(analysis.CombinedDiff()) == "" {
		return "", ErrNoChanges
	}

	contents := []*Content{{
		Parts: []*Part{{Text: BuildGenerationPrompt(analysis)}},
	}}

	resp, err := g.client.GenerateContent(ctx, g.model, contents, BuildGenerationConfig())
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", fmt.Errorf("gemini: returned nil response")
	}

	return cleanMessage(resp.Text), nil
}

// Enhance conditionally rewrites a message with external WHY context.
// An empty context is a no-op and never reaches the API.
func (g *Generator) Enhance(ctx context.Context, message, whyContext string) (string, error) {
	if strings.TrimSpace(whyContext) == "" {
		return message, nil
	}

	contents := []*Content{{
		Parts: []*Part{{Text: BuildWhyContextPrompt(message, whyContext)}},
	}}

	resp, err := g.client.GenerateContent(ctx, g.model, contents, BuildGenerationConfig())
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", fmt.Errorf("gemini: returned nil response")
	}

	return cleanMessage(resp.Text), nil
}

// cleanMessage strips whitespace and any markdown fences the model may
// wrap the message in despite instructions.
func cleanMessage(text string) string {
	msg := strings.TrimSpace(text)
	if strings.HasPrefix(msg, "```") {
		msg = strings.TrimPrefix(msg, "```")
		// Drop an optional language tag on the opening fence.
		if idx := strings.Index(msg, "\n"); idx >= 0 && !strings.Contains(msg[:idx], " ") {
			msg = msg[idx+1:]
		}
		msg = strings.TrimSuffix(strings.TrimSpace(msg), "```")
		msg = strings.TrimSpace(msg)
	}
	return msg
}
