package gemini

import (
	"fmt"
	"strings"

	"github.com/fwojciec/diffmage"
)

// generationSystemPrompt frames the model as a commit message author.
const generationSystemPrompt = `You are an expert software engineer writing commit messages.

Write commit messages that follow the Conventional Commits format:
<type>(<optional scope>): <description>

Valid types: feat, fix, refactor, docs, test, chore, style, perf, build, ci.

Rules:
- The first line is at most 72 characters.
- Use the imperative mood ("add", not "added" or "adds").
- Describe WHAT changed accurately; include WHY when the diff makes it clear.
- Never invent motivations the diff does not support.
- Respond with the commit message only, no surrounding prose or markdown fences.`

// evaluationSystemPrompt frames the model as a commit message reviewer.
const evaluationSystemPrompt = `You are an expert code reviewer assessing commit message quality.

You judge a commit message against the actual diff it describes, on two
independent dimensions:
- WHAT: does the message accurately describe what changed?
- WHY: does the message communicate why the change was made?

Be rigorous and consistent. A message that merely restates file names earns
a low WHAT score. A message with no rationale earns a low WHY score even if
the WHAT is perfect.`

// BuildGenerationPrompt creates the user prompt for commit message generation.
func BuildGenerationPrompt(analysis *diffmage.CommitAnalysis) string {
	var sb strings.Builder

	sb.WriteString("Generate a commit message for the following staged changes.\n\n")
	fmt.Fprintf(&sb, "## Change summary\n\nFiles changed: %d\nLines added: %d\nLines removed: %d\n",
		analysis.TotalFiles, analysis.TotalLinesAdded, analysis.TotalLinesRemoved)
	if analysis.BranchName != "" {
		fmt.Fprintf(&sb, "Branch: %s\n", analysis.BranchName)
	}

	sb.WriteString("\n## Files\n\n")
	for _, f := range analysis.Files {
		fmt.Fprintf(&sb, "- %s (%s, %s, +%d/-%d)\n",
			f.Path(), f.ChangeType, f.FileType, f.LinesAdded, f.LinesRemoved)
	}

	sb.WriteString("\n## Diff\n\n")
	sb.WriteString(analysis.CombinedDiff())
	sb.WriteString("\n")

	return sb.String()
}

// BuildEvaluationPrompt creates the user prompt for commit message evaluation.
// The model reasons first and scores last, then emits a single JSON object.
func BuildEvaluationPrompt(message, diff string) string {
	var sb strings.Builder

	sb.WriteString("Evaluate how well this commit message describes the diff below.\n\n")
	sb.WriteString("## Commit message\n\n")
	sb.WriteString(message)
	sb.WriteString("\n\n## Diff\n\n")
	sb.WriteString(diff)
	sb.WriteString("\n\n## Task\n\n")
	sb.WriteString(`Think step by step:
1. List what actually changed in the diff.
2. Compare the message's claims against those changes (WHAT).
3. Judge whether the message explains the motivation (WHY).
4. Assign scores from 1.0 (worst) to 5.0 (best) on each dimension.

Respond with JSON matching this schema:
{
  "what_score": 1.0-5.0,
  "why_score": 1.0-5.0,
  "reasoning": "At least one sentence explaining both scores",
  "confidence": 0.0-1.0
}
`)

	return sb.String()
}

// BuildWhyContextPrompt creates the user prompt for enhancing a generated
// message with external WHY context. The model decides whether the context
// actually adds motivation; if not, it keeps the message as is.
func BuildWhyContextPrompt(message, whyContext string) string {
	var sb strings.Builder

	sb.WriteString("A commit message was generated from a diff. Additional context about\n")
	sb.WriteString("the motivation for the change is available below.\n\n")
	sb.WriteString("## Current message\n\n")
	sb.WriteString(message)
	sb.WriteString("\n\n## Context\n\n")
	sb.WriteString(whyContext)
	sb.WriteString("\n\n## Task\n\n")
	sb.WriteString(`If the context contains genuine motivation (the WHY) that the message
lacks, rewrite the message to incorporate it, keeping the Conventional
Commits format. If the context adds nothing, return the message unchanged.

Respond with the commit message only.
`)

	return sb.String()
}

// BuildGenerationConfig returns the content config for generation calls.
func BuildGenerationConfig() *GenerateContentConfig {
	temp := float32(0.3)
	return &GenerateContentConfig{
		SystemInstruction: &Content{
			Parts: []*Part{{Text: generationSystemPrompt}},
		},
		Temperature: &temp,
	}
}

// BuildEvaluationConfig returns the content config for evaluation calls.
// Evaluation uses a low temperature and forces JSON output.
func BuildEvaluationConfig() *GenerateContentConfig {
	temp := float32(0.1)
	return &GenerateContentConfig{
		SystemInstruction: &Content{
			Parts: []*Part{{Text: evaluationSystemPrompt}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
}
