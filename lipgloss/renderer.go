// Package lipgloss renders evaluation output for the terminal using the
// Lipgloss styling library.
package lipgloss

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/diffmage"
)

// Catppuccin Mocha.
const (
	colorGreen  = "#a6e3a1"
	colorRed    = "#f38ba8"
	colorYellow = "#f9e2af"
	colorBlue   = "#89b4fa"
	colorMuted  = "#6c7086"
	colorText   = "#cdd6f4"
)

// Renderer formats evaluation results, stability tests, and batch reports
// for terminal display.
type Renderer struct {
	title  lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	good   lipgloss.Style
	bad    lipgloss.Style
	warn   lipgloss.Style
	muted  lipgloss.Style
	indent lipgloss.Style
}

// NewRenderer creates a Renderer with the default dark palette.
func NewRenderer() *Renderer {
	return &Renderer{
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorBlue)),
		label:  lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted)),
		value:  lipgloss.NewStyle().Foreground(lipgloss.Color(colorText)),
		good:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorGreen)),
		bad:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorRed)),
		warn:   lipgloss.NewStyle().Foreground(lipgloss.Color(colorYellow)),
		muted:  lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted)),
		indent: lipgloss.NewStyle().PaddingLeft(2),
	}
}

// scoreStyle picks a style by score on the 1-5 scale.
func (r *Renderer) scoreStyle(score float64) lipgloss.Style {
	switch {
	case score > diffmage.HighQualityThreshold:
		return r.good
	case score >= 2.5:
		return r.warn
	default:
		return r.bad
	}
}

// Evaluation renders a single evaluation result.
func (r *Renderer) Evaluation(result diffmage.EvaluationResult) string {
	var sb strings.Builder

	sb.WriteString(r.title.Render("Commit Message Evaluation"))
	sb.WriteString("\n\n")

	overall := result.OverallScore()
	fmt.Fprintf(&sb, "%s %s\n", r.label.Render("WHAT (accuracy):   "), r.scoreStyle(result.WhatScore).Render(fmt.Sprintf("%.1f/5.0", result.WhatScore)))
	fmt.Fprintf(&sb, "%s %s\n", r.label.Render("WHY (rationale):   "), r.scoreStyle(result.WhyScore).Render(fmt.Sprintf("%.1f/5.0", result.WhyScore)))
	fmt.Fprintf(&sb, "%s %s %s\n", r.label.Render("Overall:           "), r.scoreStyle(overall).Render(fmt.Sprintf("%.2f/5.0", overall)), r.muted.Render("("+result.QualityLevel().String()+")"))
	fmt.Fprintf(&sb, "%s %s\n", r.label.Render("Confidence:        "), r.value.Render(fmt.Sprintf("%.0f%%", result.Confidence*100)))
	fmt.Fprintf(&sb, "%s %s\n", r.label.Render("Model:             "), r.value.Render(result.ModelUsed))

	sb.WriteString("\n")
	sb.WriteString(r.label.Render("Reasoning:"))
	sb.WriteString("\n")
	sb.WriteString(r.indent.Render(r.value.Render(result.Reasoning)))
	sb.WriteString("\n")

	return sb.String()
}

// Run renders a single stability run line, suitable for progress output.
func (r *Renderer) Run(run diffmage.RunResult) string {
	return fmt.Sprintf("%s %s",
		r.muted.Render(fmt.Sprintf("run %d:", run.Run)),
		r.value.Render(fmt.Sprintf("what=%.1f why=%.1f overall=%.2f (%.1fs)",
			run.WhatScore, run.WhyScore, run.OverallScore, run.ExecutionTime)))
}

// Stability renders a full stability test result.
func (r *Renderer) Stability(result *diffmage.StabilityTestResult) string {
	var sb strings.Builder

	sb.WriteString(r.title.Render("Evaluation Stability Test"))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "%s %s\n", r.label.Render("Message:"), r.value.Render(firstLine(result.Message)))
	fmt.Fprintf(&sb, "%s %s\n\n", r.label.Render("Runs:   "), r.value.Render(fmt.Sprintf("%d", result.Runs)))

	sb.WriteString(r.renderDimension("WHAT   ", result.Statistics.What))
	sb.WriteString(r.renderDimension("WHY    ", result.Statistics.Why))
	sb.WriteString(r.renderDimension("Overall", result.Statistics.Overall))

	et := result.Statistics.ExecutionTime
	fmt.Fprintf(&sb, "%s %s\n\n", r.label.Render("Timing: "),
		r.muted.Render(fmt.Sprintf("mean=%.1fs std=%.1fs min=%.1fs max=%.1fs", et.Mean, et.Std, et.Min, et.Max)))

	verdict := r.bad.Render("UNSTABLE")
	if result.IsStable {
		verdict = r.good.Render("STABLE")
	}
	fmt.Fprintf(&sb, "%s %s %s\n", r.label.Render("Verdict:"), verdict,
		r.muted.Render(fmt.Sprintf("(max variance %.2f, threshold %.2f)", result.MaxVariance, result.VarianceThreshold)))

	return sb.String()
}

func (r *Renderer) renderDimension(name string, stats diffmage.ScoreStats) string {
	return fmt.Sprintf("%s %s\n",
		r.label.Render(name),
		r.value.Render(fmt.Sprintf("mean=%.2f median=%.2f std=%.2f range=%.2f [%.1f, %.1f]",
			stats.Mean, stats.Median, stats.Std, stats.Range, stats.Min, stats.Max)))
}

// Report renders batch statistics with top and bottom performers.
func (r *Renderer) Report(stats *diffmage.ReportStatistics, top, bottom []diffmage.EvaluatedMessage) string {
	var sb strings.Builder

	sb.WriteString(r.title.Render("Commit Quality Report"))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "%s %s\n", r.label.Render("Evaluations:  "), r.value.Render(fmt.Sprintf("%d", stats.TotalEvaluations)))
	fmt.Fprintf(&sb, "%s %s %s\n\n",
		r.label.Render("High quality: "),
		r.good.Render(fmt.Sprintf("%d", stats.HighQualityCount)),
		r.muted.Render(fmt.Sprintf("(low: %d)", stats.LowQualityCount)))

	sb.WriteString(r.renderSummary("WHAT   ", stats.WhatScores))
	sb.WriteString(r.renderSummary("WHY    ", stats.WhyScores))
	sb.WriteString(r.renderSummary("Overall", stats.OverallScores))
	sb.WriteString("\n")

	sb.WriteString(r.label.Render("Quality distribution:"))
	sb.WriteString("\n")
	levels := diffmage.QualityLevels()
	for i := len(levels) - 1; i >= 0; i-- {
		level := levels[i]
		count := stats.QualityDistribution[level]
		bar := strings.Repeat("█", count)
		fmt.Fprintf(&sb, "  %s %s %s\n",
			r.label.Render(fmt.Sprintf("%-9s", level)),
			r.value.Render(fmt.Sprintf("%3d", count)),
			r.scoreStyleForLevel(level).Render(bar))
	}

	if len(stats.ModelUsage) > 0 {
		sb.WriteString("\n")
		sb.WriteString(r.label.Render("Models:"))
		sb.WriteString("\n")
		models := make([]string, 0, len(stats.ModelUsage))
		for model := range stats.ModelUsage {
			models = append(models, model)
		}
		sort.Strings(models)
		for _, model := range models {
			fmt.Fprintf(&sb, "  %s %s\n", r.value.Render(model), r.muted.Render(fmt.Sprintf("(%d)", stats.ModelUsage[model])))
		}
	}

	if len(top) > 0 {
		sb.WriteString("\n")
		sb.WriteString(r.label.Render("Top performers:"))
		sb.WriteString("\n")
		sb.WriteString(r.renderPerformers(top, r.good))
	}
	if len(bottom) > 0 {
		sb.WriteString("\n")
		sb.WriteString(r.label.Render("Bottom performers:"))
		sb.WriteString("\n")
		sb.WriteString(r.renderPerformers(bottom, r.bad))
	}

	return sb.String()
}

func (r *Renderer) scoreStyleForLevel(level diffmage.QualityLevel) lipgloss.Style {
	switch level {
	case diffmage.QualityExcellent, diffmage.QualityGood:
		return r.good
	case diffmage.QualityAverage:
		return r.warn
	default:
		return r.bad
	}
}

func (r *Renderer) renderSummary(name string, s diffmage.ScoreSummary) string {
	return fmt.Sprintf("%s %s\n",
		r.label.Render(name),
		r.value.Render(fmt.Sprintf("mean=%.2f median=%.2f [%.2f, %.2f]", s.Mean, s.Median, s.Min, s.Max)))
}

func (r *Renderer) renderPerformers(results []diffmage.EvaluatedMessage, style lipgloss.Style) string {
	var sb strings.Builder
	for _, m := range results {
		hash := m.Hash
		if len(hash) > 8 {
			hash = hash[:8]
		}
		fmt.Fprintf(&sb, "  %s %s %s\n",
			style.Render(fmt.Sprintf("%.2f", m.Result.OverallScore())),
			r.muted.Render(hash),
			r.value.Render(firstLine(m.Message)))
	}
	return sb.String()
}

// Analysis renders a parsed analysis as a per-file table.
func (r *Renderer) Analysis(analysis *diffmage.CommitAnalysis) string {
	var sb strings.Builder

	sb.WriteString(r.title.Render("Staged Changes"))
	sb.WriteString("\n\n")

	for _, f := range analysis.Files {
		marker := r.value.Render(f.Path())
		counts := fmt.Sprintf("%s %s",
			r.good.Render(fmt.Sprintf("+%d", f.LinesAdded)),
			r.bad.Render(fmt.Sprintf("-%d", f.LinesRemoved)))
		if f.IsBinary {
			counts = r.muted.Render("binary")
		}
		fmt.Fprintf(&sb, "  %s %s %s\n",
			marker,
			r.muted.Render("("+f.ChangeType.String()+", "+f.FileType.String()+")"),
			counts)
	}

	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s %s\n",
		r.label.Render("Total:"),
		r.value.Render(fmt.Sprintf("%d files, +%d/-%d", analysis.TotalFiles, analysis.TotalLinesAdded, analysis.TotalLinesRemoved)))
	if analysis.SkippedFiles > 0 {
		fmt.Fprintf(&sb, "%s\n", r.warn.Render(fmt.Sprintf("%d file(s) skipped during parsing", analysis.SkippedFiles)))
	}

	return sb.String()
}

func firstLine(s string) string {
	if idx := strings.Index(s, "\n"); idx >= 0 {
		return s[:idx]
	}
	return s
}
