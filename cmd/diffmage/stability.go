package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fwojciec/diffmage"
	"github.com/fwojciec/diffmage/gemini"
	"github.com/fwojciec/diffmage/git"
	"github.com/fwojciec/diffmage/jsonl"
)

var (
	stabilityRunsFlag      int
	stabilityThresholdFlag float64
	stabilityCommitFlag    string
	stabilityOutFlag       string
)

var stabilityCmd = &cobra.Command{
	Use:   "stability [message]",
	Short: "Measure evaluator score variance on a fixed input",
	Long: `Evaluate the same (message, diff) pair repeatedly and report score
variance. The input is stable when the widest per-dimension score range
stays within the threshold.

Examples:
  diffmage stability --commit HEAD
  diffmage stability "feat: add retry" --runs 10 --threshold 0.5
  diffmage stability --commit HEAD --out runs.jsonl`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStability,
}

func init() {
	stabilityCmd.Flags().IntVar(&stabilityRunsFlag, "runs", 5, "Number of evaluation runs")
	stabilityCmd.Flags().Float64Var(&stabilityThresholdFlag, "threshold", 0.5, "Maximum acceptable score range")
	stabilityCmd.Flags().StringVar(&stabilityCommitFlag, "commit", "", "Use a commit's message and diff as the fixed input")
	stabilityCmd.Flags().StringVar(&stabilityOutFlag, "out", "", "Append the full result to a JSONL file")
	rootCmd.AddCommand(stabilityCmd)
}

// StabilityApp evaluates a fixed input repeatedly and reports score variance.
type StabilityApp struct {
	Repo      string
	Message   string
	Commit    string
	Runs      int
	Threshold float64
	OutPath   string
	Git       diffmage.GitRunner
	Evaluator diffmage.Evaluator
	Out       io.Writer
}

// Run resolves the input pair, runs the analyzer, and writes per-run
// lines followed by the verdict.
func (a *StabilityApp) Run(ctx context.Context) error {
	message, diff, err := resolveInput(ctx, a.Git, a.Repo, a.Message, a.Commit)
	if err != nil {
		return err
	}

	renderer := newRenderer()
	analyzer := diffmage.NewStabilityAnalyzer(a.Evaluator,
		diffmage.WithRunObserver(func(run diffmage.RunResult) {
			fmt.Fprintln(a.Out, renderer.Run(run))
		}))

	result, err := analyzer.Run(ctx, message, diff, a.Runs, a.Threshold)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.Out)
	fmt.Fprintln(a.Out, renderer.Stability(result))

	if a.OutPath != "" {
		if err := jsonl.NewSaver().Save(a.OutPath, *result); err != nil {
			return fmt.Errorf("failed to save result: %w", err)
		}
		fmt.Fprintf(a.Out, "Saved to %s\n", a.OutPath)
	}
	return nil
}

func runStability(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	model, err := resolveModel()
	if err != nil {
		return err
	}

	client, err := newGeminiClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	var message string
	if len(args) == 1 {
		message = args[0]
	}

	app := &StabilityApp{
		Repo:      repoFlag,
		Message:   message,
		Commit:    stabilityCommitFlag,
		Runs:      stabilityRunsFlag,
		Threshold: stabilityThresholdFlag,
		OutPath:   stabilityOutFlag,
		Git:       git.NewRunner(),
		// Variance measurement needs fresh model calls; the cache would
		// make every run identical.
		Evaluator: gemini.NewEvaluator(client, model.Name),
		Out:       cmd.OutOrStdout(),
	}
	return app.Run(ctx)
}
