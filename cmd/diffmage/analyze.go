package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fwojciec/diffmage"
	"github.com/fwojciec/diffmage/git"
	"github.com/fwojciec/diffmage/gitdiff"
)

var (
	analyzeCommitFlag string
	analyzeOutputFlag string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Show the structural analysis of staged changes or a commit",
	Long: `Parse a diff into its structural model and display it without calling
any model.

Examples:
  diffmage analyze                   # Staged changes, compact summary
  diffmage analyze --output table    # Styled per-file table
  diffmage analyze --commit HEAD --output json`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeCommitFlag, "commit", "", "Analyze a commit instead of staged changes")
	analyzeCmd.Flags().StringVar(&analyzeOutputFlag, "output", "summary", "Output format: summary, table, or json")
	rootCmd.AddCommand(analyzeCmd)
}

// AnalyzeApp parses a diff into its structural model and displays it.
type AnalyzeApp struct {
	Repo   string
	Commit string
	Output string
	Git    diffmage.GitRunner
	Parser diffmage.Parser
	Out    io.Writer
}

// Run fetches the diff, parses it, and writes the requested view.
func (a *AnalyzeApp) Run(ctx context.Context) error {
	var diff string
	var err error
	if a.Commit != "" {
		diff, err = a.Git.Show(ctx, a.Repo, a.Commit)
	} else {
		diff, err = a.Git.StagedDiff(ctx, a.Repo)
	}
	if err != nil {
		return err
	}

	analysis, err := a.Parser.Parse(strings.NewReader(diff))
	if err != nil {
		if errors.Is(err, gitdiff.ErrEmptyDiff) {
			return fmt.Errorf("no changes to analyze")
		}
		return err
	}

	switch a.Output {
	case "json":
		data, err := json.MarshalIndent(analysis.Summary(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(a.Out, string(data))
	case "table":
		fmt.Fprintln(a.Out, newRenderer().Analysis(analysis))
	case "summary":
		printSummary(a.Out, analysis)
	default:
		return fmt.Errorf("unknown output format %q", a.Output)
	}
	return nil
}

func printSummary(out io.Writer, analysis *diffmage.CommitAnalysis) {
	fmt.Fprintf(out, "%d files changed, +%d/-%d\n",
		analysis.TotalFiles, analysis.TotalLinesAdded, analysis.TotalLinesRemoved)
	for _, f := range analysis.Files {
		fmt.Fprintf(out, "  %-10s %-13s %s\n", f.ChangeType, f.FileType, f.Path())
	}
	if analysis.SkippedFiles > 0 {
		fmt.Fprintf(out, "  (%d unparseable entries skipped)\n", analysis.SkippedFiles)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := newLogger()

	runner := git.NewRunner()
	app := &AnalyzeApp{
		Repo:   repoFlag,
		Commit: analyzeCommitFlag,
		Output: analyzeOutputFlag,
		Git:    runner,
		Parser: newParser(ctx, logger, runner),
		Out:    cmd.OutOrStdout(),
	}
	return app.Run(ctx)
}
