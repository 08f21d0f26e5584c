package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fwojciec/diffmage"
	"github.com/fwojciec/diffmage/csv"
	"github.com/fwojciec/diffmage/git"
	"github.com/fwojciec/diffmage/jsonl"
)

var (
	reportLimitFlag     int
	reportPerformerFlag int
	reportCSVFlag       string
	reportJSONFlag      string
)

// diffCollectors bounds concurrent git subprocesses while collecting diffs.
const diffCollectors = 4

var reportCmd = &cobra.Command{
	Use:   "report [from] [to]",
	Short: "Evaluate a range of commits and aggregate the scores",
	Long: `Evaluate the messages of a commit range against their diffs and report
batch statistics. With no range arguments the last --limit commits are used.

Examples:
  diffmage report                      # Last 10 commits
  diffmage report --limit 50
  diffmage report v1.0.0 HEAD          # Inclusive range
  diffmage report --csv scores.csv --json scores.jsonl`,
	Args: cobra.RangeArgs(0, 2),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().IntVar(&reportLimitFlag, "limit", 10, "Number of recent commits when no range is given")
	reportCmd.Flags().IntVar(&reportPerformerFlag, "performers", 3, "Number of top and bottom performers to show")
	reportCmd.Flags().StringVar(&reportCSVFlag, "csv", "", "Export per-commit scores to a CSV file")
	reportCmd.Flags().StringVar(&reportJSONFlag, "json", "", "Export per-commit scores to a JSONL file")
	rootCmd.AddCommand(reportCmd)
}

// commitInput is one commit's message and diff, ready for evaluation.
type commitInput struct {
	hash    string
	message string
	diff    string
}

// ReportApp evaluates a commit range and aggregates the scores.
type ReportApp struct {
	Repo       string
	From       string
	To         string
	Limit      int
	Performers int
	CSVPath    string
	JSONLPath  string
	Git        diffmage.GitRunner
	Evaluator  diffmage.Evaluator
	Logger     zerolog.Logger
	Out        io.Writer
}

// Run selects the commit range, evaluates each commit's message against
// its diff, and writes the aggregated report plus optional exports.
func (a *ReportApp) Run(ctx context.Context) error {
	var hashes []string
	var err error
	switch {
	case a.From != "" && a.To != "":
		hashes, err = a.Git.RevList(ctx, a.Repo, a.From, a.To)
	case a.From != "":
		hashes, err = a.Git.RevList(ctx, a.Repo, a.From, "HEAD")
	default:
		hashes, err = a.Git.Log(ctx, a.Repo, a.Limit)
	}
	if err != nil {
		return err
	}
	if len(hashes) == 0 {
		return fmt.Errorf("no commits in range")
	}

	inputs, err := a.collectInputs(ctx, hashes)
	if err != nil {
		return err
	}

	// Evaluation runs sequentially: the cache absorbs re-runs and the API
	// rate limits concurrent batches anyway.
	results := make([]diffmage.EvaluatedMessage, 0, len(inputs))
	for i, in := range inputs {
		a.Logger.Debug().Str("hash", in.hash).Int("n", i+1).Int("of", len(inputs)).Msg("evaluating")
		result, err := a.Evaluator.Evaluate(ctx, in.message, in.diff)
		if err != nil {
			return fmt.Errorf("evaluate %s: %w", in.hash, err)
		}
		results = append(results, diffmage.EvaluatedMessage{
			Hash:    in.hash,
			Message: in.message,
			Result:  result,
		})
	}

	stats, err := diffmage.AggregateReport(results)
	if err != nil {
		return err
	}

	top := diffmage.TopPerformers(results, a.Performers)
	bottom := diffmage.BottomPerformers(results, a.Performers)

	fmt.Fprintln(a.Out, newRenderer().Report(stats, top, bottom))

	if a.CSVPath != "" {
		if err := csv.NewExporter().ExportFile(a.CSVPath, results); err != nil {
			return fmt.Errorf("failed to export CSV: %w", err)
		}
		fmt.Fprintf(a.Out, "CSV written to %s\n", a.CSVPath)
	}
	if a.JSONLPath != "" {
		if err := jsonl.NewStore().Save(a.JSONLPath, results); err != nil {
			return fmt.Errorf("failed to export JSONL: %w", err)
		}
		fmt.Fprintf(a.Out, "JSONL written to %s\n", a.JSONLPath)
	}
	return nil
}

// collectInputs fetches message and diff for each hash concurrently,
// preserving commit order.
func (a *ReportApp) collectInputs(ctx context.Context, hashes []string) ([]commitInput, error) {
	inputs := make([]commitInput, len(hashes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(diffCollectors)
	for i, hash := range hashes {
		g.Go(func() error {
			message, err := a.Git.CommitMessage(ctx, a.Repo, hash)
			if err != nil {
				return err
			}
			diff, err := a.Git.Show(ctx, a.Repo, hash)
			if err != nil {
				return err
			}
			inputs[i] = commitInput{hash: hash, message: message, diff: diff}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return inputs, nil
}

func runReport(cmd *cobra.Command, args []string) error {
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

	var from, to string
	if len(args) > 0 {
		from = args[0]
	}
	if len(args) > 1 {
		to = args[1]
	}

	app := &ReportApp{
		Repo:       repoFlag,
		From:       from,
		To:         to,
		Limit:      reportLimitFlag,
		Performers: reportPerformerFlag,
		CSVPath:    reportCSVFlag,
		JSONLPath:  reportJSONFlag,
		Git:        git.NewRunner(),
		Evaluator:  newEvaluator(client, model),
		Logger:     newLogger(),
		Out:        cmd.OutOrStdout(),
	}
	return app.Run(ctx)
}
