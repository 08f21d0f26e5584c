package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fwojciec/diffmage"
	"github.com/fwojciec/diffmage/git"
)

var (
	evalCommitFlag string
	evalJSONFlag   bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [message]",
	Short: "Score a commit message against a diff",
	Long: `Score how well a commit message describes a diff.

With a message argument, the message is scored against the staged changes.
With --commit, the commit's own message is scored against its diff.

Examples:
  diffmage evaluate "feat: add retry logic"
  diffmage evaluate --commit HEAD
  diffmage evaluate --commit abc1234 --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVar(&evalCommitFlag, "commit", "", "Evaluate an existing commit's message against its diff")
	evaluateCmd.Flags().BoolVar(&evalJSONFlag, "json", false, "Emit the evaluation report as JSON")
	rootCmd.AddCommand(evaluateCmd)
}

// EvaluateApp scores one commit message against one diff.
type EvaluateApp struct {
	Repo      string
	Message   string
	Commit    string
	JSON      bool
	Git       diffmage.GitRunner
	Evaluator diffmage.Evaluator
	Out       io.Writer
}

// Run resolves the input pair, evaluates it, and writes the result.
func (a *EvaluateApp) Run(ctx context.Context) error {
	message, diff, err := resolveInput(ctx, a.Git, a.Repo, a.Message, a.Commit)
	if err != nil {
		return err
	}

	result, err := a.Evaluator.Evaluate(ctx, message, diff)
	if err != nil {
		return err
	}

	if a.JSON {
		data, err := json.MarshalIndent(result.Report(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(a.Out, string(data))
		return nil
	}

	fmt.Fprintln(a.Out, newRenderer().Evaluation(result))
	return nil
}

func runEvaluate(cmd *cobra.Command, args []string) error {
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

	app := &EvaluateApp{
		Repo:      repoFlag,
		Message:   message,
		Commit:    evalCommitFlag,
		JSON:      evalJSONFlag,
		Git:       git.NewRunner(),
		Evaluator: newEvaluator(client, model),
		Out:       cmd.OutOrStdout(),
	}
	return app.Run(ctx)
}
