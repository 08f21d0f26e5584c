package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fwojciec/diffmage"
	"github.com/fwojciec/diffmage/gemini"
	"github.com/fwojciec/diffmage/git"
	"github.com/fwojciec/diffmage/gitdiff"
)

var whyContextFlag string

// ErrNoStagedChanges is returned when generation finds nothing staged.
var ErrNoStagedChanges = errors.New("no staged changes (use 'git add' first)")

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a commit message for staged changes",
	Long: `Generate a commit message for the currently staged changes.

Examples:
  diffmage generate                      # Describe what is staged
  diffmage generate --why "fixes #42"    # Fold motivation into the message`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&whyContextFlag, "why", "", "External context about why the change was made")
	rootCmd.AddCommand(generateCmd)
}

// GenerateApp produces a commit message for the staged diff.
type GenerateApp struct {
	Repo       string
	WhyContext string
	Git        diffmage.GitRunner
	Parser     diffmage.Parser
	Generator  diffmage.Generator
	Out        io.Writer
}

// Run reads the staged diff, parses it, and writes the generated message.
func (a *GenerateApp) Run(ctx context.Context) error {
	diff, err := a.Git.StagedDiff(ctx, a.Repo)
	if err != nil {
		return err
	}

	analysis, err := a.Parser.Parse(strings.NewReader(diff))
	if err != nil {
		if errors.Is(err, gitdiff.ErrEmptyDiff) {
			return ErrNoStagedChanges
		}
		return err
	}

	message, err := a.Generator.Generate(ctx, analysis)
	if err != nil {
		return err
	}

	if strings.TrimSpace(a.WhyContext) != "" {
		message, err = a.Generator.Enhance(ctx, message, a.WhyContext)
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(a.Out, message)
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := newLogger()

	model, err := resolveModel()
	if err != nil {
		return err
	}

	client, err := newGeminiClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	runner := git.NewRunner()
	app := &GenerateApp{
		Repo:       repoFlag,
		WhyContext: whyContextFlag,
		Git:        runner,
		Parser:     newParser(ctx, logger, runner),
		Generator:  gemini.NewGenerator(client, model.Name),
		Out:        cmd.OutOrStdout(),
	}
	return app.Run(ctx)
}
