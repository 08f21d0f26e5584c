package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fwojciec/diffmage"
	"github.com/fwojciec/diffmage/fs"
	"github.com/fwojciec/diffmage/gemini"
	"github.com/fwojciec/diffmage/gitdiff"
	"github.com/fwojciec/diffmage/lipgloss"
)

var (
	repoFlag    string
	modelFlag   string
	verboseFlag bool
	noCacheFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "diffmage",
	Short: "AI-powered commit message generation and evaluation",
	Long: `diffmage parses git diffs into a structural model and uses Gemini to
generate commit messages and score existing ones on WHAT (accuracy of the
change description) and WHY (clarity of the rationale).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&repoFlag, "repo", ".", "Path to the git repository")
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", diffmage.DefaultModel().Name, "Gemini model to use")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noCacheFlag, "no-cache", false, "Bypass the evaluation cache")
}

// newLogger builds the console logger shared by all commands.
func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if verboseFlag {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// resolveModel validates the --model flag against the supported set.
func resolveModel() (diffmage.ModelConfig, error) {
	model, err := diffmage.ModelByName(modelFlag)
	if err != nil {
		return diffmage.ModelConfig{}, fmt.Errorf("%w (run 'diffmage models' to list options)", err)
	}
	return model, nil
}

// newGeminiClient creates the API client, requiring GEMINI_API_KEY.
func newGeminiClient(ctx context.Context) (*gemini.Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable required")
	}
	client, err := gemini.NewClient(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return client, nil
}

// newEvaluator wires the Gemini evaluator behind the filesystem cache.
// The cache directory is model-scoped so switching models never reuses
// stale scores.
func newEvaluator(client gemini.GenerativeClient, model diffmage.ModelConfig) diffmage.Evaluator {
	var evaluator diffmage.Evaluator = gemini.NewEvaluator(client, model.Name)
	if !noCacheFlag {
		cacheDir := filepath.Join(fs.DefaultCacheDir(), "eval", model.Name)
		evaluator = fs.NewEvaluator(evaluator, cacheDir)
	}
	return evaluator
}

// newParser builds the diff parser with branch context from the repository.
func newParser(ctx context.Context, logger zerolog.Logger, runner diffmage.GitRunner) *gitdiff.Parser {
	opts := []gitdiff.Option{gitdiff.WithLogger(logger)}
	if branch, err := runner.Branch(ctx, repoFlag); err == nil {
		opts = append(opts, gitdiff.WithBranch(branch))
	}
	return gitdiff.NewParser(opts...)
}

func newRenderer() *lipgloss.Renderer {
	return lipgloss.NewRenderer()
}
