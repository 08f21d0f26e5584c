package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/diffmage"
	main "github.com/fwojciec/diffmage/cmd/diffmage"
	"github.com/fwojciec/diffmage/gitdiff"
	"github.com/fwojciec/diffmage/mock"
)

var errGit = errors.New("git failed")

func scoredResult(t *testing.T, what, why float64) diffmage.EvaluationResult {
	t.Helper()
	r, err := diffmage.NewEvaluationResult(what, why, "the message matches the change", 0.9, "test-model")
	require.NoError(t, err)
	return r
}

func analysisFixture() *diffmage.CommitAnalysis {
	return diffmage.NewCommitAnalysis([]diffmage.FileDiff{
		{
			NewPath:    "internal/server.go",
			ChangeType: diffmage.ChangeModified,
			FileType:   diffmage.FileTypeSourceCode,
			LinesAdded: 3, LinesRemoved: 1,
		},
		{
			NewPath:    "internal/server_test.go",
			ChangeType: diffmage.ChangeAdded,
			FileType:   diffmage.FileTypeTestCode,
			LinesAdded: 12,
		},
	}, "main")
}

func TestGenerateApp_Run(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	app := &main.GenerateApp{
		Repo: "/repo",
		Git: &mock.GitRunner{
			StagedDiffFn: func(ctx context.Context, repoPath string) (string, error) {
				assert.Equal(t, "/repo", repoPath)
				return "raw diff text", nil
			},
		},
		Parser: &mock.Parser{
			ParseFn: func(r io.Reader) (*diffmage.CommitAnalysis, error) {
				data, err := io.ReadAll(r)
				require.NoError(t, err)
				assert.Equal(t, "raw diff text", string(data))
				return analysisFixture(), nil
			},
		},
		Generator: &mock.Generator{
			GenerateFn: func(ctx context.Context, analysis *diffmage.CommitAnalysis) (string, error) {
				assert.Equal(t, 2, analysis.TotalFiles)
				return "feat: add request routing", nil
			},
		},
		Out: &stdout,
	}

	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, "feat: add request routing\n", stdout.String())
}

func TestGenerateApp_WhyContext(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	app := &main.GenerateApp{
		Repo:       "/repo",
		WhyContext: "fixes #42",
		Git: &mock.GitRunner{
			StagedDiffFn: func(ctx context.Context, repoPath string) (string, error) {
				return "diff", nil
			},
		},
		Parser: &mock.Parser{
			ParseFn: func(r io.Reader) (*diffmage.CommitAnalysis, error) {
				return analysisFixture(), nil
			},
		},
		Generator: &mock.Generator{
			GenerateFn: func(ctx context.Context, analysis *diffmage.CommitAnalysis) (string, error) {
				return "feat: add request routing", nil
			},
			EnhanceFn: func(ctx context.Context, message, whyContext string) (string, error) {
				assert.Equal(t, "feat: add request routing", message)
				assert.Equal(t, "fixes #42", whyContext)
				return "feat: add request routing\n\nFixes #42.", nil
			},
		},
		Out: &stdout,
	}

	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, "feat: add request routing\n\nFixes #42.\n", stdout.String())
}

func TestGenerateApp_NoStagedChanges(t *testing.T) {
	t.Parallel()

	app := &main.GenerateApp{
		Repo: "/repo",
		Git: &mock.GitRunner{
			StagedDiffFn: func(ctx context.Context, repoPath string) (string, error) {
				return "", nil
			},
		},
		Parser: &mock.Parser{
			ParseFn: func(r io.Reader) (*diffmage.CommitAnalysis, error) {
				return nil, gitdiff.ErrEmptyDiff
			},
		},
		Out: &bytes.Buffer{},
	}

	err := app.Run(context.Background())
	assert.ErrorIs(t, err, main.ErrNoStagedChanges)
}

func TestGenerateApp_GitError(t *testing.T) {
	t.Parallel()

	app := &main.GenerateApp{
		Repo: "/repo",
		Git: &mock.GitRunner{
			StagedDiffFn: func(ctx context.Context, repoPath string) (string, error) {
				return "", errGit
			},
		},
		Out: &bytes.Buffer{},
	}

	assert.ErrorIs(t, app.Run(context.Background()), errGit)
}

func TestEvaluateApp_CommitJSON(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	app := &main.EvaluateApp{
		Repo:   "/repo",
		Commit: "abc1234",
		JSON:   true,
		Git: &mock.GitRunner{
			CommitMessageFn: func(ctx context.Context, repoPath, hash string) (string, error) {
				assert.Equal(t, "abc1234", hash)
				return "fix: handle nil pointer", nil
			},
			ShowFn: func(ctx context.Context, repoPath, hash string) (string, error) {
				assert.Equal(t, "abc1234", hash)
				return "commit diff", nil
			},
		},
		Evaluator: &mock.Evaluator{
			EvaluateFn: func(ctx context.Context, message, diff string) (diffmage.EvaluationResult, error) {
				assert.Equal(t, "fix: handle nil pointer", message)
				assert.Equal(t, "commit diff", diff)
				return scoredResult(t, 4.0, 5.0), nil
			},
		},
		Out: &stdout,
	}

	require.NoError(t, app.Run(context.Background()))

	var report struct {
		Scores struct {
			Overall float64 `json:"overall"`
		} `json:"scores"`
		QualityLevel string `json:"quality_level"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
	assert.Equal(t, 4.5, report.Scores.Overall)
	assert.Equal(t, "Good", report.QualityLevel)
}

func TestEvaluateApp_MessageAgainstStagedDiff(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	app := &main.EvaluateApp{
		Repo:    "/repo",
		Message: "feat: add retry logic",
		Git: &mock.GitRunner{
			StagedDiffFn: func(ctx context.Context, repoPath string) (string, error) {
				return "staged diff", nil
			},
		},
		Evaluator: &mock.Evaluator{
			EvaluateFn: func(ctx context.Context, message, diff string) (diffmage.EvaluationResult, error) {
				assert.Equal(t, "feat: add retry logic", message)
				assert.Equal(t, "staged diff", diff)
				return scoredResult(t, 3.0, 3.0), nil
			},
		},
		Out: &stdout,
	}

	require.NoError(t, app.Run(context.Background()))
	assert.Contains(t, stdout.String(), "Commit Message Evaluation")
}

func TestEvaluateApp_InputSelection(t *testing.T) {
	t.Parallel()

	neither := &main.EvaluateApp{Repo: "/repo", Git: &mock.GitRunner{}, Out: &bytes.Buffer{}}
	assert.ErrorIs(t, neither.Run(context.Background()), main.ErrNoInput)

	both := &main.EvaluateApp{
		Repo:    "/repo",
		Message: "feat: x",
		Commit:  "HEAD",
		Git:     &mock.GitRunner{},
		Out:     &bytes.Buffer{},
	}
	assert.ErrorIs(t, both.Run(context.Background()), main.ErrConflictingInput)
}

func TestAnalyzeApp_Summary(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	app := &main.AnalyzeApp{
		Repo:   "/repo",
		Output: "summary",
		Git: &mock.GitRunner{
			StagedDiffFn: func(ctx context.Context, repoPath string) (string, error) {
				return "diff", nil
			},
		},
		Parser: &mock.Parser{
			ParseFn: func(r io.Reader) (*diffmage.CommitAnalysis, error) {
				return analysisFixture(), nil
			},
		},
		Out: &stdout,
	}

	require.NoError(t, app.Run(context.Background()))
	assert.Contains(t, stdout.String(), "2 files changed, +15/-1")
	assert.Contains(t, stdout.String(), "internal/server.go")
	assert.Contains(t, stdout.String(), "internal/server_test.go")
}

func TestAnalyzeApp_CommitJSON(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	app := &main.AnalyzeApp{
		Repo:   "/repo",
		Commit: "abc1234",
		Output: "json",
		Git: &mock.GitRunner{
			ShowFn: func(ctx context.Context, repoPath, hash string) (string, error) {
				assert.Equal(t, "abc1234", hash)
				return "commit diff", nil
			},
		},
		Parser: &mock.Parser{
			ParseFn: func(r io.Reader) (*diffmage.CommitAnalysis, error) {
				return analysisFixture(), nil
			},
		},
		Out: &stdout,
	}

	require.NoError(t, app.Run(context.Background()))
	assert.True(t, json.Valid(stdout.Bytes()))
	assert.Contains(t, stdout.String(), `"files_changed": 2`)
}

func TestAnalyzeApp_UnknownFormat(t *testing.T) {
	t.Parallel()

	app := &main.AnalyzeApp{
		Repo:   "/repo",
		Output: "xml",
		Git: &mock.GitRunner{
			StagedDiffFn: func(ctx context.Context, repoPath string) (string, error) {
				return "diff", nil
			},
		},
		Parser: &mock.Parser{
			ParseFn: func(r io.Reader) (*diffmage.CommitAnalysis, error) {
				return analysisFixture(), nil
			},
		},
		Out: &bytes.Buffer{},
	}

	err := app.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown output format "xml"`)
}

func TestStabilityApp_Run(t *testing.T) {
	t.Parallel()

	calls := 0
	var stdout bytes.Buffer
	outPath := filepath.Join(t.TempDir(), "runs.jsonl")
	app := &main.StabilityApp{
		Repo:      "/repo",
		Commit:    "abc1234",
		Runs:      3,
		Threshold: 0.5,
		OutPath:   outPath,
		Git: &mock.GitRunner{
			CommitMessageFn: func(ctx context.Context, repoPath, hash string) (string, error) {
				return "fix: handle nil pointer", nil
			},
			ShowFn: func(ctx context.Context, repoPath, hash string) (string, error) {
				return "commit diff", nil
			},
		},
		Evaluator: &mock.Evaluator{
			EvaluateFn: func(ctx context.Context, message, diff string) (diffmage.EvaluationResult, error) {
				calls++
				return scoredResult(t, 4.0, 4.0), nil
			},
		},
		Out: &stdout,
	}

	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, 3, calls)

	// Identical scores across runs: zero variance, stable verdict.
	assert.Contains(t, stdout.String(), "STABLE")
	assert.NotContains(t, stdout.String(), "UNSTABLE")
	assert.Contains(t, stdout.String(), "run 3:")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fix: handle nil pointer")
}

func TestReportApp_Run(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	csvPath := filepath.Join(t.TempDir(), "scores.csv")
	app := &main.ReportApp{
		Repo:       "/repo",
		Limit:      2,
		Performers: 1,
		CSVPath:    csvPath,
		Git: &mock.GitRunner{
			LogFn: func(ctx context.Context, repoPath string, limit int) ([]string, error) {
				assert.Equal(t, 2, limit)
				return []string{"aaaa1111", "bbbb2222"}, nil
			},
			CommitMessageFn: func(ctx context.Context, repoPath, hash string) (string, error) {
				return "message for " + hash, nil
			},
			ShowFn: func(ctx context.Context, repoPath, hash string) (string, error) {
				return "diff for " + hash, nil
			},
		},
		Evaluator: &mock.Evaluator{
			EvaluateFn: func(ctx context.Context, message, diff string) (diffmage.EvaluationResult, error) {
				if strings.Contains(message, "aaaa1111") {
					return scoredResult(t, 5.0, 5.0), nil
				}
				return scoredResult(t, 2.0, 2.0), nil
			},
		},
		Out: &stdout,
	}

	require.NoError(t, app.Run(context.Background()))

	assert.Contains(t, stdout.String(), "Commit Quality Report")
	assert.Contains(t, stdout.String(), "Top performers:")
	assert.Contains(t, stdout.String(), "message for aaaa1111")
	assert.Contains(t, stdout.String(), "message for bbbb2222")

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "aaaa1111")
}

func TestReportApp_Range(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	app := &main.ReportApp{
		Repo: "/repo",
		From: "v1.0.0",
		To:   "HEAD",
		Git: &mock.GitRunner{
			RevListFn: func(ctx context.Context, repoPath, from, to string) ([]string, error) {
				assert.Equal(t, "v1.0.0", from)
				assert.Equal(t, "HEAD", to)
				return []string{"cccc3333"}, nil
			},
			CommitMessageFn: func(ctx context.Context, repoPath, hash string) (string, error) {
				return "chore: bump version", nil
			},
			ShowFn: func(ctx context.Context, repoPath, hash string) (string, error) {
				return "version diff", nil
			},
		},
		Evaluator: &mock.Evaluator{
			EvaluateFn: func(ctx context.Context, message, diff string) (diffmage.EvaluationResult, error) {
				return scoredResult(t, 3.0, 3.0), nil
			},
		},
		Out: &stdout,
	}

	require.NoError(t, app.Run(context.Background()))
	assert.Contains(t, stdout.String(), "chore: bump version")
}

func TestReportApp_NoCommits(t *testing.T) {
	t.Parallel()

	app := &main.ReportApp{
		Repo: "/repo",
		Git: &mock.GitRunner{
			LogFn: func(ctx context.Context, repoPath string, limit int) ([]string, error) {
				return nil, nil
			},
		},
		Out: &bytes.Buffer{},
	}

	err := app.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no commits in range")
}
