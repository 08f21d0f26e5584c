package mock

import (
	"context"

	"github.com/fwojciec/diffmage"
)

// Compile-time interface verification.
var _ diffmage.GitRunner = (*GitRunner)(nil)

// GitRunner is a mock implementation of diffmage.GitRunner.
type GitRunner struct {
	LogFn           func(ctx context.Context, repoPath string, limit int) ([]string, error)
	ShowFn          func(ctx context.Context, repoPath string, hash string) (string, error)
	StagedDiffFn    func(ctx context.Context, repoPath string) (string, error)
	CommitMessageFn func(ctx context.Context, repoPath string, hash string) (string, error)
	BranchFn        func(ctx context.Context, repoPath string) (string, error)
	RevListFn       func(ctx context.Context, repoPath string, from, to string) ([]string, error)
}

func (g *GitRunner) Log(ctx context.Context, repoPath string, limit int) ([]string, error) {
	return g.LogFn(ctx, repoPath, limit)
}

func (g *GitRunner) Show(ctx context.Context, repoPath string, hash string) (string, error) {
	return g.ShowFn(ctx, repoPath, hash)
}

func (g *GitRunner) StagedDiff(ctx context.Context, repoPath string) (string, error) {
	return g.StagedDiffFn(ctx, repoPath)
}

func (g *GitRunner) CommitMessage(ctx context.Context, repoPath string, hash string) (string, error) {
	return g.CommitMessageFn(ctx, repoPath, hash)
}

func (g *GitRunner) Branch(ctx context.Context, repoPath string) (string, error) {
	return g.BranchFn(ctx, repoPath)
}

func (g *GitRunner) RevList(ctx context.Context, repoPath string, from, to string) ([]string, error) {
	return g.RevListFn(ctx, repoPath, from, to)
}
