// Package git provides access to git operations via shell commands.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/fwojciec/diffmage"
)

// Compile-time interface verification.
var _ diffmage.GitRunner = (*Runner)(nil)

// Runner executes git commands via shell.
type Runner struct{}

// NewRunner creates a new git runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Log returns commit hashes from the repository at repoPath, limited to n commits.
func (r *Runner) Log(ctx context.Context, repoPath string, limit int) ([]string, error) {
	args := []string{"log", "--format=%H", fmt.Sprintf("-n%d", limit)}
	output, err := r.run(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}
	return splitLines(output), nil
}

// Show returns the diff for a specific commit hash.
func (r *Runner) Show(ctx context.Context, repoPath string, hash string) (string, error) {
	return r.run(ctx, repoPath, "show", "--format=", "--no-color", hash)
}

// StagedDiff returns the diff of currently staged changes.
func (r *Runner) StagedDiff(ctx context.Context, repoPath string) (string, error) {
	return r.run(ctx, repoPath, "diff", "--cached", "--no-color")
}

// CommitMessage returns the full message of a specific commit, trimmed of
// trailing whitespace.
func (r *Runner) CommitMessage(ctx context.Context, repoPath string, hash string) (string, error) {
	output, err := r.run(ctx, repoPath, "log", "-1", "--format=%B", hash)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// Branch returns the current branch name. It returns "HEAD" in detached
// state, matching git's own behavior.
func (r *Runner) Branch(ctx context.Context, repoPath string) (string, error) {
	output, err := r.run(ctx, repoPath, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// RevList returns commit hashes in the inclusive range from..to, oldest
// first. Both endpoints are included, which also covers a from that is
// the repository's initial commit.
func (r *Runner) RevList(ctx context.Context, repoPath string, from, to string) ([]string, error) {
	start, err := r.run(ctx, repoPath, "rev-parse", from)
	if err != nil {
		return nil, err
	}
	startHash := strings.TrimSpace(start)

	output, err := r.run(ctx, repoPath, "rev-list", "--reverse", fmt.Sprintf("%s..%s", from, to))
	if err != nil {
		return nil, err
	}

	return append([]string{startHash}, splitLines(output)...), nil
}

func (r *Runner) run(ctx context.Context, repoPath string, args ...string) (string, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("git %s failed: %s", args[0], string(exitErr.Stderr))
		}
		return "", fmt.Errorf("git %s failed: %w", args[0], err)
	}
	return string(output), nil
}

func splitLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
