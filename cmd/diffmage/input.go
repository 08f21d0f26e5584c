package main

import (
	"context"
	"errors"

	"github.com/fwojciec/diffmage"
)

var (
	// ErrNoInput is returned when neither a message argument nor --commit
	// selects an input.
	ErrNoInput = errors.New("a message argument or --commit is required")

	// ErrConflictingInput is returned when both a message argument and
	// --commit are given.
	ErrConflictingInput = errors.New("provide either a message argument or --commit, not both")
)

// resolveInput picks the (message, diff) pair to work on: an explicit
// message scored against the staged diff, or a commit's own message
// against its diff.
func resolveInput(ctx context.Context, runner diffmage.GitRunner, repo, message, commit string) (string, string, error) {
	switch {
	case commit != "" && message != "":
		return "", "", ErrConflictingInput
	case commit != "":
		msg, err := runner.CommitMessage(ctx, repo, commit)
		if err != nil {
			return "", "", err
		}
		diff, err := runner.Show(ctx, repo, commit)
		if err != nil {
			return "", "", err
		}
		return msg, diff, nil
	case message != "":
		diff, err := runner.StagedDiff(ctx, repo)
		if err != nil {
			return "", "", err
		}
		return message, diff, nil
	default:
		return "", "", ErrNoInput
	}
}
