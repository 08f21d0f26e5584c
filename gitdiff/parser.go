// Package gitdiff implements diff parsing using bluekeyes/go-gitdiff.
package gitdiff

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/fwojciec/diffmage"
	"github.com/rs/zerolog"
)

// Compile-time interface verification.
var _ diffmage.Parser = (*Parser)(nil)

// ErrEmptyDiff is returned when the input contains no diff text.
var ErrEmptyDiff = errors.New("diff text is empty")

// ParseError indicates the diff text itself could not be tokenized.
// Per-file conversion problems are not ParseErrors; those entries are
// skipped instead.
type ParseError struct {
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse diff: %v", e.Err)
}

// Unwrap returns the underlying tokenizer error.
func (e *ParseError) Unwrap() error { return e.Err }

// Parser converts unified-diff text into a diffmage.CommitAnalysis.
//
// A file entry that cannot be converted is dropped rather than failing
// the whole parse: the skip is logged and counted on the analysis, and
// the totals reflect only the surviving files.
type Parser struct {
	branch string
	logger zerolog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithBranch sets the branch name recorded on parsed analyses.
func WithBranch(branch string) Option {
	return func(p *Parser) {
		p.branch = branch
	}
}

// WithLogger sets the logger used for per-file skip warnings.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// NewParser creates a new Parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads unified-diff content and returns the structural analysis.
// It fails with ErrEmptyDiff on empty or whitespace-only input and with
// a ParseError when the diff syntax is malformed.
func (p *Parser) Parse(r io.Reader) (*diffmage.CommitAnalysis, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDiff
	}

	files, _, err := gitdiff.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	return p.buildAnalysis(files), nil
}

// ParseString is a convenience wrapper over Parse.
func (p *Parser) ParseString(diffText string) (*diffmage.CommitAnalysis, error) {
	return p.Parse(strings.NewReader(diffText))
}

// buildAnalysis converts tokenized files, skipping entries that fail to
// convert, and aggregates the survivors into a CommitAnalysis.
func (p *Parser) buildAnalysis(files []*gitdiff.File) *diffmage.CommitAnalysis {
	converted := make([]diffmage.FileDiff, 0, len(files))
	skipped := 0

	for i, f := range files {
		fd, err := convertFile(f)
		if err != nil {
			p.logger.Warn().Err(err).Int("index", i).Msg("skipping unconvertible file entry")
			skipped++
			continue
		}
		converted = append(converted, fd)
	}

	analysis := diffmage.NewCommitAnalysis(converted, p.branch)
	analysis.SkippedFiles = skipped
	return analysis
}

// convertFile maps one tokenized file to the domain model.
func convertFile(f *gitdiff.File) (diffmage.FileDiff, error) {
	if f == nil {
		return diffmage.FileDiff{}, errors.New("nil file entry")
	}

	oldPath := pathOrEmpty(f.OldName)
	newPath := pathOrEmpty(f.NewName)
	if oldPath == "" && newPath == "" {
		return diffmage.FileDiff{}, errors.New("file entry has no paths")
	}

	fd := diffmage.FileDiff{
		OldPath:    oldPath,
		NewPath:    newPath,
		ChangeType: changeType(f),
		IsBinary:   f.IsBinary,
	}
	fd.FileType = diffmage.ClassifyFile(fd.Path())

	// Binary files carry no hunks and contribute no line counts.
	if f.IsBinary {
		return fd, nil
	}

	fd.Hunks = make([]diffmage.DiffHunk, 0, len(f.TextFragments))
	for _, frag := range f.TextFragments {
		hunk, err := convertFragment(frag)
		if err != nil {
			return diffmage.FileDiff{}, err
		}
		fd.Hunks = append(fd.Hunks, hunk)
		fd.LinesAdded += int(frag.LinesAdded)
		fd.LinesRemoved += int(frag.LinesDeleted)
	}

	return fd, nil
}

// changeType resolves the change classification for a file. Rename takes
// priority: a file that is both renamed and edited is RENAMED, never
// MODIFIED. Copies materialize a new path and classify as added.
func changeType(f *gitdiff.File) diffmage.ChangeType {
	switch {
	case f.IsRename:
		return diffmage.ChangeRenamed
	case f.IsNew, f.IsCopy:
		return diffmage.ChangeAdded
	case f.IsDelete:
		return diffmage.ChangeDeleted
	default:
		return diffmage.ChangeModified
	}
}

func convertFragment(frag *gitdiff.TextFragment) (diffmage.DiffHunk, error) {
	if frag == nil {
		return diffmage.DiffHunk{}, errors.New("nil text fragment")
	}

	hunk := diffmage.DiffHunk{
		OldStart: int(frag.OldPosition),
		OldCount: int(frag.OldLines),
		NewStart: int(frag.NewPosition),
		NewCount: int(frag.NewLines),
		Section:  frag.Comment,
	}

	oldLine := int(frag.OldPosition)
	newLine := int(frag.NewPosition)

	for _, l := range frag.Lines {
		line := diffmage.HunkLine{
			Content: strings.TrimSuffix(l.Line, "\n"),
		}

		switch l.Op {
		case gitdiff.OpContext:
			line.Type = diffmage.LineContext
			line.OldLine = oldLine
			line.NewLine = newLine
			oldLine++
			newLine++
		case gitdiff.OpAdd:
			line.Type = diffmage.LineAdded
			line.NewLine = newLine
			newLine++
		case gitdiff.OpDelete:
			line.Type = diffmage.LineRemoved
			line.OldLine = oldLine
			oldLine++
		}

		hunk.Lines = append(hunk.Lines, line)
	}

	return hunk, nil
}

// pathOrEmpty normalizes the tokenizer's path representation: /dev/null
// signals an absent side.
func pathOrEmpty(name string) string {
	if name == "/dev/null" {
		return ""
	}
	return name
}
