// Package diffmage provides domain types for parsing git diffs into a
// structural model and for evaluating commit message quality.
package diffmage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// LineType represents the type of a diff line.
type LineType int

// Line types.
const (
	LineContext LineType = iota
	LineAdded
	LineRemoved
)

// Prefix returns the unified-diff prefix character for the line type.
func (t LineType) Prefix() string {
	switch t {
	case LineAdded:
		return "+"
	case LineRemoved:
		return "-"
	default:
		return " "
	}
}

// HunkLine represents a single line within a hunk.
// Content is stored without its trailing newline.
type HunkLine struct {
	Type    LineType `json:"type"`
	Content string   `json:"content"`
	OldLine int      `json:"old_line,omitempty"` // 0 if line is added
	NewLine int      `json:"new_line,omitempty"` // 0 if line is removed
}

// IsAdded reports whether the line was added.
func (l HunkLine) IsAdded() bool { return l.Type == LineAdded }

// IsRemoved reports whether the line was removed.
func (l HunkLine) IsRemoved() bool { return l.Type == LineRemoved }

// IsContext reports whether the line is unchanged context.
func (l HunkLine) IsContext() bool { return l.Type == LineContext }

// DiffHunk represents a contiguous block of changes within a file.
type DiffHunk struct {
	OldStart int        `json:"old_start"` // From @@ -X,...
	OldCount int        `json:"old_count"` // From @@ -X,Y ...
	NewStart int        `json:"new_start"` // From @@ ...,+X
	NewCount int        `json:"new_count"` // From @@ ...,+X,Y
	Section  string     `json:"section,omitempty"`
	Lines    []HunkLine `json:"lines"`
}

// Header returns the @@ marker line for the hunk.
func (h DiffHunk) Header() string {
	header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
	if h.Section != "" {
		header += " " + h.Section
	}
	return header
}

// AddedContent returns the content of added lines in hunk order.
func (h DiffHunk) AddedContent() []string { return h.filterLines(LineAdded) }

// RemovedContent returns the content of removed lines in hunk order.
func (h DiffHunk) RemovedContent() []string { return h.filterLines(LineRemoved) }

// ContextContent returns the content of context lines in hunk order.
func (h DiffHunk) ContextContent() []string { return h.filterLines(LineContext) }

func (h DiffHunk) filterLines(t LineType) []string {
	var content []string
	for _, line := range h.Lines {
		if line.Type == t {
			content = append(content, line.Content)
		}
	}
	return content
}

// ChangeType represents the kind of change applied to a file.
type ChangeType int

// Change types.
const (
	ChangeModified ChangeType = iota
	ChangeAdded
	ChangeDeleted
	ChangeRenamed
)

// String returns the serialized name of the change type.
func (t ChangeType) String() string {
	switch t {
	case ChangeAdded:
		return "added"
	case ChangeDeleted:
		return "deleted"
	case ChangeRenamed:
		return "renamed"
	default:
		return "modified"
	}
}

// FileType represents the semantic category of a file.
type FileType int

// File types.
const (
	FileTypeUnknown FileType = iota
	FileTypeSourceCode
	FileTypeTestCode
	FileTypeDocumentation
	FileTypeConfig
)

// String returns the serialized name of the file type.
func (t FileType) String() string {
	switch t {
	case FileTypeSourceCode:
		return "source_code"
	case FileTypeTestCode:
		return "test_code"
	case FileTypeDocumentation:
		return "documentation"
	case FileTypeConfig:
		return "config"
	default:
		return "unknown"
	}
}

// FileDiff represents changes to a single file in a commit or patch.
// Binary files carry no hunks.
type FileDiff struct {
	OldPath      string     `json:"old_path,omitempty"` // empty for added files
	NewPath      string     `json:"new_path,omitempty"` // empty for deleted files
	ChangeType   ChangeType `json:"change_type"`
	FileType     FileType   `json:"file_type"`
	IsBinary     bool       `json:"is_binary"`
	LinesAdded   int        `json:"lines_added"`
	LinesRemoved int        `json:"lines_removed"`
	Hunks        []DiffHunk `json:"hunks,omitempty"`
}

// Path returns the logical path of the file: the new path when present,
// falling back to the old path for deletions.
func (f FileDiff) Path() string {
	if f.NewPath != "" {
		return f.NewPath
	}
	return f.OldPath
}

// Reconstruct returns a minimal unified-diff representation of the file,
// re-derived from the structural model. Binary files reconstruct to an
// empty string.
func (f FileDiff) Reconstruct() string {
	if f.IsBinary {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("--- " + orDevNull(f.OldPath) + "\n")
	sb.WriteString("+++ " + orDevNull(f.NewPath) + "\n")
	for _, hunk := range f.Hunks {
		sb.WriteString(hunk.Header())
		sb.WriteString("\n")
		for _, line := range hunk.Lines {
			sb.WriteString(line.Type.Prefix())
			sb.WriteString(line.Content)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// AddedContent returns added line content across all hunks, in order.
func (f FileDiff) AddedContent() []string {
	var content []string
	for _, hunk := range f.Hunks {
		content = append(content, hunk.AddedContent()...)
	}
	return content
}

// RemovedContent returns removed line content across all hunks, in order.
func (f FileDiff) RemovedContent() []string {
	var content []string
	for _, hunk := range f.Hunks {
		content = append(content, hunk.RemovedContent()...)
	}
	return content
}

func orDevNull(path string) string {
	if path == "" {
		return "/dev/null"
	}
	return path
}

// CommitAnalysis holds the full set of parsed changes under consideration:
// staged changes or a single commit. Totals always reflect the files list.
type CommitAnalysis struct {
	Files             []FileDiff `json:"files"`
	TotalFiles        int        `json:"total_files"`
	TotalLinesAdded   int        `json:"total_lines_added"`
	TotalLinesRemoved int        `json:"total_lines_removed"`
	SkippedFiles      int        `json:"skipped_files,omitempty"` // entries dropped during parsing
	BranchName        string     `json:"branch_name,omitempty"`
}

// NewCommitAnalysis builds a CommitAnalysis from converted file diffs,
// deriving the totals by summation.
func NewCommitAnalysis(files []FileDiff, branch string) *CommitAnalysis {
	a := &CommitAnalysis{
		Files:      files,
		TotalFiles: len(files),
		BranchName: branch,
	}
	for _, f := range files {
		a.TotalLinesAdded += f.LinesAdded
		a.TotalLinesRemoved += f.LinesRemoved
	}
	return a
}

// CombinedDiff returns the reconstructed diff of all non-binary files,
// separated by blank lines. It returns an empty string when there is
// nothing to reconstruct.
func (a *CommitAnalysis) CombinedDiff() string {
	var parts []string
	for _, f := range a.Files {
		if f.IsBinary {
			continue
		}
		parts = append(parts, f.Reconstruct())
	}
	return strings.Join(parts, "\n")
}

// ChangeTotals summarizes line and file counts for serialization.
type ChangeTotals struct {
	FilesChanged int `json:"files_changed"`
	LinesAdded   int `json:"lines_added"`
	LinesRemoved int `json:"lines_removed"`
}

// FileSummary is the serialized per-file entry of an analysis summary.
type FileSummary struct {
	Path         string `json:"path"`
	Type         string `json:"type"`
	ChangeType   string `json:"change_type"`
	LinesAdded   int    `json:"lines_added"`
	LinesRemoved int    `json:"lines_removed"`
	IsBinary     bool   `json:"is_binary"`
}

// AnalysisContext carries repository metadata alongside a summary.
type AnalysisContext struct {
	RepositoryContext string    `json:"repository_context"`
	Timestamp         time.Time `json:"timestamp"`
}

// AnalysisSummary is the structured, machine-consumable form of an analysis.
type AnalysisSummary struct {
	Summary ChangeTotals    `json:"summary"`
	Files   []FileSummary   `json:"files"`
	Context AnalysisContext `json:"context"`
}

// Summary returns the structured summary of the analysis.
func (a *CommitAnalysis) Summary() AnalysisSummary {
	files := make([]FileSummary, 0, len(a.Files))
	for _, f := range a.Files {
		files = append(files, FileSummary{
			Path:         f.Path(),
			Type:         f.FileType.String(),
			ChangeType:   f.ChangeType.String(),
			LinesAdded:   f.LinesAdded,
			LinesRemoved: f.LinesRemoved,
			IsBinary:     f.IsBinary,
		})
	}
	return AnalysisSummary{
		Summary: ChangeTotals{
			FilesChanged: a.TotalFiles,
			LinesAdded:   a.TotalLinesAdded,
			LinesRemoved: a.TotalLinesRemoved,
		},
		Files: files,
		Context: AnalysisContext{
			RepositoryContext: a.BranchName,
			Timestamp:         time.Now(),
		},
	}
}

// Parser converts unified-diff text into a structural analysis.
type Parser interface {
	Parse(r io.Reader) (*CommitAnalysis, error)
}

// GitRunner provides access to git operations for extracting diffs and
// commit metadata.
type GitRunner interface {
	// Log returns commit hashes from the repository at repoPath, limited to n commits.
	Log(ctx context.Context, repoPath string, limit int) ([]string, error)
	// Show returns the diff for a specific commit hash.
	Show(ctx context.Context, repoPath string, hash string) (string, error)
	// StagedDiff returns the diff of staged changes.
	StagedDiff(ctx context.Context, repoPath string) (string, error)
	// CommitMessage returns the full message of a specific commit.
	CommitMessage(ctx context.Context, repoPath string, hash string) (string, error)
	// Branch returns the current branch name.
	Branch(ctx context.Context, repoPath string) (string, error)
	// RevList returns commit hashes in the inclusive range from..to, oldest first.
	RevList(ctx context.Context, repoPath string, from, to string) ([]string, error)
}
