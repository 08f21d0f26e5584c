// Package jsonl provides JSONL file handling for evaluation results.
package jsonl

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/diffmage"
)

// Compile-time interface verification.
var _ diffmage.ResultStore = (*Store)(nil)

// maxLineSize is the maximum size for a single JSONL line (4MB).
// This accommodates large commit-level diffs while preventing memory issues.
const maxLineSize = 4 * 1024 * 1024

// Store persists and retrieves evaluated messages as JSONL.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Load reads evaluated messages from a JSONL file. Returns empty slice if
// the file doesn't exist. Loaded results are re-validated, since the file
// may have been edited by hand.
func (s *Store) Load(path string) ([]diffmage.EvaluatedMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var results []diffmage.EvaluatedMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, maxLineSize), maxLineSize)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var m diffmage.EvaluatedMessage
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if err := m.Result.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		results = append(results, m)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// Save writes evaluated messages to a JSONL file, creating parent
// directories if needed.
func (s *Store) Save(path string, results []diffmage.EvaluatedMessage) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, m := range results {
		data, err := json.Marshal(m)
		if err != nil {
			return err
		}
		if _, err := f.Write(data); err != nil {
			return err
		}
		if _, err := f.WriteString("\n"); err != nil {
			return err
		}
	}

	return nil
}
