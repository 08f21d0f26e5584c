package jsonl_test

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/diffmage"
	"github.com/fwojciec/diffmage/jsonl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaver_AppendsResults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "stability.jsonl")
	saver := jsonl.NewSaver()

	result := diffmage.StabilityTestResult{
		Message:           "feat: add handler",
		Runs:              3,
		IsStable:          true,
		MaxVariance:       0.5,
		VarianceThreshold: 0.5,
		Timestamp:         time.Now(),
	}

	require.NoError(t, saver.Save(path, result))
	require.NoError(t, saver.Save(path, result))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if scanner.Text() != "" {
			lines++
		}
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, 2, lines)
}
