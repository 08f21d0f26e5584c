package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fwojciec/diffmage"
)

// Compile-time interface verification.
var _ diffmage.Evaluator = (*Evaluator)(nil)

// Evaluator wraps an Evaluator with file-based caching. The cache key is
// derived from the (message, diff) pair, so the wrapped model should be
// reflected in the cache directory when multiple models are in play.
type Evaluator struct {
	inner    diffmage.Evaluator
	cacheDir string
}

// NewEvaluator creates a new caching evaluator.
func NewEvaluator(inner diffmage.Evaluator, cacheDir string) *Evaluator {
	return &Evaluator{
		inner:    inner,
		cacheDir: cacheDir,
	}
}

// cacheKey is the hashed input pair.
type cacheKey struct {
	Message string `json:"message"`
	Diff    string `json:"diff"`
}

// Evaluate returns a cached result or delegates to the inner evaluator.
// A cached entry that no longer validates is treated as a miss.
func (e *Evaluator) Evaluate(ctx context.Context, message, diff string) (diffmage.EvaluationResult, error) {
	hash := e.hashInput(message, diff)

	if cached, err := e.loadFromCache(hash); err == nil {
		return cached, nil
	}

	result, err := e.inner.Evaluate(ctx, message, diff)
	if err != nil {
		return diffmage.EvaluationResult{}, err
	}

	// Store in cache (best-effort)
	_ = e.saveToCache(hash, result)

	return result, nil
}

func (e *Evaluator) hashInput(message, diff string) string {
	data, _ := json.Marshal(cacheKey{Message: message, Diff: diff})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (e *Evaluator) cachePath(hash string) string {
	return filepath.Join(e.cacheDir, hash+".json")
}

func (e *Evaluator) loadFromCache(hash string) (diffmage.EvaluationResult, error) {
	data, err := os.ReadFile(e.cachePath(hash))
	if err != nil {
		return diffmage.EvaluationResult{}, err
	}

	var result diffmage.EvaluationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return diffmage.EvaluationResult{}, err
	}
	if err := result.Validate(); err != nil {
		return diffmage.EvaluationResult{}, err
	}

	return result, nil
}

func (e *Evaluator) saveToCache(hash string, result diffmage.EvaluationResult) error {
	if err := os.MkdirAll(e.cacheDir, 0755); err != nil {
		return err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return os.WriteFile(e.cachePath(hash), data, 0644)
}
