package worker

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/veridex/veridex/internal/model"
)

// OverlapAnalyzer runs one entity-pair overlap analysis. Read-only against
// the store, so pairs can run concurrently with no writer active.
type OverlapAnalyzer interface {
	AnalyzeOverlap(ctx context.Context, entityA, entityB, scope string) ([]model.Statement, error)
}

// Pair is one entity pair to analyze
type Pair struct {
	EntityA string
	EntityB string
}

// PairJob analyzes a single entity pair
type PairJob struct {
	Pair     Pair
	Scope    string
	Analyzer OverlapAnalyzer
}

// PairResult is the outcome of one pair analysis
type PairResult struct {
	Pair       Pair
	Statements []model.Statement
	Error      error
}

// GetError implements Result
func (r *PairResult) GetError() error { return r.Error }

// Execute implements Job
func (j *PairJob) Execute(ctx context.Context) Result {
	stmts, err := j.Analyzer.AnalyzeOverlap(ctx, j.Pair.EntityA, j.Pair.EntityB, j.Scope)
	return &PairResult{Pair: j.Pair, Statements: stmts, Error: err}
}

// BatchProcessor runs many overlap analyses through a worker pool
type BatchProcessor struct {
	analyzer OverlapAnalyzer
	workers  int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(analyzer OverlapAnalyzer, workers int) *BatchProcessor {
	if workers <= 0 {
		workers = 4
	}
	return &BatchProcessor{analyzer: analyzer, workers: workers}
}

// ProcessPairs analyzes all pairs concurrently and returns one result per pair
func (b *BatchProcessor) ProcessPairs(ctx context.Context, pairs []Pair, scope string) []*PairResult {
	pool := NewPool(ctx, b.workers)
	pool.Start()

	for _, p := range pairs {
		pool.Submit(&PairJob{Pair: p, Scope: scope, Analyzer: b.analyzer})
	}

	raw := pool.Wait()

	results := make([]*PairResult, 0, len(raw))
	for _, r := range raw {
		if pr, ok := r.(*PairResult); ok {
			results = append(results, pr)
		}
	}
	return results
}

// ProcessFile reads "Entity A | Entity B" lines and analyzes each pair.
// Blank lines and lines starting with # are skipped.
func (b *BatchProcessor) ProcessFile(ctx context.Context, path, scope string) ([]*PairResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open pairs file")
	}
	defer f.Close()

	var pairs []Pair
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		left, right, found := strings.Cut(line, "|")
		if !found {
			return nil, errors.Newf("malformed pair line (want 'A | B'): %q", line)
		}
		pairs = append(pairs, Pair{
			EntityA: strings.TrimSpace(left),
			EntityB: strings.TrimSpace(right),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read pairs file")
	}

	return b.ProcessPairs(ctx, pairs, scope), nil
}
