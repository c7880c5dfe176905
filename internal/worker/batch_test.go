package worker

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridex/veridex/internal/model"
)

// mockAnalyzer implements OverlapAnalyzer
type mockAnalyzer struct {
	shouldError bool
}

func (m *mockAnalyzer) AnalyzeOverlap(ctx context.Context, entityA, entityB, scope string) ([]model.Statement, error) {
	time.Sleep(5 * time.Millisecond) // simulate work
	if m.shouldError {
		return nil, errors.New("analysis error")
	}
	return []model.Statement{
		{Type: model.StatementFact, Confidence: 1.0, Text: entityA + " / " + entityB},
	}, nil
}

func TestBatchProcessor_ProcessPairs(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{}, 2)

	pairs := []Pair{
		{EntityA: "Jane Doe", EntityB: "Acme Corp"},
		{EntityA: "Jane Doe", EntityB: "John Roe"},
		{EntityA: "Acme Corp", EntityB: "Globex"},
	}

	results := processor.ProcessPairs(context.Background(), pairs, "EVENTS")
	require.Len(t, results, 3)

	for _, res := range results {
		require.NoError(t, res.Error)
		require.Len(t, res.Statements, 1)
	}
}

func TestBatchProcessor_ProcessPairsErrors(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{shouldError: true}, 2)

	results := processor.ProcessPairs(context.Background(), []Pair{
		{EntityA: "A", EntityB: "B"},
	}, "DOCS")
	require.Len(t, results, 1)
	assert.Error(t, results[0].GetError())
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pairs.txt")
	content := "# comment line\nJane Doe | Acme Corp\n\nJohn Roe | Globex\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	processor := NewBatchProcessor(&mockAnalyzer{}, 2)
	results, err := processor.ProcessFile(context.Background(), path, "EVENTS")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestBatchProcessor_ProcessFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pairs.txt")
	require.NoError(t, os.WriteFile(path, []byte("no separator here\n"), 0o644))

	processor := NewBatchProcessor(&mockAnalyzer{}, 2)
	_, err := processor.ProcessFile(context.Background(), path, "EVENTS")
	assert.Error(t, err)
}
