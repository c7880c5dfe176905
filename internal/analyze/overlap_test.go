package analyze

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridex/veridex/internal/boundary"
	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/store"
)

func newTestDeps(t *testing.T) (*store.Store, *boundary.Enforcer) {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	sl, err := boundary.NewStopline(nil)
	require.NoError(t, err)
	return s, boundary.NewEnforcer(sl)
}

func TestApproxPValue(t *testing.T) {
	// More overlap means a lower pseudo p-value.
	pHigh := approxPValue(store.ScopeCounts{N: 100, A: 10, B: 10, K: 10})
	pLow := approxPValue(store.ScopeCounts{N: 100, A: 10, B: 10, K: 1})
	assert.Less(t, pHigh, pLow)

	for _, c := range []store.ScopeCounts{
		{N: 0, A: 0, B: 0, K: 0},
		{N: 5, A: 0, B: 0, K: 0},
		{N: 5, A: 0, B: 0, K: 2},
		{N: 100, A: 10, B: 10, K: 10},
		{N: 3, A: 2, B: 1, K: 1},
		{N: 1, A: 1, B: 1, K: 1},
	} {
		p := approxPValue(c)
		assert.GreaterOrEqual(t, p, 0.0001, "counts %+v", c)
		assert.LessOrEqual(t, p, 1.0, "counts %+v", c)
	}

	// Degenerate guards.
	assert.Equal(t, 1.0, approxPValue(store.ScopeCounts{N: 0}))
	assert.Equal(t, 0.5, approxPValue(store.ScopeCounts{N: 5, K: 2}))
	assert.Equal(t, 1.0, approxPValue(store.ScopeCounts{N: 5, K: 0}))
}

func seedOverlapData(t *testing.T, s *store.Store) {
	t.Helper()
	err := s.WithTx(func(tx *store.Tx) error {
		a, err := tx.UpsertEntity("Jane Doe", "PERSON", "jane doe")
		require.NoError(t, err)
		b, err := tx.UpsertEntity("Acme Corp", "ORG", "acme corp")
		require.NoError(t, err)

		for i := 1; i <= 3; i++ {
			docID, err := tx.InsertDocument("f.txt", i, "content", fmt.Sprintf("h%d", i))
			require.NoError(t, err)
			if i <= 2 {
				require.NoError(t, tx.LinkDocumentEntity(docID, a, 1))
			}
			if i == 1 {
				require.NoError(t, tx.LinkDocumentEntity(docID, b, 1))
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestAnalyzeOverlapDocsScope(t *testing.T) {
	s, enf := newTestDeps(t)
	seedOverlapData(t, s)

	o := NewOverlap(s, enf)
	stmts, err := o.AnalyzeOverlap(context.Background(), "Jane Doe", "Acme Corp", ScopeDocs)
	require.NoError(t, err)
	require.Len(t, stmts, 3)

	// The counts FACT has no sources, so the boundary downgrades it.
	counts := stmts[0]
	assert.Equal(t, model.StatementInference, counts.Type)
	assert.Equal(t, 0.6, counts.Confidence)
	assert.Contains(t, counts.Text, "total_docs=3")
	assert.Contains(t, counts.Text, "docs_with_both=1")
	assert.Equal(t, 3, counts.Metadata["N"])
	assert.Equal(t, 1, counts.Metadata["k"])
	assert.Equal(t, ScopeDocs, counts.Metadata["scope"])

	// The framing statement mentions intent, so the stop-line replaces it.
	framing := stmts[1]
	assert.Equal(t, model.StatementImplication, framing.Type)
	assert.Equal(t, boundary.RefusalText, framing.Text)
	assert.Contains(t, framing.Metadata["blocked_original"], "probabilistic framing")

	// The p-value implication survives untouched.
	implication := stmts[2]
	assert.Equal(t, model.StatementImplication, implication.Type)
	assert.Equal(t, 0.9, implication.Confidence)
	assert.Contains(t, implication.Text, "p≈")
	assert.NotNil(t, implication.Metadata["approx_p_value"])
}

func TestAnalyzeOverlapEventsScopeDefault(t *testing.T) {
	s, enf := newTestDeps(t)
	seedOverlapData(t, s)

	o := NewOverlap(s, enf)
	stmts, err := o.AnalyzeOverlap(context.Background(), "Jane Doe", "Acme Corp", "anything-else")
	require.NoError(t, err)
	require.Len(t, stmts, 3)
	assert.Contains(t, stmts[0].Text, "scope=EVENTS")
	assert.Contains(t, stmts[0].Text, "total_events=0")
}

func TestAnalyzeOverlapUnknownEntity(t *testing.T) {
	s, enf := newTestDeps(t)
	seedOverlapData(t, s)

	o := NewOverlap(s, enf)
	stmts, err := o.AnalyzeOverlap(context.Background(), "Jane Doe", "Nobody", ScopeDocs)
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	// Unsourced FACT, so it comes back downgraded.
	assert.Equal(t, model.StatementInference, stmts[0].Type)
	assert.Contains(t, stmts[0].Text, "not found")
}
