package analyze

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridex/veridex/internal/boundary"
	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/store"
)

// seedNetworkData creates two events sharing one aircraft plus a third
// unrelated event.
func seedNetworkData(t *testing.T, s *store.Store) {
	t.Helper()
	err := s.WithTx(func(tx *store.Tx) error {
		jane, err := tx.UpsertEntity("Jane Doe", "PERSON", "jane doe")
		require.NoError(t, err)
		plane, err := tx.UpsertAsset("AIRCRAFT_REG", "N12345", "n12345")
		require.NoError(t, err)
		boat, err := tx.UpsertAsset("IMO", "IMO 9074729", "imo 9074729")
		require.NoError(t, err)

		ev1, _, err := tx.UpsertEvent("2011-06|london|a.txt|1", "June 2011", "2011-06", "London", "london", "a.txt", 1)
		require.NoError(t, err)
		ev2, _, err := tx.UpsertEvent("2012-01|paris|b.txt|2", "Jan 2012", "2012-01", "Paris", "paris", "b.txt", 2)
		require.NoError(t, err)
		ev3, _, err := tx.UpsertEvent("2013-03|oslo|c.txt|1", "Mar 2013", "2013-03", "Oslo", "oslo", "c.txt", 1)
		require.NoError(t, err)

		require.NoError(t, tx.LinkEventEntity(ev1, jane))
		require.NoError(t, tx.LinkEventEntity(ev2, jane))
		require.NoError(t, tx.LinkEventAsset(ev1, plane))
		require.NoError(t, tx.LinkEventAsset(ev2, plane))
		require.NoError(t, tx.LinkEventAsset(ev3, boat))
		return nil
	})
	require.NoError(t, err)
}

func TestSummarizeGlobal(t *testing.T) {
	s, enf := newTestDeps(t)
	seedNetworkData(t, s)

	n := NewNetwork(s, enf)
	stmts, err := n.Summarize(context.Background(), "", 50, 10)
	require.NoError(t, err)

	// Three event FACTs plus the two overlap statements, both of which trip
	// the stop-line wording and come back as refusals.
	require.Len(t, stmts, 5)

	for _, st := range stmts[:3] {
		assert.Equal(t, model.StatementFact, st.Type)
		assert.Equal(t, 0.85, st.Confidence)
		require.Len(t, st.PrimarySources, 1)
		assert.Contains(t, st.Text, "Event structure detected")
	}
	// Newest-first ordering.
	assert.Contains(t, stmts[0].Text, "c.txt")
	assert.Contains(t, stmts[2].Text, "a.txt")

	for _, st := range stmts[3:] {
		assert.Equal(t, model.StatementImplication, st.Type)
		assert.Equal(t, boundary.RefusalText, st.Text)
		assert.NotEmpty(t, st.Metadata["blocked_original"])
	}
}

func TestSummarizeFocusEntity(t *testing.T) {
	s, enf := newTestDeps(t)
	seedNetworkData(t, s)

	n := NewNetwork(s, enf)
	stmts, err := n.Summarize(context.Background(), "Jane Doe", 50, 10)
	require.NoError(t, err)

	// Only Jane's two events, which still share the aircraft.
	require.Len(t, stmts, 4)
	assert.Equal(t, model.StatementFact, stmts[0].Type)
	assert.Equal(t, model.StatementFact, stmts[1].Type)
	assert.NotContains(t, stmts[0].Text, "c.txt")
	assert.NotContains(t, stmts[1].Text, "c.txt")
}

func TestSummarizeNoSharedAssets(t *testing.T) {
	s, enf := newTestDeps(t)
	err := s.WithTx(func(tx *store.Tx) error {
		_, _, err := tx.UpsertEvent("2013-03|oslo|c.txt|1", "Mar 2013", "2013-03", "Oslo", "oslo", "c.txt", 1)
		return err
	})
	require.NoError(t, err)

	n := NewNetwork(s, enf)
	stmts, err := n.Summarize(context.Background(), "", 50, 10)
	require.NoError(t, err)

	// One event FACT, no overlap statements.
	require.Len(t, stmts, 1)
	assert.Equal(t, model.StatementFact, stmts[0].Type)
}

func TestSummarizeUnknownFocusEntity(t *testing.T) {
	s, enf := newTestDeps(t)
	seedNetworkData(t, s)

	n := NewNetwork(s, enf)
	stmts, err := n.Summarize(context.Background(), "Nobody", 50, 10)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Contains(t, stmts[0].Text, "not found")
}

func TestSummarizeEmptyStore(t *testing.T) {
	s, enf := newTestDeps(t)

	n := NewNetwork(s, enf)
	stmts, err := n.Summarize(context.Background(), "", 50, 10)
	require.NoError(t, err)
	assert.Empty(t, stmts)
}
