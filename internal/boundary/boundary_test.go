package boundary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridex/veridex/internal/model"
)

func newTestEnforcer(t *testing.T, extra ...string) *Enforcer {
	t.Helper()
	sl, err := NewStopline(extra)
	require.NoError(t, err)
	return NewEnforcer(sl)
}

func TestStoplineBlocksAccusations(t *testing.T) {
	sl, err := NewStopline(nil)
	require.NoError(t, err)

	blocked := []string{
		"He is guilty of fraud.",
		"They knowingly conspired in a cover-up.",
		"This definitely proves the link.",
		"This is the man in the photo, identify the person.",
		"Face recognition matched a face in frame 3.",
		"GUILTY beyond doubt.",
	}
	for _, text := range blocked {
		allowed, reason := sl.Check(text)
		assert.False(t, allowed, "should block: %q", text)
		assert.Equal(t, RefusalText, reason)
	}

	allowed := []string{
		"",
		"   ",
		"Document overlap counts: total_docs=3, docs_with_both=1.",
		"The same assets appear across multiple events in the dataset.",
	}
	for _, text := range allowed {
		ok, reason := sl.Check(text)
		assert.True(t, ok, "should allow: %q", text)
		assert.Empty(t, reason)
	}
}

func TestStoplineExtraPatternsAreAdditive(t *testing.T) {
	sl, err := NewStopline([]string{`\bclassified\b`})
	require.NoError(t, err)

	ok, _ := sl.Check("The classified annex was cited.")
	assert.False(t, ok)

	// Floor still applies.
	ok, _ = sl.Check("He committed fraud.")
	assert.False(t, ok)
}

func TestStoplineRejectsBadPattern(t *testing.T) {
	_, err := NewStopline([]string{`[unterminated`})
	require.Error(t, err)
}

func TestEnforceReplacesBlockedStatement(t *testing.T) {
	e := newTestEnforcer(t)

	src := model.SourceRef{Filename: "f.txt", Page: 2, Snippet: "..."}
	in := []model.Statement{{
		Type:           model.StatementFact,
		Confidence:     0.9,
		Text:           "He is guilty of fraud.",
		PrimarySources: []model.SourceRef{src},
	}}

	out := e.Enforce(in)
	require.Len(t, out, 1)

	got := out[0]
	assert.Equal(t, model.StatementImplication, got.Type)
	assert.Equal(t, 1.0, got.Confidence)
	assert.Equal(t, RefusalText, got.Text)
	assert.Equal(t, []model.SourceRef{src}, got.PrimarySources, "sources carry over")
	assert.Equal(t, "He is guilty of fraud.", got.Metadata["blocked_original"])
	assert.Equal(t, RuleStopline, got.Metadata["rule"])
}

func TestEnforceClampsConfidence(t *testing.T) {
	e := newTestEnforcer(t)

	out := e.Enforce([]model.Statement{
		{Type: model.StatementInference, Confidence: 1.7, Text: "ok"},
		{Type: model.StatementInference, Confidence: -0.3, Text: "ok"},
	})
	require.Len(t, out, 2)
	assert.Equal(t, 1.0, out[0].Confidence)
	assert.Equal(t, 0.0, out[1].Confidence)
}

func TestEnforceDowngradesUnsourcedFact(t *testing.T) {
	e := newTestEnforcer(t)

	out := e.Enforce([]model.Statement{{
		Type:       model.StatementFact,
		Confidence: 1.0,
		Text:       "Overlap counts computed.",
	}})
	require.Len(t, out, 1)
	assert.Equal(t, model.StatementInference, out[0].Type)
	assert.Equal(t, 0.6, out[0].Confidence)
	assert.Equal(t, "FACT_WITHOUT_SOURCES", out[0].Metadata["downgraded"])
}

func TestEnforceKeepsSourcedFact(t *testing.T) {
	e := newTestEnforcer(t)

	in := []model.Statement{{
		Type:           model.StatementFact,
		Confidence:     0.85,
		Text:           "Event structure detected on f.txt page 1.",
		PrimarySources: []model.SourceRef{{Filename: "f.txt", Page: 1, Snippet: "..."}},
	}}
	out := e.Enforce(in)
	require.Len(t, out, 1)
	assert.Equal(t, model.StatementFact, out[0].Type)
	assert.Equal(t, 0.85, out[0].Confidence)
}

func TestEnforceIsFixedPoint(t *testing.T) {
	e := newTestEnforcer(t)

	in := []model.Statement{
		{Type: model.StatementFact, Confidence: 1.4, Text: "He is guilty of fraud."},
		{Type: model.StatementFact, Confidence: 0.9, Text: "Counts computed."},
		{Type: model.StatementImplication, Confidence: 0.9, Text: "Structural overlap only."},
	}

	once := e.Enforce(in)
	twice := e.Enforce(once)
	assert.Equal(t, once, twice)
}

func TestEnforceDoesNotMutateInput(t *testing.T) {
	e := newTestEnforcer(t)

	in := []model.Statement{{Type: model.StatementFact, Confidence: 1.5, Text: "Counts computed."}}
	_ = e.Enforce(in)

	assert.Equal(t, 1.5, in[0].Confidence)
	assert.Equal(t, model.StatementFact, in[0].Type)
}
