package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/veridex/veridex/internal/ner"
)

type stubRecognizer struct {
	spans  []ner.Span
	err    error
	called int
}

func (s *stubRecognizer) Name() string { return "stub" }

func (s *stubRecognizer) Recognize(_ context.Context, _ string) ([]ner.Span, error) {
	s.called++
	return s.spans, s.err
}

// padText makes a body long and alphabetic enough to pass the recognizer gate.
func padText(core string) string {
	return core + " " + strings.Repeat("the quick brown fox jumps over the lazy dog ", 8)
}

func TestExtractPatternSignals(t *testing.T) {
	e := NewSignalExtractor(nil, 200, 0.30, zap.NewNop())

	text := "Contact: jane@example.org, phone 555-1234. See https://example.org/log " +
		"Aircraft N12345 and G-ABCD were chartered."

	entities, assets := e.Extract(context.Background(), text)

	byLabel := map[string][]EntitySignal{}
	for _, es := range entities {
		byLabel[es.Label] = append(byLabel[es.Label], es)
	}

	require.Len(t, byLabel[LabelEmail], 1)
	assert.Equal(t, "jane@example.org", byLabel[LabelEmail][0].Text)
	assert.Equal(t, 1, byLabel[LabelEmail][0].Count)

	require.Len(t, byLabel[LabelPhone], 1)
	require.Len(t, byLabel[LabelURL], 1)

	byType := map[string][]AssetSignal{}
	for _, as := range assets {
		byType[as.Type] = append(byType[as.Type], as)
	}

	require.Len(t, byType[AssetAircraftReg], 2)
	assert.Empty(t, byType[AssetIMO])
}

func TestExtractIMOAsset(t *testing.T) {
	e := NewSignalExtractor(nil, 200, 0.30, zap.NewNop())

	// A seven-digit IMO number also trips the phone pattern; both signals
	// are kept, matching how the patterns behave independently.
	entities, assets := e.Extract(context.Background(), "Vessel IMO 9074729 docked.")

	require.Len(t, assets, 1)
	assert.Equal(t, AssetIMO, assets[0].Type)
	assert.Equal(t, "imo 9074729", assets[0].Normalized)

	require.Len(t, entities, 1)
	assert.Equal(t, LabelPhone, entities[0].Label)
}

func TestExtractCountsRepeats(t *testing.T) {
	e := NewSignalExtractor(nil, 200, 0.30, zap.NewNop())

	_, assets := e.Extract(context.Background(), "N12345 departed. N12345 returned.")
	require.Len(t, assets, 1)
	assert.Equal(t, 2, assets[0].Count)
}

func TestRecognizerGateSkipsShortText(t *testing.T) {
	stub := &stubRecognizer{spans: []ner.Span{{Text: "Jane Doe", Label: ner.LabelPerson}}}
	e := NewSignalExtractor(stub, 200, 0.30, zap.NewNop())

	entities, _ := e.Extract(context.Background(), "short note about N12345")
	assert.Zero(t, stub.called, "short text must not reach the recognizer")
	assert.Empty(t, entities)
}

func TestRecognizerGateSkipsLowAlphaText(t *testing.T) {
	stub := &stubRecognizer{}
	e := NewSignalExtractor(stub, 200, 0.30, zap.NewNop())

	numeric := strings.Repeat("0123456789 ", 30)
	e.Extract(context.Background(), numeric)
	assert.Zero(t, stub.called, "numeric noise must not reach the recognizer")
}

func TestRecognizerEntitiesMerged(t *testing.T) {
	stub := &stubRecognizer{spans: []ner.Span{
		{Text: "Jane Doe", Label: ner.LabelPerson},
		{Text: "Jane Doe", Label: ner.LabelPerson},
		{Text: "Acme Corp", Label: ner.LabelOrg},
	}}
	e := NewSignalExtractor(stub, 200, 0.30, zap.NewNop())

	entities, _ := e.Extract(context.Background(), padText("Jane Doe of Acme Corp."))
	assert.Equal(t, 1, stub.called)

	byLabel := map[string]EntitySignal{}
	for _, es := range entities {
		byLabel[es.Label] = es
	}
	assert.Equal(t, 2, byLabel[ner.LabelPerson].Count)
	assert.Equal(t, "jane doe", byLabel[ner.LabelPerson].Normalized)
	assert.Equal(t, 1, byLabel[ner.LabelOrg].Count)
}

func TestRecognizerFailureKeepsPatternSignals(t *testing.T) {
	stub := &stubRecognizer{err: assert.AnError}
	e := NewSignalExtractor(stub, 200, 0.30, zap.NewNop())

	entities, assets := e.Extract(context.Background(), padText("Reach me at jane@example.org from N12345."))
	assert.Equal(t, 1, stub.called)

	require.Len(t, entities, 1)
	assert.Equal(t, LabelEmail, entities[0].Label)
	require.Len(t, assets, 1)
	assert.Equal(t, AssetAircraftReg, assets[0].Type)
}

func TestAircraftRegForms(t *testing.T) {
	cases := map[string]bool{
		"N12345":   true,
		"N1A":      true,
		"G-ABCD":   true,
		"D-EFGH":   true,
		"F-GKXL":   true,
		"I-LOVE":   true,
		"C-FAB1":   true,
		"X-ABCD":   false,
		"N":        false,
		"G-ABCDE":  false,
		"IMO12345": false,
	}
	for input, want := range cases {
		assert.Equal(t, want, aircraftRegRE.MatchString(input), "input %q", input)
	}
}

func TestIMOCaseInsensitive(t *testing.T) {
	assert.True(t, imoRE.MatchString("registered as imo 9074729"))
	assert.True(t, imoRE.MatchString("IMO9074729"))
	assert.False(t, imoRE.MatchString("IMO 123"))
}
