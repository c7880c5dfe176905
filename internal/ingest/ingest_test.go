package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/veridex/veridex/internal/extract"
	"github.com/veridex/veridex/internal/ner"
	"github.com/veridex/veridex/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestIngestor(t *testing.T, s *store.Store, r ner.Recognizer) *Ingestor {
	t.Helper()
	if r == nil {
		r = ner.Null{}
	}
	ex := extract.NewSignalExtractor(r, 200, 0.30, zap.NewNop())
	return NewIngestor(s, ex, 200, zap.NewNop())
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestRunIngestsTextFile(t *testing.T) {
	s := openTestStore(t)
	ing := newTestIngestor(t, s, nil)

	dir := t.TempDir()
	writeFile(t, dir, "contact.txt", "Contact: jane@example.org, phone 555-1234")

	report, err := ing.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, report.FilesSeen)
	assert.Equal(t, 1, report.PagesInserted)
	assert.Equal(t, 0, report.PagesSkipped)
	assert.Equal(t, 2, report.EntitiesLinked)

	n, err := s.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	emails, err := s.TopEntities("EMAIL", 10)
	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Equal(t, "jane@example.org", emails[0].Text)
	assert.Equal(t, 1, emails[0].Count)

	phones, err := s.TopEntities("PHONE", 10)
	require.NoError(t, err)
	require.Len(t, phones, 1)
	assert.Equal(t, 1, phones[0].Count)
}

func TestRunIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ing := newTestIngestor(t, s, nil)

	dir := t.TempDir()
	writeFile(t, dir, "log.txt", "Aircraft N12345 departed at dawn.")

	first, err := ing.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, first.PagesInserted)

	second, err := ing.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 0, second.PagesInserted)
	assert.Equal(t, 1, second.PagesSkipped)

	n, err := s.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Link counts must not have doubled.
	assets, err := s.TopAssets("AIRCRAFT_REG", 10)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, 1, assets[0].Count)
}

func TestRunSkipsUnsupportedAndEmptyFiles(t *testing.T) {
	s := openTestStore(t)
	ing := newTestIngestor(t, s, nil)

	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "Real content mentioning N12345.")
	writeFile(t, dir, "binary.bin", "\x00\x01\x02")
	writeFile(t, dir, "empty.txt", "   \n\t ")

	report, err := ing.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 3, report.FilesSeen)
	assert.Equal(t, 1, report.PagesInserted)
	assert.Equal(t, 0, report.FilesFailed)
}

func TestRunEmptyDirIsAnError(t *testing.T) {
	s := openTestStore(t)
	ing := newTestIngestor(t, s, nil)

	_, err := ing.Run(context.Background(), t.TempDir())
	require.Error(t, err)
}

func TestRunIngestsHTMLVisibleText(t *testing.T) {
	s := openTestStore(t)
	ing := newTestIngestor(t, s, nil)

	dir := t.TempDir()
	writeFile(t, dir, "page.html",
		`<html><head><script>var hidden = "secret@example.org";</script></head>`+
			`<body><p>Write to jane@example.org today.</p></body></html>`)

	report, err := ing.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, report.PagesInserted)

	emails, err := s.TopEntities("EMAIL", 10)
	require.NoError(t, err)
	require.Len(t, emails, 1, "script content must not be ingested")
	assert.Equal(t, "jane@example.org", emails[0].Text)
}

// gateRecognizer returns fixed spans for any text that reaches it.
type gateRecognizer struct{ spans []ner.Span }

func (gateRecognizer) Name() string { return "gate" }

func (g gateRecognizer) Recognize(context.Context, string) ([]ner.Span, error) {
	return g.spans, nil
}

func longBody(core string) string {
	body := core
	for len(body) < 220 {
		body += " the quick brown fox jumps over the lazy dog"
	}
	return body
}

func TestRunDerivesEventFromDateAndLocation(t *testing.T) {
	s := openTestStore(t)
	r := gateRecognizer{spans: []ner.Span{
		{Text: "June 2011", Label: ner.LabelDate},
		{Text: "London", Label: ner.LabelGPE},
		{Text: "Jane Doe", Label: ner.LabelPerson},
	}}
	ing := newTestIngestor(t, s, r)

	dir := t.TempDir()
	writeFile(t, dir, "report.txt", longBody("Jane Doe was in London in June 2011 aboard N12345."))

	report, err := ing.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, report.EventsDerived)

	events, err := s.ListEvents(10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "June 2011", events[0].DateText)
	assert.Equal(t, "London", events[0].LocationText)

	detail, err := s.EventDetail(events[0].ID)
	require.NoError(t, err)
	require.NotNil(t, detail)

	var labels []string
	for _, e := range detail.Entities {
		labels = append(labels, e.Label)
	}
	assert.Equal(t, []string{"PERSON"}, labels, "only PERSON/ORG entities are linked to events")
	require.Len(t, detail.Assets, 1)
	assert.Equal(t, "N12345", detail.Assets[0].Value)
}

func TestRunNoEventWithoutLocation(t *testing.T) {
	s := openTestStore(t)
	r := gateRecognizer{spans: []ner.Span{
		{Text: "June 2011", Label: ner.LabelDate},
		{Text: "Jane Doe", Label: ner.LabelPerson},
	}}
	ing := newTestIngestor(t, s, r)

	dir := t.TempDir()
	writeFile(t, dir, "report.txt", longBody("Jane Doe wrote this in June 2011."))

	report, err := ing.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 0, report.EventsDerived)
}
