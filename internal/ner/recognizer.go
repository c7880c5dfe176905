// Package ner abstracts the external named-entity-recognition capability.
// The pipeline never branches on its presence beyond the quality gate: when no
// provider is configured, the Null recognizer simply contributes no spans.
package ner

import "context"

// Span is a single recognized entity occurrence
type Span struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Labels the pipeline consumes. Anything else a provider returns is discarded.
const (
	LabelPerson = "PERSON"
	LabelOrg    = "ORG"
	LabelGPE    = "GPE"
	LabelLoc    = "LOC"
	LabelDate   = "DATE"
)

// Recognizer is the external NER capability
type Recognizer interface {
	// Name returns the provider name
	Name() string

	// Recognize returns entity spans found in text. Implementations must be
	// safe to call concurrently.
	Recognize(ctx context.Context, text string) ([]Span, error)
}

var allowedLabels = map[string]bool{
	LabelPerson: true,
	LabelOrg:    true,
	LabelGPE:    true,
	LabelLoc:    true,
	LabelDate:   true,
}

// filterSpans drops empty spans and unknown labels
func filterSpans(spans []Span) []Span {
	out := spans[:0]
	for _, s := range spans {
		if s.Text == "" || !allowedLabels[s.Label] {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Null is a recognizer that never contributes entities. Used when no provider
// is configured so extraction degrades to pattern-only without branching.
type Null struct{}

// Name returns the provider name
func (Null) Name() string { return "null" }

// Recognize returns no spans
func (Null) Recognize(ctx context.Context, text string) ([]Span, error) {
	return nil, nil
}
