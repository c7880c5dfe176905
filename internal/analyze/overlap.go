// Package analyze builds statement batches from the evidence store: overlap
// randomness analysis between two entities, and network exposure summaries.
// Every batch passes through the assertion boundary before it is returned.
package analyze

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/veridex/veridex/internal/boundary"
	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/store"
)

// Analysis scopes for overlap counting
const (
	ScopeDocs   = "DOCS"
	ScopeEvents = "EVENTS"
)

// Overlap answers how many independent coincidences would need to exist for
// two entities' repeated co-occurrence to be random. It reports counts and a
// conservative improbability framing; it never asserts intent or wrongdoing.
type Overlap struct {
	store    *store.Store
	enforcer *boundary.Enforcer
}

// NewOverlap creates an overlap analyzer
func NewOverlap(st *store.Store, enforcer *boundary.Enforcer) *Overlap {
	return &Overlap{store: st, enforcer: enforcer}
}

// approxPValue maps overlap density to a pseudo p-value. Not a statistical
// proof, just a "how many coincidences" framing under a simplistic
// independence assumption.
func approxPValue(c store.ScopeCounts) float64 {
	if c.N <= 0 {
		return 1.0
	}
	expected := float64(c.A) * float64(c.B) / float64(c.N)
	if expected <= 0 {
		if c.K > 0 {
			return 0.5
		}
		return 1.0
	}

	ratio := float64(c.K) / expected
	p := 1.0 / (1.0 + max(0.0, ratio-1.0)*2.5)
	return min(1.0, max(0.0001, p))
}

// AnalyzeOverlap runs the analysis for two entity display texts over the
// given scope (DOCS or EVENTS; anything else means EVENTS). Unknown entities
// produce a single not-found statement rather than an error.
func (o *Overlap) AnalyzeOverlap(ctx context.Context, entityA, entityB, scope string) ([]model.Statement, error) {
	normA, foundA, err := o.store.ResolveEntityNorm(entityA)
	if err != nil {
		return nil, err
	}
	normB, foundB, err := o.store.ResolveEntityNorm(entityB)
	if err != nil {
		return nil, err
	}

	if !foundA || !foundB {
		return o.enforcer.Enforce([]model.Statement{{
			Type:       model.StatementFact,
			Confidence: 1.0,
			Text:       "One or both entities were not found in the dataset. Ingest data first or check spelling.",
		}}), nil
	}

	var (
		counts store.ScopeCounts
		stmts  []model.Statement
	)

	if strings.EqualFold(scope, ScopeDocs) {
		counts, err = o.store.DocScopeCounts(normA, normB)
		if err != nil {
			return nil, errors.Wrap(err, "document scope counts")
		}
		p := approxPValue(counts)

		stmts = append(stmts, model.Statement{
			Type:       model.StatementFact,
			Confidence: 1.0,
			Text: fmt.Sprintf("Document overlap counts (scope=DOCS): total_docs=%d, docs_with_A=%d, docs_with_B=%d, docs_with_both=%d.",
				counts.N, counts.A, counts.B, counts.K),
			Metadata: countsMetadata(counts, ScopeDocs),
		})
		stmts = append(stmts, model.Statement{
			Type:       model.StatementInference,
			Confidence: 0.7,
			Text:       "Overlap density can be used to assess how many independent coincidences would need to exist for repeated co-occurrence to be random. This is a probabilistic framing, not a claim of intent or wrongdoing.",
			Metadata:   map[string]any{"approx_p_value": p},
		})
		stmts = append(stmts, model.Statement{
			Type:       model.StatementImplication,
			Confidence: 0.9,
			Text:       fmt.Sprintf("Approximate randomness score (conservative): p≈%.4f. Smaller values indicate that repeated overlap is less consistent with random coincidence under a simplistic independence assumption.", p),
			Metadata:   map[string]any{"approx_p_value": p},
		})
	} else {
		counts, err = o.store.EventScopeCounts(normA, normB)
		if err != nil {
			return nil, errors.Wrap(err, "event scope counts")
		}
		p := approxPValue(counts)

		stmts = append(stmts, model.Statement{
			Type:       model.StatementFact,
			Confidence: 1.0,
			Text: fmt.Sprintf("Event overlap counts (scope=EVENTS): total_events=%d, events_with_A=%d, events_with_B=%d, events_with_both=%d.",
				counts.N, counts.A, counts.B, counts.K),
			Metadata: countsMetadata(counts, ScopeEvents),
		})
		stmts = append(stmts, model.Statement{
			Type:       model.StatementInference,
			Confidence: 0.7,
			Text:       "Repeated overlap in derived events can be used to evaluate how many independent coincidences would be required for a pattern to be accidental. This is a probabilistic framing, not an accusation.",
			Metadata:   map[string]any{"approx_p_value": p},
		})
		stmts = append(stmts, model.Statement{
			Type:       model.StatementImplication,
			Confidence: 0.9,
			Text:       fmt.Sprintf("Approximate randomness score (conservative): p≈%.4f. Smaller values suggest overlap is less consistent with random coincidence under simplistic assumptions.", p),
			Metadata:   map[string]any{"approx_p_value": p},
		})
	}

	return o.enforcer.Enforce(stmts), nil
}

func countsMetadata(c store.ScopeCounts, scope string) map[string]any {
	return map[string]any{
		"N":     c.N,
		"a":     c.A,
		"b":     c.B,
		"k":     c.K,
		"scope": scope,
	}
}
