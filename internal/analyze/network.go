package analyze

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/veridex/veridex/internal/boundary"
	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/store"
)

// Network summarizes exposure structure around derived events: which
// entities and assets recur together, over time, without accusations.
type Network struct {
	store    *store.Store
	enforcer *boundary.Enforcer
}

// NewNetwork creates a network exposure summarizer
func NewNetwork(st *store.Store, enforcer *boundary.Enforcer) *Network {
	return &Network{store: st, enforcer: enforcer}
}

// Summarize builds the exposure summary. With a focus entity, only events
// linked to it are considered; otherwise the newest events globally. Assets
// recurring in at least two of the selected events yield a pattern inference
// plus a structural implication.
func (n *Network) Summarize(ctx context.Context, focusEntity string, maxEvents, maxAssets int) ([]model.Statement, error) {
	var (
		events []model.EventSummary
		err    error
	)

	if focusEntity != "" {
		norm, found, rerr := n.store.ResolveEntityNorm(focusEntity)
		if rerr != nil {
			return nil, rerr
		}
		if !found {
			return n.enforcer.Enforce([]model.Statement{{
				Type:       model.StatementFact,
				Confidence: 1.0,
				Text:       "The focus entity was not found in the dataset. Ingest data first or check spelling.",
			}}), nil
		}
		events, err = n.store.EventsForEntity(norm, maxEvents)
	} else {
		events, err = n.store.ListEvents(maxEvents)
	}
	if err != nil {
		return nil, errors.Wrap(err, "select events")
	}

	var stmts []model.Statement
	eventIDs := make([]int64, 0, len(events))

	for _, ev := range events {
		eventIDs = append(eventIDs, ev.ID)

		entCount, assetCount, err := n.store.EventParticipantCounts(ev.ID)
		if err != nil {
			return nil, errors.Wrap(err, "event participant counts")
		}

		src := model.SourceRef{
			Filename: ev.Filename,
			Page:     ev.Page,
			Snippet:  fmt.Sprintf("Derived event: date=%s, location=%s", ev.DateText, ev.LocationText),
		}

		stmts = append(stmts, model.Statement{
			Type:       model.StatementFact,
			Confidence: 0.85,
			Text: fmt.Sprintf("Event structure detected on %s page %d: date='%s' location='%s', with %d linked entities and %d linked assets.",
				ev.Filename, ev.Page, ev.DateText, ev.LocationText, entCount, assetCount),
			PrimarySources: []model.SourceRef{src},
			Metadata:       map[string]any{"event_id": ev.ID},
		})
	}

	overlaps, err := n.store.AssetsAcrossEvents(eventIDs, maxAssets)
	if err != nil {
		return nil, errors.Wrap(err, "asset overlaps")
	}

	if len(overlaps) > 0 {
		meta := map[string]any{"top_asset_overlaps": overlaps}

		stmts = append(stmts, model.Statement{
			Type:       model.StatementInference,
			Confidence: 0.65,
			Text:       "Repeated asset reuse across multiple distinct events is consistent with centralized control or operational reuse patterns. This is a pattern-based inference, not a claim of intent.",
			Metadata:   meta,
		})
		stmts = append(stmts, model.Statement{
			Type:       model.StatementImplication,
			Confidence: 0.9,
			Text:       "The same assets appear across multiple events in the dataset. This indicates structural overlap across documents and time, without asserting identity, intent, or wrongdoing.",
			Metadata:   meta,
		})
	}

	return n.enforcer.Enforce(stmts), nil
}
