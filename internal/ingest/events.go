package ingest

import (
	"fmt"

	"github.com/veridex/veridex/internal/extract"
	"github.com/veridex/veridex/internal/ner"
	"github.com/veridex/veridex/internal/store"
)

// deriveEvent creates at most one event for a page: it requires a DATE entity
// and a location entity (GPE or LOC) among the page's signals. When several
// candidates exist, the lexicographically smallest normalized form wins, so
// re-ingestion always derives the same key. PERSON/ORG entities and all assets
// on the page are linked with set semantics.
func deriveEvent(tx *store.Tx, filename string, page int, entities []extract.EntitySignal, entityIDs map[int]int64, assetIDs []int64) (bool, error) {
	var date, loc *extract.EntitySignal

	for i := range entities {
		e := &entities[i]
		switch e.Label {
		case ner.LabelDate:
			if date == nil || e.Normalized < date.Normalized {
				date = e
			}
		case ner.LabelGPE, ner.LabelLoc:
			if loc == nil || e.Normalized < loc.Normalized {
				loc = e
			}
		}
	}

	if date == nil || loc == nil {
		return false, nil
	}

	key := fmt.Sprintf("%s|%s|%s|%d", date.Normalized, loc.Normalized, filename, page)
	eventID, inserted, err := tx.UpsertEvent(key, date.Text, date.Normalized, loc.Text, loc.Normalized, filename, page)
	if err != nil {
		return false, err
	}

	for i := range entities {
		if entities[i].Label != ner.LabelPerson && entities[i].Label != ner.LabelOrg {
			continue
		}
		id, ok := entityIDs[i]
		if !ok {
			continue
		}
		if err := tx.LinkEventEntity(eventID, id); err != nil {
			return false, err
		}
	}

	for _, id := range assetIDs {
		if err := tx.LinkEventAsset(eventID, id); err != nil {
			return false, err
		}
	}

	return inserted, nil
}
