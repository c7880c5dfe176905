package store

import (
	"database/sql"

	"github.com/cockroachdb/errors"
)

// ResolveEntityNorm resolves a display-text string to its normalized key.
// Returns ("", false, nil) when the entity is unknown: a not-found result,
// not an error.
func (s *Store) ResolveEntityNorm(text string) (string, bool, error) {
	var norm string
	err := s.db.QueryRow("SELECT normalized FROM entities WHERE text=? LIMIT 1", text).Scan(&norm)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "resolve entity")
	}
	return norm, true, nil
}

// ScopeCounts holds the co-occurrence counts for overlap analysis:
// N scope units total, a with entity A, b with entity B, k with both.
type ScopeCounts struct {
	N int
	A int
	B int
	K int
}

// DocScopeCounts counts document-scope co-occurrence for two normalized
// entity keys, restricted to PERSON/ORG labels.
func (s *Store) DocScopeCounts(normA, normB string) (ScopeCounts, error) {
	var c ScopeCounts

	if err := s.db.QueryRow("SELECT COUNT(*) FROM documents").Scan(&c.N); err != nil {
		return c, errors.Wrap(err, "count documents")
	}

	single := `
		SELECT COUNT(DISTINCT d.id)
		FROM documents d
		JOIN doc_entities de ON de.doc_id = d.id
		JOIN entities e ON e.id = de.entity_id
		WHERE e.normalized=? AND e.label IN ('PERSON','ORG')`

	if err := s.db.QueryRow(single, normA).Scan(&c.A); err != nil {
		return c, errors.Wrap(err, "count docs with A")
	}
	if err := s.db.QueryRow(single, normB).Scan(&c.B); err != nil {
		return c, errors.Wrap(err, "count docs with B")
	}

	both := `
		SELECT COUNT(DISTINCT d.id)
		FROM documents d
		JOIN doc_entities de1 ON de1.doc_id = d.id
		JOIN entities e1 ON e1.id = de1.entity_id
		JOIN doc_entities de2 ON de2.doc_id = d.id
		JOIN entities e2 ON e2.id = de2.entity_id
		WHERE e1.normalized=? AND e2.normalized=?
		  AND e1.label IN ('PERSON','ORG') AND e2.label IN ('PERSON','ORG')`

	if err := s.db.QueryRow(both, normA, normB).Scan(&c.K); err != nil {
		return c, errors.Wrap(err, "count docs with both")
	}
	return c, nil
}

// EventScopeCounts counts event-scope co-occurrence for two normalized
// entity keys, restricted to PERSON/ORG labels.
func (s *Store) EventScopeCounts(normA, normB string) (ScopeCounts, error) {
	var c ScopeCounts

	if err := s.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&c.N); err != nil {
		return c, errors.Wrap(err, "count events")
	}

	single := `
		SELECT COUNT(DISTINCT ev.id)
		FROM events ev
		JOIN event_entities ee ON ee.event_id = ev.id
		JOIN entities e ON e.id = ee.entity_id
		WHERE e.normalized=? AND e.label IN ('PERSON','ORG')`

	if err := s.db.QueryRow(single, normA).Scan(&c.A); err != nil {
		return c, errors.Wrap(err, "count events with A")
	}
	if err := s.db.QueryRow(single, normB).Scan(&c.B); err != nil {
		return c, errors.Wrap(err, "count events with B")
	}

	both := `
		SELECT COUNT(DISTINCT ev.id)
		FROM events ev
		JOIN event_entities ee1 ON ee1.event_id = ev.id
		JOIN entities e1 ON e1.id = ee1.entity_id
		JOIN event_entities ee2 ON ee2.event_id = ev.id
		JOIN entities e2 ON e2.id = ee2.entity_id
		WHERE e1.normalized=? AND e2.normalized=?
		  AND e1.label IN ('PERSON','ORG') AND e2.label IN ('PERSON','ORG')`

	if err := s.db.QueryRow(both, normA, normB).Scan(&c.K); err != nil {
		return c, errors.Wrap(err, "count events with both")
	}
	return c, nil
}
