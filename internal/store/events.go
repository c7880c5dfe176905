package store

import (
	"database/sql"

	"github.com/cockroachdb/errors"

	"github.com/veridex/veridex/internal/model"
)

// UpsertEvent inserts the derived event if its key is new and returns
// (id, inserted). Re-deriving from the same page hits the key and is a no-op.
func (t *Tx) UpsertEvent(key, dateText, dateNorm, locText, locNorm, filename string, page int) (int64, bool, error) {
	res, err := t.tx.Exec(`
		INSERT OR IGNORE INTO events(event_key, date_text, date_norm, location_text, location_norm, filename, page)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, key, dateText, dateNorm, locText, locNorm, filename, page)
	if err != nil {
		return 0, false, errors.Wrap(err, "insert event")
	}

	inserted := false
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		inserted = true
	}

	var id int64
	err = t.tx.QueryRow("SELECT id FROM events WHERE event_key=?", key).Scan(&id)
	if err != nil {
		return 0, false, errors.Wrap(err, "resolve event id")
	}
	return id, inserted, nil
}

// LinkEventEntity links an entity to an event with set semantics
func (t *Tx) LinkEventEntity(eventID, entityID int64) error {
	_, err := t.tx.Exec(
		"INSERT OR IGNORE INTO event_entities(event_id, entity_id) VALUES (?, ?)",
		eventID, entityID,
	)
	return errors.Wrap(err, "link event entity")
}

// LinkEventAsset links an asset to an event with set semantics
func (t *Tx) LinkEventAsset(eventID, assetID int64) error {
	_, err := t.tx.Exec(
		"INSERT OR IGNORE INTO event_assets(event_id, asset_id) VALUES (?, ?)",
		eventID, assetID,
	)
	return errors.Wrap(err, "link event asset")
}

// EventCount returns the total number of derived events
func (s *Store) EventCount() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&n)
	return n, errors.Wrap(err, "count events")
}

// ListEvents returns events newest-first
func (s *Store) ListEvents(limit int) ([]model.EventSummary, error) {
	rows, err := s.db.Query(`
		SELECT id, COALESCE(date_text, ''), COALESCE(location_text, ''), filename, page
		FROM events
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list events")
	}
	defer rows.Close()

	return scanEventSummaries(rows)
}

// EventsForEntity returns events linked to the normalized entity key
// (PERSON/ORG labels only), newest-first.
func (s *Store) EventsForEntity(normalized string, limit int) ([]model.EventSummary, error) {
	rows, err := s.db.Query(`
		SELECT ev.id, COALESCE(ev.date_text, ''), COALESCE(ev.location_text, ''), ev.filename, ev.page
		FROM events ev
		JOIN event_entities ee ON ee.event_id = ev.id
		JOIN entities e ON e.id = ee.entity_id
		WHERE e.normalized = ? AND e.label IN ('PERSON','ORG')
		ORDER BY ev.id DESC
		LIMIT ?
	`, normalized, limit)
	if err != nil {
		return nil, errors.Wrap(err, "events for entity")
	}
	defer rows.Close()

	return scanEventSummaries(rows)
}

func scanEventSummaries(rows *sql.Rows) ([]model.EventSummary, error) {
	var out []model.EventSummary
	for rows.Next() {
		var ev model.EventSummary
		if err := rows.Scan(&ev.ID, &ev.DateText, &ev.LocationText, &ev.Filename, &ev.Page); err != nil {
			return nil, errors.Wrap(err, "scan event")
		}
		out = append(out, ev)
	}
	return out, errors.Wrap(rows.Err(), "iterate events")
}

// EventDetail returns one event with its participants, or nil if absent
func (s *Store) EventDetail(eventID int64) (*model.EventDetail, error) {
	detail := &model.EventDetail{}
	detail.ID = eventID

	err := s.db.QueryRow(`
		SELECT COALESCE(date_text, ''), COALESCE(location_text, ''), filename, page
		FROM events WHERE id=?
	`, eventID).Scan(&detail.DateText, &detail.LocationText, &detail.Filename, &detail.Page)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "event lookup")
	}

	rows, err := s.db.Query(`
		SELECT e.text, e.label
		FROM event_entities ee
		JOIN entities e ON e.id = ee.entity_id
		WHERE ee.event_id=?
	`, eventID)
	if err != nil {
		return nil, errors.Wrap(err, "event entities")
	}
	defer rows.Close()
	for rows.Next() {
		var ref model.EventEntityRef
		if err := rows.Scan(&ref.Text, &ref.Label); err != nil {
			return nil, errors.Wrap(err, "scan event entity")
		}
		detail.Entities = append(detail.Entities, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate event entities")
	}

	arows, err := s.db.Query(`
		SELECT a.asset_value, a.asset_type
		FROM event_assets ea
		JOIN assets a ON a.id = ea.asset_id
		WHERE ea.event_id=?
	`, eventID)
	if err != nil {
		return nil, errors.Wrap(err, "event assets")
	}
	defer arows.Close()
	for arows.Next() {
		var ref model.EventAssetRef
		if err := arows.Scan(&ref.Value, &ref.Type); err != nil {
			return nil, errors.Wrap(err, "scan event asset")
		}
		detail.Assets = append(detail.Assets, ref)
	}
	if err := arows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate event assets")
	}

	return detail, nil
}

// EventParticipantCounts returns distinct PERSON/ORG entity and asset counts
// for one event.
func (s *Store) EventParticipantCounts(eventID int64) (entities, assets int, err error) {
	err = s.db.QueryRow(`
		SELECT COUNT(DISTINCT e.id)
		FROM event_entities ee
		JOIN entities e ON e.id = ee.entity_id
		WHERE ee.event_id=? AND e.label IN ('PERSON','ORG')
	`, eventID).Scan(&entities)
	if err != nil {
		return 0, 0, errors.Wrap(err, "event entity count")
	}

	err = s.db.QueryRow(`
		SELECT COUNT(DISTINCT a.id)
		FROM event_assets ea
		JOIN assets a ON a.id = ea.asset_id
		WHERE ea.event_id=?
	`, eventID).Scan(&assets)
	if err != nil {
		return 0, 0, errors.Wrap(err, "event asset count")
	}
	return entities, assets, nil
}

// AssetOverlap is an asset that recurs across events
type AssetOverlap struct {
	AssetType  string `json:"asset_type"`
	AssetValue string `json:"asset_value"`
	EventCount int    `json:"event_count"`
}

// AssetsAcrossEvents returns assets appearing in at least two of the given
// events, ordered by event count descending.
func (s *Store) AssetsAcrossEvents(eventIDs []int64, limit int) ([]AssetOverlap, error) {
	if len(eventIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT a.asset_type, a.asset_value, COUNT(DISTINCT ea.event_id) AS event_count
		FROM assets a
		JOIN event_assets ea ON ea.asset_id = a.id
		WHERE ea.event_id IN (` + placeholders(len(eventIDs)) + `)
		GROUP BY a.id
		HAVING event_count >= 2
		ORDER BY event_count DESC
		LIMIT ?`

	args := make([]any, 0, len(eventIDs)+1)
	for _, id := range eventIDs {
		args = append(args, id)
	}
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "asset overlaps")
	}
	defer rows.Close()

	var out []AssetOverlap
	for rows.Next() {
		var o AssetOverlap
		if err := rows.Scan(&o.AssetType, &o.AssetValue, &o.EventCount); err != nil {
			return nil, errors.Wrap(err, "scan asset overlap")
		}
		out = append(out, o)
	}
	return out, errors.Wrap(rows.Err(), "iterate asset overlaps")
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, 0, n*2-1)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, '?')
	}
	return string(b)
}
