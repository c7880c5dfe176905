package store

import (
	"github.com/cockroachdb/errors"
)

// UpsertEntity inserts the canonical entity row if absent and returns its id.
// Display text keeps the first-seen form; (normalized, label) is the identity.
func (t *Tx) UpsertEntity(text, label, normalized string) (int64, error) {
	_, err := t.tx.Exec(
		"INSERT OR IGNORE INTO entities(text, label, normalized) VALUES (?, ?, ?)",
		text, label, normalized,
	)
	if err != nil {
		return 0, errors.Wrap(err, "insert entity")
	}

	var id int64
	err = t.tx.QueryRow(
		"SELECT id FROM entities WHERE normalized=? AND label=?",
		normalized, label,
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "resolve entity id")
	}
	return id, nil
}

// LinkDocumentEntity upserts the document link; re-extraction increments the
// occurrence count rather than duplicating the row.
func (t *Tx) LinkDocumentEntity(docID, entityID int64, count int) error {
	_, err := t.tx.Exec(`
		INSERT INTO doc_entities(doc_id, entity_id, count)
		VALUES (?, ?, ?)
		ON CONFLICT(doc_id, entity_id) DO UPDATE SET count = count + excluded.count
	`, docID, entityID, count)
	return errors.Wrap(err, "link document entity")
}

// UpsertAsset inserts the canonical asset row if absent and returns its id
func (t *Tx) UpsertAsset(assetType, value, normalized string) (int64, error) {
	_, err := t.tx.Exec(
		"INSERT OR IGNORE INTO assets(asset_type, asset_value, normalized) VALUES (?, ?, ?)",
		assetType, value, normalized,
	)
	if err != nil {
		return 0, errors.Wrap(err, "insert asset")
	}

	var id int64
	err = t.tx.QueryRow(
		"SELECT id FROM assets WHERE asset_type=? AND normalized=?",
		assetType, normalized,
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "resolve asset id")
	}
	return id, nil
}

// LinkDocumentAsset upserts the document link with count accumulation
func (t *Tx) LinkDocumentAsset(docID, assetID int64, count int) error {
	_, err := t.tx.Exec(`
		INSERT INTO doc_assets(doc_id, asset_id, count)
		VALUES (?, ?, ?)
		ON CONFLICT(doc_id, asset_id) DO UPDATE SET count = count + excluded.count
	`, docID, assetID, count)
	return errors.Wrap(err, "link document asset")
}
