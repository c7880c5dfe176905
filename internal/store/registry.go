package store

import (
	"database/sql"

	"github.com/cockroachdb/errors"

	"github.com/veridex/veridex/internal/model"
)

// InsertRegistryRecord inserts one registry field as FACT with confidence
// 1.0. Duplicate tuples are silently ignored; returns whether a row was
// actually inserted.
func (t *Tx) InsertRegistryRecord(registryName, recordType, subjectType, subjectNorm, fieldKey, fieldValue, primarySource string, secondarySource *string) (bool, error) {
	var secondary sql.NullString
	if secondarySource != nil {
		secondary = sql.NullString{String: *secondarySource, Valid: true}
	}

	res, err := t.tx.Exec(`
		INSERT OR IGNORE INTO registry_records(
			registry_name, record_type, subject_type, subject_norm,
			field_key, field_value, statement_type, confidence,
			primary_source, secondary_source
		)
		VALUES (?, ?, ?, ?, ?, ?, 'FACT', 1.0, ?, ?)
	`, registryName, recordType, subjectType, subjectNorm, fieldKey, fieldValue, primarySource, secondary)
	if err != nil {
		return false, errors.Wrap(err, "insert registry record")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "registry rows affected")
	}
	return n > 0, nil
}

// RegistryLookup returns registry records for a subject. An unknown subject
// returns an empty list, not an error.
func (s *Store) RegistryLookup(subjectType, subjectNorm string, limit int) ([]model.RegistryRecord, error) {
	rows, err := s.db.Query(`
		SELECT registry_name, record_type, field_key, field_value, primary_source, COALESCE(secondary_source, '')
		FROM registry_records
		WHERE subject_type=? AND subject_norm=?
		LIMIT ?
	`, subjectType, subjectNorm, limit)
	if err != nil {
		return nil, errors.Wrap(err, "registry lookup")
	}
	defer rows.Close()

	var out []model.RegistryRecord
	for rows.Next() {
		var r model.RegistryRecord
		if err := rows.Scan(&r.RegistryName, &r.RecordType, &r.FieldKey, &r.FieldValue, &r.PrimarySource, &r.SecondarySource); err != nil {
			return nil, errors.Wrap(err, "scan registry record")
		}
		out = append(out, r)
	}
	return out, errors.Wrap(rows.Err(), "iterate registry records")
}
