package store

import (
	"database/sql"

	"github.com/cockroachdb/errors"
)

// HasFingerprint reports whether a page with this content fingerprint is
// already ingested. Called before InsertDocument inside the same transaction,
// so the check is race-free under the single-writer model.
func (t *Tx) HasFingerprint(hash string) (bool, error) {
	var one int
	err := t.tx.QueryRow("SELECT 1 FROM documents WHERE content_hash=? LIMIT 1", hash).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, errors.Wrap(err, "fingerprint lookup")
	}
	return true, nil
}

// InsertDocument inserts one page and returns its id
func (t *Tx) InsertDocument(filename string, page int, content, hash string) (int64, error) {
	res, err := t.tx.Exec(
		"INSERT INTO documents(filename, page, content, content_hash) VALUES (?, ?, ?, ?)",
		filename, page, content, hash,
	)
	if err != nil {
		return 0, errors.Wrap(err, "insert document")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "document rowid")
	}
	return id, nil
}

// DocumentCount returns the total number of ingested pages
func (s *Store) DocumentCount() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM documents").Scan(&n)
	return n, errors.Wrap(err, "count documents")
}
