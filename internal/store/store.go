// Package store provides SQLite persistence for the evidentiary pipeline:
// documents, entities, assets, derived events, registry records, and the
// FTS5 index over document content.
package store

import (
	"database/sql"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Ingestion is single-writer: all mutation goes through WithTx. Read queries
// may run concurrently with no writer active.
type Store struct {
	db *sql.DB
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for better concurrent read performance (file-based DBs only).
func Open(dbPath string) (*Store, error) {
	// For in-memory databases, use shared cache mode so all connections
	// in the pool see the same database
	connStr := dbPath
	if dbPath == ":memory:" {
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping database")
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "enable WAL mode")
		}
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "enable foreign keys")
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create tables")
	}

	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id INTEGER PRIMARY KEY,
		filename TEXT NOT NULL,
		page INTEGER NOT NULL DEFAULT 1,
		content TEXT NOT NULL,
		content_hash TEXT NOT NULL UNIQUE
	);

	CREATE INDEX IF NOT EXISTS idx_documents_filename ON documents(filename);
	CREATE INDEX IF NOT EXISTS idx_documents_page ON documents(page);

	CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts
	USING fts5(
		content,
		content='documents',
		content_rowid='id',
		tokenize='unicode61'
	);

	CREATE TRIGGER IF NOT EXISTS documents_ai AFTER INSERT ON documents BEGIN
		INSERT INTO documents_fts(rowid, content) VALUES (new.id, new.content);
	END;

	CREATE TRIGGER IF NOT EXISTS documents_ad AFTER DELETE ON documents BEGIN
		INSERT INTO documents_fts(documents_fts, rowid, content) VALUES ('delete', old.id, old.content);
	END;

	CREATE TRIGGER IF NOT EXISTS documents_au AFTER UPDATE ON documents BEGIN
		INSERT INTO documents_fts(documents_fts, rowid, content) VALUES ('delete', old.id, old.content);
		INSERT INTO documents_fts(rowid, content) VALUES (new.id, new.content);
	END;

	CREATE TABLE IF NOT EXISTS entities (
		id INTEGER PRIMARY KEY,
		text TEXT NOT NULL,
		label TEXT NOT NULL,
		normalized TEXT NOT NULL,
		UNIQUE(normalized, label)
	);

	CREATE INDEX IF NOT EXISTS idx_entities_label ON entities(label);
	CREATE INDEX IF NOT EXISTS idx_entities_text ON entities(text);
	CREATE INDEX IF NOT EXISTS idx_entities_norm ON entities(normalized);

	CREATE TABLE IF NOT EXISTS doc_entities (
		doc_id INTEGER NOT NULL,
		entity_id INTEGER NOT NULL,
		count INTEGER NOT NULL DEFAULT 1,
		FOREIGN KEY(doc_id) REFERENCES documents(id) ON DELETE CASCADE,
		FOREIGN KEY(entity_id) REFERENCES entities(id) ON DELETE CASCADE,
		UNIQUE(doc_id, entity_id)
	);

	CREATE INDEX IF NOT EXISTS idx_doc_entities_doc ON doc_entities(doc_id);
	CREATE INDEX IF NOT EXISTS idx_doc_entities_entity ON doc_entities(entity_id);

	CREATE TABLE IF NOT EXISTS assets (
		id INTEGER PRIMARY KEY,
		asset_type TEXT NOT NULL,
		asset_value TEXT NOT NULL,
		normalized TEXT NOT NULL,
		UNIQUE(asset_type, normalized)
	);

	CREATE INDEX IF NOT EXISTS idx_assets_type ON assets(asset_type);
	CREATE INDEX IF NOT EXISTS idx_assets_norm ON assets(normalized);

	CREATE TABLE IF NOT EXISTS doc_assets (
		doc_id INTEGER NOT NULL,
		asset_id INTEGER NOT NULL,
		count INTEGER NOT NULL DEFAULT 1,
		FOREIGN KEY(doc_id) REFERENCES documents(id) ON DELETE CASCADE,
		FOREIGN KEY(asset_id) REFERENCES assets(id) ON DELETE CASCADE,
		UNIQUE(doc_id, asset_id)
	);

	CREATE INDEX IF NOT EXISTS idx_doc_assets_doc ON doc_assets(doc_id);
	CREATE INDEX IF NOT EXISTS idx_doc_assets_asset ON doc_assets(asset_id);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY,
		event_key TEXT NOT NULL,
		date_text TEXT,
		date_norm TEXT,
		location_text TEXT,
		location_norm TEXT,
		filename TEXT NOT NULL,
		page INTEGER NOT NULL,
		UNIQUE(event_key)
	);

	CREATE INDEX IF NOT EXISTS idx_events_date_norm ON events(date_norm);
	CREATE INDEX IF NOT EXISTS idx_events_loc_norm ON events(location_norm);

	CREATE TABLE IF NOT EXISTS event_entities (
		event_id INTEGER NOT NULL,
		entity_id INTEGER NOT NULL,
		FOREIGN KEY(event_id) REFERENCES events(id) ON DELETE CASCADE,
		FOREIGN KEY(entity_id) REFERENCES entities(id) ON DELETE CASCADE,
		UNIQUE(event_id, entity_id)
	);

	CREATE TABLE IF NOT EXISTS event_assets (
		event_id INTEGER NOT NULL,
		asset_id INTEGER NOT NULL,
		FOREIGN KEY(event_id) REFERENCES events(id) ON DELETE CASCADE,
		FOREIGN KEY(asset_id) REFERENCES assets(id) ON DELETE CASCADE,
		UNIQUE(event_id, asset_id)
	);

	CREATE TABLE IF NOT EXISTS registry_records (
		id INTEGER PRIMARY KEY,
		registry_name TEXT NOT NULL,
		record_type TEXT NOT NULL,
		subject_type TEXT NOT NULL,
		subject_norm TEXT NOT NULL,
		field_key TEXT NOT NULL,
		field_value TEXT NOT NULL,
		statement_type TEXT NOT NULL,
		confidence REAL NOT NULL DEFAULT 1.0,
		primary_source TEXT NOT NULL,
		secondary_source TEXT,
		UNIQUE(registry_name, record_type, subject_type, subject_norm, field_key, field_value)
	);

	CREATE INDEX IF NOT EXISTS idx_registry_subject ON registry_records(subject_type, subject_norm);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return errors.Wrap(err, "execute schema")
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Tx wraps the single run-wide ingestion transaction. All mutation methods
// hang off Tx so partial extraction can never commit outside the run.
type Tx struct {
	tx *sql.Tx
}

// WithTx runs fn inside one transaction: commit on nil return, rollback on
// error, rollback then re-panic on panic. This is the atomicity unit for a
// whole ingestion run.
func (s *Store) WithTx(fn func(*Tx) error) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&Tx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "commit transaction")
}
