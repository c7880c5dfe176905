package store

import (
	"database/sql"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/veridex/veridex/internal/model"
)

var (
	wsRun       = regexp.MustCompile(`\s+`)
	ftsBadChars = regexp.MustCompile(`[^\w\s"*\-]`)
)

// SanitizeQuery rewrites a raw user query into a safe FTS5 MATCH expression:
// NUL bytes stripped, whitespace collapsed, unsupported punctuation removed,
// implicit AND between bare terms. Quoted phrases pass through verbatim.
func SanitizeQuery(q string) string {
	q = strings.ReplaceAll(strings.TrimSpace(q), "\x00", " ")
	q = wsRun.ReplaceAllString(q, " ")
	q = ftsBadChars.ReplaceAllString(q, " ")
	q = strings.TrimSpace(wsRun.ReplaceAllString(q, " "))
	if q == "" {
		return ""
	}
	if strings.Contains(q, `"`) {
		return q
	}
	parts := strings.Fields(q)
	if len(parts) <= 1 {
		return q
	}
	return strings.Join(parts, " AND ")
}

// SearchDocuments runs a keyword search over the FTS index
func (s *Store) SearchDocuments(query string, limit int) ([]model.SearchHit, error) {
	q := SanitizeQuery(query)
	if q == "" {
		return nil, nil
	}

	rows, err := s.db.Query(`
		SELECT d.filename, d.page,
		       snippet(documents_fts, 0, '[', ']', '...', 20) AS snip
		FROM documents_fts
		JOIN documents d ON documents_fts.rowid = d.id
		WHERE documents_fts MATCH ?
		LIMIT ?
	`, q, limit)
	if err != nil {
		return nil, errors.Wrap(err, "fts search")
	}
	defer rows.Close()

	var hits []model.SearchHit
	for rows.Next() {
		var h model.SearchHit
		if err := rows.Scan(&h.Filename, &h.Page, &h.Snippet); err != nil {
			return nil, errors.Wrap(err, "scan search hit")
		}
		hits = append(hits, h)
	}
	return hits, errors.Wrap(rows.Err(), "iterate search hits")
}

// TopEntities returns entities of one label by aggregate occurrence count
func (s *Store) TopEntities(label string, limit int) ([]model.EntityCount, error) {
	rows, err := s.db.Query(`
		SELECT e.text, e.label, SUM(de.count) AS total_count
		FROM entities e
		JOIN doc_entities de ON de.entity_id = e.id
		WHERE e.label = ?
		GROUP BY e.id
		ORDER BY total_count DESC
		LIMIT ?
	`, label, limit)
	if err != nil {
		return nil, errors.Wrap(err, "top entities")
	}
	defer rows.Close()

	var out []model.EntityCount
	for rows.Next() {
		var ec model.EntityCount
		if err := rows.Scan(&ec.Text, &ec.Label, &ec.Count); err != nil {
			return nil, errors.Wrap(err, "scan entity count")
		}
		out = append(out, ec)
	}
	return out, errors.Wrap(rows.Err(), "iterate entity counts")
}

// EntityMentions lists pages on which an entity occurs
func (s *Store) EntityMentions(text, label string, limit int) ([]model.Mention, error) {
	rows, err := s.db.Query(`
		SELECT d.filename, d.page, d.content
		FROM entities e
		JOIN doc_entities de ON de.entity_id = e.id
		JOIN documents d ON d.id = de.doc_id
		WHERE e.text = ? AND e.label = ?
		LIMIT ?
	`, text, label, limit)
	if err != nil {
		return nil, errors.Wrap(err, "entity mentions")
	}
	defer rows.Close()

	return scanMentions(rows)
}

// TopAssets returns assets of one type by aggregate occurrence count
func (s *Store) TopAssets(assetType string, limit int) ([]model.AssetCount, error) {
	rows, err := s.db.Query(`
		SELECT a.asset_value, a.asset_type, SUM(da.count) AS total_count
		FROM assets a
		JOIN doc_assets da ON da.asset_id = a.id
		WHERE a.asset_type = ?
		GROUP BY a.id
		ORDER BY total_count DESC
		LIMIT ?
	`, assetType, limit)
	if err != nil {
		return nil, errors.Wrap(err, "top assets")
	}
	defer rows.Close()

	var out []model.AssetCount
	for rows.Next() {
		var ac model.AssetCount
		if err := rows.Scan(&ac.Value, &ac.Type, &ac.Count); err != nil {
			return nil, errors.Wrap(err, "scan asset count")
		}
		out = append(out, ac)
	}
	return out, errors.Wrap(rows.Err(), "iterate asset counts")
}

// AssetMentions lists pages on which an asset occurs
func (s *Store) AssetMentions(value, assetType string, limit int) ([]model.Mention, error) {
	rows, err := s.db.Query(`
		SELECT d.filename, d.page, d.content
		FROM assets a
		JOIN doc_assets da ON da.asset_id = a.id
		JOIN documents d ON d.id = da.doc_id
		WHERE a.asset_value = ? AND a.asset_type = ?
		LIMIT ?
	`, value, assetType, limit)
	if err != nil {
		return nil, errors.Wrap(err, "asset mentions")
	}
	defer rows.Close()

	return scanMentions(rows)
}

func scanMentions(rows *sql.Rows) ([]model.Mention, error) {
	var out []model.Mention
	for rows.Next() {
		var m model.Mention
		if err := rows.Scan(&m.Filename, &m.Page, &m.Content); err != nil {
			return nil, errors.Wrap(err, "scan mention")
		}
		out = append(out, m)
	}
	return out, errors.Wrap(rows.Err(), "iterate mentions")
}
