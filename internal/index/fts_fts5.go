//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS lexemes_fts USING fts5(
			path UNINDEXED,
			ord UNINDEXED,
			headword,
			gloss,
			raw,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, path string, ord int, headword, gloss, raw string) error {
	_, err := tx.Exec(`INSERT INTO lexemes_fts (path, ord, headword, gloss, raw) VALUES (?, ?, ?, ?, ?)`,
		path, ord, headword, gloss, raw)
	if err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, path string) {
	_, _ = tx.Exec(`DELETE FROM lexemes_fts WHERE path = ?`, path)
}

// Search performs an FTS5 full-text search and returns matching entries with
// snippets.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT path,
		       ord,
		       headword,
		       snippet(lexemes_fts, 4, '<b>', '</b>', '...', 64)
		FROM lexemes_fts
		WHERE lexemes_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Path, &r.Ord, &r.Headword, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
