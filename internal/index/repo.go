package index

import (
	"fmt"
	"time"
)

// FileRow represents a row in the files table.
type FileRow struct {
	Path       string
	Checksum   string
	EntryCount int
	UpdatedAt  time.Time
}

// LexemeRow represents one indexed lexicon entry.
type LexemeRow struct {
	Path     string
	Ord      int // position of the entry within its file
	Headword string
	Gloss    string
	Raw      string // serialized SFM text of the entry
}

// Ref is one directed cross-reference edge extracted from an entry.
type Ref struct {
	Source string
	Target string
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path     string
	Ord      int
	Headword string
	Snippet  string
}

// GraphNode is one headword in the cross-reference graph.
type GraphNode struct {
	ID string
}

// GraphLink is a directed cross-reference between two headwords.
type GraphLink struct {
	Source string
	Target string
}

// ReplaceFile upserts a file row and replaces its lexemes, FTS entries, and
// cross-references within a transaction.
func (db *DB) ReplaceFile(f FileRow, lexemes []LexemeRow, refs []Ref) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO files (path, checksum, entry_count, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			checksum    = excluded.checksum,
			entry_count = excluded.entry_count,
			updated_at  = excluded.updated_at
	`, f.Path, f.Checksum, f.EntryCount, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert file: %w", err)
	}

	// Replace lexemes: delete old then bulk insert.
	_, _ = tx.Exec(`DELETE FROM lexemes WHERE path = ?`, f.Path)
	ftsDelete(tx, f.Path)
	if len(lexemes) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO lexemes (path, ord, headword, gloss, raw) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare lexeme insert: %w", err)
		}
		defer stmt.Close()
		for _, l := range lexemes {
			if _, err := stmt.Exec(f.Path, l.Ord, l.Headword, l.Gloss, l.Raw); err != nil {
				return fmt.Errorf("index: insert lexeme: %w", err)
			}
			if err := ftsUpsert(tx, f.Path, l.Ord, l.Headword, l.Gloss, l.Raw); err != nil {
				return err
			}
		}
	}

	// Replace cross-references.
	_, _ = tx.Exec(`DELETE FROM refs WHERE path = ?`, f.Path)
	if len(refs) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO refs (source, target, path) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare ref insert: %w", err)
		}
		defer stmt.Close()
		for _, r := range refs {
			if _, err := stmt.Exec(r.Source, r.Target, f.Path); err != nil {
				return fmt.Errorf("index: insert ref: %w", err)
			}
		}
	}

	return tx.Commit()
}

// DeleteFile removes a file, its lexemes, FTS entries, and cross-references.
func (db *DB) DeleteFile(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	_, _ = tx.Exec(`DELETE FROM refs WHERE path = ?`, path)
	_, _ = tx.Exec(`DELETE FROM lexemes WHERE path = ?`, path)
	_, _ = tx.Exec(`DELETE FROM files WHERE path = ?`, path)

	return tx.Commit()
}

// GetChecksum returns the stored checksum for a file, or empty string if not
// found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM files WHERE path = ?`, path).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// ListFiles returns a page of indexed files plus the total count.
func (db *DB) ListFiles(limit, offset int, sort string) ([]FileRow, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	order := "path"
	switch sort {
	case "updated_at":
		order = "updated_at DESC"
	case "entry_count":
		order = "entry_count DESC"
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM files`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count files: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT path, checksum, entry_count, updated_at
		FROM files ORDER BY `+order+` LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list files: %w", err)
	}
	defer rows.Close()

	var out []FileRow
	for rows.Next() {
		var f FileRow
		if err := rows.Scan(&f.Path, &f.Checksum, &f.EntryCount, &f.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, f)
	}
	return out, total, rows.Err()
}

// ListLexemes returns a page of indexed entries ordered by headword, plus
// the total count.
func (db *DB) ListLexemes(limit, offset int) ([]LexemeRow, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM lexemes`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count lexemes: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT path, ord, headword, gloss, raw
		FROM lexemes ORDER BY headword, path, ord LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list lexemes: %w", err)
	}
	defer rows.Close()

	var out []LexemeRow
	for rows.Next() {
		var l LexemeRow
		if err := rows.Scan(&l.Path, &l.Ord, &l.Headword, &l.Gloss, &l.Raw); err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}

// Lookup returns every indexed entry bearing the given headword.
func (db *DB) Lookup(headword string) ([]LexemeRow, error) {
	rows, err := db.conn.Query(`
		SELECT path, ord, headword, gloss, raw
		FROM lexemes WHERE headword = ? ORDER BY path, ord
	`, headword)
	if err != nil {
		return nil, fmt.Errorf("index: lookup: %w", err)
	}
	defer rows.Close()

	var out []LexemeRow
	for rows.Next() {
		var l LexemeRow
		if err := rows.Scan(&l.Path, &l.Ord, &l.Headword, &l.Gloss, &l.Raw); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Backrefs returns the headwords of all entries that cross-reference target.
func (db *DB) Backrefs(target string) ([]string, error) {
	rows, err := db.conn.Query(`SELECT DISTINCT source FROM refs WHERE target = ? ORDER BY source`, target)
	if err != nil {
		return nil, fmt.Errorf("index: backrefs: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Graph returns every headword node and cross-reference edge.
func (db *DB) Graph() ([]GraphNode, []GraphLink, error) {
	rows, err := db.conn.Query(`SELECT DISTINCT headword FROM lexemes WHERE headword != '' ORDER BY headword`)
	if err != nil {
		return nil, nil, fmt.Errorf("index: graph nodes: %w", err)
	}
	defer rows.Close()

	var nodes []GraphNode
	for rows.Next() {
		var n GraphNode
		if err := rows.Scan(&n.ID); err != nil {
			return nil, nil, err
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	linkRows, err := db.conn.Query(`SELECT DISTINCT source, target FROM refs ORDER BY source, target`)
	if err != nil {
		return nil, nil, fmt.Errorf("index: graph links: %w", err)
	}
	defer linkRows.Close()

	var links []GraphLink
	for linkRows.Next() {
		var l GraphLink
		if err := linkRows.Scan(&l.Source, &l.Target); err != nil {
			return nil, nil, err
		}
		links = append(links, l)
	}
	return nodes, links, linkRows.Err()
}

// AllPaths returns every indexed file path.
func (db *DB) AllPaths() (map[string]struct{}, error) {
	rows, err := db.conn.Query(`SELECT path FROM files`)
	if err != nil {
		return nil, fmt.Errorf("index: all paths: %w", err)
	}
	defer rows.Close()
	out := make(map[string]struct{})
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out[p] = struct{}{}
	}
	return out, rows.Err()
}

// AllChecksums returns the checksum of every indexed file keyed by path.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM files`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}
