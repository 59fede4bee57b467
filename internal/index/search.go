package index

import (
	"database/sql"
)

// SearchResult represents a single search result.
type SearchResult struct {
	ID    int64
	Path  string
	Title string
	Rank  float64
}

// BacklinkResult represents a backlink to a note. Embed marks ![[...]]
// transclusions, which change the note's rendered content rather than just
// referencing it.
type BacklinkResult struct {
	SourcePath  string
	SourceTitle string
	Line        int
	Col         int
	Embed       bool
}

// HeadingResult represents a heading in a note.
type HeadingResult struct {
	NoteID   int64
	NotePath string
	Level    int
	Text     string
	Line     int
}

// Search performs a full-text search across notes.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.conn.Query(`
		SELECT n.id, n.path, n.title, rank
		FROM notes_fts
		JOIN notes n ON n.id = notes_fts.rowid
		WHERE notes_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, err
	}
	return scanResults(rows)
}

// SearchFiles searches note titles and paths by substring.
func (db *DB) SearchFiles(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 50
	}

	pattern := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT id, path, title, 0 as rank
		FROM notes
		WHERE path LIKE ? OR title LIKE ?
		ORDER BY path
		LIMIT ?
	`, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	return scanResults(rows)
}

func scanResults(rows *sql.Rows) ([]SearchResult, error) {
	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.ID, &r.Path, &r.Title, &r.Rank); err != nil {
			_ = rows.Close()
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return results, nil
}

// GetBacklinks returns all notes that link to the given note. Links are
// matched by the note's canonical name key, or by resolved target id for
// links routed through an alias.
func (db *DB) GetBacklinks(target string) ([]BacklinkResult, error) {
	key := keyForName(target)
	rows, err := db.conn.Query(`
		SELECT n.path, n.title, l.line, l.col, l.embed
		FROM links l
		JOIN notes n ON n.id = l.source_id
		WHERE l.target_key = ?
		   OR l.target_id = (SELECT id FROM notes WHERE path = ? OR name_key = ? ORDER BY path LIMIT 1)
		ORDER BY n.path, l.line
	`, key, target, key)
	if err != nil {
		return nil, err
	}

	var results []BacklinkResult
	for rows.Next() {
		var r BacklinkResult
		if err := rows.Scan(&r.SourcePath, &r.SourceTitle, &r.Line, &r.Col, &r.Embed); err != nil {
			_ = rows.Close()
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return results, nil
}

// FindNote resolves a name, link target, or path to the indexed note path.
// Returns empty string if no match is found.
func (db *DB) FindNote(name string) (string, error) {
	var path string
	err := db.conn.QueryRow(
		`SELECT path FROM notes WHERE path = ? OR name_key = ? ORDER BY path LIMIT 1`,
		name, keyForName(name),
	).Scan(&path)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return path, err
}

// SearchHeadings searches headings across all notes.
func (db *DB) SearchHeadings(query string, limit int) ([]HeadingResult, error) {
	if limit <= 0 {
		limit = 50
	}

	pattern := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT h.note_id, n.path, h.level, h.text, h.line
		FROM headings h
		JOIN notes n ON n.id = h.note_id
		WHERE h.text LIKE ?
		ORDER BY n.path, h.line
		LIMIT ?
	`, pattern, limit)
	if err != nil {
		return nil, err
	}

	var results []HeadingResult
	for rows.Next() {
		var r HeadingResult
		if err := rows.Scan(&r.NoteID, &r.NotePath, &r.Level, &r.Text, &r.Line); err != nil {
			_ = rows.Close()
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return results, nil
}
