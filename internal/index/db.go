package index

import (
	"database/sql"
	"fmt"
	"path"
	"strings"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS notes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    name_key TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL DEFAULT '',
    slug TEXT NOT NULL DEFAULT '',
    kind TEXT NOT NULL DEFAULT 'note',
    mod_time INTEGER NOT NULL,
    size INTEGER NOT NULL DEFAULT 0,
    hash TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_notes_name_key ON notes(name_key);

CREATE VIRTUAL TABLE IF NOT EXISTS notes_fts USING fts5(
    title, content, tags, headings,
    tokenize='porter unicode61 remove_diacritics 2'
);

CREATE TABLE IF NOT EXISTS tags (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS note_tags (
    note_id INTEGER REFERENCES notes(id) ON DELETE CASCADE,
    tag_id INTEGER REFERENCES tags(id) ON DELETE CASCADE,
    PRIMARY KEY (note_id, tag_id)
);

CREATE TABLE IF NOT EXISTS aliases (
    note_id INTEGER NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
    alias TEXT NOT NULL,
    alias_key TEXT NOT NULL,
    PRIMARY KEY (note_id, alias_key)
);

CREATE TABLE IF NOT EXISTS links (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source_id INTEGER NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
    target TEXT NOT NULL,
    target_key TEXT NOT NULL,
    target_id INTEGER REFERENCES notes(id) ON DELETE SET NULL,
    section TEXT DEFAULT '',
    alias TEXT DEFAULT '',
    embed INTEGER NOT NULL DEFAULT 0,
    line INTEGER NOT NULL,
    col INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS headings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    note_id INTEGER NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
    level INTEGER NOT NULL,
    text TEXT NOT NULL,
    line INTEGER NOT NULL
);
`

// Note kinds. Assets are indexed as bare path rows so links and embeds
// pointing at them resolve.
const (
	KindNote = "note"
	KindFile = "file"
)

// DB wraps the SQLite database connection.
type DB struct {
	conn *sql.DB
}

// Open opens or creates the database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			return nil, fmt.Errorf("init schema: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// OpenMemory opens an in-memory database (for testing).
func OpenMemory() (*DB, error) {
	conn, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(on)")
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec(schema); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			return nil, fmt.Errorf("init schema: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying sql.DB for advanced queries.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// UpsertNote inserts or updates a vault entry and returns its ID.
func (db *DB) UpsertNote(path, title, slug, kind, hash string, modTime, size int64) (int64, error) {
	_, err := db.conn.Exec(`
		INSERT INTO notes (path, name_key, title, slug, kind, mod_time, size, hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			name_key = excluded.name_key,
			title = excluded.title,
			slug = excluded.slug,
			kind = excluded.kind,
			mod_time = excluded.mod_time,
			size = excluded.size,
			hash = excluded.hash
	`, path, keyForName(path), title, slug, kind, modTime, size, hash)
	if err != nil {
		return 0, err
	}

	var id int64
	err = db.conn.QueryRow("SELECT id FROM notes WHERE path = ?", path).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateFTS replaces the FTS row for a note. Notes are re-indexed whenever
// their content hash changes, so the old row must go away completely or
// stale tokens keep matching searches.
func (db *DB) UpdateFTS(noteID int64, title, content, tags, headings string) error {
	if _, err := db.conn.Exec("DELETE FROM notes_fts WHERE rowid = ?", noteID); err != nil {
		return err
	}
	_, err := db.conn.Exec("INSERT INTO notes_fts(rowid, title, content, tags, headings) VALUES(?, ?, ?, ?, ?)",
		noteID, title, content, tags, headings)
	return err
}

// UpsertTag ensures a tag exists and returns its ID.
func (db *DB) UpsertTag(name string) (int64, error) {
	_, err := db.conn.Exec("INSERT OR IGNORE INTO tags (name) VALUES (?)", name)
	if err != nil {
		return 0, err
	}
	var id int64
	err = db.conn.QueryRow("SELECT id FROM tags WHERE name = ?", name).Scan(&id)
	return id, err
}

// LinkNoteTag associates a tag with a note.
func (db *DB) LinkNoteTag(noteID, tagID int64) error {
	_, err := db.conn.Exec("INSERT OR IGNORE INTO note_tags (note_id, tag_id) VALUES (?, ?)", noteID, tagID)
	return err
}

// ClearNoteTags removes all tag associations for a note.
func (db *DB) ClearNoteTags(noteID int64) error {
	_, err := db.conn.Exec("DELETE FROM note_tags WHERE note_id = ?", noteID)
	return err
}

// InsertAlias records one frontmatter alias for a note.
func (db *DB) InsertAlias(noteID int64, alias string) error {
	_, err := db.conn.Exec("INSERT OR IGNORE INTO aliases (note_id, alias, alias_key) VALUES (?, ?, ?)",
		noteID, alias, keyForName(alias))
	return err
}

// ClearNoteAliases removes all aliases for a note.
func (db *DB) ClearNoteAliases(noteID int64) error {
	_, err := db.conn.Exec("DELETE FROM aliases WHERE note_id = ?", noteID)
	return err
}

// InsertLink adds a wiki link record.
func (db *DB) InsertLink(sourceID int64, target, section, alias string, embed bool, line, col int) error {
	_, err := db.conn.Exec(`
		INSERT INTO links (source_id, target, target_key, section, alias, embed, line, col)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, sourceID, target, keyForName(target), section, alias, embed, line, col)
	return err
}

// ClearNoteLinks removes all links from a note.
func (db *DB) ClearNoteLinks(noteID int64) error {
	_, err := db.conn.Exec("DELETE FROM links WHERE source_id = ?", noteID)
	return err
}

// InsertHeading adds a heading record.
func (db *DB) InsertHeading(noteID int64, level int, text string, line int) error {
	_, err := db.conn.Exec("INSERT INTO headings (note_id, level, text, line) VALUES (?, ?, ?, ?)",
		noteID, level, text, line)
	return err
}

// ClearNoteHeadings removes all headings for a note.
func (db *DB) ClearNoteHeadings(noteID int64) error {
	_, err := db.conn.Exec("DELETE FROM headings WHERE note_id = ?", noteID)
	return err
}

// GetNoteHash returns the stored hash for a note path.
func (db *DB) GetNoteHash(path string) (string, error) {
	var hash string
	err := db.conn.QueryRow("SELECT hash FROM notes WHERE path = ?", path).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return hash, err
}

// DeleteNote removes a note and all its related data. Tag links, aliases,
// links, and headings cascade; the FTS row does not and is deleted here.
func (db *DB) DeleteNote(path string) error {
	var id int64
	err := db.conn.QueryRow("SELECT id FROM notes WHERE path = ?", path).Scan(&id)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := db.conn.Exec("DELETE FROM notes_fts WHERE rowid = ?", id); err != nil {
		return err
	}
	_, err = db.conn.Exec("DELETE FROM notes WHERE id = ?", id)
	return err
}

// Counts returns the number of indexed notes, assets, and links.
func (db *DB) Counts() (notes, files, links int, err error) {
	if err = db.conn.QueryRow("SELECT COUNT(*) FROM notes WHERE kind = ?", KindNote).Scan(&notes); err != nil {
		return 0, 0, 0, err
	}
	if err = db.conn.QueryRow("SELECT COUNT(*) FROM notes WHERE kind = ?", KindFile).Scan(&files); err != nil {
		return 0, 0, 0, err
	}
	if err = db.conn.QueryRow("SELECT COUNT(*) FROM links").Scan(&links); err != nil {
		return 0, 0, 0, err
	}
	return notes, files, links, nil
}

// keyForName canonicalizes a path, link target, or alias for resolution:
// base name, lowercased, with a .md extension dropped. [[Note]], [[Note.md]],
// and a note at any/dir/Note.md all share a key; [[slides.pdf]] keys to the
// asset row.
func keyForName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	base := strings.ToLower(path.Base(name))
	return strings.TrimSuffix(base, ".md")
}
