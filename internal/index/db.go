package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/readmark/readmark/internal/capture"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA cache_size = -64000;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS files (
    path  TEXT PRIMARY KEY,
    mtime INTEGER NOT NULL DEFAULT 0,
    size  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS sessions (
    id          TEXT PRIMARY KEY,
    title       TEXT NOT NULL DEFAULT '',
    started_at  TEXT NOT NULL DEFAULT '',
    ended_at    TEXT NOT NULL DEFAULT '',
    source_file TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS items (
    id          TEXT PRIMARY KEY,
    kind        TEXT NOT NULL,
    text        TEXT NOT NULL,
    author      TEXT NOT NULL DEFAULT '',
    captured_at TEXT NOT NULL DEFAULT '',
    session_ref TEXT NOT NULL DEFAULT '',
    source_file TEXT NOT NULL DEFAULT '',
    line_number INTEGER NOT NULL DEFAULT 0
);

CREATE VIRTUAL TABLE IF NOT EXISTS items_fts USING fts5(
    text,
    content=items,
    content_rowid=rowid,
    tokenize='unicode61'
);

-- triggers to keep FTS in sync
CREATE TRIGGER IF NOT EXISTS items_ai AFTER INSERT ON items BEGIN
    INSERT INTO items_fts(rowid, text) VALUES (new.rowid, new.text);
END;

CREATE TRIGGER IF NOT EXISTS items_ad AFTER DELETE ON items BEGIN
    INSERT INTO items_fts(items_fts, rowid, text) VALUES('delete', old.rowid, old.text);
END;

CREATE TRIGGER IF NOT EXISTS items_au AFTER UPDATE ON items BEGIN
    INSERT INTO items_fts(items_fts, rowid, text) VALUES('delete', old.rowid, old.text);
    INSERT INTO items_fts(rowid, text) VALUES (new.rowid, new.text);
END;
`

// timeFormat is how the index stores timestamps: UTC, second precision,
// lexicographically sortable.
const timeFormat = "2006-01-02T15:04:05Z"

type DB struct {
	db *sql.DB
}

func OpenDB(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	// schema version tracking for forced re-index
	db.Exec("CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT)")
	d := &DB{db: db}
	d.migrateSchemaVersion()

	return d, nil
}

// schemaVersion should be bumped whenever export parsing changes
// to force a full re-index.
const schemaVersion = "1"

func (d *DB) migrateSchemaVersion() {
	var ver string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	if err != nil || ver != schemaVersion {
		// force re-index by resetting all file mtime/size to 0
		d.db.Exec("UPDATE files SET mtime = 0, size = 0")
		d.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
	}
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Raw() *sql.DB {
	return d.db
}

func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

type FileInfo struct {
	Mtime int64
	Size  int64
}

func (d *DB) GetFileInfo(path string) (*FileInfo, error) {
	var info FileInfo
	err := d.db.QueryRow(
		"SELECT mtime, size FROM files WHERE path = ?",
		path,
	).Scan(&info.Mtime, &info.Size)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (d *DB) AllFilePaths() (map[string]struct{}, error) {
	rows, err := d.db.Query("SELECT path FROM files")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	paths := make(map[string]struct{})
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths[p] = struct{}{}
	}
	return paths, rows.Err()
}

// DeleteFile removes a file row and everything indexed from it.
func (d *DB) DeleteFile(path string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM items WHERE source_file = ?", path); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM sessions WHERE source_file = ?", path); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM files WHERE path = ?", path); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *DB) SessionCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&n)
	return n, err
}

func (d *DB) ItemCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM items").Scan(&n)
	return n, err
}

type ItemRow struct {
	ID         string
	Kind       string
	Text       string
	Author     string
	CapturedAt string
	SessionRef string
	SourceFile string
	LineNumber int
}

// Captured converts the stored row back to the domain type.
func (r ItemRow) Captured() capture.CapturedItem {
	return capture.CapturedItem{
		ID:         r.ID,
		Kind:       capture.Kind(r.Kind),
		Text:       r.Text,
		Author:     r.Author,
		CapturedAt: parseTime(r.CapturedAt),
		SessionRef: r.SessionRef,
	}
}

const itemColumns = "id, kind, text, author, captured_at, session_ref, source_file, line_number"

func (d *DB) GetItemByID(id string) (*ItemRow, error) {
	var r ItemRow
	err := d.db.QueryRow(
		"SELECT "+itemColumns+" FROM items WHERE id = ?", id,
	).Scan(&r.ID, &r.Kind, &r.Text, &r.Author, &r.CapturedAt, &r.SessionRef, &r.SourceFile, &r.LineNumber)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ItemsByTime returns every item ordered by capture time ascending.
func (d *DB) ItemsByTime() ([]ItemRow, error) {
	rows, err := d.db.Query(
		"SELECT " + itemColumns + " FROM items ORDER BY captured_at, id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ItemRow
	for rows.Next() {
		var r ItemRow
		if err := rows.Scan(&r.ID, &r.Kind, &r.Text, &r.Author, &r.CapturedAt, &r.SessionRef, &r.SourceFile, &r.LineNumber); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

func (d *DB) GetSessionByID(id string) (*capture.Session, error) {
	var s capture.Session
	var started, ended string
	err := d.db.QueryRow(
		"SELECT id, title, started_at, ended_at FROM sessions WHERE id = ?", id,
	).Scan(&s.ID, &s.Title, &started, &ended)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.StartedAt = parseTime(started)
	s.EndedAt = parseTime(ended)
	return &s, nil
}

// SessionsByStart returns all sessions sorted by start time ascending, the
// order capture.Resolve requires from its candidates.
func (d *DB) SessionsByStart() ([]capture.Session, error) {
	rows, err := d.db.Query(
		"SELECT id, title, started_at, ended_at FROM sessions ORDER BY started_at, id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []capture.Session
	for rows.Next() {
		var s capture.Session
		var started, ended string
		if err := rows.Scan(&s.ID, &s.Title, &started, &ended); err != nil {
			return nil, err
		}
		s.StartedAt = parseTime(started)
		s.EndedAt = parseTime(ended)
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
