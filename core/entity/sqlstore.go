package entity

import (
	"database/sql"
	"encoding/json"

	"github.com/pericope/citesync/core/errors"
	"github.com/pericope/citesync/internal/logging"
)

// SQLStore is a SQLite-backed Store.
//
// Build modes:
//   - Default (CGO_ENABLED=0): uses pure Go modernc.org/sqlite
//   - CGO mode (CGO_ENABLED=1 -tags cgo_sqlite): uses mattn/go-sqlite3
type SQLStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS records (
	rid             TEXT PRIMARY KEY,
	type            TEXT NOT NULL DEFAULT '',
	title           TEXT NOT NULL DEFAULT '',
	authors         TEXT NOT NULL DEFAULT '[]',
	container_title TEXT NOT NULL DEFAULT '',
	year            INTEGER NOT NULL DEFAULT 0,
	volume          TEXT NOT NULL DEFAULT '',
	pages           TEXT NOT NULL DEFAULT '',
	doi             TEXT NOT NULL DEFAULT ''
);
`

// DriverType returns a string identifying the underlying SQLite
// implementation: "cgo" for mattn/go-sqlite3, "purego" for
// modernc.org/sqlite.
func DriverType() string {
	return driverType
}

// DriverPackage returns the import path of the active SQLite driver.
func DriverPackage() string {
	return driverPackage
}

// OpenSQL opens (and if needed initializes) a SQLite-backed record store.
func OpenSQL(path string) (*SQLStore, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening record store %s", path)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "initializing record store %s", path)
	}
	return &SQLStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Get returns the record for rid, or false when absent. Lookup failures
// other than absence are logged and reported as absent; callers treat
// missing metadata as unresolved, not as an error.
func (s *SQLStore) Get(rid string) (*Record, bool) {
	row := s.db.QueryRow(
		`SELECT rid, type, title, authors, container_title, year, volume, pages, doi
		 FROM records WHERE rid = ?`, rid)

	var r Record
	var authors string
	err := row.Scan(&r.RID, &r.Type, &r.Title, &authors, &r.ContainerTitle,
		&r.Year, &r.Volume, &r.Pages, &r.DOI)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		logging.Warn("record lookup failed", "rid", rid, "error", err)
		return nil, false
	}
	if err := json.Unmarshal([]byte(authors), &r.Authors); err != nil {
		logging.Warn("record has malformed authors", "rid", rid, "error", err)
	}
	return &r, true
}

// Put adds or replaces a record. Used by ingest tooling; the engine
// itself only reads.
func (s *SQLStore) Put(r *Record) error {
	authors, err := json.Marshal(r.Authors)
	if err != nil {
		return errors.Wrapf(err, "encoding authors for %s", r.RID)
	}
	_, err = s.db.Exec(
		`INSERT INTO records (rid, type, title, authors, container_title, year, volume, pages, doi)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(rid) DO UPDATE SET
			type = excluded.type,
			title = excluded.title,
			authors = excluded.authors,
			container_title = excluded.container_title,
			year = excluded.year,
			volume = excluded.volume,
			pages = excluded.pages,
			doi = excluded.doi`,
		r.RID, r.Type, r.Title, string(authors), r.ContainerTitle,
		r.Year, r.Volume, r.Pages, r.DOI)
	return errors.Wrapf(err, "storing record %s", r.RID)
}
