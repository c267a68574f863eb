// Package vintage archives dataset snapshots in a local sqlite database
// so that revision charts can compare today's data against what was
// published earlier.
package vintage

import (
	"bytes"
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/econviz/xplorts/internal/dataset"
)

const schema = `
  CREATE TABLE IF NOT EXISTS vintages (
    name       TEXT PRIMARY KEY,
    stored_at  TEXT NOT NULL,
    row_count  INTEGER NOT NULL,
    csv        BLOB NOT NULL
  )`

// Info describes one archived snapshot.
type Info struct {
	Name     string
	StoredAt time.Time
	Rows     int
}

// Store is a sqlite-backed archive of dataset vintages.
type Store struct {
	db *sql.DB
}

// Open opens or creates the archive at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "vintage: open database")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "vintage: create schema")
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add archives a dataset under name, replacing any previous snapshot
// with the same name.
func (s *Store) Add(ctx context.Context, name string, ds *dataset.Dataset) error {
	if name == "" {
		return errors.New("vintage: empty snapshot name")
	}
	var buf bytes.Buffer
	if err := ds.WriteCSV(&buf); err != nil {
		return errors.Wrap(err, "vintage: serializing dataset")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO vintages (name, stored_at, row_count, csv) VALUES (?, ?, ?, ?)`,
		name, time.Now().UTC().Format(time.RFC3339), ds.Len(), buf.Bytes())
	return errors.Wrapf(err, "vintage: storing %q", name)
}

// Get loads the snapshot stored under name.
func (s *Store) Get(ctx context.Context, name string) (*dataset.Dataset, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT csv FROM vintages WHERE name = ?`, name).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, errors.Errorf("vintage: no snapshot %q", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "vintage: loading %q", name)
	}
	ds, err := dataset.ReadCSV(bytes.NewReader(blob))
	return ds, errors.Wrapf(err, "vintage: parsing %q", name)
}

// List returns the archived snapshots, newest first.
func (s *Store) List(ctx context.Context) ([]Info, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, stored_at, row_count FROM vintages ORDER BY stored_at DESC, name`)
	if err != nil {
		return nil, errors.Wrap(err, "vintage: listing snapshots")
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		var (
			info   Info
			stored string
		)
		if err := rows.Scan(&info.Name, &stored, &info.Rows); err != nil {
			return nil, errors.Wrap(err, "vintage: scanning row")
		}
		if info.StoredAt, err = time.Parse(time.RFC3339, stored); err != nil {
			return nil, errors.Wrapf(err, "vintage: timestamp of %q", info.Name)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Export returns the named snapshot as CSV text.
func (s *Store) Export(ctx context.Context, name string) (string, error) {
	ds, err := s.Get(ctx, name)
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	if err := ds.WriteCSV(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
