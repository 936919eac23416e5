package pkginstall

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tatolab/streamlib/streamerr"
)

// Store is the SQLite-backed index of where each (runtime, processor)
// pair's extracted package files live on disk — the
// runtimes/<runtime_id>/processors/<processor_id>/{venv,data}/ layout,
// made durable across restarts.
type Store struct {
	db        *sql.DB
	tableName string
}

// Options configures a Store.
type Options struct {
	Path      string
	TableName string // default "installed_processors"
}

// Record is one (runtime_id, processor_id)'s installation state.
type Record struct {
	RuntimeID      string
	ProcessorID    string
	PackageName    string
	PackageVersion string
	VenvPath       string
	DataPath       string
	InstalledAt    string
}

// NewStore opens (creating if necessary) the SQLite database at
// opts.Path and ensures its schema exists.
func NewStore(opts Options) (*Store, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, streamerr.Wrap(streamerr.Configuration, err, "pkginstall: unable to open database %s", opts.Path)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "installed_processors"
	}

	s := &Store{db: db, tableName: tableName}
	if err := s.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			runtime_id      TEXT NOT NULL,
			processor_id    TEXT NOT NULL,
			package_name    TEXT NOT NULL,
			package_version TEXT NOT NULL,
			venv_path       TEXT NOT NULL DEFAULT '',
			data_path       TEXT NOT NULL DEFAULT '',
			installed_at    TEXT NOT NULL,
			PRIMARY KEY (runtime_id, processor_id)
		);
	`, s.tableName)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return streamerr.Wrap(streamerr.Configuration, err, "pkginstall: failed to create schema")
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

// Upsert records rec, replacing any existing row for the same
// (runtime_id, processor_id).
func (s *Store) Upsert(ctx context.Context, rec Record) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (runtime_id, processor_id, package_name, package_version, venv_path, data_path, installed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(runtime_id, processor_id) DO UPDATE SET
			package_name    = excluded.package_name,
			package_version = excluded.package_version,
			venv_path       = excluded.venv_path,
			data_path       = excluded.data_path,
			installed_at    = excluded.installed_at
	`, s.tableName)
	_, err := s.db.ExecContext(ctx, query,
		rec.RuntimeID, rec.ProcessorID, rec.PackageName, rec.PackageVersion,
		rec.VenvPath, rec.DataPath, rec.InstalledAt)
	if err != nil {
		return streamerr.Wrap(streamerr.Configuration, err, "pkginstall: failed to upsert record")
	}
	return nil
}

// Get looks up the installation record for (runtimeID, processorID).
func (s *Store) Get(ctx context.Context, runtimeID, processorID string) (Record, bool, error) {
	query := fmt.Sprintf(`
		SELECT runtime_id, processor_id, package_name, package_version, venv_path, data_path, installed_at
		FROM %s WHERE runtime_id = ? AND processor_id = ?
	`, s.tableName)
	var rec Record
	err := s.db.QueryRowContext(ctx, query, runtimeID, processorID).Scan(
		&rec.RuntimeID, &rec.ProcessorID, &rec.PackageName, &rec.PackageVersion,
		&rec.VenvPath, &rec.DataPath, &rec.InstalledAt)
	if err == sql.ErrNoRows {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, streamerr.Wrap(streamerr.Configuration, err, "pkginstall: failed to load record")
	}
	return rec, true, nil
}

// ListByRuntime returns every installed processor under runtimeID.
func (s *Store) ListByRuntime(ctx context.Context, runtimeID string) ([]Record, error) {
	query := fmt.Sprintf(`
		SELECT runtime_id, processor_id, package_name, package_version, venv_path, data_path, installed_at
		FROM %s WHERE runtime_id = ? ORDER BY processor_id ASC
	`, s.tableName)
	rows, err := s.db.QueryContext(ctx, query, runtimeID)
	if err != nil {
		return nil, streamerr.Wrap(streamerr.Configuration, err, "pkginstall: failed to list records")
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.RuntimeID, &rec.ProcessorID, &rec.PackageName, &rec.PackageVersion,
			&rec.VenvPath, &rec.DataPath, &rec.InstalledAt); err != nil {
			return nil, streamerr.Wrap(streamerr.Configuration, err, "pkginstall: failed to scan record")
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, streamerr.Wrap(streamerr.Configuration, err, "pkginstall: error iterating records")
	}
	return out, nil
}

// Delete removes the record for (runtimeID, processorID), if any.
func (s *Store) Delete(ctx context.Context, runtimeID, processorID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE runtime_id = ? AND processor_id = ?`, s.tableName)
	_, err := s.db.ExecContext(ctx, query, runtimeID, processorID)
	if err != nil {
		return streamerr.Wrap(streamerr.Configuration, err, "pkginstall: failed to delete record")
	}
	return nil
}
