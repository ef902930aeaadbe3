package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/labelsync/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/labelsync/internal/core/domain"
	"github.com/custodia-labs/labelsync/internal/core/ports/driven"
)

// DefaultDatabase is used when no database name is given.
const DefaultDatabase = "labelsync"

// Store is a SQLite-based storage that provides access to
// the record and run stores through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens the named database in the specified data directory.
// If dataDir is empty, defaults to ~/.labelsync/data.
func NewStore(dataDir, database string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".labelsync", "data")
	}
	if database == "" {
		database = DefaultDatabase
	}
	if strings.ContainsAny(database, `/\`) {
		return nil, fmt.Errorf("database name %q must not contain path separators", database)
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, database+".db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// RecordStore returns a RecordStore interface backed by this store.
func (s *Store) RecordStore() driven.RecordStore {
	return &recordStore{store: s}
}

// RunStore returns a RunStore interface backed by this store.
func (s *Store) RunStore() driven.RunStore {
	return &runStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if err := s.applyMigration(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// applyMigration executes one migration and records its version atomically.
func (s *Store) applyMigration(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Record Store ====================

// recordStore implements driven.RecordStore.
type recordStore struct {
	store *Store
}

var _ driven.RecordStore = (*recordStore)(nil)

// Count returns the number of records in a collection.
func (s *recordStore) Count(ctx context.Context, collection string) (int, error) {
	var n int
	row := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records WHERE collection = ?", collection)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// Scan calls fn for up to limit records starting at offset, ordered by id.
func (s *recordStore) Scan(
	ctx context.Context,
	collection string,
	offset, limit int,
	fn func(domain.Record) error,
) error {
	if limit <= 0 {
		return nil
	}
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, collection, text, annotations
		FROM records WHERE collection = ?
		ORDER BY id
		LIMIT ? OFFSET ?
	`, collection, limit, offset)
	if err != nil {
		return fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return err
		}
		if err := fn(*r); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating records: %w", err)
	}
	return nil
}

// Get retrieves a record by native id.
func (s *recordStore) Get(ctx context.Context, collection string, id int64) (*domain.Record, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, collection, text, annotations
		FROM records WHERE collection = ? AND id = ?
	`, collection, id)

	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return r, err
}

// Insert adds a record and returns its native id.
func (s *recordStore) Insert(ctx context.Context, collection, text string) (int64, error) {
	res, err := s.store.db.ExecContext(ctx,
		"INSERT INTO records (collection, text) VALUES (?, ?)", collection, text)
	if err != nil {
		return 0, fmt.Errorf("inserting record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading record id: %w", err)
	}
	return id, nil
}

// SetAnnotation sets annotations.<label> with json_set, leaving sibling keys intact.
func (s *recordStore) SetAnnotation(
	ctx context.Context,
	collection string,
	id int64,
	label domain.Label,
	value bool,
) (bool, error) {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE records
		SET annotations = json_set(COALESCE(annotations, '{}'), ?, json(?))
		WHERE collection = ? AND id = ?
	`, annotationPath(label), jsonBool(value), collection, id)
	if err != nil {
		return false, fmt.Errorf("updating annotation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}
	return n > 0, nil
}

// ==================== Run Store ====================

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// Save stores a finished run.
func (s *runStore) Save(ctx context.Context, run domain.Run) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO runs (id, kind, collection, label, file, processed, rejected, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, string(run.Kind), run.Collection, run.Label, run.File,
		run.Processed, run.Rejected, run.Err, run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (s *runStore) List(ctx context.Context, limit int) ([]domain.Run, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, kind, collection, label, file, processed, rejected, error, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run //nolint:prealloc // size unknown from query
	for rows.Next() {
		var run domain.Run
		var kind string
		if err := rows.Scan(&run.ID, &kind, &run.Collection, &run.Label, &run.File,
			&run.Processed, &run.Rejected, &run.Err, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.Kind = domain.RunKind(kind)
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// ==================== Helper Functions ====================

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord scans a single record row.
func scanRecord(row rowScanner) (*domain.Record, error) {
	var r domain.Record
	var annotations sql.NullString

	if err := row.Scan(&r.ID, &r.Collection, &r.Text, &annotations); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning record: %w", err)
	}

	if annotations.Valid && annotations.String != "" {
		if err := json.Unmarshal([]byte(annotations.String), &r.Annotations); err != nil {
			return nil, fmt.Errorf("unmarshaling annotations: %w", err)
		}
	}
	return &r, nil
}

// annotationPath is the JSON path of one label inside annotations.
func annotationPath(label domain.Label) string {
	return `$."` + label.String() + `"`
}

func jsonBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
