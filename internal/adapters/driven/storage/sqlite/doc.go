// Package sqlite provides a SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements two store interfaces
// through a single database connection:
//
//   - RecordStore: Analysable records and their annotations
//   - RunStore: Export and reconciliation history
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// Annotations are stored as a JSON object in the records.annotations column.
// A single label is updated with json_set so sibling labels are never rewritten.
//
// # Data Location
//
// Each database name maps to a file: ~/.labelsync/data/<name>.db by default.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
