// Package domain defines the core business entities for labelsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: A text document with per-label annotations
//   - Label: One of the fixed emotion labels
//   - Run: A history entry for an export or reconciliation
//
// It also owns the interchange file conventions: the export row format,
// export and result file naming, and quarantine file naming.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
