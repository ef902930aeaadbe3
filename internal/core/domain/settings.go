package domain

import "fmt"

// AppSettings holds the resolved application configuration.
type AppSettings struct {
	Storage    StorageSettings
	Export     ExportSettings
	Results    ResultSettings
	Quarantine QuarantineSettings
	Reconcile  ReconcileSettings
	Watch      WatchSettings
}

// StorageSettings locates the SQLite databases.
type StorageSettings struct {
	// DataDir holds one <database>.db file per database name.
	// Empty means ~/.labelsync/data.
	DataDir string
}

// ExportSettings configures interchange file output.
type ExportSettings struct {
	// Dir is where export files are written. Empty means the working directory.
	Dir string
}

// ResultSettings locates classifier output.
type ResultSettings struct {
	// Dir contains the classification_<file>_<label> directories.
	// Empty means the working directory.
	Dir string
}

// QuarantineSettings locates rejected-row logs.
type QuarantineSettings struct {
	// Dir holds the failures_<label> files. Empty means the working directory.
	Dir string
}

// ReconcileSettings tunes reconciliation.
type ReconcileSettings struct {
	// Workers is how many labels are reconciled at once by "all".
	Workers int

	// MaxWritesPerSecond throttles record updates. Zero disables throttling.
	MaxWritesPerSecond float64
}

// WatchSettings tunes result-file watching.
type WatchSettings struct {
	// DebounceMS is how long a result file must stay unchanged before it is read.
	DebounceMS int
}

// DefaultAppSettings returns the built-in defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Reconcile: ReconcileSettings{Workers: 1},
		Watch:     WatchSettings{DebounceMS: 500},
	}
}

// Validate checks numeric settings are in range.
func (s *AppSettings) Validate() error {
	if s.Reconcile.Workers < 1 || s.Reconcile.Workers > len(Labels()) {
		return fmt.Errorf("reconcile.workers must be between 1 and %d, got %d", len(Labels()), s.Reconcile.Workers)
	}
	if s.Reconcile.MaxWritesPerSecond < 0 {
		return fmt.Errorf("reconcile.max_writes_per_second must not be negative, got %v", s.Reconcile.MaxWritesPerSecond)
	}
	if s.Watch.DebounceMS < 0 {
		return fmt.Errorf("watch.debounce_ms must not be negative, got %d", s.Watch.DebounceMS)
	}
	return nil
}
