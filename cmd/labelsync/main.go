// Command labelsync exports records for an emotion classifier and merges
// its verdicts back into the record store.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/labelsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/labelsync/internal/adapters/driven/quarantine"
	"github.com/custodia-labs/labelsync/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/labelsync/internal/adapters/driving/cli"
	"github.com/custodia-labs/labelsync/internal/core/domain"
	"github.com/custodia-labs/labelsync/internal/core/ports/driven"
	"github.com/custodia-labs/labelsync/internal/core/ports/driving"
	"github.com/custodia-labs/labelsync/internal/core/services"
	"github.com/custodia-labs/labelsync/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version string

func main() {
	cli.SetVersion(version)
	cli.SetSettingsFactory(newSettings)
	cli.SetOpener(openDatabase)

	err := cli.Execute()
	logger.Sync()
	if err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newSettings(configDir string) (driving.SettingsService, error) {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return services.NewSettingsService(store), nil
}

// openDatabase opens <data dir>/<database>.db and wires the services over it.
func openDatabase(database string, settings domain.AppSettings, progress driven.Progress) (*cli.Session, error) {
	store, err := sqlite.NewStore(settings.Storage.DataDir, database)
	if err != nil {
		return nil, err
	}
	logger.Debug("Opened database %s", store.Path())

	failures, err := quarantine.NewFileLog(settings.Quarantine.Dir)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	records := store.RecordStore()
	runs := store.RunStore()
	return &cli.Session{
		Exporter: services.NewExportService(records, runs, progress),
		Reconciler: services.NewReconcileService(records, failures, runs, progress, services.ReconcileOptions{
			ResultsDir:         settings.Results.Dir,
			Workers:            settings.Reconcile.Workers,
			MaxWritesPerSecond: settings.Reconcile.MaxWritesPerSecond,
		}),
		Records: services.NewRecordService(records, progress),
		History: services.NewHistoryService(runs),
		Close:   store.Close,
	}, nil
}
