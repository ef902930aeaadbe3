package services

import (
	"fmt"
	"strconv"

	"github.com/custodia-labs/labelsync/internal/core/domain"
	"github.com/custodia-labs/labelsync/internal/core/ports/driven"
	"github.com/custodia-labs/labelsync/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyDataDir         = "storage.data_dir"
	keyExportDir       = "export.dir"
	keyResultsDir      = "results.dir"
	keyQuarantineDir   = "quarantine.dir"
	keyWorkers         = "reconcile.workers"
	keyMaxWritesPerSec = "reconcile.max_writes_per_second"
	keyDebounceMS      = "watch.debounce_ms"
)

// settingKind drives parsing in Set.
type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
)

var settingKinds = map[string]settingKind{
	keyDataDir:         kindString,
	keyExportDir:       kindString,
	keyResultsDir:      kindString,
	keyQuarantineDir:   kindString,
	keyWorkers:         kindInt,
	keyMaxWritesPerSec: kindFloat,
	keyDebounceMS:      kindInt,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
// A nil config store yields the defaults.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()
	if s.configStore == nil {
		return &defaults, nil
	}

	settings := &domain.AppSettings{
		Storage:    domain.StorageSettings{DataDir: s.configStore.GetString(keyDataDir)},
		Export:     domain.ExportSettings{Dir: s.configStore.GetString(keyExportDir)},
		Results:    domain.ResultSettings{Dir: s.configStore.GetString(keyResultsDir)},
		Quarantine: domain.QuarantineSettings{Dir: s.configStore.GetString(keyQuarantineDir)},
		Reconcile: domain.ReconcileSettings{
			Workers:            s.getInt(keyWorkers, defaults.Reconcile.Workers),
			MaxWritesPerSecond: s.getFloat(keyMaxWritesPerSec, defaults.Reconcile.MaxWritesPerSecond),
		},
		Watch: domain.WatchSettings{
			DebounceMS: s.getInt(keyDebounceMS, defaults.Watch.DebounceMS),
		},
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", s.configStore.Path(), err)
	}
	return settings, nil
}

// Set parses value according to the key's type and persists it.
func (s *SettingsService) Set(key, value string) error {
	if s.configStore == nil {
		return domain.ErrNotFound
	}
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("unknown setting %q", key)
	}

	var parsed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("setting %s expects an integer: %w", key, err)
		}
		parsed = int64(n)
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("setting %s expects a number: %w", key, err)
		}
		parsed = f
	default:
		parsed = value
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists the recognised setting keys in display order.
func (s *SettingsService) Keys() []string {
	return []string{
		keyDataDir,
		keyExportDir,
		keyResultsDir,
		keyQuarantineDir,
		keyWorkers,
		keyMaxWritesPerSec,
		keyDebounceMS,
	}
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}
