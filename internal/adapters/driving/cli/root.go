// Package cli provides the labelsync command-line interface.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/labelsync/internal/core/domain"
	"github.com/custodia-labs/labelsync/internal/core/ports/driven"
	"github.com/custodia-labs/labelsync/internal/core/ports/driving"
	"github.com/custodia-labs/labelsync/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

// Global flags.
var (
	verbose   bool
	configDir string
	dataDir   string
)

// Session is the set of services bound to one opened database.
type Session struct {
	Exporter   driving.Exporter
	Reconciler driving.Reconciler
	Records    driving.RecordService
	History    driving.HistoryService

	// Close releases the database. May be nil.
	Close func() error
}

// Opener opens the named database and binds services to it.
type Opener func(database string, settings domain.AppSettings, progress driven.Progress) (*Session, error)

// SettingsFactory builds the settings service for a config directory.
// An empty directory means the default location.
type SettingsFactory func(configDir string) (driving.SettingsService, error)

var (
	openSession     Opener
	settingsFactory SettingsFactory
	settingsService driving.SettingsService
)

var rootCmd = &cobra.Command{
	Use:   "labelsync",
	Short: "Move records to and from an emotion classifier",
	Long: `labelsync exports text records from a database into the delimited file
format read by an emotion classifier, and merges the classifier's
per-label verdicts back into the records as annotations.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default ~/.labelsync)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory holding <database>.db files")
}

// SetOpener sets how databases are opened.
func SetOpener(o Opener) {
	openSession = o
}

// SetSettingsFactory sets how the settings service is built.
func SetSettingsFactory(f SettingsFactory) {
	settingsFactory = f
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if settingsFactory == nil {
		return nil
	}
	svc, err := settingsFactory(configDir)
	if err != nil {
		return err
	}
	settingsService = svc
	return nil
}

// resolveSettings returns stored settings with flag overrides applied.
func resolveSettings() (domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()
	if settingsService != nil {
		stored, err := settingsService.Get()
		if err != nil {
			return settings, err
		}
		settings = *stored
	}
	if dataDir != "" {
		settings.Storage.DataDir = dataDir
	}
	return settings, nil
}

// withSession opens a database, runs fn and closes the database.
func withSession(cmd *cobra.Command, database string, fn func(*Session, domain.AppSettings) error) (err error) {
	if openSession == nil {
		return errors.New("storage not configured")
	}
	settings, err := resolveSettings()
	if err != nil {
		return err
	}

	session, err := openSession(database, settings, newProgress(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	if session.Close != nil {
		defer func() {
			if cerr := session.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
	}
	return fn(session, settings)
}

// ReportedError marks a failure whose message was already printed.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string { return e.Err.Error() }
func (e *ReportedError) Unwrap() error { return e.Err }

// IsReported reports whether err was already shown to the user.
func IsReported(err error) bool {
	var re *ReportedError
	return errors.As(err, &re)
}
