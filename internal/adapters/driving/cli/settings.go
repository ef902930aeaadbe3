package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change directories, reconciliation concurrency and other options.

Settings are stored in config.toml inside the configuration directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a setting. Run 'labelsync settings show' to list the keys.

Examples:
  labelsync settings set results.dir /srv/emtk/shared
  labelsync settings set reconcile.workers 3`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println(titleStyle.Render("Current Settings"))
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Data directory: %s\n", orDefault(settings.Storage.DataDir, "~/.labelsync/data"))
	cmd.Println()

	cmd.Println("[Files]")
	cmd.Printf("  Export directory:     %s\n", orDefault(settings.Export.Dir, "."))
	cmd.Printf("  Results directory:    %s\n", orDefault(settings.Results.Dir, "."))
	cmd.Printf("  Quarantine directory: %s\n", orDefault(settings.Quarantine.Dir, "."))
	cmd.Println()

	cmd.Println("[Reconcile]")
	cmd.Printf("  Workers: %d\n", settings.Reconcile.Workers)
	if settings.Reconcile.MaxWritesPerSecond > 0 {
		cmd.Printf("  Max writes per second: %g\n", settings.Reconcile.MaxWritesPerSecond)
	} else {
		cmd.Println("  Max writes per second: unlimited")
	}
	cmd.Println()

	cmd.Println("[Watch]")
	cmd.Printf("  Debounce: %dms\n", settings.Watch.DebounceMS)
	cmd.Println()

	cmd.Println(mutedStyle.Render("Keys:"))
	for _, key := range settingsService.Keys() {
		cmd.Println(mutedStyle.Render("  " + key))
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	if _, err := settingsService.Get(); err != nil {
		cmd.Println(warningStyle.Render(fmt.Sprintf("Warning: %v", err)))
	}

	cmd.Printf("%s = %s\n", key, value)
	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return mutedStyle.Render(fallback + " (default)")
	}
	return value
}
