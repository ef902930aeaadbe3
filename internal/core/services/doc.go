// Package services implements the driving port interfaces.
// Services contain the core export and reconciliation logic and
// orchestrate calls to driven ports (adapters).
//
//   - ExportService: writes a record window to an interchange file
//   - ReconcileService: merges classifier result files into annotations
//   - HistoryService: lists past runs
//   - SettingsService: reads and writes configuration
package services
