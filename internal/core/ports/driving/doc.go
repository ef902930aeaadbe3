// Package driving defines the interfaces that the outside world uses to drive the core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// The CLI and the result watcher call these interfaces; core services
// implement them.
//
//   - Exporter: Record range export into the interchange format
//   - Reconciler: Result file reconciliation into annotations
//   - RecordService: Record loading and lookup
//   - HistoryService: Past export and reconciliation runs
//   - SettingsService: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driving
