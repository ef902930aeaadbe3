package driven

import "github.com/custodia-labs/labelsync/internal/core/domain"

// QuarantineLog is an append-only per-label log of rejected result rows.
type QuarantineLog interface {
	// Append durably adds one raw row to the label's log.
	Append(label domain.Label, raw string) error

	// Path returns where the label's log lives.
	Path(label domain.Label) string
}
