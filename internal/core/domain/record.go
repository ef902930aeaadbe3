package domain

import "strconv"

// Record is an analysable text document held by the record store.
type Record struct {
	// ID is the store-native identifier.
	ID int64

	// Collection groups records inside one database.
	Collection string

	// Text is the free-form content sent to the classifier.
	Text string

	// Annotations maps a label name to its verdict.
	// Nil until the record has been reconciled at least once.
	Annotations map[string]bool
}

// IDString returns the lossless string form of the record id.
func (r *Record) IDString() string {
	return strconv.FormatInt(r.ID, 10)
}
