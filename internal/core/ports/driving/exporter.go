package driving

import "context"

// Exporter writes a range of records into an interchange file.
type Exporter interface {
	// Export writes records [Start, min(End, count)) of a collection.
	Export(ctx context.Context, req ExportRequest) (*ExportResult, error)
}

// ExportRequest describes one export.
type ExportRequest struct {
	// Collection selects the records.
	Collection string

	// Identifier is the one-character namespace prepended to every id.
	Identifier string

	// Start is the first record index, zero-based.
	Start int

	// End is the exclusive end index. May exceed the collection size.
	End int

	// BaseName is the export file name without range suffix.
	BaseName string

	// Dir is the output directory. Empty means the working directory.
	Dir string
}

// ExportResult summarises a finished export.
type ExportResult struct {
	// Path is the file written.
	Path string

	// Written is the number of data rows, excluding the header.
	Written int
}
