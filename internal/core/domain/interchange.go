package domain

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"
)

// InterchangeHeader is the first line of every export file.
const InterchangeHeader = "id;text"

// InterchangeDelimiter separates the tagged id from the text in export files.
const InterchangeDelimiter = ';'

// ResultDelimiter separates fields in classifier result files.
const ResultDelimiter = ','

// sanitizer replaces delimiter-equivalent characters with a space.
// The transform is lossy and must stay byte-stable for downstream consumers.
var sanitizer = strings.NewReplacer(";", " ", "\n", " ", "\"", " ")

// SanitizeText makes text safe for a single interchange row.
func SanitizeText(text string) string {
	return sanitizer.Replace(text)
}

// reservedIdentifiers would split or quote a tagged id in export or result files.
const reservedIdentifiers = ";,\"\n\r"

// ValidateIdentifier checks that a namespace prefix is exactly one character
// and not a delimiter, quote or line break.
func ValidateIdentifier(identifier string) error {
	if utf8.RuneCountInString(identifier) != 1 {
		return fmt.Errorf("%w: got %q", ErrInvalidIdentifier, identifier)
	}
	if strings.ContainsAny(identifier, reservedIdentifiers) {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidIdentifier, identifier)
	}
	return nil
}

// IdentifierLengthValid reports whether identifier is exactly one character.
func IdentifierLengthValid(identifier string) bool {
	return utf8.RuneCountInString(identifier) == 1
}

// TagID prefixes a native id with a one-character namespace.
func TagID(identifier string, id int64) string {
	return identifier + strconv.FormatInt(id, 10)
}

// UntagID strips the one-character namespace and parses the native id.
// Only the canonical form written by TagID is accepted, so "a05" and "a+5"
// are rejected rather than aliasing record 5.
func UntagID(tagged string) (int64, error) {
	_, size := utf8.DecodeRuneInString(tagged)
	if size == 0 {
		return 0, fmt.Errorf("%w: empty", ErrInvalidID)
	}
	digits := tagged[size:]
	id, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || strconv.FormatInt(id, 10) != digits {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, tagged)
	}
	return id, nil
}

// FormatInterchangeRow renders one export line including the terminator.
func FormatInterchangeRow(identifier string, r *Record) string {
	return TagID(identifier, r.ID) + string(InterchangeDelimiter) + SanitizeText(r.Text) + "\n"
}

// ExportFileName encodes the requested range in the export file name.
// The bounds are the requested ones, not the clamped ones.
func ExportFileName(base string, start, end int) string {
	return fmt.Sprintf("%s_%d_%d.csv", base, start, end)
}

// ResultFilePath locates the classifier output for one label.
func ResultFilePath(dir, base string, label Label) string {
	return filepath.Join(dir, ResultDirName(base, label), "predictions_"+label.String()+".csv")
}

// ResultDirName is the label-scoped directory the classifier writes into.
func ResultDirName(base string, label Label) string {
	return "classification_" + base + "_" + label.String()
}

// QuarantineFileName names the rejected-row log for a label.
func QuarantineFileName(label Label) string {
	return "failures_" + label.String()
}
