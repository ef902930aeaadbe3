package domain

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"semicolon", "a;b", "a b"},
		{"newline", "line1\nline2", "line1 line2"},
		{"quote", `say "hi"`, "say  hi "},
		{"mixed", "x;\n\"y", "x   y"},
		{"empty", "", ""},
		{"unicode kept", "grüße;ok", "grüße ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeText(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, len(tt.in))
		})
	}
}

func TestSanitizeText_IsTotal(t *testing.T) {
	in := strings.Repeat("a;\n\"b", 50)
	got := SanitizeText(in)
	assert.NotContains(t, got, ";")
	assert.NotContains(t, got, "\n")
	assert.NotContains(t, got, "\"")
}

func TestValidateIdentifier(t *testing.T) {
	assert.NoError(t, ValidateIdentifier("a"))
	assert.NoError(t, ValidateIdentifier("é"))

	for _, bad := range []string{"", "ab", "abc", ";", ",", "\"", "\n", "\r"} {
		err := ValidateIdentifier(bad)
		assert.True(t, errors.Is(err, ErrInvalidIdentifier), "identifier %q", bad)
		assert.True(t, IsConfigurationError(err))
	}
}

func TestIdentifierLengthValid(t *testing.T) {
	assert.True(t, IdentifierLengthValid(";"))
	assert.True(t, IdentifierLengthValid("é"))
	assert.False(t, IdentifierLengthValid(""))
	assert.False(t, IdentifierLengthValid("ab"))
}

func TestTagID_RoundTrip(t *testing.T) {
	for _, id := range []int64{0, 1, 42, 9007199254740993} {
		tagged := TagID("a", id)
		got, err := UntagID(tagged)
		require.NoError(t, err)
		assert.Equal(t, id, got)
		assert.Equal(t, (&Record{ID: id}).IDString(), tagged[1:])
	}
}

func TestUntagID_MultiByteIdentifier(t *testing.T) {
	got, err := UntagID(TagID("é", 17))
	require.NoError(t, err)
	assert.Equal(t, int64(17), got)
}

func TestUntagID_Invalid(t *testing.T) {
	for _, tagged := range []string{"", "a", "aXYZ", "a1.5", "12a", "a05", "a+5", "a 5", "a-0"} {
		_, err := UntagID(tagged)
		assert.True(t, errors.Is(err, ErrInvalidID), "tagged %q", tagged)
		assert.True(t, IsRowError(err))
	}
}

func TestFormatInterchangeRow(t *testing.T) {
	r := &Record{ID: 7, Text: "bad;\"text\"\nhere"}
	assert.Equal(t, "a7;bad  text  here\n", FormatInterchangeRow("a", r))
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "X_0_2.csv", ExportFileName("X", 0, 2))
	assert.Equal(t, "comments_10_5.csv", ExportFileName("comments", 10, 5))
}

func TestResultFilePath(t *testing.T) {
	got := ResultFilePath("shared", "comments_0_100", LabelJoy)
	want := filepath.Join("shared", "classification_comments_0_100_joy", "predictions_joy.csv")
	assert.Equal(t, want, got)
}

func TestQuarantineFileName(t *testing.T) {
	assert.Equal(t, "failures_anger", QuarantineFileName(LabelAnger))
}
