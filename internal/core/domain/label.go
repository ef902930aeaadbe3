package domain

import "fmt"

// Label is one classification category produced by the classifier.
type Label string

// The recognised labels.
const (
	LabelJoy      Label = "joy"
	LabelLove     Label = "love"
	LabelSurprise Label = "surprise"
	LabelAnger    Label = "anger"
	LabelSadness  Label = "sadness"
	LabelFear     Label = "fear"
)

// Verdict tokens accepted in result files. Matching is case-sensitive.
const (
	VerdictYes = "YES"
	VerdictNo  = "NO"
)

// LabelAll selects every recognised label on the command line.
const LabelAll = "all"

// Labels returns the recognised labels in reconciliation order.
func Labels() []Label {
	return []Label{LabelJoy, LabelLove, LabelSurprise, LabelAnger, LabelSadness, LabelFear}
}

// ParseLabel validates a label name.
func ParseLabel(s string) (Label, error) {
	for _, l := range Labels() {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLabel, s)
}

// String returns the label name.
func (l Label) String() string {
	return string(l)
}

// ParseVerdict maps a verdict token to its boolean annotation.
func ParseVerdict(token string) (bool, error) {
	switch token {
	case VerdictYes:
		return true, nil
	case VerdictNo:
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidVerdict, token)
	}
}
