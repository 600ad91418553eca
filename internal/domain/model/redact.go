package model

import "regexp"

const (
	// PreviewLen is the number of leading characters of the raw extracted
	// text that form the preview. The preview is taken from the untruncated
	// text, before MaxRawTextLen is applied to the stored copy.
	PreviewLen = 200

	// MaxRawTextLen caps the persisted raw text.
	MaxRawTextLen = 10000

	EmailMarker = "[email supprimé]"
	PhoneMarker = "[numéro supprimé]"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	// Digit runs of 9 or more, allowing interior spaces or hyphens and an
	// optional leading plus.
	phonePattern = regexp.MustCompile(`\+?\d(?:[ \-]?\d){8,}`)
)

// RedactPII applies the two deterministic substitutions in fixed order:
// email-shaped substrings first, then long digit runs. The markers contain
// neither an '@' nor digits, so the filter is idempotent.
//
// Only the preview is redacted. The full raw text is stored as extracted;
// that asymmetry is the observed policy and is preserved here on purpose
// (flagged for product review, not silently changed).
func RedactPII(s string) string {
	s = emailPattern.ReplaceAllString(s, EmailMarker)
	return phonePattern.ReplaceAllString(s, PhoneMarker)
}

// Preview computes the redacted preview from the raw, untruncated text.
// Redaction runs after the cut, so marker substitution may lengthen the
// result past PreviewLen.
func Preview(raw string) string {
	r := []rune(raw)
	if len(r) > PreviewLen {
		r = r[:PreviewLen]
	}
	return RedactPII(string(r))
}

// TruncateRawText caps text at MaxRawTextLen for persistence. Independent
// of the preview cut.
func TruncateRawText(s string) string {
	r := []rune(s)
	if len(r) <= MaxRawTextLen {
		return s
	}
	return string(r[:MaxRawTextLen])
}
