package notify

import "strings"

// minPhoneDigits is the minimum number of digits a usable phone number
// must contain after normalization.
const minPhoneDigits = 8

// NormalizePhone strips every non-digit character. ok is false when fewer
// than eight digits remain; no deep link is built from an invalid number.
func NormalizePhone(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < minPhoneDigits {
		return "", false
	}
	return digits, true
}
