package validators

import (
	"regexp"
	"strings"
)

var (
	phoneSepRe = regexp.MustCompile(`[-\s]+`)
	nonDigitRe = regexp.MustCompile(`\D+`)
)

// NormalizePhone produces the canonical form used as the patient natural key:
// trimmed, lowercased, spaces and dashes removed.
func NormalizePhone(raw string) string {
	return phoneSepRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(raw)), "")
}

// ToE164MX converts a stored phone into E.164 for message delivery.
// Bare 10-digit numbers are assumed to be Mexican and get the +52 prefix.
func ToE164MX(raw string) (string, bool) {
	if strings.HasPrefix(strings.TrimSpace(raw), "+") {
		return strings.TrimSpace(raw), true
	}

	digits := nonDigitRe.ReplaceAllString(raw, "")
	if digits == "" {
		return "", false
	}

	if strings.HasPrefix(digits, "52") {
		return "+" + digits, true
	}
	if len(digits) == 10 {
		return "+52" + digits, true
	}

	return "", false
}
