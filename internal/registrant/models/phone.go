package models

import (
	"regexp"
	"strings"
)

// Phone validation mirrors the signup form's rules: a permissive international
// pattern is enforced for everyone, while Moroccan and French mobile patterns
// apply only when the number's prefix identifies the country.

var (
	// permissivePhone accepts an optional leading +, then digits, spaces and
	// hyphens, at least 6 characters total.
	permissivePhone = regexp.MustCompile(`^\+?[0-9\s-]{6,}$`)

	moroccanMobile = regexp.MustCompile(`^(?:\+212|212|0)[5-7][0-9]{8}$`)
	frenchMobile   = regexp.MustCompile(`^(?:\+33|33|0)[1-9][0-9]{8}$`)
	intlPhone      = regexp.MustCompile(`^\+?[0-9]{6,15}$`)
	digitsOnly     = regexp.MustCompile(`[^\d]`)
)

// ValidPhone applies the permissive international pattern. This is the rule
// enforced uniformly at the schema boundary.
func ValidPhone(phone string) bool {
	return permissivePhone.MatchString(phone)
}

// ValidPhoneForCountry sniffs the country from the number's prefix and applies
// the matching national pattern, falling back to a general international rule.
func ValidPhoneForCountry(phone string) bool {
	clean := strings.ReplaceAll(phone, " ", "")

	switch {
	case looksMoroccan(clean):
		return moroccanMobile.MatchString(clean)
	case strings.HasPrefix(clean, "+33"), strings.HasPrefix(clean, "33"),
		strings.HasPrefix(clean, "0") && len(clean) == 10:
		return frenchMobile.MatchString(clean)
	default:
		return intlPhone.MatchString(clean)
	}
}

func looksMoroccan(clean string) bool {
	if strings.HasPrefix(clean, "+212") || strings.HasPrefix(clean, "212") {
		return true
	}
	if strings.HasPrefix(clean, "0") && len(clean) > 1 {
		switch clean[1] {
		case '5', '6', '7':
			return true
		}
	}
	return false
}

// NormalizePhone canonicalizes Moroccan numbers to +212 form so the uniqueness
// constraint sees one spelling per number. Non-Moroccan numbers pass through
// with whitespace stripped.
func NormalizePhone(phone string) string {
	clean := digitsOnly.ReplaceAllString(strings.ReplaceAll(phone, " ", ""), "")

	switch {
	case strings.HasPrefix(clean, "0") && len(clean) == 10 && looksMoroccan(clean):
		return "+212" + clean[1:]
	case strings.HasPrefix(clean, "212") && len(clean) == 12:
		return "+" + clean
	case len(clean) == 9 && (clean[0] == '5' || clean[0] == '6' || clean[0] == '7'):
		return "+212" + clean
	}

	trimmed := strings.ReplaceAll(phone, " ", "")
	return trimmed
}
