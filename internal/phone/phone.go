// Package phone holds the one canonical phone normalization routine. The
// lookup API and the Telegram bot both call it, so a number a customer types
// in chat always matches the form orders are stored under.
package phone

import (
	"strings"

	"brewhouse/internal/structs"
)

var byOperatorPrefixes = []string{"29", "33", "44", "25"}

// Normalize maps Russian and Belarusian phone formats to an E.164-like
// canonical form (+7XXXXXXXXXX or +375XXXXXXXXX). Unrecognized input is an
// error, never a guess.
//
// The Belarusian trunk form "80..." is checked before the Russian trunk "8..."
// rule: an 11-digit number starting with 80 is always Belarusian, since
// Russian trunk numbers continue with the 9xx mobile codes.
func Normalize(raw string) (string, error) {
	p := strip(raw)
	if p == "" {
		return "", structs.ErrInvalidPhone
	}

	switch {
	case strings.HasPrefix(p, "80") && len(p) == 11:
		return "+375" + p[2:], nil
	case strings.HasPrefix(p, "8") && len(p) == 11:
		return "+7" + p[1:], nil
	case strings.HasPrefix(p, "7") && len(p) == 11:
		return "+" + p, nil
	case strings.HasPrefix(p, "+7") && len(p) == 12:
		return p, nil
	case strings.HasPrefix(p, "375") && len(p) == 12:
		return "+" + p, nil
	case strings.HasPrefix(p, "+375") && len(p) == 13:
		return p, nil
	case len(p) == 9 && hasOperatorPrefix(p):
		return "+375" + p, nil
	}

	return "", structs.ErrInvalidPhone
}

// HasDigit reports whether the raw input contains at least one digit, the
// only constraint the checkout form places on a phone.
func HasDigit(raw string) bool {
	return strings.ContainsFunc(raw, func(r rune) bool { return r >= '0' && r <= '9' })
}

// strip drops everything except digits and a leading '+'.
func strip(raw string) string {
	var b strings.Builder
	for i, r := range raw {
		if r >= '0' && r <= '9' || r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func hasOperatorPrefix(p string) bool {
	for _, pre := range byOperatorPrefixes {
		if strings.HasPrefix(p, pre) {
			return true
		}
	}
	return false
}
