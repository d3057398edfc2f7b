package validate

import (
	"regexp"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reName  = regexp.MustCompile(`^[\p{L}\p{N} _.'-]+$`)
)

// Email trims and lowercases s so lookups are case-insensitive on every store.
func Email(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Name validates a display name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 50 {
		return "", false
	}
	return s, reName.MatchString(s)
}

// Password enforces a length window. bcrypt rejects anything over 72 bytes.
func Password(s string) bool {
	return len(s) >= 8 && len(s) <= 72
}

// MaxQty caps a single add-to-cart quantity.
const MaxQty = 1000

// Qty defaults a missing or non-positive quantity to 1 and rejects anything
// above MaxQty.
func Qty(n int) (int, bool) {
	if n < 1 {
		return 1, true
	}
	return n, n <= MaxQty
}

func ProductID(id int64) bool { return id > 0 }

// Title validates a product title.
func Title(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && len(s) <= 200
}
