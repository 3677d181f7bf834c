package utils

import (
	"errors"
	"regexp"

	"github.com/jackc/pgx/v5/pgconn"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether s looks like an email address. Intentionally
// loose; the database's unique constraint is the real gate.
func IsValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// IsValidPasswordLength reports whether the password is 8-64 characters.
func IsValidPasswordLength(s string) bool {
	return len(s) >= 8 && len(s) <= 64
}

// IsPGUniqueViolation reports whether error is PostgreSQL unique constraint violation (code 23505).
func IsPGUniqueViolation(err error) bool {
	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		return pge.Code == "23505"
	}
	return false
}
