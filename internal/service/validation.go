package service

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	apperrors "github.com/spec-kit/wellness-service/pkg/util"
)

// fieldErrors accumulates per-field validation failures.
type fieldErrors map[string]any

func (f fieldErrors) add(field, message string) {
	if _, exists := f[field]; !exists {
		f[field] = message
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return apperrors.NewValidationError("validation failed", map[string]any(f))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// validID accepts only the canonical hyphenated uuid form. uuid.Parse also
// takes urn, braced and space-padded variants that Postgres rejects.
func validID(id string) bool {
	parsed, err := uuid.Parse(id)
	return err == nil && parsed.String() == strings.ToLower(id)
}
