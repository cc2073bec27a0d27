// Package security holds the credential primitives: bcrypt password hashing,
// the password strength policy, and the opaque token generator.
package security

import (
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/dkrasnovs/accounts-service/internal/common"
)

// DefaultCost is the bcrypt cost used on every password-setting path.
const DefaultCost = bcrypt.DefaultCost

// MinPasswordLength is the lower bound enforced by the strength policy.
const MinPasswordLength = 8

// HashPassword returns a bcrypt digest of raw using the given cost. bcrypt
// generates a fresh salt per call and embeds it in the digest, so hashing the
// same password twice yields different digests.
func HashPassword(raw string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(raw), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(b), nil
}

// VerifyPassword reports whether raw matches the bcrypt digest. The
// comparison inside bcrypt is constant-time.
func VerifyPassword(digest, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(raw)) == nil
}

// ValidatePasswordStrength rejects passwords that are too short or lack
// character-class diversity. It must run before hashing on every
// password-setting path. Failures wrap common.ErrWeakPassword.
func ValidatePasswordStrength(raw string) error {
	if len(raw) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", common.ErrWeakPassword, MinPasswordLength)
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range raw {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return fmt.Errorf("%w: must contain an uppercase letter", common.ErrWeakPassword)
	case !hasLower:
		return fmt.Errorf("%w: must contain a lowercase letter", common.ErrWeakPassword)
	case !hasDigit:
		return fmt.Errorf("%w: must contain a digit", common.ErrWeakPassword)
	case !hasSpecial:
		return fmt.Errorf("%w: must contain a special character", common.ErrWeakPassword)
	}
	return nil
}
