package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dkrasnovs/accounts-service/internal/common"
	"github.com/dkrasnovs/accounts-service/internal/server/security"
)

// User is a row in the users table. The password digest is unexported: it can
// only be written through SetPassword (which validates strength and hashes)
// or RestorePasswordHash (repository rehydration), and only read back as a
// digest via PasswordHash. There is no way to read the raw password.
type User struct {
	ID        int64
	Email     string
	IsActive  bool
	GroupID   int64
	GroupName GroupName
	CreatedAt time.Time
	UpdatedAt time.Time

	hashedPassword string
}

// NewUser builds an in-memory user with a normalized, validated email and the
// given group. The user starts inactive and without a password.
func NewUser(email string, group GroupName) (*User, error) {
	if !group.Valid() {
		return nil, fmt.Errorf("unknown group %q", group)
	}
	u := &User{GroupName: group}
	if err := u.SetEmail(email); err != nil {
		return nil, err
	}
	return u, nil
}

// NormalizeEmail lowercases and trims the address and checks its syntax.
// Normalization happens here, at the point of assignment, so the invariant
// holds for in-memory users that were never persisted.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: %q", common.ErrInvalidEmail, raw)
	}
	return email, nil
}

// SetEmail assigns a normalized email, rejecting malformed addresses.
func (u *User) SetEmail(raw string) error {
	email, err := NormalizeEmail(raw)
	if err != nil {
		return err
	}
	u.Email = email
	return nil
}

// SetPassword runs the strength validator and stores a bcrypt digest of raw.
// It is the only password-setting path; a pre-hashed value cannot be assigned
// through it.
func (u *User) SetPassword(raw string) error {
	if err := security.ValidatePasswordStrength(raw); err != nil {
		return err
	}
	digest, err := security.HashPassword(raw, security.DefaultCost)
	if err != nil {
		return err
	}
	u.hashedPassword = digest
	return nil
}

// VerifyPassword reports whether raw matches the stored digest.
func (u *User) VerifyPassword(raw string) bool {
	return security.VerifyPassword(u.hashedPassword, raw)
}

// PasswordHash returns the stored digest for persistence. The raw password is
// never recoverable from it.
func (u *User) PasswordHash() string { return u.hashedPassword }

// RestorePasswordHash installs a digest loaded from storage. Repositories use
// it when scanning rows; it bypasses strength validation on purpose since the
// digest is not a password.
func (u *User) RestorePasswordHash(digest string) { u.hashedPassword = digest }

// HasGroup reports whether the user belongs to the named group.
func (u *User) HasGroup(name GroupName) bool { return u.GroupName == name }
