package models

import "time"

// TokenKind selects one of the three token tables. All kinds share the same
// row shape; they differ only in table, lifetime, and whether a user may hold
// more than one live row at a time.
type TokenKind string

const (
	TokenKindActivation    TokenKind = "activation"
	TokenKindPasswordReset TokenKind = "password_reset"
	TokenKindRefresh       TokenKind = "refresh"
)

func (k TokenKind) Valid() bool {
	switch k {
	case TokenKindActivation, TokenKindPasswordReset, TokenKindRefresh:
		return true
	}
	return false
}

func (k TokenKind) String() string { return string(k) }

// SingleLive reports whether a user may hold at most one live token of this
// kind. Activation and password-reset tokens are superseded on re-issue;
// refresh tokens are additive, one per session.
func (k TokenKind) SingleLive() bool {
	return k == TokenKindActivation || k == TokenKindPasswordReset
}

// Token is the shared shape of the activation_tokens, password_reset_tokens,
// and refresh_tokens rows: an opaque random string, an absolute expiry, and
// the owning user.
type Token struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is expired at the given instant.
// A token expiring exactly now is treated as expired.
func (t *Token) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
