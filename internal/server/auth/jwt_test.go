package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dkrasnovs/accounts-service/internal/common"
	"github.com/dkrasnovs/accounts-service/internal/server/models"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := GenerateAccessToken(123, models.GroupModerator, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	userID, group, err := ParseAccessToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseAccessToken error: %v", err)
	}
	if userID != 123 {
		t.Fatalf("userID mismatch: got %d want 123", userID)
	}
	if group != models.GroupModerator {
		t.Fatalf("group mismatch: got %q", group)
	}
}

func TestParseAccessToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := GenerateAccessToken(1, models.GroupUser, secret, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	_, _, err = ParseAccessToken(tok, secret)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateAccessToken(1, models.GroupUser, []byte("right"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	_, _, err = ParseAccessToken(tok, []byte("wrong"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestParseAccessToken_WrongAlgRejected(t *testing.T) {
	t.Parallel()

	// Unsigned tokens must never parse, whatever the claims say.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Group: "user"})
	s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	_, _, err = ParseAccessToken(s, []byte("secret"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestParseAccessToken_Garbage(t *testing.T) {
	t.Parallel()

	_, _, err := ParseAccessToken("not.a.jwt", []byte("secret"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}
