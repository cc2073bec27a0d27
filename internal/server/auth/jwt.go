// Package auth mints and parses the short-lived access credential issued on
// login and refresh. The access token is a signed HS256 JWT; it is derived
// state and never stored.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dkrasnovs/accounts-service/internal/common"
	"github.com/dkrasnovs/accounts-service/internal/server/models"
)

// Claims carries the registered claims plus the user's group, so downstream
// role checks do not need a database round trip.
type Claims struct {
	jwt.RegisteredClaims
	Group string `json:"group"`
}

// GenerateAccessToken signs an HS256 JWT for the user. The subject is the
// numeric user ID, jti is a fresh UUID.
func GenerateAccessToken(userID int64, group models.GroupName, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		Group: group.String(),
	})

	return token.SignedString(secretKey)
}

// ParseAccessToken verifies the signature and expiry and returns the user ID
// and group. Expired tokens yield common.ErrTokenExpired, anything else
// malformed yields common.ErrInvalidToken.
func ParseAccessToken(tokenString string, secretKey []byte) (int64, models.GroupName, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, "", common.ErrTokenExpired
		}
		return 0, "", common.ErrInvalidToken
	}
	if !token.Valid {
		return 0, "", common.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, "", common.ErrInvalidToken
	}
	group, err := models.ParseGroupName(claims.Group)
	if err != nil {
		return 0, "", common.ErrInvalidToken
	}
	return userID, group, nil
}
