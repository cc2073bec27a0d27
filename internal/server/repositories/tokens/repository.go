// Package tokens declares the repository contract shared by the three token
// tables (activation, password reset, refresh). Rows have one shape; the
// kind selects the table.
package tokens

import (
	"context"
	"time"

	"github.com/dkrasnovs/accounts-service/internal/server/models"
)

// Repository defines persistence operations for opaque tokens.
// Implementations map an absent row to common.ErrNotFound and a duplicate
// token string (or a second row for a single-live kind) to
// common.ErrAlreadyExists.
type Repository interface {
	// Create inserts a token row with the given expiry and fills in its
	// generated ID and creation time.
	Create(ctx context.Context, kind models.TokenKind, userID int64, token string, expiresAt time.Time) (*models.Token, error)

	// Find looks a token up by its exact opaque string within the kind's
	// namespace. Expiry is not checked here.
	Find(ctx context.Context, kind models.TokenKind, token string) (*models.Token, error)

	// Delete removes a token row by its string. Returns common.ErrNotFound
	// when no row was deleted, so consume-once flows can assert the row
	// still existed inside their transaction.
	Delete(ctx context.Context, kind models.TokenKind, token string) error

	// DeleteForUser removes all of the user's tokens of the kind. Absence is
	// not an error.
	DeleteForUser(ctx context.Context, kind models.TokenKind, userID int64) error

	// DeleteExpired removes rows whose expiry is at or before the cutoff and
	// reports how many were deleted.
	DeleteExpired(ctx context.Context, kind models.TokenKind, cutoff time.Time) (int64, error)
}
