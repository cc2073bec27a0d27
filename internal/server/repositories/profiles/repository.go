// Package profiles declares the repository contract for the optional 1:1
// user profile.
package profiles

import (
	"context"

	"github.com/dkrasnovs/accounts-service/internal/server/models"
)

// Repository defines persistence operations for user profiles.
type Repository interface {
	// Upsert creates the profile or overwrites the existing one for the user.
	Upsert(ctx context.Context, profile *models.Profile) error

	// Get returns the profile for the user or common.ErrNotFound.
	Get(ctx context.Context, userID int64) (*models.Profile, error)

	// SetAvatarKey stores the avatar storage key for the user's profile.
	SetAvatarKey(ctx context.Context, userID int64, key string) error

	// Delete removes the profile. Deleting an absent profile is not an error.
	Delete(ctx context.Context, userID int64) error
}
