// Package users declares the repository contract for user rows.
package users

import (
	"context"

	"github.com/dkrasnovs/accounts-service/internal/server/models"
)

// Repository defines persistence operations for users. Implementations map a
// duplicate email to common.ErrAlreadyExists and an absent row to
// common.ErrNotFound.
type Repository interface {
	// Create inserts the user and fills in its generated ID and timestamps.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail looks a user up by its normalized email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID looks a user up by primary key.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// SetActive flips the is_active flag and refreshes updated_at.
	SetActive(ctx context.Context, id int64, active bool) error

	// UpdatePasswordHash overwrites the stored digest and refreshes updated_at.
	UpdatePasswordHash(ctx context.Context, id int64, digest string) error

	// Delete removes the user row.
	Delete(ctx context.Context, id int64) error
}
