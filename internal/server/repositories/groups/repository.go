// Package groups declares the repository contract for the seeded role
// groups.
package groups

import (
	"context"

	"github.com/dkrasnovs/accounts-service/internal/server/models"
)

// Repository reads the user_groups seed data. Groups are created by
// migration and never mutated at runtime.
type Repository interface {
	// GetByName returns the group with the given name or common.ErrNotFound.
	GetByName(ctx context.Context, name models.GroupName) (*models.Group, error)

	// List returns all groups.
	List(ctx context.Context) ([]*models.Group, error)
}
