package inmemory

import (
	"context"
	"sync"

	"github.com/dkrasnovs/accounts-service/internal/common"
	"github.com/dkrasnovs/accounts-service/internal/server/models"
)

type ProfileRepository struct {
	mu       sync.Mutex
	byUserID map[int64]*models.Profile
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{byUserID: make(map[int64]*models.Profile)}
}

func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *profile
	r.byUserID[profile.UserID] = &stored
	return nil
}

func (r *ProfileRepository) Get(ctx context.Context, userID int64) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byUserID[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *ProfileRepository) SetAvatarKey(ctx context.Context, userID int64, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byUserID[userID]
	if !ok {
		return common.ErrNotFound
	}
	p.AvatarKey = key
	return nil
}

func (r *ProfileRepository) Delete(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byUserID, userID)
	return nil
}
