package inmemory

import (
	"context"

	"github.com/dkrasnovs/accounts-service/internal/common"
	"github.com/dkrasnovs/accounts-service/internal/server/models"
)

type GroupRepository struct {
	groups []*models.Group
}

func NewGroupRepository() *GroupRepository {
	return &GroupRepository{groups: seededGroups()}
}

func (r *GroupRepository) GetByName(ctx context.Context, name models.GroupName) (*models.Group, error) {
	for _, g := range r.groups {
		if g.Name == name {
			copied := *g
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *GroupRepository) List(ctx context.Context) ([]*models.Group, error) {
	result := make([]*models.Group, 0, len(r.groups))
	for _, g := range r.groups {
		copied := *g
		result = append(result, &copied)
	}
	return result, nil
}
