// Package inmemory provides map-backed repository implementations that honor
// the same contracts as the PostgreSQL ones, including the uniqueness
// constraints the schema enforces. They back end-to-end tests and local
// experimentation; the DBTX handle is accepted and ignored.
package inmemory

import (
	"context"
	"database/sql"

	"github.com/dkrasnovs/accounts-service/internal/dbx"
	"github.com/dkrasnovs/accounts-service/internal/server/models"
	"github.com/dkrasnovs/accounts-service/internal/server/repositories/groups"
	"github.com/dkrasnovs/accounts-service/internal/server/repositories/profiles"
	"github.com/dkrasnovs/accounts-service/internal/server/repositories/repomanager"
	"github.com/dkrasnovs/accounts-service/internal/server/repositories/tokens"
	"github.com/dkrasnovs/accounts-service/internal/server/repositories/users"
)

type Manager struct {
	users    *UserRepository
	groups   *GroupRepository
	profiles *ProfileRepository
	tokens   *TokenRepository
}

// NewManager returns a manager with the three role groups pre-seeded, the
// way the first migration seeds them in PostgreSQL.
func NewManager() *Manager {
	return &Manager{
		users:    NewUserRepository(),
		groups:   NewGroupRepository(),
		profiles: NewProfileRepository(),
		tokens:   NewTokenRepository(),
	}
}

var _ repomanager.RepositoryManager = (*Manager)(nil)

func (m *Manager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }

func (m *Manager) Users(db dbx.DBTX) users.Repository { return m.users }

func (m *Manager) Groups(db dbx.DBTX) groups.Repository { return m.groups }

func (m *Manager) Profiles(db dbx.DBTX) profiles.Repository { return m.profiles }

func (m *Manager) Tokens(db dbx.DBTX) tokens.Repository { return m.tokens }

// seededGroups mirrors the migration seed data.
func seededGroups() []*models.Group {
	return []*models.Group{
		{ID: 1, Name: models.GroupUser},
		{ID: 2, Name: models.GroupModerator},
		{ID: 3, Name: models.GroupAdmin},
	}
}
