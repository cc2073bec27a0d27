package repomanager

import (
	"context"
	"database/sql"

	"github.com/dkrasnovs/accounts-service/internal/dbx"
	"github.com/dkrasnovs/accounts-service/internal/server/repositories/groups"
	"github.com/dkrasnovs/accounts-service/internal/server/repositories/profiles"
	"github.com/dkrasnovs/accounts-service/internal/server/repositories/tokens"
	"github.com/dkrasnovs/accounts-service/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same
// constructor works against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Groups(db dbx.DBTX) groups.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Tokens(db dbx.DBTX) tokens.Repository
}
