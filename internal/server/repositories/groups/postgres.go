package groups

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkrasnovs/accounts-service/internal/common"
	"github.com/dkrasnovs/accounts-service/internal/dbx"
	"github.com/dkrasnovs/accounts-service/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByName(ctx context.Context, name models.GroupName) (*models.Group, error) {
	query :=
		`SELECT id, name FROM user_groups
		 WHERE name = $1
		 `

	group := &models.Group{}
	var rawName string
	err := r.db.QueryRowContext(ctx, query, name.String()).Scan(&group.ID, &rawName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	parsed, err := models.ParseGroupName(rawName)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	group.Name = parsed

	return group, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Group, error) {
	query :=
		`SELECT id, name FROM user_groups
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Group
	for rows.Next() {
		group := &models.Group{}
		var rawName string
		if err := rows.Scan(&group.ID, &rawName); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		parsed, err := models.ParseGroupName(rawName)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		group.Name = parsed
		result = append(result, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
