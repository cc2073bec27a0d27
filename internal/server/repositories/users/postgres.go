package users

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

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (email, hashed_password, is_active, group_id)
		 VALUES ($1, $2, $3, (SELECT id FROM user_groups WHERE name = $4))
		 RETURNING id, group_id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash(), user.IsActive, user.GroupName.String()).
		Scan(&user.ID, &user.GroupID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email %s", common.ErrAlreadyExists, user.Email)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT u.id, u.email, u.hashed_password, u.is_active, u.group_id, g.name, u.created_at, u.updated_at
		 FROM users u
		 JOIN user_groups g ON g.id = u.group_id
		 WHERE u.email = $1
		 `

	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query :=
		`SELECT u.id, u.email, u.hashed_password, u.is_active, u.group_id, g.name, u.created_at, u.updated_at
		 FROM users u
		 JOIN user_groups g ON g.id = u.group_id
		 WHERE u.id = $1
		 `

	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query :=
		`UPDATE users SET is_active = $2, updated_at = now()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id int64, digest string) error {
	query :=
		`UPDATE users SET hashed_password = $2, updated_at = now()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, digest)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query :=
		`DELETE FROM users
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var digest, groupName string

	err := row.Scan(&user.ID, &user.Email, &digest, &user.IsActive,
		&user.GroupID, &groupName, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.RestorePasswordHash(digest)
	group, err := models.ParseGroupName(groupName)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	user.GroupName = group

	return user, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
