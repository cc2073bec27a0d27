package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dkrasnovs/accounts-service/internal/common"
	"github.com/dkrasnovs/accounts-service/internal/dbx"
	"github.com/dkrasnovs/accounts-service/internal/server/models"
)

// tableFor maps a token kind to its table. The set is closed; an unknown
// kind is a programming error surfaced before any SQL runs.
func tableFor(kind models.TokenKind) (string, error) {
	switch kind {
	case models.TokenKindActivation:
		return "activation_tokens", nil
	case models.TokenKindPasswordReset:
		return "password_reset_tokens", nil
	case models.TokenKindRefresh:
		return "refresh_tokens", nil
	}
	return "", fmt.Errorf("unknown token kind %q", kind)
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, kind models.TokenKind, userID int64, token string, expiresAt time.Time) (*models.Token, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (user_id, token, expires_at)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `, table)

	row := &models.Token{UserID: userID, Token: token, ExpiresAt: expiresAt}
	err = r.db.QueryRowContext(ctx, query, userID, token, expiresAt).Scan(&row.ID, &row.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s token", common.ErrAlreadyExists, kind)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return row, nil
}

func (r *PostgresRepository) Find(ctx context.Context, kind models.TokenKind, token string) (*models.Token, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`SELECT id, user_id, token, expires_at, created_at
		 FROM %s
		 WHERE token = $1
		 `, table)

	row := &models.Token{}
	err = r.db.QueryRowContext(ctx, query, token).
		Scan(&row.ID, &row.UserID, &row.Token, &row.ExpiresAt, &row.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return row, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, kind models.TokenKind, token string) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(
		`DELETE FROM %s
		 WHERE token = $1
		 `, table)

	res, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteForUser(ctx context.Context, kind models.TokenKind, userID int64) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(
		`DELETE FROM %s
		 WHERE user_id = $1
		 `, table)

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, kind models.TokenKind, cutoff time.Time) (int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(
		`DELETE FROM %s
		 WHERE expires_at <= $1
		 `, table)

	res, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
