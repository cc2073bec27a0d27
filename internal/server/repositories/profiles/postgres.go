package profiles

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

func (r *PostgresRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	query :=
		`INSERT INTO user_profiles (user_id, first_name, last_name, avatar_key, gender, date_of_birth, info)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id) DO UPDATE SET
		     first_name = EXCLUDED.first_name,
		     last_name = EXCLUDED.last_name,
		     avatar_key = EXCLUDED.avatar_key,
		     gender = EXCLUDED.gender,
		     date_of_birth = EXCLUDED.date_of_birth,
		     info = EXCLUDED.info
		 `

	var gender sql.NullString
	if profile.Gender != "" {
		gender = sql.NullString{String: profile.Gender.String(), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		profile.UserID, profile.FirstName, profile.LastName, profile.AvatarKey,
		gender, profile.DateOfBirth, profile.Info)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID int64) (*models.Profile, error) {
	query :=
		`SELECT user_id, first_name, last_name, avatar_key, gender, date_of_birth, info
		 FROM user_profiles
		 WHERE user_id = $1
		 `

	profile := &models.Profile{}
	var gender sql.NullString
	var dob sql.NullTime

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID, &profile.FirstName, &profile.LastName, &profile.AvatarKey,
		&gender, &dob, &profile.Info)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if gender.Valid {
		parsed, err := models.ParseGender(gender.String)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		profile.Gender = parsed
	}
	if dob.Valid {
		t := dob.Time
		profile.DateOfBirth = &t
	}

	return profile, nil
}

func (r *PostgresRepository) SetAvatarKey(ctx context.Context, userID int64, key string) error {
	query :=
		`UPDATE user_profiles SET avatar_key = $2
		 WHERE user_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, userID, key)
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

func (r *PostgresRepository) Delete(ctx context.Context, userID int64) error {
	query :=
		`DELETE FROM user_profiles
		 WHERE user_id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
