package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dkrasnovs/accounts-service/internal/common"
	"github.com/dkrasnovs/accounts-service/internal/dbx"
	"github.com/dkrasnovs/accounts-service/internal/server/models"
	"github.com/dkrasnovs/accounts-service/internal/server/repositories/repomanager"
	"github.com/dkrasnovs/accounts-service/internal/server/security"
)

// issueRetries bounds the re-rolls on a generated token string colliding with
// an existing row. With 256 bits of entropy a single collision is already
// implausible; the bound exists so a broken random source cannot loop forever.
const issueRetries = 3

// TokenService issues, validates, consumes, and purges the opaque tokens
// backing activation, password reset, and refresh flows.
type TokenService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewTokenService(db *sql.DB, m repomanager.RepositoryManager) *TokenService {
	return &TokenService{db: db, repomanager: m, now: time.Now}
}

// Issue creates a fresh token of the given kind for the user, valid for the
// given duration, inside the caller's transaction. For single-live kinds any
// previous token of the user is deleted first, so re-issuing supersedes.
func (s *TokenService) Issue(ctx context.Context, tx dbx.DBTX, userID int64, kind models.TokenKind, validity time.Duration) (*models.Token, error) {
	repo := s.repomanager.Tokens(tx)

	if kind.SingleLive() {
		if err := repo.DeleteForUser(ctx, kind, userID); err != nil {
			return nil, fmt.Errorf("superseding %s token: %w", kind, err)
		}
	}

	expiresAt := s.now().Add(validity)

	var created *models.Token
	backoff := retry.WithMaxRetries(issueRetries, retry.NewConstant(time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		value, err := security.GenerateToken()
		if err != nil {
			return err
		}
		created, err = repo.Create(ctx, kind, userID, value, expiresAt)
		if errors.Is(err, common.ErrAlreadyExists) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("issuing %s token: %w", kind, err)
	}
	return created, nil
}

// Validate looks the token up and checks its expiry without consuming it.
// Unknown tokens yield common.ErrNotFound, expired ones common.ErrTokenExpired.
func (s *TokenService) Validate(ctx context.Context, tx dbx.DBTX, kind models.TokenKind, value string) (*models.Token, error) {
	repo := s.repomanager.Tokens(tx)

	token, err := repo.Find(ctx, kind, value)
	if err != nil {
		return nil, err
	}
	if token.Expired(s.now()) {
		return nil, fmt.Errorf("%w: %s token", common.ErrTokenExpired, kind)
	}
	return token, nil
}

// Consume validates the token and deletes it in the caller's transaction.
// The delete asserts the row still existed, so two concurrent consumers of
// the same token cannot both succeed.
func (s *TokenService) Consume(ctx context.Context, tx dbx.DBTX, kind models.TokenKind, value string) (*models.Token, error) {
	token, err := s.Validate(ctx, tx, kind, value)
	if err != nil {
		return nil, err
	}
	if err := s.repomanager.Tokens(tx).Delete(ctx, kind, value); err != nil {
		return nil, err
	}
	return token, nil
}

// PurgeExpired deletes expired rows across all token kinds and reports how
// many were removed in total.
func (s *TokenService) PurgeExpired(ctx context.Context) (int64, error) {
	repo := s.repomanager.Tokens(s.db)
	cutoff := s.now()

	var total int64
	for _, kind := range []models.TokenKind{models.TokenKindActivation, models.TokenKindPasswordReset, models.TokenKindRefresh} {
		n, err := repo.DeleteExpired(ctx, kind, cutoff)
		if err != nil {
			return total, fmt.Errorf("purging %s tokens: %w", kind, err)
		}
		total += n
	}
	return total, nil
}
