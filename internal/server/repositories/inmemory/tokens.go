package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dkrasnovs/accounts-service/internal/common"
	"github.com/dkrasnovs/accounts-service/internal/server/models"
)

type TokenRepository struct {
	mu     sync.Mutex
	nextID int64
	// byKind mimics the three tables; token strings are unique within a kind.
	byKind map[models.TokenKind]map[string]*models.Token
}

func NewTokenRepository() *TokenRepository {
	byKind := map[models.TokenKind]map[string]*models.Token{
		models.TokenKindActivation:    {},
		models.TokenKindPasswordReset: {},
		models.TokenKindRefresh:       {},
	}
	return &TokenRepository{nextID: 1, byKind: byKind}
}

func (r *TokenRepository) table(kind models.TokenKind) (map[string]*models.Token, error) {
	rows, ok := r.byKind[kind]
	if !ok {
		return nil, fmt.Errorf("unknown token kind %q", kind)
	}
	return rows, nil
}

func (r *TokenRepository) Create(ctx context.Context, kind models.TokenKind, userID int64, token string, expiresAt time.Time) (*models.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.table(kind)
	if err != nil {
		return nil, err
	}

	if _, ok := rows[token]; ok {
		return nil, fmt.Errorf("%w: %s token", common.ErrAlreadyExists, kind)
	}
	if kind.SingleLive() {
		for _, row := range rows {
			if row.UserID == userID {
				return nil, fmt.Errorf("%w: %s token for user %d", common.ErrAlreadyExists, kind, userID)
			}
		}
	}

	row := &models.Token{
		ID:        r.nextID,
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	r.nextID++
	rows[token] = row

	copied := *row
	return &copied, nil
}

func (r *TokenRepository) Find(ctx context.Context, kind models.TokenKind, token string) (*models.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.table(kind)
	if err != nil {
		return nil, err
	}

	row, ok := rows[token]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *row
	return &copied, nil
}

func (r *TokenRepository) Delete(ctx context.Context, kind models.TokenKind, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.table(kind)
	if err != nil {
		return err
	}

	if _, ok := rows[token]; !ok {
		return common.ErrNotFound
	}
	delete(rows, token)
	return nil
}

func (r *TokenRepository) DeleteForUser(ctx context.Context, kind models.TokenKind, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.table(kind)
	if err != nil {
		return err
	}

	for token, row := range rows {
		if row.UserID == userID {
			delete(rows, token)
		}
	}
	return nil
}

func (r *TokenRepository) DeleteExpired(ctx context.Context, kind models.TokenKind, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.table(kind)
	if err != nil {
		return 0, err
	}

	var n int64
	for token, row := range rows {
		if !row.ExpiresAt.After(cutoff) {
			delete(rows, token)
			n++
		}
	}
	return n, nil
}
