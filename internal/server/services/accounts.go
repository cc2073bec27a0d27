// Package services contains the business logic of the accounts service:
// AccountService drives the registration, activation, login, and password
// reset flows, TokenService owns the opaque token lifecycle, and
// ProfileService manages the optional 1:1 profile and its avatar.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dkrasnovs/accounts-service/internal/common"
	"github.com/dkrasnovs/accounts-service/internal/dbx"
	"github.com/dkrasnovs/accounts-service/internal/logging"
	"github.com/dkrasnovs/accounts-service/internal/server/auth"
	"github.com/dkrasnovs/accounts-service/internal/server/config"
	"github.com/dkrasnovs/accounts-service/internal/server/models"
	"github.com/dkrasnovs/accounts-service/internal/server/notify"
	"github.com/dkrasnovs/accounts-service/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access JWT and a long-lived opaque refresh
// token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AccountService implements the account lifecycle: registration with email
// activation, credential login, refresh token rotation, password reset, and
// account deletion.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *TokenService
	notifier    notify.Notifier
	logger      logging.Logger

	jwtSecret                  []byte
	accessTokenValidity        time.Duration
	refreshTokenValidity       time.Duration
	activationTokenValidity    time.Duration
	passwordResetTokenValidity time.Duration
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, tokens *TokenService,
	notifier notify.Notifier, logger logging.Logger, cfg *config.Config) *AccountService {
	return &AccountService{
		db:                         db,
		repomanager:                m,
		tokens:                     tokens,
		notifier:                   notifier,
		logger:                     logger,
		jwtSecret:                  []byte(cfg.SecretKey),
		accessTokenValidity:        cfg.AccessTokenValidity,
		refreshTokenValidity:       cfg.RefreshTokenValidity,
		activationTokenValidity:    cfg.ActivationTokenValidity,
		passwordResetTokenValidity: cfg.PasswordResetTokenValidity,
	}
}

// Register creates an inactive user in the USER group and issues its
// activation token in the same transaction. A duplicate email yields
// common.ErrDuplicateEmail. The email event is published after commit;
// a publish failure is logged, not returned, since the user row exists and
// the token can be re-requested.
func (s *AccountService) Register(ctx context.Context, email, password string) (*models.User, error) {
	user, err := models.NewUser(email, models.GroupUser)
	if err != nil {
		return nil, err
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	var activation *models.Token
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Users(tx).Create(ctx, user)
		if err != nil {
			if errors.Is(err, common.ErrAlreadyExists) {
				return fmt.Errorf("%w: %s", common.ErrDuplicateEmail, user.Email)
			}
			return fmt.Errorf("creating user: %w", err)
		}
		user = created

		activation, err = s.tokens.Issue(ctx, tx, user.ID, models.TokenKindActivation, s.activationTokenValidity)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.ActivationRequested(ctx, user.Email, activation.Token); err != nil {
		s.logger.Error(ctx, "publishing activation event", "email", user.Email, "error", err)
	}
	return user, nil
}

// Activate consumes the activation token addressed to the email and flips
// the account active. An unknown email yields common.ErrUserNotFound; an
// unknown, expired, or foreign token yields common.ErrInvalidToken. A second
// activation attempt with the same token fails because the first consumed it.
func (s *AccountService) Activate(ctx context.Context, email, token string) error {
	normalized, err := models.NormalizeEmail(email)
	if err != nil {
		return err
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: %s", common.ErrUserNotFound, normalized)
		}
		return fmt.Errorf("loading user: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		tok, err := s.tokens.Consume(ctx, tx, models.TokenKindActivation, token)
		if err != nil {
			return err
		}
		if tok.UserID != user.ID {
			return common.ErrNotFound
		}
		return s.repomanager.Users(tx).SetActive(ctx, user.ID, true)
	})
	if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrTokenExpired) {
		return common.ErrInvalidToken
	}
	return err
}

// Login verifies the credentials and mints a token pair. Unknown email and
// wrong password both yield common.ErrInvalidCredentials so the response does
// not reveal which one failed; a valid password on an inactive account yields
// common.ErrInactiveAccount.
func (s *AccountService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	normalized, err := models.NormalizeEmail(email)
	if err != nil {
		return nil, common.ErrInvalidCredentials
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if !user.VerifyPassword(password) {
		return nil, common.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, common.ErrInactiveAccount
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var mintErr error
		pair, mintErr = s.mintTokenPair(ctx, tx, user)
		return mintErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// RefreshAccessToken consumes a live refresh token and mints a new pair for
// its owner, rotating the refresh token. The old token is gone afterwards
// whether or not minting succeeded, so a stolen-then-replayed token fails.
// Unknown and expired tokens both yield common.ErrInvalidToken.
func (s *AccountService) RefreshAccessToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var pair *TokenPair
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		tok, err := s.tokens.Consume(ctx, tx, models.TokenKindRefresh, refreshToken)
		if err != nil {
			return err
		}
		user, err := s.repomanager.Users(tx).GetByID(ctx, tok.UserID)
		if err != nil {
			return fmt.Errorf("loading user: %w", err)
		}
		pair, err = s.mintTokenPair(ctx, tx, user)
		return err
	})
	if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrTokenExpired) {
		return nil, common.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout discards the refresh token, ending that session. Logging out with
// an already-absent token is not an error.
func (s *AccountService) Logout(ctx context.Context, refreshToken string) error {
	err := s.repomanager.Tokens(s.db).Delete(ctx, models.TokenKindRefresh, refreshToken)
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	return err
}

// RequestPasswordReset issues a reset token for the email's account and
// publishes the email event. The response is identical whether or not the
// email is registered, so the operation cannot be used to probe for
// accounts. Re-requesting supersedes any previous reset token.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	normalized, err := models.NormalizeEmail(email)
	if err != nil {
		return err
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("loading user: %w", err)
	}

	var reset *models.Token
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		reset, err = s.tokens.Issue(ctx, tx, user.ID, models.TokenKindPasswordReset, s.passwordResetTokenValidity)
		return err
	})
	if err != nil {
		return err
	}

	if err := s.notifier.PasswordResetRequested(ctx, user.Email, reset.Token); err != nil {
		s.logger.Error(ctx, "publishing password reset event", "email", user.Email, "error", err)
	}
	return nil
}

// ResetPassword consumes a live reset token and installs the new password.
// All of the user's refresh tokens are revoked in the same transaction, so
// existing sessions cannot outlive a reset. The strength check runs before
// the token is touched: a weak password does not burn the token.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	staged := &models.User{}
	if err := staged.SetPassword(newPassword); err != nil {
		return err
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		tok, err := s.tokens.Consume(ctx, tx, models.TokenKindPasswordReset, token)
		if err != nil {
			return err
		}
		if err := s.repomanager.Users(tx).UpdatePasswordHash(ctx, tok.UserID, staged.PasswordHash()); err != nil {
			return fmt.Errorf("updating password: %w", err)
		}
		return s.repomanager.Tokens(tx).DeleteForUser(ctx, models.TokenKindRefresh, tok.UserID)
	})
	if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrTokenExpired) {
		return common.ErrInvalidToken
	}
	return err
}

// DeleteUser removes the user and everything it owns: profile, activation,
// reset, and refresh tokens, all in one transaction. An unknown ID yields
// common.ErrUserNotFound.
func (s *AccountService) DeleteUser(ctx context.Context, userID int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Profiles(tx).Delete(ctx, userID); err != nil {
			return fmt.Errorf("deleting profile: %w", err)
		}
		tokenRepo := s.repomanager.Tokens(tx)
		for _, kind := range []models.TokenKind{models.TokenKindActivation, models.TokenKindPasswordReset, models.TokenKindRefresh} {
			if err := tokenRepo.DeleteForUser(ctx, kind, userID); err != nil {
				return fmt.Errorf("deleting %s tokens: %w", kind, err)
			}
		}
		return s.repomanager.Users(tx).Delete(ctx, userID)
	})
	if errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("%w: id %d", common.ErrUserNotFound, userID)
	}
	return err
}

// ListGroups returns the seeded role groups.
func (s *AccountService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	return s.repomanager.Groups(s.db).List(ctx)
}

// GetUser loads a user by ID, mapping absence to common.ErrUserNotFound.
func (s *AccountService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", common.ErrUserNotFound, userID)
		}
		return nil, err
	}
	return user, nil
}

func (s *AccountService) mintTokenPair(ctx context.Context, tx dbx.DBTX, user *models.User) (*TokenPair, error) {
	access, err := auth.GenerateAccessToken(user.ID, user.GroupName, s.jwtSecret, s.accessTokenValidity)
	if err != nil {
		return nil, common.ErrInternal
	}
	refresh, err := s.tokens.Issue(ctx, tx, user.ID, models.TokenKindRefresh, s.refreshTokenValidity)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh.Token}, nil
}
