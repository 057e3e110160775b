// Package services contains server-side business logic. This file implements
// AuthService, which handles account creation, login with the token
// reuse/reissue policy, and logout.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mkarpovich/authkeeper/internal/common"
	"github.com/mkarpovich/authkeeper/internal/dbx"
	"github.com/mkarpovich/authkeeper/internal/server/auth"
	"github.com/mkarpovich/authkeeper/internal/server/config"
	"github.com/mkarpovich/authkeeper/internal/server/models"
	"github.com/mkarpovich/authkeeper/internal/server/repositories/repomanager"
	"github.com/mkarpovich/authkeeper/internal/server/sessions"
)

// TokenGrant is the outcome of a successful login: the bearer token and how
// many uses its record has left.
type TokenGrant struct {
	Token string
	Uses  int
}

// CreateAccountParams carries the fields required to open an account.
type CreateAccountParams struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// AuthService provides the account and token lifecycle operations:
//   - CreateAccount: create a user and mint its first token
//   - Login: verify credentials and apply the session token policy
//   - Logout: revoke a token by exact (user, token) match
type AuthService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	secretKey     []byte
	tokenValidity time.Duration
	tokenMaxUses  int
	bcryptCost    int
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	return &AuthService{
		db:            db,
		repomanager:   m,
		secretKey:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		tokenMaxUses:  cfg.TokenMaxUses,
		bcryptCost:    cfg.BcryptCost,
	}
}

// CreateAccount creates a new user and mints its first token in one
// transaction. Duplicate usernames and emails are rejected before any write.
func (s *AuthService) CreateAccount(ctx context.Context, p CreateAccountParams) (string, error) {
	userRepo := s.repomanager.Users(s.db)

	taken, err := userRepo.ExistsByUsername(ctx, p.Username)
	if err != nil {
		return "", common.ErrorInternal
	}
	if taken {
		return "", common.ErrDuplicateUsername
	}

	taken, err = userRepo.ExistsByEmail(ctx, p.Email)
	if err != nil {
		return "", common.ErrorInternal
	}
	if taken {
		return "", common.ErrDuplicateEmail
	}

	hash, err := auth.HashPassword(p.Password, s.bcryptCost)
	if err != nil {
		return "", common.ErrorInternal
	}

	var tokenString string
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user := &models.User{
			Username:     p.Username,
			FirstName:    p.FirstName,
			LastName:     p.LastName,
			Email:        p.Email,
			PasswordHash: hash,
			Active:       true,
		}
		user, err := s.repomanager.Users(tx).Create(ctx, user)
		if err != nil {
			return err
		}

		tokenString, err = auth.GenerateToken(user.ID, user.Username, s.secretKey, s.tokenValidity)
		if err != nil {
			return err
		}

		record := &models.Token{
			Token:     tokenString,
			UserID:    user.ID,
			Uses:      s.tokenMaxUses,
			CreatedAt: time.Now(),
		}
		return s.repomanager.Tokens(tx).Save(ctx, record)
	}); err != nil {
		return "", common.ErrorInternal
	}

	return tokenString, nil
}

// Login verifies the user's credentials and applies the session policy to the
// user's current token record. Inactive accounts are rejected before the
// password is checked.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenGrant, error) {
	user, err := s.repomanager.Users(s.db).FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, common.ErrorInternal
	}

	if !user.Active {
		return nil, common.ErrAccountInactive
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, common.ErrIncorrectPassword
	}

	tokenRepo := s.repomanager.Tokens(s.db)

	record, err := tokenRepo.GetByUser(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInternal
		}
		record = nil
	}

	switch sessions.Decide(record, s.classify(record)) {
	case sessions.ActionReuse:
		record.Uses--
		if err := tokenRepo.Save(ctx, record); err != nil {
			return nil, common.ErrorInternal
		}
		return &TokenGrant{Token: record.Token, Uses: record.Uses}, nil

	default: // issue or reissue: a fresh token at full uses either way
		tokenString, err := auth.GenerateToken(user.ID, user.Username, s.secretKey, s.tokenValidity)
		if err != nil {
			return nil, common.ErrorInternal
		}
		fresh := &models.Token{
			Token:     tokenString,
			UserID:    user.ID,
			Uses:      s.tokenMaxUses,
			CreatedAt: time.Now(),
		}
		if err := tokenRepo.Save(ctx, fresh); err != nil {
			return nil, common.ErrorInternal
		}
		return &TokenGrant{Token: fresh.Token, Uses: fresh.Uses}, nil
	}
}

// Logout deletes the token record matching (userID, token) exactly. A miss is
// reported as common.ErrTokenNotFound with no side effect.
func (s *AuthService) Logout(ctx context.Context, userID int64, token string) error {
	tokenRepo := s.repomanager.Tokens(s.db)

	record, err := tokenRepo.GetByUserAndToken(ctx, userID, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrTokenNotFound
		}
		return common.ErrorInternal
	}

	if err := tokenRepo.Delete(ctx, record.Token); err != nil {
		return common.ErrorInternal
	}

	return nil
}

// classify maps the stored token string onto the policy's expiry states.
func (s *AuthService) classify(record *models.Token) sessions.TokenStatus {
	if record == nil {
		return sessions.StatusInvalid
	}
	_, err := auth.ParseToken(record.Token, s.secretKey)
	switch {
	case err == nil:
		return sessions.StatusValid
	case errors.Is(err, common.ErrTokenExpired):
		return sessions.StatusExpired
	default:
		return sessions.StatusInvalid
	}
}
