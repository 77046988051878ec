package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mkarpenko/taskdeck/internal/common"
	"github.com/mkarpenko/taskdeck/internal/cryptox"
	"github.com/mkarpenko/taskdeck/internal/server/models"
	"github.com/mkarpenko/taskdeck/internal/server/repositories/repomanager"
)

// UserService provides the account-facing authentication flows on top of
// SessionManager:
//   - Register: create accounts
//   - Login: verify credentials and open a session
//   - Logout / LogoutAll: revoke sessions
//   - RequestPasswordReset / ResetPassword: the single-use reset flow
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    *SessionManager
}

// NewUserService constructs a UserService.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, sessions *SessionManager) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		sessions:    sessions,
	}
}

// Register creates a new user with the given email and password.
// A duplicate email yields common.ErrAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.Create(ctx, &models.User{Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// Login verifies the credentials and, on success, opens a new session.
// Unknown emails and wrong passwords both yield common.ErrUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string, client models.ClientInfo) (*models.TokenPair, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	ok, err := cryptox.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("error verifying password: %w", err)
	}
	if !ok {
		return nil, common.ErrUnauthorized
	}

	return s.sessions.CreateSession(ctx, user.ID, client)
}

// Logout revokes the presented refresh token. Unknown tokens are a silent
// no-op.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	return s.sessions.RevokeSession(ctx, refreshToken)
}

// LogoutAll revokes every session of the user.
func (s *UserService) LogoutAll(ctx context.Context, userID string) error {
	return s.sessions.RevokeAllSessions(ctx, userID)
}

// RequestPasswordReset issues a reset token for the account with the given
// email and returns the raw secret for out-of-band delivery. An unknown
// email returns an empty secret with no error, so callers do not leak
// account existence.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string, client models.ClientInfo) (string, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("error loading user: %w", err)
	}

	return s.sessions.CreatePasswordResetToken(ctx, user.ID, client)
}

// ResetPassword consumes a reset token, replaces the user's password hash
// and revokes all of their sessions. Invalid tokens yield
// common.ErrInvalidToken.
func (s *UserService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	userID, err := s.sessions.ConsumePasswordResetToken(ctx, rawToken)
	if err != nil {
		return err
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	repo := s.repomanager.Users(s.db)
	if err := repo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}

	return s.sessions.RevokeAllSessions(ctx, userID)
}
