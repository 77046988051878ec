// Package services contains the server-side business logic. This file
// implements SessionManager, the credential-token lifecycle core: it issues
// token pairs, rotates refresh tokens with reuse detection, revokes sessions,
// and issues/consumes single-use password-reset tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mkarpenko/taskdeck/internal/common"
	"github.com/mkarpenko/taskdeck/internal/cryptox"
	"github.com/mkarpenko/taskdeck/internal/dbx"
	"github.com/mkarpenko/taskdeck/internal/server/auth"
	"github.com/mkarpenko/taskdeck/internal/server/config"
	"github.com/mkarpenko/taskdeck/internal/server/models"
	"github.com/mkarpenko/taskdeck/internal/server/repositories/repomanager"
)

// SessionManager owns the persisted token records. Consumption is modelled
// strictly as delete-inside-transaction: there is no "used" flag, and a
// token that has already been rotated or consumed simply no longer resolves.
//
// Validity failures (reused, forged, mistyped or expired tokens) surface as
// common.ErrInvalidToken; store failures are wrapped and propagated
// unchanged. There is no retry policy at this layer.
type SessionManager struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	jwtSecret       []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	resetTokenTTL   time.Duration

	// now is the injected clock; tests override it to simulate expiry.
	now func() time.Time
}

// NewSessionManager constructs a SessionManager using repositories and
// server config.
func NewSessionManager(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *SessionManager {
	return &SessionManager{
		db:              db,
		repomanager:     m,
		jwtSecret:       []byte(cfg.SecretKey),
		accessTokenTTL:  cfg.AccessTokenTTL,
		refreshTokenTTL: cfg.RefreshTokenTTL,
		resetTokenTTL:   cfg.ResetTokenTTL,
		now:             time.Now,
	}
}

// CreateSession opens a new session for userID: it persists a fresh REFRESH
// record and signs a new access token. The returned refresh secret is shown
// to the caller exactly once and never logged or persisted in cleartext.
func (s *SessionManager) CreateSession(ctx context.Context, userID string, client models.ClientInfo) (*models.TokenPair, error) {
	return s.issueSession(ctx, s.db, userID, client)
}

// RotateSession exchanges a presented refresh token for a fresh pair. The
// lookup, validity checks, consumption and replacement run in one
// transaction, so two concurrent rotations of the same token cannot both
// succeed: exactly one observes the record, the other gets
// common.ErrInvalidToken.
//
// Presenting an already-rotated token finds no record and fails the same
// way — the deletion itself is the reuse defense; no used-token ledger is
// kept. A record of the wrong type or past its expiry is consumed and
// rejected, so stale rows are garbage-collected on access.
func (s *SessionManager) RotateSession(ctx context.Context, refreshToken string, client models.ClientInfo) (*models.TokenPair, error) {
	hash := cryptox.HashTokenSecret(refreshToken)

	var pair *models.TokenPair
	invalid := false

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tokens(tx)

		rec, err := repo.Consume(ctx, hash)
		if errors.Is(err, common.ErrNotFound) {
			invalid = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("error consuming refresh token: %w", err)
		}

		// Wrong-type and expired records stay deleted: the transaction
		// commits even though the rotation is refused.
		if rec.Type != models.TokenTypeRefresh || rec.ExpiredAt(s.now()) {
			invalid = true
			return nil
		}

		pair, err = s.issueSession(ctx, tx, rec.UserID, client)
		return err
	})
	if err != nil {
		return nil, err
	}
	if invalid {
		return nil, common.ErrInvalidToken
	}
	return pair, nil
}

// RevokeSession deletes the record matching the presented token's hash, if
// any. Revoking an unknown token is a silent no-op.
func (s *SessionManager) RevokeSession(ctx context.Context, refreshToken string) error {
	repo := s.repomanager.Tokens(s.db)
	if err := repo.DeleteByHash(ctx, cryptox.HashTokenSecret(refreshToken)); err != nil {
		return fmt.Errorf("error revoking session: %w", err)
	}
	return nil
}

// RevokeAllSessions deletes every REFRESH record owned by userID. Used on
// password change and explicit full logout. Records of other users are never
// touched.
func (s *SessionManager) RevokeAllSessions(ctx context.Context, userID string) error {
	repo := s.repomanager.Tokens(s.db)
	if _, err := repo.DeleteByUser(ctx, userID, models.TokenTypeRefresh); err != nil {
		return fmt.Errorf("error revoking sessions: %w", err)
	}
	return nil
}

// CreatePasswordResetToken persists a RESET_PASSWORD record for userID and
// returns the raw secret. Any previous reset tokens for the same user are
// deleted in the same transaction, so at most one reset secret is live per
// user.
func (s *SessionManager) CreatePasswordResetToken(ctx context.Context, userID string, client models.ClientInfo) (string, error) {
	secret, err := cryptox.NewTokenSecret()
	if err != nil {
		return "", fmt.Errorf("error generating reset token: %w", err)
	}

	now := s.now()
	rec := &models.TokenRecord{
		ID:         uuid.NewString(),
		UserID:     userID,
		TokenHash:  cryptox.HashTokenSecret(secret),
		Type:       models.TokenTypeResetPassword,
		ExpiresAt:  now.Add(s.resetTokenTTL),
		UserAgent:  client.UserAgent,
		IPAddress:  client.IPAddress,
		IssuedAt:   now,
		LastUsedAt: now,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tokens(tx)
		if _, err := repo.DeleteByUser(ctx, userID, models.TokenTypeResetPassword); err != nil {
			return fmt.Errorf("error replacing reset tokens: %w", err)
		}
		if err := repo.Create(ctx, rec); err != nil {
			return fmt.Errorf("error creating reset token: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return secret, nil
}

// ConsumePasswordResetToken validates and consumes a single-use reset token,
// returning the owning user ID. Absent, mistyped or expired tokens yield
// common.ErrInvalidToken; in the latter two cases the stale record is
// removed as a side effect.
func (s *SessionManager) ConsumePasswordResetToken(ctx context.Context, rawToken string) (string, error) {
	hash := cryptox.HashTokenSecret(rawToken)

	var userID string
	invalid := false

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tokens(tx)

		rec, err := repo.Consume(ctx, hash)
		if errors.Is(err, common.ErrNotFound) {
			invalid = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("error consuming reset token: %w", err)
		}

		if rec.Type != models.TokenTypeResetPassword || rec.ExpiredAt(s.now()) {
			invalid = true
			return nil
		}

		userID = rec.UserID
		return nil
	})
	if err != nil {
		return "", err
	}
	if invalid {
		return "", common.ErrInvalidToken
	}
	return userID, nil
}

// ListSessions returns the live refresh records owned by userID, newest
// first. Expired rows are filtered out but left for the sweeper.
func (s *SessionManager) ListSessions(ctx context.Context, userID string) ([]models.TokenRecord, error) {
	repo := s.repomanager.Tokens(s.db)
	records, err := repo.ListByUser(ctx, userID, models.TokenTypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}

	now := s.now()
	live := records[:0]
	for _, rec := range records {
		if !rec.ExpiredAt(now) {
			live = append(live, rec)
		}
	}
	return live, nil
}

// PurgeExpired removes every token record past its expiry and reports how
// many were removed. Expiry is otherwise enforced lazily on access; this is
// the background garbage collection run by the daemon.
func (s *SessionManager) PurgeExpired(ctx context.Context) (int64, error) {
	repo := s.repomanager.Tokens(s.db)
	n, err := repo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("error purging expired tokens: %w", err)
	}
	return n, nil
}

// issueSession persists a fresh REFRESH record and signs an access token,
// using whatever handle (plain DB or in-flight transaction) the caller is
// operating on.
func (s *SessionManager) issueSession(ctx context.Context, db dbx.DBTX, userID string, client models.ClientInfo) (*models.TokenPair, error) {
	secret, err := cryptox.NewTokenSecret()
	if err != nil {
		return nil, fmt.Errorf("error generating refresh token: %w", err)
	}

	now := s.now()
	rec := &models.TokenRecord{
		ID:         uuid.NewString(),
		UserID:     userID,
		TokenHash:  cryptox.HashTokenSecret(secret),
		Type:       models.TokenTypeRefresh,
		ExpiresAt:  now.Add(s.refreshTokenTTL),
		UserAgent:  client.UserAgent,
		IPAddress:  client.IPAddress,
		IssuedAt:   now,
		LastUsedAt: now,
	}

	if err := s.repomanager.Tokens(db).Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("error creating refresh token: %w", err)
	}

	access, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("error signing access token: %w", err)
	}

	return &models.TokenPair{
		AccessToken:  access,
		RefreshToken: secret,
		ExpiresIn:    int64(s.accessTokenTTL.Seconds()),
	}, nil
}
