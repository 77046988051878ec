// Package tokens provides a PostgreSQL-backed repository for the persisted
// credential-token records used in the authentication flow.
package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mkarpenko/taskdeck/internal/common"
	"github.com/mkarpenko/taskdeck/internal/dbx"
	"github.com/mkarpenko/taskdeck/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new token record.
func (r *PostgresRepository) Create(ctx context.Context, rec *models.TokenRecord) error {
	query := `
		INSERT INTO auth_tokens (id, user_id, token_hash, token_type, expires_at, user_agent, ip_address, issued_at, last_used_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if _, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.UserID, rec.TokenHash, rec.Type, rec.ExpiresAt,
		rec.UserAgent, rec.IPAddress, rec.IssuedAt, rec.LastUsedAt,
	); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Consume deletes the record matching tokenHash and returns it in one
// statement. If no record matches, it returns common.ErrNotFound.
func (r *PostgresRepository) Consume(ctx context.Context, tokenHash string) (*models.TokenRecord, error) {
	query := `
		DELETE FROM auth_tokens
		WHERE token_hash = $1
		RETURNING id, user_id, token_hash, token_type, expires_at, user_agent, ip_address, issued_at, last_used_at
	`
	rec := &models.TokenRecord{}
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&rec.ID, &rec.UserID, &rec.TokenHash, &rec.Type, &rec.ExpiresAt,
		&rec.UserAgent, &rec.IPAddress, &rec.IssuedAt, &rec.LastUsedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

// DeleteByHash removes the record matching tokenHash.
func (r *PostgresRepository) DeleteByHash(ctx context.Context, tokenHash string) error {
	query := `
		DELETE FROM auth_tokens
		WHERE token_hash = $1
	`
	if _, err := r.db.ExecContext(ctx, query, tokenHash); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// DeleteByUser removes all records of the given type owned by userID.
func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string, tokenType models.TokenType) (int64, error) {
	query := `
		DELETE FROM auth_tokens
		WHERE user_id = $1 AND token_type = $2
	`
	res, err := r.db.ExecContext(ctx, query, userID, tokenType)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// ListByUser returns the records of the given type owned by userID, newest
// first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, tokenType models.TokenType) ([]models.TokenRecord, error) {
	query := `
		SELECT id, user_id, token_hash, token_type, expires_at, user_agent, ip_address, issued_at, last_used_at
		FROM auth_tokens
		WHERE user_id = $1 AND token_type = $2
		ORDER BY issued_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID, tokenType)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var records []models.TokenRecord
	for rows.Next() {
		var rec models.TokenRecord
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.TokenHash, &rec.Type, &rec.ExpiresAt,
			&rec.UserAgent, &rec.IPAddress, &rec.IssuedAt, &rec.LastUsedAt,
		); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return records, nil
}

// DeleteExpired removes every record past its expiry.
func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		DELETE FROM auth_tokens
		WHERE expires_at <= $1
	`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
