// Package tokens declares the server-side repository contract for persisted
// credential-token records (refresh and password-reset tokens).
package tokens

import (
	"context"
	"time"

	"github.com/mkarpenko/taskdeck/internal/server/models"
)

// Repository defines the store operations the session manager builds on.
// Records are looked up by token hash only, never by raw secret.
type Repository interface {
	// Create persists a new token record. The record's ID, hash, type and
	// timestamps must already be populated by the caller.
	Create(ctx context.Context, rec *models.TokenRecord) error

	// Consume atomically removes the record matching tokenHash and returns
	// it. Returning the row and deleting it is a single statement, so of two
	// concurrent consumers exactly one observes the record. Absent records
	// yield common.ErrNotFound.
	Consume(ctx context.Context, tokenHash string) (*models.TokenRecord, error)

	// DeleteByHash removes the record matching tokenHash, if any. Deleting a
	// non-existent record is not an error.
	DeleteByHash(ctx context.Context, tokenHash string) error

	// DeleteByUser removes all records of the given type owned by userID and
	// reports how many were removed.
	DeleteByUser(ctx context.Context, userID string, tokenType models.TokenType) (int64, error)

	// ListByUser returns the live records of the given type owned by userID,
	// newest first.
	ListByUser(ctx context.Context, userID string, tokenType models.TokenType) ([]models.TokenRecord, error)

	// DeleteExpired removes every record whose expiry is at or before now and
	// reports how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
