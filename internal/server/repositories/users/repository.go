// Package users declares the repository contract for account records.
package users

import (
	"context"

	"github.com/mkarpenko/taskdeck/internal/server/models"
)

// Repository defines the account persistence used by the auth flows.
type Repository interface {
	// Create stores a new user. A duplicate email yields
	// common.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns the user with the given email, or common.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the user with the given ID, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// UpdatePassword replaces the stored password hash for the user.
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
}
