// Package repomanager bundles the repositories behind a single factory so
// services can rebind them to a transactional handle mid-operation.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/mkarpenko/taskdeck/internal/dbx"
	"github.com/mkarpenko/taskdeck/internal/server/repositories/tokens"
	"github.com/mkarpenko/taskdeck/internal/server/repositories/users"
)

// RepositoryManager constructs repositories bound to the given DBTX, which
// may be a plain *sql.DB or an in-flight *sql.Tx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tokens(db dbx.DBTX) tokens.Repository
}
