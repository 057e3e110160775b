package repomanager

import (
	"context"
	"database/sql"

	"github.com/mkarpovich/authkeeper/internal/dbx"
	"github.com/mkarpovich/authkeeper/internal/server/repositories/tokens"
	"github.com/mkarpovich/authkeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tokens(db dbx.DBTX) tokens.Repository
}
