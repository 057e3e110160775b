package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mkarpovich/authkeeper/internal/common"
	"github.com/mkarpovich/authkeeper/internal/dbx"
	"github.com/mkarpovich/authkeeper/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByUser returns the single token record for userID.
// If no record exists, it returns common.ErrorNotFound.
func (r *PostgresRepository) GetByUser(ctx context.Context, userID int64) (*models.Token, error) {
	query :=
		`SELECT token, user_id, uses, created_at FROM tokens
		 WHERE user_id = $1
		 `

	record := &models.Token{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&record.Token, &record.UserID, &record.Uses, &record.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return record, nil
}

// GetByUserAndToken returns the record matching both userID and token exactly.
// If no such record exists, it returns common.ErrorNotFound.
func (r *PostgresRepository) GetByUserAndToken(ctx context.Context, userID int64, token string) (*models.Token, error) {
	query :=
		`SELECT token, user_id, uses, created_at FROM tokens
		 WHERE user_id = $1 AND token = $2
		 `

	record := &models.Token{}
	err := r.db.QueryRowContext(ctx, query, userID, token).Scan(
		&record.Token, &record.UserID, &record.Uses, &record.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return record, nil
}

// Save upserts the record keyed by user (the users.user_id unique constraint
// guarantees at most one record per user). The update path covers both the
// decrement branch (same token string) and a reissue (new token string
// overwriting the old one).
func (r *PostgresRepository) Save(ctx context.Context, token *models.Token) error {
	update :=
		`UPDATE tokens SET token = $2, uses = $3, created_at = $4
		 WHERE user_id = $1
		 `

	res, err := r.db.ExecContext(ctx, update, token.UserID, token.Token, token.Uses, token.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected > 0 {
		return nil
	}

	insert :=
		`INSERT INTO tokens (token, user_id, uses, created_at)
		 VALUES ($1, $2, $3, $4)
		 `

	if _, err := r.db.ExecContext(ctx, insert, token.Token, token.UserID, token.Uses, token.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// Delete removes a token record by its token string.
func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	query :=
		`DELETE FROM tokens
		 WHERE token = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
