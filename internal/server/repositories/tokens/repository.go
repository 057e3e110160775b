// Package tokens provides the persistent token store: issued token records
// keyed by token string, one record per user.
package tokens

import (
	"context"

	"github.com/mkarpovich/authkeeper/internal/server/models"
)

type Repository interface {
	GetByUser(ctx context.Context, userID int64) (*models.Token, error)
	GetByUserAndToken(ctx context.Context, userID int64, token string) (*models.Token, error)
	Save(ctx context.Context, token *models.Token) error
	Delete(ctx context.Context, token string) error
}
