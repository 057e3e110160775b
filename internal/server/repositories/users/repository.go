// Package users provides the user directory: lookups and creation of
// account records. The service layer never talks to the users table directly.
package users

import (
	"context"

	"github.com/mkarpovich/authkeeper/internal/server/models"
)

type Repository interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}
