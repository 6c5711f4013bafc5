package ports

import (
	"context"

	"github.com/Aaya-Elsharief/Agri-pal/internal/core/domain"
)

// UserRepository defines persistence for user accounts. Username uniqueness is
// enforced by the store; Create returns domain.ErrUserExists on collision.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
