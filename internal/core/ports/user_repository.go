package ports

import (
	"context"

	"github.com/userhub/account-service/internal/core/domain"
)

// UserRepository defines the interface for user persistence. Implementations
// must enforce email uniqueness atomically with Create and Update.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
