package ports

import (
	"context"

	"github.com/userhub/account-service/internal/core/domain"
)

// RegisterInput carries a self-service registration request. Role is
// optional; when empty the account defaults to the user role.
type RegisterInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
	Role                 string
}

// CreateUserInput carries an admin create request. The created account is
// always a regular user; admins promote afterwards via ChangeRole.
type CreateUserInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
}

// UpdateProfileInput carries a partial profile update. Nil fields are left
// untouched.
type UpdateProfileInput struct {
	Name  *string
	Email *string
}

// AccountService orchestrates registration, sessions and user management.
// Every authenticated operation takes the resolved actor explicitly.
type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Logout(ctx context.Context, actor *domain.User, token string) error

	ListUsers(ctx context.Context, actor *domain.User) ([]*domain.User, error)
	CreateUser(ctx context.Context, actor *domain.User, input CreateUserInput) (*domain.User, error)
	ViewProfile(ctx context.Context, actor *domain.User, targetID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor *domain.User, targetID string, input UpdateProfileInput) (*domain.User, error)
	DeleteUser(ctx context.Context, actor *domain.User, targetID string) error
	ChangeRole(ctx context.Context, actor *domain.User, targetID, role string) (*domain.User, error)
}
