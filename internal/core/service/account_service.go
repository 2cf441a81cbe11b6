package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/userhub/account-service/internal/core/domain"
	"github.com/userhub/account-service/internal/core/ports"
)

const maxFieldLen = 255
const minPasswordLen = 8

var validate = validator.New()

// AccountService orchestrates registration, sessions and user management.
// Authorization is decided exclusively by domain.Decide; handlers never
// duplicate the checks.
type AccountService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenService
	log    zerolog.Logger
}

func NewAccountService(users ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenService, log zerolog.Logger) *AccountService {
	return &AccountService{users: users, hasher: hasher, tokens: tokens, log: log}
}

// Register creates a self-service account. The caller may supply a role;
// when absent it defaults to the user role. Supplied roles are accepted
// as-is, matching the upstream contract.
func (s *AccountService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	ve := domain.NewValidationError()
	validateName(ve, input.Name)
	validateEmail(ve, input.Email)
	validatePassword(ve, input.Password, input.PasswordConfirmation)

	role := input.Role
	if role == "" {
		role = domain.RoleUser
	} else if !domain.ValidRole(role) {
		ve.Add("role", "role must be one of: admin, user")
	}

	if ve.HasErrors() {
		return nil, ve
	}

	user, err := s.createUser(ctx, input.Name, input.Email, input.Password, role)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user registered")
	return user, nil
}

// Login authenticates credentials and issues a session token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return "", nil, fmt.Errorf("login: issue token: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return token, user, nil
}

// Logout revokes the presented session token.
func (s *AccountService) Logout(ctx context.Context, actor *domain.User, token string) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	if err := s.tokens.Revoke(ctx, token); err != nil {
		return err
	}
	s.log.Info().Str("user_id", actor.ID).Msg("user logged out")
	return nil
}

// ListUsers returns every account. Admin only.
func (s *AccountService) ListUsers(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	if err := domain.Decide(actor, "", domain.OpListUsers); err != nil {
		return nil, err
	}
	return s.users.FindAll(ctx)
}

// CreateUser creates an account on behalf of an admin. The new account is
// always a regular user; promote afterwards with ChangeRole.
func (s *AccountService) CreateUser(ctx context.Context, actor *domain.User, input ports.CreateUserInput) (*domain.User, error) {
	if err := domain.Decide(actor, "", domain.OpCreateUser); err != nil {
		return nil, err
	}

	ve := domain.NewValidationError()
	validateName(ve, input.Name)
	validateEmail(ve, input.Email)
	validatePassword(ve, input.Password, input.PasswordConfirmation)
	if ve.HasErrors() {
		return nil, ve
	}

	user, err := s.createUser(ctx, input.Name, input.Email, input.Password, domain.RoleUser)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("actor_id", actor.ID).Msg("user created by admin")
	return user, nil
}

// ViewProfile returns the target account. The target is resolved before
// the policy runs because the self-or-admin rule needs its identity.
func (s *AccountService) ViewProfile(ctx context.Context, actor *domain.User, targetID string) (*domain.User, error) {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := domain.Decide(actor, target.ID, domain.OpViewProfile); err != nil {
		return nil, err
	}
	return target, nil
}

// UpdateProfile applies a partial update to the target account. Only the
// supplied fields are validated and written; email uniqueness is checked
// against every row but the target's own.
func (s *AccountService) UpdateProfile(ctx context.Context, actor *domain.User, targetID string, input ports.UpdateProfileInput) (*domain.User, error) {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := domain.Decide(actor, target.ID, domain.OpUpdateProfile); err != nil {
		return nil, err
	}

	ve := domain.NewValidationError()
	if input.Name != nil {
		validateName(ve, *input.Name)
	}
	if input.Email != nil {
		validateEmail(ve, *input.Email)
	}
	if ve.HasErrors() {
		return nil, ve
	}

	if input.Name != nil {
		target.Name = *input.Name
	}
	if input.Email != nil && *input.Email != target.Email {
		if existing, err := s.users.FindByEmail(ctx, *input.Email); err == nil && existing.ID != target.ID {
			return nil, domain.NewValidationError().Add("email", "email has already been taken")
		}
		target.Email = *input.Email
	}
	target.UpdatedAt = time.Now().UTC()

	updated, err := s.users.Update(ctx, target)
	if err != nil {
		if err == domain.ErrEmailTaken {
			return nil, domain.NewValidationError().Add("email", "email has already been taken")
		}
		return nil, err
	}

	s.log.Info().Str("user_id", updated.ID).Str("actor_id", actor.ID).Msg("profile updated")
	return updated, nil
}

// DeleteUser permanently removes the target account. Admin only; the
// policy runs before the target is resolved, so a non-admin probing a
// random id always sees forbidden, never not-found.
func (s *AccountService) DeleteUser(ctx context.Context, actor *domain.User, targetID string) error {
	if err := domain.Decide(actor, "", domain.OpDeleteUser); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		return err
	}
	s.log.Info().Str("user_id", targetID).Str("actor_id", actor.ID).Msg("user deleted")
	return nil
}

// ChangeRole overwrites the target's role. Admin only.
func (s *AccountService) ChangeRole(ctx context.Context, actor *domain.User, targetID, role string) (*domain.User, error) {
	if err := domain.Decide(actor, "", domain.OpChangeRole); err != nil {
		return nil, err
	}
	if !domain.ValidRole(role) {
		return nil, domain.NewValidationError().Add("role", "role must be one of: admin, user")
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	target.Role = role
	target.UpdatedAt = time.Now().UTC()

	updated, err := s.users.Update(ctx, target)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", updated.ID).Str("role", role).Str("actor_id", actor.ID).Msg("role updated")
	return updated, nil
}

// createUser hashes the password and persists a new account, translating
// the store's uniqueness violation into a field error.
func (s *AccountService) createUser(ctx context.Context, name, email, password, role string) (*domain.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if err == domain.ErrEmailTaken {
			return nil, domain.NewValidationError().Add("email", "email has already been taken")
		}
		return nil, err
	}
	return created, nil
}

func validateName(ve *domain.ValidationError, name string) {
	if name == "" {
		ve.Add("name", "name is required")
		return
	}
	if len(name) > maxFieldLen {
		ve.Add("name", "name must be at most 255 characters")
	}
}

func validateEmail(ve *domain.ValidationError, email string) {
	if email == "" {
		ve.Add("email", "email is required")
		return
	}
	if len(email) > maxFieldLen {
		ve.Add("email", "email must be at most 255 characters")
	}
	if validate.Var(email, "email") != nil {
		ve.Add("email", "email must be a valid email address")
	}
}

func validatePassword(ve *domain.ValidationError, password, confirmation string) {
	if password == "" {
		ve.Add("password", "password is required")
		return
	}
	if len(password) < minPasswordLen {
		ve.Add("password", "password must be at least 8 characters")
	}
	if password != confirmation {
		ve.Add("password", "password confirmation does not match")
	}
}
