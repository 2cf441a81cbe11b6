package handler

import "github.com/userhub/account-service/internal/core/domain"

// --- Request types ---

type registerRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	Role                 string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type createUserRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// updateUserRequest is partial: nil fields stay untouched.
type updateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin user"`
}

// --- Response types ---

// messageResponse is the envelope for message-only results and for the
// message-bearing failures (401, 403, 404).
type messageResponse struct {
	Message string `json:"message"`
}

// userMessageResponse pairs a confirmation message with the affected user.
type userMessageResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// loginResponse mirrors the upstream contract: user plus access_token.
type loginResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
}

// validationResponse carries per-field validation messages.
type validationResponse struct {
	Errors map[string][]string `json:"errors"`
}
