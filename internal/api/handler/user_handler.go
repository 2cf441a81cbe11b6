package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/account-service/internal/api/metrics"
	"github.com/userhub/account-service/internal/core/domain"
	"github.com/userhub/account-service/internal/core/ports"
)

// UserHandler handles admin and self-service user management endpoints.
// It translates service outcomes into the upstream status conventions;
// the authorization decisions themselves live in the service's policy.
type UserHandler struct {
	accounts ports.AccountService
}

func NewUserHandler(accounts ports.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// List returns every user account. Admin only.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      403  {object}  messageResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	users, err := h.accounts.ListUsers(c.Request().Context(), actor)
	if err != nil {
		return h.mapError(c, err, domain.OpListUsers)
	}
	return c.JSON(http.StatusOK, users)
}

// Create creates a user account on behalf of an admin.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New user details"
// @Success      201   {object}  userMessageResponse
// @Failure      402   {object}  validationResponse
// @Failure      403   {object}  messageResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.accounts.CreateUser(c.Request().Context(), actor, ports.CreateUserInput{
		Name:                 req.Name,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		if ve, ok := domain.IsValidation(err); ok {
			return c.JSON(http.StatusPaymentRequired, validationResponse{Errors: ve.Fields})
		}
		return h.mapError(c, err, domain.OpCreateUser)
	}

	return c.JSON(http.StatusCreated, userMessageResponse{
		Message: "User created successfully.",
		User:    user,
	})
}

// Get returns a single user profile. Self or admin.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	user, err := h.accounts.ViewProfile(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return h.mapError(c, err, domain.OpViewProfile)
	}
	return c.JSON(http.StatusOK, user)
}

// Update applies a partial profile update. Self or admin.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  userMessageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      422   {object}  validationResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.accounts.UpdateProfile(c.Request().Context(), actor, c.Param("id"), ports.UpdateProfileInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		if ve, ok := domain.IsValidation(err); ok {
			return c.JSON(http.StatusUnprocessableEntity, validationResponse{Errors: ve.Fields})
		}
		return h.mapError(c, err, domain.OpUpdateProfile)
	}

	return c.JSON(http.StatusOK, userMessageResponse{
		Message: "User updated successfully.",
		User:    user,
	})
}

// Delete permanently removes a user. Admin only.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	if err := h.accounts.DeleteUser(c.Request().Context(), actor, c.Param("id")); err != nil {
		return h.mapError(c, err, domain.OpDeleteUser)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted successfully."})
}

// UpdateRole overwrites a user's role. Admin only.
//
// @Summary      Update a user's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateRoleRequest  true  "New role"
// @Success      200   {object}  userMessageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      422   {object}  validationResponse
// @Router       /users/{id}/role [patch]
func (h *UserHandler) UpdateRole(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.accounts.ChangeRole(c.Request().Context(), actor, c.Param("id"), req.Role)
	if err != nil {
		if ve, ok := domain.IsValidation(err); ok {
			return c.JSON(http.StatusUnprocessableEntity, validationResponse{Errors: ve.Fields})
		}
		return h.mapError(c, err, domain.OpChangeRole)
	}

	return c.JSON(http.StatusOK, userMessageResponse{
		Message: "User role updated successfully.",
		User:    user,
	})
}

// mapError translates the shared service outcomes; validation errors are
// handled per-endpoint because their status differs by route.
func (h *UserHandler) mapError(c echo.Context, err error, op domain.Operation) error {
	switch err {
	case domain.ErrForbidden:
		metrics.PolicyDenialsTotal.WithLabelValues(string(op)).Inc()
		return c.JSON(http.StatusForbidden, messageResponse{Message: "Unauthorized."})
	case domain.ErrUserNotFound:
		return c.JSON(http.StatusNotFound, messageResponse{Message: "User not found."})
	}
	return err
}
