package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/account-service/internal/api/metrics"
	"github.com/userhub/account-service/internal/core/domain"
	"github.com/userhub/account-service/internal/core/ports"
)

// AuthHandler handles registration, login, logout and the identity echo.
type AuthHandler struct {
	accounts ports.AccountService
}

func NewAuthHandler(accounts ports.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Register creates a new user account.
//
// Validation failures answer 402 — a quirk inherited from the upstream API
// contract that existing clients depend on.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  userMessageResponse
// @Failure      402   {object}  validationResponse
// @Failure      500   {object}  messageResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.accounts.Register(c.Request().Context(), ports.RegisterInput{
		Name:                 req.Name,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
		Role:                 req.Role,
	})
	if err != nil {
		if ve, ok := domain.IsValidation(err); ok {
			return c.JSON(http.StatusPaymentRequired, validationResponse{Errors: ve.Fields})
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(user.Role).Inc()
	return c.JSON(http.StatusCreated, userMessageResponse{
		Message: "User registered successfully.",
		User:    user,
	})
}

// Login authenticates credentials and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  messageResponse
// @Failure      422   {object}  validationResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		if ve, ok := domain.IsValidation(err); ok {
			return c.JSON(http.StatusUnprocessableEntity, validationResponse{Errors: ve.Fields})
		}
		return err
	}

	token, user, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if err == domain.ErrInvalidCredentials {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return c.JSON(http.StatusUnauthorized, messageResponse{Message: "Invalid credentials"})
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{User: user, AccessToken: token})
}

// Logout revokes the presented session token.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	if err := h.accounts.Logout(c.Request().Context(), actor, tokenFromContext(c)); err != nil {
		if err == domain.ErrUnauthenticated {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
		}
		return err
	}

	metrics.SessionsRevokedTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "User logged out successfully."})
}

// Me echoes the authenticated identity.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  messageResponse
// @Router       /user [get]
func (h *AuthHandler) Me(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, actor)
}
