package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/userhub/account-service/internal/core/ports"
)

const (
	// ActorKey is the echo context key holding the resolved *domain.User.
	ActorKey = "actor"
	// TokenKey is the echo context key holding the raw bearer token, kept
	// so logout can revoke the exact session it was called with.
	TokenKey = "token"
)

// Auth resolves the bearer token to a user and injects the actor into the
// request context. Requests without a live session are rejected with 401;
// authorization beyond that is the service's policy decision, not ours.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			actor, err := tokens.Validate(c.Request().Context(), parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ActorKey, actor)
			c.Set(TokenKey, parts[1])

			return next(c)
		}
	}
}
