package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/account-service/internal/api/middleware"
	"github.com/userhub/account-service/internal/core/domain"
)

// actorFromContext extracts the authenticated user injected by the Auth
// middleware. A missing actor means the middleware did not run on this
// route; fail closed with 401 rather than proceeding anonymously.
func actorFromContext(c echo.Context) (*domain.User, error) {
	actor, ok := c.Get(middleware.ActorKey).(*domain.User)
	if !ok || actor == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	return actor, nil
}

// tokenFromContext returns the raw bearer token stored by the Auth
// middleware, empty when the route is unauthenticated.
func tokenFromContext(c echo.Context) string {
	token, _ := c.Get(middleware.TokenKey).(string)
	return token
}
