package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/platformid/identity-system/internal/core/ports"
)

// ctxClaims extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: a non-zero user id
// and a non-empty role prove the middleware ran for this route.
func ctxClaims(c echo.Context) (ports.Claims, error) {
	role, _ := c.Get("role").(string)
	id, _ := c.Get("user_id").(int64)
	if role == "" || id == 0 {
		return ports.Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	email, _ := c.Get("email").(string)
	return ports.Claims{UserID: id, Email: email, Role: role}, nil
}
