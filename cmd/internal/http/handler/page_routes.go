package handler

import (
	"net/http"

	"alumninet/cmd/internal/access"

	"github.com/labstack/echo/v4"
)

// HealthCheck backs the container healthcheck.
func HealthCheck(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// LoginPage is where the guard sends anonymous callers. Already signed-in
// callers are told where they belong.
func LoginPage(c echo.Context) error {
	sess := access.FromContext(c)
	return c.JSON(http.StatusOK, echo.Map{
		"page":          "login",
		"authenticated": sess.State.Authenticated(),
	})
}

// UnauthorizedPage is where the guard sends members asking for admin pages.
func UnauthorizedPage(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"page":    "unauthorized",
		"message": "You do not have access to this page",
	})
}
