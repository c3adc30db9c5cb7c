package auth

import (
	"github.com/labstack/echo/v4"
)

// publicPaths bypass authentication and session resolution.
var publicPaths = map[string]bool{
	"/health":              true,
	"/health/db":           true,
	"/api/v1/auth/sign-up": true,
	"/api/v1/auth/sign-in": true,
}

// AuthSkipper matches on the registered route path, so it works as the
// Skipper on JWTConfig.
func AuthSkipper(c echo.Context) bool {
	return publicPaths[c.Path()]
}
