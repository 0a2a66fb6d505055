package middleware

import (
	"strings"

	"github.com/Aesmazing/Boko-Hacks-2025/server/response"

	"github.com/labstack/echo/v4"
)

// ValidateTokenFunc is the function signature for token validation
type ValidateTokenFunc func(tokenString string) (claims interface{}, err error)

// AttachClaims resolves the bearer token when one is present and stores
// the claims under "user" in the request context. It never rejects the
// request: the upload pipeline owns its own unauthorized accounting, so
// it must see unauthenticated requests rather than have them short-
// circuited here.
func AttachClaims(validateFn ValidateTokenFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims, ok := resolveClaims(c, validateFn); ok {
				c.Set("user", claims)
			}
			return next(c)
		}
	}
}

// RequireClaims rejects requests without a resolvable bearer token.
// Used on the read endpoints, which have no counter semantics.
func RequireClaims(validateFn ValidateTokenFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := resolveClaims(c, validateFn)
			if !ok {
				return response.Unauthorized(c, "Not logged in")
			}
			c.Set("user", claims)
			return next(c)
		}
	}
}

func resolveClaims(c echo.Context, validateFn ValidateTokenFunc) (interface{}, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, false
	}

	claims, err := validateFn(parts[1])
	if err != nil {
		return nil, false
	}

	return claims, true
}
