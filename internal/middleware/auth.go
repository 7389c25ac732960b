package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avdoshkin/blog_platform/internal/models"
	"github.com/avdoshkin/blog_platform/internal/tokens"
)

const (
	bearerPrefix = "Bearer "

	ClaimsKey = "claims"
	UserIDKey = "user_id"
	RoleKey   = "role"
)

type Auth struct {
	Tokens *tokens.Service
}

func NewAuth(svc *tokens.Service) *Auth {
	return &Auth{Tokens: svc}
}

// RequireAuth admits the request only when the Authorization header carries a
// verifiable bearer token. The prefix match is case-sensitive; missing,
// malformed and expired tokens are all answered with the same 401.
func (m *Auth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		raw := header[len(bearerPrefix):]
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := m.Tokens.Verify(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.Subject)
		c.Set(RoleKey, claims.Role)

		return next(c)
	}
}

// RequireAdmin runs downstream of RequireAuth.
func (m *Auth) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, _ := c.Get(RoleKey).(string)
		if role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
		}
		return next(c)
	}
}

// ClaimsFromContext returns the claims attached by RequireAuth.
func ClaimsFromContext(c echo.Context) (*tokens.Claims, bool) {
	claims, ok := c.Get(ClaimsKey).(*tokens.Claims)
	return claims, ok
}
