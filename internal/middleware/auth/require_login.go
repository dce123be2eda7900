package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/instasoft/devatshop/internal/tokens"
)

const userIDKey = "user_id"

type Middleware struct {
	Tokens *tokens.Service
}

func New(t *tokens.Service) *Middleware {
	return &Middleware{Tokens: t}
}

// RequireAuth admits requests carrying a valid access token in the
// Authorization header and stores the subject user id in the echo context.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, err := bearerToken(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		userID, err := m.Tokens.VerifyAccess(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		c.Set(userIDKey, userID)
		return next(c)
	}
}

// RequireReset admits requests carrying a valid password-reset grant. Reset
// grants are signed with their own secret, so an access token is rejected
// here and vice versa.
func (m *Middleware) RequireReset(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, err := bearerToken(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing reset token")
		}

		userID, err := m.Tokens.VerifyReset(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		c.Set(userIDKey, userID)
		return next(c)
	}
}

func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", errors.New("missing authorization header")
	}
	raw := strings.TrimPrefix(header, "Bearer ")
	if raw == "" {
		return "", errors.New("empty token")
	}
	return raw, nil
}

// UserID returns the authenticated user id placed by RequireAuth/RequireReset.
func UserID(c echo.Context) (uint, error) {
	v := c.Get(userIDKey)
	id, ok := v.(uint)
	if !ok {
		return 0, errors.New("unauthorized")
	}
	return id, nil
}
