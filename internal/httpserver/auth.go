package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/instasoft/devatshop/internal/logging"
	"github.com/instasoft/devatshop/internal/service"
)

type AuthHTTP struct {
	Svc     *service.AuthService
	Cookies CookieOptions
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	pair, err := h.Svc.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return httpError(l, "register", err)
	}

	c.SetCookie(createCookie(refreshCookieName, pair.RefreshToken, RefreshCookiePath, pair.RefreshExp, h.Cookies))

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": pair.AccessToken,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	pair, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return httpError(l, "login", err)
	}

	c.SetCookie(createCookie(refreshCookieName, pair.RefreshToken, RefreshCookiePath, pair.RefreshExp, h.Cookies))

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": pair.AccessToken,
	})
}

// LogOut clears the refresh cookie unconditionally. Access tokens already
// issued stay valid until their own expiry.
func (h *AuthHTTP) LogOut(c echo.Context) error {
	c.SetCookie(deleteCookie(refreshCookieName, RefreshCookiePath, h.Cookies))

	return c.JSON(http.StatusOK, echo.Map{
		"msg": "logged out",
	})
}

// Refresh answers a new access token for a valid refresh cookie. The cookie
// itself is left untouched; a missing, expired or forged cookie all answer
// the same 400.
func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		l.Warn("refresh_failed", "status", 400, "reason", "no cookie")
		return echo.NewHTTPError(http.StatusBadRequest, "please login or register")
	}

	pair, err := h.Svc.Refresh(ctx, cookie.Value)
	if err != nil {
		return httpError(l, "refresh", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": pair.AccessToken,
	})
}
