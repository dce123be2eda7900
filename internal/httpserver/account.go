package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/instasoft/devatshop/internal/logging"
	authmw "github.com/instasoft/devatshop/internal/middleware/auth"
	"github.com/instasoft/devatshop/internal/models"
	"github.com/instasoft/devatshop/internal/service"
)

type AccountHTTP struct {
	Svc *service.AccountService
}

func (h *AccountHTTP) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account_profile")

	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := h.Svc.Profile(ctx, userID)
	if err != nil {
		return httpError(l, "profile", err)
	}

	return c.JSON(http.StatusOK, user)
}

func (h *AccountHTTP) SetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account_set_cart")

	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		Cart []models.CartItem `json:"cart"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("set_cart_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.SetCart(ctx, userID, req.Cart); err != nil {
		return httpError(l, "set_cart", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"msg": "cart updated",
	})
}

func (h *AccountHTTP) History(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account_history")

	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	payments, err := h.Svc.History(ctx, userID)
	if err != nil {
		return httpError(l, "history", err)
	}

	return c.JSON(http.StatusOK, payments)
}

func (h *AccountHTTP) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account_forgot_password")

	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("forgot_password_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.ForgotPassword(ctx, req.Email); err != nil {
		return httpError(l, "forgot_password", err)
	}

	// Delivery is asynchronous; the answer is the same whether or not the
	// mail ever goes out.
	return c.JSON(http.StatusOK, echo.Map{
		"msg": "password reset link sent, please check your email",
	})
}

func (h *AccountHTTP) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account_reset_password")

	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("reset_password_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.ResetPassword(ctx, userID, req.Password); err != nil {
		return httpError(l, "reset_password", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"msg": "password successfully changed",
	})
}
