package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/instasoft/devatshop/internal/middleware/auth"
)

type Deps struct {
	Auth    *AuthHTTP
	Account *AccountHTTP
	AuthMW  *authmw.Middleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	u := e.Group("/user")

	u.POST("/register", d.Auth.Register)
	u.POST("/login", d.Auth.Login)
	u.POST("/logout", d.Auth.LogOut)
	u.POST("/refresh_token", d.Auth.Refresh)
	u.POST("/forgot_password", d.Account.ForgotPassword)
	u.POST("/reset_password", d.Account.ResetPassword, d.AuthMW.RequireReset)

	private := u.Group("", d.AuthMW.RequireAuth)

	private.GET("/profile", d.Account.Profile)
	private.PUT("/cart", d.Account.SetCart)
	private.GET("/history", d.Account.History)
}
