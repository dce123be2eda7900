package httpserver

import (
	"net/http"
	"time"
)

const (
	refreshCookieName = "refreshtoken"

	// RefreshCookiePath scopes the refresh cookie to the one endpoint that
	// may read it.
	RefreshCookiePath = "/user/refresh_token"
)

type CookieOptions struct {
	Secure   bool
	SameSite http.SameSite
}

func createCookie(name, value, path string, exp time.Time, opts CookieOptions) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	}
}

func deleteCookie(name, path string, opts CookieOptions) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	}
}
