package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/instasoft/devatshop/internal/service"
)

// httpError maps service failures onto the endpoint contract: validation,
// not-found and credential failures all answer 400, anything else answers a
// generic 500 while the real cause goes to the log.
func httpError(l *slog.Logger, op string, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrBadCredentials),
		errors.Is(err, service.ErrNoSession):
		l.Warn(op+"_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, clientMessage(err))
	default:
		l.Error(op+"_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

func clientMessage(err error) string {
	msg := err.Error()
	if _, after, ok := strings.Cut(msg, ": "); ok {
		return after
	}
	return msg
}
