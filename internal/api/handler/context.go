package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/order-tracking/internal/api/middleware"
)

// ctxToken returns the session token the SessionToken middleware extracted.
// An empty token is passed through; the access gate rejects it.
func ctxToken(c echo.Context) string {
	return middleware.Token(c)
}
