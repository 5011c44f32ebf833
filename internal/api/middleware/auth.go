package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// TokenKey is the echo.Context key the session token is stored under.
const TokenKey = "session_token"

// SessionToken extracts the session token and injects it into context.
// The Authorization bearer header wins over the session cookie. A missing
// token is not an error here: the access gate decides what needs a session.
// A malformed Authorization header is rejected with 401.
func SessionToken(cookieName string) echo.MiddlewareFunc {
	return sessionToken(cookieName, true)
}

// OptionalSessionToken is SessionToken for routes that must succeed without a
// usable session, such as logout. A malformed Authorization header is ignored
// and the cookie is used instead.
func OptionalSessionToken(cookieName string) echo.MiddlewareFunc {
	return sessionToken(cookieName, false)
}

func sessionToken(cookieName string, strict bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
				token, ok := bearerToken(authHeader)
				if ok {
					c.Set(TokenKey, token)
					return next(c)
				}
				if strict {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
				}
			}

			if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
				c.Set(TokenKey, cookie.Value)
			}
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// Token returns the token SessionToken stored, or "".
func Token(c echo.Context) string {
	token, _ := c.Get(TokenKey).(string)
	return token
}
