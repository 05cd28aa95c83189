package middleware // reusable HTTP middleware for the API

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/florapress/bookshop/internal/utils"
)

// UserIDKey is the context key under which SessionAuth stores the
// authenticated account id (uint64).
const UserIDKey = "user_id"

// SessionAuth returns an Echo middleware that validates the session
// cookie and injects the token subject into the request context.
// Handlers behind it can read the account id via c.Get(UserIDKey).
// A missing cookie, bad signature or expired token all answer 401;
// the middleware itself never panics or 500s on bad tokens.
func SessionAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(utils.SessionCookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
			}
			uid, err := utils.ParseSessionToken(secret, cookie.Value)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session"})
			}
			c.Set(UserIDKey, uid)
			return next(c)
		}
	}
}

// SessionUserID extracts the account id stored by SessionAuth. The
// boolean is false when the middleware did not run or did not
// authenticate (e.g. on soft-auth routes).
func SessionUserID(c echo.Context) (uint64, bool) {
	uid, ok := c.Get(UserIDKey).(uint64)
	return uid, ok
}
