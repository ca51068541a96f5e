package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
	"github.com/IvanBritz/Aidpoint1/internal/core/ports"
)

// Context keys set by Auth.
const (
	ContextUser    = "user"
	ContextSession = "session_id"
)

// Authenticator resolves a bearer token to a live session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, *ports.Session, error)
}

// Auth validates the bearer token against its session and injects the
// authenticated user into the context.
func Auth(authn Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			user, sess, err := authn.Authenticate(c.Request().Context(), parts[1])
			switch {
			case errors.Is(err, domain.ErrUnauthenticated):
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			case err != nil:
				return err
			}

			c.Set(ContextUser, user)
			c.Set(ContextSession, sess.ID)
			return next(c)
		}
	}
}

// CurrentUser returns the user injected by Auth.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	u, ok := c.Get(ContextUser).(*domain.User)
	return u, ok && u != nil
}

func SessionID(c echo.Context) string {
	id, _ := c.Get(ContextSession).(string)
	return id
}
