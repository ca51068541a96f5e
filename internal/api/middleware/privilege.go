package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/IvanBritz/Aidpoint1/internal/api/metrics"
	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
	"github.com/IvanBritz/Aidpoint1/internal/core/ports"
)

// RequirePrivilege lets the request through when the user holds name.
// Project directors always pass; the resolver short-circuits them.
func RequirePrivilege(checker ports.PrivilegeChecker, name string) echo.MiddlewareFunc {
	return privilegeGate(domain.PrivilegeModeSingle, []string{name}, func(ctx context.Context, u *domain.User) (bool, error) {
		return checker.HasPrivilege(ctx, u, name)
	})
}

// RequireAnyPrivilege passes when the user holds at least one of names.
func RequireAnyPrivilege(checker ports.PrivilegeChecker, names ...string) echo.MiddlewareFunc {
	return privilegeGate(domain.PrivilegeModeAny, names, func(ctx context.Context, u *domain.User) (bool, error) {
		return checker.HasAnyPrivilege(ctx, u, names)
	})
}

// RequireAllPrivileges passes only when the user holds every one of names.
func RequireAllPrivileges(checker ports.PrivilegeChecker, names ...string) echo.MiddlewareFunc {
	return privilegeGate(domain.PrivilegeModeAll, names, func(ctx context.Context, u *domain.User) (bool, error) {
		return checker.HasAllPrivileges(ctx, u, names)
	})
}

func privilegeGate(mode domain.PrivilegeMode, names []string, check func(context.Context, *domain.User) (bool, error)) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			granted, err := check(c.Request().Context(), user)
			if err != nil {
				return fmt.Errorf("check privileges: %w", err)
			}
			if !granted {
				metrics.PrivilegeChecksTotal.WithLabelValues(string(mode), "denied").Inc()
				return &domain.PrivilegeError{Required: names, Mode: mode}
			}
			metrics.PrivilegeChecksTotal.WithLabelValues(string(mode), "granted").Inc()
			return next(c)
		}
	}
}
