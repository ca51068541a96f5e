package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
)

// setChecker answers from a fixed set of held privileges. Directors hold
// everything.
type setChecker struct {
	held map[string]bool
	err  error
}

func (s *setChecker) HasPrivilege(_ context.Context, u *domain.User, name string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return u.IsProjectDirector() || s.held[name], nil
}

func (s *setChecker) HasAnyPrivilege(ctx context.Context, u *domain.User, names []string) (bool, error) {
	for _, n := range names {
		ok, err := s.HasPrivilege(ctx, u, n)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

func (s *setChecker) HasAllPrivileges(ctx context.Context, u *domain.User, names []string) (bool, error) {
	for _, n := range names {
		ok, err := s.HasPrivilege(ctx, u, n)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func passes(t *testing.T, mw echo.MiddlewareFunc, role domain.Role) error {
	t.Helper()
	c, _ := contextAs(role)
	return mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
}

func TestPrivilegeGates(t *testing.T) {
	checker := &setChecker{held: map[string]bool{domain.PrivilegeAidRequest: true}}

	tests := []struct {
		name     string
		mw       echo.MiddlewareFunc
		role     domain.Role
		wantMode domain.PrivilegeMode
	}{
		{"single held", RequirePrivilege(checker, domain.PrivilegeAidRequest), domain.RoleEmployee, ""},
		{"single missing", RequirePrivilege(checker, domain.PrivilegeViewApplications), domain.RoleEmployee, domain.PrivilegeModeSingle},
		{"any with one held", RequireAnyPrivilege(checker, domain.PrivilegeViewApplications, domain.PrivilegeAidRequest), domain.RoleEmployee, ""},
		{"any with none held", RequireAnyPrivilege(checker, domain.PrivilegeViewApplications, domain.PrivilegeManageApplications), domain.RoleEmployee, domain.PrivilegeModeAny},
		{"all with one missing", RequireAllPrivileges(checker, domain.PrivilegeAidRequest, domain.PrivilegeApproveApplications), domain.RoleEmployee, domain.PrivilegeModeAll},
		{"director short-circuits", RequireAllPrivileges(checker, domain.PrivilegeAidRequest, domain.PrivilegeApproveApplications), domain.RoleProjectDirector, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := passes(t, tt.mw, tt.role)
			if tt.wantMode == "" {
				if err != nil {
					t.Fatalf("expected pass, got %v", err)
				}
				return
			}
			var pe *domain.PrivilegeError
			if !errors.As(err, &pe) {
				t.Fatalf("expected PrivilegeError, got %v", err)
			}
			if pe.Mode != tt.wantMode {
				t.Fatalf("mode = %s, want %s", pe.Mode, tt.wantMode)
			}
		})
	}
}

func TestPrivilegeGate_CheckerFailure(t *testing.T) {
	boom := errors.New("grants unavailable")
	err := passes(t, RequirePrivilege(&setChecker{err: boom}, domain.PrivilegeAidRequest), domain.RoleEmployee)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped checker error, got %v", err)
	}
	var pe *domain.PrivilegeError
	if errors.As(err, &pe) {
		t.Fatalf("a lookup failure must not look like a denial")
	}
}

func TestPrivilegeGate_RequiresAuthentication(t *testing.T) {
	err := passes(t, RequirePrivilege(&setChecker{}, domain.PrivilegeAidRequest), "")
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
