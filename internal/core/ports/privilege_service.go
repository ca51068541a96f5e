package ports

import (
	"context"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
)

// PrivilegeChecker answers capability questions about a user.
type PrivilegeChecker interface {
	HasPrivilege(ctx context.Context, u *domain.User, name string) (bool, error)
	HasAnyPrivilege(ctx context.Context, u *domain.User, names []string) (bool, error)
	HasAllPrivileges(ctx context.Context, u *domain.User, names []string) (bool, error)
}

// PrivilegeService is the full resolver: reads across every source,
// writes to the relational store only.
type PrivilegeService interface {
	PrivilegeChecker
	GrantPrivilege(ctx context.Context, u *domain.User, name, grantedBy string) (bool, error)
	RevokePrivilege(ctx context.Context, u *domain.User, name string) (bool, error)
	GetPrivilegeNames(ctx context.Context, u *domain.User) ([]string, error)
}

// PrivilegeCategory groups catalog entries for display.
type PrivilegeCategory struct {
	Category   string
	Privileges []*domain.Privilege
}

type CatalogService interface {
	Grouped(ctx context.Context) ([]PrivilegeCategory, error)
	Seed(ctx context.Context, entries []*domain.Privilege) error
}
