package ports

import (
	"context"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
)

// PrivilegeCatalog is the seeded table of known privileges.
type PrivilegeCatalog interface {
	FindByName(ctx context.Context, name string) (*domain.Privilege, error)
	List(ctx context.Context) ([]*domain.Privilege, error)
	// Upsert inserts or refreshes a privilege keyed by name.
	Upsert(ctx context.Context, p *domain.Privilege) error
}

// GrantRepository is the relational grant store: one row per
// (user, privilege) pair, unique on that pair.
type GrantRepository interface {
	Exists(ctx context.Context, userID, name string) (bool, error)
	ExistsAny(ctx context.Context, userID string, names []string) (bool, error)
	Names(ctx context.Context, userID string) ([]string, error)
	Insert(ctx context.Context, g *domain.PrivilegeGrant) error
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, userID, privilegeID string) (bool, error)
}

// PrivilegeSource is one backing store of effective privileges. The
// resolver reads the union of every source.
type PrivilegeSource interface {
	Has(ctx context.Context, u *domain.User, name string) (bool, error)
	HasAny(ctx context.Context, u *domain.User, names []string) (bool, error)
	Names(ctx context.Context, u *domain.User) ([]string, error)
}
