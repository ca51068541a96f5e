package ports

import (
	"context"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
)

// UserFilter scopes a user listing. CreatedBy is mandatory for
// non-root callers; the service always sets it.
type UserFilter struct {
	CreatedBy string
	Role      domain.Role
	Status    domain.UserStatus
	Search    string // optional: partial match on name, email or username
	Page      PageRequest
}

// UserRepository defines persistence operations for identity records.
// Email and username uniqueness are enforced by the store; violations come
// back as domain.ErrEmailTaken / domain.ErrUsernameTaken.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindOwned returns the user only when it was created by createdBy and
	// has the given role; otherwise domain.ErrUserNotFound.
	FindOwned(ctx context.Context, id, createdBy string, role domain.Role) (*domain.User, error)
	// EmailExists matches case-insensitively and ignores the user excludeID.
	EmailExists(ctx context.Context, email, excludeID string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, filter UserFilter) ([]*domain.User, int64, error)
	CountByCreator(ctx context.Context, createdBy string, role domain.Role) (int64, error)
	CountByPosition(ctx context.Context, positionID string) (int64, error)
}

// EmployeeAccountRepository persists lockout state for employee users.
type EmployeeAccountRepository interface {
	Create(ctx context.Context, a *domain.EmployeeAccount) error
	// FindByUserID returns domain.ErrAccountNotFound when no row exists.
	FindByUserID(ctx context.Context, userID string) (*domain.EmployeeAccount, error)
	// Save upserts by user id.
	Save(ctx context.Context, a *domain.EmployeeAccount) error
}
