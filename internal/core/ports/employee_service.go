package ports

import (
	"context"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
)

type CreateEmployeeInput struct {
	Name       string
	Email      string
	Username   string // generated when empty
	Password   string
	PositionID string
	Phone      string
	Address    string
	Privileges []string
}

// UpdateEmployeeInput is a partial update; nil fields are left untouched.
type UpdateEmployeeInput struct {
	Name       *string
	Email      *string
	Username   *string
	Password   *string
	PositionID *string
	Phone      *string
	Address    *string
	Status     *domain.UserStatus
	Privileges *[]string // replaces the relational grants when set
}

type ListEmployeesInput struct {
	Status domain.UserStatus
	Search string
	Page   PageRequest
}

// EmployeeDetail is an employee with its effective privileges and lockout
// state.
type EmployeeDetail struct {
	User       *domain.User
	Privileges []string
	Account    *domain.EmployeeAccount
}

type EmployeeService interface {
	List(ctx context.Context, actor *domain.User, in ListEmployeesInput) (*ListResult[*domain.User], error)
	Create(ctx context.Context, actor *domain.User, in CreateEmployeeInput) (*EmployeeDetail, error)
	Get(ctx context.Context, actor *domain.User, id string) (*EmployeeDetail, error)
	Update(ctx context.Context, actor *domain.User, id string, in UpdateEmployeeInput) (*EmployeeDetail, error)
	Deactivate(ctx context.Context, actor *domain.User, id string) error
	GrantPrivilege(ctx context.Context, actor *domain.User, id, name string) (*EmployeeDetail, error)
	RevokePrivilege(ctx context.Context, actor *domain.User, id, name string) (*EmployeeDetail, error)
	Unlock(ctx context.Context, actor *domain.User, id string) (*EmployeeDetail, error)
}
