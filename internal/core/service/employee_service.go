package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
	"github.com/IvanBritz/Aidpoint1/internal/core/ports"
)

// grantManager is the slice of the privilege resolver employee management
// writes through.
type grantManager interface {
	ports.PrivilegeService
	ValidateNames(ctx context.Context, names []string) error
	GrantPrivileges(ctx context.Context, u *domain.User, names []string, grantedBy string) error
	SyncGrants(ctx context.Context, u *domain.User, want []string, grantedBy string) error
}

var errInvalidPosition = domain.NewFieldError("position_id", "the selected position is invalid")

// EmployeeService manages the employees of a project director. Every lookup
// is scoped to records the acting director created.
type EmployeeService struct {
	users        ports.UserRepository
	accounts     ports.EmployeeAccountRepository
	positions    ports.PositionRepository
	privileges   grantManager
	entitlements ports.EntitlementChecker
	tx           ports.Transactor
	now          func() time.Time
	logger       zerolog.Logger
}

func NewEmployeeService(
	users ports.UserRepository,
	accounts ports.EmployeeAccountRepository,
	positions ports.PositionRepository,
	privileges grantManager,
	entitlements ports.EntitlementChecker,
	tx ports.Transactor,
	logger zerolog.Logger,
) *EmployeeService {
	return &EmployeeService{
		users:        users,
		accounts:     accounts,
		positions:    positions,
		privileges:   privileges,
		entitlements: entitlements,
		tx:           tx,
		now:          func() time.Time { return time.Now().UTC() },
		logger:       logger,
	}
}

func requireDirector(actor *domain.User) error {
	if !actor.IsProjectDirector() {
		return &domain.RoleError{Allowed: []domain.Role{domain.RoleProjectDirector}}
	}
	return nil
}

func (s *EmployeeService) List(ctx context.Context, actor *domain.User, in ports.ListEmployeesInput) (*ports.ListResult[*domain.User], error) {
	if err := requireDirector(actor); err != nil {
		return nil, err
	}
	page := in.Page.Normalize()
	items, total, err := s.users.List(ctx, ports.UserFilter{
		CreatedBy: actor.ID,
		Role:      domain.RoleEmployee,
		Status:    in.Status,
		Search:    in.Search,
		Page:      page,
	})
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return ports.NewListResult(items, total, page), nil
}

// Create registers a new employee under actor. The user row, its relational
// grants and its lockout row are written in one transaction.
func (s *EmployeeService) Create(ctx context.Context, actor *domain.User, in ports.CreateEmployeeInput) (*ports.EmployeeDetail, error) {
	if err := requireDirector(actor); err != nil {
		return nil, err
	}
	if err := s.entitlements.CheckQuota(ctx, actor, domain.ResourceEmployees); err != nil {
		return nil, err
	}
	if err := s.privileges.ValidateNames(ctx, in.Privileges); err != nil {
		return nil, err
	}
	if err := s.checkPosition(ctx, in.PositionID); err != nil {
		return nil, err
	}

	exists, err := s.users.EmailExists(ctx, in.Email, "")
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	username := in.Username
	if username == "" {
		username, err = GenerateUsername(ctx, in.Name, in.Email, s.users.UsernameExists)
		if err != nil {
			return nil, err
		}
	} else {
		taken, err := s.users.UsernameExists(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if taken {
			return nil, domain.ErrUsernameTaken
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &domain.User{
		Name:               in.Name,
		Email:              in.Email,
		Username:           username,
		PasswordHash:       string(hash),
		Role:               domain.RoleEmployee,
		Status:             domain.UserStatusActive,
		Phone:              in.Phone,
		Address:            in.Address,
		PositionID:         in.PositionID,
		CreatedBy:          actor.ID,
		OrganizationID:     actor.ID,
		InlinePrivileges:   []string{},
		MustChangePassword: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	account := domain.NewEmployeeAccount("", now)

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
		if err := s.privileges.GrantPrivileges(ctx, user, in.Privileges, actor.ID); err != nil {
			return err
		}
		account.UserID = user.ID
		if err := s.accounts.Create(ctx, account); err != nil {
			return fmt.Errorf("create employee account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("employee_id", user.ID).Str("created_by", actor.ID).Str("username", username).Msg("employee created")
	return s.detail(ctx, user, account)
}

func (s *EmployeeService) Get(ctx context.Context, actor *domain.User, id string) (*ports.EmployeeDetail, error) {
	user, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, user, nil)
}

func (s *EmployeeService) Update(ctx context.Context, actor *domain.User, id string, in ports.UpdateEmployeeInput) (*ports.EmployeeDetail, error) {
	user, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Email != nil {
		exists, err := s.users.EmailExists(ctx, *in.Email, user.ID)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if exists {
			return nil, domain.ErrEmailTaken
		}
		user.Email = *in.Email
	}
	if in.Username != nil && *in.Username != user.Username {
		taken, err := s.users.UsernameExists(ctx, *in.Username)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if taken {
			return nil, domain.ErrUsernameTaken
		}
		user.Username = *in.Username
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
		user.MustChangePassword = true
	}
	if in.PositionID != nil {
		if err := s.checkPosition(ctx, *in.PositionID); err != nil {
			return nil, err
		}
		user.PositionID = *in.PositionID
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Address != nil {
		user.Address = *in.Address
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, domain.NewFieldError("status", "status must be one of: active, inactive, suspended")
		}
		user.Status = *in.Status
	}
	user.UpdatedAt = s.now()

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.users.Update(ctx, user); err != nil {
			return err
		}
		if in.Privileges != nil {
			return s.privileges.SyncGrants(ctx, user, *in.Privileges, actor.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, user, nil)
}

// Deactivate flips the employee to inactive. Employees are never removed.
func (s *EmployeeService) Deactivate(ctx context.Context, actor *domain.User, id string) error {
	user, err := s.owned(ctx, actor, id)
	if err != nil {
		return err
	}
	user.Status = domain.UserStatusInactive
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("deactivate employee: %w", err)
	}
	s.logger.Info().Str("employee_id", user.ID).Str("actor_id", actor.ID).Msg("employee deactivated")
	return nil
}

func (s *EmployeeService) GrantPrivilege(ctx context.Context, actor *domain.User, id, name string) (*ports.EmployeeDetail, error) {
	user, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.privileges.GrantPrivilege(ctx, user, name, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrPrivilegeNotFound
	}
	return s.detail(ctx, user, nil)
}

func (s *EmployeeService) RevokePrivilege(ctx context.Context, actor *domain.User, id, name string) (*ports.EmployeeDetail, error) {
	user, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.privileges.RevokePrivilege(ctx, user, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrPrivilegeNotFound
	}
	return s.detail(ctx, user, nil)
}

// Unlock clears the lockout state regardless of the timer.
func (s *EmployeeService) Unlock(ctx context.Context, actor *domain.User, id string) (*ports.EmployeeDetail, error) {
	user, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	account, err := s.accounts.FindByUserID(ctx, user.ID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		account = domain.NewEmployeeAccount(user.ID, now)
	} else if err != nil {
		return nil, fmt.Errorf("find employee account: %w", err)
	}
	account.Unlock(now)
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("save employee account: %w", err)
	}
	s.logger.Info().Str("employee_id", user.ID).Str("actor_id", actor.ID).Msg("employee account unlocked")
	return s.detail(ctx, user, account)
}

func (s *EmployeeService) owned(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	if err := requireDirector(actor); err != nil {
		return nil, err
	}
	user, err := s.users.FindOwned(ctx, id, actor.ID, domain.RoleEmployee)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return user, nil
}

func (s *EmployeeService) checkPosition(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	_, err := s.positions.FindByID(ctx, id)
	if errors.Is(err, domain.ErrPositionNotFound) {
		return errInvalidPosition
	}
	if err != nil {
		return fmt.Errorf("find position: %w", err)
	}
	return nil
}

func (s *EmployeeService) detail(ctx context.Context, user *domain.User, account *domain.EmployeeAccount) (*ports.EmployeeDetail, error) {
	names, err := s.privileges.GetPrivilegeNames(ctx, user)
	if err != nil {
		return nil, err
	}
	if account == nil {
		account, err = s.accounts.FindByUserID(ctx, user.ID)
		if errors.Is(err, domain.ErrAccountNotFound) {
			account, err = nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("find employee account: %w", err)
		}
	}
	return &ports.EmployeeDetail{User: user, Privileges: names, Account: account}, nil
}
