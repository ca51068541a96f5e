package domain

import "time"

// Role is fixed at account creation; no endpoint changes it.
type Role string

const (
	RoleProjectDirector Role = "project_director"
	RoleEmployee        Role = "employee"
	RoleBeneficiary     Role = "beneficiary"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleProjectDirector, RoleEmployee, RoleBeneficiary:
		return true
	}
	return false
}

// UserStatus is the account status. Accounts are never hard-deleted;
// deactivation flips the status to inactive.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

// Valid reports whether s is a known user status.
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusActive, UserStatusInactive, UserStatusSuspended:
		return true
	}
	return false
}

// User models an authenticated actor in the system.
//
// CreatedBy and OrganizationID are self references. A project director is
// the root of its own tree and carries neither; employees and beneficiaries
// point at the director that owns them.
type User struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Username           string     `json:"username,omitempty"`
	PasswordHash       string     `json:"-"`
	Role               Role       `json:"role"`
	Status             UserStatus `json:"status"`
	Phone              string     `json:"phone,omitempty"`
	Address            string     `json:"address,omitempty"`
	PositionID         string     `json:"position_id,omitempty"`
	CreatedBy          string     `json:"created_by,omitempty"`
	OrganizationID     string     `json:"organization_id,omitempty"`
	InlinePrivileges   []string   `json:"privileges"`
	MustChangePassword bool       `json:"must_change_password"`
	PasswordChangedAt  *time.Time `json:"password_changed_at,omitempty"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (u *User) IsProjectDirector() bool { return u != nil && u.Role == RoleProjectDirector }

func (u *User) IsEmployee() bool { return u != nil && u.Role == RoleEmployee }

func (u *User) IsBeneficiary() bool { return u != nil && u.Role == RoleBeneficiary }

func (u *User) IsActive() bool { return u != nil && u.Status == UserStatusActive }

// TenantID returns the id of the project director whose tree the user
// belongs to. Legacy employees without an organization fall back to their
// creator.
func (u *User) TenantID() string {
	if u == nil {
		return ""
	}
	if u.IsProjectDirector() {
		return u.ID
	}
	if u.OrganizationID != "" {
		return u.OrganizationID
	}
	return u.CreatedBy
}

// MarkPasswordChanged clears the first-login flag.
func (u *User) MarkPasswordChanged(now time.Time) {
	u.MustChangePassword = false
	u.PasswordChangedAt = &now
	u.UpdatedAt = now
}
