package domain

import "time"

type AccountStatus string

const (
	AccountActive AccountStatus = "Active"
	AccountLocked AccountStatus = "Locked"
)

const (
	DefaultMaxFailedLogins = 5
	DefaultLockoutDuration = 30 * time.Minute
)

// LockoutPolicy parameterises the employee lockout state machine.
type LockoutPolicy struct {
	MaxFailedLogins int
	LockoutDuration time.Duration
}

func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{MaxFailedLogins: DefaultMaxFailedLogins, LockoutDuration: DefaultLockoutDuration}
}

// EmployeeAccount tracks login security for an employee user.
//
// IsLocked is computed: the status flag alone, or a lock timer still in the
// future, both count as locked.
type EmployeeAccount struct {
	ID                  string        `json:"id"`
	UserID              string        `json:"user_id"`
	Status              AccountStatus `json:"account_status"`
	FailedLoginAttempts int           `json:"failed_login_attempts"`
	LockedUntil         *time.Time    `json:"locked_until,omitempty"`
	LastLogin           *time.Time    `json:"last_login,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

// NewEmployeeAccount returns a fresh Active account for userID.
func NewEmployeeAccount(userID string, now time.Time) *EmployeeAccount {
	return &EmployeeAccount{
		UserID:    userID,
		Status:    AccountActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (a *EmployeeAccount) IsLocked(now time.Time) bool {
	return a.Status == AccountLocked || (a.LockedUntil != nil && a.LockedUntil.After(now))
}

// Stale reports a Locked flag whose timer has already run out.
func (a *EmployeeAccount) Stale(now time.Time) bool {
	return a.Status == AccountLocked && a.LockedUntil != nil && !a.LockedUntil.After(now)
}

// HealIfExpired clears a stale lock. It reports whether anything changed.
func (a *EmployeeAccount) HealIfExpired(now time.Time) bool {
	if !a.Stale(now) {
		return false
	}
	a.Unlock(now)
	return true
}

// RecordFailure counts a failed login and locks the account once the
// policy's threshold is reached. It reports whether this call locked it.
func (a *EmployeeAccount) RecordFailure(p LockoutPolicy, now time.Time) bool {
	a.FailedLoginAttempts++
	a.UpdatedAt = now
	if a.FailedLoginAttempts < p.MaxFailedLogins {
		return false
	}
	until := now.Add(p.LockoutDuration)
	a.Status = AccountLocked
	a.LockedUntil = &until
	return true
}

// RecordSuccess resets the counter and stamps the login time.
func (a *EmployeeAccount) RecordSuccess(now time.Time) {
	a.FailedLoginAttempts = 0
	a.LastLogin = &now
	a.UpdatedAt = now
}

// Unlock clears the lock regardless of the timer.
func (a *EmployeeAccount) Unlock(now time.Time) {
	a.Status = AccountActive
	a.LockedUntil = nil
	a.FailedLoginAttempts = 0
	a.UpdatedAt = now
}
