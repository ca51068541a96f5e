package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrAccountInactive          = errors.New("account is not active")
	ErrAccountLocked            = errors.New("account is locked")
	ErrUnauthenticated          = errors.New("unauthenticated")
	ErrCurrentPasswordIncorrect = errors.New("current password is incorrect")
	ErrForbidden                = errors.New("access forbidden")

	ErrUserNotFound         = errors.New("user not found")
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrBeneficiaryNotFound  = errors.New("beneficiary not found")
	ErrPositionNotFound     = errors.New("position not found")
	ErrPlanNotFound         = errors.New("plan not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrPrivilegeNotFound    = errors.New("privilege not found")
	ErrAidRequestNotFound   = errors.New("aid request not found")
	ErrAccountNotFound      = errors.New("employee account not found")

	ErrPositionInUse        = errors.New("cannot delete position that is assigned to employees")
	ErrSubscriptionInactive = errors.New("subscription is not active")
	ErrInvalidTransition    = errors.New("invalid status transition")

	ErrSubscriptionRequired    = errors.New("active subscription required")
	ErrBeneficiaryLimitReached = errors.New("beneficiary limit reached for your current plan")
	ErrEmployeeLimitReached    = errors.New("employee limit reached for your current plan")
)

// FieldError is an input or integrity failure attributable to one request
// field. Uniqueness violations surface as FieldErrors on email/username.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

var (
	ErrEmailTaken            = NewFieldError("email", "the email has already been taken")
	ErrUsernameTaken         = NewFieldError("username", "the username has already been taken")
	ErrBeneficiaryEmailTaken = NewFieldError("email", "a beneficiary with this email already exists")
	ErrPositionNameTaken     = NewFieldError("name", "the position name has already been taken")
	ErrProfileIDRequired     = NewFieldError("beneficiary_profile_id", "beneficiary profile id is required for beneficiary registration")
	ErrInvalidProfile        = NewFieldError("beneficiary_profile_id", "invalid beneficiary profile or account already exists")
	ErrProfileEmailMismatch  = NewFieldError("email", "email must match the beneficiary profile email")
	ErrUnknownPrivilege      = NewFieldError("privileges", "one or more privileges do not exist")
)

// PrivilegeMode tells how a set of required privileges is evaluated.
type PrivilegeMode string

const (
	PrivilegeModeSingle PrivilegeMode = "single"
	PrivilegeModeAny    PrivilegeMode = "any"
	PrivilegeModeAll    PrivilegeMode = "all"
)

// PrivilegeError reports a privilege mismatch, naming what was required.
type PrivilegeError struct {
	Required []string
	Mode     PrivilegeMode
}

func (e *PrivilegeError) Error() string {
	return fmt.Sprintf("insufficient privileges: required %s of [%s]", e.Mode, strings.Join(e.Required, ", "))
}

func (e *PrivilegeError) Unwrap() error { return ErrForbidden }

// RoleError reports a role mismatch.
type RoleError struct {
	Allowed []Role
}

func (e *RoleError) Error() string {
	names := make([]string, len(e.Allowed))
	for i, r := range e.Allowed {
		names[i] = string(r)
	}
	return "role not allowed: requires one of [" + strings.Join(names, ", ") + "]"
}

func (e *RoleError) Unwrap() error { return ErrForbidden }

// EntitlementError is returned when a plan limit or a missing subscription
// blocks resource creation. It is kept apart from authorization failures
// even though both render as 403.
type EntitlementError struct {
	Resource Resource
	Limit    int
	Reason   error
}

func (e *EntitlementError) Error() string { return e.Reason.Error() }

func (e *EntitlementError) Unwrap() error { return e.Reason }
