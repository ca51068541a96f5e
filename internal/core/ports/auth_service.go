package ports

import (
	"context"
	"time"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer to AuthService.
type RegisterInput struct {
	Name                 string
	Email                string
	Password             string
	Role                 domain.Role
	Phone                string
	Address              string
	BeneficiaryProfileID string // required when Role is beneficiary
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token              string
	ExpiresAt          time.Time
	User               *domain.User
	Subscription       *domain.Subscription // trial issued at registration, if any
	MustChangePassword bool
}

// Profile is the authenticated caller's own view.
type Profile struct {
	User         *domain.User
	Privileges   []string
	Subscription *domain.Subscription
	Beneficiary  *domain.Beneficiary
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Authenticate resolves a bearer token to its live session and user.
	Authenticate(ctx context.Context, token string) (*domain.User, *Session, error)
	ChangePassword(ctx context.Context, u *domain.User, current, next string) error
	Logout(ctx context.Context, sessionID string) error
	Me(ctx context.Context, u *domain.User) (*Profile, error)
}
