package handler

import (
	"time"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
	"github.com/IvanBritz/Aidpoint1/internal/core/ports"
)

type registerRequest struct {
	Name                 string `json:"name"                   validate:"required,max=255"`
	Email                string `json:"email"                  validate:"required,email,max=255"`
	Password             string `json:"password"               validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation"  validate:"required,eqfield=Password"`
	Role                 string `json:"role"                   validate:"required,oneof=project_director beneficiary"`
	Phone                string `json:"phone"                  validate:"max=20"`
	Address              string `json:"address"`
	BeneficiaryProfileID string `json:"beneficiary_profile_id" validate:"required_if=Role beneficiary"`
}

func (r registerRequest) toInput() ports.RegisterInput {
	return ports.RegisterInput{
		Name:                 r.Name,
		Email:                r.Email,
		Password:             r.Password,
		Role:                 domain.Role(r.Role),
		Phone:                r.Phone,
		Address:              r.Address,
		BeneficiaryProfileID: r.BeneficiaryProfileID,
	}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword         string `json:"current_password"          validate:"required"`
	NewPassword             string `json:"new_password"              validate:"required,min=8,nefield=CurrentPassword"`
	NewPasswordConfirmation string `json:"new_password_confirmation" validate:"required,eqfield=NewPassword"`
}

type authResponse struct {
	Token              string                `json:"token"`
	TokenType          string                `json:"token_type"`
	ExpiresAt          time.Time             `json:"expires_at"`
	User               *domain.User          `json:"user"`
	MustChangePassword bool                  `json:"must_change_password"`
	Subscription       *subscriptionResponse `json:"subscription,omitempty"`
}

func toAuthResponse(res *ports.AuthResult, now time.Time) authResponse {
	return authResponse{
		Token:              res.Token,
		TokenType:          "Bearer",
		ExpiresAt:          res.ExpiresAt,
		User:               res.User,
		MustChangePassword: res.MustChangePassword,
		Subscription:       toSubscriptionResponsePtr(res.Subscription, now),
	}
}

type meResponse struct {
	User         *domain.User          `json:"user"`
	Privileges   []string              `json:"privileges"`
	Subscription *subscriptionResponse `json:"subscription,omitempty"`
	Beneficiary  *domain.Beneficiary   `json:"beneficiary_profile,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}
