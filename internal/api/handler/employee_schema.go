package handler

import (
	"time"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
	"github.com/IvanBritz/Aidpoint1/internal/core/ports"
)

type createEmployeeRequest struct {
	Name       string   `json:"name"        validate:"required,max=255"`
	Email      string   `json:"email"       validate:"required,email,max=255"`
	Username   string   `json:"username"    validate:"omitempty,min=3,max=255"`
	Password   string   `json:"password"    validate:"required,min=8"`
	PositionID string   `json:"position_id"`
	Phone      string   `json:"phone"       validate:"max=20"`
	Address    string   `json:"address"`
	Privileges []string `json:"privileges"  validate:"dive,required"`
}

func (r createEmployeeRequest) toInput() ports.CreateEmployeeInput {
	return ports.CreateEmployeeInput{
		Name:       r.Name,
		Email:      r.Email,
		Username:   r.Username,
		Password:   r.Password,
		PositionID: r.PositionID,
		Phone:      r.Phone,
		Address:    r.Address,
		Privileges: r.Privileges,
	}
}

// updateEmployeeRequest is partial: absent fields keep their value.
type updateEmployeeRequest struct {
	Name       *string   `json:"name"        validate:"omitempty,min=1,max=255"`
	Email      *string   `json:"email"       validate:"omitempty,email,max=255"`
	Username   *string   `json:"username"    validate:"omitempty,min=3,max=255"`
	Password   *string   `json:"password"    validate:"omitempty,min=8"`
	PositionID *string   `json:"position_id"`
	Phone      *string   `json:"phone"       validate:"omitempty,max=20"`
	Address    *string   `json:"address"`
	Status     *string   `json:"status"      validate:"omitempty,oneof=active inactive suspended"`
	Privileges *[]string `json:"privileges"  validate:"omitempty,dive,required"`
}

func (r updateEmployeeRequest) toInput() ports.UpdateEmployeeInput {
	in := ports.UpdateEmployeeInput{
		Name:       r.Name,
		Email:      r.Email,
		Username:   r.Username,
		Password:   r.Password,
		PositionID: r.PositionID,
		Phone:      r.Phone,
		Address:    r.Address,
		Privileges: r.Privileges,
	}
	if r.Status != nil {
		status := domain.UserStatus(*r.Status)
		in.Status = &status
	}
	return in
}

type grantPrivilegeRequest struct {
	Privilege string `json:"privilege" validate:"required"`
}

// employeeResponse shows the effective privilege names in place of the
// legacy inline list.
type employeeResponse struct {
	*domain.User
	Privileges []string                `json:"privileges"`
	Account    *domain.EmployeeAccount `json:"account,omitempty"`
	IsLocked   bool                    `json:"is_locked"`
}

func toEmployeeResponse(d *ports.EmployeeDetail, now time.Time) employeeResponse {
	privileges := d.Privileges
	if privileges == nil {
		privileges = []string{}
	}
	return employeeResponse{
		User:       d.User,
		Privileges: privileges,
		Account:    d.Account,
		IsLocked:   d.Account != nil && d.Account.IsLocked(now),
	}
}
