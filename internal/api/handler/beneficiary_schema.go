package handler

import (
	"time"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
	"github.com/IvanBritz/Aidpoint1/internal/core/ports"
)

const dateLayout = "2006-01-02"

type beneficiaryRequest struct {
	FirstName             string         `json:"first_name"              validate:"required,max=255"`
	LastName              string         `json:"last_name"               validate:"required,max=255"`
	Email                 string         `json:"email"                   validate:"required,email,max=255"`
	Phone                 string         `json:"phone"                   validate:"max=20"`
	Address               string         `json:"address"`
	DateOfBirth           string         `json:"date_of_birth"           validate:"omitempty,datetime=2006-01-02"`
	Gender                string         `json:"gender"                  validate:"omitempty,oneof=male female other"`
	NationalID            string         `json:"national_id"             validate:"max=50"`
	EmergencyContactName  string         `json:"emergency_contact_name"  validate:"max=255"`
	EmergencyContactPhone string         `json:"emergency_contact_phone" validate:"max=20"`
	FinancialInfo         map[string]any `json:"financial_info"`
	Notes                 string         `json:"notes"`
}

func (r beneficiaryRequest) toInput() ports.BeneficiaryInput {
	return ports.BeneficiaryInput{
		FirstName:             r.FirstName,
		LastName:              r.LastName,
		Email:                 r.Email,
		Phone:                 r.Phone,
		Address:               r.Address,
		DateOfBirth:           parseDate(r.DateOfBirth),
		Gender:                r.Gender,
		NationalID:            r.NationalID,
		EmergencyContactName:  r.EmergencyContactName,
		EmergencyContactPhone: r.EmergencyContactPhone,
		FinancialInfo:         r.FinancialInfo,
		Notes:                 r.Notes,
	}
}

type updateBeneficiaryRequest struct {
	FirstName             *string        `json:"first_name"              validate:"omitempty,min=1,max=255"`
	LastName              *string        `json:"last_name"               validate:"omitempty,min=1,max=255"`
	Email                 *string        `json:"email"                   validate:"omitempty,email,max=255"`
	Phone                 *string        `json:"phone"                   validate:"omitempty,max=20"`
	Address               *string        `json:"address"`
	DateOfBirth           *string        `json:"date_of_birth"           validate:"omitempty,datetime=2006-01-02"`
	Gender                *string        `json:"gender"                  validate:"omitempty,oneof=male female other"`
	NationalID            *string        `json:"national_id"             validate:"omitempty,max=50"`
	EmergencyContactName  *string        `json:"emergency_contact_name"  validate:"omitempty,max=255"`
	EmergencyContactPhone *string        `json:"emergency_contact_phone" validate:"omitempty,max=20"`
	FinancialInfo         map[string]any `json:"financial_info"`
	Status                *string        `json:"status"                  validate:"omitempty,oneof=pending active inactive suspended"`
	Notes                 *string        `json:"notes"`
}

func (r updateBeneficiaryRequest) toInput() ports.UpdateBeneficiaryInput {
	in := ports.UpdateBeneficiaryInput{
		FirstName:             r.FirstName,
		LastName:              r.LastName,
		Email:                 r.Email,
		Phone:                 r.Phone,
		Address:               r.Address,
		Gender:                r.Gender,
		NationalID:            r.NationalID,
		EmergencyContactName:  r.EmergencyContactName,
		EmergencyContactPhone: r.EmergencyContactPhone,
		FinancialInfo:         r.FinancialInfo,
		Notes:                 r.Notes,
	}
	if r.DateOfBirth != nil {
		in.DateOfBirth = parseDate(*r.DateOfBirth)
	}
	if r.Status != nil {
		status := domain.BeneficiaryStatus(*r.Status)
		in.Status = &status
	}
	return in
}

// myProfileRequest is the subset a beneficiary may change on their own
// profile. Anything else in the body is ignored.
type myProfileRequest struct {
	Phone                 *string        `json:"phone"                   validate:"omitempty,max=20"`
	Address               *string        `json:"address"`
	EmergencyContactName  *string        `json:"emergency_contact_name"  validate:"omitempty,max=255"`
	EmergencyContactPhone *string        `json:"emergency_contact_phone" validate:"omitempty,max=20"`
	FinancialInfo         map[string]any `json:"financial_info"`
}

func (r myProfileRequest) toInput() ports.MyProfileInput {
	return ports.MyProfileInput{
		Phone:                 r.Phone,
		Address:               r.Address,
		EmergencyContactName:  r.EmergencyContactName,
		EmergencyContactPhone: r.EmergencyContactPhone,
		FinancialInfo:         r.FinancialInfo,
	}
}

// parseDate expects a value already checked by the datetime validator.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
