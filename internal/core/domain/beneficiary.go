package domain

import "time"

type BeneficiaryStatus string

const (
	BeneficiaryPending   BeneficiaryStatus = "pending"
	BeneficiaryActive    BeneficiaryStatus = "active"
	BeneficiaryInactive  BeneficiaryStatus = "inactive"
	BeneficiarySuspended BeneficiaryStatus = "suspended"
)

// Valid reports whether s is a known status. A director may set any of them
// directly; pending is only the initial value.
func (s BeneficiaryStatus) Valid() bool {
	switch s {
	case BeneficiaryPending, BeneficiaryActive, BeneficiaryInactive, BeneficiarySuspended:
		return true
	}
	return false
}

// FinancialInfo is free-form household data declared by or for the
// beneficiary (income, household size, employment).
type FinancialInfo map[string]any

// Beneficiary is an aid recipient profile. It is distinct from a login; UserID
// is set once the person registers with a matching email.
type Beneficiary struct {
	ID                    string            `json:"id"`
	UserID                string            `json:"user_id,omitempty"`
	CreatedBy             string            `json:"created_by"`
	FirstName             string            `json:"first_name"`
	LastName              string            `json:"last_name"`
	Email                 string            `json:"email"`
	Phone                 string            `json:"phone,omitempty"`
	Address               string            `json:"address,omitempty"`
	DateOfBirth           *time.Time        `json:"date_of_birth,omitempty"`
	Gender                string            `json:"gender,omitempty"`
	NationalID            string            `json:"national_id,omitempty"`
	EmergencyContactName  string            `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string            `json:"emergency_contact_phone,omitempty"`
	FinancialInfo         FinancialInfo     `json:"financial_info,omitempty"`
	Status                BeneficiaryStatus `json:"status"`
	Notes                 string            `json:"notes,omitempty"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}

func (b *Beneficiary) FullName() string { return b.FirstName + " " + b.LastName }

// Claimed reports whether a login account is already linked.
func (b *Beneficiary) Claimed() bool { return b.UserID != "" }
