package ports

import (
	"context"
	"time"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
)

type BeneficiaryInput struct {
	FirstName             string
	LastName              string
	Email                 string
	Phone                 string
	Address               string
	DateOfBirth           *time.Time
	Gender                string
	NationalID            string
	EmergencyContactName  string
	EmergencyContactPhone string
	FinancialInfo         domain.FinancialInfo
	Notes                 string
}

// UpdateBeneficiaryInput is a partial update; nil fields are left untouched.
type UpdateBeneficiaryInput struct {
	FirstName             *string
	LastName              *string
	Email                 *string
	Phone                 *string
	Address               *string
	DateOfBirth           *time.Time
	Gender                *string
	NationalID            *string
	EmergencyContactName  *string
	EmergencyContactPhone *string
	FinancialInfo         domain.FinancialInfo
	Status                *domain.BeneficiaryStatus
	Notes                 *string
}

// MyProfileInput is the subset a beneficiary may edit on their own profile.
type MyProfileInput struct {
	Phone                 *string
	Address               *string
	EmergencyContactName  *string
	EmergencyContactPhone *string
	FinancialInfo         domain.FinancialInfo
}

type ListBeneficiariesInput struct {
	Status domain.BeneficiaryStatus
	Search string
	Page   PageRequest
}

type BeneficiaryService interface {
	List(ctx context.Context, actor *domain.User, in ListBeneficiariesInput) (*ListResult[*domain.Beneficiary], error)
	Create(ctx context.Context, actor *domain.User, in BeneficiaryInput) (*domain.Beneficiary, error)
	Get(ctx context.Context, actor *domain.User, id string) (*domain.Beneficiary, error)
	Update(ctx context.Context, actor *domain.User, id string, in UpdateBeneficiaryInput) (*domain.Beneficiary, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
	MyProfile(ctx context.Context, u *domain.User) (*domain.Beneficiary, error)
	UpdateMyProfile(ctx context.Context, u *domain.User, in MyProfileInput) (*domain.Beneficiary, error)
}
