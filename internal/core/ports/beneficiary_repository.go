package ports

import (
	"context"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
)

// BeneficiaryFilter scopes a profile listing to one creator.
type BeneficiaryFilter struct {
	CreatedBy string
	Status    domain.BeneficiaryStatus
	Search    string
	Page      PageRequest
}

// BeneficiaryRepository persists beneficiary profiles. Email is unique
// across profiles; a violation returns domain.ErrBeneficiaryEmailTaken.
type BeneficiaryRepository interface {
	Create(ctx context.Context, b *domain.Beneficiary) error
	Update(ctx context.Context, b *domain.Beneficiary) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Beneficiary, error)
	FindOwned(ctx context.Context, id, createdBy string) (*domain.Beneficiary, error)
	FindByUserID(ctx context.Context, userID string) (*domain.Beneficiary, error)
	EmailExists(ctx context.Context, email, excludeID string) (bool, error)
	List(ctx context.Context, filter BeneficiaryFilter) ([]*domain.Beneficiary, int64, error)
	CountByCreator(ctx context.Context, createdBy string) (int64, error)
}
