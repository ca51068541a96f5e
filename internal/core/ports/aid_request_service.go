package ports

import (
	"context"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
)

type CreateAidRequestInput struct {
	BeneficiaryID string
	RequestType   string
	Amount        float64
	Description   string
	Priority      domain.AidPriority
}

type ListAidRequestsInput struct {
	Status        domain.AidRequestStatus
	BeneficiaryID string
	Page          PageRequest
}

// AidRequestService handles aid requests within the caller's tenant.
// Privilege gates are applied at the route.
type AidRequestService interface {
	List(ctx context.Context, actor *domain.User, in ListAidRequestsInput) (*ListResult[*domain.AidRequest], error)
	Create(ctx context.Context, actor *domain.User, in CreateAidRequestInput) (*domain.AidRequest, error)
	Get(ctx context.Context, actor *domain.User, id string) (*domain.AidRequest, error)
	Approve(ctx context.Context, actor *domain.User, id string) (*domain.AidRequest, error)
	Reject(ctx context.Context, actor *domain.User, id, reason string) (*domain.AidRequest, error)
}
