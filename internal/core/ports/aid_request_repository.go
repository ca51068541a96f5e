package ports

import (
	"context"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
)

// AidRequestFilter carries the query parameters for listing aid requests.
// TenantID is always enforced by the service layer.
type AidRequestFilter struct {
	TenantID      string
	Status        domain.AidRequestStatus
	BeneficiaryID string
	Page          PageRequest
}

type AidRequestRepository interface {
	Create(ctx context.Context, r *domain.AidRequest) error
	Update(ctx context.Context, r *domain.AidRequest) error
	FindByTenant(ctx context.Context, id, tenantID string) (*domain.AidRequest, error)
	List(ctx context.Context, filter AidRequestFilter) ([]*domain.AidRequest, int64, error)
}
