package ports

import (
	"context"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
)

// EntitlementChecker gates quantity-limited creation by the owner's plan.
type EntitlementChecker interface {
	HasActiveSubscription(ctx context.Context, owner *domain.User) (bool, error)
	// CurrentPlan returns nil, nil when the owner has no active subscription.
	CurrentPlan(ctx context.Context, owner *domain.User) (*domain.Plan, error)
	// CheckQuota returns a *domain.EntitlementError when one more r may not
	// be created by owner.
	CheckQuota(ctx context.Context, owner *domain.User, r domain.Resource) error
}
