package ports

import (
	"context"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
)

type PlanService interface {
	ListActive(ctx context.Context) ([]*domain.Plan, error)
	Seed(ctx context.Context, plans []*domain.Plan) error
}

type SubscriptionService interface {
	List(ctx context.Context, owner *domain.User) ([]*domain.Subscription, error)
	Current(ctx context.Context, owner *domain.User) (*domain.Subscription, error)
	// Subscribe cancels the owner's current active subscription, if any, and
	// starts a new one on planID.
	Subscribe(ctx context.Context, owner *domain.User, planID string) (*domain.Subscription, error)
	Cancel(ctx context.Context, owner *domain.User, id string) (*domain.Subscription, error)
	Extend(ctx context.Context, owner *domain.User, id string, days int) (*domain.Subscription, error)
}
