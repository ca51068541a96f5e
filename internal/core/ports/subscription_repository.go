package ports

import (
	"context"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
)

type PlanRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Plan, error)
	FindByName(ctx context.Context, name string) (*domain.Plan, error)
	// ListActive returns active plans ordered by price ascending.
	ListActive(ctx context.Context) ([]*domain.Plan, error)
	Upsert(ctx context.Context, p *domain.Plan) error
}

type SubscriptionRepository interface {
	Create(ctx context.Context, s *domain.Subscription) error
	Update(ctx context.Context, s *domain.Subscription) error
	// FindActiveByUser returns the newest subscription with status active,
	// or domain.ErrSubscriptionNotFound.
	FindActiveByUser(ctx context.Context, userID string) (*domain.Subscription, error)
	FindOwned(ctx context.Context, id, userID string) (*domain.Subscription, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Subscription, error)
}
