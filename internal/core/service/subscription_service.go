package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
	"github.com/IvanBritz/Aidpoint1/internal/core/ports"
)

type PlanService struct {
	repo   ports.PlanRepository
	now    func() time.Time
	logger zerolog.Logger
}

func NewPlanService(repo ports.PlanRepository, logger zerolog.Logger) *PlanService {
	return &PlanService{repo: repo, now: func() time.Time { return time.Now().UTC() }, logger: logger}
}

func (s *PlanService) ListActive(ctx context.Context) ([]*domain.Plan, error) {
	plans, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

// Seed upserts plans by name.
func (s *PlanService) Seed(ctx context.Context, plans []*domain.Plan) error {
	now := s.now()
	for _, p := range plans {
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.UpdatedAt = now
		if err := s.repo.Upsert(ctx, p); err != nil {
			return fmt.Errorf("seed plan %q: %w", p.Name, err)
		}
	}
	s.logger.Info().Int("count", len(plans)).Msg("plans seeded")
	return nil
}

// SubscriptionService lets a project director manage its own subscriptions.
type SubscriptionService struct {
	subs   ports.SubscriptionRepository
	plans  ports.PlanRepository
	tx     ports.Transactor
	now    func() time.Time
	logger zerolog.Logger
}

func NewSubscriptionService(subs ports.SubscriptionRepository, plans ports.PlanRepository, tx ports.Transactor, logger zerolog.Logger) *SubscriptionService {
	return &SubscriptionService{subs: subs, plans: plans, tx: tx, now: func() time.Time { return time.Now().UTC() }, logger: logger}
}

func (s *SubscriptionService) List(ctx context.Context, owner *domain.User) ([]*domain.Subscription, error) {
	if err := requireDirector(owner); err != nil {
		return nil, err
	}
	subs, err := s.subs.ListByUser(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subs, nil
}

func (s *SubscriptionService) Current(ctx context.Context, owner *domain.User) (*domain.Subscription, error) {
	if err := requireDirector(owner); err != nil {
		return nil, err
	}
	sub, err := s.subs.FindActiveByUser(ctx, owner.ID)
	return s.withPlan(ctx, sub, err)
}

// Subscribe keeps at most one active subscription per owner: the current
// one is cancelled in the same transaction that creates the new one.
func (s *SubscriptionService) Subscribe(ctx context.Context, owner *domain.User, planID string) (*domain.Subscription, error) {
	if err := requireDirector(owner); err != nil {
		return nil, err
	}
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, domain.ErrPlanNotFound
	}

	now := s.now()
	sub := domain.NewPaidSubscription(owner.ID, plan, now)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.subs.FindActiveByUser(ctx, owner.ID)
		switch {
		case err == nil:
			if err := current.Cancel(now); err != nil {
				return err
			}
			if err := s.subs.Update(ctx, current); err != nil {
				return fmt.Errorf("cancel current subscription: %w", err)
			}
		case !errors.Is(err, domain.ErrSubscriptionNotFound):
			return fmt.Errorf("find active subscription: %w", err)
		}
		if err := s.subs.Create(ctx, sub); err != nil {
			return fmt.Errorf("create subscription: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", owner.ID).Str("plan", plan.Name).Msg("subscribed")
	return sub, nil
}

func (s *SubscriptionService) Cancel(ctx context.Context, owner *domain.User, id string) (*domain.Subscription, error) {
	if err := requireDirector(owner); err != nil {
		return nil, err
	}
	sub, err := s.subs.FindOwned(ctx, id, owner.ID)
	if err != nil {
		return nil, err
	}
	if err := sub.Cancel(s.now()); err != nil {
		return nil, err
	}
	if err := s.subs.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("cancel subscription: %w", err)
	}
	return s.withPlan(ctx, sub, nil)
}

func (s *SubscriptionService) Extend(ctx context.Context, owner *domain.User, id string, days int) (*domain.Subscription, error) {
	if err := requireDirector(owner); err != nil {
		return nil, err
	}
	if days <= 0 {
		return nil, domain.NewFieldError("days", "days must be greater than 0")
	}
	sub, err := s.subs.FindOwned(ctx, id, owner.ID)
	if err != nil {
		return nil, err
	}
	if err := sub.Extend(days, s.now()); err != nil {
		return nil, err
	}
	if err := s.subs.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("extend subscription: %w", err)
	}
	return s.withPlan(ctx, sub, nil)
}

func (s *SubscriptionService) withPlan(ctx context.Context, sub *domain.Subscription, err error) (*domain.Subscription, error) {
	if err != nil {
		return nil, err
	}
	if sub.Plan == nil {
		plan, err := s.plans.FindByID(ctx, sub.PlanID)
		if err != nil && !errors.Is(err, domain.ErrPlanNotFound) {
			return nil, fmt.Errorf("load plan: %w", err)
		}
		sub.Plan = plan
	}
	return sub, nil
}
