package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
	"github.com/IvanBritz/Aidpoint1/internal/core/ports"
)

// EntitlementPolicy decides, per resource, whether a missing active
// subscription blocks creation or is only logged.
type EntitlementPolicy struct {
	SubscriptionRequired map[domain.Resource]bool
}

// DefaultEntitlementPolicy blocks beneficiaries and lets employees through.
func DefaultEntitlementPolicy() EntitlementPolicy {
	return EntitlementPolicy{SubscriptionRequired: map[domain.Resource]bool{
		domain.ResourceBeneficiaries: true,
		domain.ResourceEmployees:     false,
	}}
}

type EntitlementService struct {
	subs          ports.SubscriptionRepository
	plans         ports.PlanRepository
	users         ports.UserRepository
	beneficiaries ports.BeneficiaryRepository
	policy        EntitlementPolicy
	logger        zerolog.Logger
}

func NewEntitlementService(
	subs ports.SubscriptionRepository,
	plans ports.PlanRepository,
	users ports.UserRepository,
	beneficiaries ports.BeneficiaryRepository,
	policy EntitlementPolicy,
	logger zerolog.Logger,
) *EntitlementService {
	return &EntitlementService{
		subs:          subs,
		plans:         plans,
		users:         users,
		beneficiaries: beneficiaries,
		policy:        policy,
		logger:        logger,
	}
}

func (s *EntitlementService) HasActiveSubscription(ctx context.Context, owner *domain.User) (bool, error) {
	_, err := s.subs.FindActiveByUser(ctx, owner.ID)
	if errors.Is(err, domain.ErrSubscriptionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find active subscription: %w", err)
	}
	return true, nil
}

func (s *EntitlementService) CurrentPlan(ctx context.Context, owner *domain.User) (*domain.Plan, error) {
	sub, err := s.subs.FindActiveByUser(ctx, owner.ID)
	if errors.Is(err, domain.ErrSubscriptionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active subscription: %w", err)
	}
	return s.planFor(ctx, sub)
}

// CheckQuota applies the subscription policy for r and then the plan cap.
// A cap of zero never blocks.
func (s *EntitlementService) CheckQuota(ctx context.Context, owner *domain.User, r domain.Resource) error {
	plan, err := s.CurrentPlan(ctx, owner)
	if err != nil {
		return err
	}
	if plan == nil {
		if s.policy.SubscriptionRequired[r] {
			return &domain.EntitlementError{Resource: r, Reason: domain.ErrSubscriptionRequired}
		}
		s.logger.Warn().Str("user_id", owner.ID).Str("resource", string(r)).Msg("creating without active subscription")
		return nil
	}

	limit := plan.LimitFor(r)
	if limit == domain.Unlimited {
		return nil
	}

	count, err := s.count(ctx, owner, r)
	if err != nil {
		return err
	}
	if plan.Allows(r, count) {
		return nil
	}
	return &domain.EntitlementError{Resource: r, Limit: limit, Reason: limitReached(r)}
}

func (s *EntitlementService) count(ctx context.Context, owner *domain.User, r domain.Resource) (int64, error) {
	switch r {
	case domain.ResourceBeneficiaries:
		n, err := s.beneficiaries.CountByCreator(ctx, owner.ID)
		if err != nil {
			return 0, fmt.Errorf("count beneficiaries: %w", err)
		}
		return n, nil
	case domain.ResourceEmployees:
		n, err := s.users.CountByCreator(ctx, owner.ID, domain.RoleEmployee)
		if err != nil {
			return 0, fmt.Errorf("count employees: %w", err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("unknown resource %q", r)
}

func (s *EntitlementService) planFor(ctx context.Context, sub *domain.Subscription) (*domain.Plan, error) {
	if sub.Plan != nil {
		return sub.Plan, nil
	}
	plan, err := s.plans.FindByID(ctx, sub.PlanID)
	if err != nil {
		return nil, fmt.Errorf("load plan %s: %w", sub.PlanID, err)
	}
	return plan, nil
}

func limitReached(r domain.Resource) error {
	if r == domain.ResourceEmployees {
		return domain.ErrEmployeeLimitReached
	}
	return domain.ErrBeneficiaryLimitReached
}
