package domain

import (
	"math"
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionPending   SubscriptionStatus = "pending"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// Subscription binds a project director to a plan for a date range.
type Subscription struct {
	ID            string             `json:"id"`
	UserID        string             `json:"user_id"`
	PlanID        string             `json:"plan_id"`
	Plan          *Plan              `json:"plan,omitempty"`
	Status        SubscriptionStatus `json:"status"`
	StartDate     time.Time          `json:"start_date"`
	EndDate       time.Time          `json:"end_date"`
	IsTrial       bool               `json:"is_trial"`
	TrialEndsAt   *time.Time         `json:"trial_ends_at,omitempty"`
	PaymentStatus PaymentStatus      `json:"payment_status"`
	AmountPaid    float64            `json:"amount_paid"`
	CancelledAt   *time.Time         `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// NewTrialSubscription builds the subscription issued at director
// registration.
func NewTrialSubscription(userID string, plan *Plan, days int, now time.Time) *Subscription {
	end := now.AddDate(0, 0, days)
	return &Subscription{
		UserID:        userID,
		PlanID:        plan.ID,
		Plan:          plan,
		Status:        SubscriptionActive,
		StartDate:     now,
		EndDate:       end,
		IsTrial:       true,
		TrialEndsAt:   &end,
		PaymentStatus: PaymentPending,
		AmountPaid:    0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// NewPaidSubscription builds a subscription for plan starting now.
func NewPaidSubscription(userID string, plan *Plan, now time.Time) *Subscription {
	return &Subscription{
		UserID:        userID,
		PlanID:        plan.ID,
		Plan:          plan,
		Status:        SubscriptionActive,
		StartDate:     now,
		EndDate:       now.AddDate(0, 0, plan.DurationDays),
		PaymentStatus: PaymentPaid,
		AmountPaid:    plan.Price,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsActive reports whether the subscription is active and not past its end.
func (s *Subscription) IsActive(now time.Time) bool {
	return s.Status == SubscriptionActive && s.EndDate.After(now)
}

func (s *Subscription) IsInTrial(now time.Time) bool {
	return s.IsTrial && s.TrialEndsAt != nil && s.TrialEndsAt.After(now)
}

// DaysRemaining is the number of started days left, never negative.
func (s *Subscription) DaysRemaining(now time.Time) int {
	if !s.IsActive(now) {
		return 0
	}
	return int(math.Ceil(s.EndDate.Sub(now).Hours() / 24))
}

// Cancel moves an active subscription to cancelled.
func (s *Subscription) Cancel(now time.Time) error {
	if s.Status != SubscriptionActive {
		return ErrSubscriptionInactive
	}
	s.Status = SubscriptionCancelled
	s.CancelledAt = &now
	s.UpdatedAt = now
	return nil
}

// Extend pushes the end date out by days. Expiry is derived from EndDate, so a
// lapsed subscription becomes active again once the new end is in the future.
func (s *Subscription) Extend(days int, now time.Time) error {
	if s.Status == SubscriptionCancelled {
		return ErrSubscriptionInactive
	}
	s.EndDate = s.EndDate.AddDate(0, 0, days)
	s.UpdatedAt = now
	return nil
}
