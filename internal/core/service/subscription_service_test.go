package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
)

func newSubscriptionFixture(t *testing.T) (*memDB, *SubscriptionService, *domain.User) {
	t.Helper()
	db := newMemDB()
	svc := NewSubscriptionService(memSubs{db}, memPlans{db}, db, nopLogger)
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	owner := db.addUser(domain.User{Email: "d@x.io", Role: domain.RoleProjectDirector})
	return db, svc, owner
}

func TestSubscribe_CancelsPrevious(t *testing.T) {
	db, svc, owner := newSubscriptionFixture(t)
	ctx := context.Background()
	basic := db.addPlan("Basic Plan", 50, 5)
	pro := db.addPlan("Professional Plan", 200, 20)

	first, err := svc.Subscribe(ctx, owner, basic.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, first.PaymentStatus)
	assert.Equal(t, basic.Price, first.AmountPaid)
	assert.Equal(t, 30, first.DaysRemaining(svc.now()))

	second, err := svc.Subscribe(ctx, owner, pro.ID)
	require.NoError(t, err)

	current, err := svc.Current(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)
	require.NotNil(t, current.Plan)
	assert.Equal(t, "Professional Plan", current.Plan.Name)

	all, err := svc.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, all, 2)
	var active int
	for _, s := range all {
		if s.Status == domain.SubscriptionActive {
			active++
		}
	}
	assert.Equal(t, 1, active, "only one active subscription per owner")
	assert.Equal(t, domain.SubscriptionCancelled, db.subs[first.ID].Status)
}

func TestSubscribe_RollsBackCancellation(t *testing.T) {
	db, svc, owner := newSubscriptionFixture(t)
	ctx := context.Background()
	plan := db.addPlan("Basic Plan", 50, 5)
	first, err := svc.Subscribe(ctx, owner, plan.ID)
	require.NoError(t, err)

	db.failOn["subs.create"] = true
	_, err = svc.Subscribe(ctx, owner, plan.ID)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, domain.SubscriptionActive, db.subs[first.ID].Status)
}

func TestSubscribe_InactivePlan(t *testing.T) {
	db, svc, owner := newSubscriptionFixture(t)
	plan := db.addPlan("Legacy", 10, 1)
	plan.IsActive = false
	_ = memPlans{db}.Upsert(context.Background(), plan)

	_, err := svc.Subscribe(context.Background(), owner, plan.ID)
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
	_, err = svc.Subscribe(context.Background(), owner, "missing")
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
}

func TestCancelAndExtend(t *testing.T) {
	db, svc, owner := newSubscriptionFixture(t)
	ctx := context.Background()
	sub, err := svc.Subscribe(ctx, owner, db.addPlan("Basic Plan", 50, 5).ID)
	require.NoError(t, err)

	extended, err := svc.Extend(ctx, owner, sub.ID, 15)
	require.NoError(t, err)
	assert.Equal(t, 45, extended.DaysRemaining(svc.now()))

	_, err = svc.Extend(ctx, owner, sub.ID, 0)
	var fe *domain.FieldError
	assert.ErrorAs(t, err, &fe)

	other := db.addUser(domain.User{Email: "o@x.io", Role: domain.RoleProjectDirector})
	_, err = svc.Cancel(ctx, other, sub.ID)
	assert.ErrorIs(t, err, domain.ErrSubscriptionNotFound)

	cancelled, err := svc.Cancel(ctx, owner, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	_, err = svc.Cancel(ctx, owner, sub.ID)
	assert.ErrorIs(t, err, domain.ErrSubscriptionInactive)
	_, err = svc.Extend(ctx, owner, sub.ID, 5)
	assert.ErrorIs(t, err, domain.ErrSubscriptionInactive)

	_, err = svc.Current(ctx, owner)
	assert.ErrorIs(t, err, domain.ErrSubscriptionNotFound)
}

func TestSubscription_DirectorsOnly(t *testing.T) {
	db, svc, _ := newSubscriptionFixture(t)
	ben := db.addUser(domain.User{Email: "b@x.io", Role: domain.RoleBeneficiary})

	_, err := svc.List(context.Background(), ben)
	var re *domain.RoleError
	assert.ErrorAs(t, err, &re)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPlanService(t *testing.T) {
	db := newMemDB()
	svc := NewPlanService(memPlans{db}, nopLogger)
	ctx := context.Background()

	seed := []*domain.Plan{
		{Name: "Enterprise Plan", Price: 99.99, DurationDays: 30, IsActive: true},
		{Name: "Basic Plan", Price: 29.99, DurationDays: 30, MaxBeneficiaries: 50, MaxEmployees: 5, IsActive: true},
		{Name: "Retired", Price: 5, DurationDays: 30},
	}
	require.NoError(t, svc.Seed(ctx, seed))
	require.NoError(t, svc.Seed(ctx, seed))
	assert.Len(t, db.plans, 3, "seeding twice must not duplicate plans")

	plans, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "Basic Plan", plans[0].Name)
	assert.Equal(t, "Enterprise Plan", plans[1].Name)
}
