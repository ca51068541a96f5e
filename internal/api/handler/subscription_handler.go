package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/IvanBritz/Aidpoint1/internal/api/metrics"
	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
	"github.com/IvanBritz/Aidpoint1/internal/core/ports"
)

type subscribeRequest struct {
	PlanID string `json:"plan_id" validate:"required"`
}

type extendRequest struct {
	Days int `json:"days" validate:"required,gte=1,max=3650"`
}

// subscriptionResponse adds the computed state a client would otherwise
// derive from the dates.
type subscriptionResponse struct {
	*domain.Subscription
	IsActive      bool `json:"is_active"`
	IsInTrial     bool `json:"is_in_trial"`
	DaysRemaining int  `json:"days_remaining"`
}

func toSubscriptionResponse(s *domain.Subscription, now time.Time) subscriptionResponse {
	return subscriptionResponse{
		Subscription:  s,
		IsActive:      s.IsActive(now),
		IsInTrial:     s.IsInTrial(now),
		DaysRemaining: s.DaysRemaining(now),
	}
}

func toSubscriptionResponsePtr(s *domain.Subscription, now time.Time) *subscriptionResponse {
	if s == nil {
		return nil
	}
	res := toSubscriptionResponse(s, now)
	return &res
}

// SubscriptionHandler serves the plan catalog and a director's own
// subscriptions.
type SubscriptionHandler struct {
	plans ports.PlanService
	subs  ports.SubscriptionService
	now   func() time.Time
}

func NewSubscriptionHandler(plans ports.PlanService, subs ports.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{plans: plans, subs: subs, now: time.Now}
}

// Plans lists the active plans, cheapest first.
//
// @Summary      List plans
// @Tags         plans
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Plan
// @Router       /plans [get]
func (h *SubscriptionHandler) Plans(c echo.Context) error {
	plans, err := h.plans.ListActive(c.Request().Context())
	if err != nil {
		return err
	}
	if plans == nil {
		plans = []*domain.Plan{}
	}
	return c.JSON(http.StatusOK, plans)
}

// List returns the caller's subscription history, newest first.
//
// @Summary      List own subscriptions
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  subscriptionResponse
// @Router       /subscriptions [get]
func (h *SubscriptionHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	subs, err := h.subs.List(c.Request().Context(), user)
	if err != nil {
		return err
	}
	now := h.now()
	out := make([]subscriptionResponse, len(subs))
	for i, s := range subs {
		out[i] = toSubscriptionResponse(s, now)
	}
	return c.JSON(http.StatusOK, out)
}

// @Summary      Current subscription
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  subscriptionResponse
// @Failure      404  {object}  map[string]string
// @Router       /subscriptions/current [get]
func (h *SubscriptionHandler) Current(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	sub, err := h.subs.Current(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSubscriptionResponse(sub, h.now()))
}

// Subscribe starts a subscription on a plan, cancelling the current one.
//
// @Summary      Subscribe to a plan
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      subscribeRequest  true  "Plan to subscribe to"
// @Success      201   {object}  subscriptionResponse
// @Failure      404   {object}  map[string]string
// @Router       /subscriptions [post]
func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req subscribeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	sub, err := h.subs.Subscribe(c.Request().Context(), user, req.PlanID)
	if err != nil {
		return err
	}
	metrics.ResourcesCreatedTotal.WithLabelValues("subscriptions").Inc()
	return c.JSON(http.StatusCreated, toSubscriptionResponse(sub, h.now()))
}

// @Summary      Cancel a subscription
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Subscription id"
// @Success      200  {object}  subscriptionResponse
// @Failure      409  {object}  map[string]string
// @Router       /subscriptions/{id}/cancel [post]
func (h *SubscriptionHandler) Cancel(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	sub, err := h.subs.Cancel(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSubscriptionResponse(sub, h.now()))
}

// @Summary      Extend a subscription
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Subscription id"
// @Param        body  body      extendRequest  true  "Days to add"
// @Success      200   {object}  subscriptionResponse
// @Failure      409   {object}  map[string]string
// @Router       /subscriptions/{id}/extend [post]
func (h *SubscriptionHandler) Extend(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req extendRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	sub, err := h.subs.Extend(c.Request().Context(), user, c.Param("id"), req.Days)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSubscriptionResponse(sub, h.now()))
}
