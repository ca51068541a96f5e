package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
	"github.com/IvanBritz/Aidpoint1/internal/core/ports"
)

var errInvalidBeneficiary = domain.NewFieldError("beneficiary_id", "the selected beneficiary is invalid")

// AidRequestService files and decides aid requests inside the caller's
// tenant. Capability checks happen at the route; this layer only scopes.
type AidRequestService struct {
	repo          ports.AidRequestRepository
	beneficiaries ports.BeneficiaryRepository
	now           func() time.Time
	logger        zerolog.Logger
}

func NewAidRequestService(repo ports.AidRequestRepository, beneficiaries ports.BeneficiaryRepository, logger zerolog.Logger) *AidRequestService {
	return &AidRequestService{
		repo:          repo,
		beneficiaries: beneficiaries,
		now:           func() time.Time { return time.Now().UTC() },
		logger:        logger,
	}
}

func tenantOf(actor *domain.User) (string, error) {
	tenant := actor.TenantID()
	if tenant == "" {
		return "", domain.ErrForbidden
	}
	return tenant, nil
}

func (s *AidRequestService) List(ctx context.Context, actor *domain.User, in ports.ListAidRequestsInput) (*ports.ListResult[*domain.AidRequest], error) {
	tenant, err := tenantOf(actor)
	if err != nil {
		return nil, err
	}
	page := in.Page.Normalize()
	items, total, err := s.repo.List(ctx, ports.AidRequestFilter{
		TenantID:      tenant,
		Status:        in.Status,
		BeneficiaryID: in.BeneficiaryID,
		Page:          page,
	})
	if err != nil {
		return nil, fmt.Errorf("list aid requests: %w", err)
	}
	return ports.NewListResult(items, total, page), nil
}

func (s *AidRequestService) Create(ctx context.Context, actor *domain.User, in ports.CreateAidRequestInput) (*domain.AidRequest, error) {
	tenant, err := tenantOf(actor)
	if err != nil {
		return nil, err
	}
	if _, err := s.beneficiaries.FindOwned(ctx, in.BeneficiaryID, tenant); err != nil {
		if errors.Is(err, domain.ErrBeneficiaryNotFound) {
			return nil, errInvalidBeneficiary
		}
		return nil, fmt.Errorf("find beneficiary: %w", err)
	}

	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	now := s.now()
	r := &domain.AidRequest{
		Reference:     newReference(),
		TenantID:      tenant,
		BeneficiaryID: in.BeneficiaryID,
		RequestedBy:   actor.ID,
		RequestType:   in.RequestType,
		Amount:        in.Amount,
		Description:   in.Description,
		Priority:      priority,
		Status:        domain.AidRequestPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create aid request: %w", err)
	}
	s.logger.Info().Str("aid_request_id", r.ID).Str("reference", r.Reference).Str("actor_id", actor.ID).Msg("aid request filed")
	return r, nil
}

func (s *AidRequestService) Get(ctx context.Context, actor *domain.User, id string) (*domain.AidRequest, error) {
	tenant, err := tenantOf(actor)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByTenant(ctx, id, tenant)
}

func (s *AidRequestService) Approve(ctx context.Context, actor *domain.User, id string) (*domain.AidRequest, error) {
	r, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := r.Approve(actor.ID, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("approve aid request: %w", err)
	}
	s.logger.Info().Str("aid_request_id", r.ID).Str("actor_id", actor.ID).Msg("aid request approved")
	return r, nil
}

func (s *AidRequestService) Reject(ctx context.Context, actor *domain.User, id, reason string) (*domain.AidRequest, error) {
	r, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := r.Reject(actor.ID, reason, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("reject aid request: %w", err)
	}
	s.logger.Info().Str("aid_request_id", r.ID).Str("actor_id", actor.ID).Msg("aid request rejected")
	return r, nil
}

// newReference returns a short human-facing reference such as AR-1F3A9C02.
func newReference() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "AR-" + strings.ToUpper(id[:8])
}
