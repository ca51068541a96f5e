package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
	"github.com/IvanBritz/Aidpoint1/internal/core/ports"
)

// BeneficiaryService manages beneficiary profiles for project directors and
// the restricted self-service view for beneficiary logins.
type BeneficiaryService struct {
	repo         ports.BeneficiaryRepository
	users        ports.UserRepository
	entitlements ports.EntitlementChecker
	tx           ports.Transactor
	now          func() time.Time
	logger       zerolog.Logger
}

func NewBeneficiaryService(
	repo ports.BeneficiaryRepository,
	users ports.UserRepository,
	entitlements ports.EntitlementChecker,
	tx ports.Transactor,
	logger zerolog.Logger,
) *BeneficiaryService {
	return &BeneficiaryService{
		repo:         repo,
		users:        users,
		entitlements: entitlements,
		tx:           tx,
		now:          func() time.Time { return time.Now().UTC() },
		logger:       logger,
	}
}

func (s *BeneficiaryService) List(ctx context.Context, actor *domain.User, in ports.ListBeneficiariesInput) (*ports.ListResult[*domain.Beneficiary], error) {
	if err := requireDirector(actor); err != nil {
		return nil, err
	}
	page := in.Page.Normalize()
	items, total, err := s.repo.List(ctx, ports.BeneficiaryFilter{
		CreatedBy: actor.ID,
		Status:    in.Status,
		Search:    in.Search,
		Page:      page,
	})
	if err != nil {
		return nil, fmt.Errorf("list beneficiaries: %w", err)
	}
	return ports.NewListResult(items, total, page), nil
}

func (s *BeneficiaryService) Create(ctx context.Context, actor *domain.User, in ports.BeneficiaryInput) (*domain.Beneficiary, error) {
	if err := requireDirector(actor); err != nil {
		return nil, err
	}
	if err := s.entitlements.CheckQuota(ctx, actor, domain.ResourceBeneficiaries); err != nil {
		return nil, err
	}

	exists, err := s.repo.EmailExists(ctx, in.Email, "")
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, domain.ErrBeneficiaryEmailTaken
	}

	now := s.now()
	b := &domain.Beneficiary{
		CreatedBy:             actor.ID,
		FirstName:             in.FirstName,
		LastName:              in.LastName,
		Email:                 strings.TrimSpace(in.Email),
		Phone:                 in.Phone,
		Address:               in.Address,
		DateOfBirth:           in.DateOfBirth,
		Gender:                in.Gender,
		NationalID:            in.NationalID,
		EmergencyContactName:  in.EmergencyContactName,
		EmergencyContactPhone: in.EmergencyContactPhone,
		FinancialInfo:         in.FinancialInfo,
		Status:                domain.BeneficiaryPending,
		Notes:                 in.Notes,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Info().Str("beneficiary_id", b.ID).Str("created_by", actor.ID).Msg("beneficiary created")
	return b, nil
}

func (s *BeneficiaryService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Beneficiary, error) {
	if err := requireDirector(actor); err != nil {
		return nil, err
	}
	b, err := s.repo.FindOwned(ctx, id, actor.ID)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BeneficiaryService) Update(ctx context.Context, actor *domain.User, id string, in ports.UpdateBeneficiaryInput) (*domain.Beneficiary, error) {
	b, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		exists, err := s.repo.EmailExists(ctx, *in.Email, b.ID)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if exists {
			return nil, domain.ErrBeneficiaryEmailTaken
		}
		b.Email = strings.TrimSpace(*in.Email)
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, domain.NewFieldError("status", "status must be one of: pending, active, inactive, suspended")
		}
		b.Status = *in.Status
	}
	setString(&b.FirstName, in.FirstName)
	setString(&b.LastName, in.LastName)
	setString(&b.Phone, in.Phone)
	setString(&b.Address, in.Address)
	setString(&b.Gender, in.Gender)
	setString(&b.NationalID, in.NationalID)
	setString(&b.EmergencyContactName, in.EmergencyContactName)
	setString(&b.EmergencyContactPhone, in.EmergencyContactPhone)
	setString(&b.Notes, in.Notes)
	if in.DateOfBirth != nil {
		b.DateOfBirth = in.DateOfBirth
	}
	if in.FinancialInfo != nil {
		b.FinancialInfo = in.FinancialInfo
	}
	b.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Delete removes the profile. A linked login is deactivated, not removed,
// and both writes share one transaction.
func (s *BeneficiaryService) Delete(ctx context.Context, actor *domain.User, id string) error {
	b, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if b.Claimed() {
			u, err := s.users.FindByID(ctx, b.UserID)
			switch {
			case err == nil:
				u.Status = domain.UserStatusInactive
				u.UpdatedAt = s.now()
				if err := s.users.Update(ctx, u); err != nil {
					return fmt.Errorf("deactivate beneficiary user: %w", err)
				}
			case !errors.Is(err, domain.ErrUserNotFound):
				return fmt.Errorf("find beneficiary user: %w", err)
			}
		}
		return s.repo.Delete(ctx, b.ID)
	})
	if err != nil {
		return err
	}
	s.logger.Info().Str("beneficiary_id", b.ID).Str("actor_id", actor.ID).Bool("had_login", b.Claimed()).Msg("beneficiary deleted")
	return nil
}

func (s *BeneficiaryService) MyProfile(ctx context.Context, u *domain.User) (*domain.Beneficiary, error) {
	if !u.IsBeneficiary() {
		return nil, &domain.RoleError{Allowed: []domain.Role{domain.RoleBeneficiary}}
	}
	return s.repo.FindByUserID(ctx, u.ID)
}

// UpdateMyProfile applies the self-editable subset only.
func (s *BeneficiaryService) UpdateMyProfile(ctx context.Context, u *domain.User, in ports.MyProfileInput) (*domain.Beneficiary, error) {
	b, err := s.MyProfile(ctx, u)
	if err != nil {
		return nil, err
	}
	setString(&b.Phone, in.Phone)
	setString(&b.Address, in.Address)
	setString(&b.EmergencyContactName, in.EmergencyContactName)
	setString(&b.EmergencyContactPhone, in.EmergencyContactPhone)
	if in.FinancialInfo != nil {
		b.FinancialInfo = in.FinancialInfo
	}
	b.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
