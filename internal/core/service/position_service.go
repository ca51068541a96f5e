package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
	"github.com/IvanBritz/Aidpoint1/internal/core/ports"
)

// PositionService manages the global position catalog.
type PositionService struct {
	repo   ports.PositionRepository
	users  ports.UserRepository
	now    func() time.Time
	logger zerolog.Logger
}

func NewPositionService(repo ports.PositionRepository, users ports.UserRepository, logger zerolog.Logger) *PositionService {
	return &PositionService{repo: repo, users: users, now: func() time.Time { return time.Now().UTC() }, logger: logger}
}

func (s *PositionService) List(ctx context.Context) ([]*domain.Position, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	return items, nil
}

func (s *PositionService) Create(ctx context.Context, in ports.PositionInput) (*domain.Position, error) {
	now := s.now()
	p := &domain.Position{Name: in.Name, Description: in.Description, CreatedAt: now, UpdatedAt: now}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PositionService) Get(ctx context.Context, id string) (*domain.Position, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *PositionService) Update(ctx context.Context, id string, in ports.PositionInput) (*domain.Position, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = in.Name
	p.Description = in.Description
	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete refuses while any user still references the position.
func (s *PositionService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	n, err := s.users.CountByPosition(ctx, id)
	if err != nil {
		return fmt.Errorf("count position users: %w", err)
	}
	if n > 0 {
		return domain.ErrPositionInUse
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("position_id", id).Msg("position deleted")
	return nil
}
