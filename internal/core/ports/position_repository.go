package ports

import (
	"context"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
)

// PositionRepository persists the global position catalog. Names are
// unique; a violation returns domain.ErrPositionNameTaken.
type PositionRepository interface {
	Create(ctx context.Context, p *domain.Position) error
	Update(ctx context.Context, p *domain.Position) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Position, error)
	List(ctx context.Context) ([]*domain.Position, error)
}
