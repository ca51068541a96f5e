package ports

import (
	"context"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
)

type PositionInput struct {
	Name        string
	Description string
}

type PositionService interface {
	List(ctx context.Context) ([]*domain.Position, error)
	Create(ctx context.Context, in PositionInput) (*domain.Position, error)
	Get(ctx context.Context, id string) (*domain.Position, error)
	Update(ctx context.Context, id string, in PositionInput) (*domain.Position, error)
	Delete(ctx context.Context, id string) error
}
