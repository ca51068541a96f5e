package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
	"github.com/IvanBritz/Aidpoint1/internal/core/ports"
)

// CatalogService exposes the privilege catalog.
type CatalogService struct {
	catalog ports.PrivilegeCatalog
	now     func() time.Time
	logger  zerolog.Logger
}

func NewCatalogService(catalog ports.PrivilegeCatalog, logger zerolog.Logger) *CatalogService {
	return &CatalogService{catalog: catalog, now: func() time.Time { return time.Now().UTC() }, logger: logger}
}

// Grouped returns the catalog grouped by category, categories and entries
// sorted by name.
func (s *CatalogService) Grouped(ctx context.Context) ([]ports.PrivilegeCategory, error) {
	all, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list privileges: %w", err)
	}

	byCategory := make(map[string][]*domain.Privilege)
	for _, p := range all {
		cat := p.Category
		if cat == "" {
			cat = "general"
		}
		byCategory[cat] = append(byCategory[cat], p)
	}

	out := make([]ports.PrivilegeCategory, 0, len(byCategory))
	for cat, list := range byCategory {
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
		out = append(out, ports.PrivilegeCategory{Category: cat, Privileges: list})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

// Seed upserts every entry by name. Running it twice is a no-op.
func (s *CatalogService) Seed(ctx context.Context, entries []*domain.Privilege) error {
	now := s.now()
	for _, p := range entries {
		if p.Name == "" {
			return fmt.Errorf("seed privilege: empty name")
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.UpdatedAt = now
		if err := s.catalog.Upsert(ctx, p); err != nil {
			return fmt.Errorf("seed privilege %q: %w", p.Name, err)
		}
	}
	s.logger.Info().Int("count", len(entries)).Msg("privilege catalog seeded")
	return nil
}
