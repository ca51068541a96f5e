package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
	"github.com/IvanBritz/Aidpoint1/internal/core/ports"
)

// RelationalSource reads privileges from the grant store.
type RelationalSource struct {
	grants ports.GrantRepository
}

func NewRelationalSource(grants ports.GrantRepository) *RelationalSource {
	return &RelationalSource{grants: grants}
}

func (s *RelationalSource) Has(ctx context.Context, u *domain.User, name string) (bool, error) {
	return s.grants.Exists(ctx, u.ID, name)
}

func (s *RelationalSource) HasAny(ctx context.Context, u *domain.User, names []string) (bool, error) {
	if len(names) == 0 {
		return false, nil
	}
	return s.grants.ExistsAny(ctx, u.ID, names)
}

func (s *RelationalSource) Names(ctx context.Context, u *domain.User) ([]string, error) {
	return s.grants.Names(ctx, u.ID)
}

// InlineSource reads the legacy list stored on the user record.
type InlineSource struct{}

func (InlineSource) Has(_ context.Context, u *domain.User, name string) (bool, error) {
	return domain.ContainsName(u.InlinePrivileges, name), nil
}

func (InlineSource) HasAny(_ context.Context, u *domain.User, names []string) (bool, error) {
	for _, n := range names {
		if domain.ContainsName(u.InlinePrivileges, n) {
			return true, nil
		}
	}
	return false, nil
}

func (InlineSource) Names(_ context.Context, u *domain.User) ([]string, error) {
	return u.InlinePrivileges, nil
}

// PrivilegeService resolves effective privileges.
//
// Reads are the union of every source, relational first. Writes touch the
// relational store only, so a revoke cannot retract an inline grant.
// Project directors hold every privilege, including unknown names.
type PrivilegeService struct {
	catalog ports.PrivilegeCatalog
	grants  ports.GrantRepository
	sources []ports.PrivilegeSource
	now     func() time.Time
	logger  zerolog.Logger
}

func NewPrivilegeService(catalog ports.PrivilegeCatalog, grants ports.GrantRepository, logger zerolog.Logger) *PrivilegeService {
	return &PrivilegeService{
		catalog: catalog,
		grants:  grants,
		sources: []ports.PrivilegeSource{NewRelationalSource(grants), InlineSource{}},
		now:     func() time.Time { return time.Now().UTC() },
		logger:  logger,
	}
}

func (s *PrivilegeService) HasPrivilege(ctx context.Context, u *domain.User, name string) (bool, error) {
	if u.IsProjectDirector() {
		return true, nil
	}
	for _, src := range s.sources {
		ok, err := src.Has(ctx, u, name)
		if err != nil {
			return false, fmt.Errorf("check privilege %q: %w", name, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (s *PrivilegeService) HasAnyPrivilege(ctx context.Context, u *domain.User, names []string) (bool, error) {
	if u.IsProjectDirector() {
		return true, nil
	}
	for _, src := range s.sources {
		ok, err := src.HasAny(ctx, u, names)
		if err != nil {
			return false, fmt.Errorf("check any privilege: %w", err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// HasAllPrivileges runs one HasPrivilege per name. An empty set is
// trivially satisfied.
func (s *PrivilegeService) HasAllPrivileges(ctx context.Context, u *domain.User, names []string) (bool, error) {
	if u.IsProjectDirector() {
		return true, nil
	}
	for _, n := range names {
		ok, err := s.HasPrivilege(ctx, u, n)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// GrantPrivilege records a relational grant. It returns false when name is
// not in the catalog and true, without writing, when u already has it.
func (s *PrivilegeService) GrantPrivilege(ctx context.Context, u *domain.User, name, grantedBy string) (bool, error) {
	p, err := s.catalog.FindByName(ctx, name)
	if errors.Is(err, domain.ErrPrivilegeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find privilege %q: %w", name, err)
	}

	has, err := s.HasPrivilege(ctx, u, name)
	if err != nil {
		return false, err
	}
	if has {
		return true, nil
	}

	grant := &domain.PrivilegeGrant{
		UserID:      u.ID,
		PrivilegeID: p.ID,
		Name:        p.Name,
		GrantedBy:   grantedBy,
		GrantedAt:   s.now(),
	}
	if err := s.grants.Insert(ctx, grant); err != nil {
		return false, fmt.Errorf("insert grant: %w", err)
	}
	s.logger.Info().Str("user_id", u.ID).Str("privilege", name).Str("granted_by", grantedBy).Msg("privilege granted")
	return true, nil
}

// RevokePrivilege removes the relational grant only. It returns false when
// name is not in the catalog.
func (s *PrivilegeService) RevokePrivilege(ctx context.Context, u *domain.User, name string) (bool, error) {
	p, err := s.catalog.FindByName(ctx, name)
	if errors.Is(err, domain.ErrPrivilegeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find privilege %q: %w", name, err)
	}

	removed, err := s.grants.Delete(ctx, u.ID, p.ID)
	if err != nil {
		return false, fmt.Errorf("delete grant: %w", err)
	}
	if removed {
		s.logger.Info().Str("user_id", u.ID).Str("privilege", name).Msg("privilege revoked")
	}
	if domain.ContainsName(u.InlinePrivileges, name) {
		s.logger.Warn().Str("user_id", u.ID).Str("privilege", name).Msg("inline privilege survives revoke")
	}
	return true, nil
}

func (s *PrivilegeService) GetPrivilegeNames(ctx context.Context, u *domain.User) ([]string, error) {
	lists := make([][]string, 0, len(s.sources))
	for _, src := range s.sources {
		names, err := src.Names(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("list privileges: %w", err)
		}
		lists = append(lists, names)
	}
	return domain.UniqueNames(lists...), nil
}

// ValidateNames returns domain.ErrUnknownPrivilege when any name is missing
// from the catalog.
func (s *PrivilegeService) ValidateNames(ctx context.Context, names []string) error {
	for _, n := range names {
		_, err := s.catalog.FindByName(ctx, n)
		if errors.Is(err, domain.ErrPrivilegeNotFound) {
			return domain.ErrUnknownPrivilege
		}
		if err != nil {
			return fmt.Errorf("find privilege %q: %w", n, err)
		}
	}
	return nil
}

// GrantPrivileges grants each name in turn and stops at the first unknown
// one.
func (s *PrivilegeService) GrantPrivileges(ctx context.Context, u *domain.User, names []string, grantedBy string) error {
	for _, n := range domain.UniqueNames(names) {
		ok, err := s.GrantPrivilege(ctx, u, n, grantedBy)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrUnknownPrivilege
		}
	}
	return nil
}

func (s *PrivilegeService) RevokePrivileges(ctx context.Context, u *domain.User, names []string) error {
	for _, n := range domain.UniqueNames(names) {
		if _, err := s.RevokePrivilege(ctx, u, n); err != nil {
			return err
		}
	}
	return nil
}

// SyncGrants makes the relational grants equal to want. Inline entries are
// left alone.
func (s *PrivilegeService) SyncGrants(ctx context.Context, u *domain.User, want []string, grantedBy string) error {
	if err := s.ValidateNames(ctx, want); err != nil {
		return err
	}
	current, err := s.grants.Names(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("list grants: %w", err)
	}

	var stale []string
	for _, n := range current {
		if !domain.ContainsName(want, n) {
			stale = append(stale, n)
		}
	}
	if err := s.RevokePrivileges(ctx, u, stale); err != nil {
		return err
	}

	var missing []string
	for _, n := range want {
		if !domain.ContainsName(current, n) {
			missing = append(missing, n)
		}
	}
	for _, n := range domain.UniqueNames(missing) {
		if err := s.insertGrant(ctx, u, n, grantedBy); err != nil {
			return err
		}
	}
	return nil
}

// insertGrant writes a relational row whether or not an inline entry
// already covers name.
func (s *PrivilegeService) insertGrant(ctx context.Context, u *domain.User, name, grantedBy string) error {
	p, err := s.catalog.FindByName(ctx, name)
	if err != nil {
		return fmt.Errorf("find privilege %q: %w", name, err)
	}
	return s.grants.Insert(ctx, &domain.PrivilegeGrant{
		UserID:      u.ID,
		PrivilegeID: p.ID,
		Name:        p.Name,
		GrantedBy:   grantedBy,
		GrantedAt:   s.now(),
	})
}
