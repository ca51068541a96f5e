package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
	"github.com/IvanBritz/Aidpoint1/internal/core/ports"
)

var nopLogger = zerolog.New(io.Discard)

// memDB is an in-memory stand-in for the document store. Rows are kept by
// value so callers never share memory with the store; WithinTransaction
// snapshots every table and restores it when fn fails.
type memDB struct {
	mu  sync.Mutex
	seq int

	users         map[string]domain.User
	accounts      map[string]domain.EmployeeAccount // by user id
	privileges    map[string]domain.Privilege       // by name
	grants        map[string]domain.PrivilegeGrant  // by user id + privilege id
	plans         map[string]domain.Plan
	subs          map[string]domain.Subscription
	beneficiaries map[string]domain.Beneficiary
	positions     map[string]domain.Position
	aidRequests   map[string]domain.AidRequest
	sessions      map[string]ports.Session

	// failOn makes the named operation return errBoom.
	failOn map[string]bool
}

var errBoom = errors.New("boom")

func newMemDB() *memDB {
	return &memDB{
		users:         map[string]domain.User{},
		accounts:      map[string]domain.EmployeeAccount{},
		privileges:    map[string]domain.Privilege{},
		grants:        map[string]domain.PrivilegeGrant{},
		plans:         map[string]domain.Plan{},
		subs:          map[string]domain.Subscription{},
		beneficiaries: map[string]domain.Beneficiary{},
		positions:     map[string]domain.Position{},
		aidRequests:   map[string]domain.AidRequest{},
		sessions:      map[string]ports.Session{},
		failOn:        map[string]bool{},
	}
}

func (db *memDB) nextID(prefix string) string {
	db.seq++
	return fmt.Sprintf("%s%d", prefix, db.seq)
}

func (db *memDB) fail(op string) error {
	if db.failOn[op] {
		return errBoom
	}
	return nil
}

func (db *memDB) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	db.mu.Lock()
	snap := memDB{
		users:         maps.Clone(db.users),
		accounts:      maps.Clone(db.accounts),
		grants:        maps.Clone(db.grants),
		subs:          maps.Clone(db.subs),
		beneficiaries: maps.Clone(db.beneficiaries),
		aidRequests:   maps.Clone(db.aidRequests),
	}
	db.mu.Unlock()

	if err := fn(ctx); err != nil {
		db.mu.Lock()
		db.users = snap.users
		db.accounts = snap.accounts
		db.grants = snap.grants
		db.subs = snap.subs
		db.beneficiaries = snap.beneficiaries
		db.aidRequests = snap.aidRequests
		db.mu.Unlock()
		return err
	}
	return nil
}

// ── users ────────────────────────────────────────────────────────────────────

type memUsers struct{ db *memDB }

func (r memUsers) Create(_ context.Context, u *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("users.create"); err != nil {
		return err
	}
	for _, existing := range r.db.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailTaken
		}
		if u.Username != "" && existing.Username == u.Username {
			return domain.ErrUsernameTaken
		}
	}
	u.ID = r.db.nextID("u")
	r.db.users[u.ID] = *u
	return nil
}

func (r memUsers) Update(_ context.Context, u *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.db.users[u.ID] = *u
	return nil
}

func (r memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r memUsers) FindOwned(_ context.Context, id, createdBy string, role domain.Role) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok || u.CreatedBy != createdBy || u.Role != role {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r memUsers) EmailExists(_ context.Context, email, excludeID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, u := range r.db.users {
		if id != excludeID && strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r memUsers) UsernameExists(_ context.Context, username string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r memUsers) List(_ context.Context, f ports.UserFilter) ([]*domain.User, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*domain.User
	for _, u := range r.db.users {
		if u.CreatedBy != f.CreatedBy || (f.Role != "" && u.Role != f.Role) || (f.Status != "" && u.Status != f.Status) {
			continue
		}
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, f.Page), int64(len(out)), nil
}

func (r memUsers) CountByCreator(_ context.Context, createdBy string, role domain.Role) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, u := range r.db.users {
		if u.CreatedBy == createdBy && u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r memUsers) CountByPosition(_ context.Context, positionID string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, u := range r.db.users {
		if u.PositionID == positionID {
			n++
		}
	}
	return n, nil
}

func page[T any](items []T, p ports.PageRequest) []T {
	p = p.Normalize()
	start := int(p.Skip())
	if start >= len(items) {
		return nil
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// ── employee accounts ───────────────────────────────────────────────────────

type memAccounts struct{ db *memDB }

func (r memAccounts) Create(_ context.Context, a *domain.EmployeeAccount) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("accounts.create"); err != nil {
		return err
	}
	a.ID = r.db.nextID("a")
	r.db.accounts[a.UserID] = *a
	return nil
}

func (r memAccounts) FindByUserID(_ context.Context, userID string) (*domain.EmployeeAccount, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.accounts[userID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}

func (r memAccounts) Save(_ context.Context, a *domain.EmployeeAccount) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if a.ID == "" {
		a.ID = r.db.nextID("a")
	}
	r.db.accounts[a.UserID] = *a
	return nil
}

// ── privileges ──────────────────────────────────────────────────────────────

type memCatalog struct{ db *memDB }

func (r memCatalog) FindByName(_ context.Context, name string) (*domain.Privilege, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.privileges[name]
	if !ok {
		return nil, domain.ErrPrivilegeNotFound
	}
	return &p, nil
}

func (r memCatalog) List(_ context.Context) ([]*domain.Privilege, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*domain.Privilege, 0, len(r.db.privileges))
	for _, p := range r.db.privileges {
		p := p
		out = append(out, &p)
	}
	return out, nil
}

func (r memCatalog) Upsert(_ context.Context, p *domain.Privilege) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if existing, ok := r.db.privileges[p.Name]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else {
		p.ID = r.db.nextID("p")
	}
	r.db.privileges[p.Name] = *p
	return nil
}

type memGrants struct{ db *memDB }

func (r memGrants) Exists(_ context.Context, userID, name string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, g := range r.db.grants {
		if g.UserID == userID && g.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r memGrants) ExistsAny(ctx context.Context, userID string, names []string) (bool, error) {
	for _, n := range names {
		if ok, _ := r.Exists(ctx, userID, n); ok {
			return true, nil
		}
	}
	return false, nil
}

func (r memGrants) Names(_ context.Context, userID string) ([]string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []string
	for _, g := range r.db.grants {
		if g.UserID == userID {
			out = append(out, g.Name)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r memGrants) Insert(_ context.Context, g *domain.PrivilegeGrant) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("grants.insert"); err != nil {
		return err
	}
	r.db.grants[g.UserID+"/"+g.PrivilegeID] = *g
	return nil
}

func (r memGrants) Delete(_ context.Context, userID, privilegeID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := userID + "/" + privilegeID
	_, ok := r.db.grants[key]
	delete(r.db.grants, key)
	return ok, nil
}

// ── plans & subscriptions ───────────────────────────────────────────────────

type memPlans struct{ db *memDB }

func (r memPlans) FindByID(_ context.Context, id string) (*domain.Plan, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.plans[id]
	if !ok {
		return nil, domain.ErrPlanNotFound
	}
	return &p, nil
}

func (r memPlans) FindByName(_ context.Context, name string) (*domain.Plan, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.plans {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, domain.ErrPlanNotFound
}

func (r memPlans) ListActive(_ context.Context) ([]*domain.Plan, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*domain.Plan
	for _, p := range r.db.plans {
		if p.IsActive {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

func (r memPlans) Upsert(_ context.Context, p *domain.Plan) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, existing := range r.db.plans {
		if existing.Name == p.Name {
			p.ID = id
			r.db.plans[id] = *p
			return nil
		}
	}
	p.ID = r.db.nextID("plan")
	r.db.plans[p.ID] = *p
	return nil
}

type memSubs struct{ db *memDB }

func (r memSubs) Create(_ context.Context, s *domain.Subscription) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("subs.create"); err != nil {
		return err
	}
	s.ID = r.db.nextID("s")
	r.db.subs[s.ID] = *s
	return nil
}

func (r memSubs) Update(_ context.Context, s *domain.Subscription) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.subs[s.ID] = *s
	return nil
}

func (r memSubs) FindActiveByUser(_ context.Context, userID string) (*domain.Subscription, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var best *domain.Subscription
	for _, s := range r.db.subs {
		if s.UserID == userID && s.Status == domain.SubscriptionActive {
			s := s
			if best == nil || s.CreatedAt.After(best.CreatedAt) {
				best = &s
			}
		}
	}
	if best == nil {
		return nil, domain.ErrSubscriptionNotFound
	}
	return best, nil
}

func (r memSubs) FindOwned(_ context.Context, id, userID string) (*domain.Subscription, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.subs[id]
	if !ok || s.UserID != userID {
		return nil, domain.ErrSubscriptionNotFound
	}
	return &s, nil
}

func (r memSubs) ListByUser(_ context.Context, userID string) ([]*domain.Subscription, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*domain.Subscription
	for _, s := range r.db.subs {
		if s.UserID == userID {
			s := s
			out = append(out, &s)
		}
	}
	return out, nil
}

// ── beneficiaries ───────────────────────────────────────────────────────────

type memBeneficiaries struct{ db *memDB }

func (r memBeneficiaries) Create(_ context.Context, b *domain.Beneficiary) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.beneficiaries {
		if strings.EqualFold(existing.Email, b.Email) {
			return domain.ErrBeneficiaryEmailTaken
		}
	}
	b.ID = r.db.nextID("b")
	r.db.beneficiaries[b.ID] = *b
	return nil
}

func (r memBeneficiaries) Update(_ context.Context, b *domain.Beneficiary) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("beneficiaries.update"); err != nil {
		return err
	}
	r.db.beneficiaries[b.ID] = *b
	return nil
}

func (r memBeneficiaries) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("beneficiaries.delete"); err != nil {
		return err
	}
	delete(r.db.beneficiaries, id)
	return nil
}

func (r memBeneficiaries) FindByID(_ context.Context, id string) (*domain.Beneficiary, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b, ok := r.db.beneficiaries[id]
	if !ok {
		return nil, domain.ErrBeneficiaryNotFound
	}
	return &b, nil
}

func (r memBeneficiaries) FindOwned(ctx context.Context, id, createdBy string) (*domain.Beneficiary, error) {
	b, err := r.FindByID(ctx, id)
	if err != nil || b.CreatedBy != createdBy {
		return nil, domain.ErrBeneficiaryNotFound
	}
	return b, nil
}

func (r memBeneficiaries) FindByUserID(_ context.Context, userID string) (*domain.Beneficiary, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, b := range r.db.beneficiaries {
		if b.UserID == userID {
			return &b, nil
		}
	}
	return nil, domain.ErrBeneficiaryNotFound
}

func (r memBeneficiaries) EmailExists(_ context.Context, email, excludeID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, b := range r.db.beneficiaries {
		if id != excludeID && strings.EqualFold(b.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r memBeneficiaries) List(_ context.Context, f ports.BeneficiaryFilter) ([]*domain.Beneficiary, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*domain.Beneficiary
	for _, b := range r.db.beneficiaries {
		if b.CreatedBy == f.CreatedBy && (f.Status == "" || b.Status == f.Status) {
			b := b
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, f.Page), int64(len(out)), nil
}

func (r memBeneficiaries) CountByCreator(_ context.Context, createdBy string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, b := range r.db.beneficiaries {
		if b.CreatedBy == createdBy {
			n++
		}
	}
	return n, nil
}

// ── positions ───────────────────────────────────────────────────────────────

type memPositions struct{ db *memDB }

func (r memPositions) Create(_ context.Context, p *domain.Position) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.positions {
		if existing.Name == p.Name {
			return domain.ErrPositionNameTaken
		}
	}
	p.ID = r.db.nextID("pos")
	r.db.positions[p.ID] = *p
	return nil
}

func (r memPositions) Update(_ context.Context, p *domain.Position) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, existing := range r.db.positions {
		if id != p.ID && existing.Name == p.Name {
			return domain.ErrPositionNameTaken
		}
	}
	r.db.positions[p.ID] = *p
	return nil
}

func (r memPositions) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.positions, id)
	return nil
}

func (r memPositions) FindByID(_ context.Context, id string) (*domain.Position, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.positions[id]
	if !ok {
		return nil, domain.ErrPositionNotFound
	}
	return &p, nil
}

func (r memPositions) List(_ context.Context) ([]*domain.Position, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*domain.Position
	for _, p := range r.db.positions {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ── aid requests ────────────────────────────────────────────────────────────

type memAidRequests struct{ db *memDB }

func (r memAidRequests) Create(_ context.Context, a *domain.AidRequest) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a.ID = r.db.nextID("ar")
	r.db.aidRequests[a.ID] = *a
	return nil
}

func (r memAidRequests) Update(_ context.Context, a *domain.AidRequest) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.aidRequests[a.ID] = *a
	return nil
}

func (r memAidRequests) FindByTenant(_ context.Context, id, tenantID string) (*domain.AidRequest, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.aidRequests[id]
	if !ok || a.TenantID != tenantID {
		return nil, domain.ErrAidRequestNotFound
	}
	return &a, nil
}

func (r memAidRequests) List(_ context.Context, f ports.AidRequestFilter) ([]*domain.AidRequest, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*domain.AidRequest
	for _, a := range r.db.aidRequests {
		if a.TenantID == f.TenantID && (f.Status == "" || a.Status == f.Status) {
			a := a
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, f.Page), int64(len(out)), nil
}

// ── sessions ────────────────────────────────────────────────────────────────

type memSessions struct{ db *memDB }

func (r memSessions) Create(_ context.Context, s ports.Session) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.sessions[s.ID] = s
	return nil
}

func (r memSessions) Get(_ context.Context, id string) (*ports.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.sessions[id]
	if !ok {
		return nil, ports.ErrSessionNotFound
	}
	return &s, nil
}

func (r memSessions) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.sessions[id]; !ok {
		return ports.ErrSessionNotFound
	}
	delete(r.db.sessions, id)
	return nil
}

// ── fixtures ────────────────────────────────────────────────────────────────

func (db *memDB) seedPrivileges(names ...string) {
	for _, n := range names {
		_ = memCatalog{db}.Upsert(context.Background(), &domain.Privilege{Name: n, Category: "operations"})
	}
}

func (db *memDB) addPlan(name string, maxBeneficiaries, maxEmployees int) *domain.Plan {
	p := &domain.Plan{Name: name, Price: 29.99, DurationDays: 30, MaxBeneficiaries: maxBeneficiaries, MaxEmployees: maxEmployees, IsActive: true}
	_ = memPlans{db}.Upsert(context.Background(), p)
	return p
}

func (db *memDB) addUser(u domain.User) *domain.User {
	if u.Status == "" {
		u.Status = domain.UserStatusActive
	}
	_ = memUsers{db}.Create(context.Background(), &u)
	return &u
}
