package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
	"github.com/IvanBritz/Aidpoint1/internal/core/ports"
)

// AuthConfig carries the knobs AuthService needs from configuration.
type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	TrialPlanName string
	TrialDays     int
	Lockout       domain.LockoutPolicy
}

// AuthRepos groups the stores AuthService reads and writes.
type AuthRepos struct {
	Users         ports.UserRepository
	Accounts      ports.EmployeeAccountRepository
	Beneficiaries ports.BeneficiaryRepository
	Plans         ports.PlanRepository
	Subscriptions ports.SubscriptionRepository
}

// AuthService implements registration, login and bearer sessions.
type AuthService struct {
	repos      AuthRepos
	tx         ports.Transactor
	sessions   ports.SessionStore
	privileges ports.PrivilegeService
	cfg        AuthConfig
	now        func() time.Time
	logger     zerolog.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(
	repos AuthRepos,
	tx ports.Transactor,
	sessions ports.SessionStore,
	privileges ports.PrivilegeService,
	cfg AuthConfig,
	logger zerolog.Logger,
) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.TrialDays <= 0 {
		cfg.TrialDays = 30
	}
	if cfg.Lockout.MaxFailedLogins <= 0 {
		cfg.Lockout = domain.DefaultLockoutPolicy()
	}
	return &AuthService{
		repos:      repos,
		tx:         tx,
		sessions:   sessions,
		privileges: privileges,
		cfg:        cfg,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     logger,
	}
}

// Register creates a project director or a beneficiary login. Beneficiary
// logins claim an existing, unclaimed profile with the same email. Directors
// get a trial subscription when the trial plan exists.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	if in.Role != domain.RoleProjectDirector && in.Role != domain.RoleBeneficiary {
		return nil, domain.NewFieldError("role", "role must be one of: project_director, beneficiary")
	}
	if in.Role == domain.RoleBeneficiary && in.BeneficiaryProfileID == "" {
		return nil, domain.ErrProfileIDRequired
	}

	exists, err := s.repos.Users.EmailExists(ctx, in.Email, "")
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &domain.User{
		Name:             in.Name,
		Email:            in.Email,
		PasswordHash:     string(hash),
		Role:             in.Role,
		Status:           domain.UserStatusActive,
		Phone:            in.Phone,
		Address:          in.Address,
		InlinePrivileges: []string{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	var trial *domain.Subscription
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var profile *domain.Beneficiary
		if in.Role == domain.RoleBeneficiary {
			p, err := s.claimableProfile(ctx, in.BeneficiaryProfileID, in.Email)
			if err != nil {
				return err
			}
			profile = p
			user.CreatedBy = p.CreatedBy
			user.OrganizationID = p.CreatedBy
		}

		if err := s.repos.Users.Create(ctx, user); err != nil {
			return err
		}

		if profile != nil {
			profile.UserID = user.ID
			profile.Status = domain.BeneficiaryActive
			profile.UpdatedAt = now
			if err := s.repos.Beneficiaries.Update(ctx, profile); err != nil {
				return fmt.Errorf("link beneficiary profile: %w", err)
			}
		}

		if in.Role == domain.RoleProjectDirector {
			sub, err := s.issueTrial(ctx, user, now)
			if err != nil {
				return err
			}
			trial = sub
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Bool("trial", trial != nil).Msg("user registered")

	res, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}
	res.Subscription = trial
	return res, nil
}

func (s *AuthService) claimableProfile(ctx context.Context, id, email string) (*domain.Beneficiary, error) {
	p, err := s.repos.Beneficiaries.FindByID(ctx, id)
	if errors.Is(err, domain.ErrBeneficiaryNotFound) {
		return nil, domain.ErrInvalidProfile
	}
	if err != nil {
		return nil, fmt.Errorf("find beneficiary profile: %w", err)
	}
	if p.Claimed() {
		return nil, domain.ErrInvalidProfile
	}
	if !strings.EqualFold(p.Email, email) {
		return nil, domain.ErrProfileEmailMismatch
	}
	return p, nil
}

func (s *AuthService) issueTrial(ctx context.Context, user *domain.User, now time.Time) (*domain.Subscription, error) {
	if s.cfg.TrialPlanName == "" {
		return nil, nil
	}
	plan, err := s.repos.Plans.FindByName(ctx, s.cfg.TrialPlanName)
	if errors.Is(err, domain.ErrPlanNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find trial plan: %w", err)
	}

	sub := domain.NewTrialSubscription(user.ID, plan, s.cfg.TrialDays, now)
	if err := s.repos.Subscriptions.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("create trial subscription: %w", err)
	}
	return sub, nil
}

// Login verifies credentials. Unknown emails and wrong passwords both yield
// domain.ErrInvalidCredentials. Employees go through the lockout state
// machine before the password is compared.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repos.Users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.burnCompare(password)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	now := s.now()
	var account *domain.EmployeeAccount
	if user.IsEmployee() {
		account, err = s.employeeAccount(ctx, user, now)
		if err != nil {
			return nil, err
		}
		if account.HealIfExpired(now) {
			s.logger.Info().Str("user_id", user.ID).Msg("expired lock cleared")
		}
		if account.IsLocked(now) {
			return nil, domain.ErrAccountLocked
		}
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		if account != nil {
			if account.RecordFailure(s.cfg.Lockout, now) {
				s.logger.Warn().Str("user_id", user.ID).Int("attempts", account.FailedLoginAttempts).Msg("employee account locked")
			}
			if err := s.repos.Accounts.Save(ctx, account); err != nil {
				return nil, fmt.Errorf("save employee account: %w", err)
			}
		}
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive() {
		return nil, domain.ErrAccountInactive
	}

	if account != nil {
		account.RecordSuccess(now)
		if err := s.repos.Accounts.Save(ctx, account); err != nil {
			return nil, fmt.Errorf("save employee account: %w", err)
		}
	}
	user.LastLoginAt = &now
	user.UpdatedAt = now
	if err := s.repos.Users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("stamp last login: %w", err)
	}

	return s.issueToken(ctx, user)
}

// employeeAccount loads the lockout row, starting a fresh one for employees
// created before the row existed.
func (s *AuthService) employeeAccount(ctx context.Context, user *domain.User, now time.Time) (*domain.EmployeeAccount, error) {
	account, err := s.repos.Accounts.FindByUserID(ctx, user.ID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return domain.NewEmployeeAccount(user.ID, now), nil
	}
	if err != nil {
		return nil, fmt.Errorf("find employee account: %w", err)
	}
	return account, nil
}

func (s *AuthService) burnCompare(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
}

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (s *AuthService) issueToken(ctx context.Context, user *domain.User) (*ports.AuthResult, error) {
	now := s.now()
	sess := ports.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.TokenTTL),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	claims := sessionClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &ports.AuthResult{
		Token:              token,
		ExpiresAt:          sess.ExpiresAt,
		User:               user,
		MustChangePassword: user.MustChangePassword,
	}, nil
}

// Authenticate resolves a bearer token. The token must verify, its session
// must still exist, and the user must still be active.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, *ports.Session, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, nil, domain.ErrUnauthenticated
	}

	sess, err := s.sessions.Get(ctx, claims.ID)
	if errors.Is(err, ports.ErrSessionNotFound) {
		return nil, nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load session: %w", err)
	}
	if sess.UserID != claims.Subject {
		return nil, nil, domain.ErrUnauthenticated
	}

	user, err := s.repos.Users.FindByID(ctx, sess.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive() {
		return nil, nil, domain.ErrAccountInactive
	}
	return user, sess, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, u *domain.User, current, next string) error {
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return domain.ErrCurrentPasswordIncorrect
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	u.MarkPasswordChanged(s.now())
	if err := s.repos.Users.Update(ctx, u); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.logger.Info().Str("user_id", u.ID).Msg("password changed")
	return nil
}

// Logout invalidates one session; other logins of the same user survive.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, ports.ErrSessionNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, u *domain.User) (*ports.Profile, error) {
	names, err := s.privileges.GetPrivilegeNames(ctx, u)
	if err != nil {
		return nil, err
	}
	profile := &ports.Profile{User: u, Privileges: names}

	if u.IsProjectDirector() {
		sub, err := s.repos.Subscriptions.FindActiveByUser(ctx, u.ID)
		switch {
		case err == nil:
			profile.Subscription = sub
		case !errors.Is(err, domain.ErrSubscriptionNotFound):
			return nil, fmt.Errorf("find active subscription: %w", err)
		}
	}
	if u.IsBeneficiary() {
		b, err := s.repos.Beneficiaries.FindByUserID(ctx, u.ID)
		switch {
		case err == nil:
			profile.Beneficiary = b
		case !errors.Is(err, domain.ErrBeneficiaryNotFound):
			return nil, fmt.Errorf("find beneficiary profile: %w", err)
		}
	}
	return profile, nil
}
