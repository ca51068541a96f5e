package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/IvanBritz/Aidpoint1/internal/api"
	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
	"github.com/IvanBritz/Aidpoint1/internal/core/service"
	"github.com/IvanBritz/Aidpoint1/internal/infrastructure/config"
	mongodb "github.com/IvanBritz/Aidpoint1/internal/infrastructure/db/mongo"
	redisdb "github.com/IvanBritz/Aidpoint1/internal/infrastructure/db/redis"
	"github.com/IvanBritz/Aidpoint1/internal/infrastructure/http/handlers"
	"github.com/IvanBritz/Aidpoint1/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("aidpoint stopped")
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet; fall back to defaults.
		logger.Init(logger.Options{Service: "aidpoint"})
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "aidpoint",
	})

	// --- Storage ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "aidpoint",
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	repos := mongodb.NewRepositories(db)
	if err := repos.EnsureIndexes(ctx); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	// --- Use cases ---
	tx := mongodb.NewTransactor(client)
	privileges := service.NewPrivilegeService(repos.Privileges, repos.Grants, logger.Component("privileges"))
	catalog := service.NewCatalogService(repos.Privileges, logger.Component("catalog"))
	plans := service.NewPlanService(repos.Plans, logger.Component("plans"))
	entitlements := service.NewEntitlementService(
		repos.Subscriptions, repos.Plans, repos.Users, repos.Beneficiaries,
		service.EntitlementPolicy{SubscriptionRequired: map[domain.Resource]bool{
			domain.ResourceBeneficiaries: cfg.Entitlements.BeneficiarySubscriptionRequired,
			domain.ResourceEmployees:     cfg.Entitlements.EmployeeSubscriptionRequired,
		}},
		logger.Component("entitlements"),
	)

	if err := seed(ctx, cfg.CatalogSeedFile, catalog, plans, log); err != nil {
		return err
	}

	services := api.Services{
		Auth: service.NewAuthService(
			service.AuthRepos{
				Users:         repos.Users,
				Accounts:      repos.Accounts,
				Beneficiaries: repos.Beneficiaries,
				Plans:         repos.Plans,
				Subscriptions: repos.Subscriptions,
			},
			tx,
			redisdb.NewSessionStore(rdb),
			privileges,
			service.AuthConfig{
				JWTSecret:     cfg.JWTSecret,
				TokenTTL:      cfg.Auth.TokenTTL,
				TrialPlanName: cfg.Auth.TrialPlanName,
				TrialDays:     cfg.Auth.TrialDays,
				Lockout: domain.LockoutPolicy{
					MaxFailedLogins: cfg.Auth.MaxFailedLogins,
					LockoutDuration: cfg.Auth.LockoutDuration,
				},
			},
			logger.Component("auth"),
		),
		Privileges: privileges,
		Catalog:    catalog,
		Employees: service.NewEmployeeService(
			repos.Users, repos.Accounts, repos.Positions, privileges, entitlements, tx,
			logger.Component("employees"),
		),
		Beneficiaries: service.NewBeneficiaryService(
			repos.Beneficiaries, repos.Users, entitlements, tx,
			logger.Component("beneficiaries"),
		),
		Positions:     service.NewPositionService(repos.Positions, repos.Users, logger.Component("positions")),
		Plans:         plans,
		Subscriptions: service.NewSubscriptionService(repos.Subscriptions, repos.Plans, tx, logger.Component("subscriptions")),
		AidRequests:   service.NewAidRequestService(repos.AidRequests, repos.Beneficiaries, logger.Component("aid_requests")),
	}

	// --- HTTP ---
	e := api.NewRouter(services, api.Options{
		Logger:         logger.Component("http"),
		LoginRateLimit: cfg.Auth.LoginRateLimit,
		Metrics:        true,
		Readiness: map[string]handlers.Check{
			"mongodb": handlers.MongoCheck(db),
			"redis":   handlers.RedisCheck(rdb),
		},
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// seed upserts the privilege catalog and the plans.
func seed(ctx context.Context, path string, catalog *service.CatalogService, plans *service.PlanService, log zerolog.Logger) error {
	data, err := mongodb.LoadSeed(path)
	if err != nil {
		return err
	}
	if err := catalog.Seed(ctx, data.Privileges); err != nil {
		return err
	}
	if err := plans.Seed(ctx, data.Plans); err != nil {
		return err
	}
	log.Info().
		Int("privileges", len(data.Privileges)).
		Int("plans", len(data.Plans)).
		Bool("custom", path != "").
		Msg("reference data seeded")
	return nil
}
