package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings required to establish a MongoDB connection.
// Transactions need the URI to point at a replica set.
type Config struct {
	URI      string
	Database string
	AppName  string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping
// against the primary, and returns both the client and the selected database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.AppName != "" {
		opts.SetAppName(cfg.AppName)
	}
	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// Repositories bundles every collection-backed repository over one database.
type Repositories struct {
	Users         *UserRepository
	Accounts      *EmployeeAccountRepository
	Privileges    *PrivilegeCatalog
	Grants        *GrantRepository
	Plans         *PlanRepository
	Subscriptions *SubscriptionRepository
	Beneficiaries *BeneficiaryRepository
	Positions     *PositionRepository
	AidRequests   *AidRequestRepository
}

func NewRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Accounts:      NewEmployeeAccountRepository(db),
		Privileges:    NewPrivilegeCatalog(db),
		Grants:        NewGrantRepository(db),
		Plans:         NewPlanRepository(db),
		Subscriptions: NewSubscriptionRepository(db),
		Beneficiaries: NewBeneficiaryRepository(db),
		Positions:     NewPositionRepository(db),
		AidRequests:   NewAidRequestRepository(db),
	}
}

func (r *Repositories) EnsureIndexes(ctx context.Context) error {
	return EnsureIndexes(ctx,
		r.Users, r.Accounts, r.Privileges, r.Grants, r.Plans,
		r.Subscriptions, r.Beneficiaries, r.Positions, r.AidRequests,
	)
}
