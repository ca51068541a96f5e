package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
)

const collectionEmployeeAccounts = "employee_accounts"

// EmployeeAccountRepository stores one lockout row per employee user.
type EmployeeAccountRepository struct {
	col *mongo.Collection
}

func NewEmployeeAccountRepository(db *mongo.Database) *EmployeeAccountRepository {
	return &EmployeeAccountRepository{col: db.Collection(collectionEmployeeAccounts)}
}

type mongoAccount struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	UserID              string             `bson:"user_id"`
	Status              string             `bson:"account_status"`
	FailedLoginAttempts int                `bson:"failed_login_attempts"`
	LockedUntil         *time.Time         `bson:"locked_until"`
	LastLogin           *time.Time         `bson:"last_login,omitempty"`
	CreatedAt           time.Time          `bson:"created_at"`
	UpdatedAt           time.Time          `bson:"updated_at"`
}

func (m mongoAccount) toDomain() *domain.EmployeeAccount {
	return &domain.EmployeeAccount{
		ID:                  m.ID.Hex(),
		UserID:              m.UserID,
		Status:              domain.AccountStatus(m.Status),
		FailedLoginAttempts: m.FailedLoginAttempts,
		LockedUntil:         m.LockedUntil,
		LastLogin:           m.LastLogin,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func (r *EmployeeAccountRepository) Create(ctx context.Context, a *domain.EmployeeAccount) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, mongoAccount{
		UserID:              a.UserID,
		Status:              string(a.Status),
		FailedLoginAttempts: a.FailedLoginAttempts,
		LockedUntil:         a.LockedUntil,
		LastLogin:           a.LastLogin,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert employee account: %w", err)
	}
	a.ID = insertedHex(res)
	return nil
}

func (r *EmployeeAccountRepository) FindByUserID(ctx context.Context, userID string) (*domain.EmployeeAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoAccount
	if err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find employee account: %w", err)
	}
	return m.toDomain(), nil
}

// Save upserts the row keyed by user id and refreshes a.ID.
func (r *EmployeeAccountRepository) Save(ctx context.Context, a *domain.EmployeeAccount) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"account_status":        string(a.Status),
			"failed_login_attempts": a.FailedLoginAttempts,
			"locked_until":          a.LockedUntil,
			"last_login":            a.LastLogin,
			"updated_at":            a.UpdatedAt,
		},
		"$setOnInsert": bson.M{"created_at": a.CreatedAt},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var m mongoAccount
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"user_id": a.UserID}, update, opts).Decode(&m); err != nil {
		return fmt.Errorf("save employee account: %w", err)
	}
	a.ID = m.ID.Hex()
	return nil
}

func (r *EmployeeAccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
