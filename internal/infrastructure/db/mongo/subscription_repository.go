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

const (
	collectionPlans         = "plans"
	collectionSubscriptions = "subscriptions"
)

type PlanRepository struct {
	col *mongo.Collection
}

func NewPlanRepository(db *mongo.Database) *PlanRepository {
	return &PlanRepository{col: db.Collection(collectionPlans)}
}

type mongoPlan struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Name             string             `bson:"name"`
	Description      string             `bson:"description"`
	Price            float64            `bson:"price"`
	DurationDays     int                `bson:"duration_days"`
	MaxBeneficiaries int                `bson:"max_beneficiaries"`
	MaxEmployees     int                `bson:"max_employees"`
	Features         []string           `bson:"features"`
	IsActive         bool               `bson:"is_active"`
	CreatedAt        time.Time          `bson:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at"`
}

func (m mongoPlan) toDomain() *domain.Plan {
	return &domain.Plan{
		ID:               m.ID.Hex(),
		Name:             m.Name,
		Description:      m.Description,
		Price:            m.Price,
		DurationDays:     m.DurationDays,
		MaxBeneficiaries: m.MaxBeneficiaries,
		MaxEmployees:     m.MaxEmployees,
		Features:         m.Features,
		IsActive:         m.IsActive,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func (r *PlanRepository) findOne(ctx context.Context, filter bson.M) (*domain.Plan, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoPlan
	if err := r.col.FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, fmt.Errorf("find plan: %w", err)
	}
	return m.toDomain(), nil
}

func (r *PlanRepository) FindByID(ctx context.Context, id string) (*domain.Plan, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrPlanNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *PlanRepository) FindByName(ctx context.Context, name string) (*domain.Plan, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *PlanRepository) ListActive(ctx context.Context) ([]*domain.Plan, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"is_active": true}, options.Find().SetSort(bson.D{{Key: "price", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	var docs []mongoPlan
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode plans: %w", err)
	}
	out := make([]*domain.Plan, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// Upsert refreshes the plan named p.Name, inserting it when missing.
func (r *PlanRepository) Upsert(ctx context.Context, p *domain.Plan) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	features := p.Features
	if features == nil {
		features = []string{}
	}
	update := bson.M{
		"$set": bson.M{
			"description":       p.Description,
			"price":             p.Price,
			"duration_days":     p.DurationDays,
			"max_beneficiaries": p.MaxBeneficiaries,
			"max_employees":     p.MaxEmployees,
			"features":          features,
			"is_active":         p.IsActive,
			"updated_at":        p.UpdatedAt,
		},
		"$setOnInsert": bson.M{"created_at": p.CreatedAt},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var m mongoPlan
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"name": p.Name}, update, opts).Decode(&m); err != nil {
		return fmt.Errorf("upsert plan %q: %w", p.Name, err)
	}
	p.ID = m.ID.Hex()
	p.CreatedAt = m.CreatedAt
	return nil
}

func (r *PlanRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

type SubscriptionRepository struct {
	col *mongo.Collection
}

func NewSubscriptionRepository(db *mongo.Database) *SubscriptionRepository {
	return &SubscriptionRepository{col: db.Collection(collectionSubscriptions)}
}

type mongoSubscription struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	UserID        string             `bson:"user_id"`
	PlanID        string             `bson:"plan_id"`
	Status        string             `bson:"status"`
	StartDate     time.Time          `bson:"start_date"`
	EndDate       time.Time          `bson:"end_date"`
	IsTrial       bool               `bson:"is_trial"`
	TrialEndsAt   *time.Time         `bson:"trial_ends_at,omitempty"`
	PaymentStatus string             `bson:"payment_status"`
	AmountPaid    float64            `bson:"amount_paid"`
	CancelledAt   *time.Time         `bson:"cancelled_at,omitempty"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func toMongoSubscription(s *domain.Subscription) mongoSubscription {
	return mongoSubscription{
		UserID:        s.UserID,
		PlanID:        s.PlanID,
		Status:        string(s.Status),
		StartDate:     s.StartDate,
		EndDate:       s.EndDate,
		IsTrial:       s.IsTrial,
		TrialEndsAt:   s.TrialEndsAt,
		PaymentStatus: string(s.PaymentStatus),
		AmountPaid:    s.AmountPaid,
		CancelledAt:   s.CancelledAt,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// toDomain leaves Plan nil; callers load it when they need it.
func (m mongoSubscription) toDomain() *domain.Subscription {
	return &domain.Subscription{
		ID:            m.ID.Hex(),
		UserID:        m.UserID,
		PlanID:        m.PlanID,
		Status:        domain.SubscriptionStatus(m.Status),
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
		IsTrial:       m.IsTrial,
		TrialEndsAt:   m.TrialEndsAt,
		PaymentStatus: domain.PaymentStatus(m.PaymentStatus),
		AmountPaid:    m.AmountPaid,
		CancelledAt:   m.CancelledAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func (r *SubscriptionRepository) Create(ctx context.Context, s *domain.Subscription) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toMongoSubscription(s))
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	s.ID = insertedHex(res)
	return nil
}

func (r *SubscriptionRepository) Update(ctx context.Context, s *domain.Subscription) error {
	oid, ok := objectID(s.ID)
	if !ok {
		return domain.ErrSubscriptionNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoSubscription(s)
	doc.ID = oid
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrSubscriptionNotFound
	}
	return nil
}

func (r *SubscriptionRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.Subscription, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoSubscription
	if err := r.col.FindOne(ctx, filter, opts...).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("find subscription: %w", err)
	}
	return m.toDomain(), nil
}

func (r *SubscriptionRepository) FindActiveByUser(ctx context.Context, userID string) (*domain.Subscription, error) {
	return r.findOne(ctx,
		bson.M{"user_id": userID, "status": string(domain.SubscriptionActive)},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
}

func (r *SubscriptionRepository) FindOwned(ctx context.Context, id, userID string) (*domain.Subscription, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrSubscriptionNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid, "user_id": userID})
}

func (r *SubscriptionRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Subscription, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	var docs []mongoSubscription
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode subscriptions: %w", err)
	}
	out := make([]*domain.Subscription, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *SubscriptionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
