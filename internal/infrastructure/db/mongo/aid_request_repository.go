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
	"github.com/IvanBritz/Aidpoint1/internal/core/ports"
)

const collectionAidRequests = "aid_requests"

type AidRequestRepository struct {
	col *mongo.Collection
}

func NewAidRequestRepository(db *mongo.Database) *AidRequestRepository {
	return &AidRequestRepository{col: db.Collection(collectionAidRequests)}
}

type mongoAidRequest struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Reference       string             `bson:"reference"`
	TenantID        string             `bson:"tenant_id"`
	BeneficiaryID   string             `bson:"beneficiary_id"`
	RequestedBy     string             `bson:"requested_by"`
	RequestType     string             `bson:"request_type"`
	Amount          float64            `bson:"request_amount"`
	Description     string             `bson:"description,omitempty"`
	Priority        string             `bson:"priority"`
	Status          string             `bson:"request_status"`
	ApprovedBy      string             `bson:"approved_by,omitempty"`
	ApprovalDate    *time.Time         `bson:"approval_date,omitempty"`
	RejectionReason string             `bson:"rejection_reason,omitempty"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func toMongoAidRequest(a *domain.AidRequest) mongoAidRequest {
	return mongoAidRequest{
		Reference:       a.Reference,
		TenantID:        a.TenantID,
		BeneficiaryID:   a.BeneficiaryID,
		RequestedBy:     a.RequestedBy,
		RequestType:     a.RequestType,
		Amount:          a.Amount,
		Description:     a.Description,
		Priority:        string(a.Priority),
		Status:          string(a.Status),
		ApprovedBy:      a.ApprovedBy,
		ApprovalDate:    a.ApprovalDate,
		RejectionReason: a.RejectionReason,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func (m mongoAidRequest) toDomain() *domain.AidRequest {
	return &domain.AidRequest{
		ID:              m.ID.Hex(),
		Reference:       m.Reference,
		TenantID:        m.TenantID,
		BeneficiaryID:   m.BeneficiaryID,
		RequestedBy:     m.RequestedBy,
		RequestType:     m.RequestType,
		Amount:          m.Amount,
		Description:     m.Description,
		Priority:        domain.AidPriority(m.Priority),
		Status:          domain.AidRequestStatus(m.Status),
		ApprovedBy:      m.ApprovedBy,
		ApprovalDate:    m.ApprovalDate,
		RejectionReason: m.RejectionReason,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func (r *AidRequestRepository) Create(ctx context.Context, a *domain.AidRequest) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toMongoAidRequest(a))
	if err != nil {
		return fmt.Errorf("insert aid request: %w", err)
	}
	a.ID = insertedHex(res)
	return nil
}

func (r *AidRequestRepository) Update(ctx context.Context, a *domain.AidRequest) error {
	oid, ok := objectID(a.ID)
	if !ok {
		return domain.ErrAidRequestNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoAidRequest(a)
	doc.ID = oid
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid, "tenant_id": a.TenantID}, doc)
	if err != nil {
		return fmt.Errorf("update aid request: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAidRequestNotFound
	}
	return nil
}

func (r *AidRequestRepository) FindByTenant(ctx context.Context, id, tenantID string) (*domain.AidRequest, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrAidRequestNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoAidRequest
	if err := r.col.FindOne(ctx, bson.M{"_id": oid, "tenant_id": tenantID}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAidRequestNotFound
		}
		return nil, fmt.Errorf("find aid request: %w", err)
	}
	return m.toDomain(), nil
}

func (r *AidRequestRepository) List(ctx context.Context, f ports.AidRequestFilter) ([]*domain.AidRequest, int64, error) {
	filter := bson.M{"tenant_id": f.TenantID}
	if f.Status != "" {
		filter["request_status"] = string(f.Status)
	}
	if f.BeneficiaryID != "" {
		filter["beneficiary_id"] = f.BeneficiaryID
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count aid requests: %w", err)
	}

	page := f.Page.Normalize()
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list aid requests: %w", err)
	}
	var docs []mongoAidRequest
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode aid requests: %w", err)
	}
	out := make([]*domain.AidRequest, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, total, nil
}

func (r *AidRequestRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "reference", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}
