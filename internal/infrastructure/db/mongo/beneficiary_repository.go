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

const (
	collectionBeneficiaries = "beneficiaries"

	indexBeneficiaryEmail = "beneficiaries_email_unique"
)

type BeneficiaryRepository struct {
	col *mongo.Collection
}

func NewBeneficiaryRepository(db *mongo.Database) *BeneficiaryRepository {
	return &BeneficiaryRepository{col: db.Collection(collectionBeneficiaries)}
}

type mongoBeneficiary struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty"`
	UserID                string             `bson:"user_id,omitempty"`
	CreatedBy             string             `bson:"created_by"`
	FirstName             string             `bson:"first_name"`
	LastName              string             `bson:"last_name"`
	Email                 string             `bson:"email"`
	Phone                 string             `bson:"phone,omitempty"`
	Address               string             `bson:"address,omitempty"`
	DateOfBirth           *time.Time         `bson:"date_of_birth,omitempty"`
	Gender                string             `bson:"gender,omitempty"`
	NationalID            string             `bson:"national_id,omitempty"`
	EmergencyContactName  string             `bson:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string             `bson:"emergency_contact_phone,omitempty"`
	FinancialInfo         bson.M             `bson:"financial_info,omitempty"`
	Status                string             `bson:"status"`
	Notes                 string             `bson:"notes,omitempty"`
	CreatedAt             time.Time          `bson:"created_at"`
	UpdatedAt             time.Time          `bson:"updated_at"`
}

func toMongoBeneficiary(b *domain.Beneficiary) mongoBeneficiary {
	return mongoBeneficiary{
		UserID:                b.UserID,
		CreatedBy:             b.CreatedBy,
		FirstName:             b.FirstName,
		LastName:              b.LastName,
		Email:                 b.Email,
		Phone:                 b.Phone,
		Address:               b.Address,
		DateOfBirth:           b.DateOfBirth,
		Gender:                b.Gender,
		NationalID:            b.NationalID,
		EmergencyContactName:  b.EmergencyContactName,
		EmergencyContactPhone: b.EmergencyContactPhone,
		FinancialInfo:         bson.M(b.FinancialInfo),
		Status:                string(b.Status),
		Notes:                 b.Notes,
		CreatedAt:             b.CreatedAt,
		UpdatedAt:             b.UpdatedAt,
	}
}

func (m mongoBeneficiary) toDomain() *domain.Beneficiary {
	return &domain.Beneficiary{
		ID:                    m.ID.Hex(),
		UserID:                m.UserID,
		CreatedBy:             m.CreatedBy,
		FirstName:             m.FirstName,
		LastName:              m.LastName,
		Email:                 m.Email,
		Phone:                 m.Phone,
		Address:               m.Address,
		DateOfBirth:           m.DateOfBirth,
		Gender:                m.Gender,
		NationalID:            m.NationalID,
		EmergencyContactName:  m.EmergencyContactName,
		EmergencyContactPhone: m.EmergencyContactPhone,
		FinancialInfo:         domain.FinancialInfo(m.FinancialInfo),
		Status:                domain.BeneficiaryStatus(m.Status),
		Notes:                 m.Notes,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

func (r *BeneficiaryRepository) Create(ctx context.Context, b *domain.Beneficiary) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toMongoBeneficiary(b))
	if err != nil {
		if duplicateOn(err, indexBeneficiaryEmail) {
			return domain.ErrBeneficiaryEmailTaken
		}
		return fmt.Errorf("insert beneficiary: %w", err)
	}
	b.ID = insertedHex(res)
	return nil
}

func (r *BeneficiaryRepository) Update(ctx context.Context, b *domain.Beneficiary) error {
	oid, ok := objectID(b.ID)
	if !ok {
		return domain.ErrBeneficiaryNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoBeneficiary(b)
	doc.ID = oid
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if duplicateOn(err, indexBeneficiaryEmail) {
			return domain.ErrBeneficiaryEmailTaken
		}
		return fmt.Errorf("update beneficiary: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBeneficiaryNotFound
	}
	return nil
}

func (r *BeneficiaryRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrBeneficiaryNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete beneficiary: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBeneficiaryNotFound
	}
	return nil
}

func (r *BeneficiaryRepository) findOne(ctx context.Context, filter bson.M) (*domain.Beneficiary, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoBeneficiary
	if err := r.col.FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBeneficiaryNotFound
		}
		return nil, fmt.Errorf("find beneficiary: %w", err)
	}
	return m.toDomain(), nil
}

func (r *BeneficiaryRepository) FindByID(ctx context.Context, id string) (*domain.Beneficiary, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrBeneficiaryNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *BeneficiaryRepository) FindOwned(ctx context.Context, id, createdBy string) (*domain.Beneficiary, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrBeneficiaryNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid, "created_by": createdBy})
}

func (r *BeneficiaryRepository) FindByUserID(ctx context.Context, userID string) (*domain.Beneficiary, error) {
	return r.findOne(ctx, bson.M{"user_id": userID})
}

func (r *BeneficiaryRepository) EmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	filter := bson.M{"email": email}
	if oid, ok := objectID(excludeID); ok {
		filter["_id"] = bson.M{"$ne": oid}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetCollation(caseInsensitive).SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count beneficiaries: %w", err)
	}
	return n > 0, nil
}

// List returns one page of the creator's profiles, newest first.
func (r *BeneficiaryRepository) List(ctx context.Context, f ports.BeneficiaryFilter) ([]*domain.Beneficiary, int64, error) {
	filter := bson.M{"created_by": f.CreatedBy}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.Search != "" {
		filter["$or"] = searchFilter(f.Search, "first_name", "last_name", "email")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count beneficiaries: %w", err)
	}

	page := f.Page.Normalize()
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list beneficiaries: %w", err)
	}
	var docs []mongoBeneficiary
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode beneficiaries: %w", err)
	}
	out := make([]*domain.Beneficiary, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, total, nil
}

func (r *BeneficiaryRepository) CountByCreator(ctx context.Context, createdBy string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"created_by": createdBy})
	if err != nil {
		return 0, fmt.Errorf("count beneficiaries by creator: %w", err)
	}
	return n, nil
}

func (r *BeneficiaryRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(indexBeneficiaryEmail).SetUnique(true).SetCollation(caseInsensitive),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"user_id": bson.M{"$exists": true}}),
		},
		{Keys: bson.D{{Key: "created_by", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}
