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

const collectionPositions = "positions"

type PositionRepository struct {
	col *mongo.Collection
}

func NewPositionRepository(db *mongo.Database) *PositionRepository {
	return &PositionRepository{col: db.Collection(collectionPositions)}
}

type mongoPosition struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (m mongoPosition) toDomain() *domain.Position {
	return &domain.Position{
		ID:          m.ID.Hex(),
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *PositionRepository) Create(ctx context.Context, p *domain.Position) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, mongoPosition{
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrPositionNameTaken
		}
		return fmt.Errorf("insert position: %w", err)
	}
	p.ID = insertedHex(res)
	return nil
}

func (r *PositionRepository) Update(ctx context.Context, p *domain.Position) error {
	oid, ok := objectID(p.ID)
	if !ok {
		return domain.ErrPositionNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":        p.Name,
		"description": p.Description,
		"updated_at":  p.UpdatedAt,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrPositionNameTaken
		}
		return fmt.Errorf("update position: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPositionNotFound
	}
	return nil
}

func (r *PositionRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrPositionNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete position: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPositionNotFound
	}
	return nil
}

func (r *PositionRepository) FindByID(ctx context.Context, id string) (*domain.Position, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrPositionNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoPosition
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPositionNotFound
		}
		return nil, fmt.Errorf("find position: %w", err)
	}
	return m.toDomain(), nil
}

func (r *PositionRepository) List(ctx context.Context) ([]*domain.Position, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	var docs []mongoPosition
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode positions: %w", err)
	}
	out := make([]*domain.Position, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *PositionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
