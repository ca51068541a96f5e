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
	collectionPrivileges     = "privileges"
	collectionUserPrivileges = "user_privileges"
)

// PrivilegeCatalog is the seeded privileges collection.
type PrivilegeCatalog struct {
	col *mongo.Collection
}

func NewPrivilegeCatalog(db *mongo.Database) *PrivilegeCatalog {
	return &PrivilegeCatalog{col: db.Collection(collectionPrivileges)}
}

type mongoPrivilege struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	DisplayName string             `bson:"display_name"`
	Description string             `bson:"description"`
	Category    string             `bson:"category"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (m mongoPrivilege) toDomain() *domain.Privilege {
	return &domain.Privilege{
		ID:          m.ID.Hex(),
		Name:        m.Name,
		DisplayName: m.DisplayName,
		Description: m.Description,
		Category:    m.Category,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *PrivilegeCatalog) FindByName(ctx context.Context, name string) (*domain.Privilege, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoPrivilege
	if err := r.col.FindOne(ctx, bson.M{"name": name}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPrivilegeNotFound
		}
		return nil, fmt.Errorf("find privilege: %w", err)
	}
	return m.toDomain(), nil
}

func (r *PrivilegeCatalog) List(ctx context.Context) ([]*domain.Privilege, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list privileges: %w", err)
	}
	var docs []mongoPrivilege
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode privileges: %w", err)
	}
	out := make([]*domain.Privilege, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// Upsert refreshes the entry named p.Name, inserting it when missing.
func (r *PrivilegeCatalog) Upsert(ctx context.Context, p *domain.Privilege) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"display_name": p.DisplayName,
			"description":  p.Description,
			"category":     p.Category,
			"updated_at":   p.UpdatedAt,
		},
		"$setOnInsert": bson.M{"created_at": p.CreatedAt},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var m mongoPrivilege
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"name": p.Name}, update, opts).Decode(&m); err != nil {
		return fmt.Errorf("upsert privilege %q: %w", p.Name, err)
	}
	p.ID = m.ID.Hex()
	p.CreatedAt = m.CreatedAt
	return nil
}

func (r *PrivilegeCatalog) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// GrantRepository is the relational grant store. The privilege name is
// denormalised onto each row so checks need a single query.
type GrantRepository struct {
	col *mongo.Collection
}

func NewGrantRepository(db *mongo.Database) *GrantRepository {
	return &GrantRepository{col: db.Collection(collectionUserPrivileges)}
}

type mongoGrant struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"user_id"`
	PrivilegeID string             `bson:"privilege_id"`
	Name        string             `bson:"privilege_name"`
	GrantedBy   string             `bson:"granted_by,omitempty"`
	GrantedAt   time.Time          `bson:"granted_at"`
}

func (r *GrantRepository) count(ctx context.Context, filter bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count grants: %w", err)
	}
	return n > 0, nil
}

func (r *GrantRepository) Exists(ctx context.Context, userID, name string) (bool, error) {
	return r.count(ctx, bson.M{"user_id": userID, "privilege_name": name})
}

func (r *GrantRepository) ExistsAny(ctx context.Context, userID string, names []string) (bool, error) {
	if len(names) == 0 {
		return false, nil
	}
	return r.count(ctx, bson.M{"user_id": userID, "privilege_name": bson.M{"$in": names}})
}

func (r *GrantRepository) Names(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "privilege_name", Value: 1}}).
		SetProjection(bson.M{"privilege_name": 1})
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	var docs []mongoGrant
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode grants: %w", err)
	}
	names := make([]string, 0, len(docs))
	for _, d := range docs {
		names = append(names, d.Name)
	}
	return names, nil
}

// Insert adds a grant. An existing (user, privilege) row is left as is. The
// write is an upsert so a repeated grant never aborts the surrounding
// transaction with a duplicate-key error.
func (r *GrantRepository) Insert(ctx context.Context, g *domain.PrivilegeGrant) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, update := grantUpsert(g)
	if _, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("insert grant: %w", err)
	}
	return nil
}

func grantUpsert(g *domain.PrivilegeGrant) (bson.M, bson.M) {
	filter := bson.M{"user_id": g.UserID, "privilege_id": g.PrivilegeID}
	set := bson.M{"privilege_name": g.Name, "granted_at": g.GrantedAt}
	if g.GrantedBy != "" {
		set["granted_by"] = g.GrantedBy
	}
	return filter, bson.M{"$setOnInsert": set}
}

func (r *GrantRepository) Delete(ctx context.Context, userID, privilegeID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"user_id": userID, "privilege_id": privilegeID})
	if err != nil {
		return false, fmt.Errorf("delete grant: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *GrantRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "privilege_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "privilege_name", Value: 1}}},
	})
	return err
}
