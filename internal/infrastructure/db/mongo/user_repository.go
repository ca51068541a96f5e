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
	collectionUsers = "users"

	indexUserEmail    = "users_email_unique"
	indexUserUsername = "users_username_unique"
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type mongoUser struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	Name               string             `bson:"name"`
	Email              string             `bson:"email"`
	Username           string             `bson:"username,omitempty"`
	PasswordHash       string             `bson:"password_hash"`
	Role               string             `bson:"role"`
	Status             string             `bson:"status"`
	Phone              string             `bson:"phone,omitempty"`
	Address            string             `bson:"address,omitempty"`
	PositionID         string             `bson:"position_id,omitempty"`
	CreatedBy          string             `bson:"created_by,omitempty"`
	OrganizationID     string             `bson:"organization_id,omitempty"`
	Privileges         []string           `bson:"privileges"`
	MustChangePassword bool               `bson:"must_change_password"`
	PasswordChangedAt  *time.Time         `bson:"password_changed_at,omitempty"`
	LastLoginAt        *time.Time         `bson:"last_login_at,omitempty"`
	CreatedAt          time.Time          `bson:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at"`
}

func toMongoUser(u *domain.User) mongoUser {
	privs := u.InlinePrivileges
	if privs == nil {
		privs = []string{}
	}
	return mongoUser{
		Name:               u.Name,
		Email:              u.Email,
		Username:           u.Username,
		PasswordHash:       u.PasswordHash,
		Role:               string(u.Role),
		Status:             string(u.Status),
		Phone:              u.Phone,
		Address:            u.Address,
		PositionID:         u.PositionID,
		CreatedBy:          u.CreatedBy,
		OrganizationID:     u.OrganizationID,
		Privileges:         privs,
		MustChangePassword: u.MustChangePassword,
		PasswordChangedAt:  u.PasswordChangedAt,
		LastLoginAt:        u.LastLoginAt,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

func (m mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:                 m.ID.Hex(),
		Name:               m.Name,
		Email:              m.Email,
		Username:           m.Username,
		PasswordHash:       m.PasswordHash,
		Role:               domain.Role(m.Role),
		Status:             domain.UserStatus(m.Status),
		Phone:              m.Phone,
		Address:            m.Address,
		PositionID:         m.PositionID,
		CreatedBy:          m.CreatedBy,
		OrganizationID:     m.OrganizationID,
		InlinePrivileges:   m.Privileges,
		MustChangePassword: m.MustChangePassword,
		PasswordChangedAt:  m.PasswordChangedAt,
		LastLoginAt:        m.LastLoginAt,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// userConflict maps a unique-index violation to its field error, or nil.
func userConflict(err error) error {
	switch {
	case duplicateOn(err, indexUserUsername):
		return domain.ErrUsernameTaken
	case duplicateOn(err, indexUserEmail):
		return domain.ErrEmailTaken
	default:
		return nil
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toMongoUser(u))
	if err != nil {
		if conflict := userConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = insertedHex(res)
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	oid, ok := objectID(u.ID)
	if !ok {
		return domain.ErrUserNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoUser(u)
	doc.ID = oid
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if conflict := userConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoUser
	if err := r.col.FindOne(ctx, filter, opts...).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return m.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, options.FindOne().SetCollation(caseInsensitive))
}

func (r *UserRepository) FindOwned(ctx context.Context, id, createdBy string, role domain.Role) (*domain.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid, "created_by": createdBy, "role": string(role)})
}

func (r *UserRepository) exists(ctx context.Context, filter bson.M, opts ...*options.CountOptions) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, filter, append(opts, options.Count().SetLimit(1))...)
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	filter := bson.M{"email": email}
	if oid, ok := objectID(excludeID); ok {
		filter["_id"] = bson.M{"$ne": oid}
	}
	return r.exists(ctx, filter, options.Count().SetCollation(caseInsensitive))
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, bson.M{"username": username})
}

// List returns one page of users, newest first.
func (r *UserRepository) List(ctx context.Context, f ports.UserFilter) ([]*domain.User, int64, error) {
	filter := bson.M{"created_by": f.CreatedBy}
	if f.Role != "" {
		filter["role"] = string(f.Role)
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.Search != "" {
		filter["$or"] = searchFilter(f.Search, "name", "email", "username")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	page := f.Page.Normalize()
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode users: %w", err)
	}

	out := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, total, nil
}

func (r *UserRepository) CountByCreator(ctx context.Context, createdBy string, role domain.Role) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"created_by": createdBy, "role": string(role)})
	if err != nil {
		return 0, fmt.Errorf("count users by creator: %w", err)
	}
	return n, nil
}

func (r *UserRepository) CountByPosition(ctx context.Context, positionID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"position_id": positionID})
	if err != nil {
		return 0, fmt.Errorf("count users by position: %w", err)
	}
	return n, nil
}

// EnsureIndexes creates the unique email and username indexes plus the
// tenant scoping index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(indexUserEmail).SetUnique(true).SetCollation(caseInsensitive),
		},
		{
			Keys: bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName(indexUserUsername).SetUnique(true).
				SetPartialFilterExpression(bson.M{"username": bson.M{"$exists": true}}),
		},
		{Keys: bson.D{{Key: "created_by", Value: 1}, {Key: "role", Value: 1}}},
		{Keys: bson.D{{Key: "position_id", Value: 1}}},
	})
	return err
}
