package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"opinai/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usersCollection = "Usuarios"

type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Nome         string             `bson:"nome"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"senhaHash"`
	Telefone     string             `bson:"telefone"`
	CPF          string             `bson:"cpf"`
	Foto         string             `bson:"foto"`
	IsAdmin      bool               `bson:"isAdmin"`
	Pontos       float64            `bson:"pontos"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

func (d *userDocument) toModel() *model.User {
	return &model.User{
		ID:           d.ID.Hex(),
		Nome:         d.Nome,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Telefone:     d.Telefone,
		CPF:          d.CPF,
		Foto:         d.Foto,
		IsAdmin:      d.IsAdmin,
		Pontos:       d.Pontos,
		CreatedAt:    d.CreatedAt,
	}
}

// MongoUserRepository stores users in the Usuarios collection
type MongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository creates a UserRepository backed by MongoDB
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique email index the repository relies on
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}
	return nil
}

// Create inserts a new user document
func (r *MongoUserRepository) Create(ctx context.Context, user *model.User) error {
	doc := userDocument{
		Nome:         user.Nome,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Telefone:     user.Telefone,
		CPF:          user.CPF,
		Foto:         user.Foto,
		IsAdmin:      user.IsAdmin,
		Pontos:       user.Pontos,
		CreatedAt:    user.CreatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid.Hex()
	}
	return nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toModel(), nil
}

// FindByEmail retrieves a user by email. A missing user is (nil, nil).
func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := r.findOne(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by its ObjectID hex. Malformed IDs cannot match anything
// and are reported as not found.
func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	user, err := r.findOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// Update applies the non-nil fields of upd with $set and returns the updated document
func (r *MongoUserRepository) Update(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	set := bson.M{}
	put := func(field string, value *string) {
		if value != nil {
			set[field] = *value
		}
	}
	put("nome", upd.Nome)
	put("email", upd.Email)
	put("senhaHash", upd.PasswordHash)
	put("telefone", upd.Telefone)
	put("cpf", upd.CPF)
	put("foto", upd.Foto)

	if len(set) == 0 {
		user, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrNotFound
		}
		return user, nil
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return doc.toModel(), nil
}

// IncrementPoints uses $inc so the server applies the delta to the current balance
func (r *MongoUserRepository) IncrementPoints(ctx context.Context, id string, delta float64) (float64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, ErrNotFound
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"pontos": 1})
	var doc struct {
		Pontos float64 `bson:"pontos"`
	}
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"pontos": delta}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to increment points: %w", err)
	}
	return doc.Pontos, nil
}
