package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoUserStore struct {
	coll *mongo.Collection
}

// NewMongoUserStore uses an already-connected client. Unique indexes on
// username and email are the sole concurrency-safety mechanism for racing
// registrations; a race surfaces as a duplicate-key write error.
func NewMongoUserStore(ctx context.Context, cli *mongo.Client, dbName, collName string) (*MongoUserStore, error) {
	c := cli.Database(dbName).Collection(collName)

	_, err := c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}
	_, err = c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}

	return &MongoUserStore{coll: c}, nil
}

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Email     string             `bson:"email"`
	PassHash  string             `bson:"pass_hash"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (s *MongoUserStore) Add(ctx context.Context, u *User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	doc := userDoc{
		ID:        primitive.NewObjectID(),
		Username:  strings.TrimSpace(u.Username),
		Email:     NormalizeEmail(u.Email),
		PassHash:  u.PassHash,
		CreatedAt: time.Now(),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return mapDuplicateKey(err)
	}
	u.ID = doc.ID.Hex()
	u.Email = doc.Email
	u.CreatedAt = doc.CreatedAt
	return nil
}

// mapDuplicateKey turns a unique-index violation (code 11000) into the
// field-level conflict sentinel so handlers can report which field collided.
func mapDuplicateKey(err error) error {
	var wex mongo.WriteException
	if !errors.As(err, &wex) {
		return err
	}
	for _, we := range wex.WriteErrors {
		if we.Code != 11000 {
			continue
		}
		if strings.Contains(we.Message, "email") {
			return ErrEmailTaken
		}
		return ErrUsernameTaken
	}
	return err
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx, bson.M{"email": NormalizeEmail(email)})
}

func (s *MongoUserStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	return s.findOne(ctx, bson.M{"username": username})
}

func (s *MongoUserStore) findOne(ctx context.Context, filter any) (*User, error) {
	var doc userDoc
	err := s.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &User{
		ID:        doc.ID.Hex(),
		Username:  doc.Username,
		Email:     doc.Email,
		PassHash:  doc.PassHash,
		CreatedAt: doc.CreatedAt,
	}, nil
}

func (s *MongoUserStore) RemoveByUsernames(ctx context.Context, usernames []string) error {
	if len(usernames) == 0 {
		return nil
	}
	_, err := s.coll.DeleteMany(ctx, bson.M{"username": bson.M{"$in": usernames}})
	return err
}

// UsernamesByID batch-resolves user ids to usernames for post listings.
// Unknown ids are simply absent from the result.
func (s *MongoUserStore) UsernamesByID(ctx context.Context, ids []string) (map[string]string, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	out := map[string]string{}
	if len(oids) == 0 {
		return out, nil
	}

	cur, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc userDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out[doc.ID.Hex()] = doc.Username
	}
	return out, cur.Err()
}
