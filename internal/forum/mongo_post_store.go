package forum

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoPostStore struct {
	coll  *mongo.Collection
	names UsernameResolver
}

// NewMongoPostStore uses an already-connected client. The category index
// backs both the filter and the distinct query.
func NewMongoPostStore(ctx context.Context, cli *mongo.Client, dbName, collName string, names UsernameResolver) (*MongoPostStore, error) {
	c := cli.Database(dbName).Collection(collName)

	_, err := c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "category", Value: 1}},
	})
	if err != nil {
		return nil, err
	}

	return &MongoPostStore{coll: c, names: names}, nil
}

type postDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Category  string             `bson:"category"`
	AuthorID  primitive.ObjectID `bson:"author"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (s *MongoPostStore) Insert(ctx context.Context, p *Post) error {
	if p == nil {
		return errors.New("post is nil")
	}
	authorID, err := primitive.ObjectIDFromHex(p.AuthorID)
	if err != nil {
		return errors.New("invalid author id")
	}
	now := time.Now()
	doc := postDoc{
		ID:        primitive.NewObjectID(),
		Title:     p.Title,
		Content:   p.Content,
		Category:  NormalizeCategory(p.Category),
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	p.ID = doc.ID.Hex()
	p.Category = doc.Category
	p.CreatedAt = doc.CreatedAt
	p.UpdatedAt = doc.UpdatedAt
	return nil
}

func (s *MongoPostStore) List(ctx context.Context, category string) ([]Post, error) {
	filter := bson.M{}
	if category != "" && category != CategoryAll {
		filter["category"] = category
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Post
	for cur.Next(ctx) {
		var doc postDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, Post{
			ID:        doc.ID.Hex(),
			Title:     doc.Title,
			Content:   doc.Content,
			Category:  doc.Category,
			AuthorID:  doc.AuthorID.Hex(),
			CreatedAt: doc.CreatedAt,
			UpdatedAt: doc.UpdatedAt,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return resolveAuthors(ctx, s.names, out)
}

func (s *MongoPostStore) Categories(ctx context.Context) ([]string, error) {
	raw, err := s.coll.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if name, ok := v.(string); ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *MongoPostStore) RemoveByCategories(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	_, err := s.coll.DeleteMany(ctx, bson.M{"category": bson.M{"$in": names}})
	return err
}
