// Package mongostore persists articles in a MongoDB collection.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/SergeyParamoshkin/bollywood/internal/model"
	"github.com/SergeyParamoshkin/bollywood/internal/store"
)

// DefaultCollection matches the collection name the articles have always
// been stored under.
const DefaultCollection = "bollywoodnews"

// Config selects the database, collection and per call timeout.
type Config struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// Store is a store.Store over one MongoDB collection.
type Store struct {
	client  *mongo.Client
	coll    *mongo.Collection
	timeout time.Duration
	now     func() time.Time
}

var _ store.Store = (*Store)(nil)

// Connect dials MongoDB, pings the primary and makes sure the indexes
// exist. Any failure is returned so the caller can refuse to start.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongostore: empty connection string")
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, wrapErr("connect", err)
	}

	s := New(client.Database(cfg.Database).Collection(cfg.Collection), cfg.Timeout)
	s.client = client

	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())

		return nil, err
	}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())

		return nil, err
	}

	return s, nil
}

// New wraps an existing collection. timeout bounds every call; zero means
// the caller's context alone decides.
func New(coll *mongo.Collection, timeout time.Duration) *Store {
	return &Store{
		coll:    coll,
		timeout: timeout,
		now:     time.Now,
	}
}

// Close disconnects the client opened by Connect.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}

	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique slug index and the indexes behind the
// listing queries.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("slug_unique"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "publishedAt", Value: -1}},
			Options: options.Index().SetName("category_published"),
		},
		{
			Keys:    bson.D{{Key: "tags", Value: 1}},
			Options: options.Index().SetName("tags"),
		},
		{
			Keys:    bson.D{{Key: "publishedAt", Value: -1}},
			Options: options.Index().SetName("published"),
		},
	})
	if err != nil {
		return wrapErr("create indexes", err)
	}

	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.coll.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		return wrapErr("ping", err)
	}

	return nil
}

func (s *Store) Find(ctx context.Context, f store.Filter) ([]*model.Article, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "publishedAt", Value: -1},
		{Key: "_id", Value: -1},
	})

	cur, err := s.coll.Find(ctx, filterDoc(f), opts)
	if err != nil {
		return nil, wrapErr("find", err)
	}
	defer cur.Close(ctx)

	out := make([]*model.Article, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, wrapErr("decode", err)
	}

	return out, nil
}

func (s *Store) GetBySlug(ctx context.Context, slug string) (*model.Article, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var a model.Article
	err := s.coll.FindOne(ctx, bson.M{"slug": slug}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("find by slug", err)
	}

	return &a, nil
}

func (s *Store) Create(ctx context.Context, a *model.Article) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	now := s.now().UTC().Truncate(time.Millisecond)
	a.ID = primitive.NewObjectID()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.PublishedAt.IsZero() {
		a.PublishedAt = now
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}

	if _, err := s.coll.InsertOne(ctx, a); err != nil {
		a.ID = primitive.NilObjectID
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicateSlug
		}

		return wrapErr("insert", err)
	}

	return nil
}

func (s *Store) Update(ctx context.Context, id string, p *model.ArticlePatch) (*model.Article, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrNotFound
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": setDoc(p, s.now().UTC().Truncate(time.Millisecond))}

	var a model.Article
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&a)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return nil, store.ErrDuplicateSlug
	case err != nil:
		return nil, wrapErr("update", err)
	}

	return &a, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.ErrNotFound
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return wrapErr("delete", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}

	return nil
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, s.timeout)
}

// wrapErr tags driver timeouts with store.ErrTimeout. The driver reports
// them in several shapes (context deadline, deadline would be exceeded,
// server selection, MaxTimeMS), not all of which unwrap to
// context.DeadlineExceeded.
func wrapErr(op string, err error) error {
	if mongo.IsTimeout(err) {
		return fmt.Errorf("mongostore: %s: %w: %w", op, store.ErrTimeout, err)
	}

	return fmt.Errorf("mongostore: %s: %w", op, err)
}

func filterDoc(f store.Filter) bson.M {
	doc := bson.M{}
	if f.Category != "" {
		doc["category"] = f.Category
	}
	if f.Tag != "" {
		// equality against an array field matches any element
		doc["tags"] = f.Tag
	}

	return doc
}

// setDoc is never empty: updatedAt is always written.
func setDoc(p *model.ArticlePatch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Slug != nil {
		set["slug"] = *p.Slug
	}
	if p.Content != nil {
		set["content"] = *p.Content
	}
	if p.Excerpt != nil {
		set["excerpt"] = *p.Excerpt
	}
	if p.Author != nil {
		set["author"] = *p.Author
	}
	if p.Category != nil {
		set["category"] = *p.Category
	}
	if p.Tags != nil {
		set["tags"] = *p.Tags
	}
	if p.PublishedAt != nil {
		set["publishedAt"] = *p.PublishedAt
	}

	return set
}
