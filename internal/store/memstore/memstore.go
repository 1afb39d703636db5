// Package memstore keeps articles in process memory. It backs the test
// suites and the "memory" store driver.
package memstore

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SergeyParamoshkin/bollywood/internal/model"
	"github.com/SergeyParamoshkin/bollywood/internal/store"
)

// Store is a store.Store guarded by a single RWMutex. Articles are copied
// on the way in and out so callers never share memory with the store.
type Store struct {
	mu       sync.RWMutex
	articles map[primitive.ObjectID]*model.Article
	now      func() time.Time
}

var _ store.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		articles: make(map[primitive.ObjectID]*model.Article),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Store) Find(ctx context.Context, f store.Filter) ([]*model.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Article, 0, len(s.articles))
	for _, a := range s.articles {
		if f.Category != "" && a.Category != f.Category {
			continue
		}
		if f.Tag != "" && !a.HasTag(f.Tag) {
			continue
		}
		out = append(out, a.Clone())
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].PublishedAt.Equal(out[j].PublishedAt) {
			return out[i].PublishedAt.After(out[j].PublishedAt)
		}

		return bytes.Compare(out[i].ID[:], out[j].ID[:]) > 0
	})

	return out, nil
}

func (s *Store) GetBySlug(ctx context.Context, slug string) (*model.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if a := s.bySlug(slug); a != nil {
		return a.Clone(), nil
	}

	return nil, store.ErrNotFound
}

func (s *Store) Create(ctx context.Context, a *model.Article) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bySlug(a.Slug) != nil {
		return store.ErrDuplicateSlug
	}

	now := s.now().UTC()
	a.ID = primitive.NewObjectID()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.PublishedAt.IsZero() {
		a.PublishedAt = now
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	s.articles[a.ID] = a.Clone()

	return nil
}

func (s *Store) Update(ctx context.Context, id string, p *model.ArticlePatch) (*model.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.articles[oid]
	if !ok {
		return nil, store.ErrNotFound
	}
	if p.Slug != nil && *p.Slug != current.Slug {
		if s.bySlug(*p.Slug) != nil {
			return nil, store.ErrDuplicateSlug
		}
	}

	updated := current.Clone()
	p.Apply(updated)
	updated.UpdatedAt = s.now().UTC()
	s.articles[oid] = updated

	return updated.Clone(), nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.articles[oid]; !ok {
		return store.ErrNotFound
	}
	delete(s.articles, oid)

	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// bySlug must be called with mu held.
func (s *Store) bySlug(slug string) *model.Article {
	for _, a := range s.articles {
		if a.Slug == slug {
			return a
		}
	}

	return nil
}
