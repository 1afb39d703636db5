// Package store defines the persistence contract for articles. The
// implementations live in mongostore and memstore.
package store

import (
	"context"
	"errors"

	"github.com/SergeyParamoshkin/bollywood/internal/model"
)

var (
	// ErrNotFound is returned when no article matches an id or slug. A
	// malformed id is reported the same way.
	ErrNotFound = errors.New("news not found")
	// ErrDuplicateSlug is returned when a create or update would give two
	// articles the same slug.
	ErrDuplicateSlug = errors.New("slug already exists")
	// ErrTimeout is returned when the backing database did not answer in
	// time.
	ErrTimeout = errors.New("store timeout")
)

// Filter narrows Find. Zero fields match everything.
type Filter struct {
	Category string
	Tag      string
}

// Store is a collection of articles.
//
// Find returns matches newest publishedAt first. Create assigns ID and
// timestamps on a. Update and Delete return ErrNotFound for unknown ids.
type Store interface {
	Find(ctx context.Context, f Filter) ([]*model.Article, error)
	GetBySlug(ctx context.Context, slug string) (*model.Article, error)
	Create(ctx context.Context, a *model.Article) error
	Update(ctx context.Context, id string, p *model.ArticlePatch) (*model.Article, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
