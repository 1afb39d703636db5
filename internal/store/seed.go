package store

import (
	"context"
	"errors"

	"github.com/SergeyParamoshkin/bollywood/internal/model"
)

// SampleSlug is the slug of the article inserted by Seed.
const SampleSlug = "test-bollywood-news"

// Sample returns the article Seed inserts.
func Sample() *model.Article {
	return &model.Article{
		Title:   "Test Bollywood News",
		Slug:    SampleSlug,
		Content: "This is just a test article for Bollywood collection.",
		Excerpt: "This is a short test excerpt.",
		Author: &model.Author{
			ID:   "66dff02e7f39a93d2c1b1234",
			Name: "Test Author",
		},
		Category: model.CategoryTrending,
		Tags:     []string{"test", "bollywood"},
	}
}

// Seed makes sure the sample article exists. created is false when it was
// already there.
func Seed(ctx context.Context, s Store) (a *model.Article, created bool, err error) {
	a = Sample()

	err = s.Create(ctx, a)
	if errors.Is(err, ErrDuplicateSlug) {
		a, err = s.GetBySlug(ctx, SampleSlug)

		return a, false, err
	}
	if err != nil {
		return nil, false, err
	}

	return a, true, nil
}
