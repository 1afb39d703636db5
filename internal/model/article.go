package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recognized article categories. Each one has its own listing endpoint.
const (
	CategoryTrending    = "trending"
	CategoryMovies      = "movies"
	CategoryCelebrities = "celebrities"
	CategoryBoxOffice   = "boxoffice"
)

// Categories lists the recognized categories in the order they are documented.
var Categories = []string{
	CategoryTrending,
	CategoryMovies,
	CategoryCelebrities,
	CategoryBoxOffice,
}

// IsCategory reports whether c is one of the recognized categories.
func IsCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}

	return false
}

// Author is embedded in every Article. ID is free-form and never resolved.
type Author struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

// Article data model, stored as one document per article.
type Article struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	Title       string             `json:"title" bson:"title" validate:"required,max=300"`
	Slug        string             `json:"slug" bson:"slug" validate:"required,slug,max=200"`
	Content     string             `json:"content" bson:"content" validate:"required"`
	Excerpt     string             `json:"excerpt,omitempty" bson:"excerpt,omitempty" validate:"max=1000"`
	Author      *Author            `json:"author,omitempty" bson:"author,omitempty"`
	Category    string             `json:"category" bson:"category" validate:"required,category"`
	Tags        []string           `json:"tags" bson:"tags" validate:"dive,required,max=64"`
	PublishedAt time.Time          `json:"publishedAt" bson:"publishedAt"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Clone returns a deep copy of a.
func (a *Article) Clone() *Article {
	c := *a
	if a.Author != nil {
		author := *a.Author
		c.Author = &author
	}
	if a.Tags != nil {
		c.Tags = append([]string(nil), a.Tags...)
	}

	return &c
}

// HasTag reports whether tag is one of a's tags.
func (a *Article) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}

	return false
}

// ArticlePatch carries a partial update. Nil fields are left untouched.
type ArticlePatch struct {
	Title       *string    `json:"title,omitempty"`
	Slug        *string    `json:"slug,omitempty"`
	Content     *string    `json:"content,omitempty"`
	Excerpt     *string    `json:"excerpt,omitempty"`
	Author      *Author    `json:"author,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Tags        *[]string  `json:"tags,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p *ArticlePatch) Empty() bool {
	return p.Title == nil && p.Slug == nil && p.Content == nil && p.Excerpt == nil &&
		p.Author == nil && p.Category == nil && p.Tags == nil && p.PublishedAt == nil
}

// Apply copies the present fields of p onto a.
func (p *ArticlePatch) Apply(a *Article) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Slug != nil {
		a.Slug = *p.Slug
	}
	if p.Content != nil {
		a.Content = *p.Content
	}
	if p.Excerpt != nil {
		a.Excerpt = *p.Excerpt
	}
	if p.Author != nil {
		author := *p.Author
		a.Author = &author
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.Tags != nil {
		a.Tags = append([]string{}, (*p.Tags)...)
	}
	if p.PublishedAt != nil {
		a.PublishedAt = *p.PublishedAt
	}
}
