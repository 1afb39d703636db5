package articlerequest

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeyParamoshkin/bollywood/internal/validation"
)

func jsonRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/bollywood", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	return r
}

func TestArticleRequestBind(t *testing.T) {
	data := &ArticleRequest{}
	err := render.Bind(jsonRequest(`{
		"id": "will-be-omitted",
		"createdAt": "yesterday",
		"title": "  A  ",
		"slug": "a",
		"content": "c",
		"category": "movies",
		"tags": [" x ", "x", "y"],
		"author": {"id": "66dff02e7f39a93d2c1b1234", "name": "Test Author"}
	}`), data)
	require.NoError(t, err)

	assert.True(t, data.ID.IsZero())
	assert.Empty(t, data.ProtectedID)
	assert.Equal(t, "A", data.Title)
	assert.Equal(t, "movies", data.Category)
	assert.Equal(t, []string{"x", "y"}, data.Tags)
	assert.Equal(t, "Test Author", data.Author.Name)
}

func TestArticleRequestDerivesSlug(t *testing.T) {
	data := &ArticleRequest{}
	err := render.Bind(jsonRequest(`{"title":"Jawan Crosses 1000 Crore!","content":"c","category":"boxoffice"}`), data)
	require.NoError(t, err)

	assert.Equal(t, "jawan-crosses-1000-crore", data.Slug)
	assert.Equal(t, []string{}, data.Tags)
}

func TestArticleRequestUnderivableSlug(t *testing.T) {
	err := render.Bind(jsonRequest(`{"title":"जवान की कमाई","content":"c","category":"boxoffice"}`), &ArticleRequest{})

	var verr *validation.Error
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Equal(t, msgSlugNotDerived, verr.Fields["slug"])
	assert.Contains(t, err.Error(), "could not be derived from title")
}

func TestArticleRequestMissingTitleKeepsRequiredSlug(t *testing.T) {
	err := render.Bind(jsonRequest(`{"content":"c","category":"movies"}`), &ArticleRequest{})

	var verr *validation.Error
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Equal(t, "title is required", verr.Fields["title"])
	assert.Equal(t, "slug is required", verr.Fields["slug"])
}

func TestArticleRequestRejects(t *testing.T) {
	cases := map[string]string{
		"unknown category": `{"title":"A","slug":"a","content":"c","category":"Bollywood"}`,
		"missing content":  `{"title":"A","slug":"a","category":"movies"}`,
		"missing title":    `{"slug":"a","content":"c","category":"movies"}`,
		"bad slug":         `{"title":"A","slug":"Not a slug","content":"c","category":"movies"}`,
		"blank tag":        `{"title":"A","slug":"a","content":"c","category":"movies","tags":["x"," "]}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			err := render.Bind(jsonRequest(body), &ArticleRequest{})

			var verr *validation.Error
			assert.True(t, errors.As(err, &verr), "got %v", err)
		})
	}
}

func TestArticleRequestMissingFields(t *testing.T) {
	err := render.Bind(jsonRequest(`{"id":"x"}`), &ArticleRequest{})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestArticleRequestMalformedJSON(t *testing.T) {
	assert.Error(t, render.Bind(jsonRequest(`{"title":`), &ArticleRequest{}))
	assert.Error(t, render.Bind(jsonRequest(`{"tags":"x"}`), &ArticleRequest{}))
}

func TestPatchRequestBind(t *testing.T) {
	data := &ArticlePatchRequest{}
	require.NoError(t, render.Bind(jsonRequest(`{"title":" X ","tags":["a","a"]}`), data))

	require.NotNil(t, data.Title)
	assert.Equal(t, "X", *data.Title)
	require.NotNil(t, data.Tags)
	assert.Equal(t, []string{"a"}, *data.Tags)
	assert.Nil(t, data.Content)
	assert.Nil(t, data.Category)
}

func TestPatchRequestRejects(t *testing.T) {
	assert.ErrorIs(t, render.Bind(jsonRequest(`{}`), &ArticlePatchRequest{}), ErrEmptyPatch)
	assert.ErrorIs(t, render.Bind(jsonRequest(`{"id":"abc"}`), &ArticlePatchRequest{}), ErrEmptyPatch)

	for _, body := range []string{
		`{"category":"gossip"}`,
		`{"title":""}`,
		`{"slug":"Bad Slug"}`,
		`{"content":""}`,
		`{"tags":[""]}`,
	} {
		var verr *validation.Error
		err := render.Bind(jsonRequest(body), &ArticlePatchRequest{})
		assert.True(t, errors.As(err, &verr), "%s: got %v", body, err)
	}
}
