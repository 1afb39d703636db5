// client_test.go
//go:build !integration
// +build !integration

package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/bollywood/internal/server"
	"github.com/SergeyParamoshkin/bollywood/internal/store/memstore"
)

func newClient(t *testing.T) *Client {
	t.Helper()

	ts := httptest.NewServer(server.NewRouter(server.Options{
		Store:  memstore.New(),
		Logger: zap.NewNop().Sugar(),
	}))
	t.Cleanup(ts.Close)

	return &Client{Addr: ts.URL, Client: http.Client{}}
}

func TestPing(t *testing.T) {
	s, err := newClient(t).Ping()
	require.NoError(t, err)
	assert.Equal(t, "pong", s)
}

func TestLifecycle(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	created, err := c.Create(ctx, &Article{
		Title: "A", Slug: "a", Content: "c", Category: "movies", Tags: []string{"x"},
		Author: &Author{ID: "1", Name: "Test Author"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := c.GetBySlug(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Test Author", got.Author.Name)

	movies, err := c.ListByCategory(ctx, "movies")
	require.NoError(t, err)
	assert.Len(t, movies, 1)

	tagged, err := c.ListByTag(ctx, "x")
	require.NoError(t, err)
	assert.Len(t, tagged, 1)

	updated, err := c.Update(ctx, created.ID, map[string]interface{}{"title": "X"})
	require.NoError(t, err)
	assert.Equal(t, "X", updated.Title)
	assert.Equal(t, "c", updated.Content)

	all, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, c.Delete(ctx, created.ID))

	_, err = c.GetBySlug(ctx, "a")
	assert.True(t, IsNotFound(err), "got %v", err)
	assert.True(t, IsNotFound(c.Delete(ctx, created.ID)))
}

func TestAPIError(t *testing.T) {
	c := newClient(t)

	_, err := c.Create(context.Background(), &Article{Title: "A", Content: "c", Category: "gossip"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Invalid request.", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "category")
}

func TestListByTagEscapes(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	_, err := c.Create(ctx, &Article{
		Title: "Rock", Slug: "rock", Content: "c", Category: "trending", Tags: []string{"AC/DC"},
	})
	require.NoError(t, err)

	tagged, err := c.ListByTag(ctx, "AC/DC")
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, "rock", tagged[0].Slug)
}
