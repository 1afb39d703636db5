package article

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeyParamoshkin/bollywood/internal/model"
	"github.com/SergeyParamoshkin/bollywood/internal/store"
	"github.com/SergeyParamoshkin/bollywood/internal/store/memstore"
)

// brokenStore fails every call with err.
type brokenStore struct {
	err error
}

func (b brokenStore) Find(context.Context, store.Filter) ([]*model.Article, error) { return nil, b.err }
func (b brokenStore) GetBySlug(context.Context, string) (*model.Article, error) { return nil, b.err }
func (b brokenStore) Create(context.Context, *model.Article) error { return b.err }
func (b brokenStore) Delete(context.Context, string) error { return b.err }
func (b brokenStore) Ping(context.Context) error { return b.err }
func (b brokenStore) Update(context.Context, string, *model.ArticlePatch) (*model.Article, error) {
	return nil, b.err
}

func serve(s store.Store, method, path, body string) *httptest.ResponseRecorder {
	h := render.SetContentType(render.ContentTypeJSON)(NewAPI(s).Routes())

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	return w
}

const validBody = `{"title":"A","slug":"a","content":"c","category":"movies"}`

func TestStoreFailuresAre500(t *testing.T) {
	s := brokenStore{err: errors.New("no reachable servers")}

	cases := []struct{ method, path, body string }{
		{http.MethodGet, "/", ""},
		{http.MethodGet, "/trending", ""},
		{http.MethodGet, "/movies", ""},
		{http.MethodGet, "/celebrities", ""},
		{http.MethodGet, "/boxoffice", ""},
		{http.MethodGet, "/tags/x", ""},
		{http.MethodGet, "/a", ""},
		{http.MethodPost, "/", validBody},
		{http.MethodPut, "/64b7f0c2a1b2c3d4e5f60718", `{"title":"X"}`},
		{http.MethodDelete, "/64b7f0c2a1b2c3d4e5f60718", ""},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := serve(s, tc.method, tc.path, tc.body)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.JSONEq(t, `{"message":"Something went wrong","error":"no reachable servers"}`, w.Body.String())
		})
	}
}

func TestStoreTimeoutIs504(t *testing.T) {
	s := brokenStore{err: fmt.Errorf("mongostore: find: %w", context.DeadlineExceeded)}

	assert.Equal(t, http.StatusGatewayTimeout, serve(s, http.MethodGet, "/", "").Code)
}

func TestValidationHappensBeforeStore(t *testing.T) {
	s := brokenStore{err: errors.New("must not be called")}

	assert.Equal(t, http.StatusBadRequest, serve(s, http.MethodPost, "/", `{"title":"A"}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(s, http.MethodPut, "/64b7f0c2a1b2c3d4e5f60718", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(s, http.MethodPut, "/64b7f0c2a1b2c3d4e5f60718", `{"category":"gossip"}`).Code)
}

func TestCreateIgnoresClientID(t *testing.T) {
	s := memstore.New()

	w := serve(s, http.MethodPost, "/", `{"id":"will-be-omitted","title":"A","slug":"a","content":"c","category":"movies"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "will-be-omitted")

	got, err := s.GetBySlug(context.Background(), "a")
	require.NoError(t, err)
	assert.Contains(t, w.Body.String(), got.ID.Hex())
}

func TestArticleCtx(t *testing.T) {
	s := memstore.New()
	a := &model.Article{Title: "A", Slug: "a", Content: "c", Category: model.CategoryMovies}
	require.NoError(t, s.Create(context.Background(), a))

	var seen *model.Article
	h := NewAPI(s).ArticleCtx(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ArticleFrom(r.Context())
	}))

	r := chiRequest(http.MethodGet, "/a", "a")
	h.ServeHTTP(httptest.NewRecorder(), r)
	require.NotNil(t, seen)
	assert.Equal(t, a.ID, seen.ID)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, chiRequest(http.MethodGet, "/b", "b"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestArticleFromEmpty(t *testing.T) {
	_, ok := ArticleFrom(context.Background())
	assert.False(t, ok)
}

func chiRequest(method, path, slug string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(paramArticle, slug)

	r := httptest.NewRequest(method, path, nil)

	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
