package article

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/bollywood/internal/articlerequest"
	"github.com/SergeyParamoshkin/bollywood/internal/articleresponse"
	"github.com/SergeyParamoshkin/bollywood/internal/errresponse"
	"github.com/SergeyParamoshkin/bollywood/internal/model"
	"github.com/SergeyParamoshkin/bollywood/internal/store"
)

// API serves the article collection over HTTP. Each handler performs a
// single store call and leaves every failure to errresponse.
type API struct {
	store store.Store
}

func NewAPI(s store.Store) *API {
	return &API{store: s}
}

// ListArticles returns every article, newest first.
func (a *API) ListArticles(w http.ResponseWriter, r *http.Request) {
	a.list(w, r, store.Filter{})
}

// ListByCategory returns the handler for one of the fixed category paths.
func (a *API) ListByCategory(category string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.list(w, r, store.Filter{Category: category})
	}
}

// ListByTag returns the articles carrying the tag in the URL.
func (a *API) ListByTag(w http.ResponseWriter, r *http.Request) {
	tag, err := tagParam(r)
	if err != nil {
		errresponse.Respond(w, r, errresponse.BadRequest(err))

		return
	}

	a.list(w, r, store.Filter{Tag: tag})
}

// tagParam returns the decoded {tag} segment. chi routes on RawPath when
// the request carries reserved escapes such as %2F, and the parameter is
// then still escaped.
func tagParam(r *http.Request) (string, error) {
	tag := chi.URLParam(r, "tag")
	if r.URL.RawPath == "" {
		return tag, nil
	}

	decoded, err := url.PathUnescape(tag)
	if err != nil {
		return "", fmt.Errorf("tag %q: %w", tag, err)
	}

	return decoded, nil
}

func (a *API) list(w http.ResponseWriter, r *http.Request, f store.Filter) {
	articles, err := a.store.Find(r.Context(), f)
	if err != nil {
		errresponse.Respond(w, r, err)

		return
	}

	if err := render.RenderList(w, r, articleresponse.NewArticleListResponse(articles)); err != nil {
		errresponse.Respond(w, r, errresponse.ErrRender(err))
	}
}

// CreateArticle persists the posted Article and returns it
// back to the client as an acknowledgement.
func (a *API) CreateArticle(w http.ResponseWriter, r *http.Request) {
	data := &articlerequest.ArticleRequest{}
	if err := render.Bind(r, data); err != nil {
		errresponse.Respond(w, r, errresponse.BadRequest(err))

		return
	}

	article := data.Article
	if err := a.store.Create(r.Context(), article); err != nil {
		errresponse.Respond(w, r, err)

		return
	}

	render.Status(r, http.StatusCreated)
	if err := render.Render(w, r, articleresponse.NewArticleResponse(article)); err != nil {
		errresponse.Respond(w, r, errresponse.ErrRender(err))
	}
}

// GetArticle returns the Article loaded by ArticleCtx.
func (a *API) GetArticle(w http.ResponseWriter, r *http.Request) {
	article, ok := ArticleFrom(r.Context())
	if !ok {
		errresponse.Respond(w, r, store.ErrNotFound)

		return
	}

	if err := render.Render(w, r, articleresponse.NewArticleResponse(article)); err != nil {
		errresponse.Respond(w, r, errresponse.ErrRender(err))
	}
}

// UpdateArticle merges the posted fields into the Article with the id in
// the URL.
func (a *API) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	data := &articlerequest.ArticlePatchRequest{}
	if err := render.Bind(r, data); err != nil {
		errresponse.Respond(w, r, errresponse.BadRequest(err))

		return
	}

	article, err := a.store.Update(r.Context(), chi.URLParam(r, paramArticle), data.ArticlePatch)
	if err != nil {
		errresponse.Respond(w, r, err)

		return
	}

	if err := render.Render(w, r, articleresponse.NewArticleResponse(article)); err != nil {
		errresponse.Respond(w, r, errresponse.ErrRender(err))
	}
}

// DeleteArticle removes an existing Article from our persistent store.
func (a *API) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := a.store.Delete(r.Context(), chi.URLParam(r, paramArticle)); err != nil {
		errresponse.Respond(w, r, err)

		return
	}

	if err := render.Render(w, r, articleresponse.NewMessageResponse(articleresponse.MessageDeleted)); err != nil {
		errresponse.Respond(w, r, errresponse.ErrRender(err))
	}
}

// Routes returns the /bollywood subtree. chi matches literal segments
// before parameters, so the category and tag paths are never captured by
// {article} no matter the order they are declared in.
func (a *API) Routes() chi.Router {
	r := chi.NewRouter()
	r.NotFound(errresponse.NotFound)
	r.MethodNotAllowed(errresponse.MethodNotAllowed)

	r.Get("/", a.ListArticles)
	r.Post("/", a.CreateArticle)

	for _, category := range model.Categories {
		r.Get("/"+category, a.ListByCategory(category))
	}
	r.Get("/tags/{tag}", a.ListByTag)

	// GET takes a slug, PUT and DELETE take the store id.
	r.Route("/{"+paramArticle+"}", func(r chi.Router) {
		r.With(a.ArticleCtx).Get("/", a.GetArticle)
		r.Put("/", a.UpdateArticle)
		r.Delete("/", a.DeleteArticle)
	})

	return r
}
