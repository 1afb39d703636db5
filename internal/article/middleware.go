package article

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SergeyParamoshkin/bollywood/internal/errresponse"
	"github.com/SergeyParamoshkin/bollywood/internal/model"
)

const paramArticle = "article"

type ctxKey int8

const ctxKeyArticle ctxKey = iota

// ArticleCtx middleware is used to load an Article object from
// the slug in the URL. In case the Article could not be found,
// we stop here and return a 404.
func (a *API) ArticleCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		article, err := a.store.GetBySlug(r.Context(), chi.URLParam(r, paramArticle))
		if err != nil {
			errresponse.Respond(w, r, err)

			return
		}

		next.ServeHTTP(w, r.WithContext(WithArticle(r.Context(), article)))
	})
}

func WithArticle(ctx context.Context, article *model.Article) context.Context {
	return context.WithValue(ctx, ctxKeyArticle, article)
}

func ArticleFrom(ctx context.Context) (*model.Article, bool) {
	article, ok := ctx.Value(ctxKeyArticle).(*model.Article)

	return article, ok && article != nil
}
