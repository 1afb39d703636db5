// Package server assembles the middleware chain and the route table.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/bollywood/internal/article"
	"github.com/SergeyParamoshkin/bollywood/internal/errresponse"
	"github.com/SergeyParamoshkin/bollywood/internal/logging"
	"github.com/SergeyParamoshkin/bollywood/internal/middleware"
	"github.com/SergeyParamoshkin/bollywood/internal/store"
	"github.com/SergeyParamoshkin/bollywood/internal/telemetry"
)

// RootMessage is the body of GET /.
const RootMessage = "Bollywood News API is running..."

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Options are the collaborators NewRouter wires together. Metrics and
// RateLimiter are optional.
type Options struct {
	Store       store.Store
	Logger      *zap.SugaredLogger
	Metrics     *telemetry.Metrics
	RateLimiter *middleware.RateLimiter
	CORSOrigins []string
}

// NewRouter returns the public API router.
func NewRouter(o Options) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(o.Logger))
	if o.Metrics != nil {
		r.Use(o.Metrics.Handler)
	}
	r.Use(middleware.Recoverer)
	r.Use(chimiddleware.StripSlashes)
	r.Use(middleware.SecureHeaders)
	if len(o.CORSOrigins) > 0 {
		r.Use(middleware.CORS(o.CORSOrigins))
	}
	if o.RateLimiter != nil {
		r.Use(o.RateLimiter.Handler)
	}
	r.Use(chimiddleware.RequestSize(maxBodyBytes))
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.NotFound(errresponse.NotFound)
	r.MethodNotAllowed(errresponse.MethodNotAllowed)

	r.Get("/", plain(RootMessage))
	r.Get("/ping", plain("pong"))

	r.Mount("/bollywood", article.NewAPI(o.Store).Routes())

	return r
}

// NewDiagRouter serves metrics and the store health check.
func NewDiagRouter(metrics http.Handler, s store.Store, logger *zap.SugaredLogger) chi.Router {
	r := chi.NewRouter()

	if metrics != nil {
		r.Get("/metrics", metrics.ServeHTTP)
	}
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := s.Ping(r.Context()); err != nil {
			logger.Warnw("health check failed", "error", err)
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("store unavailable"))

			return
		}
		plain("ok")(w, r)
	})

	return r
}

func plain(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, err := w.Write([]byte(body))
		if err != nil {
			logging.From(r.Context()).Errorw("write response", "error", err)
		}
	}
}
