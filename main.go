//
// Bollywood news
// ==============
// A JSON API over one MongoDB collection of Bollywood news articles.
//
// Boot the server:
// ----------------
// $ MONGO_URI=mongodb://localhost:27017 go run . -seed
//
// Client requests:
// ----------------
// $ curl http://localhost:5000/
// Bollywood News API is running...
//
// $ curl -X POST -H 'Content-Type: application/json' \
//     -d '{"title":"A","slug":"a","content":"c","category":"movies","tags":["x"]}' \
//     http://localhost:5000/bollywood
// {"id":"66e0...","title":"A","slug":"a",...}
//
// $ curl http://localhost:5000/bollywood/movies
// [{"id":"66e0...","title":"A",...}]
//
// $ curl -X DELETE http://localhost:5000/bollywood/66e0...
// {"message":"News deleted"}
//
// $ curl http://localhost:5000/bollywood/a
// {"message":"News not found"}
//
// Pass -routes to print the route documentation instead of serving.
//
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/docgen"
	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/bollywood/internal/config"
	"github.com/SergeyParamoshkin/bollywood/internal/logging"
	"github.com/SergeyParamoshkin/bollywood/internal/middleware"
	"github.com/SergeyParamoshkin/bollywood/internal/server"
	"github.com/SergeyParamoshkin/bollywood/internal/store"
	"github.com/SergeyParamoshkin/bollywood/internal/store/memstore"
	"github.com/SergeyParamoshkin/bollywood/internal/store/mongostore"
	"github.com/SergeyParamoshkin/bollywood/internal/telemetry"
)

const ServiceName = "bollywood"

const (
	connectTimeout  = 10 * time.Second
	shutdownTimeout = 15 * time.Second
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	cfg, err := config.Load(args, os.Getenv)
	if err != nil {
		return err
	}

	if cfg.Routes {
		r := server.NewRouter(server.Options{Store: memstore.New(), Logger: zap.NewNop().Sugar()})
		fmt.Println(docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
			ProjectPath: "github.com/SergeyParamoshkin/bollywood",
			Intro:       "Bollywood news API routes.",
		}))

		return nil
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() // flushes buffer, if any
	sugar := logger.Sugar().With("service", ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, closeStore, err := openStore(ctx, cfg, sugar)
	if err != nil {
		sugar.Errorw("store unavailable, refusing to start", "driver", cfg.StoreDriver, "error", err)

		return err
	}
	defer closeStore()

	if cfg.Seed {
		a, created, err := store.Seed(ctx, s)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		sugar.Infow("sample article ready", "id", a.ID.Hex(), "slug", a.Slug, "created", created)
	}

	exporter, err := telemetry.NewExporter()
	if err != nil {
		return err
	}
	metrics, err := telemetry.NewMetrics(exporter.MeterProvider().Meter(ServiceName))
	if err != nil {
		return err
	}

	opts := server.Options{
		Store:       s,
		Logger:      sugar,
		Metrics:     metrics,
		CORSOrigins: cfg.CORSOrigins,
	}
	if cfg.RateLimitRPS > 0 {
		rl := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		defer rl.Stop()
		opts.RateLimiter = rl
	}

	api := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.NewRouter(opts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	diag := &http.Server{
		Addr:              cfg.DiagAddr,
		Handler:           server.NewDiagRouter(exporter, s, sugar),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	for _, srv := range []*http.Server{api, diag} {
		go func(srv *http.Server) {
			sugar.Infow("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
		}(srv)
	}

	select {
	case <-ctx.Done():
		sugar.Infow("shutdown signal received")
	case err = <-errCh:
		sugar.Errorw("server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, srv := range []*http.Server{api, diag} {
		if serr := srv.Shutdown(shutdownCtx); serr != nil {
			sugar.Errorw("forced shutdown", "addr", srv.Addr, "error", serr)
		}
	}
	sugar.Infow("server stopped")

	return err
}

// openStore connects the configured driver. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (store.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		logger.Warnw("using in-memory store, data is lost on exit")

		return memstore.New(), func() {}, nil
	default:
		connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()

		s, err := mongostore.Connect(connectCtx, mongostore.Config{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
			Timeout:    cfg.StoreTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Infow("MongoDB connected", "database", cfg.MongoDatabase, "collection", cfg.MongoCollection)

		return s, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.Close(closeCtx); err != nil {
				logger.Errorw("disconnect MongoDB", "error", err)
			}
		}, nil
	}
}
