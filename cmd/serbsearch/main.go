package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/serbsearch/internal/config"
	dbRedis "github.com/kailas-cloud/serbsearch/internal/db/redis"
	"github.com/kailas-cloud/serbsearch/internal/db/sqlite"
	"github.com/kailas-cloud/serbsearch/internal/domain"
	"github.com/kailas-cloud/serbsearch/internal/domain/search/clause"
	"github.com/kailas-cloud/serbsearch/internal/domain/search/term"
	"github.com/kailas-cloud/serbsearch/internal/domain/variant"
	logpkg "github.com/kailas-cloud/serbsearch/internal/logger"
	"github.com/kailas-cloud/serbsearch/internal/metrics"
	postrepo "github.com/kailas-cloud/serbsearch/internal/repository/post"
	"github.com/kailas-cloud/serbsearch/internal/repository/variantcache"
	chiTransport "github.com/kailas-cloud/serbsearch/internal/transport/chi"
	expansionuc "github.com/kailas-cloud/serbsearch/internal/usecase/expansion"
	healthuc "github.com/kailas-cloud/serbsearch/internal/usecase/health"
	postuc "github.com/kailas-cloud/serbsearch/internal/usecase/post"
	"github.com/kailas-cloud/serbsearch/internal/usecase/rewrite"
	searchuc "github.com/kailas-cloud/serbsearch/internal/usecase/search"
	"github.com/kailas-cloud/serbsearch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting serbsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_path", cfg.Database.Path),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	ctx := context.Background()

	// Post database
	store, err := sqlite.Open(ctx, sqlite.Config{
		Path:         cfg.Database.Path,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register variant metrics explicitly (no init())
	metrics.RegisterVariantMetrics()

	gen, err := variant.New(cfg.Variants.GeneratorOptions())
	if err != nil {
		logger.Fatal("Failed to build variant generator", zap.Error(err))
	}

	// Variant cache (optional). Redis and Valkey share the rueidis client.
	var cache *dbRedis.Store
	if cfg.Cache.Enabled() {
		cache, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer cache.Close()

		if err := cache.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to variant cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	expander := buildExpander(gen, cache, cfg.Cache.TTL(), logger)

	stopwords := term.DefaultStopwords()
	if len(cfg.Search.Stopwords) > 0 {
		stopwords = term.NewStopwords(cfg.Search.Stopwords)
	}

	// Repositories and use case services
	posts := postrepo.New(store)
	searchSvc := searchuc.New(posts, rewrite.New(expander, stopwords), clause.DefaultColumns())
	postSvc := postuc.New(posts)

	// Pass nil interface (not typed nil pointer!) when the cache is disabled.
	var cachePinger healthuc.Pinger
	if cache != nil {
		cachePinger = cache
	}
	healthSvc := healthuc.New(store, cachePinger)

	// Create chi server
	server := chiTransport.NewServer(
		searchSvc, postSvc, expander, healthSvc,
		chiTransport.Limits{Default: cfg.Search.DefaultLimit, Max: cfg.Search.MaxLimit},
		logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware("/metrics"))
	chiTransport.HandlerWithOptions(server, chiTransport.ChiServerOptions{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, _ *http.Request, err error) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
				Code:    chiTransport.ErrorResponseCodeBadRequest,
				Message: err.Error(),
			})
		},
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildExpander assembles the decorator chain: Generator -> Cached -> Instrumented
func buildExpander(
	gen *variant.Generator,
	cache *dbRedis.Store,
	ttl time.Duration,
	logger *zap.Logger,
) domain.Expander {
	var expander domain.Expander = domain.NewGeneratorExpander(gen)

	if cache != nil {
		expander = variantcache.New(expander, cache, gen.Fingerprint(), ttl, metrics.VariantCacheTotal, logger)
	}

	return expansionuc.NewInstrumentedExpander(expander, logger)
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
