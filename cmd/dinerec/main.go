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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dinerec/internal/config"
	"github.com/kailas-cloud/dinerec/internal/dataset"
	dbValkey "github.com/kailas-cloud/dinerec/internal/db/valkey"
	"github.com/kailas-cloud/dinerec/internal/domain"
	"github.com/kailas-cloud/dinerec/internal/index"
	logpkg "github.com/kailas-cloud/dinerec/internal/logger"
	"github.com/kailas-cloud/dinerec/internal/metrics"
	"github.com/kailas-cloud/dinerec/internal/repository/reccache"
	chiTransport "github.com/kailas-cloud/dinerec/internal/transport/chi"
	healthuc "github.com/kailas-cloud/dinerec/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/dinerec/internal/usecase/recommend"
	"github.com/kailas-cloud/dinerec/internal/version"
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

	logger.Info("Starting dinerec server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("dataset", cfg.Dataset.Path),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterRecommendMetrics()

	ctx := logpkg.ContextWithLogger(context.Background(), logger)

	ds, err := dataset.Load(ctx, cfg.Dataset.Path, dataset.Options{
		Seed:            cfg.Dataset.Seed,
		UseSourceRating: cfg.Dataset.UseSourceRating,
	})
	if err != nil {
		logger.Fatal("Failed to load dataset", zap.Error(err))
	}

	// Pass nil interface (not typed nil pointer!) when the corpus is empty.
	var idx recommenduc.Index
	vocabulary := 0
	indexCfg := index.Config{
		MaxFeatures:   cfg.Index.MaxFeatures,
		KeepStopWords: cfg.Index.KeepStopWords,
	}
	built, err := index.Build(ds.Records, indexCfg)
	switch {
	case errors.Is(err, domain.ErrEmptyCorpus):
		logger.Warn("Dataset has no usable rows, similarity ranking disabled")
	case err != nil:
		logger.Fatal("Failed to build feature index", zap.Error(err))
	default:
		idx = built
		vocabulary = built.VocabularySize()
		logger.Info("Feature index built",
			zap.Int("vectors", built.Len()),
			zap.Int("vocabulary", vocabulary),
		)
	}
	metrics.ObserveDataset(len(ds.Records), ds.Skipped, vocabulary)

	// Optional result cache
	var (
		cache      recommenduc.Cache
		cachePing  healthuc.CachePinger
		cacheStore *dbValkey.Store
	)
	if cfg.Cache.Enabled {
		cacheStore, err = dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer cacheStore.Close()

		readiness := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := cacheStore.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to cache", zap.Strings("addrs", cfg.Cache.Addrs))

		guarded := reccache.WithBreaker(cacheStore, reccache.BreakerConfig{
			Failures: cfg.Cache.BreakerFailures,
			Timeout:  time.Duration(cfg.Cache.BreakerTimeoutSec) * time.Second,
		}, logger)
		cache = reccache.New(guarded, indexCfg.Key(), time.Duration(cfg.Cache.TTLSec)*time.Second, logger)
		cachePing = cacheStore
	}

	recSvc := recommenduc.New(ds, idx, cache)
	healthSvc := healthuc.New(recSvc, cachePing)

	server := chiTransport.NewServer(recSvc, healthSvc, chiTransport.Options{
		DefaultLimit:       cfg.Recommend.DefaultLimit,
		MaxLimit:           cfg.Recommend.MaxLimit,
		Neighbors:          cfg.Index.Neighbors,
		RateLimitPerMin:    cfg.HTTP.RateLimitPerMin,
		CORSAllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.HTTPMiddleware)
	server.Register(r)

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
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

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
