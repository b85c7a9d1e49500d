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

	"github.com/seoulbites/matzip/internal/config"
	"github.com/seoulbites/matzip/internal/corpus"
	"github.com/seoulbites/matzip/internal/db"
	dbRedis "github.com/seoulbites/matzip/internal/db/redis"
	dbValkey "github.com/seoulbites/matzip/internal/db/valkey"
	"github.com/seoulbites/matzip/internal/domain"
	logpkg "github.com/seoulbites/matzip/internal/logger"
	"github.com/seoulbites/matzip/internal/metrics"
	"github.com/seoulbites/matzip/internal/repository/embcache"
	prefsrepo "github.com/seoulbites/matzip/internal/repository/prefs"
	chiTransport "github.com/seoulbites/matzip/internal/transport/chi"
	openaiTransport "github.com/seoulbites/matzip/internal/transport/openai"
	"github.com/seoulbites/matzip/internal/transport/rerank"
	healthuc "github.com/seoulbites/matzip/internal/usecase/health"
	raguc "github.com/seoulbites/matzip/internal/usecase/rag"
	recommenduc "github.com/seoulbites/matzip/internal/usecase/recommend"
	retrievaluc "github.com/seoulbites/matzip/internal/usecase/retrieval"
	"github.com/seoulbites/matzip/internal/version"
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

	logger.Info("Starting matzip API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("data_dir", cfg.Corpus.DataDir),
	)

	// Create preference store based on driver
	var store db.Store
	switch cfg.Database.Driver {
	case "valkey":
		store, err = dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.Database.Addrs,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
			DB:       cfg.Database.DB,
		})
	case "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
			DB:       cfg.Database.DB,
		})
	default:
		logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create store", zap.Error(err))
	}
	defer store.Close()

	// Wait for the store to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Store not ready", zap.Error(err))
	}
	logger.Info("Connected to preference store")

	// Register domain metrics explicitly (no init())
	metrics.RegisterSearchMetrics()
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterLLMMetrics()

	// Load the corpus before serving: a broken artifact set should fail
	// startup, not the first search.
	corpusProvider := corpus.NewProvider(cfg.Corpus.DataDir, logger)
	if _, err := corpusProvider.Snapshot(ctx); err != nil {
		logger.Fatal("Failed to load corpus", zap.Error(err))
	}

	// Query embedder chain: OpenAI -> Cached -> Instruction.
	// Instruction is outermost so the cache key includes the e5 prefix.
	baseEmbedder := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.OpenAI.APIKey,
		BaseURL:    cfg.OpenAI.BaseURL,
		Model:      cfg.OpenAI.Embedding.Model,
		Dimensions: cfg.OpenAI.Embedding.Dimensions,
		Provider:   "openai",
		Logger:     logger,
	})
	var queryEmbedder domain.Embedder = embcache.New(
		baseEmbedder,
		store,
		time.Duration(cfg.OpenAI.Embedding.CacheTTLSec)*time.Second,
		metrics.EmbeddingCacheTotal,
		logger,
	)
	if cfg.OpenAI.Embedding.QueryInstruction != "" {
		queryEmbedder = domain.NewInstructionEmbedder(queryEmbedder, cfg.OpenAI.Embedding.QueryInstruction)
	}
	logger.Info("Query embedder created",
		zap.String("model", cfg.OpenAI.Embedding.Model),
		zap.Int("dimensions", cfg.OpenAI.Embedding.Dimensions),
	)

	// Chat-completion collaborators share one client config
	chatCfg := &openaiTransport.ChatConfig{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.ChatModel,
		Timeout: time.Duration(cfg.OpenAI.TimeoutSec) * time.Second,
		Logger:  logger,
	}
	analyzer := openaiTransport.NewAnalyzer(chatCfg)
	narrator := openaiTransport.NewNarrator(chatCfg)
	translator := openaiTransport.NewTranslator(chatCfg)

	rerankClient := rerank.New(&rerank.Config{
		Endpoint: cfg.Rerank.Endpoint,
		Timeout:  time.Duration(cfg.Rerank.TimeoutSec) * time.Second,
		Logger:   logger,
	})

	prefsRepo := prefsrepo.New(store)

	// Use case services
	retrievalSvc := retrievaluc.New(corpusProvider, queryEmbedder, rerankClient, retrievaluc.Config{
		Weights: retrievaluc.Weights{
			BM25:       cfg.Search.Weights.BM25,
			E5:         cfg.Search.Weights.E5,
			Hybrid:     cfg.Search.Weights.Hybrid,
			Confidence: cfg.Search.Weights.Confidence,
			Type:       cfg.Search.Weights.TypeMatch,
			CrossEnc:   cfg.Search.Weights.CrossEncoder,
		},
		TopKBM25: cfg.Search.TopKBM25,
		TopKE5:   cfg.Search.TopKE5,
		TopN:     cfg.Search.TopN,
	}, logger)

	recommendSvc := recommenduc.New(corpusProvider, recommenduc.Config{
		MinScoreThreshold: cfg.Recommend.MinScoreThreshold,
		MaxTopAttributes:  cfg.Recommend.MaxAttributes,
		DefaultLimit:      cfg.Recommend.DefaultLimit,
	}, logger)

	ragSvc := raguc.New(analyzer, prefsRepo, retrievalSvc, translator, narrator,
		raguc.Config{NarrateTopN: cfg.Search.NarrateTopN}, logger)

	healthSvc := healthuc.New(store, corpusProvider, baseEmbedder, rerankClient)

	// HTTP server
	server := chiTransport.NewServer(ragSvc, corpusProvider, recommendSvc, prefsRepo, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
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

			// Set X-Request-ID in response header
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
