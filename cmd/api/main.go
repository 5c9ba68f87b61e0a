package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mindfolk/internal/config"
	"mindfolk/internal/db"
	apihttp "mindfolk/internal/http"
	"mindfolk/internal/llm"
	"mindfolk/internal/repository"
	"mindfolk/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()
	if cfg.DBAutoMigrate {
		if err := db.Migrate(ctx, pool, logger); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
	}

	userRepo := repository.NewPgUserRepository(pool)
	assessmentRepo := repository.NewPgAssessmentRepository(pool)
	therapistRepo := repository.NewPgTherapistRepository(pool)

	var embedder llm.Embedder
	if cfg.EmbeddingAPIKey != "" {
		embedder = llm.WithDimensions(
			llm.NewHTTPClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel, logger),
			cfg.EmbeddingDimensions,
		)
	} else {
		logger.Info("embeddings disabled, discover uses the full approved list")
	}

	var identities service.IdentityVerifier
	if cfg.ClerkEnabled() {
		clerk, err := service.NewClerkVerifier(cfg.ClerkJWTKey, cfg.ClerkIssuer, cfg.ClerkAuthorizedParties)
		if err != nil {
			logger.Fatal("clerk verifier", zap.Error(err))
		}
		identities = clerk
	} else {
		logger.Warn("clerk not configured, only admin login is available")
	}

	draftTTL := time.Duration(cfg.DraftTTLHours) * time.Hour
	adminWindow := 15 * time.Minute
	var (
		refreshStore = service.NewMemoryRefreshStore()
		adminLimiter = service.NewRateLimiter(adminWindow, cfg.AdminLoginLimit)
		drafts       = service.NewMemoryDraftStore(draftTTL)
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory stores", zap.Error(err))
		} else {
			refreshStore = service.NewRedisRefreshStore(redisClient)
			adminLimiter = service.NewRedisRateLimiter(redisClient, "rl:admin:", adminWindow, cfg.AdminLoginLimit)
			drafts = service.NewRedisDraftStore(redisClient, draftTTL)
		}
		cancel()
	}

	sessions := service.NewSessionService(
		cfg.SessionSecret,
		time.Duration(cfg.SessionAccessMinutes)*time.Minute,
		time.Duration(cfg.SessionRefreshHours)*time.Hour,
		refreshStore,
	)
	accountSvc := service.NewAccountService(logger, userRepo, identities, sessions, adminLimiter)
	assessmentSvc := service.NewAssessmentService(logger, assessmentRepo, drafts, embedder)
	therapistSvc := service.NewTherapistService(logger, therapistRepo, embedder)
	discoverSvc := service.NewDiscoverService(logger, assessmentSvc, therapistRepo, cfg.MatchWeights, cfg.DiscoverCandidates, cfg.DiscoverDefaultSize)

	router := apihttp.NewRouter(logger, sessions, apihttp.Handlers{
		Auth:       apihttp.NewAuthHandler(logger, accountSvc),
		Assessment: apihttp.NewAssessmentHandler(logger, assessmentSvc),
		Therapist:  apihttp.NewTherapistHandler(logger, therapistSvc),
		Discover:   apihttp.NewDiscoverHandler(logger, discoverSvc),
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
