package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/port"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/infra/config"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/infra/database"
	kafkainfra "github.com/codeclannigeria/codeclannigeria.dev/internal/infra/kafka"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/infra/logger"
	redisinfra "github.com/codeclannigeria/codeclannigeria.dev/internal/infra/redis"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/infra/security"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/infra/telemetry"
	postgresrepo "github.com/codeclannigeria/codeclannigeria.dev/internal/repository/postgres"
	redisrepo "github.com/codeclannigeria/codeclannigeria.dev/internal/repository/redis"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/transport/http/middleware"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/transport/http/routes"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/usecase"
)

// Application owns the process-level resources and their shutdown order.
type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
	tracer   *telemetry.TracerProvider
	hashPool *security.HashPool
}

// New wires configuration into the full service graph.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	tracer, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	metrics := telemetry.NewMetrics()

	hasher, err := security.NewBcryptHasher(cfg.Bcrypt.Cost)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init hasher: %w", err)
	}
	hashPool := security.NewHashPool(hasher, cfg.Hashing.Workers, cfg.Hashing.QueueSize, log).
		WithBusyHook(metrics.HashingRejected.Inc)

	issuer, err := security.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.ValidityHours, cfg.JWT.Issuer)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init token issuer: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: cfg.Redis.RateLimitPrefix,
		TTL:       cfg.Redis.RateLimitTTL,
	})
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	httpMetrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	var producer *kafkainfra.Producer
	var events port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("kafka unavailable, events will be logged only", zap.Error(err))
			events = kafkainfra.NewStubPublisher(log)
			producer = nil
		} else {
			events = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, events will be logged only")
		events = kafkainfra.NewStubPublisher(log)
	}

	validator := security.DefaultPasswordValidator()

	authService, err := usecase.NewAuthService(repos.Users, hashPool, issuer, log)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init auth service: %w", err)
	}
	authService.WithMetrics(metrics)

	tempTokens, err := usecase.NewTempTokenService(repos.Tokens, hashPool, log)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init token service: %w", err)
	}
	tempTokens.WithMetrics(metrics)

	accountService := usecase.NewAccountService(repos.Users, tempTokens, hashPool, validator, events, log).
		WithTTLs(cfg.Tokens.VerifyTTL, cfg.Tokens.ResetTTL)
	registrationService := usecase.NewRegistrationService(repos.Users, tempTokens, hashPool, validator, events, log).
		WithVerifyTTL(cfg.Tokens.VerifyTTL)
	userService := usecase.NewUserService(repos.Users, log)
	mentorshipService := usecase.NewMentorshipService(repos.Mentorships, repos.Tasks, repos.Users, events, log)

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		TokenIssuer: issuer,
		RateLimiter: rateLimiter,
		HTTPMetrics: httpMetrics,
		Database:    pool,
		Cache:       redisClient,
		Services: routes.ServiceSet{
			Auth:         authService,
			Registration: registrationService,
			Accounts:     accountService,
			Users:        userService,
			Mentorships:  mentorshipService,
		},
	})

	return &Application{
		cfg:      cfg,
		engine:   engine,
		logger:   log,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
		tracer:   tracer,
		hashPool: hashPool,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts everything down in
// reverse dependency order.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer a.hashPool.Close()
	defer func() {
		if a.producer != nil {
			if err := a.producer.Close(); err != nil {
				a.logger.Warn("close kafka producer", zap.Error(err))
			}
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("shutdown tracer", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting api",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
