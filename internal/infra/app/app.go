package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/neo-rgalvez/taskflow/internal/core/port"
	"github.com/neo-rgalvez/taskflow/internal/infra/config"
	"github.com/neo-rgalvez/taskflow/internal/infra/database"
	kafkainfra "github.com/neo-rgalvez/taskflow/internal/infra/kafka"
	"github.com/neo-rgalvez/taskflow/internal/infra/logger"
	redisinfra "github.com/neo-rgalvez/taskflow/internal/infra/redis"
	"github.com/neo-rgalvez/taskflow/internal/infra/security"
	"github.com/neo-rgalvez/taskflow/internal/infra/telemetry"
	memoryrepo "github.com/neo-rgalvez/taskflow/internal/repository/memory"
	postgresrepo "github.com/neo-rgalvez/taskflow/internal/repository/postgres"
	redisrepo "github.com/neo-rgalvez/taskflow/internal/repository/redis"
	"github.com/neo-rgalvez/taskflow/internal/transport/http/cookie"
	"github.com/neo-rgalvez/taskflow/internal/transport/http/middleware"
	"github.com/neo-rgalvez/taskflow/internal/transport/http/routes"
	"github.com/neo-rgalvez/taskflow/internal/usecase"
)

const sessionSweepInterval = time.Hour

// Application wires configuration, infrastructure, and the HTTP engine.
type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	tracer   *telemetry.TracerProvider
	sessions *usecase.SessionService
}

// New builds the application graph from configuration.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	// cleanup unwinds partially-built dependencies when a later init step
	// fails; on success the Application takes ownership and the stack is
	// discarded.
	var cleanup cleanupStack
	defer cleanup.run()

	var tracer *telemetry.TracerProvider
	if cfg.Telemetry.Enabled {
		tracer, err = telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
		if err != nil {
			return nil, fmt.Errorf("init telemetry: %w", err)
		}
		cleanup.add(func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tracer.Shutdown(shutdownCtx)
		})
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	cleanup.add(pool.Close)

	hasher, err := security.NewArgon2Hasher(security.Argon2Config{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	})
	if err != nil {
		return nil, fmt.Errorf("init password hasher: %w", err)
	}

	passwordValidator := security.DefaultPasswordValidator(cfg.Password.MinLength)
	if cfg.Password.StrengthCheck {
		passwordValidator = passwordValidator.WithRule(
			security.RequirePasswordStrengthRule(cfg.Password.MinStrengthScore),
		)
	}

	// Redis is only dialed when the rate limiter actually needs it.
	var redisClient *redisinfra.Client
	var rateLimitStore port.RateLimitStore
	switch cfg.RateLimit.Backend {
	case "redis":
		redisClient, err = redisinfra.NewClient(cfg.Redis, log)
		if err != nil {
			return nil, fmt.Errorf("init redis: %w", err)
		}
		cleanup.add(func() {
			_ = redisClient.Close()
		})
		rateLimitStore = redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.FixedWindowConfig{
			KeyPrefix: "taskflow:rate-limit",
		})
	default:
		rateLimitStore = memoryrepo.NewRateLimitStore()
	}

	var eventPublisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	repos := postgresrepo.NewRepositories(pool)

	sessionService := usecase.NewSessionService(repos.Sessions, eventPublisher, cfg.Session.Lifetime, log)
	authService := usecase.NewAuthService(repos.Users, hasher, sessionService, eventPublisher, log)
	registrationService := usecase.NewRegistrationService(repos.Users, hasher, passwordValidator, sessionService, eventPublisher, log)

	codec := cookie.NewCodec(
		cfg.Session.CookieName,
		cfg.Session.CookieDomain,
		cfg.Session.Lifetime,
		cfg.App.IsProduction(),
	)

	rateLimiter := middleware.NewRateLimiter(rateLimitStore, cfg.RateLimit.FailOpen, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Cookies:     codec,
		Workspace:   repos.Workspace,
		Database:    pool,
		Cache:       cacheChecker(redisClient),
		Metrics:     metrics,
		Services: routes.ServiceSet{
			Auth:         authService,
			Registration: registrationService,
			Sessions:     sessionService,
		},
	})

	// The engine starts out trusting no proxies; a configured reverse
	// proxy list widens that so ClientIP honors its forwarding headers.
	if len(cfg.App.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.App.TrustedProxies); err != nil {
			return nil, fmt.Errorf("set trusted proxies: %w", err)
		}
	}

	cleanup.discard()

	return &Application{
		cfg:      cfg,
		engine:   engine,
		logger:   log,
		pool:     pool,
		redis:    redisClient,
		tracer:   tracer,
		sessions: sessionService,
	}, nil
}

// cleanupStack accumulates teardown steps for resources opened during New.
type cleanupStack struct {
	steps []func()
}

func (s *cleanupStack) add(step func()) {
	s.steps = append(s.steps, step)
}

// run executes pending steps in reverse registration order, so resources
// close in the opposite order they were opened.
func (s *cleanupStack) run() {
	for i := len(s.steps) - 1; i >= 0; i-- {
		s.steps[i]()
	}
	s.steps = nil
}

// discard drops pending steps once ownership has moved to the Application.
func (s *cleanupStack) discard() {
	s.steps = nil
}

func cacheChecker(client *redisinfra.Client) routes.CacheChecker {
	if client == nil {
		return nil
	}
	return client
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.tracer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = a.tracer.Shutdown(shutdownCtx)
		}
	}()

	go a.sweepSessions(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting taskflow API",
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

// sweepSessions periodically reclaims expired session rows. Expired sessions
// are already unusable; the sweep only bounds table growth.
func (a *Application) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			if _, err := a.sessions.SweepExpired(sweepCtx); err != nil {
				a.logger.Warn("session sweep failed", zap.Error(err))
			}
			cancel()
		}
	}
}
