package main

import (
	"context"
	crypto_rand "crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/medbook/medbook/internal/config"
	"github.com/medbook/medbook/internal/domain/admin"
	"github.com/medbook/medbook/internal/domain/catalog"
	"github.com/medbook/medbook/internal/domain/identity"
	"github.com/medbook/medbook/internal/domain/scheduling"
	"github.com/medbook/medbook/internal/platform/auth"
	"github.com/medbook/medbook/internal/platform/db"
	"github.com/medbook/medbook/internal/platform/middleware"
	"github.com/medbook/medbook/internal/platform/notification"
	"github.com/medbook/medbook/internal/platform/validate"
)

// services is everything the HTTP layer routes to.
type services struct {
	identity   *identity.Service
	catalog    *catalog.Service
	scheduling *scheduling.Service
	admin      *admin.Service
	dispatcher *notification.Dispatcher
	tokens     *auth.TokenService
	// dbHealth serves /health/db; nil leaves the route unregistered.
	dbHealth echo.HandlerFunc
}

func newServices(cfg *config.Config, pool *pgxpool.Pool, tokens *auth.TokenService, dispatcher *notification.Dispatcher) services {
	return services{
		identity: identity.NewService(
			identity.NewPatientRepo(pool),
			identity.NewDoctorRepo(pool),
			auth.NewPasswordHasher(cfg.BcryptCost),
			tokens,
		),
		catalog:    catalog.NewService(catalog.NewRepo(pool)),
		scheduling: scheduling.NewService(scheduling.NewDirectory(pool), scheduling.NewAppointmentRepo(pool), dispatcher),
		admin:      admin.NewService(admin.NewRepo(pool)),
		dispatcher: dispatcher,
		tokens:     tokens,
		dbHealth:   db.HealthHandler(pool),
	}
}

func newServer(cfg *config.Config, logger zerolog.Logger, svc services) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validate.New()

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, middleware.RequestIDHeader},
	}))
	e.Use(echomw.SecureWithConfig(echomw.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "no-referrer",
	}))
	if cfg.BodyLimit != "" {
		e.Use(echomw.BodyLimit(cfg.BodyLimit))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if svc.dbHealth != nil {
		e.GET("/health/db", svc.dbHealth)
	}

	api := e.Group("/api")
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 || rateLimitCfg.BurstSize <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	api.Use(middleware.RateLimit(rateLimitCfg))

	authn := auth.Authenticate(svc.tokens)
	identity.NewHandler(svc.identity).RegisterRoutes(api)
	catalog.NewHandler(svc.catalog).RegisterRoutes(api)
	scheduling.NewHandler(svc.scheduling).RegisterRoutes(api, authn)

	adminGroup := api.Group("/admin")
	admin.NewHandler(svc.admin).RegisterRoutes(adminGroup)
	notification.NewHandler(svc.dispatcher).RegisterRoutes(adminGroup)

	return e
}

// jwtSecret returns the configured signing key. Development without one gets
// a random per-process key, which invalidates tokens on restart.
func jwtSecret(cfg *config.Config, logger zerolog.Logger) ([]byte, error) {
	if cfg.JWTSecret != "" {
		return []byte(cfg.JWTSecret), nil
	}
	buf := make([]byte, 32)
	if _, err := crypto_rand.Read(buf); err != nil {
		return nil, fmt.Errorf("generate jwt secret: %w", err)
	}
	logger.Warn().Msg("JWT_SECRET not set, using a random development key")
	return []byte(hex.EncodeToString(buf)), nil
}

// notificationQueue picks Redis when a client is given, else an in-process
// channel whose contents are lost on exit.
func notificationQueue(client *redis.Client, cfg *config.Config) notification.Queue {
	if client != nil {
		return notification.NewRedisQueue(client, notification.DefaultRedisKey)
	}
	return notification.NewChannelQueue(cfg.NotifyQueueSize)
}

func newDispatcher(cfg *config.Config, logger zerolog.Logger, queue notification.Queue) (*notification.Dispatcher, error) {
	renderer, err := notification.NewRenderer()
	if err != nil {
		return nil, err
	}

	var sender notification.EmailSender = notification.NewLogSender(logger)
	if cfg.SMTPEnabled() {
		sender = notification.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom)
	}

	opts := []notification.Option{notification.WithWorkers(cfg.NotifyWorkers)}
	if cfg.SMSEnabled() {
		opts = append(opts, notification.WithSMS(
			notification.NewTwilioSMSSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)))
	}
	return notification.NewDispatcher(sender, renderer, queue, logger, opts...), nil
}

func runServer() error {
	// Config
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Env)
	if err := cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("invalid configuration")
		return err
	}
	secret, err := jwtSecret(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := openPool(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to database")
		return err
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Notifications
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = notification.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error().Err(err).Msg("failed to connect to redis")
			return err
		}
		defer redisClient.Close()
		logger.Info().Msg("notification queue backed by redis")
	}
	dispatcher, err := newDispatcher(cfg, logger, notificationQueue(redisClient, cfg))
	if err != nil {
		return err
	}
	if !cfg.SMTPEnabled() {
		logger.Warn().Msg("SMTP_HOST not set, emails are logged instead of sent")
	}

	notifyCtx, notifyCancel := context.WithCancel(context.Background())
	notifyDone := make(chan struct{})
	go func() {
		defer close(notifyDone)
		dispatcher.Run(notifyCtx)
	}()

	tokens := auth.NewTokenService(secret, cfg.TokenTTL)
	e := newServer(cfg, logger, newServices(cfg, pool, tokens, dispatcher))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}

	notifyCancel()
	<-notifyDone
	logger.Info().Msg("server stopped")
	return nil
}
