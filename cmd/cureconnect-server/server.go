package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/cureconnect/cureconnect/internal/config"
	"github.com/cureconnect/cureconnect/internal/domain/admin"
	"github.com/cureconnect/cureconnect/internal/domain/appointment"
	"github.com/cureconnect/cureconnect/internal/domain/identity"
	"github.com/cureconnect/cureconnect/internal/domain/medicalhistory"
	"github.com/cureconnect/cureconnect/internal/domain/prescription"
	"github.com/cureconnect/cureconnect/internal/domain/symptom"
	"github.com/cureconnect/cureconnect/internal/domain/ticket"
	"github.com/cureconnect/cureconnect/internal/platform/auth"
	"github.com/cureconnect/cureconnect/internal/platform/cache"
	"github.com/cureconnect/cureconnect/internal/platform/db"
	"github.com/cureconnect/cureconnect/internal/platform/middleware"
	"github.com/cureconnect/cureconnect/internal/platform/notification"
	"github.com/cureconnect/cureconnect/internal/platform/validation"
)

// deps is everything the HTTP server and the one-shot commands share.
type deps struct {
	cfg    *config.Config
	logger zerolog.Logger
	pool   *pgxpool.Pool
	redis  *redis.Client

	tokens        *auth.TokenManager
	revocations   auth.RevocationStore
	sessions      auth.AccountLookup
	notifications *notification.Manager

	accounts      *identity.Service
	appointments  *appointment.Service
	reminder      *appointment.Reminder
	history       *medicalhistory.Service
	tickets       *ticket.Service
	prescriptions *prescription.Service
	admin         *admin.Service

	closers []func()
}

// newDeps wires repositories and services. Redis is optional: without
// REDIS_URL, booking locks and revoked tokens live in process memory, which
// is only correct for a single instance.
func newDeps(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger zerolog.Logger) (*deps, error) {
	loc, err := time.LoadLocation(cfg.ReminderTimezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.ReminderTimezone, err)
	}

	d := &deps{cfg: cfg, logger: logger, pool: pool}

	var locker cache.Locker
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL, logger)
		if err != nil {
			return nil, err
		}
		d.redis = client
		d.closers = append(d.closers, func() { client.Close() })
		locker = cache.NewRedisLocker(client, "cureconnect:lock:")
		d.revocations = auth.NewRedisRevocationStore(client)
		logger.Info().Msg("connected to redis")
	} else {
		mem := auth.NewMemoryRevocationStore(time.Minute)
		d.closers = append(d.closers, mem.Close)
		d.revocations = mem
		locker = cache.NewMemoryLocker()
		logger.Warn().Msg("REDIS_URL not set; using in-memory locks and token revocation")
	}

	var email notification.EmailSender = notification.NewLogSender(logger)
	if cfg.SMTPEnabled() {
		email = notification.NewSMTPSender(notification.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	}
	var sms notification.SMSSender = notification.NewLogSender(logger)
	if cfg.TwilioEnabled() {
		sms = notification.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	}
	d.notifications = notification.NewManager(email, sms, nil, notification.ManagerOptions{
		CountryPrefix: cfg.SMSCountryPrefix,
		Logger:        logger.With().Str("component", "notification").Logger(),
	})

	d.tokens = auth.NewTokenManager([]byte(cfg.JWTSecret), "cureconnect", time.Duration(cfg.JWTTTLHours)*time.Hour)

	users := identity.NewUserRepo(pool)
	appointmentRepo := appointment.NewRepo(pool)
	prescriptionRepo := prescription.NewRepo(pool)

	d.accounts = identity.NewService(users, d.tokens, d.revocations, d.notifications, identity.Options{
		AdminSecret: cfg.AdminSecretKey,
		RoomBaseURL: cfg.VideoRoomBaseURL,
		Logger:      logger,
	})
	d.sessions = d.accounts
	d.appointments = appointment.NewService(appointmentRepo, users, locker, d.notifications, appointment.Options{
		RoomBaseURL: cfg.VideoRoomBaseURL,
		Location:    loc,
		Logger:      logger,
	})
	d.reminder = appointment.NewReminder(appointmentRepo, d.notifications, appointment.ReminderOptions{
		Interval:    time.Duration(cfg.ReminderIntervalSeconds) * time.Second,
		Location:    loc,
		RoomBaseURL: cfg.VideoRoomBaseURL,
		Logger:      logger.With().Str("component", "reminder").Logger(),
	})
	d.prescriptions = prescription.NewService(prescriptionRepo, appointmentRepo, logger)
	d.history = medicalhistory.NewService(medicalhistory.NewRepo(pool), users, appointmentRepo, prescriptionRepo, logger)
	d.tickets = ticket.NewService(ticket.NewRepo(pool), users, d.notifications, ticket.Options{
		AdminContact: cfg.AdminEmail,
		Logger:       logger,
	})
	d.admin = admin.NewService(users, admin.NewRepo(pool), logger)
	return d, nil
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

// credentialRoutes get the stricter login budget on top of the global one.
var credentialRoutes = map[string]bool{
	"/api/v1/login":          true,
	"/api/v1/register":       true,
	"/api/v1/admin/login":    true,
	"/api/v1/admin/register": true,
}

func newServer(d *deps) *echo.Echo {
	cfg, logger := d.cfg, d.logger

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.HTTPErrorHandler(logger)
	e.Validator = validation.New()

	// Global middleware. Recovery sits inside the timeout because handlers
	// run on the timeout's goroutine.
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit("10M"))

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	e.Use(middleware.RateLimit(rateLimitCfg))
	loginLimit := middleware.RateLimit(middleware.LoginRateLimitConfig())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		limited := loginLimit(next)
		return func(c echo.Context) error {
			if credentialRoutes[c.Path()] {
				return limited(c)
			}
			return next(c)
		}
	})

	e.Use(auth.JWTMiddleware(auth.JWTConfig{
		Tokens:      d.tokens,
		Revocations: d.revocations,
		Accounts:    d.sessions,
		Skipper:     auth.PublicSkipper,
		Logger:      logger,
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})
	checks := map[string]db.Pinger{}
	if d.redis != nil {
		client := d.redis
		checks["redis"] = db.PingerFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() })
	}
	e.GET("/health/db", db.HealthHandler(d.pool, checks))

	api := e.Group("/api/v1")
	identity.NewHandler(d.accounts, cfg.CookieSecure).RegisterRoutes(api)
	appointment.NewHandler(d.appointments).RegisterRoutes(api)
	medicalhistory.NewHandler(d.history).RegisterRoutes(api)
	ticket.NewHandler(d.tickets).RegisterRoutes(api)
	prescription.NewHandler(d.prescriptions).RegisterRoutes(api)
	symptom.NewHandler(nil).RegisterRoutes(api)
	admin.NewHandler(d.admin, d.accounts, notification.NewHandler(d.notifications), cfg.CookieSecure).RegisterRoutes(api)

	return e
}
