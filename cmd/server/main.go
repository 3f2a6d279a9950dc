package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/suteetoe/restb/internal/apperror"
	"github.com/suteetoe/restb/internal/auth"
	"github.com/suteetoe/restb/internal/handler/b2b"
	"github.com/suteetoe/restb/internal/handler/b2c"
	"github.com/suteetoe/restb/internal/handler/health"
	"github.com/suteetoe/restb/internal/handler/upload"
	"github.com/suteetoe/restb/internal/middleware"
	"github.com/suteetoe/restb/internal/model"
	"github.com/suteetoe/restb/internal/repository"
	"github.com/suteetoe/restb/internal/schema"
	"github.com/suteetoe/restb/internal/server"
	"github.com/suteetoe/restb/internal/service/email"
	"github.com/suteetoe/restb/internal/service/geocode"
	"github.com/suteetoe/restb/internal/service/storage"
	"github.com/suteetoe/restb/internal/service/summary"
	"github.com/suteetoe/restb/pkg/cache"
	"github.com/suteetoe/restb/pkg/config"
	"github.com/suteetoe/restb/pkg/database"
	"github.com/suteetoe/restb/pkg/jwtutil"
	"github.com/suteetoe/restb/pkg/logger"
	"github.com/suteetoe/restb/pkg/metrics"
	"go.uber.org/zap"
)

const serviceName = "restb"

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Sync()
	log.Info("Starting restaurant booking service...", cfg.LogConfig()...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	db, err := database.InitDB(&cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.MigrateModels(db, model.All()...); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get database pool", zap.Error(err))
	}
	log.Info("Database connection established")

	// Redis backs sessions, the denylist and the rate limiter. Only the limiter can do without it.
	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	var limiterStore echomiddleware.RateLimiterStore
	if err != nil {
		log.Warn("Redis unavailable, rate limiting falls back to memory", zap.Error(err))
		redisClient = cache.Open(cfg.Redis)
		limiterStore = middleware.NewMemoryRateLimiterStore(cfg.RateLimit)
	} else {
		limiterStore = middleware.NewRedisRateLimiterStore(redisClient.Client, cfg.RateLimit, log)
		log.Info("Redis connection established", zap.String("addr", cfg.Redis.Addr))
	}

	store := repository.NewStore(db)
	registry, err := schema.NewRegistry()
	if err != nil {
		log.Fatal("Failed to load request contracts", zap.Error(err))
	}

	tokens := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      cfg.JWT.SigningKey,
		ExpirationHours: cfg.JWT.ExpirationHours,
	})
	sessions := auth.NewSessionStore(redisClient.Client, cfg.Session)
	denylist := auth.NewDenylist(redisClient.Client)
	strategies := auth.NewStrategies(auth.Deps{
		Sessions: sessions,
		Denylist: denylist,
		Tokens:   tokens,
		Users:    store.Users,
		Admins:   store.Admins,
		Brands:   store.Brands,
	})

	// Outbound services
	transport, err := email.NewTransport(ctx, cfg.Email)
	if err != nil {
		log.Fatal("Failed to initialize email transport", zap.Error(err))
	}
	mailer, err := email.NewService(transport, cfg.Email.FromAddress, log)
	if err != nil {
		log.Fatal("Failed to initialize email service", zap.Error(err))
	}
	geocoder := geocode.NewNominatim(cfg.Geocoder, log)
	objects, err := storage.NewS3(ctx, cfg.S3, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	if err := objects.EnsureBucket(ctx); err != nil {
		log.Warn("Storage bucket is not ready", zap.Error(err))
	}

	roller := summary.NewRoller(store.Restaurants, store.Bookings, store.Summaries, log)
	scheduler, err := summary.Schedule(cfg.Summary.Schedule, roller, log)
	if err != nil {
		log.Fatal("Failed to schedule booking summaries", zap.Error(err))
	}

	// Initialize Echo framework
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apperror.HTTPErrorHandler(log)

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.Server.FrontendURL},
		AllowCredentials: true,
	}))
	e.Use(echomiddleware.Secure())
	e.Use(middleware.RequestID(log))
	e.Use(logger.Middleware(log))
	e.Use(metrics.NewHTTPMetrics(cfg.Metrics.Prefix).Middleware())
	if !cfg.IsTest() {
		e.Use(middleware.RateLimit(limiterStore))
	}
	if !cfg.IsProduction() {
		e.Use(middleware.ResponseContract(registry))
	}

	server.Register(e, server.Routes{
		Registry:   registry,
		Strategies: strategies,
		Handlers: server.Handlers{
			B2C: b2c.New(b2c.Deps{
				Users:       store.Users,
				Restaurants: store.Restaurants,
				Brands:      store.Brands,
				Bookings:    store.Bookings,
				Sessions:    sessions,
				Denylist:    denylist,
				Tokens:      tokens,
				Mailer:      mailer,
				Geocoder:    geocoder,
				OAuth:       auth.NewGoogleOAuth(cfg.Google),
				FrontendURL: cfg.Server.FrontendURL,
			}),
			B2B: b2b.New(b2b.Deps{
				Admins:      store.Admins,
				Brands:      store.Brands,
				Restaurants: store.Restaurants,
				Bookings:    store.Bookings,
				Summaries:   store.Summaries,
				Dashboard:   roller,
				Sessions:    sessions,
				Denylist:    denylist,
				Tokens:      tokens,
				Mailer:      mailer,
				Geocoder:    geocoder,
				FrontendURL: cfg.Server.FrontendURL,
			}),
			Upload: upload.New(objects),
			Health: health.New(cfg.ServiceName, map[string]health.Pinger{
				"database": sqlDB,
				"redis":    health.PingFunc(redisClient.Ping),
			}),
		},
	})

	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}

	<-scheduler.Stop().Done()
	mailer.Wait()

	if err := redisClient.Close(); err != nil {
		log.Error("Failed to close redis", zap.Error(err))
	}
	if err := database.Close(db); err != nil {
		log.Error("Failed to close database", zap.Error(err))
	}
	log.Info("Server stopped")
}
