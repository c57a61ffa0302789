package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	configs "github.com/restockr/auth-service/config"
	"github.com/restockr/auth-service/internal/constants"
	"github.com/restockr/auth-service/internal/handler"
	"github.com/restockr/auth-service/internal/middleware"
	"github.com/restockr/auth-service/internal/notifier"
	"github.com/restockr/auth-service/internal/repository"
	"github.com/restockr/auth-service/internal/router"
	"github.com/restockr/auth-service/internal/service"
	"github.com/restockr/auth-service/pkg/circuit"
	"github.com/restockr/auth-service/pkg/database"
	"github.com/restockr/auth-service/pkg/health"
	"github.com/restockr/auth-service/pkg/logger"
	"github.com/restockr/auth-service/pkg/pool"
	"github.com/restockr/auth-service/pkg/redis"
	"github.com/restockr/auth-service/pkg/validation"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", constants.AppVersion),
	)

	if err := validation.RegisterCustomValidators(); err != nil {
		logger.GetLogger().Fatal("Failed to register validators", zap.Error(err))
	}

	db, err := database.NewPostgresDB(database.Config{
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		Echo:            config.Database.Echo,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database schema is up to date")

	userRepo := repository.NewUserRepository(db)

	// Redis backs the token revocation ledger. The service stays up without
	// it; revocation checks then fail open.
	redisClient := redis.NewClient(redis.Config{
		Host:         config.Redis.Host,
		Port:         config.Redis.Port,
		Password:     config.Redis.Password,
		DB:           config.Redis.Database,
		Enabled:      config.Redis.Enabled,
		PoolSize:     config.Redis.PoolSize,
		MinIdleConns: config.Redis.MinIdleConns,
	}, logger.GetLogger())
	defer redisClient.Close()

	logger.GetLogger().Info("Redis client initialized",
		zap.Bool("enabled", redisClient.IsEnabled()),
	)

	hasher := service.NewPasswordHasher(config.Bcrypt.Cost)
	tokens := service.NewTokenService(config.JWT.Secret, config.JWT.AccessTTL, config.JWT.RefreshTTL)
	activation := service.NewActivationService(config.Activation.TTL)
	ledger := service.NewBlacklistService(redisClient)

	mailBreaker := circuit.NewBreaker("smtp", circuit.DefaultConfig(), logger.GetLogger())
	mailer := notifier.NewMailer(notifier.Config{
		Host:          config.SMTP.Host,
		Port:          config.SMTP.Port,
		Username:      config.SMTP.Username,
		Password:      config.SMTP.Password,
		FromEmail:     config.SMTP.FromEmail,
		FromName:      config.SMTP.FromName,
		ActivationURL: config.SMTP.ActivationURL,
	}, mailBreaker)
	if !mailer.IsConfigured() {
		logger.GetLogger().Warn("SMTP credentials not configured, account emails will be skipped")
	}

	// Email delivery runs on a bounded worker pool so a slow SMTP server
	// cannot pile up goroutines behind signup bursts.
	tasks := pool.NewWorkerPool(pool.DefaultConfig(), logger.GetLogger())

	authService := service.NewAuthService(userRepo, hasher, tokens, activation, ledger, mailer, tasks)
	userService := service.NewUserService(userRepo, hasher, activation, mailer, tasks)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	healthHandler := handler.NewHealthHandler(db, redisClient, mailBreaker)

	authMiddleware := middleware.NewAuthMiddleware(tokens, ledger, userRepo)

	// Background dependency watchdog. Requests never wait on it; it makes a
	// database or revocation store outage visible in the logs even while the
	// instance is idle.
	watchdog := health.NewMonitor(30*time.Second, logger.GetLogger())
	watchdog.Register("database", func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
	if redisClient.IsEnabled() {
		watchdog.Register("redis", redisClient.Ping)
	}
	watchdog.Start()

	engine := router.NewRouter(
		authHandler,
		userHandler,
		healthHandler,
		authMiddleware,
		config,
	).SetupRoutes()

	srv := &http.Server{
		Addr:    ":" + config.App.Port,
		Handler: engine,
	}

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.GetLogger().Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.GetLogger().Error("Server shutdown was not clean", zap.Error(err))
	}

	watchdog.Stop()

	// Drain queued emails before exiting.
	tasks.Close()

	logger.GetLogger().Info("Server stopped")
}
