package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/banking/withdrawal-risk-service/internal/api"
	"github.com/banking/withdrawal-risk-service/internal/config"
	"github.com/banking/withdrawal-risk-service/internal/pkg/logger"
	"github.com/banking/withdrawal-risk-service/internal/pkg/telemetry"
	"github.com/banking/withdrawal-risk-service/internal/repository"
	"github.com/banking/withdrawal-risk-service/internal/risk"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize Logger
	log, err := logger.New(cfg.Telemetry.ServiceName, cfg.Telemetry.Environment, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// 3. Telemetry
	shutdownTelemetry, err := telemetry.Init(ctx, &cfg.Telemetry)
	if err != nil {
		log.Fatal("failed to initialize telemetry", logger.ErrorField(err))
	}

	// 4. Withdrawal store (read-only)
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Database.User, cfg.Database.Password,
		cfg.Database.Host, cfg.Database.Port,
		cfg.Database.Database, cfg.Database.SSLMode,
	)
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Fatal("invalid database configuration", logger.ErrorField(err))
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Fatal("failed to connect to database", logger.ErrorField(err))
	}
	defer pool.Close()

	// 5. History cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	defer redisClient.Close()

	// 6. Repository chain: postgres -> cache -> breaker
	var repo risk.WithdrawalRepository = repository.NewPostgres(pool, log)
	repo = repository.NewHistoryCache(repo, redisClient, cfg.Redis.HistoryCacheTTL, log)
	repo = repository.NewBreaker(repo, log)

	// 7. Risk engine
	engine := risk.NewEngine(repo, risk.DefaultDetectors(), &cfg.Risk, log)

	// 8. HTTP surface
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	api.NewHandler(engine, &cfg.Risk).Register(e)

	// 9. Start Server (Graceful Shutdown)
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)

	go func() {
		if err := e.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("shutting down the server", logger.ErrorField(err))
		}
	}()

	log.Info("server started", logger.StringField("addr", serverAddr))

	// Wait for interrupt signal to gracefully shutdown the server with a timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", logger.ErrorField(err))
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		log.Error("telemetry shutdown failed", logger.ErrorField(err))
	}

	log.Info("server exited properly")
}
