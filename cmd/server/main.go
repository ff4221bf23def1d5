package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/seu-repo/quest-board/internal/adapter/cache"
	"github.com/seu-repo/quest-board/internal/adapter/grpc/server"
	"github.com/seu-repo/quest-board/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/quest-board/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/quest-board/internal/adapter/notification"
	"github.com/seu-repo/quest-board/internal/adapter/queue"
	"github.com/seu-repo/quest-board/internal/adapter/storage"
	"github.com/seu-repo/quest-board/internal/adapter/storage/postgres"
	"github.com/seu-repo/quest-board/internal/adapter/vault"
	wsAdapter "github.com/seu-repo/quest-board/internal/adapter/websocket"
	"github.com/seu-repo/quest-board/internal/observability/telemetry"
	"github.com/seu-repo/quest-board/internal/ports"
	"github.com/seu-repo/quest-board/internal/service/auth"
	"github.com/seu-repo/quest-board/internal/service/board"
	"github.com/seu-repo/quest-board/internal/service/connection"
	"github.com/seu-repo/quest-board/internal/service/gamification"
	"github.com/seu-repo/quest-board/internal/service/health"
	"github.com/seu-repo/quest-board/internal/service/importer"
	"github.com/seu-repo/quest-board/internal/service/planner"
	"github.com/seu-repo/quest-board/pkg/config"
	"github.com/seu-repo/quest-board/pkg/logging"
)

const serviceName = "quest-board"

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// 2. Initialize Logger
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting Quest Board",
		zap.String("service", serviceName),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	// 3. Resolve secrets from Vault
	if cfg.Vault.Enabled {
		sm, err := vault.NewSecretManager(cfg.Vault, logger)
		if err != nil {
			logger.Fatal("Failed to create Vault client", zap.Error(err))
		}
		if err := sm.Apply(context.Background(), cfg); err != nil {
			logger.Fatal("Failed to load secrets from Vault", zap.Error(err))
		}
	}
	if cfg.JWT.Secret == "" {
		logger.Fatal("JWT secret is not configured")
	}

	// 4. Initialize OpenTelemetry (Distributed Tracing)
	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(cfg.OpenTelemetry, cfg.App.Version)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// 5. Initialize Row Store
	db, err := storage.Open(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer postgres.Close(db)
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get underlying SQL DB", zap.Error(err))
	}

	// 6. Initialize Cache (Redis, or in-process when no URL is set)
	var appCache ports.Cache
	if cfg.Redis.URL != "" {
		appCache, err = cache.NewRedisCache(cfg.Redis, logger)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
	} else {
		logger.Warn("Redis URL not set, using in-process cache")
		appCache = cache.NewLocalCache(0, logger)
	}
	defer appCache.Close()

	// 7. Initialize Message Queue
	messageQueue, err := queue.New(cfg.Queue, logger)
	if err != nil {
		logger.Fatal("Failed to connect to message queue", zap.Error(err))
	}
	defer messageQueue.Close()

	// 8. Initialize Repositories
	userRepo := postgres.NewUserRepository(db, logger)
	cardRepo := postgres.NewCardRepository(db, logger)
	columnRepo := postgres.NewColumnRepository(db, logger)
	profileRepo := postgres.NewProfileRepository(db, logger)
	achievementRepo := postgres.NewAchievementRepository(db, logger)
	earnedRepo := postgres.NewUserAchievementRepository(db, logger)
	connectionRepo := postgres.NewConnectionRepository(db, logger)

	// 9. Initialize Notification Sinks
	publisher := notification.NewQueuePublisher(messageQueue, logger)
	notifiers := notification.Fanout{publisher}
	if cfg.Notification.Email.Enabled {
		sender := notification.NewBreakerSender(notification.NewSendGridSender(cfg.Notification.Email), cfg.CircuitBreaker, logger)
		notifiers = append(notifiers, notification.NewEmailNotifier(userRepo, sender, logger))
	}

	// 10. Initialize Services (Business Logic Layer)
	gameService := gamification.NewService(profileRepo, achievementRepo, earnedRepo, cardRepo, appCache, notifiers,
		gamification.Options{
			LevelSize:  cfg.Gamification.LevelSize,
			MaxRounds:  cfg.Gamification.MaxRounds,
			CatalogTTL: cfg.Gamification.CatalogTTL,
		}, logger)

	boardService, err := board.NewService(cardRepo, columnRepo, gameService, notifiers, publisher,
		board.Options{
			DoneColumnName:    cfg.Board.DoneColumnName,
			DefaultCardPoints: cfg.Gamification.DefaultCardPoints,
			RegistrySize:      cfg.Board.RegistrySize,
		}, logger)
	if err != nil {
		logger.Fatal("Failed to create board service", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenDuration, cfg.JWT.RefreshTokenDuration, appCache, logger)
	authService := auth.NewService(userRepo, gameService, jwtService, logger)
	connectionService := connection.NewService(connectionRepo, cardRepo, logger)
	importService := importer.NewService(appCache, importer.Options{
		SessionTTL:        cfg.Import.SessionTTL,
		MaxBytes:          cfg.Import.MaxBytes,
		DefaultCardPoints: cfg.Gamification.DefaultCardPoints,
	}, logger)
	planGenerator := planner.NewStubGenerator(cfg.Planner.Delay, logger)

	healthService := health.NewService(&health.Config{
		Version: cfg.App.Version,
		DB:      sqlDB,
		Cache:   appCache,
		Queue:   messageQueue,
		Catalog: achievementRepo,
	}, logger)

	// 11. Initialize WebSocket Hub (for real-time updates)
	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	hub := wsAdapter.NewHub(logger)
	go hub.Run(rootCtx)
	if err := hub.Consume(messageQueue); err != nil {
		logger.Fatal("Failed to subscribe websocket hub", zap.Error(err))
	}

	// 12. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:      serviceName,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		BodyLimit:    cfg.Import.MaxBytes * 2,
		ErrorHandler: middleware.ErrorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	if cfg.CORS.Enabled {
		app.Use(middleware.NewCORS(cfg.CORS))
	}
	if cfg.RateLimiting.Enabled {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimiting.MaxRequests,
			Expiration: cfg.RateLimiting.Window,
			Next: func(c *fiber.Ctx) bool {
				return c.Path() == "/metrics" || c.Path() == "/health/live" || c.Path() == "/health/ready"
			},
		}))
	}

	health.NewFiberHandler(healthService).RegisterRoutes(app)

	// Prometheus Metrics
	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	app.Get("/metrics", func(c *fiber.Ctx) error {
		metricsHandler(c.Context())
		return nil
	})

	// API Routes
	v1 := app.Group("/api/v1")
	if cfg.CircuitBreaker.Enabled {
		v1.Use(middleware.CircuitBreaker(cfg.CircuitBreaker, logger))
	}

	authHandler := handlers.NewAuthHandler(authService, logger)
	authHandler.RegisterRoutes(v1)

	// Protected Routes
	protected := v1.Group("", middleware.AuthRequired(authService))
	protected.Get("/me", authHandler.Me)
	handlers.NewBoardHandler(boardService, planGenerator, logger).RegisterRoutes(protected)
	handlers.NewGamificationHandler(gameService, logger).RegisterRoutes(protected)
	handlers.NewConnectionHandler(connectionService, logger).RegisterRoutes(protected)
	handlers.NewImportHandler(importService, boardService, logger).RegisterRoutes(protected)

	// WebSocket Routes
	app.Get("/ws/updates", append([]fiber.Handler{middleware.AuthRequired(authService)}, handlers.LiveUpdates(hub)...)...)

	// 13. Initialize gRPC Server (health + reflection)
	var grpcServer *server.GRPCServer
	if cfg.GRPC.Enabled {
		grpcServer = server.NewGRPCServer(healthService, logger)
		go grpcServer.Watch(rootCtx, 15*time.Second)
		go func() {
			logger.Info("Starting gRPC Server", zap.Int("port", cfg.GRPC.Port))
			lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPC.Port))
			if err != nil {
				logger.Fatal("Failed to listen for gRPC", zap.Error(err))
			}
			if err := grpcServer.Serve(lis); err != nil {
				logger.Fatal("gRPC Server failed", zap.Error(err))
			}
		}()
	}

	// 14. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 15. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if grpcServer != nil {
		grpcServer.Stop()
	}

	logger.Info("Server exited gracefully")
}
