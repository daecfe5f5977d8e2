package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/department-app/internal/api/http"
	"github.com/spec-kit/department-app/internal/api/http/handlers"
	"github.com/spec-kit/department-app/internal/api/openapi"
	"github.com/spec-kit/department-app/internal/auth"
	"github.com/spec-kit/department-app/internal/config"
	"github.com/spec-kit/department-app/internal/events"
	"github.com/spec-kit/department-app/internal/observability"
	"github.com/spec-kit/department-app/internal/persistence"
	"github.com/spec-kit/department-app/internal/repository"
	"github.com/spec-kit/department-app/internal/service"
	"github.com/spec-kit/department-app/internal/validation"
	"github.com/spec-kit/department-app/internal/web"
	"github.com/spec-kit/department-app/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := persistence.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer db.Close()

	redisConn := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redisConn.Close()
	var redisClient *redis.Client
	if redisConn != nil {
		redisClient = redisConn.Client
	}

	store := repository.NewStore(db.DB())
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartChangeFeed(service.NewChangeFeedService(dispatcher, logger, redisClient, cfg.Redis.Channel))

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	departmentService := service.NewDepartmentService(store, dispatcher, logger)
	employeeService := service.NewEmployeeService(store, dispatcher, logger)
	authService := service.NewAuthService(cfg.Auth, tokens)
	validator := validation.New()
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, db, redisConn),
		Metrics:        handlers.NewMetricsHandler(metrics),
		Departments:    handlers.NewDepartmentsHandler(departmentService, validator),
		Employees:      handlers.NewEmployeesHandler(employeeService, validator),
		Auth:           handlers.NewAuthHandler(authService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, cfg.Auth.Enabled()),
		OpenAPI:        openapi.NewGenerator("", cfg.App.Version).Handler(),
	})

	views, err := web.NewViews(web.NewAPIClient(cfg.App.APIBaseURL, cfg.App.RequestTimeout()), logger, cfg.Auth.Enabled())
	if err != nil {
		logger.Fatal("failed to load templates", zap.Error(err))
	}
	views.Register(app)
	app.Use(observability.NotFound)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()
	logger.Info("listening",
		zap.String("addr", cfg.App.Addr()),
		zap.String("driver", db.Driver()),
		zap.Bool("auth_enabled", cfg.Auth.Enabled()))

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
