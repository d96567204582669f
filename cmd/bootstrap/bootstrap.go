package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-queue/config"
	deliveryHttp "clinic-queue/internal/delivery/http"
	"clinic-queue/internal/delivery/http/handler"
	"clinic-queue/internal/delivery/http/middleware"
	"clinic-queue/internal/delivery/ws"
	"clinic-queue/internal/infrastructure/cache"
	"clinic-queue/internal/infrastructure/database"
	"clinic-queue/internal/repository"
	"clinic-queue/internal/service"
	"clinic-queue/internal/usecase"
	"clinic-queue/pkg/jwt"
	"clinic-queue/pkg/metrics"
	"clinic-queue/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server

	displayHub   *ws.Hub
	notifier     *service.Notifier
	identityLock *service.IdentityLock
	stopListener context.CancelFunc
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	log := setupLogger()
	app.Log = log

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	if level, err := logrus.ParseLevel(cfg.App.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warnf("Unknown LOG_LEVEL %q, keeping %s", cfg.App.LogLevel, log.GetLevel())
	}
	log.Info("Configuration loaded successfully")

	db, err := database.NewPostgresConnection(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(db, cfg.DB.Name, log); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	app.initializeServer()

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)
	return log
}

// initializeServer wires every layer and creates the HTTP server
func (app *App) initializeServer() {
	cfg, log := app.Config, app.Log

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	appMetrics := metrics.NewMetrics("clinic_queue", prometheus.DefaultRegisterer)

	// Repositories
	txManager := repository.NewTxManager(app.DB)
	staffRepo := repository.NewStaffRepository()
	patientRepo := repository.NewPatientRepository()
	ticketRepo := repository.NewTicketRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	ticketCallRepo := repository.NewTicketCallRepository()

	// Services
	codes := service.NewCodeGenerator(patientRepo, ticketRepo)
	directory := service.NewPatientDirectory(patientRepo, codes)
	ledger := service.NewTicketLedger(ticketRepo, codes)
	auditService := service.NewAuditService(log, auditLogRepo)
	app.identityLock = service.NewIdentityLock(log)
	app.notifier = service.NewNotifier(
		service.NewRedisPublisher(app.RedisClient, cfg.Notify.Channel),
		log, appMetrics, cfg.Notify.Timeout,
	)

	// Usecases
	registrationUsecase := usecase.NewRegistrationUsecase(txManager, log, staffRepo, directory, ledger,
		auditService, app.identityLock, app.notifier, appMetrics, cfg.Registration.MaxRetries)
	receptionUsecase := usecase.NewReceptionUsecase(txManager, log, staffRepo, patientRepo, ticketRepo,
		ticketCallRepo, ledger, auditService, app.notifier)
	doctorUsecase := usecase.NewDoctorUsecase(txManager, log, staffRepo, ledger, auditService, app.notifier)
	staffUsecase := usecase.NewStaffUsecase(txManager, log, staffRepo, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(txManager, log, auditLogRepo)

	// Delivery
	app.displayHub = ws.NewHub(log, appMetrics)
	router := deliveryHttp.NewRouter(
		handler.NewRegistrationHandler(registrationUsecase, customValidator),
		handler.NewReceptionHandler(receptionUsecase, customValidator),
		handler.NewDoctorHandler(doctorUsecase, customValidator),
		handler.NewStaffHandler(staffUsecase, customValidator),
		handler.NewAuditLogHandler(auditLogUsecase),
		app.displayHub,
		prometheus.DefaultGatherer,
		middleware.NewAuthMiddleware(jwtService, cache.NewRevocationList(app.RedisClient)),
		middleware.NewCORSMiddleware(),
		middleware.NewLoggingMiddleware(log),
		middleware.NewMetricsMiddleware(appMetrics),
		middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  rate.Limit(cfg.RateLimit.RPS),
			Burst: cfg.RateLimit.Burst,
		}),
	)

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and the display feed, then handles graceful shutdown
func (app *App) Run() {
	listenerCtx, cancel := context.WithCancel(context.Background())
	app.stopListener = cancel
	go app.displayHub.ListenRedis(listenerCtx, app.RedisClient, app.Config.Notify.Channel)

	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	if app.stopListener != nil {
		app.stopListener()
	}
	app.displayHub.Close()
	// in-flight notifications still need Redis
	app.notifier.Stop()
	app.identityLock.Stop()

	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
