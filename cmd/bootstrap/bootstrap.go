package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lab-booking-engine/config"
	deliveryHttp "lab-booking-engine/internal/delivery/http"
	"lab-booking-engine/internal/delivery/http/handler"
	"lab-booking-engine/internal/delivery/http/middleware"
	"lab-booking-engine/internal/infrastructure/cache"
	"lab-booking-engine/internal/infrastructure/database"
	"lab-booking-engine/internal/infrastructure/metrics"
	"lab-booking-engine/internal/repository"
	"lab-booking-engine/internal/service"
	"lab-booking-engine/internal/usecase"
	"lab-booking-engine/pkg/jwt"
	"lab-booking-engine/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server

	dispatcher service.NotificationDispatcher
	locker     *service.BookingLocker
}

// New creates a new App instance with all dependencies initialized
func New(ctx context.Context) (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	setupLogger(cfg.App.LogLevel)
	logrus.Info("Configuration loaded successfully")

	// Apply schema migrations before gorm opens its pool
	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(cfg.DB); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	app.Server = app.initializeServer(cfg, db, redisClient)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize logger
	log := logrus.StandardLogger()

	// Metrics; a nil recorder disables every counter
	var recorder *metrics.Recorder
	var metricsHandler http.Handler
	if cfg.App.MetricsEnabled {
		recorder = metrics.NewRecorder()
		metricsHandler = recorder.Handler()
	}

	// Initialize repositories
	uow := database.NewUnitOfWork(db)
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	bookingRepo := repository.NewBookingRequestRepository()
	itemRepo := repository.NewServiceItemRepository()
	workspaceRepo := repository.NewWorkspaceBookingRepository()
	serviceAddOnRepo := repository.NewServiceAddOnRepository()
	sampleRepo := repository.NewSampleTrackingRepository()
	documentRepo := repository.NewBookingDocumentRepository()
	labServiceRepo := repository.NewLabServiceRepository()
	pricingRepo := repository.NewServicePricingRepository()
	addOnCatalogRepo := repository.NewAddOnRepository()
	notificationRepo := repository.NewNotificationRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	resolver := service.NewPricingResolver(log, labServiceRepo, pricingRepo, addOnCatalogRepo)
	normalizer := service.NewLineItemNormalizer(labServiceRepo, resolver)
	references := service.NewReferenceGenerator(redisClient, log, cfg.Booking.ReferencePrefix)
	app.locker = service.NewBookingLocker(log, cfg.Booking.LockCleanup)
	app.dispatcher = service.NewNotificationDispatcher(cfg.Notification, uow, redisClient, log, recorder, userRepo, notificationRepo)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(uow, log, userRepo, roleRepo, auditService, jwtService, redisClient)
	bookingUsecase := usecase.NewBookingRequestUsecase(
		uow, log, recorder,
		userRepo, bookingRepo, itemRepo, workspaceRepo, serviceAddOnRepo, sampleRepo, documentRepo,
		normalizer, references, auditService, app.dispatcher, app.locker,
	)
	adminUsecase := usecase.NewAdminBookingUsecase(
		uow, log, recorder,
		bookingRepo, itemRepo, workspaceRepo, sampleRepo,
		auditService, app.dispatcher, app.locker,
	)
	verificationUsecase := usecase.NewUserVerificationUsecase(uow, log, recorder, userRepo, bookingRepo, auditService, app.dispatcher)
	sampleUsecase := usecase.NewSampleTrackingUsecase(uow, log, recorder, bookingRepo, sampleRepo, auditService, app.dispatcher, app.locker)
	documentUsecase := usecase.NewBookingDocumentUsecase(uow, log, bookingRepo, workspaceRepo, sampleRepo, documentRepo, auditService, app.dispatcher)
	auditLogUsecase := usecase.NewAuditLogUsecase(uow, log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService)
	bookingHandler := handler.NewBookingHandler(bookingUsecase, customValidator)
	adminHandler := handler.NewAdminHandler(adminUsecase, verificationUsecase, customValidator)
	sampleHandler := handler.NewSampleHandler(sampleUsecase, customValidator)
	documentHandler := handler.NewDocumentHandler(documentUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigin)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler, bookingHandler, adminHandler, sampleHandler, documentHandler, auditLogHandler,
		authMiddleware, corsMiddleware, metricsHandler,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close stops background workers, then closes database and Redis connections.
// The dispatcher is drained first because delivery still needs both.
func (app *App) Close() {
	if app.dispatcher != nil {
		app.dispatcher.Stop()
	}

	if app.locker != nil {
		app.locker.Stop()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
