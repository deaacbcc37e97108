package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-dental-clinic/config"
	deliveryHttp "go-dental-clinic/internal/delivery/http"
	"go-dental-clinic/internal/delivery/http/handler"
	"go-dental-clinic/internal/delivery/http/middleware"
	"go-dental-clinic/internal/infrastructure/cache"
	"go-dental-clinic/internal/infrastructure/database"
	"go-dental-clinic/internal/repository"
	"go-dental-clinic/internal/service"
	"go-dental-clinic/internal/usecase"
	"go-dental-clinic/pkg/jwt"
	"go-dental-clinic/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	SlotLock    *service.SlotLockService
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New(ctx context.Context) (*App, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	SetupLogger(cfg.App.LogLevel)
	logrus.Info("Configuration loaded successfully")

	location, err := cfg.Scheduling.Location()
	if err != nil {
		return nil, err
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Initialize Redis; the booking lock degrades to in-process locking without it
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logrus.Warnf("Redis unavailable, continuing with local booking locks: %v", err)
		redisClient = nil
	}
	app.RedisClient = redisClient

	// Initialize all layers
	log := logrus.StandardLogger()
	app.SlotLock = service.NewSlotLockService(redisClient, log, location, cfg.Scheduling.LockTTL, cfg.Scheduling.LockWait)
	app.Server = initializeServer(cfg, db, redisClient, log, location, app.SlotLock)

	return app, nil
}

// SetupLogger configures the logrus logger
func SetupLogger(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// initializeServer creates and configures the HTTP server
func initializeServer(
	cfg *config.Config,
	db *gorm.DB,
	redisClient *redis.Client,
	log *logrus.Logger,
	location *time.Location,
	slotLock *service.SlotLockService,
) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	appointmentRepo := repository.NewAppointmentRepository()
	dentistRepo := repository.NewDentistRepository()
	patientRepo := repository.NewPatientRepository()
	procedureRepo := repository.NewProcedureRepository()
	treatmentPlanRepo := repository.NewTreatmentPlanRepository()
	attendanceRepo := repository.NewAttendanceRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	conflictService := service.NewConflictService(log, appointmentRepo, location)
	ledgerService := service.NewLedgerService(log, treatmentPlanRepo, attendanceRepo)
	auditService := service.NewAuditService(log, auditLogRepo)

	// Initialize usecases
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, location,
		appointmentRepo, dentistRepo, patientRepo, procedureRepo,
		conflictService, slotLock, auditService)
	financialReportUsecase := usecase.NewFinancialReportUsecase(db, log, location, dentistRepo, ledgerService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	financialHandler := handler.NewFinancialHandler(financialReportUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.AllowedOrigins)

	// Initialize router
	router := deliveryHttp.NewRouter(appointmentHandler, financialHandler, auditLogHandler, authMiddleware, corsMiddleware)
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
		logrus.Infof("Environment: %s, clinic timezone: %s", app.Config.App.Env, app.Config.Scheduling.Timezone)
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

// Close stops background workers and closes all connections
func (app *App) Close() {
	if app.SlotLock != nil {
		app.SlotLock.Stop()
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
