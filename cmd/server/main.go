package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pro324test/store-sub001/internal/config"
	"github.com/pro324test/store-sub001/internal/infrastructure/jobs"
	"github.com/pro324test/store-sub001/internal/infrastructure/repositories"
	"github.com/pro324test/store-sub001/internal/infrastructure/sms"
	"github.com/pro324test/store-sub001/internal/interfaces/http/handlers"
	"github.com/pro324test/store-sub001/internal/interfaces/http/middleware"
	"github.com/pro324test/store-sub001/internal/observability/metrics"
	"github.com/pro324test/store-sub001/internal/usecases"
	"github.com/pro324test/store-sub001/pkg/jwt"
	"github.com/pro324test/store-sub001/pkg/logger"
	"github.com/pro324test/store-sub001/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt:    false,
			TranslateError: true,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Register metric collectors
	metrics.MustRegister()

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("Connected to PostgreSQL via GORM")
	}

	// Initialize JWT service
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessExpiry)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	roleRepo := repositories.NewRoleAssignmentRepository(db)
	vendorRepo := repositories.NewVendorProfileRepository(db)
	customerRepo := repositories.NewCustomerProfileRepository(db)
	otpRepo := repositories.NewOneTimeCodeRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Identity cache shares the access token expiry; a cached identity is
	// never staler than the token that resolved it.
	identityCache := redis.NewIdentityCache(cfg.JWT.AccessExpiry)

	// Initialize usecases
	tokenService := usecases.NewTokenService(refreshTokenRepo, userRepo, uow, jwtService, cfg.JWT.RefreshExpiry)
	authUsecase := usecases.NewAuthUsecase(userRepo, roleRepo, customerRepo, tokenService, jwtService, uow, identityCache)
	roleUsecase := usecases.NewRoleUsecase(roleRepo, userRepo, vendorRepo, uow, identityCache)
	otpUsecase := usecases.NewOtpUsecase(otpRepo, sms.NewLogSender(), cfg.Otp.Expiry, cfg.Otp.ResendCooldown)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	otpHandler := handlers.NewOtpHandler(otpUsecase)
	adminHandler := handlers.NewAdminHandler(roleUsecase, authUsecase)

	authMiddleware := middleware.Auth(jwtService)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleanupJob := jobs.NewTokenCleanupJob(refreshTokenRepo, cfg.Cleanup.Interval, cfg.Cleanup.Retention)
	go cleanupJob.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	applyCORSMiddleware(r)
	registerHealthRoute(r, sqlDB)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:    authHandler,
		otpHandler:     otpHandler,
		adminHandler:   adminHandler,
		authMiddleware: authMiddleware,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")
		cleanupJob.Stop()
		cancel()
	}()

	// Start server
	log.Printf("Identity service starting on port %s", cfg.Server.Port)
	log.Printf("API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
