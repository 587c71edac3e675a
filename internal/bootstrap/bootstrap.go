package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/aminejml/permigo/docs" // Import generated swagger docs
	appControllers "github.com/aminejml/permigo/internal/app/controllers"
	appMigrations "github.com/aminejml/permigo/internal/app/migrations"
	appRepos "github.com/aminejml/permigo/internal/app/repositories"
	appRoutes "github.com/aminejml/permigo/internal/app/routes"
	appServices "github.com/aminejml/permigo/internal/app/services"
	"github.com/aminejml/permigo/internal/config"
	"github.com/aminejml/permigo/internal/db"
	appMiddleware "github.com/aminejml/permigo/internal/middleware"
	pkgAuth "github.com/aminejml/permigo/internal/pkg/auth"
	"github.com/aminejml/permigo/internal/pkg/logger"
	"github.com/aminejml/permigo/internal/pkg/notification"
	"github.com/aminejml/permigo/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	Notifier             *notification.Service
	AuthService          *appServices.AuthService
	StudentService       *appServices.StudentService
	OnboardingService    *appServices.OnboardingService
	ExamService          *appServices.ExamService
	SchoolService        *appServices.SchoolService
	AdminService         *appServices.AdminService
	SweepService         *appServices.SweepService
	AuthController       *appControllers.AuthController
	StudentController    *appControllers.StudentController
	OnboardingController *appControllers.OnboardingController
	ExamController       *appControllers.ExamController
	SchoolController     *appControllers.SchoolController
	AdminController      *appControllers.AdminController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	AccessMiddleware     *appMiddleware.AccessMiddleware
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default admin account.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, cfg, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  cfg.AccessTokenTTL(),
		RefreshTokenExp: cfg.RefreshTokenTTL(),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	notifier, err := notification.NewService(
		context.Background(),
		cfg.Firebase.CredentialsFile,
		deps.Repos.StudentRepository,
	)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize push notifications")
		return nil, fmt.Errorf("failed to initialize push notifications: %w", err)
	}
	deps.Notifier = notifier
	if !notifier.Enabled() {
		lgr.Warn().Msg("Push notifications disabled, no Firebase credentials configured")
	}

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.StudentRepository,
		database,
		deps.JWTService,
	)
	deps.StudentService = appServices.NewStudentService(
		deps.Repos.UserRepository,
		deps.Repos.StudentRepository,
		deps.Repos.SchoolRepository,
		deps.Repos.EventRepository,
	)
	deps.OnboardingService = appServices.NewOnboardingService(
		deps.Repos.StudentRepository,
		deps.Repos.SchoolRepository,
		deps.Repos.SchoolRequestRepository,
	)
	deps.ExamService = appServices.NewExamService(
		deps.Repos.ExamRepository,
		deps.Repos.StudentRepository,
		database,
	)
	deps.SchoolService = appServices.NewSchoolService(
		deps.Repos.SchoolRepository,
		deps.Repos.StudentRepository,
		deps.Repos.SchoolRequestRepository,
		deps.Repos.RevenueRepository,
		deps.Repos.EventRepository,
		deps.Repos.ExamRepository,
		database,
		deps.Notifier,
	)
	deps.AdminService = appServices.NewAdminService(
		deps.Repos.UserRepository,
		deps.Repos.StudentRepository,
		deps.Repos.SchoolRepository,
		deps.Repos.RevenueRepository,
		deps.Repos.ExamRepository,
		database,
		deps.Notifier,
	)
	deps.SweepService = appServices.NewSweepService(
		deps.Repos.StudentRepository,
		deps.Notifier,
		cfg.Sweep.WarningDays,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.AccessMiddleware = appMiddleware.NewAccessMiddleware(deps.Repos.StudentRepository)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService)
	deps.OnboardingController = appControllers.NewOnboardingController(deps.OnboardingService)
	deps.ExamController = appControllers.NewExamController(deps.ExamService)
	deps.SchoolController = appControllers.NewSchoolController(deps.SchoolService)
	deps.AdminController = appControllers.NewAdminController(deps.AdminService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.StudentController,
		deps.OnboardingController,
		deps.ExamController,
		deps.SchoolController,
		deps.AdminController,
		deps.AuthMiddleware,
		deps.AccessMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
