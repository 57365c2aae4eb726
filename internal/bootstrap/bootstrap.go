package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/yigit/freshman/internal/app/auth"
	appControllers "github.com/yigit/freshman/internal/app/controllers"
	appMigrations "github.com/yigit/freshman/internal/app/migrations"
	appRepos "github.com/yigit/freshman/internal/app/repositories"
	appRoutes "github.com/yigit/freshman/internal/app/routes"
	appServices "github.com/yigit/freshman/internal/app/services"
	"github.com/yigit/freshman/internal/config"
	"github.com/yigit/freshman/internal/db"
	appMiddleware "github.com/yigit/freshman/internal/middleware"
	pkgAuth "github.com/yigit/freshman/internal/pkg/auth"
	"github.com/yigit/freshman/internal/pkg/helpers"
	"github.com/yigit/freshman/internal/pkg/logger"
	"github.com/yigit/freshman/internal/pkg/metrics"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	FreshmanService    *appServices.FreshmanService
	ApprovalService    *appServices.ApprovalService
	FreshmanController *appControllers.FreshmanController
	ApprovalController *appControllers.ApprovalController
	AuthMiddleware     *appMiddleware.AuthMiddleware
	Repos              *appRepos.Repositories
	JWTService         *pkgAuth.JWTService
	AuthzService       *appAuth.AuthorizationService
	Metrics            *metrics.Metrics
	Pool               *pgxpool.Pool
	Logger             zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
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

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Str("statementTimeout", cfg.Database.StatementTimeout).Msg("Database connection successfully established.")

	if !cfg.Database.AutoMigrate {
		lgr.Info().Msg("Automatic migrations disabled")
		return dbPool, nil
	}

	migrator, err := appMigrations.NewMigrator(dbPool, lgr)
	if err != nil {
		dbPool.Close()
		return nil, err
	}
	defer migrator.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := migrator.Up(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Pool: dbPool}

	deps.Repos = appRepos.NewRepositories(dbPool)
	deps.Metrics = metrics.New()

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenIssuer: cfg.JWT.Issuer,
		TokenExp:    helpers.ParseDuration(cfg.JWT.TokenExpiration, 720*time.Hour),
	})

	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.StudentRepository)

	deps.FreshmanService = appServices.NewFreshmanService(deps.Repos.StudentRepository, deps.AuthzService, deps.Metrics)
	deps.ApprovalService = appServices.NewApprovalService(
		deps.Repos.ApprovalRepository,
		deps.Repos.IdentityRepository,
		deps.Metrics,
		cfg.Approval.MaxPageSize,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.FreshmanController = appControllers.NewFreshmanController(deps.FreshmanService)
	deps.ApprovalController = appControllers.NewApprovalController(deps.ApprovalService)

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

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(), appMiddleware.Recovery())
	if cfg.Metrics.Enabled {
		router.Use(appMiddleware.Metrics(deps.Metrics))
		router.GET(cfg.Metrics.Path, gin.WrapH(deps.Metrics.Handler()))
	}

	appRoutes.SetupRouter(router,
		deps.FreshmanController,
		deps.ApprovalController,
		deps.AuthMiddleware,
		deps.Pool,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
