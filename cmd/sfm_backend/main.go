package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/schoolfin/sfm_backend/internal/adapters/database/pgsql"
	portssvc "github.com/schoolfin/sfm_backend/internal/core/ports/services"
	"github.com/schoolfin/sfm_backend/internal/core/services"
	"github.com/schoolfin/sfm_backend/internal/handlers"
	"github.com/schoolfin/sfm_backend/internal/middleware"
	"github.com/schoolfin/sfm_backend/pkg/config"
	"github.com/schoolfin/sfm_backend/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title SFM Backend API
// @version 1.0
// @description Accounting backend for school financial management.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	serviceContainer := buildServices(dbPool)

	// Seed the default chart of accounts and posting rules. Both seeders are
	// idempotent, so restarting the service is safe.
	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := serviceContainer.Account.InitializeDefaultChart(seedCtx, middleware.DefaultActor); err != nil {
		logger.Error("Failed to seed default chart of accounts", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := serviceContainer.Mapping.InitializeDefaults(seedCtx, middleware.DefaultActor); err != nil {
		logger.Error("Failed to seed default account mappings", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Default chart of accounts and mappings seeded.")

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	rateLimiter := limiter.New(memory.NewStore(), limiter.Rate{
		Period: time.Minute,
		Limit:  cfg.RateLimitPerMinute,
	})

	// Global middleware (logging, recovery, CORS, rate limiting, metrics, audit actor)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.Default(),
		middleware.RateLimit(rateLimiter),
		middleware.Metrics(),
		middleware.ActorMiddleware(),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildServices wires repositories and services into the container handed to
// the HTTP layer.
func buildServices(dbPool *pgxpool.Pool) *portssvc.ServiceContainer {
	accountRepo := pgsql.NewAccountRepository(dbPool)
	mappingRepo := pgsql.NewMappingRepository(dbPool)
	journalRepo := pgsql.NewJournalRepository(dbPool)
	reportingRepo := pgsql.NewReportingRepository(dbPool)
	paymentRepo := pgsql.NewPaymentRepository(dbPool)
	expenseRepo := pgsql.NewExpenseRepository(dbPool)
	payrollRepo := pgsql.NewPayrollRepository(dbPool)
	assetRepo := pgsql.NewAssetRepository(dbPool)
	bankingRepo := pgsql.NewBankingRepository(dbPool)
	outboxRepo := pgsql.NewOutboxRepository(dbPool)

	accountSvc := services.NewAccountService(accountRepo)
	mappingSvc := services.NewMappingService(mappingRepo, accountRepo)
	journalSvc := services.NewJournalService(journalRepo, accountRepo, reportingRepo)
	postingSvc := services.NewPostingService(journalRepo, accountRepo, mappingSvc, journalSvc, outboxRepo)

	return &portssvc.ServiceContainer{
		Account:        accountSvc,
		Mapping:        mappingSvc,
		Journal:        journalSvc,
		Posting:        postingSvc,
		Reconciliation: services.NewReconciliationService(outboxRepo, journalRepo, postingSvc),
		Payment:        services.NewPaymentService(paymentRepo, postingSvc),
		Expense:        services.NewExpenseService(expenseRepo, postingSvc),
		Payroll:        services.NewPayrollService(payrollRepo, postingSvc),
		Asset:          services.NewAssetService(assetRepo, postingSvc),
		Banking:        services.NewBankingService(bankingRepo, accountRepo, postingSvc),
		Reporting:      services.NewReportingService(reportingRepo, assetRepo),
	}
}

// runMigrations applies all pending "up" migrations from the migrations
// directory over a temporary database/sql connection.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
