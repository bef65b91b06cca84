package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gitlab.com/answer-validator.net/internal/adapter/crypto"
	"gitlab.com/answer-validator.net/internal/adapter/executor/httpexecutor"
	"gitlab.com/answer-validator.net/internal/adapter/metrics"
	"gitlab.com/answer-validator.net/internal/adapter/postgres/ledgerrepository"
	"gitlab.com/answer-validator.net/internal/adapter/postgres/testcaserepository"
	"gitlab.com/answer-validator.net/internal/adapter/redis/testcasecache"
	"gitlab.com/answer-validator.net/internal/config"
	"gitlab.com/answer-validator.net/internal/core/ports/primary"
	"gitlab.com/answer-validator.net/internal/core/services/history"
	"gitlab.com/answer-validator.net/internal/core/services/validation"
	logger2 "gitlab.com/answer-validator.net/internal/global/logger"
	http2 "gitlab.com/answer-validator.net/internal/http"
	"gitlab.com/answer-validator.net/internal/ledgerengine"
)

func main() {
	InitReader()
	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sysCfg := config.NewSystemConfig()
	logger2.Configure(sysCfg.DebugMode)
	logger := logger2.Logger
	defer logger.Sync()
	logger.Info("Starting answer validation service")

	db, err := setupDatabase(sysCfg.PostgresConfig)
	if err != nil {
		logger.Error("Failed to set up database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     sysCfg.RedisConfig.Url,
		Password: sysCfg.RedisConfig.Password,
		DB:       sysCfg.RedisConfig.DB,
	})
	defer redisClient.Close()

	// SECONDARY PORTS
	testCaseRepo := testcaserepository.NewTestCaseRepository(db, sysCfg.PostgresConfig.Schema, logger)
	testCaseStore := testcasecache.NewTestCaseCache(testCaseRepo, redisClient, sysCfg.RedisConfig.CacheTTL, logger)
	ledgerRepo := ledgerrepository.NewLedgerRepository(db, sysCfg.PostgresConfig.Schema, logger)
	executor := httpexecutor.NewExecutor(sysCfg.ExecutorConfig, logger)

	//primary ports
	validationMetrics := metrics.NewPrometheusMetrics("answer_validator")
	var jwtProvider primary.JWTService
	if sysCfg.JwtConfig.Enabled() {
		jwtProvider = crypto.NewJWTService(sysCfg.JwtConfig)
	}

	ctxBg := context.Background()
	ledgerEngine := ledgerengine.NewLedgerEngine(sysCfg.ValidationSvcCfg, ledgerRepo, validationMetrics, logger)
	ledgerEngine.Start(ctxBg)

	//services
	validationSvc := validation.NewValidationService(
		sysCfg.ValidationSvcCfg,
		testCaseStore,
		executor,
		ledgerEngine,
		crypto.Blake2bHasher{},
		validationMetrics,
		logger,
	)
	historySvc := history.NewHistoryService(ledgerRepo, logger)
	serviceProvider := http2.NewServiceProvider(validationSvc, historySvc, jwtProvider, validationMetrics.Handler())

	//server
	httpServer := http2.NewServer(sysCfg.HttpConfig.Port, sysCfg.HttpConfig.ServiceName, *serviceProvider, logger)
	if err := httpServer.Init(); err != nil {
		logger.Error("Failed to init http server", "error", err)
		os.Exit(1)
	}
	httpServer.Start(ctxBg)

	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(ctxBg, 30*time.Second)
	defer cancel()
	_ = httpServer.Stop(ctx)
	if err := ledgerEngine.Stop(ctx); err != nil {
		logger.Error("Pending validation outcomes were not persisted", "error", err)
	}

	logger.Info("successfully shutdown server")
}

// setupDatabase opens and pings the PostgreSQL connection
func setupDatabase(cfg *config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.Url)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func InitReader() {
	environment := ""
	if len(os.Args) < 2 {
		log.Fatalf("Env not supplied in argument")
	} else {
		environment = os.Args[1]
	}

	err := godotenv.Load(environment + ".env")
	if err != nil {
		log.Fatalf("Error loading %s.env file", environment)
	}
}
