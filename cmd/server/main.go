package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/onetenth/thanks-point/internal/adapters/http/handler"
	"github.com/onetenth/thanks-point/internal/adapters/repository/postgres"
	"github.com/onetenth/thanks-point/internal/core/auth"
	"github.com/onetenth/thanks-point/internal/core/employee"
	"github.com/onetenth/thanks-point/internal/core/exchange"
	"github.com/onetenth/thanks-point/internal/core/thanks"
	"github.com/onetenth/thanks-point/internal/platform/config"
	pg "github.com/onetenth/thanks-point/internal/platform/db/postgres"
	"github.com/onetenth/thanks-point/internal/platform/logger"
	"github.com/onetenth/thanks-point/internal/platform/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging.Env)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	if cfg.Logging.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		zapLogger.Fatal("failed to initialize database pool", zap.Error(err))
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool)

	employeeRepo := postgres.NewEmployeeRepository(dbPool)
	thanksRepo := postgres.NewThanksRepository(dbPool)

	employeeSvc := employee.NewService(employeeRepo, nil, txManager)
	authSvc := auth.NewService(employeeRepo, cfg.Auth.AdminEmails)
	thanksSvc := thanks.NewService(thanksRepo, employeeRepo, nil)
	exchangeSvc := exchange.NewService(employeeRepo, thanksRepo, nil)

	router := handler.NewRouter(zapLogger, handler.Handlers{
		Auth:     handler.NewAuthHandler(authSvc),
		Employee: handler.NewEmployeeHandler(employeeSvc),
		Thanks:   handler.NewThanksHandler(thanksSvc),
		Exchange: handler.NewExchangeHandler(exchangeSvc),
	})

	httpServer := server.New(cfg.Server.ListenAddr, router)

	zapLogger.Info("HTTP server listening", zap.String("addr", cfg.Server.ListenAddr))

	if err := httpServer.Run(ctx); err != nil {
		zapLogger.Fatal("server stopped with error", zap.Error(err))
	}
}
