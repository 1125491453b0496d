package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dukabook/duka-ledger/internal/config"
	"github.com/dukabook/duka-ledger/internal/handlers"
	"github.com/dukabook/duka-ledger/internal/repository"
	"github.com/dukabook/duka-ledger/internal/services"
	xhttp "github.com/dukabook/duka-ledger/pkg/http"
	"github.com/dukabook/duka-ledger/pkg/logger"
	"github.com/dukabook/duka-ledger/pkg/pg"
	"github.com/dukabook/duka-ledger/pkg/prom"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Second * 5))
	s.Use(xhttp.RequestIDMiddleware)
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Router = xhttp.CreateDefaultRouter()

	readConf := pg.Config{
		User:     config.Get().PostgresReadUser,
		Host:     config.Get().PostgresReadHost,
		Port:     config.Get().PostgresReadPort,
		Password: config.Get().PostgresReadPassword,
		Database: config.Get().PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	pgDebug := false
	if config.Get().AppEnv == "dev" {
		pgDebug = true
	}
	db, err := pg.CreateReadWrite(readConf, writeConf, pgDebug)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	if config.Get().PromNamespace != "" {
		host, _ := os.Hostname()
		if err := prom.Create(host, config.Get().AppEnv, config.Get().PromNamespace); err != nil {
			logger.Error("failed creating metrics", "error", err)
		}
		if config.Get().AppDebugMetricsAddr != "" {
			go prom.ListenAndServer(config.Get().AppDebugMetricsAddr, config.Get().AppDebugMetricsURI)
		}
	}

	itemRepo := repository.NewItemRepository(db)
	historyRepo := repository.NewPriceHistoryRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	// services
	catalogService := services.NewCatalogService(itemRepo, historyRepo)
	customerService := services.NewCustomerService(customerRepo, transactionRepo)
	ledgerService := services.NewLedgerService(transactionRepo, itemRepo, customerRepo)
	healthService := services.NewHealthService()

	// v1 handlers
	itemHandler := handlers.NewItemHandler(catalogService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	transactionHandler := handlers.NewTransactionHandler(ledgerService)
	healthHandler := handlers.NewHealthHandler(healthService)

	g := s.Router.Group("/api/v1")
	handlers.RegisterItemRoutes(g, itemHandler)
	handlers.RegisterCustomerRoutes(g, customerHandler)
	handlers.RegisterTransactionRoutes(g, transactionHandler)
	handlers.RegisterHealthRoutes(g, healthHandler)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		var err = s.ListenAndServe(config.Get().HttpListenAddr)
		if err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	<-c
	s.Shutdown()
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	if _, err := os.Open(".env"); err != nil {
		return ""
	}
	return ".env"
}
