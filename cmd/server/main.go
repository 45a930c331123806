package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/mpue/factor/internal/config"
	httpserver "github.com/mpue/factor/internal/http"
	"github.com/mpue/factor/internal/render"
	"github.com/mpue/factor/internal/repository"
	"github.com/mpue/factor/internal/seed"
	"github.com/mpue/factor/internal/service"
	"github.com/mpue/factor/pkg/database"
	"github.com/mpue/factor/pkg/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Warenwirtschaft invoicing server",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	// Ensure the database directory exists
	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Fatal("Failed to create database directory", zap.Error(err))
		}
	}

	// Initialize database
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	invoiceRepo := repository.NewInvoiceRepository(db, logger)
	templateRepo := repository.NewTemplateRepository(db, logger)
	articleRepo := repository.NewArticleRepository(db, logger)
	customerRepo := repository.NewCustomerRepository(db, logger)

	// Seed default template and sample data on first start
	seeder := seed.NewSeeder(db, templateRepo, logger)
	if err := seeder.Run(context.Background()); err != nil {
		logger.Fatal("Failed to seed database", zap.Error(err))
	}

	// Initialize renderer and services
	renderer := render.NewRenderer(cfg.Company, logger)

	invoiceService := service.NewInvoiceService(invoiceRepo, templateRepo, renderer, logger)
	templateService := service.NewTemplateService(templateRepo, logger)
	reportService := service.NewReportService(invoiceRepo, logger)
	articleService := service.NewArticleService(articleRepo, logger)
	customerService := service.NewCustomerService(customerRepo, logger)

	// Initialize HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		invoiceService,
		templateService,
		reportService,
		articleService,
		customerService,
		logger,
	)

	// Run until interrupted, then shut down gracefully
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
