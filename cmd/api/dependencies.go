package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kytseng/bankbook/internal/domain/account"
	accounthandler "github.com/kytseng/bankbook/internal/domain/account/handler"
	"github.com/kytseng/bankbook/internal/domain/export"
	exporthandler "github.com/kytseng/bankbook/internal/domain/export/handler"
	importhandler "github.com/kytseng/bankbook/internal/domain/import/handler"
	importservice "github.com/kytseng/bankbook/internal/domain/import/service"
	"github.com/kytseng/bankbook/internal/domain/statement/document"
	"github.com/kytseng/bankbook/internal/domain/statement/ocr"
	"github.com/kytseng/bankbook/internal/domain/statement/parser"
	"github.com/kytseng/bankbook/internal/domain/transaction"
	transactionhandler "github.com/kytseng/bankbook/internal/domain/transaction/handler"
	"github.com/kytseng/bankbook/migrations"
	"github.com/kytseng/bankbook/pkg/config"
	"github.com/kytseng/bankbook/pkg/cron"
	"github.com/kytseng/bankbook/pkg/db"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Repositories
	AccountRepo     account.Repository
	TransactionRepo transaction.Repository

	// Services
	Registry      *parser.Registry
	ImportService *importservice.ImportService
	ExportService *export.Service
	Scheduler     *cron.Scheduler

	// Handlers
	ImportHandler      *importhandler.Handler
	AccountHandler     *accounthandler.Handler
	TransactionHandler *transactionhandler.Handler
	ExportHandler      *exporthandler.Handler
}

// InitDependencies initializes all application dependencies
func InitDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}
	deps.initRepositories()
	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}
	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase(ctx context.Context) error {
	database, err := db.Connect(ctx, d.Config.Database)
	if err != nil {
		return err
	}
	d.DB = database

	if err := d.DB.Migrate(migrations.FS, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

// initRepositories initializes the repository layer
func (d *Dependencies) initRepositories() {
	d.AccountRepo = account.NewPostgresRepository(d.DB.Pool)
	d.TransactionRepo = transaction.NewPostgresRepository(d.DB.Pool)
	d.Logger.Info("repositories initialized")
}

// initServices builds the parser registry and the service layer
func (d *Dependencies) initServices() error {
	docs := document.NewPDFExtractor()
	reader := ocr.NewClient(d.Config.OCR)

	registry := parser.NewRegistry(d.Config.Parsers.DefaultBankCode)
	registry.Register(parser.BankCodePostOffice, parser.NewPostOffice(docs, reader))
	registry.Register(parser.BankCodeEnterpriseBank, parser.NewEnterpriseBank(docs, reader))
	if err := registry.LoadConfigFile(d.Config.Parsers.BanksFile, docs); err != nil {
		return fmt.Errorf("failed to load bank configs: %w", err)
	}
	d.Registry = registry

	d.ImportService = importservice.NewImportService(registry, d.AccountRepo, d.TransactionRepo, d.Logger)
	d.ExportService = export.NewService(d.TransactionRepo)
	d.Scheduler = cron.NewScheduler(d.AccountRepo, d.Logger)

	d.Logger.Info("services initialized")
	return nil
}

// initHandlers initializes the handler layer
func (d *Dependencies) initHandlers() {
	d.ImportHandler = importhandler.NewHandler(d.ImportService)
	d.AccountHandler = accounthandler.NewHandler(d.AccountRepo)
	d.TransactionHandler = transactionhandler.NewHandler(d.TransactionRepo, d.ImportService)
	d.ExportHandler = exporthandler.NewHandler(d.ExportService)
	d.Logger.Info("handlers initialized")
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.Scheduler != nil {
		<-d.Scheduler.Stop().Done()
	}
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
