// Package container wires the application together: ordered initialization
// and reverse-order teardown of every component.
package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/haenin/hr-eapproval/internal/application/dispatcher"
	"github.com/haenin/hr-eapproval/internal/application/port"
	"github.com/haenin/hr-eapproval/internal/application/service"
	"github.com/haenin/hr-eapproval/internal/application/subscriber"
	"github.com/haenin/hr-eapproval/internal/config"
	"github.com/haenin/hr-eapproval/internal/infrastructure/persistence/repository"
	"github.com/haenin/hr-eapproval/internal/infrastructure/registry"
	"github.com/haenin/hr-eapproval/internal/infrastructure/sequence"
	"github.com/haenin/hr-eapproval/internal/infrastructure/storage"
	"github.com/haenin/hr-eapproval/internal/notify"
	"github.com/haenin/hr-eapproval/internal/report"
	"github.com/haenin/hr-eapproval/internal/worker"
	"github.com/haenin/hr-eapproval/migrations"
	"github.com/haenin/hr-eapproval/pkg/database"
)

// Container manages all application dependencies and lifecycle
type Container struct {
	config *config.Config
	logger *zap.Logger

	// Infrastructure
	db           *database.DB
	repositories *RepositoryBundle
	fileStore    *storage.LocalFileStore
	templates    port.TemplateRegistry
	sequence     port.SequenceGenerator

	// Application
	dispatcher  dispatcher.Dispatcher
	subscribers *subscriber.Registry
	hub         *notify.Hub
	approval    service.ApprovalService
	exporter    *report.Exporter

	// Workers
	workers *worker.Manager

	// Lifecycle
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	ready  atomic.Bool
	closed atomic.Bool
}

// RepositoryBundle groups all repositories for convenient access
type RepositoryBundle struct {
	Document   port.DocumentRepository
	Line       port.LineRepository
	Reference  port.ReferenceRepository
	Attachment port.AttachmentRepository
	Bookmark   port.BookmarkRepository
	Effect     port.EffectRepository
	TxManager  port.TransactionManager
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components in dependency order:
// 1. Database, migrations and repositories
// 2. Storage, template registry and doc number sequence
// 3. Event dispatcher and subscribers
// 4. Application services
// 5. Workers
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.logger.Info("Starting container initialization")

	if err := c.initDatabase(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Info("Database initialized")

	if err := c.initInfrastructure(); err != nil {
		return fmt.Errorf("failed to initialize infrastructure: %w", err)
	}
	c.logger.Info("Infrastructure initialized")

	c.initDispatcher()
	c.logger.Info("Dispatcher and subscribers initialized")

	c.initServices()
	c.logger.Info("Application services initialized")

	if err := c.initWorkers(); err != nil {
		return fmt.Errorf("failed to initialize workers: %w", err)
	}
	c.logger.Info("Workers initialized and started")

	c.ready.Store(true)
	c.logger.Info("Container started successfully")
	return nil
}

// Close gracefully shuts down all components in reverse order
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var errs []error

	if c.cancel != nil {
		c.cancel()
	}

	if c.workers != nil {
		c.workers.StopAll()
		c.logger.Info("Workers stopped")
	}

	if c.dispatcher != nil {
		if err := c.dispatcher.Close(); err != nil {
			c.logger.Error("Failed to close dispatcher", zap.Error(err))
			errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
		} else {
			c.logger.Info("Dispatcher closed")
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close database: %w", err))
		} else {
			c.logger.Info("Database closed")
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		return fmt.Errorf("container closed with %d errors", len(errs))
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized
func (c *Container) Ready() bool {
	return c.ready.Load()
}

func (c *Container) initDatabase() error {
	db, err := database.New(database.Config{
		Path:            c.config.Database.Path,
		MaxOpenConns:    c.config.Database.MaxOpenConns,
		MaxIdleConns:    c.config.Database.MaxIdleConns,
		ConnMaxLifetime: c.config.Database.ConnMaxLifetime,
	}, c.logger)
	if err != nil {
		return err
	}
	c.db = db

	if err := database.NewMigrator(db, c.logger).RunMigrations(migrations.FS); err != nil {
		db.Close()
		return fmt.Errorf("run migrations: %w", err)
	}

	c.repositories = &RepositoryBundle{
		Document:   repository.NewDocumentRepository(db, c.logger),
		Line:       repository.NewLineRepository(db, c.logger),
		Reference:  repository.NewReferenceRepository(db, c.logger),
		Attachment: repository.NewAttachmentRepository(db, c.logger),
		Bookmark:   repository.NewBookmarkRepository(db, c.logger),
		Effect:     repository.NewEffectRepository(db, c.logger),
		TxManager:  repository.NewTxManager(db),
	}
	return nil
}

func (c *Container) initInfrastructure() error {
	c.fileStore = storage.NewLocalFileStore(
		c.config.Storage.BaseDir,
		c.config.Storage.BaseURL,
		c.config.Storage.Secret,
		c.logger,
	)

	templates := make([]port.TemplateMetadata, 0, len(c.config.Templates))
	for _, t := range c.config.Templates {
		templates = append(templates, port.TemplateMetadata{Key: t.Key, Name: t.Name})
	}
	c.templates = registry.New(templates)

	c.sequence = sequence.New(c.db, c.logger)
	return nil
}

func (c *Container) initDispatcher() {
	kv := &zapLoggerAdapter{logger: c.logger}

	c.dispatcher = dispatcher.NewDispatcher(dispatcher.WithLogger(kv))

	// Domain subscribers, routed by template key after final decisions.
	c.subscribers = subscriber.NewRegistry(kv)
	payroll := subscriber.NewPayrollSubscriber(c.repositories.Effect, kv)
	vacation := subscriber.NewVacationSubscriber(c.repositories.Effect, kv)
	attendance := subscriber.NewAttendanceSubscriber(c.repositories.Effect, kv)
	retirement := subscriber.NewRetirementSubscriber(c.repositories.Effect, kv)
	promotion := subscriber.NewPromotionSubscriber(c.repositories.Effect, kv)

	c.subscribers.Register("vacation", vacation)
	c.subscribers.Register("overtime", attendance)
	c.subscribers.Register("modifyworkrecord", attendance)
	c.subscribers.Register("changework", attendance)
	c.subscribers.Register("resign", retirement)
	c.subscribers.Register("payrolladjustment", payroll)
	c.subscribers.Register("payrollraise", payroll)
	c.subscribers.Register("personnel", promotion)
	c.subscribers.Bind(c.dispatcher)

	// In-app notification fanout.
	c.hub = notify.NewHub()
	notify.NewFanout(c.hub).Bind(c.dispatcher)
}

func (c *Container) initServices() {
	kv := &zapLoggerAdapter{logger: c.logger}

	c.approval = service.NewApprovalService(
		c.repositories.Document,
		c.repositories.Line,
		c.repositories.Reference,
		c.repositories.Attachment,
		c.repositories.Bookmark,
		c.repositories.TxManager,
		c.templates,
		c.sequence,
		c.fileStore,
		c.dispatcher,
		kv,
	)

	c.exporter = report.NewExporter(c.repositories.Document, c.repositories.Line, c.logger)
}

func (c *Container) initWorkers() error {
	c.workers = worker.NewManager(c.logger)
	c.workers.Register(worker.NewReminderPoller(
		c.repositories.Document,
		c.repositories.Line,
		c.approval,
		worker.Config{
			PollInterval:  c.config.Reminder.PollInterval,
			ThresholdDays: c.config.Reminder.ThresholdDays,
			BatchSize:     c.config.Reminder.BatchSize,
			Concurrency:   c.config.Reminder.Concurrency,
		},
		c.logger,
	))
	return c.workers.StartAll(c.ctx)
}

// Getters for accessing container components

// ApprovalService returns the approval application service
func (c *Container) ApprovalService() service.ApprovalService {
	return c.approval
}

// Exporter returns the xlsx report exporter
func (c *Container) Exporter() *report.Exporter {
	return c.exporter
}

// Hub returns the notification hub
func (c *Container) Hub() *notify.Hub {
	return c.hub
}

// FileStore returns the file store
func (c *Container) FileStore() *storage.LocalFileStore {
	return c.fileStore
}

// Dispatcher returns the event dispatcher
func (c *Container) Dispatcher() dispatcher.Dispatcher {
	return c.dispatcher
}

// Repositories returns all repositories
func (c *Container) Repositories() *RepositoryBundle {
	return c.repositories
}

// Logger returns the container's logger
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// LoggerAdapter returns a keysAndValues logger backed by the container's
// zap logger, for the adapter layers.
func (c *Container) LoggerAdapter() *zapLoggerAdapter {
	return &zapLoggerAdapter{logger: c.logger}
}

// zapLoggerAdapter adapts zap.Logger to the keysAndValues Logger interfaces
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, convertToZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, convertToZapFields(keysAndValues...)...)
}

// convertToZapFields converts key-value pairs to zap fields
func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
