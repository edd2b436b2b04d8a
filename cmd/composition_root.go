package cmd

import (
	"log/slog"

	httpin "canistertransfer/internal/adapters/in/http"
	"canistertransfer/internal/adapters/out/postgres"
	"canistertransfer/internal/adapters/out/postgres/inventoryrepo"
	"canistertransfer/internal/adapters/out/postgres/outboxrepo"
	"canistertransfer/internal/adapters/out/postgres/transferrepo"
	"canistertransfer/internal/adapters/out/postgres/wizardrepo"
	"canistertransfer/internal/core/application/usecases/commands"
	"canistertransfer/internal/core/application/usecases/queries"
	"canistertransfer/internal/core/domain/services"
	"canistertransfer/internal/jobs"
	"canistertransfer/internal/pkg/metrics"
	"canistertransfer/internal/pkg/runguard"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	policy   services.Policy
	guard    *runguard.Guard
	registry *prometheus.Registry
	recorder *metrics.RunRecorder
}

// NewCompositionRoot loads the allocation policy and registers the metrics.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	policy, err := services.LoadPolicy(config.PolicyPath)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder, err := metrics.NewRunRecorder(registry)
	if err != nil {
		return nil, err
	}

	return &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
		policy:     policy,
		guard:      runguard.New(),
		registry:   registry,
		recorder:   recorder,
	}, nil
}

// Models lists the tables the service owns, for AutoMigrate.
func Models() []any {
	return []any{
		&transferrepo.RunDTO{},
		&transferrepo.AssignmentDTO{},
		&transferrepo.StatusDTO{},
		&transferrepo.CycleDeviceDTO{},
		&outboxrepo.EventDTO{},
		&wizardrepo.DocumentDTO{},
		&inventoryrepo.BatchDTO{},
		&inventoryrepo.DeviceDTO{},
		&inventoryrepo.LocationDTO{},
		&inventoryrepo.PendingTransferDTO{},
	}
}

func (c *CompositionRoot) Policy() services.Policy {
	return c.policy
}

func (c *CompositionRoot) Registry() *prometheus.Registry {
	return c.registry
}

func (c *CompositionRoot) CreateRecommendTransfersCommandHandler() commands.RecommendTransfersCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecommendTransfersCommandHandler(
		f,
		c.guard,
		c.policy,
		c.recorder,
		c.CreateSyncWizardDocumentCommandHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateConfirmCanisterPlacementCommandHandler() commands.ConfirmCanisterPlacementCommandHandler {
	return commands.NewConfirmCanisterPlacementCommandHandler(c.transferUoWFactory())
}

func (c *CompositionRoot) CreateCompleteDeviceStageCommandHandler() commands.CompleteDeviceStageCommandHandler {
	return commands.NewCompleteDeviceStageCommandHandler(c.transferUoWFactory())
}

func (c *CompositionRoot) CreateSkipCanisterTransfersCommandHandler() commands.SkipCanisterTransfersCommandHandler {
	return commands.NewSkipCanisterTransfersCommandHandler(c.transferUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateTransferLaterCommandHandler() commands.TransferLaterCommandHandler {
	return commands.NewTransferLaterCommandHandler(c.transferUoWFactory())
}

func (c *CompositionRoot) CreateSyncWizardDocumentCommandHandler() commands.SyncWizardDocumentCommandHandler {
	var f commands.OutboxUoWFactory = FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSyncWizardDocumentCommandHandler(
		f,
		wizardrepo.NewGormWizardDocumentStore(c.gormDB),
		c.config.WizardRetryAttempts,
		c.logger,
	)
}

func (c *CompositionRoot) CreateGetTransferCyclesQueryHandler() queries.GetTransferCyclesQueryHandler {
	return queries.NewGetTransferCyclesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCanisterHistoryQueryHandler() queries.GetCanisterHistoryQueryHandler {
	return queries.NewGetCanisterHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateRecommendTransfersCommandHandler(),
		c.CreateConfirmCanisterPlacementCommandHandler(),
		c.CreateCompleteDeviceStageCommandHandler(),
		c.CreateSkipCanisterTransfersCommandHandler(),
		c.CreateTransferLaterCommandHandler(),
		c.CreateGetTransferCyclesQueryHandler(),
		c.CreateGetCanisterHistoryQueryHandler(),
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateSyncWizardDocumentCommandHandler(), c.config.OutboxDrainSchedule, c.logger)
}

func (c *CompositionRoot) transferUoWFactory() commands.TransferUoWFactory {
	return FuncTransferUoWFactory(func() commands.TransferUoW {
		return c.uowFactory.Create()
	})
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncTransferUoWFactory func() commands.TransferUoW

func (f FuncTransferUoWFactory) Create() commands.TransferUoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}
