package jobs

import (
	"context"
	"log/slog"

	"canistertransfer/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultOutboxDrainSchedule runs the drain every five seconds.
const DefaultOutboxDrainSchedule = "*/5 * * * * *"

// OutboxDrainJob periodically publishes pending outbox events to the wizard
// documents. A recommendation run syncs right after its commit; the job
// picks up whatever that sync, or any other command, left behind.
type OutboxDrainJob struct {
	syncer   commands.WizardSyncer
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewOutboxDrainJob creates the job. An empty schedule falls back to
// DefaultOutboxDrainSchedule. Schedules use the six field cron format with
// seconds.
func NewOutboxDrainJob(syncer commands.WizardSyncer, schedule string, logger *slog.Logger) *OutboxDrainJob {
	if schedule == "" {
		schedule = DefaultOutboxDrainSchedule
	}
	return &OutboxDrainJob{
		syncer:   syncer,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "outbox_drain_job"),
	}
}

// Start registers the drain and starts the scheduler.
func (j *OutboxDrainJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if err := j.syncer.SyncPending(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Outbox drain failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox drain job started", "schedule", j.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running drain to finish.
func (j *OutboxDrainJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Outbox drain job stopped")
}
