package jobs

import (
	"fmt"
	"log/slog"

	"canistertransfer/internal/core/application/usecases/commands"
)

// JobManager coordinates the scheduled jobs of the service.
type JobManager struct {
	outboxDrainJob *OutboxDrainJob
}

// NewJobManager creates the manager with every job the service runs.
func NewJobManager(
	syncer commands.WizardSyncer,
	drainSchedule string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		outboxDrainJob: NewOutboxDrainJob(syncer, drainSchedule, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.outboxDrainJob.Start(); err != nil {
		return fmt.Errorf("failed to start outbox drain job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.outboxDrainJob.Stop()
}
