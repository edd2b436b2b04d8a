// Package jobs provides scheduled background tasks for the transfer service.
//
// Jobs are built on github.com/robfig/cron/v3 with second precision.
//
// # Available Jobs
//
// 1. OutboxDrainJob - Publishes pending transfer events to the wizard documents
//
// # Usage
//
//	jobManager := jobs.NewJobManager(wizardSyncer, config.OutboxDrainSchedule, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed drain is logged and retried on the next tick. Overlapping ticks
// are skipped while a drain is still running.
package jobs
