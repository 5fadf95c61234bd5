package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// POSSyncJobName is the name of the POS import job
const POSSyncJobName = "pos_sync"

// VisitImportService defines the interface for importing visits from the POS
// database. This interface allows the job to call the service without
// importing the service package directly.
type VisitImportService interface {
	// SyncAll imports new checkout lines for every mapped studio.
	// Returns the number of imported visits and the number of studios whose sync failed.
	SyncAll(ctx context.Context) (imported int, failed int, err error)
}

// POSSyncJob runs the nightly POS import that pulls new checkout lines
// into the visit history.
type POSSyncJob struct {
	importService VisitImportService
	logger        *zap.Logger
	timeout       time.Duration
}

// NewPOSSyncJob creates a new POS import job.
// The timeout controls how long the import is allowed to run.
func NewPOSSyncJob(importService VisitImportService, logger *zap.Logger, timeout time.Duration) *POSSyncJob {
	return &POSSyncJob{
		importService: importService,
		logger:        logger,
		timeout:       timeout,
	}
}

// Run executes the POS import job.
// This is called by the scheduler according to the cron expression.
func (j *POSSyncJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	j.logger.Info("starting pos import job")

	imported, failed, err := j.importService.SyncAll(ctx)
	if err != nil {
		j.logger.Error("pos import failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("pos import job completed",
		zap.Int("imported", imported),
		zap.Int("tenants_failed", failed),
		zap.Duration("duration", time.Since(start)))
}

// RegisterPOSSyncJob registers the POS import job with the scheduler.
// The cronExpr should be a valid cron expression (e.g., "0 30 3 * * *" for
// 03:30 every night). If runStartupSync is true, an import also runs
// immediately in a background goroutine so it doesn't block API startup.
func RegisterPOSSyncJob(scheduler *Scheduler, importService VisitImportService, logger *zap.Logger, cronExpr string, timeout time.Duration, runStartupSync bool) error {
	job := NewPOSSyncJob(importService, logger, timeout)

	if runStartupSync {
		go job.Run()
	}

	return scheduler.AddJob(POSSyncJobName, cronExpr, job.Run)
}
