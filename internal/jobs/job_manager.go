package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"shipping/internal/core/application/usecases/queries"
	"shipping/internal/core/ports"
	"shipping/internal/metrics"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	orderStatusGaugeJob    *OrderStatusGaugeJob
	orphanUploadCleanupJob *OrphanUploadCleanupJob
	denylistPurgeJob       *DenylistPurgeJob
}

// NewJobManager creates a new job manager with all required jobs.
// purger is optional; pass nil when revocations expire on their own.
func NewJobManager(
	countOrdersHandler queries.CountOrdersByStatusQueryHandler,
	referencedImagesHandler queries.ReferencedImagesQueryHandler,
	storage ports.ImageStorage,
	purger TokenPurger,
	m *metrics.Metrics,
	orphanGrace time.Duration,
	logger *slog.Logger,
) *JobManager {
	jm := &JobManager{
		orderStatusGaugeJob:    NewOrderStatusGaugeJob(countOrdersHandler, m, logger),
		orphanUploadCleanupJob: NewOrphanUploadCleanupJob(storage, referencedImagesHandler, m, orphanGrace, logger),
	}
	if purger != nil {
		jm.denylistPurgeJob = NewDenylistPurgeJob(purger, m, logger)
	}
	return jm
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.orderStatusGaugeJob.Start(); err != nil {
		return fmt.Errorf("failed to start order status gauge job: %w", err)
	}

	if err := jm.orphanUploadCleanupJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.orderStatusGaugeJob.Stop()
		return fmt.Errorf("failed to start orphan upload cleanup job: %w", err)
	}

	if jm.denylistPurgeJob != nil {
		if err := jm.denylistPurgeJob.Start(); err != nil {
			jm.orphanUploadCleanupJob.Stop()
			jm.orderStatusGaugeJob.Stop()
			return fmt.Errorf("failed to start denylist purge job: %w", err)
		}
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	if jm.denylistPurgeJob != nil {
		jm.denylistPurgeJob.Stop()
	}
	jm.orphanUploadCleanupJob.Stop()
	jm.orderStatusGaugeJob.Stop()
}
