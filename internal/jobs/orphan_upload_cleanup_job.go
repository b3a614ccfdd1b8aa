package jobs

import (
	"context"
	"log/slog"
	"time"

	"shipping/internal/core/application/usecases/queries"
	"shipping/internal/core/ports"

	"github.com/robfig/cron/v3"
)

const orphanUploadCleanupJobName = "orphan_upload_cleanup"

// DefaultOrphanGracePeriod keeps fresh uploads whose record may still be in flight.
const DefaultOrphanGracePeriod = 24 * time.Hour

// JobRecorder counts job outcomes.
type JobRecorder interface {
	JobFinished(job string, err error)
}

// OrphanUploadCleanupJob removes stored images that no account or order references.
// Runs hourly. Files younger than the grace period are never touched.
type OrphanUploadCleanupJob struct {
	storage  ports.ImageStorage
	handler  queries.ReferencedImagesQueryHandler
	recorder JobRecorder
	grace    time.Duration
	now      func() time.Time
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewOrphanUploadCleanupJob creates the job. A non-positive grace falls back to DefaultOrphanGracePeriod.
func NewOrphanUploadCleanupJob(
	storage ports.ImageStorage,
	handler queries.ReferencedImagesQueryHandler,
	recorder JobRecorder,
	grace time.Duration,
	logger *slog.Logger,
) *OrphanUploadCleanupJob {
	if grace <= 0 {
		grace = DefaultOrphanGracePeriod
	}
	return &OrphanUploadCleanupJob{
		storage:  storage,
		handler:  handler,
		recorder: recorder,
		grace:    grace,
		now:      time.Now,
		cron:     cron.New(),
		logger:   logger.With("component", "orphan_upload_cleanup_job"),
	}
}

// Start schedules the job at the top of every hour.
func (j *OrphanUploadCleanupJob) Start() error {
	if _, err := j.cron.AddFunc("@hourly", func() { _, _ = j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Orphan upload cleanup job started (running hourly)",
		"grace_period", j.grace.String())
	return nil
}

// Run performs one sweep and returns the number of removed files.
// A file that cannot be removed is logged and skipped.
func (j *OrphanUploadCleanupJob) Run(ctx context.Context) (int, error) {
	removed, err := j.sweep(ctx)
	j.recorder.JobFinished(orphanUploadCleanupJobName, err)
	if err != nil {
		j.logger.ErrorContext(ctx, "Orphan upload cleanup job failed", "error", err)
		return removed, err
	}
	if removed > 0 {
		j.logger.InfoContext(ctx, "Orphan uploads removed", "count", removed)
	}
	return removed, nil
}

func (j *OrphanUploadCleanupJob) sweep(ctx context.Context) (int, error) {
	stored, err := j.storage.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(stored) == 0 {
		return 0, nil
	}

	refs, err := j.handler.Handle(ctx, queries.NewReferencedImagesQuery())
	if err != nil {
		return 0, err
	}

	cutoff := j.now().Add(-j.grace)
	removed := 0
	for _, image := range stored {
		if _, used := refs[image.Ref]; used || image.ModifiedAt.After(cutoff) {
			continue
		}
		if err = j.storage.Delete(ctx, image.Ref); err != nil {
			j.logger.WarnContext(ctx, "Failed to remove orphan upload", "ref", image.Ref, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}

// Stop stops the job and waits for a running sweep.
func (j *OrphanUploadCleanupJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Orphan upload cleanup job stopped")
}
