package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

const denylistPurgeJobName = "denylist_purge"

// TokenPurger drops revocations whose tokens have expired anyway.
type TokenPurger interface {
	Purge() int
}

// DenylistPurgeJob trims the in-process token denylist every 10 minutes.
// Redis expires its keys itself and needs no such job.
type DenylistPurgeJob struct {
	purger   TokenPurger
	recorder JobRecorder
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewDenylistPurgeJob(purger TokenPurger, recorder JobRecorder, logger *slog.Logger) *DenylistPurgeJob {
	return &DenylistPurgeJob{
		purger:   purger,
		recorder: recorder,
		cron:     cron.New(),
		logger:   logger.With("component", "denylist_purge_job"),
	}
}

func (j *DenylistPurgeJob) Start() error {
	if _, err := j.cron.AddFunc("@every 10m", j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Denylist purge job started (running every 10 minutes)")
	return nil
}

func (j *DenylistPurgeJob) Run() {
	purged := j.purger.Purge()
	j.recorder.JobFinished(denylistPurgeJobName, nil)
	if purged > 0 {
		j.logger.DebugContext(context.Background(), "Expired revocations purged", "count", purged)
	}
}

func (j *DenylistPurgeJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Denylist purge job stopped")
}
