// Package jobs provides scheduled background tasks for the shipping service.
//
// Jobs are built on github.com/robfig/cron/v3 and read the database only
// through query handlers.
//
// # Available Jobs
//
// 1. OrderStatusGaugeJob - every 30 seconds, sets shipping_orders_by_status from live order counts
// 2. OrphanUploadCleanupJob - hourly, removes stored images no account or order references
// 3. DenylistPurgeJob - every 10 minutes, only with the in-memory token denylist
//
// # Usage
//
//	jobManager := jobs.NewJobManager(countHandler, imagesHandler, storage, purger, m, grace, logger)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed run is logged and counted in shipping_job_runs_total; the schedule keeps going.
// Uploads younger than the grace period survive the sweep, which covers the window between
// storing an image and committing the record that points at it.
package jobs
