package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"shipping/internal/core/application/usecases/queries"
	"shipping/internal/core/domain/model/order"

	"github.com/robfig/cron/v3"
)

const orderStatusGaugeJobName = "order_status_gauge"

// OrderStatusGauge receives the per-status order counts.
type OrderStatusGauge interface {
	SetOrdersByStatus(statuses []string, counts map[string]int64)
	JobFinished(job string, err error)
}

// OrderStatusGaugeJob refreshes the orders-by-status gauge every 30 seconds.
type OrderStatusGaugeJob struct {
	handler queries.CountOrdersByStatusQueryHandler
	gauge   OrderStatusGauge
	timeout time.Duration
	cron    *cron.Cron
	logger  *slog.Logger
	initial sync.WaitGroup
}

// NewOrderStatusGaugeJob creates the job. Counting runs through CountOrdersByStatusQueryHandler.
func NewOrderStatusGaugeJob(
	handler queries.CountOrdersByStatusQueryHandler,
	gauge OrderStatusGauge,
	logger *slog.Logger,
) *OrderStatusGaugeJob {
	return &OrderStatusGaugeJob{
		handler: handler,
		gauge:   gauge,
		timeout: 10 * time.Second,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "order_status_gauge_job"),
	}
}

// Start schedules the job and refreshes the gauge once right away.
func (j *OrderStatusGaugeJob) Start() error {
	if _, err := j.cron.AddFunc("*/30 * * * * *", func() { _ = j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.initial.Add(1)
	go func() {
		defer j.initial.Done()
		_ = j.Run(context.Background())
	}()
	j.logger.InfoContext(context.Background(), "Order status gauge job started (running every 30 seconds)")
	return nil
}

// Run performs one refresh.
func (j *OrderStatusGaugeJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	counts, err := j.handler.Handle(ctx, queries.NewCountOrdersByStatusQuery())
	j.gauge.JobFinished(orderStatusGaugeJobName, err)
	if err != nil {
		j.logger.ErrorContext(ctx, "Order status gauge job failed", "error", err)
		return err
	}

	statuses := make([]string, 0, len(order.AllStatuses()))
	values := make(map[string]int64, len(counts))
	for _, status := range order.AllStatuses() {
		statuses = append(statuses, status.String())
		values[status.String()] = counts[status]
	}
	j.gauge.SetOrdersByStatus(statuses, values)
	return nil
}

// Stop stops the job and waits for a running refresh.
func (j *OrderStatusGaugeJob) Stop() {
	<-j.cron.Stop().Done()
	j.initial.Wait()
	j.logger.InfoContext(context.Background(), "Order status gauge job stopped")
}
