// Package jobs holds the scheduled background work of the API process.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/entregadores67/dispatch/internal/api/metrics"
	"github.com/entregadores67/dispatch/internal/core/domain"
)

// OrderCounter is the slice of the order store the stats job needs.
type OrderCounter interface {
	CountByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error)
}

var trackedStatuses = []domain.OrderStatus{
	domain.StatusPending,
	domain.StatusAccepted,
	domain.StatusEnRoute,
	domain.StatusDelivered,
	domain.StatusCancelled,
}

// OrderStatsJob refreshes the orders-by-status gauge on a cron schedule.
type OrderStatsJob struct {
	counter  OrderCounter
	schedule string
	cron     *cron.Cron
	logger   zerolog.Logger
}

func NewOrderStatsJob(counter OrderCounter, schedule string, logger zerolog.Logger) *OrderStatsJob {
	return &OrderStatsJob{
		counter:  counter,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With().Str("component", "order_stats_job").Logger(),
	}
}

// Start registers the job and starts the scheduler. The gauge is refreshed
// once immediately so /metrics is populated before the first tick.
func (j *OrderStatsJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}
	j.RunOnce(context.Background())
	j.cron.Start()
	j.logger.Info().Str("schedule", j.schedule).Msg("order stats job started")
	return nil
}

// Stop stops the scheduler and waits for a running refresh to finish.
func (j *OrderStatsJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info().Msg("order stats job stopped")
}

// RunOnce reads the current counts and publishes them.
func (j *OrderStatsJob) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	counts, err := j.counter.CountByStatus(ctx)
	if err != nil {
		j.logger.Error().Err(err).Msg("order stats refresh failed")
		return
	}
	for _, st := range trackedStatuses {
		metrics.OrdersByStatus.WithLabelValues(string(st)).Set(float64(counts[st]))
	}
}
