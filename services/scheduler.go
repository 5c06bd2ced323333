package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the report job on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewScheduler registers job under schedule, evaluated in loc. Each run is
// bounded by timeout; a run still in progress makes the next tick a no-op.
func NewScheduler(schedule string, loc *time.Location, job *ReportJob, timeout time.Duration, logger *slog.Logger) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		logger.Info("running scheduled report email job")
		reports, err := job.Run(ctx)
		sent, failed, skipped := Totals(reports)
		if err != nil {
			logger.Error("scheduled report job finished with errors",
				"error", err, "sent", sent, "failed", failed, "skipped", skipped)
			return
		}
		logger.Info("scheduled report job finished", "sent", sent, "failed", failed, "skipped", skipped)
	})
	if err != nil {
		return nil, err
	}
	return &Scheduler{cron: c, logger: logger}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.logger.Info("report schedule active", "next_run", e.Next)
	}
}

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
