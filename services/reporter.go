package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"payyourfriends/models"
)

// RecordSource is the read side of storage the report job needs.
type RecordSource interface {
	ListRecords(ctx context.Context, group string) ([]models.ExpenseRecord, error)
	MemberEmails(ctx context.Context, group string) (models.EmailDirectory, error)
}

// ReportJob aggregates outstanding balances per group and emails reminders.
// Every run is independent; nothing is retried.
type ReportJob struct {
	store      RecordSource
	dispatcher *Dispatcher
	groups     []string
	logger     *slog.Logger
}

func NewReportJob(store RecordSource, dispatcher *Dispatcher, groups []string, logger *slog.Logger) *ReportJob {
	return &ReportJob{store: store, dispatcher: dispatcher, groups: groups, logger: logger}
}

// Run processes every configured group. A group whose records cannot be
// loaded is reported in the returned error; the remaining groups still run.
func (j *ReportJob) Run(ctx context.Context) ([]models.DispatchReport, error) {
	start := time.Now()
	defer func() { reportRunDuration.Observe(time.Since(start).Seconds()) }()

	var reports []models.DispatchReport
	var errs []error
	for _, group := range j.groups {
		report, err := j.runGroup(ctx, group)
		if err != nil {
			j.logger.ErrorContext(ctx, "report job failed for group", "group", group, "error", err)
			errs = append(errs, err)
			continue
		}
		reports = append(reports, report)
	}

	if err := errors.Join(errs...); err != nil {
		reportRuns.WithLabelValues("error").Inc()
		return reports, err
	}
	reportRuns.WithLabelValues("ok").Inc()
	return reports, nil
}

func (j *ReportJob) runGroup(ctx context.Context, group string) (models.DispatchReport, error) {
	records, err := j.store.ListRecords(ctx, group)
	if err != nil {
		return models.DispatchReport{}, fmt.Errorf("list records for %q: %w", group, err)
	}
	directory, err := j.store.MemberEmails(ctx, group)
	if err != nil {
		return models.DispatchReport{}, fmt.Errorf("load member emails for %q: %w", group, err)
	}

	pending := AggregatePending(records)
	j.logger.InfoContext(ctx, "dispatching payment reports",
		"group", group,
		"records", len(records),
		"debtors", len(pending))

	report := j.dispatcher.Dispatch(ctx, pending, directory)
	report.Group = group
	return report, nil
}

// Totals sums outcomes across group reports.
func Totals(reports []models.DispatchReport) (sent, failed, skipped int) {
	for _, r := range reports {
		sent += r.Sent()
		failed += r.Failed()
		skipped += r.Skipped()
	}
	return sent, failed, skipped
}
