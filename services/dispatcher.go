package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"payyourfriends/models"

	"golang.org/x/sync/errgroup"
)

// Directory resolves a person to the email address on file.
type Directory interface {
	Lookup(person string) (string, bool)
}

type DispatcherConfig struct {
	Concurrency  int
	SendTimeout  time.Duration
	BatchTimeout time.Duration
}

func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		Concurrency:  4,
		SendTimeout:  10 * time.Second,
		BatchTimeout: 2 * time.Minute,
	}
}

// Dispatcher sends payment reports as a bounded concurrent batch.
type Dispatcher struct {
	mailer Mailer
	cfg    DispatcherConfig
	logger *slog.Logger
}

func NewDispatcher(mailer Mailer, cfg DispatcherConfig, logger *slog.Logger) *Dispatcher {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Dispatcher{mailer: mailer, cfg: cfg, logger: logger}
}

type reportSend struct {
	person string
	email  string
	msg    models.ReportMessage
}

// Dispatch emails every person with something owed. People with nothing owed
// are left out of the report; people without an email are reported as
// skipped. A failed send is recorded and never stops the others. Dispatch
// returns once every send has finished.
func (d *Dispatcher) Dispatch(ctx context.Context, pending map[string][]models.PendingDetail, directory Directory) models.DispatchReport {
	if d.cfg.BatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.BatchTimeout)
		defer cancel()
	}
	if directory == nil {
		directory = models.EmailDirectory{}
	}

	persons := make([]string, 0, len(pending))
	for person := range pending {
		persons = append(persons, person)
	}
	sort.Strings(persons)

	var report models.DispatchReport
	var sends []reportSend
	for _, person := range persons {
		msg, ok := BuildReportMessage(person, pending[person])
		if !ok {
			continue
		}
		email, ok := directory.Lookup(person)
		if !ok {
			d.logger.WarnContext(ctx, "no email found, skipping report", "person", person)
			reportEmails.WithLabelValues(string(models.DispatchSkipped)).Inc()
			report.Outcomes = append(report.Outcomes, models.DispatchOutcome{
				Person: person,
				Status: models.DispatchSkipped,
				Error:  "no email on file",
			})
			continue
		}
		sends = append(sends, reportSend{person: person, email: email, msg: msg})
	}

	results := make([]models.DispatchOutcome, len(sends))
	var g errgroup.Group
	g.SetLimit(d.cfg.Concurrency)
	for i, s := range sends {
		i, s := i, s
		g.Go(func() error {
			results[i] = d.send(ctx, s)
			return nil
		})
	}
	_ = g.Wait()
	report.Outcomes = append(report.Outcomes, results...)

	d.logger.InfoContext(ctx, "report dispatch finished",
		"sent", report.Sent(),
		"failed", report.Failed(),
		"skipped", report.Skipped())
	return report
}

func (d *Dispatcher) send(ctx context.Context, s reportSend) models.DispatchOutcome {
	if d.cfg.SendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.SendTimeout)
		defer cancel()
	}

	err := d.mailer.Send(ctx, models.Email{
		To:      s.email,
		ToName:  s.person,
		Subject: s.msg.Subject,
		Text:    s.msg.Text,
		HTML:    s.msg.HTML,
	})
	outcome := models.DispatchOutcome{Person: s.person, Email: s.email, Status: models.DispatchSent}
	if err != nil {
		d.logger.ErrorContext(ctx, "report email failed", "person", s.person, "email", s.email, "error", err)
		outcome.Status = models.DispatchFailed
		outcome.Error = err.Error()
	}
	reportEmails.WithLabelValues(string(outcome.Status)).Inc()
	return outcome
}
