package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reportEmails = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payyourfriends_report_emails_total",
		Help: "Payment report emails by outcome.",
	}, []string{"status"})

	reportRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payyourfriends_report_runs_total",
		Help: "Report job runs by result.",
	}, []string{"result"})

	reportRunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "payyourfriends_report_run_duration_seconds",
		Help:    "Wall time of one report job run.",
		Buckets: prometheus.DefBuckets,
	})
)
