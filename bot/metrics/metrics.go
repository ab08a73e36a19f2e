// Package metrics exposes Prometheus counters for birthday check runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Invocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "birthdaybot_invocations_total",
		Help: "Birthday check invocations by result (success or the failing error kind).",
	}, []string{"result"})

	Announcements = promauto.NewCounter(prometheus.CounterOpts{
		Name: "birthdaybot_announcements_total",
		Help: "Birthday announcements posted.",
	})

	Skipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "birthdaybot_announcements_skipped_total",
		Help: "Matching rows skipped because the ledger already recorded them for the day.",
	})

	LastSuccess = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "birthdaybot_last_success_timestamp_seconds",
		Help: "Unix time of the last invocation that completed without error.",
	})
)
