package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Redirects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qrtrack_redirects_total",
		Help: "Number of resolved slug redirects served.",
	})

	ScansRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qrtrack_scans_recorded_total",
		Help: "Number of scan events written to storage.",
	})

	ScanRecordFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qrtrack_scan_record_failures_total",
		Help: "Number of scan events dropped because the write failed.",
	})
)
