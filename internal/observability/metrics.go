package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	activitiesRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tend",
		Subsystem: "engagement",
		Name:      "activities_recorded_total",
		Help:      "Activity events appended to the ledger, by type.",
	}, []string{"activity_type"})

	badgesAwarded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tend",
		Subsystem: "engagement",
		Name:      "badges_awarded_total",
		Help:      "Badges newly awarded, by type.",
	}, []string{"badge_type"})

	turnsGenerated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tend",
		Subsystem: "chat",
		Name:      "turns_generated_total",
		Help:      "Conversational turns answered successfully.",
	})

	upstreamFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tend",
		Subsystem: "chat",
		Name:      "upstream_failures_total",
		Help:      "Reply-generation calls that failed or returned empty.",
	})

	crisisFlags = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tend",
		Subsystem: "safety",
		Name:      "crisis_flags_total",
		Help:      "Scanned texts that matched the crisis keyword list.",
	})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tend",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "status"})
)

func init() {
	prometheus.MustRegister(
		activitiesRecorded,
		badgesAwarded,
		turnsGenerated,
		upstreamFailures,
		crisisFlags,
		requestDuration,
	)
}

// RecordActivity counts one ledger append.
func RecordActivity(activityType string) {
	activitiesRecorded.WithLabelValues(activityType).Inc()
}

// RecordBadge counts one newly awarded badge.
func RecordBadge(badgeType string) {
	badgesAwarded.WithLabelValues(badgeType).Inc()
}

// RecordTurn counts one answered turn.
func RecordTurn() {
	turnsGenerated.Inc()
}

// RecordUpstreamFailure counts one failed reply generation.
func RecordUpstreamFailure() {
	upstreamFailures.Inc()
}

// RecordCrisisFlag counts one crisis-positive scan.
func RecordCrisisFlag() {
	crisisFlags.Inc()
}

// ObserveRequest records one HTTP request's latency.
func ObserveRequest(route, status string, d time.Duration) {
	requestDuration.WithLabelValues(route, status).Observe(d.Seconds())
}
