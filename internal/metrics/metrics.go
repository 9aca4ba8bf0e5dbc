package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "telemetry_messages_received_total",
		Help: "Total number of MQTT messages received, labelled by topic.",
	}, []string{"topic"})

	InsertFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "telemetry_insert_failures_total",
		Help: "Total number of records dropped because the store insert failed.",
	})

	InsertDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "telemetry_insert_duration_seconds",
		Help:    "Latency of store inserts issued by the ingestion pipeline.",
		Buckets: prometheus.DefBuckets,
	})

	CommandsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "telemetry_commands_published_total",
		Help: "Total number of actuator commands published, labelled by outcome.",
	}, []string{"status"})

	TokensIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "telemetry_tokens_issued_total",
		Help: "Total number of access tokens issued by the token authority.",
	})
)
