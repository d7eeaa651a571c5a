package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the server's Prometheus instruments.
type Metrics struct {
	SessionsStarted prometheus.Counter
	Answers         *prometheus.CounterVec
	Completions     *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics registers the server metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "riskscan_sessions_started_total",
			Help: "Total number of assessment sessions started",
		}),
		Answers: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "riskscan_answers_total",
			Help: "Total number of answers recorded",
		}, []string{"question_type"}),
		Completions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "riskscan_assessments_completed_total",
			Help: "Total number of completed assessments by risk band",
		}, []string{"band"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name: "riskscan_http_request_duration_seconds",
			Help: "HTTP request latency by route",
		}, []string{"route"}),
	}
}
