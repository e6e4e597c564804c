package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for one process. Each instance owns
// its registry, so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	// Generation metrics
	StageDuration  *prometheus.HistogramVec
	StageRequests  *prometheus.CounterVec
	PostsGenerated *prometheus.CounterVec

	// Event metrics
	EventsPublished *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "linkodin_generation_stage_duration_seconds",
				Help:    "Duration of each generation stage in seconds",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~100s
			},
			[]string{"stage"},
		),
		StageRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkodin_generation_stage_requests_total",
				Help: "Total number of generation stage calls",
			},
			[]string{"stage", "success"},
		),
		PostsGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkodin_posts_generated_total",
				Help: "Total number of posts generated and stored",
			},
			[]string{"persona_id"},
		),
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkodin_events_published_total",
				Help: "Total number of events published to the message bus",
			},
			[]string{"subject", "success"},
		),
	}
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func successLabel(err error) string {
	if err != nil {
		return "false"
	}
	return "true"
}

// RecordStage observes one generation stage call.
func (m *Metrics) RecordStage(stage string, duration time.Duration, err error) {
	m.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
	m.StageRequests.WithLabelValues(stage, successLabel(err)).Inc()
}

// RecordPostGenerated counts a post that made it to storage.
func (m *Metrics) RecordPostGenerated(personaID string) {
	m.PostsGenerated.WithLabelValues(personaID).Inc()
}

// RecordEventPublished counts a publish attempt on subject.
func (m *Metrics) RecordEventPublished(subject string, err error) {
	m.EventsPublished.WithLabelValues(subject, successLabel(err)).Inc()
}

// WriteTextfile writes the registry in the text exposition format for the
// node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
