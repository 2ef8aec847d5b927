package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/statewrap/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "statewrap"

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Metrics holds the generator collectors.
type Metrics struct {
	Generations  *prometheus.CounterVec
	Wrappers     *prometheus.CounterVec
	Transitions  *prometheus.CounterVec
	Permutations *prometheus.GaugeVec
	Duration     *prometheus.HistogramVec
	Rejections   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_total",
				Help:      "Total number of entity generations by outcome",
			},
			[]string{"entity", "outcome"},
		),
		Wrappers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "wrappers_assembled_total",
				Help:      "Total number of wrapper types assembled",
			},
			[]string{"entity"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transition_members_total",
				Help:      "Total number of transition members assembled",
			},
			[]string{"entity"},
		),
		Permutations: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "permutations",
				Help:      "Number of permutations of the last generation",
			},
			[]string{"entity"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "generation_duration_seconds",
				Help:      "Duration of entity generations",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"entity"},
		),
		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invalid_representations_total",
				Help:      "Rejected descriptions by reason",
			},
			[]string{"entity", "reason"},
		),
	}

	for _, c := range []prometheus.Collector{m.Generations, m.Wrappers, m.Transitions, m.Permutations, m.Duration, m.Rejections} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGenerateStart: func(ctx context.Context, e *domain.GenerationEvent) {
			m.Permutations.WithLabelValues(e.Entity).Set(float64(e.Permutations))
		},
		OnWrapperAssembled: func(ctx context.Context, e *domain.WrapperEvent) {
			m.Wrappers.WithLabelValues(e.Entity).Inc()
			m.Transitions.WithLabelValues(e.Entity).Add(float64(e.Transitions))
		},
		OnGenerateEnd: func(ctx context.Context, e *domain.GenerationEvent) {
			m.Duration.WithLabelValues(e.Entity).Observe(e.Duration.Seconds())
			m.Generations.WithLabelValues(e.Entity, Outcome(e.Err)).Inc()
			if isr, ok := domain.AsInvalidStateRepresentation(e.Err); ok {
				m.Rejections.WithLabelValues(e.Entity, string(isr.Reason)).Inc()
			}
		},
	}
}

// Outcome classifies a generation error for the outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, domain.ErrInvalidStateRepresentation):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

// WriteTextfile exports everything g gathers in the node-exporter textfile format.
func WriteTextfile(g prometheus.Gatherer, path string) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
