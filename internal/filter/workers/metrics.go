package workers

import (
	"context"
	"fmt"
	"sync"

	"filter-module/internal/filter/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const _meterName = "filter-module"

type filterMetrics struct {
	received  metric.Int64Counter
	forwarded metric.Int64Counter
	dropped   metric.Int64Counter
	malformed metric.Int64Counter
}

var (
	metricsOnce     sync.Once
	metricsInstance *filterMetrics
	metricsErr      error
)

func instrumentName(name string) string {
	return fmt.Sprintf("%s.%s", "filter_module", name)
}

func getFilterMetrics() (*filterMetrics, error) {
	metricsOnce.Do(func() {
		meter := otel.GetMeterProvider().Meter(_meterName)
		m := &filterMetrics{}

		var err error
		if m.received, err = meter.Int64Counter(instrumentName("messages.received"),
			metric.WithDescription("Messages evaluated by the filter")); err != nil {
			metricsErr = err
			return
		}
		if m.forwarded, err = meter.Int64Counter(instrumentName("messages.forwarded"),
			metric.WithDescription("Messages above threshold turned into alerts")); err != nil {
			metricsErr = err
			return
		}
		if m.dropped, err = meter.Int64Counter(instrumentName("messages.dropped"),
			metric.WithDescription("Messages at or below threshold, or empty")); err != nil {
			metricsErr = err
			return
		}
		if m.malformed, err = meter.Int64Counter(instrumentName("messages.malformed"),
			metric.WithDescription("Messages abandoned because the payload could not be read")); err != nil {
			metricsErr = err
			return
		}
		metricsInstance = m
	})

	return metricsInstance, metricsErr
}

// RegisterThresholdGauge exposes the current threshold as an observable gauge.
func RegisterThresholdGauge(store *domain.ThresholdStore) error {
	meter := otel.GetMeterProvider().Meter(_meterName)
	_, err := meter.Float64ObservableGauge(
		instrumentName("threshold"),
		metric.WithDescription("Current temperature threshold"),
		metric.WithFloat64Callback(func(_ context.Context, o metric.Float64Observer) error {
			o.Observe(store.Get())
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("registering threshold gauge: %w", err)
	}
	return nil
}

type outcome int

const (
	outcomeReceived outcome = iota
	outcomeForwarded
	outcomeDropped
	outcomeMalformed
)

func (m *filterMetrics) record(ctx context.Context, o outcome) {
	if m == nil {
		return
	}

	var counter metric.Int64Counter
	switch o {
	case outcomeReceived:
		counter = m.received
	case outcomeForwarded:
		counter = m.forwarded
	case outcomeDropped:
		counter = m.dropped
	case outcomeMalformed:
		counter = m.malformed
	default:
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("module", _meterName)))
}
