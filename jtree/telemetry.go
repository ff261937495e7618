package jtree

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	tracer = otel.Tracer("gopherjt.jtree")
	meter  = otel.Meter("gopherjt.jtree")
)

var (
	inferLatency metric.Float64Histogram
	inferTotal   metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error
		inferLatency, err = meter.Float64Histogram(
			"jtree_infer_duration_seconds",
			metric.WithDescription("Duration of junction tree inferences"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}
		inferTotal, err = meter.Int64Counter(
			"jtree_infer_total",
			metric.WithDescription("Total number of junction tree inferences"),
		)
		if err != nil {
			metricsErr = err
		}
	})
	return metricsErr
}

func recordInfer(ctx context.Context, duration time.Duration, nbNodes int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Bool("success", success), attribute.Int("nodes", nbNodes))
	inferLatency.Record(ctx, duration.Seconds(), attrs)
	inferTotal.Add(ctx, 1, attrs)
}
