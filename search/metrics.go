package search

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var searchTracer = otel.Tracer("creatorsearch/search")

var (
	searchMetricsOnce       sync.Once
	searchRequestCounter    metric.Int64Counter
	searchDurationHistogram metric.Float64Histogram
)

func initSearchMetrics() {
	searchMetricsOnce.Do(func() {
		meter := otel.Meter("creatorsearch/search")

		var err error
		searchRequestCounter, err = meter.Int64Counter(
			"creatorsearch.search.requests",
			metric.WithDescription("Searches handled, by kind and outcome"),
		)
		if err != nil {
			slog.Warn("failed to create search request counter", "err", err)
		}

		searchDurationHistogram, err = meter.Float64Histogram(
			"creatorsearch.search.duration",
			metric.WithDescription("Search latency"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			slog.Warn("failed to create search duration histogram", "err", err)
		}
	})
}

func recordSearchMetrics(ctx context.Context, kind string, elapsed time.Duration, success bool) {
	initSearchMetrics()
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	attrs := metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	)
	if searchRequestCounter != nil {
		searchRequestCounter.Add(ctx, 1, attrs)
	}
	if searchDurationHistogram != nil {
		searchDurationHistogram.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
	}
}
