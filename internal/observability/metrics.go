package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRunsIngested   = "statscollector.runs.ingested.total"
	metricRunsRejected   = "statscollector.runs.rejected.total"
	metricIngestDuration = "statscollector.ingest.duration.seconds"
	metricRowsLoaded     = "statscollector.dashboard.rows.loaded.total"

	attrField = "field"
)

// ingestDurationBoundaries covers sub-millisecond validation up to slow
// multi-second store appends.
var ingestDurationBoundaries = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// IngestMetrics holds the OTel instruments for the ingestion path.
type IngestMetrics struct {
	runsIngested   metric.Int64Counter
	runsRejected   metric.Int64Counter
	ingestDuration metric.Float64Histogram
	rowsLoaded     metric.Int64Counter
}

// NewIngestMetrics creates the ingestion instrument set from the meter.
func NewIngestMetrics(mt metric.Meter) (*IngestMetrics, error) {
	b := newMetricBuilder(mt)

	im := &IngestMetrics{
		runsIngested:   b.counter(metricRunsIngested, "Total number of admitted runs", "{run}"),
		runsRejected:   b.counter(metricRunsRejected, "Total number of rejected payloads", "{payload}"),
		ingestDuration: b.histogram(metricIngestDuration, "Ingest request duration in seconds", "s", ingestDurationBoundaries...),
		rowsLoaded:     b.counter(metricRowsLoaded, "Total rows loaded for aggregation", "{row}"),
	}

	if b.err != nil {
		return nil, b.err
	}

	return im, nil
}

// RecordIngested records one admitted run and its end-to-end duration.
func (im *IngestMetrics) RecordIngested(ctx context.Context, duration time.Duration) {
	im.runsIngested.Add(ctx, 1)
	im.ingestDuration.Record(ctx, duration.Seconds())
}

// RecordRejected records one rejected payload, attributed to the offending
// field (empty for payload-level rejections).
func (im *IngestMetrics) RecordRejected(ctx context.Context, field string) {
	im.runsRejected.Add(ctx, 1, metric.WithAttributes(attribute.String(attrField, field)))
}

// RecordRowsLoaded records how many rows an aggregation read pulled.
func (im *IngestMetrics) RecordRowsLoaded(ctx context.Context, n int) {
	im.rowsLoaded.Add(ctx, int64(n))
}
