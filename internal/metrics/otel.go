package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const defaultServiceName = "nba-advanced-stats"

var (
	promReaderFactory = prometheusComponents
	otlpReaderFactory = buildOTLPReader
	instrumentFactory = newOtelInstruments
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled      bool
	Port         string
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Setup configures OpenTelemetry metrics with a Prometheus exporter and optional OTLP exporter.
// It returns a Recorder, the Prometheus HTTP handler, and a shutdown function that flushes exporters.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = defaultServiceName
	}

	promReader, promHandler, gatherer, err := promReaderFactory()
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []sdkmetric.Option{sdkmetric.WithReader(promReader)}

	if cfg.OtlpEndpoint != "" {
		otlpReader, err := otlpReaderFactory(ctx, cfg.OtlpEndpoint, cfg.OtlpInsecure)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(otlpReader))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	opts = append(opts, sdkmetric.WithResource(res))

	provider := sdkmetric.NewMeterProvider(opts...)

	otelInst, err := instrumentFactory(provider)
	if err != nil {
		return nil, nil, nil, err
	}

	rec := newRecorder(otelInst, gatherer)
	shutdown := func(c context.Context) error {
		return provider.Shutdown(c)
	}

	return rec, promHandler, shutdown, nil
}

func buildOTLPReader(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Reader, error) {
	otlpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		otlpOpts = append(otlpOpts, otlpmetrichttp.WithInsecure())
	}
	otlpExp, err := otlpmetrichttp.New(ctx, otlpOpts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(otlpExp, sdkmetric.WithInterval(15*time.Second)), nil
}

func prometheusComponents() (sdkmetric.Reader, http.Handler, prometheus.Gatherer, error) {
	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, nil, err
	}
	return promExp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), reg, nil
}

type otelInstruments struct {
	ctx              context.Context
	meter            metric.Meter
	requests         metric.Int64Counter
	requestLatencyMs metric.Float64Histogram
	computations     metric.Int64Counter
	computedCells    metric.Int64Counter
	maskedCells      metric.Int64Counter
	computeLatencyMs metric.Float64Histogram
	unknownMetrics   metric.Int64Counter
	teamAggregations metric.Int64Counter
	teamGroups       metric.Int64Counter
	teamLatencyMs    metric.Float64Histogram
	rowsLoaded       metric.Int64Counter
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	meter := provider.Meter(defaultServiceName)
	ctx := context.Background()

	requests, err := meter.Int64Counter("http_requests_total")
	if err != nil {
		return nil, err
	}
	requestLatency, err := meter.Float64Histogram("http_request_duration_ms")
	if err != nil {
		return nil, err
	}

	computations, err := meter.Int64Counter("derived_metric_computations_total")
	if err != nil {
		return nil, err
	}
	computedCells, err := meter.Int64Counter("derived_metric_cells_total")
	if err != nil {
		return nil, err
	}
	maskedCells, err := meter.Int64Counter("derived_metric_masked_cells_total")
	if err != nil {
		return nil, err
	}
	computeLatency, err := meter.Float64Histogram("derived_metric_duration_ms")
	if err != nil {
		return nil, err
	}
	unknownMetrics, err := meter.Int64Counter("derived_metric_unknown_total")
	if err != nil {
		return nil, err
	}
	teamAggregations, err := meter.Int64Counter("team_aggregations_total")
	if err != nil {
		return nil, err
	}
	teamGroups, err := meter.Int64Counter("team_aggregation_groups_total")
	if err != nil {
		return nil, err
	}
	teamLatency, err := meter.Float64Histogram("team_aggregation_duration_ms")
	if err != nil {
		return nil, err
	}
	rowsLoaded, err := meter.Int64Counter("dataset_rows_loaded_total")
	if err != nil {
		return nil, err
	}

	return &otelInstruments{
		ctx:              ctx,
		meter:            meter,
		requests:         requests,
		requestLatencyMs: requestLatency,
		computations:     computations,
		computedCells:    computedCells,
		maskedCells:      maskedCells,
		computeLatencyMs: computeLatency,
		unknownMetrics:   unknownMetrics,
		teamAggregations: teamAggregations,
		teamGroups:       teamGroups,
		teamLatencyMs:    teamLatency,
		rowsLoaded:       rowsLoaded,
	}, nil
}

func (o *otelInstruments) recordHTTPRequest(method, path string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrMethod, method),
		attribute.String(AttrPath, path),
		attribute.Int(AttrStatus, status),
	}
	o.recordCounter(o.requests, 1, attrs...)
	o.recordHistogram(o.requestLatencyMs, float64(duration.Milliseconds()), attrs...)
}

func (o *otelInstruments) recordMetricComputed(name string, rows, masked int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrMetric, name)}
	o.recordCounter(o.computations, 1, attrs...)
	o.recordCounter(o.computedCells, int64(rows), attrs...)
	o.recordCounter(o.maskedCells, int64(masked), attrs...)
	o.recordHistogram(o.computeLatencyMs, float64(duration.Milliseconds()), attrs...)
}

func (o *otelInstruments) recordUnknownMetric(name string) {
	if o == nil {
		return
	}
	o.recordCounter(o.unknownMetrics, 1, attribute.String(AttrMetric, name))
}

func (o *otelInstruments) recordTeamAggregation(groups int, duration time.Duration) {
	if o == nil {
		return
	}
	o.recordCounter(o.teamAggregations, 1)
	o.recordCounter(o.teamGroups, int64(groups))
	o.recordHistogram(o.teamLatencyMs, float64(duration.Milliseconds()))
}

func (o *otelInstruments) recordRowsLoaded(dataset string, rows int) {
	if o == nil {
		return
	}
	o.recordCounter(o.rowsLoaded, int64(rows), attribute.String(AttrDataset, dataset))
}

func (o *otelInstruments) recordCounter(counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if o == nil {
		return
	}
	counter.Add(o.ctx, value, metric.WithAttributes(attrs...))
}

func (o *otelInstruments) recordHistogram(hist metric.Float64Histogram, value float64, attrs ...attribute.KeyValue) {
	if o == nil {
		return
	}
	hist.Record(o.ctx, value, metric.WithAttributes(attrs...))
}
