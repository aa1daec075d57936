package metrics

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ErrNoGatherer is returned when a textfile dump is requested without the
// Prometheus exporter.
var ErrNoGatherer = errors.New("prometheus exporter not configured")

type metricStats struct {
	computations int
	rows         int
	masked       int
	lastLatency  time.Duration
}

// Recorder captures lightweight, in-memory metrics about derived metric
// computations, mirrored to OpenTelemetry instruments when configured.
type Recorder struct {
	mu               sync.Mutex
	stats            map[string]*metricStats
	unknown          map[string]int
	rowsLoaded       map[string]int
	teamAggregations int
	otel             *otelInstruments
	gatherer         prometheus.Gatherer
}

func NewRecorder() *Recorder {
	return newRecorder(nil, nil)
}

func newRecorder(otel *otelInstruments, gatherer prometheus.Gatherer) *Recorder {
	return &Recorder{
		stats:      make(map[string]*metricStats),
		unknown:    make(map[string]int),
		rowsLoaded: make(map[string]int),
		otel:       otel,
		gatherer:   gatherer,
	}
}

// RecordMetricComputed counts one computation of a derived column along with
// how many of its cells were masked.
func (r *Recorder) RecordMetricComputed(metric string, rows, masked int, duration time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats, ok := r.stats[metric]
	if !ok {
		stats = &metricStats{}
		r.stats[metric] = stats
	}
	stats.computations++
	stats.rows += rows
	stats.masked += masked
	stats.lastLatency = duration
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordMetricComputed(metric, rows, masked, duration)
	}
}

// RecordUnknownMetric counts a request for a metric with no formula.
func (r *Recorder) RecordUnknownMetric(metric string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.unknown[metric]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordUnknownMetric(metric)
	}
}

// RecordTeamAggregation counts one team aggregation pass.
func (r *Recorder) RecordTeamAggregation(groups int, duration time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.teamAggregations++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordTeamAggregation(groups, duration)
	}
}

// RecordRowsLoaded tracks rows read for a dataset.
func (r *Recorder) RecordRowsLoaded(dataset string, rows int) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.rowsLoaded[dataset] += rows
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRowsLoaded(dataset, rows)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// Snapshot is a copy of the stats recorded for one metric.
type Snapshot struct {
	Computations int
	Rows         int
	Masked       int
	LastLatency  time.Duration
}

// Snapshot returns a copy of the current stats for the metric.
func (r *Recorder) Snapshot(metric string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[metric]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Computations: stats.computations,
		Rows:         stats.rows,
		Masked:       stats.masked,
		LastLatency:  stats.lastLatency,
	}
}

// UnknownMetricRequests returns how often name was requested without a formula.
func (r *Recorder) UnknownMetricRequests(name string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unknown[name]
}

// TeamAggregations returns the number of team aggregation passes.
func (r *Recorder) TeamAggregations() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.teamAggregations
}

// RowsLoaded returns the rows read for a dataset.
func (r *Recorder) RowsLoaded(dataset string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rowsLoaded[dataset]
}

// WriteTextfile dumps the Prometheus registry in text exposition format, for
// batch runs scraped through the node-exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || r.gatherer == nil {
		return ErrNoGatherer
	}
	return prometheus.WriteToTextfile(path, r.gatherer)
}
