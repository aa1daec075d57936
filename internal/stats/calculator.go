package stats

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/preston-bernstein/nba-advanced-stats/internal/domain/boxscore"
	"github.com/preston-bernstein/nba-advanced-stats/internal/logging"
)

// Observer receives calculation telemetry. *metrics.Recorder satisfies it.
type Observer interface {
	RecordMetricComputed(metric string, rows, masked int, duration time.Duration)
	RecordUnknownMetric(metric string)
	RecordTeamAggregation(groups int, duration time.Duration)
}

// Result is the output of one Calculate call.
type Result struct {
	// Table is a copy of the calculator's rows with the computed columns.
	Table *boxscore.Table
	// Computed lists the metrics written, in computation order.
	Computed []string
	// Skipped lists requested names with no registered formula.
	Skipped []string
}

// Calculator appends derived metrics to a private copy of player box-score
// rows. Team aggregates are built at most once per data set and reused.
//
// A Calculator is single-writer: it must not be used from several goroutines
// while a Calculate call is in flight.
type Calculator struct {
	data     *boxscore.Table
	team     *TeamAggregation
	logger   *slog.Logger
	observer Observer
	now      func() time.Time

	teamBuilds int
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithLogger sets the logger used to report skipped metrics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Calculator) { c.logger = logger }
}

// WithObserver sets the telemetry sink.
func WithObserver(o Observer) Option {
	return func(c *Calculator) { c.observer = o }
}

// NewCalculator copies rows so later mutations never reach the caller's table.
func NewCalculator(rows *boxscore.Table, opts ...Option) *Calculator {
	c := &Calculator{
		data: rows.Clone(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AvailableMetrics lists the metric names this calculator can compute.
func (c *Calculator) AvailableMetrics() []string {
	return Available()
}

// Reset swaps in new player rows and drops the cached team aggregates.
func (c *Calculator) Reset(rows *boxscore.Table) {
	c.data = rows.Clone()
	c.ResetTeamCache()
}

// ResetTeamCache forces the next team-dependent metric to re-aggregate.
func (c *Calculator) ResetTeamCache() {
	c.team = nil
}

// TeamAggregates returns the team aggregation for the current rows, building
// it on first use.
func (c *Calculator) TeamAggregates() (*TeamAggregation, error) {
	if c.team != nil {
		return c.team, nil
	}
	start := c.now()
	agg, err := AggregateTeams(c.data)
	if err != nil {
		return nil, fmt.Errorf("aggregate teams: %w", err)
	}
	c.team = agg
	c.teamBuilds++
	if c.observer != nil {
		c.observer.RecordTeamAggregation(agg.Len(), c.now().Sub(start))
	}
	return agg, nil
}

// Calculate computes the named metrics, or every available metric when none
// are named, in the order given. Unknown names are logged and skipped. MIN is
// rounded to 2 decimals first. An absent input column is returned as an error
// wrapping boxscore.ErrMissingColumn.
func (c *Calculator) Calculate(names ...string) (Result, error) {
	if len(names) == 0 {
		names = Available()
	}

	if err := c.roundMinutes(); err != nil {
		return Result{}, err
	}

	metrics := make([]Metric, 0, len(names))
	var res Result
	for _, name := range names {
		m, ok := Lookup(name)
		if !ok {
			logging.Warn(c.logger, "unknown metric requested, skipping", logging.FieldMetric, name)
			if c.observer != nil {
				c.observer.RecordUnknownMetric(name)
			}
			res.Skipped = append(res.Skipped, name)
			continue
		}
		metrics = append(metrics, m)
	}

	if NeedsTeam(names) {
		agg, err := c.TeamAggregates()
		if err != nil {
			return Result{}, err
		}
		if err := agg.MergeInto(c.data); err != nil {
			return Result{}, fmt.Errorf("merge team aggregates: %w", err)
		}
	}

	for _, m := range metrics {
		start := c.now()
		vals, err := m.Compute(c.data)
		if err != nil {
			return Result{}, fmt.Errorf("compute %s: %w", m.Name, err)
		}
		if err := c.data.SetNumeric(m.Name, vals); err != nil {
			return Result{}, fmt.Errorf("write %s: %w", m.Name, err)
		}
		if c.observer != nil {
			c.observer.RecordMetricComputed(m.Name, len(vals), countMissing(vals), c.now().Sub(start))
		}
		res.Computed = append(res.Computed, m.Name)
	}

	res.Table = c.data.Clone()
	return res, nil
}

func (c *Calculator) roundMinutes() error {
	mins, err := c.data.Numeric(boxscore.ColMinutes)
	if err != nil {
		return err
	}
	rounded := make([]boxscore.Value, len(mins))
	for i, v := range mins {
		if v.Valid {
			v.Float = round2(v.Float)
		}
		rounded[i] = v
	}
	return c.data.SetNumeric(boxscore.ColMinutes, rounded)
}

func countMissing(vals []boxscore.Value) int {
	n := 0
	for _, v := range vals {
		if !v.Valid {
			n++
		}
	}
	return n
}
