package derive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/preston-bernstein/nba-advanced-stats/internal/dataset"
	"github.com/preston-bernstein/nba-advanced-stats/internal/domain/boxscore"
	"github.com/preston-bernstein/nba-advanced-stats/internal/logging"
	"github.com/preston-bernstein/nba-advanced-stats/internal/metrics"
	"github.com/preston-bernstein/nba-advanced-stats/internal/stats"
)

// ErrBadInput marks uploads that could not be parsed as CSV box scores.
var ErrBadInput = errors.New("bad input")

// Request selects what a derive run computes.
type Request struct {
	// Metrics defaults to the service defaults, then to every available metric.
	Metrics []string
	// Summary adds a per-player minutes-weighted rollup.
	Summary        bool
	GroupBy        []string
	SummaryMetrics []string
}

// Outcome is the result of one derive run.
type Outcome struct {
	Table    *boxscore.Table
	Summary  *boxscore.Table
	Computed []string
	Skipped  []string
}

// Service loads box scores and derives advanced metrics from them.
type Service struct {
	logger   *slog.Logger
	recorder *metrics.Recorder
	defaults []string
	testMode bool
}

// Option configures a Service.
type Option func(*Service)

// WithDefaultMetrics sets the metrics computed when a request names none.
func WithDefaultMetrics(names []string) Option {
	return func(s *Service) { s.defaults = names }
}

// WithTestMode caps dataset loads at dataset.TestRowLimit rows.
func WithTestMode(on bool) Option {
	return func(s *Service) { s.testMode = on }
}

// NewService constructs a Service. A nil recorder disables telemetry.
func NewService(logger *slog.Logger, recorder *metrics.Recorder, opts ...Option) *Service {
	s := &Service{logger: logger, recorder: recorder}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Available lists the metric names the service can derive.
func (s *Service) Available() []string {
	return stats.Available()
}

// DeriveCSV parses a games_details style upload and derives metrics from it.
func (s *Service) DeriveCSV(ctx context.Context, r io.Reader, req Request) (Outcome, error) {
	ds, err := s.open(dataset.GamesDetails, "")
	if err != nil {
		return Outcome{}, err
	}
	if _, err := ds.LoadFrom(r, s.testMode); err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrBadInput, err)
	}
	return s.Derive(ctx, ds.Preprocess(true), req)
}

// DeriveFile loads the named dataset from dir and derives metrics from it.
func (s *Service) DeriveFile(ctx context.Context, name, dir string, req Request) (Outcome, error) {
	ds, err := s.open(name, dir)
	if err != nil {
		return Outcome{}, err
	}
	if _, err := ds.Load(s.testMode); err != nil {
		return Outcome{}, err
	}
	return s.Derive(ctx, ds.Preprocess(true), req)
}

// Derive validates rows and appends the requested metrics. rows is not modified.
func (s *Service) Derive(ctx context.Context, rows *boxscore.Table, req Request) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	if err := dataset.ValidateBoxScore(rows); err != nil {
		return Outcome{}, err
	}

	names := req.Metrics
	if len(names) == 0 {
		names = s.defaults
	}

	calc := stats.NewCalculator(rows,
		stats.WithLogger(s.logger),
		stats.WithObserver(s.recorder),
	)
	res, err := calc.Calculate(names...)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{Table: res.Table, Computed: res.Computed, Skipped: res.Skipped}

	if req.Summary {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}
		out.Summary, err = stats.AggregatePlayers(res.Table, stats.SummaryOptions{
			GroupBy: req.GroupBy,
			Metrics: req.SummaryMetrics,
		})
		if err != nil {
			return Outcome{}, fmt.Errorf("summarize players: %w", err)
		}
	}

	logging.Info(s.logger, "metrics derived",
		logging.FieldRows, res.Table.Len(),
		logging.FieldMetrics, res.Computed,
	)
	return out, nil
}

func (s *Service) open(name, dir string) (*dataset.Dataset, error) {
	return dataset.New(name, dir,
		dataset.WithLogger(s.logger),
		dataset.WithObserver(s.recorder),
	)
}
