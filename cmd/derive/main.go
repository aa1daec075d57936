// Command derive appends advanced metrics to a box-score CSV and optionally
// writes a per-player summary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/preston-bernstein/nba-advanced-stats/internal/app/derive"
	"github.com/preston-bernstein/nba-advanced-stats/internal/config"
	"github.com/preston-bernstein/nba-advanced-stats/internal/dataset"
	"github.com/preston-bernstein/nba-advanced-stats/internal/logging"
	"github.com/preston-bernstein/nba-advanced-stats/internal/metrics"
)

const appVersion = "dev"

type options struct {
	in          string
	out         string
	dataDir     string
	dataset     string
	metrics     []string
	summary     string
	groupBy     []string
	testMode    bool
	metricsFile string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg := config.Load()
	opts, err := parseFlags(args, cfg, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	logger := logging.NewLogger(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "nba-derive",
		Version: appVersion,
		Output:  stderr,
	})

	recorder, shutdown, err := buildRecorder(ctx, cfg, opts.metricsFile)
	if err != nil {
		logging.Error(logger, "metrics setup failed", err)
		return 1
	}
	defer func() { _ = shutdown(context.Background()) }()

	if err := derivePipeline(ctx, opts, logger, recorder, stdout); err != nil {
		logging.Error(logger, "derive failed", err)
		return 1
	}

	if opts.metricsFile != "" {
		if err := recorder.WriteTextfile(opts.metricsFile); err != nil {
			logging.Error(logger, "write metrics textfile failed", err, logging.FieldFile, opts.metricsFile)
			return 1
		}
	}
	return 0
}

func parseFlags(args []string, cfg config.Config, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("derive", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	var metricList, groupBy string
	fs.StringVar(&opts.in, "in", "", "box-score CSV to read (games_details layout); empty reads -dataset from -data-dir")
	fs.StringVar(&opts.out, "out", "", "output CSV path; empty writes to stdout")
	fs.StringVar(&opts.dataDir, "data-dir", cfg.Dataset.Dir, "directory holding <dataset>.csv")
	fs.StringVar(&opts.dataset, "dataset", cfg.Dataset.Name, "dataset name")
	fs.StringVar(&metricList, "metrics", "", "comma-separated metrics to compute (default all)")
	fs.StringVar(&opts.summary, "summary", "", "write a per-player minutes-weighted summary CSV to this path")
	fs.StringVar(&groupBy, "group-by", "", "comma-separated summary group columns")
	fs.BoolVar(&opts.testMode, "test", cfg.Dataset.TestMode, "cap input at the test row limit")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics in textfile format to this path")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", fs.Args())
		return options{}, fmt.Errorf("unexpected arguments")
	}

	opts.metrics = config.SplitList(metricList)
	if len(opts.metrics) == 0 {
		opts.metrics = cfg.Dataset.Metrics
	}
	opts.groupBy = config.SplitList(groupBy)
	return opts, nil
}

// buildRecorder returns a Prometheus-backed recorder when a textfile dump is
// requested and an in-memory one otherwise.
func buildRecorder(ctx context.Context, cfg config.Config, metricsFile string) (*metrics.Recorder, func(context.Context) error, error) {
	if metricsFile == "" {
		return metrics.NewRecorder(), func(context.Context) error { return nil }, nil
	}
	rec, _, shutdown, err := metrics.Setup(ctx, metrics.TelemetryConfig{
		Enabled:     true,
		ServiceName: cfg.Metrics.ServiceName,
	})
	if err != nil {
		return nil, nil, err
	}
	return rec, shutdown, nil
}

func derivePipeline(ctx context.Context, opts options, logger *slog.Logger, recorder *metrics.Recorder, stdout io.Writer) error {
	svc := derive.NewService(logger, recorder, derive.WithTestMode(opts.testMode))
	req := derive.Request{
		Metrics: opts.metrics,
		Summary: opts.summary != "",
		GroupBy: opts.groupBy,
	}

	var (
		out derive.Outcome
		err error
	)
	if opts.in != "" {
		f, openErr := os.Open(opts.in)
		if openErr != nil {
			return openErr
		}
		defer f.Close()
		out, err = svc.DeriveCSV(ctx, f, req)
	} else {
		out, err = svc.DeriveFile(ctx, opts.dataset, opts.dataDir, req)
	}
	if err != nil {
		return err
	}

	if opts.out == "" {
		if err := dataset.WriteCSV(stdout, out.Table); err != nil {
			return err
		}
	} else {
		if err := dataset.WriteFile(opts.out, out.Table); err != nil {
			return err
		}
		logging.Info(logger, "derived table written", logging.FieldFile, opts.out, logging.FieldRows, out.Table.Len())
	}

	if out.Summary != nil {
		if err := dataset.WriteFile(opts.summary, out.Summary); err != nil {
			return err
		}
		logging.Info(logger, "player summary written", logging.FieldFile, opts.summary, logging.FieldRows, out.Summary.Len())
	}
	if len(out.Skipped) > 0 {
		logging.Warn(logger, "metrics skipped", logging.FieldMetrics, out.Skipped)
	}
	return nil
}
