package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/nba-advanced-stats/internal/domain/boxscore"
	"github.com/preston-bernstein/nba-advanced-stats/internal/metrics"
	"github.com/preston-bernstein/nba-advanced-stats/internal/testutil"
)

func column(t *testing.T, tbl *boxscore.Table, name string) []boxscore.Value {
	t.Helper()
	col, err := tbl.Numeric(name)
	require.NoError(t, err)
	return col
}

func TestCalculateAllMetricsOnSampleGame(t *testing.T) {
	calc := NewCalculator(testutil.SampleBoxScore())

	res, err := calc.Calculate()
	require.NoError(t, err)

	assert.Equal(t, Available(), res.Computed)
	assert.Empty(t, res.Skipped)

	expected := map[string][]float64{
		MetricFGPct:  {50, 50, skip, 50, 40},
		Metric3PPct:  {44.44, 33.33, skip, 40, 25},
		MetricFTPct:  {85.71, 100, skip, 80, 50},
		MetricEFGPct: {60, 56.25, skip, 54.55, 43.33},
		MetricTSPct:  {64.99, 59.24, skip, 57.85, 44.75},
		MetricUSGPct: {24.01, 18.66, skip, 23.67, 18.57},
		MetricTOPct:  {11.5, 10.59, skip, 14.18, 5.63},
		MetricASTPct: {13.66, 8.47, skip, 19.36, 6.28},
		MetricPPP:    {1.15, 1.06, skip, 0.99, 0.84},
	}
	for name, want := range expected {
		got := column(t, res.Table, name)
		for i, w := range want {
			if i == benchRow {
				assert.False(t, got[i].Valid, "%s: bench row did not play", name)
				continue
			}
			require.True(t, got[i].Valid, "%s row %d", name, i)
			assert.InDelta(t, w, got[i].Float, 1e-9, "%s row %d", name, i)
		}
	}
	assert.Equal(t, boxscore.Of(0), column(t, res.Table, MetricPOSS)[benchRow])
}

// skip fills the bench row slot, which is asserted missing.
const (
	skip     = -1
	benchRow = 2
)

func TestCalculateDoesNotTouchCallerTable(t *testing.T) {
	input := testutil.SampleBoxScore()
	before := input.Columns()

	calc := NewCalculator(input)
	res, err := calc.Calculate(MetricUSGPct)
	require.NoError(t, err)

	assert.Equal(t, before, input.Columns())
	assert.True(t, res.Table.Has(MetricUSGPct))

	res.Table.Drop(MetricUSGPct)
	again, err := calc.Calculate(MetricFGPct)
	require.NoError(t, err)
	assert.True(t, again.Table.Has(MetricUSGPct), "returned tables are copies")
}

func TestCalculateSkipsUnknownMetrics(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	rec := metrics.NewRecorder()
	calc := NewCalculator(testutil.SampleBoxScore(), WithLogger(logger), WithObserver(rec))

	res, err := calc.Calculate("XYZ%", MetricFGPct, MetricPPP)
	require.NoError(t, err)

	assert.Equal(t, []string{"XYZ%"}, res.Skipped)
	assert.Equal(t, []string{MetricFGPct, MetricPPP}, res.Computed)
	assert.False(t, res.Table.Has("XYZ%"))
	assert.Equal(t, boxscore.Of(50), column(t, res.Table, MetricFGPct)[0])
	assert.True(t, strings.Contains(buf.String(), "metric=XYZ%"), buf.String())
	assert.Equal(t, 1, rec.UnknownMetricRequests("XYZ%"))
}

func TestCalculateIsIdempotentAndReusesTeamAggregates(t *testing.T) {
	rec := metrics.NewRecorder()
	calc := NewCalculator(testutil.SampleBoxScore(), WithObserver(rec))

	first, err := calc.Calculate(MetricUSGPct, MetricASTPct)
	require.NoError(t, err)
	second, err := calc.Calculate(MetricUSGPct, MetricASTPct)
	require.NoError(t, err)

	assert.Equal(t, first.Table.Columns(), second.Table.Columns())
	assert.Equal(t, first.Table.Records(), second.Table.Records())
	assert.Equal(t, 1, calc.teamBuilds)
	assert.Equal(t, 1, rec.TeamAggregations())
	assert.Equal(t, 2, rec.Snapshot(MetricUSGPct).Computations)
	assert.Equal(t, 2, rec.Snapshot(MetricUSGPct).Masked, "one masked bench row per call")
}

func TestCalculateOnlyAggregatesTeamsWhenNeeded(t *testing.T) {
	calc := NewCalculator(testutil.SampleBoxScore())

	res, err := calc.Calculate(MetricFGPct, MetricTSPct)
	require.NoError(t, err)

	assert.Equal(t, 0, calc.teamBuilds)
	assert.False(t, res.Table.Has(boxscore.ColTeamPossessions))
}

func TestCalculateRoundsMinutes(t *testing.T) {
	tbl := testutil.SampleBoxScore()
	require.NoError(t, tbl.SetNumeric(boxscore.ColMinutes, boxscore.Floats(36.5166666, 34, 0, 38, 30.5)))

	res, err := NewCalculator(tbl).Calculate(MetricFGPct)
	require.NoError(t, err)

	assert.Equal(t, 36.52, column(t, res.Table, boxscore.ColMinutes)[0].Float)
}

func TestResetDropsTeamCache(t *testing.T) {
	calc := NewCalculator(testutil.SampleBoxScore())
	_, err := calc.Calculate(MetricUSGPct)
	require.NoError(t, err)

	smaller := testutil.SampleBoxScore().Head(2)
	calc.Reset(smaller)
	agg, err := calc.TeamAggregates()
	require.NoError(t, err)

	assert.Equal(t, 2, calc.teamBuilds)
	assert.Equal(t, 1, agg.Len())
}

func TestCalculateFailsFastOnAbsentColumn(t *testing.T) {
	tbl := testutil.SampleBoxScore()
	tbl.Drop(boxscore.ColAssists)

	_, err := NewCalculator(tbl).Calculate(MetricFGPct, MetricASTPct)

	require.Error(t, err)
	assert.ErrorIs(t, err, boxscore.ErrMissingColumn)
	assert.Contains(t, err.Error(), "compute AST%")
	assert.Contains(t, err.Error(), boxscore.ColAssists)
}

func TestCalculateRequiresMinutes(t *testing.T) {
	tbl := testutil.SampleBoxScore()
	tbl.Drop(boxscore.ColMinutes)

	_, err := NewCalculator(tbl).Calculate(MetricFGPct)

	assert.ErrorIs(t, err, boxscore.ErrMissingColumn)
}

func TestCalculateRecordsTimings(t *testing.T) {
	rec := metrics.NewRecorder()
	calc := NewCalculator(testutil.SampleBoxScore(), WithObserver(rec))
	calc.now = testutil.StepClock(time.Unix(0, 0), time.Millisecond)

	_, err := calc.Calculate(MetricTSPct)
	require.NoError(t, err)

	snap := rec.Snapshot(MetricTSPct)
	assert.Equal(t, time.Millisecond, snap.LastLatency)
	assert.Equal(t, 5, snap.Rows)
	assert.Equal(t, 1, snap.Masked)
}

func TestAvailableMetricsHasNoSideEffects(t *testing.T) {
	calc := NewCalculator(testutil.SampleBoxScore())

	assert.Equal(t, Available(), calc.AvailableMetrics())
	assert.Equal(t, 0, calc.teamBuilds)
	assert.False(t, calc.data.Has(MetricFGPct))
}
