package stats

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/nba-advanced-stats/internal/domain/boxscore"
	"github.com/preston-bernstein/nba-advanced-stats/internal/testutil"
)

func values(t *testing.T, f Formula, tbl *boxscore.Table) []boxscore.Value {
	t.Helper()
	vals, err := f(tbl)
	require.NoError(t, err)
	require.Len(t, vals, tbl.Len())
	return vals
}

func TestFieldGoalPctMasksZeroAttempts(t *testing.T) {
	tbl := testutil.NumericTable(map[string][]float64{
		boxscore.ColFGM: {5, 3, 0},
		boxscore.ColFGA: {10, 0, 0},
	})

	vals := values(t, FieldGoalPct, tbl)

	assert.Equal(t, boxscore.Of(50), vals[0])
	assert.False(t, vals[1].Valid, "FGA=0 must be missing regardless of FGM")
	assert.False(t, vals[2].Valid)
}

func TestShootingPercentagesRoundToTwoDecimals(t *testing.T) {
	tbl := testutil.NumericTable(map[string][]float64{
		boxscore.ColFG3M: {4},
		boxscore.ColFG3A: {9},
		boxscore.ColFTM:  {6},
		boxscore.ColFTA:  {7},
	})

	assert.Equal(t, boxscore.Of(44.44), values(t, ThreePointPct, tbl)[0])
	assert.Equal(t, boxscore.Of(85.71), values(t, FreeThrowPct, tbl)[0])
}

func TestEffectiveFieldGoalPctClampsGarbageInput(t *testing.T) {
	tbl := testutil.NumericTable(map[string][]float64{
		boxscore.ColFGM:  {10, 9},
		boxscore.ColFG3M: {4, 9},
		boxscore.ColFGA:  {20, 4},
	})

	vals := values(t, EffectiveFieldGoalPct, tbl)

	assert.Equal(t, boxscore.Of(60), vals[0])
	assert.Equal(t, boxscore.Of(100), vals[1], "made > attempts is clamped")
}

func TestTrueShootingPct(t *testing.T) {
	tbl := testutil.NumericTable(map[string][]float64{
		boxscore.ColPoints: {30, 2},
		boxscore.ColFGA:    {20, 0},
		boxscore.ColFTA:    {7, 0},
	})

	vals := values(t, TrueShootingPct, tbl)

	assert.InDelta(t, 64.99, vals[0].Float, 1e-9)
	assert.False(t, vals[1].Valid, "TSA=0 is masked")
}

func TestTurnoverPctAndPointsPerPossession(t *testing.T) {
	tbl := testutil.NumericTable(map[string][]float64{
		boxscore.ColPoints:    {30, 0},
		boxscore.ColFGA:       {20, 0},
		boxscore.ColFTA:       {7, 0},
		boxscore.ColTurnovers: {3, 0},
	})

	to := values(t, TurnoverPct, tbl)
	ppp := values(t, PointsPerPossession, tbl)
	poss := values(t, PlayerPossessions, tbl)

	assert.InDelta(t, 11.5, to[0].Float, 1e-9)
	assert.InDelta(t, 1.15, ppp[0].Float, 1e-9)
	assert.InDelta(t, 26.08, poss[0].Float, 1e-9)
	assert.False(t, to[1].Valid)
	assert.False(t, ppp[1].Valid)
	assert.Equal(t, boxscore.Of(0), poss[1], "possessions are a count, never masked")
}

func TestPointsPerPossessionIsNotClamped(t *testing.T) {
	tbl := testutil.NumericTable(map[string][]float64{
		boxscore.ColPoints:    {300},
		boxscore.ColFGA:       {1},
		boxscore.ColFTA:       {0},
		boxscore.ColTurnovers: {0},
	})

	assert.Equal(t, boxscore.Of(300), values(t, PointsPerPossession, tbl)[0])
}

func TestAssistPctReferenceValue(t *testing.T) {
	tbl := testutil.NumericTable(map[string][]float64{
		boxscore.ColAssists:     {3},
		boxscore.ColMinutes:     {30},
		boxscore.ColFGM:         {5},
		boxscore.ColTeamMinutes: {240},
		boxscore.ColTeamFGM:     {40},
	})

	assert.Equal(t, boxscore.Of(15), values(t, AssistPct, tbl)[0])
}

func TestAssistPctMasksNonPositiveDenominator(t *testing.T) {
	tbl := testutil.NumericTable(map[string][]float64{
		boxscore.ColAssists:     {2, 2, 1},
		boxscore.ColMinutes:     {0, 6, 10},
		boxscore.ColFGM:         {0, 5, 0},
		boxscore.ColTeamMinutes: {240, 240, 0},
		boxscore.ColTeamFGM:     {40, 40, 40},
	})

	vals := values(t, AssistPct, tbl)

	assert.False(t, vals[0].Valid, "den == 0")
	assert.False(t, vals[1].Valid, "den < 0")
	assert.False(t, vals[2].Valid, "TEAM_MIN == 0")
}

func TestUsagePctUsesMinutesPerPlayerSlot(t *testing.T) {
	tbl := testutil.NumericTable(map[string][]float64{
		boxscore.ColFGA:             {20, 10, 10},
		boxscore.ColFTA:             {7, 0, 0},
		boxscore.ColTurnovers:       {3, 0, 0},
		boxscore.ColMinutes:         {36.5, 0, 20},
		boxscore.ColTeamMinutes:     {70.5, 240, 240},
		boxscore.ColTeamPossessions: {41.96, 100, 0},
	})

	vals := values(t, UsagePct, tbl)

	assert.InDelta(t, 24.01, vals[0].Float, 1e-9)
	assert.False(t, vals[1].Valid, "MIN=0 is masked")
	assert.False(t, vals[2].Valid, "TEAM_POSS=0 is masked")
}

func TestFormulasPropagateMissingInputs(t *testing.T) {
	tbl := testutil.NumericTable(map[string][]float64{
		boxscore.ColFGM: {math.NaN()},
		boxscore.ColFGA: {10},
	})

	assert.False(t, values(t, FieldGoalPct, tbl)[0].Valid)
}

func TestFormulaFailsFastOnAbsentColumn(t *testing.T) {
	tbl := testutil.NumericTable(map[string][]float64{boxscore.ColFGM: {1}})

	_, err := FieldGoalPct(tbl)

	require.Error(t, err)
	assert.True(t, errors.Is(err, boxscore.ErrMissingColumn))
	assert.Contains(t, err.Error(), boxscore.ColFGA)
}

func TestPercentagesStayInRange(t *testing.T) {
	calc := NewCalculator(testutil.SampleBoxScore())
	res, err := calc.Calculate()
	require.NoError(t, err)

	for _, name := range Percentages() {
		col, err := res.Table.Numeric(name)
		require.NoError(t, err)
		for i, v := range col {
			if v.Valid {
				assert.GreaterOrEqual(t, v.Float, 0.0, "%s row %d", name, i)
				assert.LessOrEqual(t, v.Float, 100.0, "%s row %d", name, i)
			}
		}
	}
}

func TestRegistryOrderAndLookup(t *testing.T) {
	assert.Equal(t, []string{"FG%", "3P%", "FT%", "eFG%", "TS%", "USG%", "TO%", "AST%", "PPP", "POSS"}, Available())

	m, ok := Lookup(MetricUSGPct)
	require.True(t, ok)
	assert.True(t, m.NeedsTeam)
	assert.Equal(t, KindPercentage, m.Kind)

	_, ok = Lookup("XYZ%")
	assert.False(t, ok)

	assert.True(t, NeedsTeam([]string{"FG%", "AST%"}))
	assert.False(t, NeedsTeam([]string{"FG%", "PPP", "XYZ%"}))
}

func TestValidateNamesUnknownMetrics(t *testing.T) {
	assert.NoError(t, Validate([]string{"FG%", "PPP"}))

	err := Validate([]string{"FG%", "XYZ%", "ABC"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownMetric))
	assert.Equal(t, "unknown metric: XYZ%, ABC", err.Error())
}
