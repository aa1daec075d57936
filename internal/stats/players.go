package stats

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/preston-bernstein/nba-advanced-stats/internal/domain/boxscore"
)

// Player summary columns.
const (
	ColTotalMinutes = "TOTAL_MIN"
	ColAvgMinutes   = "AVG_MIN"
	ColGames        = "GAMES"
)

const weightedSuffix = "_WAVG"

// SummaryOptions controls AggregatePlayers.
type SummaryOptions struct {
	// GroupBy defaults to PLAYER_ID, PLAYER_NAME and START_POSITION when present.
	GroupBy []string
	// Metrics defaults to every percentage metric present in the table.
	Metrics []string
}

// WeightedColumnName derives the summary column for a metric: the percent
// sign is stripped, the name upper-cased and suffixed ("eFG%" -> "EFG_WAVG").
func WeightedColumnName(metric string) string {
	return strings.ToUpper(strings.ReplaceAll(metric, "%", "")) + weightedSuffix
}

// DefaultGroupBy returns the player identity columns, plus START_POSITION
// when t carries it.
func DefaultGroupBy(t *boxscore.Table) []string {
	cols := []string{boxscore.ColPlayerID, boxscore.ColPlayerName}
	if t.Has(boxscore.ColStartPosition) {
		cols = append(cols, boxscore.ColStartPosition)
	}
	return cols
}

// AggregatePlayers rolls per-game rows up to one row per group with total
// and mean minutes, distinct game count, and a minutes-weighted average of
// each metric. Rows with a missing metric or MIN are left out of that
// metric's average; an average whose minutes sum to <= 0 is missing.
func AggregatePlayers(t *boxscore.Table, opts SummaryOptions) (*boxscore.Table, error) {
	groupBy := opts.GroupBy
	if len(groupBy) == 0 {
		groupBy = DefaultGroupBy(t)
	}
	metricNames := opts.Metrics
	if len(metricNames) == 0 {
		for _, name := range Percentages() {
			if t.Has(name) {
				metricNames = append(metricNames, name)
			}
		}
	}

	if err := t.Require(groupBy...); err != nil {
		return nil, err
	}
	games, err := t.Text(boxscore.ColGameID)
	if err != nil {
		return nil, err
	}
	mins, err := t.Numeric(boxscore.ColMinutes)
	if err != nil {
		return nil, err
	}
	metricCols := make([][]boxscore.Value, len(metricNames))
	for i, name := range metricNames {
		col, err := t.Numeric(name)
		if err != nil {
			return nil, err
		}
		metricCols[i] = col
	}

	groups := groupRows(t, groupBy)

	out := boxscore.NewTable(len(groups))
	for k, name := range groupBy {
		vals := make([]string, len(groups))
		for i, g := range groups {
			vals[i] = g.key[k]
		}
		if err := out.SetText(name, vals); err != nil {
			return nil, err
		}
	}

	total := make([]boxscore.Value, len(groups))
	avg := make([]boxscore.Value, len(groups))
	count := make([]boxscore.Value, len(groups))
	weighted := make([][]boxscore.Value, len(metricNames))
	for m := range weighted {
		weighted[m] = make([]boxscore.Value, len(groups))
	}

	for i, g := range groups {
		played := presentValues(mins, g.rows)
		total[i] = boxscore.Of(round2(floats.Sum(played)))
		if len(played) > 0 {
			avg[i] = boxscore.Of(round2(stat.Mean(played, nil)))
		}
		count[i] = boxscore.Of(float64(distinct(games, g.rows)))
		for m, col := range metricCols {
			weighted[m][i] = weightedMean(col, mins, g.rows)
		}
	}

	if err := out.SetNumeric(ColTotalMinutes, total); err != nil {
		return nil, err
	}
	if err := out.SetNumeric(ColAvgMinutes, avg); err != nil {
		return nil, err
	}
	if err := out.SetNumeric(ColGames, count); err != nil {
		return nil, err
	}
	for m, name := range metricNames {
		if err := out.SetNumeric(WeightedColumnName(name), weighted[m]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type rowGroup struct {
	key  []string
	rows []int
}

// groupRows buckets row indexes by the rendered group columns, sorted by key.
func groupRows(t *boxscore.Table, groupBy []string) []rowGroup {
	index := make(map[string]int)
	var groups []rowGroup
	for r := 0; r < t.Len(); r++ {
		key := make([]string, len(groupBy))
		for k, name := range groupBy {
			key[k] = t.Cell(r, name)
		}
		joined := strings.Join(key, "\x1f")
		i, ok := index[joined]
		if !ok {
			i = len(groups)
			index[joined] = i
			groups = append(groups, rowGroup{key: key})
		}
		groups[i].rows = append(groups[i].rows, r)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].key, groups[j].key
		for k := range a {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})
	return groups
}

func presentValues(col []boxscore.Value, rows []int) []float64 {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		if col[r].Valid {
			out = append(out, col[r].Float)
		}
	}
	return out
}

func distinct(col []string, rows []int) int {
	seen := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		seen[col[r]] = struct{}{}
	}
	return len(seen)
}

// weightedMean is sum(metric*MIN) / sum(MIN) over rows where both are present.
func weightedMean(metric, mins []boxscore.Value, rows []int) boxscore.Value {
	x := make([]float64, 0, len(rows))
	w := make([]float64, 0, len(rows))
	for _, r := range rows {
		if !metric[r].Valid || !mins[r].Valid {
			continue
		}
		x = append(x, metric[r].Float)
		w = append(w, mins[r].Float)
	}
	if len(w) == 0 || floats.Sum(w) <= 0 {
		return boxscore.Null
	}
	return boxscore.Of(round2(stat.Mean(x, w)))
}
