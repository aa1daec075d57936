package stats

import (
	"sort"

	"github.com/preston-bernstein/nba-advanced-stats/internal/domain/boxscore"
)

// TeamKey identifies one team in one game.
type TeamKey struct {
	GameID string
	Team   string
}

// TeamAggregate holds the summed counting stats of one team in one game.
type TeamAggregate struct {
	Key         TeamKey
	Minutes     float64
	FGM         float64
	FGA         float64
	FTA         float64
	OREB        float64
	Turnovers   float64
	Points      float64
	Possessions float64
}

// TeamAggregation is the per-(team, game) result of AggregateTeams. It is an
// immutable value; build a new one when the player rows change.
type TeamAggregation struct {
	rows  []TeamAggregate
	index map[TeamKey]int
}

// teamSumColumns are the player columns summed per team.
var teamSumColumns = []string{
	boxscore.ColFGM, boxscore.ColFGA, boxscore.ColFTA, boxscore.ColOREB,
	boxscore.ColTurnovers, boxscore.ColMinutes, boxscore.ColPoints,
}

// AggregateTeams groups player rows by (TEAM, GAME_ID) and sums the counting
// stats; missing cells are skipped. Groups are ordered by team, then game.
func AggregateTeams(t *boxscore.Table) (*TeamAggregation, error) {
	teams, err := t.Text(boxscore.ColTeam)
	if err != nil {
		return nil, err
	}
	games, err := t.Text(boxscore.ColGameID)
	if err != nil {
		return nil, err
	}
	cols := make(map[string][]boxscore.Value, len(teamSumColumns))
	for _, name := range teamSumColumns {
		col, err := t.Numeric(name)
		if err != nil {
			return nil, err
		}
		cols[name] = col
	}

	agg := &TeamAggregation{index: make(map[TeamKey]int)}
	for r := 0; r < t.Len(); r++ {
		key := TeamKey{GameID: games[r], Team: teams[r]}
		i, ok := agg.index[key]
		if !ok {
			i = len(agg.rows)
			agg.index[key] = i
			agg.rows = append(agg.rows, TeamAggregate{Key: key})
		}
		row := &agg.rows[i]
		row.FGM += cols[boxscore.ColFGM][r].OrZero()
		row.FGA += cols[boxscore.ColFGA][r].OrZero()
		row.FTA += cols[boxscore.ColFTA][r].OrZero()
		row.OREB += cols[boxscore.ColOREB][r].OrZero()
		row.Turnovers += cols[boxscore.ColTurnovers][r].OrZero()
		row.Minutes += cols[boxscore.ColMinutes][r].OrZero()
		row.Points += cols[boxscore.ColPoints][r].OrZero()
	}

	for i := range agg.rows {
		row := &agg.rows[i]
		row.Possessions = round2(TeamPossessionCount(row.FGA, row.FTA, row.OREB, row.Turnovers))
		row.Minutes = round2(row.Minutes)
	}
	agg.sort()
	return agg, nil
}

func (a *TeamAggregation) sort() {
	sort.Slice(a.rows, func(i, j int) bool {
		if a.rows[i].Key.Team != a.rows[j].Key.Team {
			return a.rows[i].Key.Team < a.rows[j].Key.Team
		}
		return a.rows[i].Key.GameID < a.rows[j].Key.GameID
	})
	for i, row := range a.rows {
		a.index[row.Key] = i
	}
}

// Len returns the number of (team, game) groups.
func (a *TeamAggregation) Len() int {
	if a == nil {
		return 0
	}
	return len(a.rows)
}

// Rows returns a copy of the aggregates in group order.
func (a *TeamAggregation) Rows() []TeamAggregate {
	if a == nil {
		return nil
	}
	out := make([]TeamAggregate, len(a.rows))
	copy(out, a.rows)
	return out
}

// Lookup returns the aggregate for key.
func (a *TeamAggregation) Lookup(key TeamKey) (TeamAggregate, bool) {
	if a == nil {
		return TeamAggregate{}, false
	}
	i, ok := a.index[key]
	if !ok {
		return TeamAggregate{}, false
	}
	return a.rows[i], true
}

// Table renders the aggregation as a table keyed by TEAM and GAME_ID.
func (a *TeamAggregation) Table() *boxscore.Table {
	rows := a.Rows()
	n := len(rows)
	out := boxscore.NewTable(n)
	teams := make([]string, n)
	games := make([]string, n)
	for i, row := range rows {
		teams[i] = row.Key.Team
		games[i] = row.Key.GameID
	}
	_ = out.SetText(boxscore.ColTeam, teams)
	_ = out.SetText(boxscore.ColGameID, games)
	for _, c := range teamColumns {
		vals := make([]boxscore.Value, n)
		for i, row := range rows {
			vals[i] = boxscore.Of(c.get(row))
		}
		_ = out.SetNumeric(c.name, vals)
	}
	return out
}

// MergeInto left-joins the aggregates onto t by (GAME_ID, TEAM), writing the
// TEAM_* columns. Rows without a matching group get missing team columns.
func (a *TeamAggregation) MergeInto(t *boxscore.Table) error {
	teams, err := t.Text(boxscore.ColTeam)
	if err != nil {
		return err
	}
	games, err := t.Text(boxscore.ColGameID)
	if err != nil {
		return err
	}

	merged := make([][]boxscore.Value, len(teamColumns))
	for c := range merged {
		merged[c] = make([]boxscore.Value, t.Len())
	}
	for r := 0; r < t.Len(); r++ {
		row, ok := a.Lookup(TeamKey{GameID: games[r], Team: teams[r]})
		if !ok {
			continue
		}
		for c, col := range teamColumns {
			merged[c][r] = boxscore.Of(col.get(row))
		}
	}
	for c, col := range teamColumns {
		if err := t.SetNumeric(col.name, merged[c]); err != nil {
			return err
		}
	}
	return nil
}

var teamColumns = []struct {
	name string
	get  func(TeamAggregate) float64
}{
	{boxscore.ColTeamMinutes, func(r TeamAggregate) float64 { return r.Minutes }},
	{boxscore.ColTeamFGM, func(r TeamAggregate) float64 { return r.FGM }},
	{boxscore.ColTeamFGA, func(r TeamAggregate) float64 { return r.FGA }},
	{boxscore.ColTeamFTA, func(r TeamAggregate) float64 { return r.FTA }},
	{boxscore.ColTeamOREB, func(r TeamAggregate) float64 { return r.OREB }},
	{boxscore.ColTeamTurnovers, func(r TeamAggregate) float64 { return r.Turnovers }},
	{boxscore.ColTeamPoints, func(r TeamAggregate) float64 { return r.Points }},
	{boxscore.ColTeamPossessions, func(r TeamAggregate) float64 { return r.Possessions }},
}
