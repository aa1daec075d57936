package stats

import (
	"math"

	"github.com/preston-bernstein/nba-advanced-stats/internal/domain/boxscore"
)

// freeThrowWeight converts free-throw attempts into shooting possessions.
const freeThrowWeight = 0.44

// playerSlots is the number of players a team has on the floor.
const playerSlots = 5.0

// FieldGoalPct is 100 * FGM / FGA, masked where FGA <= 0.
func FieldGoalPct(t *boxscore.Table) ([]boxscore.Value, error) {
	return madePct(t, boxscore.ColFGM, boxscore.ColFGA)
}

// ThreePointPct is 100 * FG3M / FG3A, masked where FG3A <= 0.
func ThreePointPct(t *boxscore.Table) ([]boxscore.Value, error) {
	return madePct(t, boxscore.ColFG3M, boxscore.ColFG3A)
}

// FreeThrowPct is 100 * FTM / FTA, masked where FTA <= 0.
func FreeThrowPct(t *boxscore.Table) ([]boxscore.Value, error) {
	return madePct(t, boxscore.ColFTM, boxscore.ColFTA)
}

// EffectiveFieldGoalPct credits a made three as 1.5 field goals.
func EffectiveFieldGoalPct(t *boxscore.Table) ([]boxscore.Value, error) {
	return mapRows(t, []string{boxscore.ColFGM, boxscore.ColFG3M, boxscore.ColFGA}, func(x []float64) boxscore.Value {
		fgm, fg3m, fga := x[0], x[1], x[2]
		return percent(fgm+0.5*fg3m, fga)
	})
}

// TrueShootingPct is 100 * PTS / (2 * TSA), masked where TSA <= 0.
func TrueShootingPct(t *boxscore.Table) ([]boxscore.Value, error) {
	return mapRows(t, []string{boxscore.ColPoints, boxscore.ColFGA, boxscore.ColFTA}, func(x []float64) boxscore.Value {
		pts, fga, fta := x[0], x[1], x[2]
		tsa := TrueShootingAttempts(fga, fta)
		if tsa <= 0 {
			return boxscore.Null
		}
		return percent(pts, 2*tsa)
	})
}

// UsagePct estimates the share of team possessions a player used while on
// the floor. Needs TEAM_MIN and TEAM_POSS merged onto the rows.
func UsagePct(t *boxscore.Table) ([]boxscore.Value, error) {
	cols := []string{
		boxscore.ColFGA, boxscore.ColFTA, boxscore.ColTurnovers, boxscore.ColMinutes,
		boxscore.ColTeamMinutes, boxscore.ColTeamPossessions,
	}
	return mapRows(t, cols, func(x []float64) boxscore.Value {
		fga, fta, to, min, teamMin, teamPoss := x[0], x[1], x[2], x[3], x[4], x[5]
		if min <= 0 || teamPoss <= 0 {
			return boxscore.Null
		}
		poss := PlayerPossessionCount(fga, fta, to)
		return percent(poss*(teamMin/playerSlots), min*teamPoss)
	})
}

// TurnoverPct is 100 * TO / POSS, masked where POSS <= 0.
func TurnoverPct(t *boxscore.Table) ([]boxscore.Value, error) {
	return mapRows(t, []string{boxscore.ColTurnovers, boxscore.ColFGA, boxscore.ColFTA}, func(x []float64) boxscore.Value {
		to, fga, fta := x[0], x[1], x[2]
		return percent(to, PlayerPossessionCount(fga, fta, to))
	})
}

// AssistPct estimates the share of teammate field goals a player assisted
// while on the floor. The denominator is masked whenever it is <= 0,
// including an undefined one from a non-positive TEAM_MIN.
func AssistPct(t *boxscore.Table) ([]boxscore.Value, error) {
	cols := []string{
		boxscore.ColAssists, boxscore.ColMinutes, boxscore.ColFGM,
		boxscore.ColTeamMinutes, boxscore.ColTeamFGM,
	}
	return mapRows(t, cols, func(x []float64) boxscore.Value {
		ast, min, fgm, teamMin, teamFGM := x[0], x[1], x[2], x[3], x[4]
		if teamMin <= 0 {
			return boxscore.Null
		}
		den := (min/(teamMin/playerSlots))*teamFGM - fgm
		return percent(ast, den)
	})
}

// PointsPerPossession is PTS / POSS, masked where POSS <= 0. Not clamped.
func PointsPerPossession(t *boxscore.Table) ([]boxscore.Value, error) {
	return mapRows(t, []string{boxscore.ColPoints, boxscore.ColFGA, boxscore.ColFTA, boxscore.ColTurnovers}, func(x []float64) boxscore.Value {
		pts, fga, fta, to := x[0], x[1], x[2], x[3]
		poss := PlayerPossessionCount(fga, fta, to)
		if poss <= 0 {
			return boxscore.Null
		}
		return boxscore.Of(round2(pts / poss))
	})
}

// PlayerPossessions is the player possession estimate TSA + TO.
func PlayerPossessions(t *boxscore.Table) ([]boxscore.Value, error) {
	return mapRows(t, []string{boxscore.ColFGA, boxscore.ColFTA, boxscore.ColTurnovers}, func(x []float64) boxscore.Value {
		return boxscore.Of(round2(PlayerPossessionCount(x[0], x[1], x[2])))
	})
}

// TrueShootingAttempts is FGA + 0.44 * FTA.
func TrueShootingAttempts(fga, fta float64) float64 {
	return fga + freeThrowWeight*fta
}

// PlayerPossessionCount is TSA + TO.
func PlayerPossessionCount(fga, fta, to float64) float64 {
	return TrueShootingAttempts(fga, fta) + to
}

// TeamPossessionCount subtracts offensive rebounds, which extend a possession
// rather than start a new one.
func TeamPossessionCount(fga, fta, oreb, to float64) float64 {
	return TrueShootingAttempts(fga, fta) - oreb + to
}

func madePct(t *boxscore.Table, made, attempts string) ([]boxscore.Value, error) {
	return mapRows(t, []string{made, attempts}, func(x []float64) boxscore.Value {
		return percent(x[0], x[1])
	})
}

// mapRows evaluates fn on every row whose inputs are all present; rows with
// a missing input stay missing.
func mapRows(t *boxscore.Table, names []string, fn func(x []float64) boxscore.Value) ([]boxscore.Value, error) {
	cols := make([][]boxscore.Value, len(names))
	for i, name := range names {
		col, err := t.Numeric(name)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}

	out := make([]boxscore.Value, t.Len())
	x := make([]float64, len(names))
rows:
	for r := range out {
		for i, col := range cols {
			if !col[r].Valid {
				continue rows
			}
			x[i] = col[r].Float
		}
		out[r] = fn(x)
	}
	return out, nil
}

// percent masks non-positive denominators and clamps to [0, 100].
func percent(num, den float64) boxscore.Value {
	if den <= 0 {
		return boxscore.Null
	}
	return boxscore.Of(round2(clamp(100*num/den, 0, 100)))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
