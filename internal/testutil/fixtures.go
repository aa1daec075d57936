package testutil

import (
	"github.com/preston-bernstein/nba-advanced-stats/internal/domain/boxscore"
)

// BoxScoreCSV is one game between BOS and NYK in games_details layout. The
// bench row did not play: blank minutes and zero attempts.
const BoxScoreCSV = `GAME_ID,TEAM,TEAM_CITY,NICKNAME,PLAYER_ID,PLAYER_NAME,START_POSITION,MIN,PTS,FGM,FGA,FG3M,FG3A,FTM,FTA,OREB,TO,AST
0022200001,BOS,Boston,Jayson,1628369,Jayson Tatum,F,36:30,30,10,20,4,9,6,7,1,3,5
0022200001,BOS,Boston,Jaylen,1627759,Jaylen Brown,G,34:00,20,8,16,2,6,2,2,2,2,3
0022200001,BOS,Boston,Bench,1630202,Bench Guy,,,0,0,0,0,0,0,0,0,0,0
0022200001,NYK,New York,Jalen,1628973,Jalen Brunson,G,38,28,11,22,2,5,4,5,0,4,7
0022200001,NYK,New York,Julius,203944,Julius Randle,F,30:30,15,6,15,1,4,2,4,3,1,2
`

// Expected team aggregates for BoxScoreCSV.
const (
	BOSTeamPossessions = 41.96
	NYKTeamPossessions = 42.96
	BOSTeamMinutes     = 70.5
	NYKTeamMinutes     = 68.5
)

type sampleRow struct {
	game, team, id, name, pos string
	stats                     [11]float64 // MIN PTS FGM FGA FG3M FG3A FTM FTA OREB TO AST
}

var sampleRows = []sampleRow{
	{"0022200001", "BOS", "1628369", "Jayson Tatum", "F", [11]float64{36.5, 30, 10, 20, 4, 9, 6, 7, 1, 3, 5}},
	{"0022200001", "BOS", "1627759", "Jaylen Brown", "G", [11]float64{34, 20, 8, 16, 2, 6, 2, 2, 2, 2, 3}},
	{"0022200001", "BOS", "1630202", "Bench Guy", "", [11]float64{}},
	{"0022200001", "NYK", "1628973", "Jalen Brunson", "G", [11]float64{38, 28, 11, 22, 2, 5, 4, 5, 0, 4, 7}},
	{"0022200001", "NYK", "203944", "Julius Randle", "F", [11]float64{30.5, 15, 6, 15, 1, 4, 2, 4, 3, 1, 2}},
}

// SampleBoxScore returns BoxScoreCSV as an already-parsed table, without
// the columns the games_details preprocessing drops.
func SampleBoxScore() *boxscore.Table {
	t := boxscore.NewTable(len(sampleRows))
	text := map[string]func(sampleRow) string{
		boxscore.ColGameID:        func(r sampleRow) string { return r.game },
		boxscore.ColTeam:          func(r sampleRow) string { return r.team },
		boxscore.ColPlayerID:      func(r sampleRow) string { return r.id },
		boxscore.ColPlayerName:    func(r sampleRow) string { return r.name },
		boxscore.ColStartPosition: func(r sampleRow) string { return r.pos },
	}
	for _, name := range []string{boxscore.ColGameID, boxscore.ColTeam, boxscore.ColPlayerID, boxscore.ColPlayerName, boxscore.ColStartPosition} {
		vals := make([]string, len(sampleRows))
		for i, r := range sampleRows {
			vals[i] = text[name](r)
		}
		mustSet(t.SetText(name, vals))
	}
	for c, name := range boxscore.NumericColumns {
		vals := make([]boxscore.Value, len(sampleRows))
		for i, r := range sampleRows {
			vals[i] = boxscore.Of(r.stats[c])
		}
		mustSet(t.SetNumeric(name, vals))
	}
	return t
}

// NumericTable builds a table from named float columns of equal length.
// A NaN cell becomes missing.
func NumericTable(cols map[string][]float64) *boxscore.Table {
	rows := -1
	for _, vals := range cols {
		rows = len(vals)
		break
	}
	if rows < 0 {
		rows = 0
	}
	t := boxscore.NewTable(rows)
	for name, vals := range cols {
		mustSet(t.SetNumeric(name, boxscore.Floats(vals...)))
	}
	return t
}

func mustSet(err error) {
	if err != nil {
		panic(err)
	}
}
