package boxscore

// Input columns of a player box-score row.
const (
	ColGameID        = "GAME_ID"
	ColTeam          = "TEAM"
	ColPlayerID      = "PLAYER_ID"
	ColPlayerName    = "PLAYER_NAME"
	ColStartPosition = "START_POSITION"
	ColMinutes       = "MIN"
	ColPoints        = "PTS"
	ColFGM           = "FGM"
	ColFGA           = "FGA"
	ColFG3M          = "FG3M"
	ColFG3A          = "FG3A"
	ColFTM           = "FTM"
	ColFTA           = "FTA"
	ColOREB          = "OREB"
	ColTurnovers     = "TO"
	ColAssists       = "AST"
)

// Team aggregate columns merged onto player rows.
const (
	ColTeamMinutes     = "TEAM_MIN"
	ColTeamFGM         = "TEAM_FGM"
	ColTeamFGA         = "TEAM_FGA"
	ColTeamFTA         = "TEAM_FTA"
	ColTeamOREB        = "TEAM_OREB"
	ColTeamTurnovers   = "TEAM_TO"
	ColTeamPoints      = "TEAM_PTS"
	ColTeamPossessions = "TEAM_POSS"
)

// KeyColumns are the identity columns of a player row; they are carried as text.
var KeyColumns = []string{ColGameID, ColTeam, ColPlayerID, ColPlayerName}

// NumericColumns are the required counting stats of a player row.
var NumericColumns = []string{
	ColMinutes, ColPoints,
	ColFGM, ColFGA, ColFG3M, ColFG3A, ColFTM, ColFTA,
	ColOREB, ColTurnovers, ColAssists,
}

// RequiredColumns returns every column a player row must carry, keys first.
func RequiredColumns() []string {
	out := make([]string, 0, len(KeyColumns)+len(NumericColumns))
	out = append(out, KeyColumns...)
	return append(out, NumericColumns...)
}
